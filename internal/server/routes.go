package server

import (
	"github.com/OFFIS-RIT/pedigree/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Pedigree routes
	apiRoutes.POST("/pedigree/validate", routes.ValidatePedigreeHandler)
	apiRoutes.POST("/pedigree/analyze", routes.AnalyzePedigreeHandler)
	apiRoutes.POST("/pedigree/pseudonymize", routes.PseudonymizePedigreeHandler)
	apiRoutes.POST("/pedigree/export/:format", routes.ExportPedigreeHandler)

	// Chat routes
	apiRoutes.POST("/chat", routes.ChatHandler)

	// Extraction routes
	apiRoutes.POST("/extract", routes.ExtractUploadHandler)
	apiRoutes.POST("/extract/s3", routes.ExtractObjectHandler)
}
