package routes

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/pedigree/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/analysis"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
)

// readPedigree loads the request body as a pedigree payload.
func readPedigree(c echo.Context) (pedigree.Pedigree, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return pedigree.Pedigree{}, err
	}
	return pedigree.LoadPayload(string(body))
}

// ValidatePedigreeHandler returns the normalized pedigree for a raw payload.
func ValidatePedigreeHandler(c echo.Context) error {
	p, err := readPedigree(c)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// AnalyzePedigreeHandler validates the payload and runs the risk analysis.
func AnalyzePedigreeHandler(c echo.Context) error {
	type analyzeResponse struct {
		Pedigree pedigree.Pedigree `json:"pedigree"`
		Analysis analysis.Result   `json:"analysis"`
	}

	p, err := readPedigree(c)
	if err != nil {
		return errorResponse(c, err)
	}

	app := middleware.GetApp(c)
	return c.JSON(http.StatusOK, analyzeResponse{
		Pedigree: p,
		Analysis: app.Analysis.Analyze(p),
	})
}

// PseudonymizePedigreeHandler replaces every name with its pseudonym.
func PseudonymizePedigreeHandler(c echo.Context) error {
	p, err := readPedigree(c)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, pedigree.Pseudonymize(p))
}
