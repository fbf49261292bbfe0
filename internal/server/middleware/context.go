package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/pedigree/backend/internal/storage"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/analysis"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/chat"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/extract"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"
	lio "github.com/OFFIS-RIT/pedigree/backend/pkg/loader/io"
)

// App holds the services shared by all handlers. S3Loader and Store are nil
// when no bucket is configured.
type App struct {
	Analysis  *analysis.Engine
	Chat      *chat.Engine
	Extractor *extract.Extractor
	Uploads   *lio.MemoryFileLoader
	S3Loader  loader.FileLoader
	Store     *storage.Store

	MaxUploadBytes int64
}

type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware makes app available to handlers through AppContext.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}

// GetApp returns the App of the request.
func GetApp(c echo.Context) *App {
	return c.(*AppContext).App
}
