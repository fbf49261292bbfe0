package routes

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/pedigree/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/logger"
)

// ExtractUploadHandler extracts a pedigree from a multipart upload in the
// "file" field.
func ExtractUploadHandler(c echo.Context) error {
	app := middleware.GetApp(c)

	header, err := c.FormFile("file")
	if err != nil {
		return invalidBody(c)
	}
	if app.MaxUploadBytes > 0 && header.Size > app.MaxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, messageResponse{Message: "File too large"})
	}

	file, err := loader.NewUploadFile(loader.NewUploadFileParams{
		FilePath: header.Filename,
		Loader:   app.Uploads,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	src, err := header.Open()
	if err != nil {
		return invalidBody(c)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return invalidBody(c)
	}

	app.Uploads.Put(file.ID, content)
	defer app.Uploads.Delete(file.ID)

	logger.Debug("Extracting upload", "id", file.ID, "name", header.Filename, "size", header.Size)

	result, err := app.Extractor.FromUpload(c.Request().Context(), file)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ExtractObjectHandler extracts a pedigree from an object in the configured
// bucket.
func ExtractObjectHandler(c echo.Context) error {
	type extractObjectBody struct {
		Key string `json:"key" validate:"required"`
	}

	data := new(extractObjectBody)
	if err := c.Bind(data); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidBody(c)
	}

	app := middleware.GetApp(c)
	if app.S3Loader == nil {
		return c.JSON(http.StatusServiceUnavailable, messageResponse{Message: "Storage is not configured"})
	}

	file, err := loader.NewUploadFile(loader.NewUploadFileParams{
		ID:       data.Key,
		FilePath: data.Key,
		Loader:   app.S3Loader,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	result, err := app.Extractor.FromUpload(c.Request().Context(), file)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
