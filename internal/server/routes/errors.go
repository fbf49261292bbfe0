package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/extract"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/logger"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
)

type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse maps domain errors to status codes. Validation reasons are
// shown to the client verbatim.
func errorResponse(c echo.Context, err error) error {
	var validationErr *pedigree.ValidationError
	var typeErr *loader.UnsupportedTypeError

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, messageResponse{Message: validationErr.Reason})
	case errors.As(err, &typeErr):
		return c.JSON(http.StatusUnsupportedMediaType, messageResponse{Message: typeErr.Error()})
	case errors.Is(err, extract.ErrNoAIClient):
		return c.JSON(http.StatusUnprocessableEntity, messageResponse{
			Message: "Image contains no pedigree QR code and OCR is not configured",
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, messageResponse{Message: "Request timed out"})
	default:
		logger.Error("Request failed", "path", c.Path(), "err", err)
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Internal server error"})
	}
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
}
