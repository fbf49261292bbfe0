package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/pedigree/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/chat"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
)

// ChatHandler processes one chat message and returns the updated pedigree
// with an optional follow-up question.
func ChatHandler(c echo.Context) error {
	type chatBody struct {
		History []chat.Message `json:"history" validate:"dive"`
		Message string         `json:"message" validate:"required"`
	}

	data := new(chatBody)
	if err := c.Bind(data); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidBody(c)
	}

	app := middleware.GetApp(c)
	resp, err := app.Chat.ProcessUserMessage(c.Request().Context(), data.History, data.Message)
	if err != nil {
		// The client sent a valid message; the model answered with an
		// unusable pedigree.
		var validationErr *pedigree.ValidationError
		if errors.As(err, &validationErr) {
			return c.JSON(http.StatusBadGateway, messageResponse{Message: validationErr.Reason})
		}
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}
