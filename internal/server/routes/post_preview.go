package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/promptdeck/backend/pkg/template"
)

// PreviewHandler renders content with variable values without touching
// any stored prompt; the editor calls it on every change.
func PreviewHandler(c echo.Context) error {
	type previewBody struct {
		Content string            `json:"content" validate:"required"`
		Values  map[string]string `json:"values"`
	}

	type previewResponse struct {
		Message   string   `json:"message"`
		Text      string   `json:"text"`
		Variables []string `json:"variables,omitempty"`
		Missing   []string `json:"missing,omitempty"`
	}

	data := new(previewBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, previewResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, previewResponse{
			Message: "Invalid request body",
		})
	}

	text, missing := template.Preview(data.Content, data.Values)

	return c.JSON(http.StatusOK, previewResponse{
		Message:   "Preview rendered",
		Text:      text,
		Variables: template.Extract(data.Content),
		Missing:   missing,
	})
}
