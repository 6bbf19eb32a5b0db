package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/promptdeck/backend/internal/queue"
	"github.com/promptdeck/backend/internal/server/middleware"
	"github.com/promptdeck/backend/internal/store"
	"github.com/promptdeck/backend/pkg/common"
	"github.com/promptdeck/backend/pkg/logger"
	"github.com/promptdeck/backend/pkg/template"
)

func EditPromptHandler(c echo.Context) error {
	type editPromptBody struct {
		ID        string         `param:"id" validate:"required"`
		Title     string         `json:"title" validate:"required,min=3,max=200"`
		Content   string         `json:"content" validate:"required,min=10,max=10000"`
		Category  string         `json:"category" validate:"omitempty,min=1,max=50"`
		Tags      []string       `json:"tags" validate:"omitempty,dive,min=1,max=30"`
		Variables []variableBody `json:"variables" validate:"omitempty,dive"`
	}

	type editPromptResponse struct {
		Message string         `json:"message"`
		Prompt  *common.Prompt `json:"prompt,omitempty"`
	}

	data := new(editPromptBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, editPromptResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, editPromptResponse{
			Message: "Invalid request body",
		})
	}

	variables, err := toVariables(data.Variables)
	if err != nil {
		return c.JSON(http.StatusBadRequest, editPromptResponse{
			Message: err.Error(),
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	// Submitted definitions win for names still referenced; definitions
	// stored earlier survive for names the client did not resend.
	existing, err := app.Store.GetPrompt(ctx, data.ID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, editPromptResponse{
			Message: "Prompt not found",
		})
	}
	if err != nil {
		logger.Error("Failed to load prompt", "id", data.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, editPromptResponse{
			Message: "Internal server error",
		})
	}
	merged := append(variables, existing.Variables...)

	prompt, err := app.Store.UpdatePrompt(ctx, common.Prompt{
		ID:        data.ID,
		Title:     data.Title,
		Content:   data.Content,
		Category:  data.Category,
		Tags:      data.Tags,
		Variables: template.Reconcile(data.Content, merged),
	})
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, editPromptResponse{
			Message: "Prompt not found",
		})
	}
	if err != nil {
		logger.Error("Failed to update prompt", "id", data.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, editPromptResponse{
			Message: "Internal server error",
		})
	}

	queue.PublishGalaxyRefresh(app.Queue, "prompt_updated", prompt.ID)

	return c.JSON(http.StatusOK, editPromptResponse{
		Message: "Prompt updated successfully",
		Prompt:  &prompt,
	})
}
