package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/promptdeck/backend/internal/queue"
	"github.com/promptdeck/backend/internal/server/middleware"
	"github.com/promptdeck/backend/internal/store"
	"github.com/promptdeck/backend/pkg/logger"
)

func DeletePromptHandler(c echo.Context) error {
	type deletePromptParams struct {
		ID string `param:"id" validate:"required"`
	}

	type deletePromptResponse struct {
		Message string `json:"message"`
	}

	params := new(deletePromptParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deletePromptResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deletePromptResponse{
			Message: "Invalid request params",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	err := app.Store.DeletePrompt(ctx, params.ID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, deletePromptResponse{
			Message: "Prompt not found",
		})
	}
	if err != nil {
		logger.Error("Failed to delete prompt", "id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, deletePromptResponse{
			Message: "Internal server error",
		})
	}

	queue.PublishGalaxyRefresh(app.Queue, "prompt_deleted", params.ID)

	return c.JSON(http.StatusOK, deletePromptResponse{
		Message: "Prompt deleted successfully",
	})
}
