package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/promptdeck/backend/internal/server/middleware"
	"github.com/promptdeck/backend/internal/store"
	"github.com/promptdeck/backend/pkg/common"
	"github.com/promptdeck/backend/pkg/logger"
)

func GetPromptsHandler(c echo.Context) error {
	type listPromptsQuery struct {
		Query     string `query:"query"`
		Category  string `query:"category"`
		Tags      string `query:"tags"`
		Favorites bool   `query:"favorites"`
		SortBy    string `query:"sort_by"`
		SortOrder string `query:"sort_order"`
		Page      int    `query:"page" validate:"omitempty,min=1"`
		PerPage   int    `query:"per_page" validate:"omitempty,min=1,max=100"`
	}

	type listPromptsResponse struct {
		Message string          `json:"message"`
		Prompts []common.Prompt `json:"prompts"`
		Page    int             `json:"page"`
		PerPage int             `json:"per_page"`
	}

	params := new(listPromptsQuery)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, listPromptsResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, listPromptsResponse{
			Message: "Invalid request params",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	// Stored preferences fill in whatever the request leaves out.
	settings, err := app.Store.GetSettings(ctx)
	if err != nil {
		logger.Error("Failed to load settings for listing", "err", err)
		settings = store.DefaultSettings()
	}
	if params.SortBy == "" {
		params.SortBy = settings.SortBy
	}
	if params.SortOrder == "" {
		params.SortOrder = settings.SortOrder
	}
	if params.PerPage == 0 {
		params.PerPage = settings.ItemsPerPage
	}
	if params.Page == 0 {
		params.Page = 1
	}

	var tags []string
	for _, tag := range strings.Split(params.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	prompts, err := app.Store.ListPrompts(ctx, store.ListFilter{
		Query:         params.Query,
		Category:      params.Category,
		Tags:          tags,
		FavoritesOnly: params.Favorites,
		SortBy:        params.SortBy,
		SortOrder:     params.SortOrder,
		Limit:         params.PerPage,
		Offset:        (params.Page - 1) * params.PerPage,
	})
	if err != nil {
		logger.Error("Failed to list prompts", "err", err)
		return c.JSON(http.StatusInternalServerError, listPromptsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, listPromptsResponse{
		Message: "Prompts loaded",
		Prompts: prompts,
		Page:    params.Page,
		PerPage: params.PerPage,
	})
}

func GetPromptHandler(c echo.Context) error {
	type getPromptParams struct {
		ID string `param:"id" validate:"required"`
	}

	type getPromptResponse struct {
		Message string         `json:"message"`
		Prompt  *common.Prompt `json:"prompt,omitempty"`
	}

	params := new(getPromptParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getPromptResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getPromptResponse{
			Message: "Invalid request params",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	prompt, err := app.Store.GetPrompt(ctx, params.ID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, getPromptResponse{
			Message: "Prompt not found",
		})
	}
	if err != nil {
		logger.Error("Failed to load prompt", "id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, getPromptResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getPromptResponse{
		Message: "Prompt found",
		Prompt:  &prompt,
	})
}
