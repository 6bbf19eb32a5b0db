package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/promptdeck/backend/internal/server/middleware"
	"github.com/promptdeck/backend/internal/store"
	"github.com/promptdeck/backend/pkg/logger"
)

func GetCategoriesHandler(c echo.Context) error {
	type categoriesResponse struct {
		Message    string   `json:"message"`
		Categories []string `json:"categories"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	categories, err := app.Store.Categories(ctx)
	if err != nil {
		logger.Error("Failed to load categories", "err", err)
		return c.JSON(http.StatusInternalServerError, categoriesResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, categoriesResponse{
		Message:    "Categories loaded",
		Categories: categories,
	})
}

func GetTagsHandler(c echo.Context) error {
	type tagsResponse struct {
		Message string   `json:"message"`
		Tags    []string `json:"tags"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	tags, err := app.Store.TagNames(ctx)
	if err != nil {
		logger.Error("Failed to load tags", "err", err)
		return c.JSON(http.StatusInternalServerError, tagsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, tagsResponse{
		Message: "Tags loaded",
		Tags:    tags,
	})
}

// GetFacetsHandler returns category and tag counts for the prompts
// matching a search, so filter chips can show result counts.
func GetFacetsHandler(c echo.Context) error {
	type facetsQuery struct {
		Query     string `query:"query"`
		Category  string `query:"category"`
		Tags      string `query:"tags"`
		Favorites bool   `query:"favorites"`
	}

	type facetsResponse struct {
		Message string        `json:"message"`
		Facets  *store.Facets `json:"facets,omitempty"`
	}

	params := new(facetsQuery)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, facetsResponse{
			Message: "Invalid request params",
		})
	}

	var tags []string
	for _, tag := range strings.Split(params.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	facets, err := app.Store.Facets(ctx, store.ListFilter{
		Query:         params.Query,
		Category:      params.Category,
		Tags:          tags,
		FavoritesOnly: params.Favorites,
	})
	if err != nil {
		logger.Error("Failed to load facets", "err", err)
		return c.JSON(http.StatusInternalServerError, facetsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, facetsResponse{
		Message: "Facets loaded",
		Facets:  &facets,
	})
}

func GetStatsHandler(c echo.Context) error {
	type statsResponse struct {
		Message string              `json:"message"`
		Stats   *store.LibraryStats `json:"stats,omitempty"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	stats, err := app.Store.LibraryStats(ctx)
	if err != nil {
		logger.Error("Failed to load library stats", "err", err)
		return c.JSON(http.StatusInternalServerError, statsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, statsResponse{
		Message: "Stats loaded",
		Stats:   &stats,
	})
}
