package server

import (
	"github.com/labstack/echo/v4"

	"github.com/promptdeck/backend/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Prompt routes
	apiRoutes.GET("/prompts", routes.GetPromptsHandler)
	apiRoutes.POST("/prompts", routes.CreatePromptHandler)
	apiRoutes.GET("/prompts/:id", routes.GetPromptHandler)
	apiRoutes.PATCH("/prompts/:id", routes.EditPromptHandler)
	apiRoutes.DELETE("/prompts/:id", routes.DeletePromptHandler)
	apiRoutes.POST("/prompts/:id/favorite", routes.ToggleFavoriteHandler)
	apiRoutes.POST("/prompts/:id/use", routes.UsePromptHandler)

	// Template routes
	apiRoutes.POST("/preview", routes.PreviewHandler)

	// Galaxy routes
	apiRoutes.GET("/galaxy", routes.GetGalaxyHandler)
	apiRoutes.GET("/galaxy/stats", routes.GetGalaxyStatsHandler)

	// Catalog routes
	apiRoutes.GET("/categories", routes.GetCategoriesHandler)
	apiRoutes.GET("/tags", routes.GetTagsHandler)
	apiRoutes.GET("/facets", routes.GetFacetsHandler)
	apiRoutes.GET("/stats", routes.GetStatsHandler)

	// Library transfer routes
	apiRoutes.GET("/export", routes.ExportHandler)
	apiRoutes.POST("/import", routes.ImportHandler)

	// Settings routes
	apiRoutes.GET("/settings", routes.GetSettingsHandler)
	apiRoutes.PATCH("/settings", routes.EditSettingsHandler)
}
