package routes

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/promptdeck/backend/internal/server/middleware"
	"github.com/promptdeck/backend/internal/store"
	"github.com/promptdeck/backend/pkg/logger"
)

type settingsResponse struct {
	Message  string          `json:"message"`
	Settings *store.Settings `json:"settings,omitempty"`
}

func GetSettingsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	settings, err := app.Store.GetSettings(ctx)
	if err != nil {
		logger.Error("Failed to load settings", "err", err)
		return c.JSON(http.StatusInternalServerError, settingsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, settingsResponse{
		Message:  "Settings loaded",
		Settings: &settings,
	})
}

// EditSettingsHandler applies a partial update: the body is decoded over
// the stored document, so omitted keys keep their current values.
func EditSettingsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	settings, err := app.Store.GetSettings(ctx)
	if err != nil {
		logger.Error("Failed to load settings", "err", err)
		return c.JSON(http.StatusInternalServerError, settingsResponse{
			Message: "Internal server error",
		})
	}

	if err := json.NewDecoder(c.Request().Body).Decode(&settings); err != nil {
		return c.JSON(http.StatusBadRequest, settingsResponse{
			Message: "Invalid request body",
		})
	}
	if !validSettings(settings) {
		return c.JSON(http.StatusBadRequest, settingsResponse{
			Message: "Invalid settings values",
		})
	}

	if err := app.Store.SaveSettings(ctx, settings); err != nil {
		logger.Error("Failed to save settings", "err", err)
		return c.JSON(http.StatusInternalServerError, settingsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, settingsResponse{
		Message:  "Settings updated",
		Settings: &settings,
	})
}

func validSettings(s store.Settings) bool {
	return slices.Contains([]string{"auto", "light", "dark"}, s.Theme) &&
		slices.Contains([]string{"created_at", "updated_at", "title", "use_count"}, s.SortBy) &&
		slices.Contains([]string{"asc", "desc"}, s.SortOrder) &&
		s.ItemsPerPage >= 1 && s.ItemsPerPage <= 100
}
