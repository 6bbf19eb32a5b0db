package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/promptdeck/backend/internal/server/middleware"
	"github.com/promptdeck/backend/internal/storage"
	"github.com/promptdeck/backend/pkg/logger"
)

// ExportHandler downloads the whole library as a JSON file. When object
// storage is configured the export is also backed up there; backup
// failures never fail the download.
func ExportHandler(c echo.Context) error {
	type exportResponse struct {
		Message string `json:"message"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	data, err := app.Store.ExportJSON(ctx)
	if err != nil {
		logger.Error("Failed to export library", "err", err)
		return c.JSON(http.StatusInternalServerError, exportResponse{
			Message: "Internal server error",
		})
	}

	now := time.Now().UTC()
	filename := fmt.Sprintf("prompts_export_%s.json", now.Format("20060102_150405"))

	if app.S3 != nil {
		if err := storage.PutExport(ctx, app.S3, filename, data); err != nil {
			logger.Error("Failed to back up export", "filename", filename, "err", err)
		}
	}

	if settings, err := app.Store.GetSettings(ctx); err == nil {
		exportedAt := now.Format(time.RFC3339)
		settings.LastExport = &exportedAt
		if err := app.Store.SaveSettings(ctx, settings); err != nil {
			logger.Error("Failed to record export time", "err", err)
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}
