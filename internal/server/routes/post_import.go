package routes

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/promptdeck/backend/internal/queue"
	"github.com/promptdeck/backend/internal/server/middleware"
	"github.com/promptdeck/backend/pkg/logger"
)

// ImportHandler loads prompts from an export file posted as the request
// body. Bad records are skipped and counted, never fatal.
func ImportHandler(c echo.Context) error {
	type importResponse struct {
		Message  string `json:"message"`
		Imported int    `json:"imported"`
		Skipped  int    `json:"skipped"`
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, importResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	imported, skipped, err := app.Store.ImportJSON(ctx, body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, importResponse{
			Message: "Import file is not a valid export",
		})
	}

	logger.Info("Library import finished", "imported", imported, "skipped", skipped)
	if imported > 0 {
		queue.PublishGalaxyRefresh(app.Queue, "library_imported", "")
	}

	return c.JSON(http.StatusOK, importResponse{
		Message:  "Import finished",
		Imported: imported,
		Skipped:  skipped,
	})
}
