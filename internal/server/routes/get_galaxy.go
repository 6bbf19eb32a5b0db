package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/promptdeck/backend/internal/queue"
	"github.com/promptdeck/backend/internal/server/middleware"
	"github.com/promptdeck/backend/internal/store"
	"github.com/promptdeck/backend/pkg/galaxy"
	"github.com/promptdeck/backend/pkg/logger"
)

// snapshotMaxAge bounds how stale a cached galaxy may be before a read
// rebuilds it synchronously. The worker normally refreshes long before
// this.
const snapshotMaxAge = 10 * time.Minute

type galaxyQuery struct {
	Threshold     *float64 `query:"threshold" validate:"omitempty,gte=0,lte=1"`
	Category      string   `query:"category"`
	FavoritesOnly bool     `query:"favorites_only"`
	Seed          int64    `query:"seed"`
}

func (q *galaxyQuery) isDefaultView() bool {
	return q.Threshold == nil && q.Category == "" && !q.FavoritesOnly && q.Seed == 0
}

// buildGalaxy answers from the cached snapshot when the default view is
// requested and the cache is fresh; anything else pays for a synchronous
// build. The O(n²) pairwise pass makes the cache worth having.
func buildGalaxy(c echo.Context, params *galaxyQuery) (galaxy.Galaxy, error) {
	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	if params.isDefaultView() {
		if data, err := app.Store.GetGalaxySnapshot(ctx, queue.DefaultSnapshotSignature, snapshotMaxAge); err == nil {
			var cached galaxy.Galaxy
			if err := json.Unmarshal(data, &cached); err != nil {
				logger.Warn("Discarding undecodable galaxy snapshot", "err", err)
			} else {
				return cached, nil
			}
		}
	}

	builder := app.Galaxy
	if params.Threshold != nil || params.Seed != 0 {
		cfg := builder.Config()
		if params.Threshold != nil {
			cfg.Threshold = *params.Threshold
		}
		cfg.Seed = params.Seed
		tuned, err := galaxy.NewBuilder(cfg)
		if err != nil {
			return galaxy.Galaxy{}, err
		}
		builder = tuned
	}

	prompts, err := app.Store.ListPrompts(ctx, store.ListFilter{})
	if err != nil {
		return galaxy.Galaxy{}, err
	}

	result := builder.Build(prompts, galaxy.Filter{
		Category:      params.Category,
		FavoritesOnly: params.FavoritesOnly,
	})

	if params.isDefaultView() {
		if data, err := json.Marshal(result); err == nil {
			if err := app.Store.SaveGalaxySnapshot(ctx, queue.DefaultSnapshotSignature, data); err != nil {
				logger.Error("Failed to cache galaxy snapshot", "err", err)
			}
		}
	}
	return result, nil
}

func GetGalaxyHandler(c echo.Context) error {
	type galaxyResponse struct {
		Message string         `json:"message"`
		Galaxy  *galaxy.Galaxy `json:"galaxy,omitempty"`
	}

	params := new(galaxyQuery)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, galaxyResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, galaxyResponse{
			Message: "Invalid request params",
		})
	}

	result, err := buildGalaxy(c, params)
	if err != nil {
		logger.Error("Failed to build galaxy", "err", err)
		return c.JSON(http.StatusInternalServerError, galaxyResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, galaxyResponse{
		Message: "Galaxy built",
		Galaxy:  &result,
	})
}

func GetGalaxyStatsHandler(c echo.Context) error {
	type galaxyStatsResponse struct {
		Message string        `json:"message"`
		Stats   *galaxy.Stats `json:"stats,omitempty"`
	}

	params := new(galaxyQuery)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, galaxyStatsResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, galaxyStatsResponse{
			Message: "Invalid request params",
		})
	}

	result, err := buildGalaxy(c, params)
	if err != nil {
		logger.Error("Failed to build galaxy stats", "err", err)
		return c.JSON(http.StatusInternalServerError, galaxyStatsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, galaxyStatsResponse{
		Message: "Galaxy stats built",
		Stats:   &result.Stats,
	})
}
