package middleware

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/promptdeck/backend/internal/store"
	"github.com/promptdeck/backend/pkg/galaxy"
)

// App bundles the shared clients every handler needs. S3 is nil when no
// object storage is configured; everything else is required at startup.
type App struct {
	DBConn *pgxpool.Pool
	Store  *store.Store
	Queue  *amqp091.Channel
	S3     *s3.Client
	Galaxy *galaxy.Builder
}

// AppContext extends the echo context with the application clients.
// Handlers unwrap it with c.(*middleware.AppContext).
type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}
