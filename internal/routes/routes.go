package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/httpay/httpay/internal/blocklog"
	"github.com/httpay/httpay/internal/blocks"
	"github.com/httpay/httpay/internal/config"
	"github.com/httpay/httpay/internal/keyreg"
	"github.com/httpay/httpay/internal/ledger"
	"github.com/httpay/httpay/internal/middleware"
	"github.com/httpay/httpay/internal/transfers"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Outside dev the in-memory fallbacks are not acceptable.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	retry := blocklog.RetryPolicy{MaxAttempts: d.Cfg.AppendMaxRetries, Backoff: d.Cfg.AppendBackoff}

	var (
		ledgerBackend ledger.Ledger
		logBackend    blocklog.Log
		keyRepo       keyreg.Repository
	)
	if d.DB != nil {
		ledgerBackend = ledger.NewPostgresLedger(d.DB)
		logBackend = blocklog.NewPostgresLog(d.DB, retry)
		keyRepo = keyreg.NewPostgresRepository(d.DB)
	} else {
		ledgerBackend = ledger.NewInMemory()
		logBackend = blocklog.NewInMemory()
		keyRepo = keyreg.NewMemoryRepository()
	}

	transferHandler := transfers.NewHandler(transfers.NewService(ledgerBackend))
	blockHandler := blocks.NewHandler(blocks.NewService(logBackend))
	keyHandler := keyreg.NewHandler(keyreg.NewService(keyRepo))

	api := app.Group("/api/v1")
	RegisterTransferRoutes(api, transferHandler)
	RegisterBlockRoutes(api, blockHandler)
	RegisterKeyRoutes(api, keyHandler)

	return nil
}
