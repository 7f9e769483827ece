package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/servicampo-api/internal/application/inventory"
	"github.com/jhoicas/servicampo-api/internal/application/lifecycle"
	"github.com/jhoicas/servicampo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/servicampo-api/internal/interfaces/http"
	"github.com/jhoicas/servicampo-api/pkg/bus"
	"github.com/jhoicas/servicampo-api/pkg/config"
	"github.com/jhoicas/servicampo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewInventoryItemRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	interventionRepo := postgres.NewInterventionRepository(pool)
	purchaseRepo := postgres.NewPurchaseOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	engine := inventory.NewReservationEngine(txRunner, log)
	aggregator := inventory.NewStockAggregator(txRunner, itemRepo, log)
	resolver := inventory.NewLineResolver(itemRepo, log)

	// Bus de eventos: los editores publican después de guardar y los
	// convertidores de ciclo de vida traducen cada evento a operaciones
	// del motor de reservas.
	eventBus := bus.New(log)
	quoteConverter := lifecycle.NewQuoteConverter(quoteRepo, resolver, engine, log)
	jobConverter := lifecycle.NewInterventionConverter(interventionRepo, quoteRepo, resolver, engine, log)
	purchaseConverter := lifecycle.NewPurchaseConverter(purchaseRepo, resolver, engine, log)
	lifecycle.RegisterHandlers(eventBus, quoteConverter, jobConverter, purchaseConverter)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ServiCampo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemRepo:         itemRepo,
		MovementRepo:     movementRepo,
		QuoteRepo:        quoteRepo,
		InterventionRepo: interventionRepo,
		PurchaseRepo:     purchaseRepo,
		Engine:           engine,
		Aggregator:       aggregator,
		Bus:              eventBus,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
