package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/handlers"
	"inventory/internal/middleware"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/pkg/rabbitmq"
	"inventory/pkg/tracing"
)

// NewApp wires storage, services and routes into a fiber app. The returned
// cleanup releases the database pool and broker connection.
func NewApp(cfg config.Config) (*fiber.App, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Printf("Error during cleanup: %v", err)
			}
		}
	}

	// --- Initialize Repositories ---
	var (
		productRepo repositories.ProductRepository
		storeRepo   repositories.StoreRepository
	)
	if cfg.Database.Driver == config.DriverMemory {
		memDB := repositories.NewMemoryDB()
		productRepo = repositories.NewMemoryProductRepository(memDB)
		storeRepo = repositories.NewMemoryStoreRepository(memDB)
	} else {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, cleanup, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to get database handle: %w", err)
		}
		closers = append(closers, sqlDB.Close)

		if cfg.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				cleanup()
				return nil, func() {}, err
			}
		}
		productRepo = repositories.NewGORMProductRepository(db)
		storeRepo = repositories.NewGORMStoreRepository(db)
	}

	// --- Initialize RabbitMQ Client ---
	var publisher services.EventPublisher
	if cfg.RabbitMQ.Enabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange})
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, mqClient.Close)
		publisher = mqClient
	} else {
		log.Println("RABBITMQ_URL is empty, inventory events are disabled")
	}

	// --- Initialize Services ---
	tracer := tracing.NewTracer()
	productService := services.NewProductService(productRepo, storeRepo, publisher, tracer)
	storeService := services.NewStoreService(storeRepo, productService, publisher, tracer)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{AppName: "inventory"})
	app.Use(logger.New())
	app.Use(middleware.RequestContext(cfg.RequestTimeout))

	handlers.NewProductHandler(productService).RegisterRoutes(app)
	handlers.NewStoreHandler(storeService, productService).RegisterRoutes(app)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": cfg.Database.Driver,
			"events":   cfg.RabbitMQ.Enabled(),
		})
	})

	return app, cleanup, nil
}
