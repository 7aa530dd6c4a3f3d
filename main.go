package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/pkg/rabbitmq"
)

const (
	portFlag   = "port"
	driverFlag = "driver"
	queueFlag  = "queue"
)

var serveFlags = map[string]cobraflags.Flag{
	portFlag: &cobraflags.StringFlag{
		Name:  portFlag,
		Value: "",
		Usage: "Listen address, overrides APP_PORT (e.g. :8080)",
	},
	driverFlag: &cobraflags.StringFlag{
		Name:  driverFlag,
		Value: "",
		Usage: "Storage driver (postgres, sqlite, memory), overrides DATABASE_DRIVER",
	},
}

var migrateFlags = map[string]cobraflags.Flag{
	driverFlag: &cobraflags.StringFlag{
		Name:  driverFlag,
		Value: "",
		Usage: "Storage driver (postgres, sqlite), overrides DATABASE_DRIVER",
	},
}

var eventsFlags = map[string]cobraflags.Flag{
	queueFlag: &cobraflags.StringFlag{
		Name:  queueFlag,
		Value: "inventory-events",
		Usage: "Queue bound to every inventory event",
	},
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "inventory",
		Short:        "Store and product inventory service",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newServeCommand(), newMigrateCommand(), newEventsCommand())
	return rootCmd
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the inventory HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(serveFlags[portFlag].GetString(), serveFlags[driverFlag].GetString())
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the inventory tables",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig("", migrateFlags[driverFlag].GetString())
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.Database)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Println("Database schema is up to date")
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, migrateFlags)
	return cmd
}

func newEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Consume inventory events and write them to the log",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig("", "")
			if err != nil {
				return err
			}
			if !cfg.RabbitMQ.Enabled() {
				return fmt.Errorf("RABBITMQ_URL must be set to consume events")
			}

			mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange})
			if err != nil {
				return err
			}
			defer mqClient.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return mqClient.Consume(ctx, eventsFlags[queueFlag].GetString(), rabbitmq.LogEvent)
		},
	}
	cobraflags.RegisterMap(cmd, eventsFlags)
	return cmd
}

// loadConfig reads .env and the environment; non-empty flag values win.
func loadConfig(port, driver string) (config.Config, error) {
	config.LoadDotEnv(".env")
	v := config.NewViper()
	if port != "" {
		v.Set("APP_PORT", port)
	}
	if driver != "" {
		v.Set("DATABASE_DRIVER", driver)
	}
	return config.Load(v)
}

func serve(cfg config.Config) error {
	app, cleanup, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.Port)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.Port)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}
