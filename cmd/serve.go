package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cogsaver/core/config"
	"cogsaver/core/database"
	"cogsaver/core/loader"
	"cogsaver/core/logger"
	"cogsaver/core/middleware/auth"
	"cogsaver/core/middleware/rayid"

	"cogsaver/feature/autosave"
	"cogsaver/feature/backup"
	"cogsaver/feature/catalog"
	"cogsaver/feature/integrity"
	"cogsaver/feature/slots"
	"cogsaver/feature/statefield"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "cogsaver/docs/swagger"
)

// @title CoG Saver API
// @version 1.0
// @description Local API for managing Choice of Games saves.
// @host localhost:7283
// @BasePath /

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local save manager API",
	Long: `Starts the local HTTP server, initializes all enabled features and
watches the live save for autosaves while running.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect the Catalog (Optional)
		// The catalog lives beside the saves, so it needs a selected game.
		var db *gorm.DB
		if cfg.Game.Selected() {
			dbCfg := cfg.Database
			if dbCfg.Driver == database.DriverSQLite && dbCfg.Name == "" {
				dbCfg.Name = cfg.Game.CatalogPath()
			}

			if err := os.MkdirAll(cfg.Game.SavesPath(), 0o755); err != nil {
				logg.Warn("Cannot create saves folder", zap.Error(err))
			} else if conn, err := database.Connect(dbCfg); err != nil {
				logg.Warn("Optional catalog connection failed", zap.Error(err))
			} else {
				db = conn
				// If succeeded, inject the game name into the logger
				logg = logg.With(zap.String("game", cfg.Game.Game()))
				logg.Info("Connected to save catalog")
			}
		} else {
			logg.Warn("No game selected; slot endpoints answer 409 until one is picked")
		}

		// 3. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 3. Initialize Vault (Optional)
		client := buildVault(cfg.Storage, logg)

		// 4. Initialize Feature Loader
		mgr := loader.NewManager()

		// The catalog and autosave services are shared with the other
		// features, so those two are built first.
		catFeature := catalog.NewFeature(db, cfg.Game, logg)
		cat := catFeature.Service()
		if cat.Ready() {
			if err := cat.Migrate(); err != nil {
				logg.Warn("Catalog migration failed", zap.Error(err))
			}
		}

		autoFeature := autosave.NewFeature(cfg.Game, cat, logg)
		auto := autoFeature.Service()

		// Register Features
		mgr.Register(catFeature)
		mgr.Register(slots.NewFeature(cfg.Game, cat, auto, logg))
		mgr.Register(statefield.NewFeature(cfg.Game, auto, logg))
		mgr.Register(autoFeature)
		mgr.Register(integrity.NewFeature(cfg.Game, cat, client, cfg.Storage.Bucket, logg))
		mgr.Register(backup.NewFeature(cfg.Game, client, cfg.Storage.Bucket, cat, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			// Log error if happened
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start the Autosave Watcher
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if cfg.Game.Selected() {
			if err := auto.StartWatching(ctx); err != nil {
				logg.Warn("Autosave watcher failed to start", zap.Error(err))
			} else {
				logg.Info("Autosave watcher running", zap.String("file", cfg.Game.SaveLocation))
			}
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		auto.StopWatching()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
