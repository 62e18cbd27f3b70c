package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/wardgate/wardgate/internal/infrastructure/migration"
	"github.com/wardgate/wardgate/internal/interfaces/cli"
	httpRouter "github.com/wardgate/wardgate/internal/interfaces/http"
)

var (
	autoMigrate bool
	skipMigrate bool
)

func NewCommand(flags *cli.GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the wardgate administration and permission-check API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags)
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Derive the schema from the models instead of the versioned scripts (not recommended for production)")
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not apply pending migrations on startup")

	return cmd
}

func run(flags *cli.GlobalFlags) error {
	rt, err := cli.Setup(flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg, log := rt.Config, rt.Log
	log.Infow("starting server", "mode", cfg.Server.Mode, "auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := handleMigrations(rt); err != nil {
		return err
	}

	container, err := httpRouter.NewContainer(cfg, rt.DB, log)
	if err != nil {
		return fmt.Errorf("failed to build services: %w", err)
	}
	defer container.Shutdown()

	ctx := context.Background()
	if cfg.RBAC.SeedOnStart {
		if _, err := container.Services().Seeder.Seed(ctx); err != nil {
			log.Errorw("seeding finished with failures", "error", err)
		}
	}

	if enforcer := container.Enforcer(); enforcer != nil {
		if _, err := enforcer.Sync(ctx); err != nil {
			log.Errorw("initial casbin sync failed", "error", err)
		}
	}

	router, err := httpRouter.NewRouter(container)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server listening", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	log.Infow("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(rt *cli.Runtime) error {
	if skipMigrate {
		rt.Log.Infow("skipping migrations")
		return nil
	}

	if autoMigrate && rt.Config.Server.Mode == gin.ReleaseMode {
		rt.Log.Warnw("auto-migration is enabled in release mode")
	}

	manager, err := migration.NewManager(rt.Config.Database.Driver, autoMigrate)
	if err != nil {
		return err
	}
	return manager.Migrate(rt.DB)
}
