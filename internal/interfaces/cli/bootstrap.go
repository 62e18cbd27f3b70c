// Package cli holds the bootstrap shared by the wardgate subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/wardgate/wardgate/internal/infrastructure/config"
	"github.com/wardgate/wardgate/internal/infrastructure/database"
	"github.com/wardgate/wardgate/internal/shared/logger"
)

// GlobalFlags are bound on the root command and read by every subcommand.
type GlobalFlags struct {
	Env        string
	ConfigPath string
}

func (f *GlobalFlags) Bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&f.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&f.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
}

// Runtime is a loaded configuration with the logger and database it describes.
type Runtime struct {
	Config *config.Config
	Log    logger.Interface
	DB     *gorm.DB
}

// Setup loads configuration, installs the logger and opens the database. The ENV
// variable overrides --env.
func Setup(flags *GlobalFlags) (*Runtime, error) {
	env := flags.Env
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(GinMode(env), flags.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Runtime{
		Config: cfg,
		Log:    logger.NewLogger(),
		DB:     database.Get(),
	}, nil
}

func (r *Runtime) Close() {
	if err := database.Close(); err != nil {
		r.Log.Warnw("failed to close database", "error", err)
	}
}

// GinMode maps an environment name onto a gin mode.
func GinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
