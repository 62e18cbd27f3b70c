package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wardgate/wardgate/internal/interfaces/cli"
	"github.com/wardgate/wardgate/internal/interfaces/cli/migrate"
	"github.com/wardgate/wardgate/internal/interfaces/cli/policy"
	"github.com/wardgate/wardgate/internal/interfaces/cli/seed"
	"github.com/wardgate/wardgate/internal/interfaces/cli/server"
	"github.com/wardgate/wardgate/internal/interfaces/cli/templates"
)

// @title Wardgate API
// @version 1.0
// @description Role administration, grants, permission templates and checks.
// @BasePath /api/v1/rbac
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	flags := &cli.GlobalFlags{}
	rootCmd := &cobra.Command{
		Use:          "wardgate",
		Short:        "Wardgate - role-based access control for hospital systems",
		Long:         `Wardgate stores roles and their resource:action grants, answers permission checks and seeds the built-in roles from permission templates.`,
		SilenceUsage: true,
	}
	flags.Bind(rootCmd)

	rootCmd.AddCommand(
		server.NewCommand(flags),
		migrate.NewCommand(flags),
		seed.NewCommand(flags),
		policy.NewCommand(flags),
		templates.NewCommand(flags),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
