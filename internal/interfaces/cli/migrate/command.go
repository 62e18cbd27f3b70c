package migrate

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wardgate/wardgate/internal/infrastructure/migration"
	"github.com/wardgate/wardgate/internal/interfaces/cli"
)

var steps int

func NewCommand(flags *cli.GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back and inspect the versioned schema scripts embedded in the binary.`,
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  withStrategy(flags, runDown),
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Run all pending migrations",
			RunE:  withStrategy(flags, runUp),
		},
		down,
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE:  withStrategy(flags, runStatus),
		},
	)

	return cmd
}

func withStrategy(flags *cli.GlobalFlags, fn func(rt *cli.Runtime, s migration.VersionedStrategy) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := cli.Setup(flags)
		if err != nil {
			return err
		}
		defer rt.Close()

		manager, err := migration.NewManager(rt.Config.Database.Driver, false)
		if err != nil {
			return err
		}
		strategy, ok := manager.Versioned()
		if !ok {
			return fmt.Errorf("strategy %s does not support versioned migrations", manager.GetStrategy().GetName())
		}
		return fn(rt, strategy)
	}
}

func runUp(rt *cli.Runtime, s migration.VersionedStrategy) error {
	rt.Log.Infow("running up migrations", "driver", rt.Config.Database.Driver)
	if err := s.Migrate(rt.DB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func runDown(rt *cli.Runtime, s migration.VersionedStrategy) error {
	rt.Log.Infow("running down migrations", "driver", rt.Config.Database.Driver, "steps", steps)
	if err := s.MigrateDown(rt.DB, steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}
	return nil
}

func runStatus(rt *cli.Runtime, s migration.VersionedStrategy) error {
	version, err := s.GetVersion(rt.DB)
	if err != nil {
		return err
	}
	statuses, err := s.Status(rt.DB)
	if err != nil {
		return err
	}

	fmt.Printf("Driver:          %s\n", rt.Config.Database.Driver)
	fmt.Printf("Current version: %d\n\n", version)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tSCRIPT\tAPPLIED")
	for _, st := range statuses {
		fmt.Fprintf(w, "%d\t%s\t%t\n", st.Version, st.Path, st.Applied)
	}
	return w.Flush()
}
