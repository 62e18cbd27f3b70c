package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/interfaces/cli"
	httpRouter "github.com/wardgate/wardgate/internal/interfaces/http"
)

func NewCommand(flags *cli.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the built-in roles",
		Long: `Create one system role per permission template with the template's grants.
Roles that already exist are left untouched, so the command can be re-run safely.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := cli.Setup(flags)
			if err != nil {
				return err
			}
			defer rt.Close()

			container, err := httpRouter.NewContainer(rt.Config, rt.DB, rt.Log)
			if err != nil {
				return err
			}
			defer container.Shutdown()

			report, seedErr := container.Services().Seeder.Seed(context.Background())
			if report != nil {
				PrintReport(os.Stdout, report)
			}
			return seedErr
		},
	}
}

// PrintReport writes a human readable summary of a seeding run.
func PrintReport(w io.Writer, report *dto.SeedReport) {
	fmt.Fprintf(w, "Created (%d): %s\n", len(report.Created), joinOrDash(report.Created))
	fmt.Fprintf(w, "Skipped (%d): %s\n", len(report.Skipped), joinOrDash(report.Skipped))
	if len(report.Failed) > 0 {
		fmt.Fprintf(w, "Failed  (%d): %s\n", len(report.Failed), strings.Join(report.Failed, ", "))
	}
	fmt.Fprintf(w, "Grants written: %d\n", report.Grants)
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
