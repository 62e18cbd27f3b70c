package templates

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	rbacapp "github.com/wardgate/wardgate/internal/application/permission"
	"github.com/wardgate/wardgate/internal/infrastructure/config"
	"github.com/wardgate/wardgate/internal/infrastructure/persistence/seeds"
	"github.com/wardgate/wardgate/internal/interfaces/cli"
)

var asJSON bool

// NewCommand inspects the template registry. It needs configuration for the
// templates file but never opens the database.
func NewCommand(flags *cli.GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect permission templates",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List template names with their permission counts",
			RunE: withCatalog(flags, func(svc *rbacapp.TemplateService, args []string) error {
				return List(os.Stdout, svc, asJSON)
			}),
		},
		&cobra.Command{
			Use:   "show NAME",
			Short: "Print the permissions of one template",
			Args:  cobra.ExactArgs(1),
			RunE: withCatalog(flags, func(svc *rbacapp.TemplateService, args []string) error {
				return Show(os.Stdout, svc, args[0], asJSON)
			}),
		},
	)

	return cmd
}

func withCatalog(flags *cli.GlobalFlags, fn func(svc *rbacapp.TemplateService, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cli.GinMode(flags.Env), flags.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		registry, err := seeds.LoadRegistry(cfg.RBAC.TemplatesFile)
		if err != nil {
			return err
		}
		return fn(rbacapp.NewTemplateService(registry), args)
	}
}

// List prints every template in registry order.
func List(w io.Writer, svc *rbacapp.TemplateService, asJSON bool) error {
	list := svc.ListTemplates()
	if asJSON {
		return json.NewEncoder(w).Encode(list)
	}

	for _, name := range list.Templates {
		tmpl, err := svc.DescribeTemplate(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-16s %3d permissions\n", name, tmpl.PermissionCount)
	}
	return nil
}

// Show prints one template's permission codes.
func Show(w io.Writer, svc *rbacapp.TemplateService, name string, asJSON bool) error {
	tmpl, err := svc.DescribeTemplate(name)
	if err != nil {
		return err
	}
	if asJSON {
		return json.NewEncoder(w).Encode(tmpl)
	}

	fmt.Fprintf(w, "%s (%d permissions)\n", tmpl.Name, tmpl.PermissionCount)
	fmt.Fprintf(w, "resources: %s\n", strings.Join(tmpl.DistinctResources, ", "))
	fmt.Fprintf(w, "actions:   %s\n", strings.Join(tmpl.DistinctActions, ", "))
	for _, code := range tmpl.Permissions {
		fmt.Fprintf(w, "  %s\n", code)
	}
	return nil
}
