package policy

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	infraPermission "github.com/wardgate/wardgate/internal/infrastructure/permission"
	"github.com/wardgate/wardgate/internal/interfaces/cli"
)

func NewCommand(flags *cli.GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Manage the casbin mirror of the grant table",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "sync",
			Short: "Rebuild casbin_rule from the granted permissions of active roles",
			RunE: withEnforcer(flags, func(e *infraPermission.Enforcer, args []string) error {
				n, err := e.Sync(context.Background())
				if err != nil {
					return err
				}
				fmt.Printf("Policy rules written: %d\n", n)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the mirrored policy rules",
			RunE: withEnforcer(flags, func(e *infraPermission.Enforcer, args []string) error {
				rules, err := e.Policies()
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ROLE\tRESOURCE\tACTION")
				for _, rule := range rules {
					fmt.Fprintln(w, strings.Join(rule, "\t"))
				}
				return w.Flush()
			}),
		},
		&cobra.Command{
			Use:   "enforce ROLE RESOURCE ACTION",
			Short: "Evaluate one request against the mirrored policy",
			Args:  cobra.ExactArgs(3),
			RunE: withEnforcer(flags, func(e *infraPermission.Enforcer, args []string) error {
				role := strings.ToUpper(args[0])
				allowed, err := e.Enforce(role, strings.ToLower(args[1]), strings.ToLower(args[2]))
				if err != nil {
					return err
				}
				fmt.Printf("%s %s:%s allowed=%t\n", role, strings.ToLower(args[1]), strings.ToLower(args[2]), allowed)
				return nil
			}),
		},
	)

	return cmd
}

// withEnforcer builds the enforcer regardless of rbac.casbin.enabled, which only
// controls whether the server mounts the policy routes.
func withEnforcer(flags *cli.GlobalFlags, fn func(e *infraPermission.Enforcer, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := cli.Setup(flags)
		if err != nil {
			return err
		}
		defer rt.Close()

		enforcer, err := infraPermission.NewEnforcer(rt.DB, rt.Log.Named("casbin"))
		if err != nil {
			return err
		}
		return fn(enforcer, args)
	}
}
