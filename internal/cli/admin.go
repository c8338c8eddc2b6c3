package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newLedgersCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledgers",
		Short: "List saved ledger namespaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(func(s *session) error {
				namespaces, err := s.store.ListNamespaces()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(namespaces) == 0 {
					fmt.Fprintln(out, Silent("No ledgers saved yet."))
					return nil
				}
				for _, ns := range namespaces {
					name := ns.Name
					if name == s.cfg.Namespace {
						name = Primary(name + " *")
					}
					fmt.Fprintf(out, "%s  %s\n", name, Silent("updated "+ns.UpdatedAt.Local().Format("2006-01-02 15:04")))
				}
				return nil
			})
		},
	}
	cmd.AddCommand(newLedgersRemoveCmd(r))
	return cmd
}

func newLedgersRemoveCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <namespace>",
		Short: "Delete a saved ledger namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(func(s *session) error {
				if args[0] == s.cfg.Namespace {
					return fmt.Errorf("refusing to delete the active namespace %q", args[0])
				}
				if err := s.store.DeleteNamespace(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted ledger %s\n", args[0])
				return nil
			})
		},
	}
}

func newConfigCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := r.loadConfig()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), Silent("# "+path))
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := r.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})
	return cmd
}
