package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semchem/config"
)

func schemasCmd(_ *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "List the record schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := schemaRegistry()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(reg, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			for _, s := range reg.List() {
				if dim, ok := s.Dimensions(); ok {
					fmt.Fprintf(out, "%-24s %s\n", s.Name(), dim)
					continue
				}
				fmt.Fprintln(out, s.Name())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print field descriptions as JSON")
	return cmd
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := yaml.Marshal(a.cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create the user config file with defaults",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.NewLoader(a.logger).EnsureUserConfig()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
	)
	return cmd
}
