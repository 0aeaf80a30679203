package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"steamload/internal/config"
	"steamload/internal/etl"
)

func newValidateCmd(a app, fv *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the resolved configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, a, fv)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			issues := config.Validate(cfg)
			for _, iss := range issues {
				fmt.Fprintf(out, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
			}
			if config.HasErrors(issues) {
				return fmt.Errorf("%w: %d issue(s)", etl.ErrInvalidConfig, len(issues))
			}
			fmt.Fprintln(out, "configuration is valid")
			return nil
		},
	}
}
