package main

import (
	"fmt"

	"ml100k/internal/config"

	"github.com/spf13/cobra"
)

func newValidateCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			issues := config.Validate(*cfg)
			printIssues(cmd, issues)
			if config.HasErrors(issues) {
				return errInvalidConfig
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
			return nil
		},
	}
}

func printIssues(cmd *cobra.Command, issues []config.Issue) {
	for _, iss := range issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
}
