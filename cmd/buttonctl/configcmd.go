package main

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/buttonctl/config"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage buttonctl configuration files",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write the default user config if it does not exist",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
				loader := config.NewLoader(logger)
				if err := loader.EnsureUserConfig(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), loader.UserConfigPath())
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate <file>",
			Short: "Check a config file on top of the defaults",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.LoadFromFile(args[0])
				if err != nil {
					return err
				}
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
				return nil
			},
		},
	)

	return cmd
}
