package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lemiknow/internal/di"
)

func newTestNotifyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification through the configured transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			application, err := di.InitializeApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := application.TestNotification(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test notification sent via %s\n", cfg.Transport)
			return nil
		},
	}
}
