package main

import (
	"strings"

	"github.com/spf13/cobra"

	"lemiknow/internal/config"
)

type rootOptions struct {
	configPath string
	transport  string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "lemiknow",
		Short:         "Let's you know when your command starts, ends or crashes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path (YAML)")
	rootCmd.PersistentFlags().StringVarP(&opts.transport, "transport", "t", "", "Transport: console, desktop, discord, slack, telegram or matrix")

	rootCmd.AddCommand(newRunCommand(opts))
	rootCmd.AddCommand(newTestNotifyCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// load reads the configuration and applies global flag overrides.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if transport := strings.ToLower(strings.TrimSpace(o.transport)); transport != "" {
		cfg.Transport = transport
	}
	return cfg, nil
}
