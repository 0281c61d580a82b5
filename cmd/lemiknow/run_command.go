package main

import (
	"context"

	"github.com/spf13/cobra"

	"lemiknow/internal/adapter/command"
	"lemiknow/internal/di"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	var (
		message   string
		name      string
		schedule  string
		noEnd     bool
		noDetails bool
	)

	cmd := &cobra.Command{
		Use:   "run [flags] -- command [args...]",
		Short: "Run a command and notify when it starts, finishes or crashes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("message") {
				cfg.Notify.Message = message
			}
			if flags.Changed("schedule") {
				cfg.Schedule = schedule
			}
			if noEnd {
				cfg.Notify.NotifyOnCompletion = false
			}
			if noDetails {
				cfg.Notify.IncludeDetails = false
			}

			application, err := di.InitializeApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			runner := &command.Runner{
				Args:   args,
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			}
			if name == "" {
				name = runner.Name()
			}

			return application.Run(cmd.Context(), name, func(ctx context.Context) (any, error) {
				res, err := runner.Run(ctx)
				if err != nil {
					return nil, err
				}
				return res, nil
			})
		},
	}

	flags := cmd.Flags()
	// Flags after the command name belong to the command.
	flags.SetInterspersed(false)
	flags.StringVarP(&message, "message", "m", "", "Custom message included in the start notification")
	flags.StringVarP(&name, "name", "n", "", "Operation name shown in notifications (default: executable name)")
	flags.StringVar(&schedule, "schedule", "", "Cron expression to keep re-running the command")
	flags.BoolVar(&noEnd, "no-notify-end", false, "Do not notify on successful completion")
	flags.BoolVar(&noDetails, "no-details", false, "Omit host and start time from the start notification (requires --message)")

	return cmd
}
