package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smdata-dev/smdata/internal/config"
	"github.com/smdata-dev/smdata/internal/notification"
	"github.com/smdata-dev/smdata/internal/service"
)

// NewNotifyTestCmd returns the "notify-test" subcommand that sends one test
// message through the configured email backend.
func NewNotifyTestCmd(cfg *config.AppConfig) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "notify-test",
		Short: "Send a test notification through the configured email backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sysLogger := cliLogger(cfg)

			notifyCfg := cfg.NotificationConfig()
			sender, err := notification.NewSender(notifyCfg, sysLogger)
			if err != nil {
				return err
			}

			// The test message does not touch the store.
			svc := service.NewContactService(nil, sender, nil, service.ContactOptions{
				Composer:      composerFromConfig(cfg, notifyCfg),
				NotifyTimeout: cfg.NotifyTimeout,
			}, sysLogger)

			fmt.Fprintf(cmd.OutOrStdout(), "Sending test notification via %s to %s...\n", sender.Name(), notifyCfg.Recipient)
			res, err := svc.TestNotification(ctx)
			if err != nil {
				return err
			}
			if err := writeStructured(cmd.OutOrStdout(), res, output); err != nil {
				return err
			}
			if !res.OK {
				return fmt.Errorf("notification not delivered")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "Output format: json or yaml")
	return cmd
}
