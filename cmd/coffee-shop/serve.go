package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coffee-shop/internal/microservices/notificator"
	"coffee-shop/internal/microservices/tables"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the shop HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateServer(); err != nil {
			return err
		}
		slg := lg.Named("shop-service")
		slg.Info("service_started", map[string]any{"port": cfg.HTTP.Port})
		return tables.Run(cmd.Context(), cfg, slg)
	},
}

var subscriberCmd = &cobra.Command{
	Use:   "notification-subscriber",
	Short: "Log table status changes published by the shop service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Rabbit.Host == "" {
			return fmt.Errorf("invalid config: rabbitmq host required")
		}
		slg := lg.Named("notification-subscriber")
		slg.Info("service_started", map[string]any{"queue": "table_notifications.q"})
		out := cmd.OutOrStdout()
		return notificator.Run(cmd.Context(), cfg, slg, func(line string) {
			fmt.Fprintln(out, line)
		})
	},
}
