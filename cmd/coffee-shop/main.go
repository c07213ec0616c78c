package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"coffee-shop/internal/common/config"
	"coffee-shop/internal/common/logger"
)

var (
	configPath string
	cfg        config.App
	lg         *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "coffee-shop",
	Short:         "Coffee shop management: table service, cart and charts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadOrDefault(configPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: config.yaml or deploy/config.example.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(subscriberCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(tableStatusCmd)
	rootCmd.AddCommand(chartsCmd)
	rootCmd.AddCommand(pageCmd)
}

func main() {
	lg = logger.New("bootstrap")
	defer lg.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		lg.Error("fatal", err, nil)
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
