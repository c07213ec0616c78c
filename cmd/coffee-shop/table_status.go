package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"coffee-shop/internal/domain"
	"coffee-shop/internal/frontend/statusclient"
	"coffee-shop/internal/frontend/toast"
)

var tableStatusCmd = &cobra.Command{
	Use:   "table-status <table-id> <Available|Occupied|Reserved>",
	Short: "Change a table status through the shop service",
	Long: `Posts the new status, prints the resulting toast and, after the
configured reload delay (client.reload_delay), prints the refreshed table list.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := domain.ParseTableStatus(args[1])
		if err != nil {
			return err
		}
		center := toast.NewCenter()
		reloaded := make(chan struct{})
		u := newStatusUpdater(center, statusclient.ReloaderFunc(func() { close(reloaded) }))

		err = u.Update(cmd.Context(), args[0], string(status))
		printToasts(cmd.OutOrStdout(), center)
		if err != nil {
			return err
		}

		select {
		case <-reloaded:
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
		tables, err := u.Tables(cmd.Context())
		if err != nil {
			return err
		}
		for _, t := range tables {
			fmt.Fprintf(cmd.OutOrStdout(), "%-4d %-8s %s\n", t.ID, t.TableNumber, t.Status)
		}
		return nil
	},
}

// newStatusUpdater builds the client from the loaded config.
func newStatusUpdater(n toast.Notifier, r statusclient.Reloader) *statusclient.Updater {
	u := statusclient.New(cfg.Client.BaseURL, n, r, lg.Named("status-client"))
	if cfg.Client.ReloadDelay > 0 {
		u.ReloadDelay = cfg.Client.ReloadDelay
	}
	return u
}

// printToasts writes each active toast and dismisses it.
func printToasts(w io.Writer, center *toast.Center) {
	for _, t := range center.Active() {
		fmt.Fprintf(w, "[%s] %s\n", t.Kind, t.Message)
		center.Hidden(t.ID)
	}
}
