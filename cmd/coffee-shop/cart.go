package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"coffee-shop/internal/cart"
	"coffee-shop/internal/common/db"
	"coffee-shop/internal/format"
	"coffee-shop/internal/frontend/app"
	"coffee-shop/internal/frontend/toast"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and change the stored cart",
}

var cartAddCmd = &cobra.Command{
	Use:   "add <menu-id> <menu-name> <price>",
	Short: "Add one unit of a menu item",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			price, err := cart.ParsePrice(args[2])
			if err != nil {
				return err
			}
			return a.AddToCart(cmd.Context(), args[0], args[1], price)
		})
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every item from the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			if !confirmYes && !a.ConfirmDelete("") {
				return fmt.Errorf("aborted")
			}
			return a.ClearCart(cmd.Context())
		})
	},
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cart lines and totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			items, err := a.Cart.Items(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, it := range items {
				fmt.Fprintf(out, "%-6s %-30s x%-3d %s\n", it.MenuID, it.MenuName, it.Quantity, format.Currency(it.MenuPrice*float64(it.Quantity)))
			}
			_, err = a.UpdateCartDisplay(cmd.Context())
			return err
		})
	},
}

var confirmYes bool

func init() {
	cartClearCmd.Flags().BoolVarP(&confirmYes, "yes", "y", false, "skip the confirmation prompt")
	cartCmd.AddCommand(cartAddCmd, cartClearCmd, cartShowCmd)
}

// consoleDisplay prints the two cart slots.
type consoleDisplay struct{ cmd *cobra.Command }

func (d consoleDisplay) SetCount(s string) { fmt.Fprintf(d.cmd.OutOrStdout(), "Số món: %s\n", s) }
func (d consoleDisplay) SetTotal(s string) { fmt.Fprintf(d.cmd.OutOrStdout(), "Tổng: %s\n", s) }

func withApp(cmd *cobra.Command, fn func(*app.App) error) error {
	store, closeStore, err := openCartStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	center := toast.NewCenter()
	a := app.New(cart.NewService(store), consoleDisplay{cmd}, center, newStatusUpdater(center, nil), stdinConfirmer(cmd), lg.Named("cart"))
	err = fn(a)
	printToasts(cmd.OutOrStdout(), center)
	return err
}

func openCartStore(ctx context.Context) (cart.Store, func(), error) {
	switch cfg.Cart.Store {
	case "memory":
		return cart.NewMemoryStore(), func() {}, nil
	case "", "file":
		return cart.NewFileStore(cfg.Cart.Path), func() {}, nil
	case "postgres":
		conn, err := db.Connect(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		s := cart.NewPGStore(conn.Pool, "cli")
		if err := s.EnsureSchema(ctx); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return s, conn.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cart store %q", cfg.Cart.Store)
	}
}

func stdinConfirmer(cmd *cobra.Command) app.Confirmer {
	return app.ConfirmerFunc(func(msg string) bool {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", msg)
		var answer string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
		return answer == "y" || answer == "Y"
	})
}
