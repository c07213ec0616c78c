package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"coffee-shop/internal/frontend/app"
	"coffee-shop/internal/frontend/dom"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Run the page behaviours against saved HTML (use - for stdin)",
}

var pageFilterCmd = &cobra.Command{
	Use:   "filter <file> <keyword>",
	Short: "Hide table rows that do not contain keyword and print the markup",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPage(cmd, args[0], func(r io.Reader) error {
			out, hidden, err := dom.FilterTable(r, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			fmt.Fprintf(cmd.ErrOrStderr(), "hidden rows: %d\n", hidden)
			return nil
		})
	},
}

var errFormBlocked = errors.New("form submission blocked")

var pageValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Submit every form and report the constraint violations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPage(cmd, args[0], func(r io.Reader) error {
			forms, err := dom.Forms(r)
			if err != nil {
				return err
			}
			blocked := 0
			out := cmd.OutOrStdout()
			for i, f := range forms {
				name := f.ID
				if name == "" {
					name = "#" + strconv.Itoa(i+1)
				}
				ok, violations := f.Submit()
				if ok {
					fmt.Fprintf(out, "%s: ok\n", name)
					continue
				}
				blocked++
				for _, v := range violations {
					fmt.Fprintf(out, "%s: %s\n", name, v)
				}
				fmt.Fprintf(out, "%s: class=%q\n", name, strings.Join(f.Classes, " "))
			}
			if blocked > 0 {
				return fmt.Errorf("%w: %d of %d", errFormBlocked, blocked, len(forms))
			}
			return nil
		})
	},
}

var pageWidgetsCmd = &cobra.Command{
	Use:   "widgets <file>",
	Short: "List the tooltips and popovers that get activated",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPage(cmd, args[0], func(r io.Reader) error {
			ws, err := dom.Widgets(r)
			if err != nil {
				return err
			}
			for _, w := range ws {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", w.Kind, w.Placement, w.Title, w.Content)
			}
			return nil
		})
	},
}

var clickHTML bool

var pageClickCmd = &cobra.Command{
	Use:   "click <file> <n>",
	Short: "Trigger the n-th add-to-cart, clear-cart or update-status element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid element index %q", args[1])
		}
		var bindings []dom.Binding
		if err := withPage(cmd, args[0], func(r io.Reader) error {
			bindings, err = dom.Bindings(r)
			return err
		}); err != nil {
			return err
		}
		if n < 1 || n > len(bindings) {
			return fmt.Errorf("element %d not found, page has %d", n, len(bindings))
		}
		return withApp(cmd, func(a *app.App) error {
			if b := bindings[n-1]; b.Action == "clear-cart" && !confirmYes && !a.ConfirmDelete("") {
				return fmt.Errorf("aborted")
			}
			if err := a.Dispatch(cmd.Context(), bindings[n-1]); err != nil {
				return err
			}
			if clickHTML {
				if c, ok := a.Toasts.(interface{ Render() (string, error) }); ok {
					markup, err := c.Render()
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), markup)
				}
			}
			return nil
		})
	},
}

func init() {
	pageClickCmd.Flags().BoolVar(&clickHTML, "html", false, "print the toast container markup")
	pageClickCmd.Flags().BoolVarP(&confirmYes, "yes", "y", false, "skip the confirmation prompt")
	pageCmd.AddCommand(pageFilterCmd, pageValidateCmd, pageWidgetsCmd, pageClickCmd)
}

func withPage(cmd *cobra.Command, path string, fn func(io.Reader) error) error {
	if path == "-" {
		return fn(cmd.InOrStdin())
	}
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	return fn(fh)
}
