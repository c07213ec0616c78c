package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"coffee-shop/internal/charts"
)

var (
	chartsOut    string
	chartsFormat string
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Write the revenue and top-items charts to files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := charts.ParseFormat(chartsFormat)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(chartsOut, 0o755); err != nil {
			return err
		}
		jobs := []struct {
			name   string
			render func(io.Writer) error
		}{
			{"revenue", func(w io.Writer) error { return charts.RenderLine(w, charts.WeeklyRevenue(), f) }},
			{"top-items", func(w io.Writer) error { return charts.RenderPie(w, charts.TopItems(), f) }},
		}
		for _, j := range jobs {
			path := filepath.Join(chartsOut, j.name+"."+string(f))
			if err := writeChart(path, j.render); err != nil {
				return fmt.Errorf("%s: %w", j.name, err)
			}
			lg.Info("chart_written", map[string]any{"path": path})
		}
		return nil
	},
}

func init() {
	chartsCmd.Flags().StringVarP(&chartsOut, "out", "o", ".", "output directory")
	chartsCmd.Flags().StringVarP(&chartsFormat, "format", "f", "png", "png or svg")
}

func writeChart(path string, render func(io.Writer) error) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(fh); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
