// Package charts renders the two dashboard charts: weekly revenue and top sellers.
package charts

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	}
	return "", fmt.Errorf("unsupported chart format %q", s)
}

func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

type Point struct {
	Label string
	Value float64
	Color string // hex, no leading '#'
}

// Dataset is a titled series of labelled values.
type Dataset struct {
	Title       string
	SeriesLabel string
	Color       string
	Points      []Point
}

// WeeklyRevenue is the fixed revenue dataset shown on the dashboard.
func WeeklyRevenue() Dataset {
	values := []float64{1200000, 1900000, 1500000, 2100000, 1800000, 2500000, 2200000}
	ds := Dataset{Title: "Biểu đồ doanh thu tuần", SeriesLabel: "Doanh thu (VNĐ)", Color: "6f4e37"}
	for i, v := range values {
		ds.Points = append(ds.Points, Point{Label: fmt.Sprintf("T%d", i+1), Value: v})
	}
	return ds
}

// TopItems is the fixed best-sellers dataset (share in percent).
func TopItems() Dataset {
	return Dataset{
		Title: "Top món bán chạy",
		Points: []Point{
			{Label: "Cà phê đen", Value: 30, Color: "6f4e37"},
			{Label: "Cà phê sữa", Value: 25, Color: "8b4513"},
			{Label: "Trà sữa", Value: 20, Color: "d2691e"},
			{Label: "Bánh ngọt", Value: 15, Color: "28a745"},
			{Label: "Nước ép", Value: 10, Color: "17a2b8"},
		},
	}
}

func renderer(f Format) chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// RenderLine draws ds as a line chart with a legend on top.
func RenderLine(w io.Writer, ds Dataset, f Format) error {
	if len(ds.Points) == 0 {
		return fmt.Errorf("dataset %q is empty", ds.Title)
	}
	xs := make([]float64, len(ds.Points))
	ys := make([]float64, len(ds.Points))
	ticks := make([]chart.Tick, len(ds.Points))
	for i, p := range ds.Points {
		xs[i] = float64(i + 1)
		ys[i] = p.Value
		ticks[i] = chart.Tick{Value: xs[i], Label: p.Label}
	}

	stroke := drawing.ColorFromHex(ds.Color)
	graph := chart.Chart{
		Title:  ds.Title,
		Width:  800,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{Ticks: ticks},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1fM", f/1e6)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    ds.SeriesLabel,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: stroke,
					StrokeWidth: 2,
					FillColor:   stroke.WithAlpha(25),
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}
	return graph.Render(renderer(f), w)
}

// RenderPie draws ds as a pie chart, one slice per point.
func RenderPie(w io.Writer, ds Dataset, f Format) error {
	if len(ds.Points) == 0 {
		return fmt.Errorf("dataset %q is empty", ds.Title)
	}
	values := make([]chart.Value, len(ds.Points))
	for i, p := range ds.Points {
		values[i] = chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{FillColor: drawing.ColorFromHex(p.Color), StrokeColor: drawing.ColorWhite},
		}
	}
	pie := chart.PieChart{
		Title:  ds.Title,
		Width:  512,
		Height: 512,
		Values: values,
	}
	return pie.Render(renderer(f), w)
}
