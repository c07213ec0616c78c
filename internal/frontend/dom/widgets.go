package dom

import (
	"io"

	"golang.org/x/net/html"
)

type WidgetKind string

const (
	Tooltip WidgetKind = "tooltip"
	Popover WidgetKind = "popover"
)

type Widget struct {
	Kind      WidgetKind
	ID        string
	Title     string
	Content   string
	Placement string
}

// Widgets finds every element with data-bs-toggle="tooltip" or "popover".
func Widgets(r io.Reader) ([]Widget, error) {
	nodes, err := parseFragment(r)
	if err != nil {
		return nil, err
	}
	var out []Widget
	for _, n := range nodes {
		walk(n, func(el *html.Node) {
			if el.Type != html.ElementNode {
				return
			}
			toggle, _ := attr(el, "data-bs-toggle")
			var w Widget
			switch toggle {
			case "tooltip":
				w = Widget{Kind: Tooltip, Placement: "top"}
			case "popover":
				w = Widget{Kind: Popover, Placement: "right"}
			default:
				return
			}
			w.ID, _ = attr(el, "id")
			if t, ok := attr(el, "data-bs-title"); ok {
				w.Title = t
			} else {
				w.Title, _ = attr(el, "title")
			}
			w.Content, _ = attr(el, "data-bs-content")
			if p, ok := attr(el, "data-bs-placement"); ok && p != "" {
				w.Placement = p
			}
			out = append(out, w)
		})
	}
	return out, nil
}
