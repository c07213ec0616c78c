package dom

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"coffee-shop/internal/frontend/validation"
)

// Binding is a clickable element and the data-* attributes it carries.
type Binding struct {
	Action string
	Data   map[string]string
}

var actionClasses = []string{"add-to-cart", "update-status", "clear-cart"}

// Bindings lists the action elements on a page in document order.
func Bindings(r io.Reader) ([]Binding, error) {
	nodes, err := parseFragment(r)
	if err != nil {
		return nil, err
	}
	var out []Binding
	for _, n := range nodes {
		walk(n, func(el *html.Node) {
			if el.Type != html.ElementNode {
				return
			}
			for _, class := range actionClasses {
				if !hasClass(el, class) {
					continue
				}
				data := map[string]string{}
				for _, a := range el.Attr {
					if strings.HasPrefix(a.Key, "data-") {
						data[a.Key] = a.Val
					}
				}
				out = append(out, Binding{Action: class, Data: data})
				return
			}
		})
	}
	return out, nil
}

// Forms extracts each form and its input constraints.
func Forms(r io.Reader) ([]validation.Form, error) {
	nodes, err := parseFragment(r)
	if err != nil {
		return nil, err
	}
	var out []validation.Form
	for _, n := range nodes {
		walk(n, func(el *html.Node) {
			if el.Type != html.ElementNode || el.DataAtom != atom.Form {
				return
			}
			f := validation.Form{}
			f.ID, _ = attr(el, "id")
			if c, ok := attr(el, "class"); ok {
				f.Classes = strings.Fields(c)
			}
			walk(el, func(in *html.Node) {
				if in.Type == html.ElementNode && (in.DataAtom == atom.Input || in.DataAtom == atom.Textarea || in.DataAtom == atom.Select) {
					f.Fields = append(f.Fields, fieldOf(in))
				}
			})
			out = append(out, f)
		})
	}
	return out, nil
}

func fieldOf(n *html.Node) validation.Field {
	f := validation.Field{Type: "text"}
	f.Name, _ = attr(n, "name")
	if t, ok := attr(n, "type"); ok && t != "" {
		f.Type = strings.ToLower(t)
	}
	if n.DataAtom == atom.Textarea {
		f.Value = textContent(n)
	} else {
		f.Value, _ = attr(n, "value")
	}
	_, f.Required = attr(n, "required")
	f.Pattern, _ = attr(n, "pattern")
	f.MinLength = atoi(n, "minlength")
	f.MaxLength = atoi(n, "maxlength")
	f.Min = floatAttr(n, "min")
	f.Max = floatAttr(n, "max")
	return f
}

func atoi(n *html.Node, key string) int {
	v, _ := attr(n, key)
	i, _ := strconv.Atoi(v)
	return i
}

func floatAttr(n *html.Node, key string) *float64 {
	v, ok := attr(n, key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
