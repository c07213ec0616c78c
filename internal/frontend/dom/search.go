package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Matches reports whether text contains keyword, ignoring case.
// An empty keyword matches everything.
func Matches(keyword, text string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}

// FilterRows returns the visibility of each row text for keyword.
func FilterRows(keyword string, rows []string) []bool {
	out := make([]bool, len(rows))
	for i, r := range rows {
		out[i] = Matches(keyword, r)
	}
	return out
}

// FilterTable hides every tbody row whose text does not contain keyword and
// un-hides the rest. It returns the rewritten markup and the hidden count.
func FilterTable(r io.Reader, keyword string) (string, int, error) {
	nodes, err := parseFragment(r)
	if err != nil {
		return "", 0, err
	}
	hidden := 0
	seen := map[*html.Node]bool{}
	for _, n := range nodes {
		walk(n, func(tb *html.Node) {
			if tb.Type != html.ElementNode || tb.DataAtom != atom.Tbody {
				return
			}
			walk(tb, func(tr *html.Node) {
				if tr.Type != html.ElementNode || tr.DataAtom != atom.Tr || seen[tr] {
					return
				}
				seen[tr] = true
				visible := Matches(keyword, textContent(tr))
				setDisplayNone(tr, !visible)
				if !visible {
					hidden++
				}
			})
		})
	}
	out, err := render(nodes)
	return out, hidden, err
}

// setDisplayNone adds or drops the display declaration, keeping other styles.
func setDisplayNone(n *html.Node, hide bool) {
	style, _ := attr(n, "style")
	var decls []string
	for _, d := range strings.Split(style, ";") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if prop, _, ok := strings.Cut(d, ":"); ok && strings.EqualFold(strings.TrimSpace(prop), "display") {
			continue
		}
		decls = append(decls, d)
	}
	if hide {
		decls = append(decls, "display: none")
	}
	if len(decls) == 0 {
		removeAttr(n, "style")
		return
	}
	setAttr(n, "style", strings.Join(decls, "; "))
}
