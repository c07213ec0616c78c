// Package toast keeps the transient notifications shown in the page corner.
package toast

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/google/uuid"
)

type Kind string

const (
	Success Kind = "success"
	Info    Kind = "info"
	Warning Kind = "warning"
	Error   Kind = "error"
)

// class maps a kind to its bootstrap background utility.
func (k Kind) class() string {
	switch k {
	case Success:
		return "bg-success"
	case Warning:
		return "bg-warning"
	case Error:
		return "bg-danger"
	default:
		return "bg-info"
	}
}

type Toast struct {
	ID      string
	Message string
	Kind    Kind
}

// Notifier is what the cart and status code call to show feedback.
type Notifier interface {
	Show(message string, kind Kind) Toast
}

// Center owns the toast container. The container is attached on first Show.
type Center struct {
	mu       sync.Mutex
	attached bool
	toasts   []Toast
	onAttach func()
}

func NewCenter() *Center { return &Center{} }

// OnAttach registers a hook called once when the container is created.
func (c *Center) OnAttach(fn func()) { c.onAttach = fn }

func (c *Center) Show(message string, kind Kind) Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.attached {
		c.attached = true
		if c.onAttach != nil {
			c.onAttach()
		}
	}
	t := Toast{ID: uuid.NewString(), Message: message, Kind: kind}
	c.toasts = append(c.toasts, t)
	return t
}

// Hidden removes the toast once its hide animation finished.
func (c *Center) Hidden(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Center) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached
}

func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Toast(nil), c.toasts...)
}

var containerTmpl = template.Must(template.New("toasts").Parse(
	`<div id="toast-container" class="toast-container position-fixed top-0 end-0 p-3" style="z-index: 9999">
{{- range .}}
<div id="toast-{{.ID}}" class="toast align-items-center text-white {{.Class}} border-0" role="alert" aria-live="assertive" aria-atomic="true">
<div class="d-flex"><div class="toast-body">{{.Message}}</div><button type="button" class="btn-close btn-close-white me-2 m-auto" data-bs-dismiss="toast" aria-label="Close"></button></div>
</div>
{{- end}}
</div>`))

type view struct {
	ID, Message, Class string
}

// Render returns the container markup, or "" when nothing was shown yet.
func (c *Center) Render() (string, error) {
	c.mu.Lock()
	if !c.attached {
		c.mu.Unlock()
		return "", nil
	}
	views := make([]view, 0, len(c.toasts))
	for _, t := range c.toasts {
		views = append(views, view{ID: t.ID, Message: t.Message, Class: t.Kind.class()})
	}
	c.mu.Unlock()

	var buf bytes.Buffer
	if err := containerTmpl.Execute(&buf, views); err != nil {
		return "", err
	}
	return buf.String(), nil
}
