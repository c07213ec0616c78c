package charts

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coffee-shop/internal/common/logger"
)

type Handler struct {
	lg *logger.Logger
}

func NewHandler(lg *logger.Logger) *Handler {
	if lg == nil {
		lg = logger.Nop()
	}
	return &Handler{lg: lg}
}

// Mount registers GET /charts/revenue and GET /charts/top-items (?format=png|svg).
func (h *Handler) Mount(r chi.Router) {
	r.Get("/charts/revenue", h.serve("revenue", func(b *bytes.Buffer, f Format) error {
		return RenderLine(b, WeeklyRevenue(), f)
	}))
	r.Get("/charts/top-items", h.serve("top-items", func(b *bytes.Buffer, f Format) error {
		return RenderPie(b, TopItems(), f)
	}))
}

func (h *Handler) serve(name string, render func(*bytes.Buffer, Format) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var buf bytes.Buffer
		if err := render(&buf, f); err != nil {
			h.lg.Error("chart_render_failed", err, map[string]any{"chart": name})
			http.Error(w, "chart render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(buf.Bytes())
	}
}
