package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"coffee-shop/internal/common/logger"
)

// Router wires the table routes; mount adds other route groups (charts) on the same mux.
func Router(h *Handler, lg *logger.Logger, mount ...func(chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLog(lg))

	r.Post("/tables/{tableId}/status", h.TablesHandler.UpdateStatus)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tables", h.TablesHandler.List)
		r.Get("/tables/{id}", h.TablesHandler.Get)
		r.Get("/tables/{id}/history", h.TablesHandler.History)
		r.Get("/tables/status/{status}", h.TablesHandler.ListByStatus)
		r.Put("/tables/{tableId}/status", h.TablesHandler.UpdateStatus)
		r.Get("/stats/tables", h.TablesHandler.Stats)
	})

	for _, m := range mount {
		m(r)
	}
	return r
}

func requestLog(lg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			lg.Debug("http_request", map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			})
		})
	}
}
