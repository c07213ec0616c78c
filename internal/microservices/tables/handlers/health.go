package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// Health reports "ok" per dependency, or the error text, with 503 when any fails.
func Health(checks map[string]Check) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for n := range checks {
		names = append(names, n)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		code := http.StatusOK
		out := map[string]string{}
		for _, n := range names {
			if err := checks[n](ctx); err != nil {
				out[n] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			out[n] = "ok"
		}
		writeJSON(w, code, out)
	}
}
