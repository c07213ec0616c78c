package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"coffee-shop/internal/common/logger"
	"coffee-shop/internal/domain"
	"coffee-shop/internal/microservices/tables/repository"
	"coffee-shop/internal/microservices/tables/service"
)

type TablesHandler struct {
	service service.TablesServiceInterface
	lg      *logger.Logger
}

func NewTablesHandler(s service.TablesServiceInterface, lg *logger.Logger) *TablesHandler {
	if lg == nil {
		lg = logger.Nop()
	}
	return &TablesHandler{service: s, lg: lg}
}

// UpdateStatus answers the page scripts with {"success": bool}. The status comes
// from a JSON body, or from a form/query parameter for plain form posts.
func (h *TablesHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "tableId"))
	if err != nil {
		writeResult(w, http.StatusBadRequest, false, "invalid table id")
		return
	}

	status, err := readStatus(r)
	if err != nil {
		writeResult(w, http.StatusBadRequest, false, "invalid request body")
		return
	}

	changedBy := r.Header.Get("X-Employee")
	if _, err := h.service.UpdateStatus(r.Context(), id, status, changedBy); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeResult(w, http.StatusNotFound, false, "table not found")
		case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, service.ErrInvalidTableID):
			writeResult(w, http.StatusBadRequest, false, err.Error())
		default:
			h.lg.Error("table_status_update_failed", err, map[string]any{"table_id": id})
			writeResult(w, http.StatusInternalServerError, false, "status update failed")
		}
		return
	}
	writeResult(w, http.StatusOK, true, "Status updated successfully")
}

func (h *TablesHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.List(r.Context())
	if err != nil {
		h.lg.Error("tables_list_failed", err, nil)
		writeProblem(w, http.StatusInternalServerError, "db_error", "could not list tables")
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *TablesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_request", "invalid table id")
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "not_found", "table not found")
		return
	}
	if err != nil {
		h.lg.Error("table_get_failed", err, map[string]any{"table_id": id})
		writeProblem(w, http.StatusInternalServerError, "db_error", "could not load table")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TablesHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.ListByStatus(r.Context(), chi.URLParam(r, "status"))
	if errors.Is(err, domain.ErrInvalidStatus) {
		writeProblem(w, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}
	if err != nil {
		h.lg.Error("tables_list_failed", err, nil)
		writeProblem(w, http.StatusInternalServerError, "db_error", "could not list tables")
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *TablesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.lg.Error("table_stats_failed", err, nil)
		writeProblem(w, http.StatusInternalServerError, "db_error", "could not count tables")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *TablesHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_request", "invalid table id")
		return
	}
	limit := atoiDefault(r.URL.Query().Get("limit"), 50)
	offset := atoiDefault(r.URL.Query().Get("offset"), 0)

	changes, err := h.service.History(r.Context(), id, limit, offset)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "not_found", "table not found")
		return
	case errors.Is(err, service.ErrInvalidTableID):
		writeProblem(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	case err != nil:
		h.lg.Error("table_history_failed", err, map[string]any{"table_id": id})
		writeProblem(w, http.StatusInternalServerError, "db_error", "could not load history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"table_id": id, "changes": changes})
}

func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}

func readStatus(r *http.Request) (string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var req domain.UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", err
		}
		return req.Status, nil
	}
	return r.FormValue("status"), nil
}

func writeResult(w http.ResponseWriter, code int, ok bool, msg string) {
	writeJSON(w, code, domain.UpdateStatusResponse{Success: ok, Message: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem uses a trimmed RFC 7807 shape.
func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
