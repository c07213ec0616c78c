package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffee-shop/internal/common/logger"
	"coffee-shop/internal/domain"
	"coffee-shop/internal/microservices/tables/repository"
	"coffee-shop/internal/microservices/tables/service"
)

type stubService struct {
	gotID     int
	gotStatus string
	gotBy     string
	err       error
}

func (s *stubService) UpdateStatus(_ context.Context, id int, status, by string) (domain.TableStatusEvent, error) {
	s.gotID, s.gotStatus, s.gotBy = id, status, by
	if s.err != nil {
		return domain.TableStatusEvent{}, s.err
	}
	st, err := domain.ParseTableStatus(status)
	if err != nil {
		return domain.TableStatusEvent{}, err
	}
	return domain.TableStatusEvent{TableID: id, NewStatus: st}, nil
}

func (s *stubService) List(context.Context) ([]domain.Table, error) {
	return []domain.Table{{ID: 1, TableNumber: "B01", Status: domain.StatusAvailable}}, s.err
}

func (s *stubService) Get(_ context.Context, id int) (domain.Table, error) {
	if id != 1 {
		return domain.Table{}, repository.ErrNotFound
	}
	return domain.Table{ID: 1, TableNumber: "B01", Status: domain.StatusAvailable}, nil
}

func (s *stubService) ListByStatus(_ context.Context, status string) ([]domain.Table, error) {
	if _, err := domain.ParseTableStatus(status); err != nil {
		return nil, err
	}
	return []domain.Table{}, nil
}

func (s *stubService) Stats(context.Context) (domain.TableStats, error) {
	return domain.TableStats{Available: 3, Occupied: 1}, nil
}

func (s *stubService) History(_ context.Context, id, limit, offset int) ([]domain.StatusChange, error) {
	if id != 1 {
		return nil, repository.ErrNotFound
	}
	s.gotID = limit*1000 + offset
	return []domain.StatusChange{{OldStatus: domain.StatusAvailable, NewStatus: domain.StatusReserved, ChangedBy: "quan-ly"}}, nil
}

func newRouter(svc service.TablesServiceInterface, mount ...func(chi.Router)) http.Handler {
	h := &Handler{TablesHandler: NewTablesHandler(svc, nil)}
	return Router(h, logger.Nop(), mount...)
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) domain.UpdateStatusResponse {
	t.Helper()
	var out domain.UpdateStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestUpdateStatusJSON(t *testing.T) {
	svc := &stubService{}
	req := httptest.NewRequest(http.MethodPost, "/tables/4/status", strings.NewReader(`{"status":"Occupied"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Employee", "thu-ngan")
	rec := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeResult(t, rec).Success)
	assert.Equal(t, 4, svc.gotID)
	assert.Equal(t, "Occupied", svc.gotStatus)
	assert.Equal(t, "thu-ngan", svc.gotBy)
}

func TestUpdateStatusFormParam(t *testing.T) {
	svc := &stubService{}
	form := url.Values{"status": {"Reserved"}}
	req := httptest.NewRequest(http.MethodPost, "/tables/2/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Reserved", svc.gotStatus)
}

func TestUpdateStatusFailures(t *testing.T) {
	cases := []struct {
		name string
		path string
		body string
		err  error
		code int
	}{
		{"bad id", "/tables/abc/status", `{"status":"Available"}`, nil, http.StatusBadRequest},
		{"bad json", "/tables/1/status", `{"status":`, nil, http.StatusBadRequest},
		{"bad status", "/tables/1/status", `{"status":"dirty"}`, nil, http.StatusBadRequest},
		{"missing table", "/tables/9/status", `{"status":"Available"}`, repository.ErrNotFound, http.StatusNotFound},
		{"storage", "/tables/1/status", `{"status":"Available"}`, errors.New("conn reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			newRouter(&stubService{err: tc.err}).ServeHTTP(rec, req)

			assert.Equal(t, tc.code, rec.Code)
			assert.False(t, decodeResult(t, rec).Success)
		})
	}
}

func TestTableAPI(t *testing.T) {
	r := newRouter(&stubService{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"table_number":"B01"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables/7", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"not_found"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables/status/broken", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats/tables", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"available":3,"occupied":1,"reserved":0}`, rec.Body.String())
}

func TestRouterMountsExtraRoutes(t *testing.T) {
	r := newRouter(&stubService{}, func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHistory(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables/1/history?limit=10&offset=20", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10020, svc.gotID)
	assert.Contains(t, rec.Body.String(), `"changed_by":"quan-ly"`)
	assert.Contains(t, rec.Body.String(), `"table_id":1`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables/5/history", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables/x/history", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
