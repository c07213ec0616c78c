package charts

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestDatasets(t *testing.T) {
	rev := WeeklyRevenue()
	require.Len(t, rev.Points, 7)
	assert.Equal(t, "T1", rev.Points[0].Label)
	assert.Equal(t, 2200000.0, rev.Points[6].Value)

	top := TopItems()
	var share float64
	for _, p := range top.Points {
		share += p.Value
	}
	assert.Equal(t, 100.0, share)
	assert.Equal(t, "Cà phê đen", top.Points[0].Label)
}

func TestRenderPNGAndSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderLine(&buf, WeeklyRevenue(), PNG))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	buf.Reset()
	require.NoError(t, RenderPie(&buf, TopItems(), SVG))
	assert.Contains(t, buf.String(), "<svg")
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, RenderLine(&buf, Dataset{Title: "x"}, PNG))
	assert.Error(t, RenderPie(&buf, Dataset{Title: "x"}, PNG))
}

func TestHandler(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(nil).Mount(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/revenue", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), pngMagic))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/top-items?format=svg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/revenue?format=gif", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
