package server

import (
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/energyview/internal/chart"
	"github.com/jgoulah/energyview/internal/dashboard"
	"github.com/jgoulah/energyview/internal/render"
	"github.com/jgoulah/energyview/pkg/models"
)

type fakeSource struct {
	dataset models.Dataset
}

func (f *fakeSource) State() dashboard.State {
	if f.dataset.Loaded() {
		return dashboard.Loaded
	}
	return dashboard.Loading
}

func (f *fakeSource) Dataset() models.Dataset { return f.dataset }

func (f *fakeSource) Options() chart.Options {
	return chart.NewPresenter(chart.Settings{}).Options(f.dataset)
}

func newTestServer(ds models.Dataset) *Server {
	gin.SetMode(gin.TestMode)
	return New(&fakeSource{dataset: ds}, &render.HTML{}, &render.Image{Width: 320, Height: 240}, nil)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

var loaded = models.Dataset{
	{
		Date:               "2023-01-01T00:00:00Z",
		AverageTemperature: models.Number(5),
		AverageHumidity:    models.Number(80),
		Consumption:        models.Number(120),
		Anomaly:            models.Number(0),
	},
	{
		Date:               "2023-01-02T00:00:00Z",
		AverageTemperature: models.Number(6),
		AverageHumidity:    models.Number(78),
		Consumption:        models.Number(135),
		Anomaly:            models.Number(1),
	},
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(nil), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStateWhileLoading(t *testing.T) {
	s := newTestServer(nil)

	rec := get(t, s, "/api/v1/state")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"loading","records":0}`, rec.Body.String())

	rec = get(t, s, "/api/v1/data")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", rec.Body.String())
}

func TestStateLoaded(t *testing.T) {
	rec := get(t, newTestServer(loaded), "/api/v1/state")

	assert.JSONEq(t, `{"state":"loaded","records":2}`, rec.Body.String())
}

func TestData(t *testing.T) {
	rec := get(t, newTestServer(loaded), "/api/v1/data")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2023-01-02T00:00:00Z", got[1]["date"])
	assert.Equal(t, 135.0, got[1]["consumption"])
	assert.Equal(t, 1.0, got[1]["anomaly"])
}

func TestOptions(t *testing.T) {
	rec := get(t, newTestServer(loaded), "/api/v1/options")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Title string `json:"title"`
		XAxis struct {
			Categories   []string `json:"categories"`
			TickInterval int      `json:"tickInterval"`
		} `json:"xAxis"`
		Tooltips []string `json:"tooltips"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "My chart", got.Title)
	assert.Equal(t, []string{"2023-01-01T00:00:00Z", "2023-01-02T00:00:00Z"}, got.XAxis.Categories)
	assert.Equal(t, 50, got.XAxis.TickInterval)
	assert.Len(t, got.Tooltips, 2)
}

func TestTooltip(t *testing.T) {
	s := newTestServer(loaded)

	rec := get(t, s, "/api/v1/tooltip/1")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Index   int    `json:"index"`
		Tooltip string `json:"tooltip"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Index)
	assert.Contains(t, got.Tooltip, "Mon, 02 Jan 2023 00:00:00 GMT")
	assert.Contains(t, got.Tooltip, "<span>Anomaly: 1</span><br/>")

	rec = get(t, s, "/api/v1/tooltip/0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Anomaly")
}

func TestTooltipErrors(t *testing.T) {
	s := newTestServer(loaded)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/v1/tooltip/2").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/v1/tooltip/-1").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/v1/tooltip/abc").Code)
}

func TestIndexPage(t *testing.T) {
	rec := get(t, newTestServer(loaded), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), render.ChartID)
	assert.Contains(t, rec.Body.String(), "2023-01-02T00:00:00Z")
}

func TestChartImage(t *testing.T) {
	rec := get(t, newTestServer(loaded), "/chart.png")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	cfg, err := png.DecodeConfig(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
}
