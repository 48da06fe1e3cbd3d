package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jgoulah/energyview/internal/chart"
	"github.com/jgoulah/energyview/internal/render"
	"github.com/jgoulah/energyview/pkg/models"
)

func TestConsoleArgs(t *testing.T) {
	args := []*runtime.RemoteObject{
		{Value: []byte(`"loaded"`)},
		{Value: []byte(`2`)},
		{Description: "Error: boom"},
	}
	assert.Equal(t, `"loaded" 2 Error: boom`, consoleArgs(args))
	assert.Equal(t, "", consoleArgs(nil))
}

func TestViewportDefaults(t *testing.T) {
	w, h := (&Inspector{}).viewport()
	assert.Equal(t, int64(1280), w)
	assert.Equal(t, int64(800), h)

	w, h = (&Inspector{Width: 640, Height: 480}).viewport()
	assert.Equal(t, int64(640), w)
	assert.Equal(t, int64(480), h)
}

func TestInstanceExprTargetsChart(t *testing.T) {
	assert.Contains(t, instanceExpr, "getElementById('"+render.ChartID+"')")
}

// TestCaptureTooltips needs a local Chrome and network access for the
// echarts script, so it only runs when ENERGYVIEW_BROWSER_TESTS is set.
func TestCaptureTooltips(t *testing.T) {
	if os.Getenv("ENERGYVIEW_BROWSER_TESTS") == "" {
		t.Skip("set ENERGYVIEW_BROWSER_TESTS to run headless Chrome tests")
	}

	opts := chart.NewPresenter(chart.Settings{}).Options(models.Dataset{
		{Date: "2023-01-01T00:00:00Z", Consumption: models.Number(120), Anomaly: models.Number(0)},
		{Date: "2023-01-02T00:00:00Z", Consumption: models.Number(135), Anomaly: models.Number(1)},
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		require.NoError(t, (&render.HTML{}).Render(w, opts))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	in := &Inspector{Log: zaptest.NewLogger(t)}
	got, err := in.CaptureTooltips(ctx, srv.URL, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.False(t, strings.Contains(got[0].Tooltip, "Anomaly"))
	assert.Contains(t, got[1].Tooltip, "Anomaly: 1")
}
