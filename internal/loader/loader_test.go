package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/energyview/pkg/models"
)

const sampleBody = `[{"date":"2023-01-01T00:00:00Z","averageTemperature":5,"averageHumidity":80,"consumption":120,"anomaly":0},{"date":"2023-01-02T00:00:00Z","averageTemperature":6,"averageHumidity":78,"consumption":135,"anomaly":1}]`

func TestFetchDecodesDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/energy", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	ds, err := New(srv.URL + "/energy").Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, models.Label("2023-01-02T00:00:00Z"), ds[1].Date)
	assert.Equal(t, 135.0, ds[1].Consumption.Float)
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Fetch(context.Background())
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Contains(t, se.Body, "boom")
}

func TestFetchInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing response")
}

func TestFetchNullBodyIsEmptyDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}))
	defer srv.Close()

	ds, err := New(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ds)
	assert.Empty(t, ds)
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, WithTimeout(time.Second)).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "making request")
}

func TestFetchHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL).Fetch(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewDefaultsEndpoint(t *testing.T) {
	assert.Equal(t, DefaultEndpoint, New("").Endpoint())
}

func TestWithTimeoutLeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{}

	c := New("", WithHTTPClient(shared), WithTimeout(3*time.Second))
	assert.Equal(t, time.Duration(0), shared.Timeout)
	assert.Equal(t, 3*time.Second, c.client.Timeout)
	assert.NotSame(t, shared, c.client)

	c = New("", WithTimeout(3*time.Second), WithHTTPClient(shared))
	assert.Equal(t, time.Duration(0), shared.Timeout)
	assert.Equal(t, 3*time.Second, c.client.Timeout)
}

func TestWithTimeoutDefaultClient(t *testing.T) {
	before := http.DefaultClient.Timeout

	c := New("", WithHTTPClient(http.DefaultClient), WithTimeout(3*time.Second))
	assert.Equal(t, before, http.DefaultClient.Timeout)
	assert.Equal(t, 3*time.Second, c.client.Timeout)
}

func TestWithHTTPClientKeptWithoutTimeout(t *testing.T) {
	shared := &http.Client{}
	assert.Same(t, shared, New("", WithHTTPClient(shared)).client)
	assert.NotNil(t, New("", WithHTTPClient(nil)).client)
}

func TestFetchKeepsTextFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"date":"2023-01-02T00:00:00Z","consumption":135,"averageHumidity":"78","anomaly":"0"}]`))
	}))
	defer srv.Close()

	ds, err := New(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, models.Text("78"), ds[0].AverageHumidity)
	assert.True(t, ds[0].IsAnomaly())
}
