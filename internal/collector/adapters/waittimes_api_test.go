package adapters

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedwagon-io/crowdwatch/internal/collector"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUpstream(t *testing.T, status int, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const sensorBody = `{"SensorList":[
	{"NumberInline":"5","SensorPercentage":40,"ServeTimeFrames":"50","DataReadTime":"2024-05-01T14:30:00"},
	{"NumberInline":7,"SensorPercentage":"55","ServeTimeFrames":120,"DataReadTime":"2024-05-01T14:31:00"}
]}`

func TestWaitTimesAdapter_Fetch(t *testing.T) {
	srv := newUpstream(t, http.StatusOK, "application/json; charset=utf-8", sensorBody)
	a := NewWaitTimesAdapter(discardLogger(), srv.URL, srv.Client())
	defer a.Close()

	readings, err := a.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 2)

	assert.Equal(t, "5", readings[0].NumberInline)
	assert.Equal(t, json.Number("40"), readings[0].SensorPercentage)
	assert.Equal(t, "2024-05-01T14:30:00", readings[0].DataReadTime)
	assert.Equal(t, json.Number("120"), readings[1].ServeTimeFrames)

	sensors, err := collector.Shape(readings)
	require.NoError(t, err)
	assert.Equal(t, 40, sensors[0].SensorPercentage)
	assert.Equal(t, 55, sensors[1].SensorPercentage)
}

func TestWaitTimesAdapter_MissingSensorList(t *testing.T) {
	srv := newUpstream(t, http.StatusOK, "application/json", `{"Other":[]}`)
	a := NewWaitTimesAdapter(discardLogger(), srv.URL, srv.Client())

	readings, err := a.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestWaitTimesAdapter_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        error
	}{
		{"server error", http.StatusInternalServerError, "application/json", `{}`, collector.ErrUnexpectedStatus},
		{"not found", http.StatusNotFound, "text/plain", "nope", collector.ErrUnexpectedStatus},
		{"html body", http.StatusOK, "text/html", "<html></html>", collector.ErrUnexpectedContentType},
		{"no content type", http.StatusOK, "", "", collector.ErrUnexpectedContentType},
		{"broken json", http.StatusOK, "application/json", `{"SensorList":[`, collector.ErrMalformedBody},
		{"top-level array", http.StatusOK, "application/json", `[1,2,3]`, collector.ErrMalformedBody},
		{"empty body", http.StatusOK, "application/json", ``, collector.ErrMalformedBody},
		{"trailing garbage", http.StatusOK, "application/json", `{"SensorList":[]} trailing`, collector.ErrMalformedBody},
		{"two objects", http.StatusOK, "application/json", `{"SensorList":[]}{"SensorList":[]}`, collector.ErrMalformedBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newUpstream(t, tt.status, tt.contentType, tt.body)
			a := NewWaitTimesAdapter(discardLogger(), srv.URL, srv.Client())

			readings, err := a.Fetch(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, readings)
		})
	}
}

func TestWaitTimesAdapter_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	a := NewWaitTimesAdapter(discardLogger(), url, &http.Client{Timeout: time.Second})
	_, err := a.Fetch(context.Background())
	assert.Error(t, err)
}
