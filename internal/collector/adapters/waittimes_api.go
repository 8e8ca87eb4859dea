package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/speedwagon-io/crowdwatch/internal/collector"
	"github.com/speedwagon-io/crowdwatch/internal/model"
)

type WaitTimesAdapter struct {
	log    *slog.Logger
	url    string
	client *resty.Client
}

// NewWaitTimesAdapter wraps httpClient; the adapter never retries and only
// times out if httpClient does.
func NewWaitTimesAdapter(log *slog.Logger, url string, httpClient *http.Client) *WaitTimesAdapter {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	client := resty.NewWithClient(httpClient).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &WaitTimesAdapter{
		log:    log,
		url:    url,
		client: client,
	}
}

func (a *WaitTimesAdapter) Name() string {
	return "waittimes_api"
}

func (a *WaitTimesAdapter) Close() error {
	a.client.GetClient().CloseIdleConnections()
	return nil
}

func (a *WaitTimesAdapter) Fetch(ctx context.Context) ([]model.RawSensorReading, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		Get(a.url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %d", collector.ErrUnexpectedStatus, resp.StatusCode())
	}

	contentType := resp.Header().Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return nil, fmt.Errorf("%w: %q", collector.ErrUnexpectedContentType, contentType)
	}

	// Numbers stay json.Number so integer strings and integer literals
	// coerce the same way downstream.
	dec := json.NewDecoder(bytes.NewReader(resp.Body()))
	dec.UseNumber()

	var list model.SensorList
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: %v", collector.ErrMalformedBody, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON object", collector.ErrMalformedBody)
	}

	a.log.Debug("fetched sensor list",
		slog.String("url", a.url),
		slog.Int("sensors", len(list.SensorList)),
	)

	return list.SensorList, nil
}
