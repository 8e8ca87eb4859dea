package collector

import (
	"context"
	"errors"

	"github.com/speedwagon-io/crowdwatch/internal/model"
)

var (
	ErrUnexpectedStatus      = errors.New("unexpected status code")
	ErrUnexpectedContentType = errors.New("unexpected content type")
	ErrMalformedBody         = errors.New("malformed response body")
)

// Source fetches the raw sensor list from upstream.
type Source interface {
	Fetch(ctx context.Context) ([]model.RawSensorReading, error)
	Name() string
	Close() error
}
