package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/speedwagon-io/crowdwatch/internal/lib/logger/sl"
	"github.com/speedwagon-io/crowdwatch/internal/model"
)

// Archive keeps boot snapshots. Optional.
type Archive interface {
	Save(ctx context.Context, snapshot *model.Snapshot) error
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

type Loader struct {
	log       *slog.Logger
	source    Source
	sourceURL string
	archive   Archive
	maxAge    time.Duration
	now       func() time.Time
}

func NewLoader(
	log *slog.Logger,
	source Source,
	sourceURL string,
	archive Archive,
	maxAge time.Duration,
	now func() time.Time,
) *Loader {
	if now == nil {
		now = time.Now
	}
	return &Loader{
		log:       log,
		source:    source,
		sourceURL: sourceURL,
		archive:   archive,
		maxAge:    maxAge,
		now:       now,
	}
}

// Load fetches once and returns the snapshot the page is built from. Fetch
// failures yield an empty, degraded snapshot; shaping failures are returned.
func (l *Loader) Load(ctx context.Context) (*model.Snapshot, error) {
	l.log.Info("fetching sensor data",
		slog.String("source", l.source.Name()),
		slog.String("url", l.sourceURL),
	)

	raw, fetchErr := l.source.Fetch(ctx)
	if fetchErr != nil {
		if errors.Is(fetchErr, ErrUnexpectedContentType) {
			l.log.Error("unexpected content type from sensor API", sl.Err(fetchErr))
		} else {
			l.log.Error("error fetching data from sensor API", sl.Err(fetchErr))
		}
		raw = nil
	}

	sensors, err := Shape(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to shape sensor data: %w", err)
	}

	snapshot := model.NewSnapshot(l.sourceURL, l.now(), sensors)
	if fetchErr != nil {
		snapshot.Degraded = true
		snapshot.FetchError = fetchErr.Error()
	}

	l.log.Info("snapshot loaded",
		slog.String("snapshot_id", snapshot.ID),
		slog.Int("fetched", len(raw)),
		slog.Int("sensors", len(snapshot.Sensors)),
		slog.Bool("degraded", snapshot.Degraded),
	)

	l.archiveSnapshot(ctx, snapshot)

	return snapshot, nil
}

func (l *Loader) archiveSnapshot(ctx context.Context, snapshot *model.Snapshot) {
	if l.archive == nil {
		return
	}

	if err := l.archive.Save(ctx, snapshot); err != nil {
		l.log.Error("failed to archive snapshot",
			slog.String("snapshot_id", snapshot.ID),
			sl.Err(err),
		)
		return
	}

	if l.maxAge > 0 {
		if err := l.archive.Cleanup(ctx, l.maxAge); err != nil {
			l.log.Error("failed to cleanup snapshot archive", sl.Err(err))
		}
	}
}
