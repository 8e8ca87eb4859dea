package web

import (
	"context"
	"fmt"
	"time"

	"github.com/speedwagon-io/crowdwatch/internal/model"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

type ComponentHealth struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status     Status            `json:"status"`
	Components []ComponentHealth `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

type HealthChecker interface {
	Name() string
	Check(ctx context.Context) (Status, string)
}

// SnapshotHealthChecker reports degraded when the startup fetch failed and
// the page is showing no sensors.
type SnapshotHealthChecker struct {
	snapshot *model.Snapshot
}

func NewSnapshotHealthChecker(snapshot *model.Snapshot) *SnapshotHealthChecker {
	return &SnapshotHealthChecker{snapshot: snapshot}
}

func (c *SnapshotHealthChecker) Name() string {
	return "snapshot"
}

func (c *SnapshotHealthChecker) Check(ctx context.Context) (Status, string) {
	if c.snapshot.Degraded {
		return StatusDegraded, c.snapshot.FetchError
	}
	return StatusHealthy, fmt.Sprintf("%d sensors", len(c.snapshot.Sensors))
}

type StoreHealthChecker struct {
	countFunc func(ctx context.Context) (int64, error)
}

func NewStoreHealthChecker(countFunc func(ctx context.Context) (int64, error)) *StoreHealthChecker {
	return &StoreHealthChecker{countFunc: countFunc}
}

func (c *StoreHealthChecker) Name() string {
	return "store"
}

func (c *StoreHealthChecker) Check(ctx context.Context) (Status, string) {
	count, err := c.countFunc(ctx)
	if err != nil {
		return StatusUnhealthy, err.Error()
	}
	return StatusHealthy, fmt.Sprintf("%d snapshots archived", count)
}
