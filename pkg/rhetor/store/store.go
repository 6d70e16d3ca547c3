// Package store persists analysis runs: the scored criteria and tag counters
// of one document under one settings snapshot. The index itself is never
// persisted; it is rebuilt per analysis.
package store

import (
	"context"
	"time"

	"github.com/cognicore/rhetor/pkg/rhetor/config"
	"github.com/cognicore/rhetor/pkg/rhetor/criteria"
)

// Run is one completed analysis.
type Run struct {
	ID        string // ULID
	Document  string
	CreatedAt time.Time
	Settings  config.Settings
	TagCounts map[string]int
	Criteria  map[string]criteria.Result
}

// Store is the interface for persisting and querying analysis runs.
type Store interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}
