package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// Common errors
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidData = errors.New("invalid data")
)

// EventFilters narrows event history queries. Nil fields match everything.
type EventFilters struct {
	SystemID  *int64
	DeviceID  *int64
	EventName *string
	StartTime *time.Time
	EndTime   *time.Time
}

// Store defines the persistence interface for event history and captures.
type Store interface {
	// Transaction support
	BeginTx(ctx context.Context) (Store, error)
	Commit() error
	Rollback() error

	// Event history
	SaveEvent(ctx context.Context, env models.Envelope) error
	ListEvents(ctx context.Context, filters EventFilters, limit, offset int) ([]*models.EventRecord, int64, error)

	// Doorbell captures
	SaveCapture(ctx context.Context, capture *models.CaptureRecord) error
	GetCapture(ctx context.Context, id string) (*models.CaptureRecord, error)
	ListCaptures(ctx context.Context, systemID, deviceID *int64, limit, offset int) ([]*models.CaptureRecord, int64, error)

	Close() error
}
