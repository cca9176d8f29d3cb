package models

import (
	"time"

	"github.com/google/uuid"
)

// EventRecord is a persisted envelope row.
type EventRecord struct {
	ID        uuid.UUID      `json:"id"`
	EventName string         `json:"event_name"`
	SystemID  int64          `json:"system_id"`
	DeviceID  int64          `json:"device_id,omitempty"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// CaptureRecord describes media persisted by the doorbell capture flow.
type CaptureRecord struct {
	ID           uuid.UUID `json:"id"`
	SystemID     int64     `json:"system_id"`
	DeviceID     int64     `json:"device_id"`
	Trigger      string    `json:"trigger"`
	SnapshotPath string    `json:"snapshot_path"`
	AudioPath    string    `json:"audio_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
