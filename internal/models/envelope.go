package models

import "time"

// Event names emitted through the fan-out path. Raw vendor message types
// ("account_system", "account_partition") pass through as-is; these are the
// names synthesized by the entity layer and the capture manager.
const (
	EventDeviceUpdated    = "device_updated"
	EventDeviceDiscovered = "device_discovered"
	EventDeviceDeleted    = "device_deleted"
	EventPanelUpdated     = "panel_updated"
	EventSystemUpdated    = "system_updated"
	EventUserUpdated      = "user_updated"
	EventMotionDetected   = "motion_detected"
	EventDoorbellDing     = "doorbell_ding"
	EventThumbnailReady   = "thumbnail_ready"
	EventVideoReady       = "video_ready"
	EventCaptureSaved     = "capture_saved"
	EventPing             = "ping"
)

// Envelope is the canonical normalized event record delivered to subscribers.
// Timestamp is assigned at normalization time, never trusted from the
// upstream payload.
type Envelope struct {
	EventName string         `json:"event_name"`
	SystemID  int64          `json:"system_id"`
	DeviceID  int64          `json:"device_id,omitempty"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEnvelope builds an envelope stamped with the local clock (epoch millis).
func NewEnvelope(event string, systemID, deviceID int64, data map[string]any) Envelope {
	return Envelope{
		EventName: event,
		SystemID:  systemID,
		DeviceID:  deviceID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// PingEnvelope is the heartbeat frame written directly to a session's
// transport. It never passes through a session queue.
var PingEnvelope = Envelope{EventName: EventPing}
