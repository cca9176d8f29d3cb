package broker

import "github.com/ChrisWondeFro/vivintpy/internal/models"

// Filter narrows a subscription to one system and optionally one device.
// Nil fields match everything; filters are fixed for a session's lifetime.
type Filter struct {
	SystemID *int64
	DeviceID *int64
}

// Matches reports whether the envelope passes the filter. Envelopes
// without a device id only pass device filters when no device is pinned.
func (f Filter) Matches(env models.Envelope) bool {
	if f.SystemID != nil && env.SystemID != *f.SystemID {
		return false
	}
	if f.DeviceID != nil && env.DeviceID != *f.DeviceID {
		return false
	}
	return true
}
