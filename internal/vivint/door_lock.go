package vivint

import (
	"context"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// DoorLock is a Z-Wave door lock.
type DoorLock struct {
	GenericDevice
	BypassTamper
}

func newDoorLock(data map[string]any, panel *AlarmPanel) *DoorLock {
	l := &DoorLock{GenericDevice: newGenericDevice(data, panel)}
	l.BypassTamper = BypassTamper{entity: &l.Entity}
	return l
}

// IsLocked reports whether the lock is currently locked.
func (l *DoorLock) IsLocked() bool { return l.Bool(models.AttrState) }

// UserCodeList returns the slot ids of user codes configured on the lock.
func (l *DoorLock) UserCodeList() []int {
	raw, ok := l.Get(models.AttrUserCodeList)
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []any:
		out := make([]int, 0, len(v))
		for _, item := range v {
			if n, ok := models.ToInt(item); ok {
				out = append(out, n)
			}
		}
		return out
	default:
		if n, ok := models.ToInt(raw); ok {
			return []int{n}
		}
	}
	return nil
}

// SetState requests a lock or unlock. State changes locally only when the
// vendor confirms via the push stream.
func (l *DoorLock) SetState(ctx context.Context, locked bool) error {
	if !l.panel.Supports(models.CapabilityLockControl) {
		return ErrUnsupportedCapability
	}
	return l.panel.api().SetLockState(ctx, l.panel.ID(), l.panel.PartitionID(), l.ID(), locked)
}

// Lock locks the door lock.
func (l *DoorLock) Lock(ctx context.Context) error { return l.SetState(ctx, true) }

// Unlock unlocks the door lock.
func (l *DoorLock) Unlock(ctx context.Context) error { return l.SetState(ctx, false) }
