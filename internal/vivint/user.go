package vivint

import "github.com/ChrisWondeFro/vivintpy/internal/models"

// addLockKey is the dotted-path form pushed when a lock grant is added to a
// user: the value is the single new lock id, not the full list.
const addLockKey = models.AttrLockIDs + ".1"

// User is an account user attached to a system: identity, admin flag, pin
// placement and which locks the user's code is loaded on.
type User struct {
	Entity
	system *System
}

func newUser(data map[string]any, system *System) *User {
	u := &User{Entity: newEntity(data), system: system}
	u.SetEmitter(func(event string, changed map[string]any) {
		if event == EventUpdate {
			event = models.EventUserUpdated
		}
		payload := make(map[string]any, len(changed)+1)
		for k, v := range changed {
			payload[k] = v
		}
		payload[models.AttrID] = u.ID()
		system.dispatch(event, 0, payload)
	})
	return u
}

// ID returns the user's id.
func (u *User) ID() int64 {
	if n, ok := u.Int(models.AttrID); ok {
		return int64(n)
	}
	return 0
}

// Name returns the user's display name.
func (u *User) Name() string { return u.Str(models.AttrName) }

// IsAdmin reports whether the user administers the system.
func (u *User) IsAdmin() bool { return u.Bool(models.AttrAdmin) }

// IsRegistered reports whether the user completed registration.
func (u *User) IsRegistered() bool { return u.Bool(models.AttrUserRegistered) }

// HasLockPin reports whether the user has a pin loaded on any lock.
func (u *User) HasLockPin() bool { return u.Bool(models.AttrHasLockPin) }

// HasPanelPin reports whether the user has a panel pin.
func (u *User) HasPanelPin() bool { return u.Bool(models.AttrHasPanelPin) }

// HasPins reports whether the user has any pins at all.
func (u *User) HasPins() bool { return u.Bool(models.AttrHasPins) }

// HasRemoteAccess reports whether the user may control the system remotely.
func (u *User) HasRemoteAccess() bool { return u.Bool(models.AttrRemoteAccess) }

// LockIDs returns the ids of the locks carrying the user's code. The wire
// value may be a list or a bare id.
func (u *User) LockIDs() []int64 {
	val, ok := u.Get(models.AttrLockIDs)
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case []int64:
		return append([]int64(nil), v...)
	case []any:
		ids := make([]int64, 0, len(v))
		for _, item := range v {
			if n, ok := models.ToInt(item); ok {
				ids = append(ids, int64(n))
			}
		}
		return ids
	default:
		if n, ok := models.ToInt(val); ok {
			return []int64{int64(n)}
		}
	}
	return nil
}

// HandleMessage applies a per-user fragment from an account_system push.
// An add-lock fragment carries the new id under a dotted key; it is folded
// into the full lock id list before the merge.
func (u *User) HandleMessage(data map[string]any) {
	if raw, ok := data[addLockKey]; ok {
		if n, ok := models.ToInt(raw); ok {
			data[models.AttrLockIDs] = append(u.LockIDs(), int64(n))
		}
		delete(data, addLockKey)
	}
	u.Update(data, false)
}
