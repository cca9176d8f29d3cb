package vivint

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// DispatchFunc receives every event raised anywhere in the object model,
// already attributed to a system and (when applicable) a device. A zero
// deviceID means the event concerns the system or panel itself.
type DispatchFunc func(event string, systemID, deviceID int64, data map[string]any)

// Account is the root of the object model: the set of systems visible to
// the authenticated user, kept current by push messages routed through
// HandleMessage.
type Account struct {
	api API

	mu         sync.RWMutex
	systems    []*System
	dispatcher DispatchFunc
}

// NewAccount creates an account backed by the given vendor API.
func NewAccount(api API) *Account {
	return &Account{api: api}
}

// API returns the vendor API collaborator.
func (a *Account) API() API { return a.api }

// SetDispatcher installs the account-wide event sink. Must be called
// before Refresh so discovery events are not lost.
func (a *Account) SetDispatcher(fn DispatchFunc) {
	a.mu.Lock()
	a.dispatcher = fn
	a.mu.Unlock()
}

func (a *Account) dispatch(event string, systemID, deviceID int64, data map[string]any) {
	a.mu.RLock()
	fn := a.dispatcher
	a.mu.RUnlock()
	if fn != nil {
		fn(event, systemID, deviceID, data)
	}
}

// Systems returns the known systems.
func (a *Account) Systems() []*System {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*System, len(a.systems))
	copy(out, a.systems)
	return out
}

// System returns the system with the given panel id, or nil.
func (a *Account) System(systemID int64) *System {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, s := range a.systems {
		if s.ID() == systemID {
			return s
		}
	}
	return nil
}

// Device returns a device by system and device id.
func (a *Account) Device(systemID, deviceID int64) (Device, error) {
	system := a.System(systemID)
	if system == nil {
		return nil, ErrSystemNotFound
	}
	dev := system.Device(deviceID)
	if dev == nil {
		return nil, ErrDeviceNotFound
	}
	return dev, nil
}

// Refresh loads the authenticated user's systems, building new ones and
// reloading those already known.
func (a *Account) Refresh(ctx context.Context) error {
	authUser, err := a.api.GetAuthUser(ctx)
	if err != nil {
		return err
	}
	if len(authUser.Users) == 0 {
		log.Warn().Msg("Auth user record lists no users")
		return nil
	}

	// Only the first user carries the account's systems.
	user := authUser.Users[0]
	for _, authSystem := range user.Systems {
		if system := a.System(authSystem.PanelID); system != nil {
			if err := system.Refresh(ctx); err != nil {
				log.Error().Err(err).Int64("system", system.ID()).Msg("System refresh failed")
			}
			continue
		}

		data, err := a.api.GetSystem(ctx, authSystem.PanelID)
		if err != nil {
			log.Error().Err(err).Int64("system", authSystem.PanelID).Msg("System load failed")
			continue
		}
		system := newSystem(data, a, authSystem.Nickname, authSystem.Admin)
		a.mu.Lock()
		a.systems = append(a.systems, system)
		a.mu.Unlock()
	}

	log.Debug().Int("systems", len(user.Systems)).Msg("Refreshed systems")
	return nil
}

// HandleMessage routes a push message to the system it addresses. Messages
// for unknown systems are dropped with a log line; they usually race a
// refresh that has not completed yet.
func (a *Account) HandleMessage(msg models.PushMessage) {
	system := a.System(msg.PanelID)
	if system == nil {
		log.Debug().
			Int64("system", msg.PanelID).
			Str("type", msg.Type).
			Msg("Message for unknown system")
		return
	}
	system.HandleMessage(msg)
}
