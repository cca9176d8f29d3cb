package vivint

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// System is one monitored home: its raw body, its partitions' alarm panels,
// its account users and the account-level identity (name, admin flag) that
// came from the auth user record rather than the system body itself.
type System struct {
	Entity
	account *Account
	name    string
	isAdmin bool

	mu     sync.RWMutex
	panels []*AlarmPanel
	users  []*User
}

func newSystem(data map[string]any, account *Account, name string, isAdmin bool) *System {
	s := &System{
		Entity:  newEntity(data),
		account: account,
		name:    name,
		isAdmin: isAdmin,
	}
	s.SetEmitter(func(event string, changed map[string]any) {
		if event == EventUpdate {
			event = models.EventSystemUpdated
		}
		s.dispatch(event, 0, changed)
	})
	s.buildPanels(data)
	s.buildUsers(data)
	return s
}

// body returns the nested "system" object from the raw body.
func (s *System) body() map[string]any {
	if nested, ok := s.Get(models.AttrSystem); ok {
		if m, ok := nested.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// ID returns the system's panel id.
func (s *System) ID() int64 {
	if n, ok := models.ToInt(s.body()[models.AttrPanelID]); ok {
		return int64(n)
	}
	return 0
}

// Name returns the system's nickname from the auth user record.
func (s *System) Name() string { return s.name }

// IsAdmin reports whether the account user administers this system.
func (s *System) IsAdmin() bool { return s.isAdmin }

// Panels returns the system's alarm panels, one per partition.
func (s *System) Panels() []*AlarmPanel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*AlarmPanel, len(s.panels))
	copy(out, s.panels)
	return out
}

// Panel returns the alarm panel for a partition, or nil.
func (s *System) Panel(partitionID int64) *AlarmPanel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.panels {
		if p.PartitionID() == partitionID {
			return p
		}
	}
	return nil
}

// Users returns the system's account users.
func (s *System) Users() []*User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*User, len(s.users))
	copy(out, s.users)
	return out
}

// User returns the account user with the given id, or nil.
func (s *System) User(userID int64) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID() == userID {
			return u
		}
	}
	return nil
}

// Device returns the device with the given id from any partition, or nil.
func (s *System) Device(deviceID int64) Device {
	for _, p := range s.Panels() {
		if dev := p.Device(deviceID); dev != nil {
			return dev
		}
	}
	return nil
}

// featureSet returns the firmware feature map used for capability
// negotiation, nil when the body does not carry one.
func (s *System) featureSet() map[string]any {
	if fea, ok := s.body()[models.AttrFeatureSet].(map[string]any); ok {
		return fea
	}
	return nil
}

func (s *System) buildPanels(data map[string]any) {
	body, _ := data[models.AttrSystem].(map[string]any)
	if body == nil {
		return
	}
	partitions, _ := body[models.AttrPartitions].([]any)
	features, _ := body[models.AttrFeatureSet].(map[string]any)

	s.mu.Lock()
	for _, raw := range partitions {
		panelData, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		s.panels = append(s.panels, newAlarmPanel(panelData, s, features))
	}
	s.mu.Unlock()
}

func (s *System) buildUsers(data map[string]any) {
	body, _ := data[models.AttrSystem].(map[string]any)
	if body == nil {
		return
	}
	entries, _ := body[models.AttrUsers].([]any)

	s.mu.Lock()
	for _, raw := range entries {
		userData, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		s.users = append(s.users, newUser(userData, s))
	}
	s.mu.Unlock()
}

// updateUserData routes per-user fragments from an account_system push to
// the matching user entities.
func (s *System) updateUserData(raw any) {
	entries, ok := raw.([]any)
	if !ok {
		if single, isMap := raw.(map[string]any); isMap {
			entries = []any{single}
		} else {
			return
		}
	}
	for _, item := range entries {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, ok := models.ToInt(entry[models.AttrID])
		if !ok {
			continue
		}
		user := s.User(int64(id))
		if user == nil {
			log.Debug().
				Int64("system", s.ID()).
				Int64("user", int64(id)).
				Msg("No user for system")
			continue
		}
		user.HandleMessage(entry)
	}
}

// Refresh reloads the system body from the vendor and reconciles panels
// and their devices against it.
func (s *System) Refresh(ctx context.Context) error {
	data, err := s.account.api.GetSystem(ctx, s.ID())
	if err != nil {
		return err
	}
	s.Update(data, true)

	body, _ := data[models.AttrSystem].(map[string]any)
	if body == nil {
		return nil
	}
	partitions, _ := body[models.AttrPartitions].([]any)
	features, _ := body[models.AttrFeatureSet].(map[string]any)

	for _, raw := range partitions {
		panelData, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		partitionID, _ := models.ToInt(panelData[models.AttrPartitionID])

		if panel := s.Panel(int64(partitionID)); panel != nil {
			panel.Refresh(panelData)
			continue
		}
		s.mu.Lock()
		s.panels = append(s.panels, newAlarmPanel(panelData, s, features))
		s.mu.Unlock()
	}
	return nil
}

// HandleMessage routes a push message addressed to this system.
func (s *System) HandleMessage(msg models.PushMessage) {
	switch msg.Type {
	case models.MessageTypeAccountSystem:
		if msg.Operation == models.OperationUpdate && msg.Data != nil {
			data := msg.Data
			if rawUsers, ok := data[models.AttrUsers]; ok {
				s.updateUserData(rawUsers)
				// User fragments belong to the user entities, not the
				// system's root attribute map.
				data = make(map[string]any, len(msg.Data))
				for k, v := range msg.Data {
					if k != models.AttrUsers {
						data[k] = v
					}
				}
			}
			s.Update(data, false)
		}

	case models.MessageTypeAccountPartition:
		if msg.PartitionID == 0 {
			log.Debug().
				Int64("system", s.ID()).
				Msg("Ignoring partition message without partition id")
			return
		}
		if msg.Data == nil {
			log.Debug().
				Int64("system", s.ID()).
				Int64("partition", msg.PartitionID).
				Msg("Ignoring partition message without data")
			return
		}
		panel := s.Panel(msg.PartitionID)
		if panel == nil {
			log.Debug().
				Int64("system", s.ID()).
				Int64("partition", msg.PartitionID).
				Msg("No alarm panel for partition")
			return
		}
		panel.HandleMessage(msg)

	default:
		log.Warn().
			Int64("system", s.ID()).
			Str("type", msg.Type).
			Msg("Unknown message type for system")
	}
}

// dispatch forwards an event to the account-level dispatcher.
func (s *System) dispatch(event string, deviceID int64, data map[string]any) {
	s.account.dispatch(event, s.ID(), deviceID, data)
}
