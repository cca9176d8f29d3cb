package vivint

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// UnregisteredDevice is the remembered identity of a device removed from a
// panel, kept so late messages for it can be attributed in logs.
type UnregisteredDevice struct {
	Name string
	Type models.DeviceType
}

// AlarmPanel owns the armed state, the negotiated capability set and the
// ordered collection of child devices for one partition of a system.
type AlarmPanel struct {
	Entity
	system       *System
	capabilities models.CapabilitySet

	mu           sync.RWMutex
	devices      []Device
	unregistered map[int64]UnregisteredDevice
}

func newAlarmPanel(data map[string]any, system *System, features map[string]any) *AlarmPanel {
	p := &AlarmPanel{
		Entity:       newEntity(data),
		system:       system,
		capabilities: models.CapabilitySetFromFeatures(features),
		unregistered: make(map[int64]UnregisteredDevice),
	}
	p.SetEmitter(func(event string, changed map[string]any) {
		if event == EventUpdate {
			event = models.EventPanelUpdated
		}
		system.dispatch(event, 0, changed)
	})
	p.parseData(data, true)
	return p
}

// ID returns the panel id, which doubles as the system id.
func (p *AlarmPanel) ID() int64 {
	n, _ := p.Int(models.AttrPanelID)
	return int64(n)
}

// PartitionID returns the partition this panel represents.
func (p *AlarmPanel) PartitionID() int64 {
	n, _ := p.Int(models.AttrPartitionID)
	return int64(n)
}

// Name returns the owning system's name.
func (p *AlarmPanel) Name() string { return p.system.Name() }

// MACAddress returns the panel's MAC address.
func (p *AlarmPanel) MACAddress() string { return p.Str(models.AttrMACAddress) }

// Manufacturer is fixed for panels.
func (p *AlarmPanel) Manufacturer() string { return "Vivint" }

// State returns the panel's armed state, tolerating both numeric and
// textual encodings.
func (p *AlarmPanel) State() models.ArmedState {
	val, ok := p.Get(models.AttrState)
	if !ok {
		return models.ArmedStateUnknown
	}
	return models.ArmedStateFromRaw(val)
}

// IsDisarmed reports whether the alarm is disarmed.
func (p *AlarmPanel) IsDisarmed() bool { return p.State() == models.ArmedStateDisarmed }

// IsArmedStay reports whether the alarm is in armed stay state.
func (p *AlarmPanel) IsArmedStay() bool { return p.State() == models.ArmedStateArmedStay }

// IsArmedAway reports whether the alarm is in armed away state.
func (p *AlarmPanel) IsArmedAway() bool { return p.State() == models.ArmedStateArmedAway }

// IsArmed reports whether the alarm is in any armed state.
func (p *AlarmPanel) IsArmed() bool { return p.IsArmedStay() || p.IsArmedAway() }

// System returns the owning system.
func (p *AlarmPanel) System() *System { return p.system }

// Supports reports whether the panel negotiated the capability.
func (p *AlarmPanel) Supports(c models.Capability) bool { return p.capabilities.Has(c) }

// Devices returns the child devices in discovery order.
func (p *AlarmPanel) Devices() []Device {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Device, len(p.devices))
	copy(out, p.devices)
	return out
}

// Device returns the child device with the given id, or nil.
func (p *AlarmPanel) Device(id int64) Device {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.deviceLocked(id)
}

func (p *AlarmPanel) deviceLocked(id int64) Device {
	for _, dev := range p.devices {
		if dev.ID() == id {
			return dev
		}
	}
	return nil
}

// UnregisteredDevices returns devices deleted from this panel.
func (p *AlarmPanel) UnregisteredDevices() map[int64]UnregisteredDevice {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[int64]UnregisteredDevice, len(p.unregistered))
	for id, d := range p.unregistered {
		out[id] = d
	}
	return out
}

func (p *AlarmPanel) api() API { return p.system.account.api }

// SetArmedState requests an armed-state change. Local state changes only
// when the vendor confirms via the push stream.
func (p *AlarmPanel) SetArmedState(ctx context.Context, state models.ArmedState) error {
	if !p.Supports(models.CapabilityArming) {
		return ErrUnsupportedCapability
	}
	log.Debug().Str("panel", p.Name()).Stringer("state", state).Msg("Setting armed state")
	return p.api().SetAlarmState(ctx, p.ID(), p.PartitionID(), state)
}

// Disarm disarms the alarm.
func (p *AlarmPanel) Disarm(ctx context.Context) error {
	return p.SetArmedState(ctx, models.ArmedStateDisarmed)
}

// ArmStay sets the alarm to armed stay.
func (p *AlarmPanel) ArmStay(ctx context.Context) error {
	return p.SetArmedState(ctx, models.ArmedStateArmedStay)
}

// ArmAway sets the alarm to armed away.
func (p *AlarmPanel) ArmAway(ctx context.Context) error {
	return p.SetArmedState(ctx, models.ArmedStateArmedAway)
}

// TriggerAlarm triggers an alarm on the panel.
func (p *AlarmPanel) TriggerAlarm(ctx context.Context) error {
	if !p.Supports(models.CapabilityTriggerAlarm) {
		return ErrUnsupportedCapability
	}
	return p.api().TriggerAlarm(ctx, p.ID(), p.PartitionID())
}

// Reboot reboots the panel. Admin only.
func (p *AlarmPanel) Reboot(ctx context.Context) error {
	if !p.Supports(models.CapabilityReboot) {
		return ErrUnsupportedCapability
	}
	if !p.system.IsAdmin() {
		return ErrNotAdmin
	}
	return p.api().RebootPanel(ctx, p.ID())
}

// HandleMessage routes a partition push message to the panel itself or to
// the addressed child devices.
func (p *AlarmPanel) HandleMessage(msg models.PushMessage) {
	if msg.Data == nil {
		log.Debug().
			Int64("panel", p.ID()).
			Int64("partition", p.PartitionID()).
			Msg("Ignoring partition message with no data")
		return
	}

	rawDevices, ok := msg.Data[models.AttrDevices].([]any)
	if !ok || len(rawDevices) == 0 {
		// Message is for the panel itself.
		p.Update(msg.Data, false)
		return
	}

	for _, raw := range rawDevices {
		deviceData, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		deviceID, ok := models.ToInt(deviceData[models.AttrID])
		if !ok {
			log.Debug().Msg("Device fragment without id, skipping")
			continue
		}

		switch msg.Operation {
		case models.OperationCreate:
			p.addDevice(deviceData)
		case models.OperationDelete:
			p.removeDevice(int64(deviceID))
		default:
			p.mu.RLock()
			dev := p.deviceLocked(int64(deviceID))
			p.mu.RUnlock()
			if dev == nil {
				log.Debug().
					Int("device", deviceID).
					Msg("Ignoring message for unknown device")
				continue
			}
			dev.HandleMessage(deviceData)
		}
	}
}

// Refresh replaces the panel's raw data and reconciles the device list
// against it. Used after a full system reload.
func (p *AlarmPanel) Refresh(data map[string]any) {
	p.Update(data, true)
	p.parseData(data, false)
}

func (p *AlarmPanel) addDevice(deviceData map[string]any) {
	deviceID, _ := models.ToInt(deviceData[models.AttrID])

	p.mu.Lock()
	if existing := p.deviceLocked(int64(deviceID)); existing != nil {
		p.mu.Unlock()
		existing.Update(deviceData, true)
		return
	}
	dev := p.buildDevice(deviceData)
	p.devices = append(p.devices, dev)
	delete(p.unregistered, dev.ID())
	p.mu.Unlock()

	p.system.dispatch(models.EventDeviceDiscovered, dev.ID(), map[string]any{
		models.AttrType: string(dev.DeviceType()),
		models.AttrName: dev.Name(),
	})

	// Create fragments are sparse; fetch the full payload off the stream
	// goroutine and fold it in when it arrives.
	go p.hydrateDevice(dev)
}

func (p *AlarmPanel) hydrateDevice(dev Device) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	body, err := p.api().GetDeviceData(ctx, p.ID(), dev.ID())
	if err != nil {
		log.Debug().Err(err).Int64("device", dev.ID()).Msg("Device hydration failed")
		return
	}
	rawDevices, _ := body[models.AttrDevices].([]any)
	for _, raw := range rawDevices {
		deviceData, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := models.ToInt(deviceData[models.AttrID]); ok && int64(id) == dev.ID() {
			dev.Update(deviceData, true)
			return
		}
	}
}

func (p *AlarmPanel) removeDevice(deviceID int64) {
	p.mu.Lock()
	var removed Device
	for i, dev := range p.devices {
		if dev.ID() == deviceID {
			removed = dev
			p.devices = append(p.devices[:i], p.devices[i+1:]...)
			break
		}
	}
	if removed != nil {
		p.unregistered[deviceID] = UnregisteredDevice{
			Name: removed.Name(),
			Type: removed.DeviceType(),
		}
	}
	p.mu.Unlock()

	if removed != nil {
		p.system.dispatch(models.EventDeviceDeleted, deviceID, map[string]any{
			models.AttrName: removed.Name(),
			models.AttrType: string(removed.DeviceType()),
		})
	}
}

// parseData builds or reconciles child devices from a raw panel payload.
// Order of first appearance is preserved as discovery order.
func (p *AlarmPanel) parseData(data map[string]any, init bool) {
	rawDevices, _ := data[models.AttrDevices].([]any)

	p.mu.Lock()
	for _, raw := range rawDevices {
		deviceData, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		deviceID, ok := models.ToInt(deviceData[models.AttrID])
		if !ok {
			continue
		}
		if !init {
			if existing := p.deviceLocked(int64(deviceID)); existing != nil {
				p.mu.Unlock()
				existing.Update(deviceData, true)
				p.mu.Lock()
				continue
			}
		}
		p.devices = append(p.devices, p.buildDevice(deviceData))
	}

	if rawUnregistered, ok := data[models.AttrUnregistered].([]any); ok {
		for _, raw := range rawUnregistered {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if id, ok := models.ToInt(entry[models.AttrID]); ok {
				name, _ := entry[models.AttrName].(string)
				deviceType, _ := entry[models.AttrType].(string)
				p.unregistered[int64(id)] = UnregisteredDevice{
					Name: name,
					Type: models.DeviceType(deviceType),
				}
			}
		}
	}
	p.mu.Unlock()
}

// buildDevice constructs a variant and wires its change notifications into
// the system dispatcher. Callers hold p.mu.
func (p *AlarmPanel) buildDevice(deviceData map[string]any) Device {
	dev := newDevice(deviceData, p)
	dev.SetEmitter(p.deviceEmitter(dev.ID()))
	return dev
}

func (p *AlarmPanel) deviceEmitter(deviceID int64) EmitFunc {
	return func(event string, data map[string]any) {
		if event == EventUpdate {
			event = models.EventDeviceUpdated
		}
		p.system.dispatch(event, deviceID, data)
	}
}
