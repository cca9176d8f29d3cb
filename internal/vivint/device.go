package vivint

import (
	"fmt"
	"strings"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// Device is the capability set shared by all device variants. Variants are
// a tagged union over this interface; dispatch happens via type switches or
// variant assertions, not inheritance.
type Device interface {
	ID() int64
	Name() string
	DeviceType() models.DeviceType
	Online() bool
	Attributes() map[string]any
	Update(data map[string]any, override bool) bool
	Panel() *AlarmPanel
	SetEmitter(emit EmitFunc)

	// HandleMessage applies a push-stream fragment addressed to this device.
	HandleMessage(data map[string]any)
}

// newDevice maps a raw device payload to the variant implementing it.
func newDevice(data map[string]any, panel *AlarmPanel) Device {
	deviceType, _ := data[models.AttrType].(string)
	switch models.DeviceType(deviceType) {
	case models.DeviceTypeCamera:
		return newCamera(data, panel)
	case models.DeviceTypeDoorLock:
		return newDoorLock(data, panel)
	case models.DeviceTypeGarageDoor:
		return newGarageDoor(data, panel)
	case models.DeviceTypeBinarySwitch:
		return newSwitch(data, panel, false)
	case models.DeviceTypeMultilevelSwitch:
		return newSwitch(data, panel, true)
	case models.DeviceTypeThermostat:
		return newThermostat(data, panel)
	case models.DeviceTypeWirelessSensor:
		return newWirelessSensor(data, panel)
	case models.DeviceTypePanel:
		return &UnknownDevice{newGenericDevice(data, panel)}
	default:
		return &UnknownDevice{newGenericDevice(data, panel)}
	}
}

// GenericDevice carries the hardware metadata and raw state common to every
// variant. Identity (the _id attribute) is immutable after construction.
type GenericDevice struct {
	Entity
	panel *AlarmPanel
	id    int64
}

func newGenericDevice(data map[string]any, panel *AlarmPanel) GenericDevice {
	d := GenericDevice{Entity: newEntity(data), panel: panel}
	if n, ok := models.ToInt(data[models.AttrID]); ok {
		d.id = int64(n)
	}
	return d
}

// ID returns the device id, unique within its system.
func (d *GenericDevice) ID() int64 { return d.id }

// Name returns the user-assigned name, or a synthesized "<Type> <id>"
// fallback so the value is never empty.
func (d *GenericDevice) Name() string {
	if name := d.Str(models.AttrName); name != "" {
		return name
	}
	label := strings.TrimSuffix(string(d.DeviceType()), "_device")
	label = strings.ReplaceAll(label, "_", " ")
	if label == "" {
		label = "device"
	}
	return fmt.Sprintf("%s %d", strings.Title(label), d.ID())
}

// DeviceType returns the vendor device type code.
func (d *GenericDevice) DeviceType() models.DeviceType {
	return models.DeviceType(d.Str(models.AttrType))
}

// Online reports connectivity as last seen from the vendor.
func (d *GenericDevice) Online() bool { return d.Bool(models.AttrOnline) }

// Panel returns the owning alarm panel.
func (d *GenericDevice) Panel() *AlarmPanel { return d.panel }

// PanelID returns the id of the panel this device is associated to.
func (d *GenericDevice) PanelID() int64 {
	n, _ := d.Int(models.AttrPanelID)
	return int64(n)
}

// HasBattery reports whether the device exposes battery details.
func (d *GenericDevice) HasBattery() bool {
	return d.Has(models.AttrBatteryLevel) || d.Has(models.AttrLowBattery)
}

// BatteryLevel returns the battery percentage. Devices that report only a
// low-battery flag map to 0 or 100.
func (d *GenericDevice) BatteryLevel() (int, bool) {
	if !d.HasBattery() {
		return 0, false
	}
	if level, ok := d.Int(models.AttrBatteryLevel); ok {
		return level, true
	}
	if d.LowBattery() {
		return 0, true
	}
	return 100, true
}

// LowBattery reports the low-battery flag.
func (d *GenericDevice) LowBattery() bool { return d.Bool(models.AttrLowBattery) }

// SerialNumber returns the serial, preferring the 32-bit form. The raw value
// may be numeric or string depending on the device generation.
func (d *GenericDevice) SerialNumber() string {
	for _, key := range []string{models.AttrSerialNumber32Bit, models.AttrSerialNumber} {
		val, ok := d.Get(key)
		if !ok || val == nil {
			continue
		}
		switch v := val.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

// SoftwareVersion normalizes the several firmware version encodings the
// vendor uses (plain value, list of ints, list of lists) into a dotted
// string.
func (d *GenericDevice) SoftwareVersion() string {
	if csv := d.Str(models.AttrCurrentSoftwareVersion); csv != "" {
		return csv
	}
	val, ok := d.Get(models.AttrFirmwareVersion)
	if !ok || val == nil {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			switch part := item.(type) {
			case float64:
				parts = append(parts, fmt.Sprintf("%.0f", part))
			case []any:
				for _, inner := range part {
					if n, ok := inner.(float64); ok {
						parts = append(parts, fmt.Sprintf("%.0f", n))
					}
				}
			}
		}
		return strings.Join(parts, ".")
	}
	return fmt.Sprintf("%v", val)
}

// HandleMessage treats the fragment as a partial update. Variants layer
// event detection on top.
func (d *GenericDevice) HandleMessage(data map[string]any) {
	d.Update(data, false)
}

// BypassTamper is the optional capability attached to sensors and locks
// that can be bypassed or report tampering. Composition, not inheritance:
// variants that carry it embed this struct next to GenericDevice.
type BypassTamper struct {
	entity *Entity
}

// IsBypassed reports whether the zone is bypassed (manually or forced).
func (b BypassTamper) IsBypassed() bool {
	val, ok := b.entity.Get(models.AttrBypassed)
	if !ok {
		return false
	}
	if n, ok := models.ToInt(val); ok {
		return n != models.ZoneUnbypassed
	}
	return false
}

// IsTampered reports the tamper flag.
func (b BypassTamper) IsTampered() bool { return b.entity.Bool(models.AttrTamper) }

// UnknownDevice is the fallback for unrecognized vendor type codes. It keeps
// state updated and streamable but exposes no commands.
type UnknownDevice struct {
	GenericDevice
}
