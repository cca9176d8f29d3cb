package models

import "strings"

// ArmedState represents an alarm panel's armed state.
type ArmedState int

const (
	ArmedStateDisarmed             ArmedState = 0
	ArmedStateArmingAwayExitDelay  ArmedState = 1
	ArmedStateArmingStayExitDelay  ArmedState = 2
	ArmedStateArmedStay            ArmedState = 3
	ArmedStateArmedAway            ArmedState = 4
	ArmedStateArmedStayEntryDelay  ArmedState = 5
	ArmedStateArmedAwayEntryDelay  ArmedState = 6
	ArmedStateAlarm                ArmedState = 7
	ArmedStateAlarmFire            ArmedState = 8
	ArmedStateDisabled             ArmedState = 11
	ArmedStateWalkTest             ArmedState = 12
	ArmedStateUnknown              ArmedState = -1
)

var armedStateNames = map[ArmedState]string{
	ArmedStateDisarmed:            "DISARMED",
	ArmedStateArmingAwayExitDelay: "ARMING_AWAY_IN_EXIT_DELAY",
	ArmedStateArmingStayExitDelay: "ARMING_STAY_IN_EXIT_DELAY",
	ArmedStateArmedStay:           "ARMED_STAY",
	ArmedStateArmedAway:           "ARMED_AWAY",
	ArmedStateArmedStayEntryDelay: "ARMED_STAY_IN_ENTRY_DELAY",
	ArmedStateArmedAwayEntryDelay: "ARMED_AWAY_IN_ENTRY_DELAY",
	ArmedStateAlarm:               "ALARM",
	ArmedStateAlarmFire:           "ALARM_FIRE",
	ArmedStateDisabled:            "DISABLED",
	ArmedStateWalkTest:            "WALK_TEST",
}

// String returns the state name, or UNKNOWN for unrecognized values.
func (s ArmedState) String() string {
	if name, ok := armedStateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ArmedStateFromRaw converts a raw attribute value into an ArmedState. Older
// payloads encode the state as a string name, newer ones as a number.
func ArmedStateFromRaw(v any) ArmedState {
	switch val := v.(type) {
	case float64:
		return validArmedState(ArmedState(val))
	case int:
		return validArmedState(ArmedState(val))
	case string:
		for state, name := range armedStateNames {
			if strings.EqualFold(name, val) {
				return state
			}
		}
	}
	return ArmedStateUnknown
}

func validArmedState(s ArmedState) ArmedState {
	if _, ok := armedStateNames[s]; ok {
		return s
	}
	return ArmedStateUnknown
}

// DeviceType is the vendor's device type code.
type DeviceType string

const (
	DeviceTypeBinarySwitch     DeviceType = "binary_switch_device"
	DeviceTypeCamera           DeviceType = "camera_device"
	DeviceTypeDoorLock         DeviceType = "door_lock_device"
	DeviceTypeGarageDoor       DeviceType = "garage_door_device"
	DeviceTypeMultilevelSwitch DeviceType = "multilevel_switch_device"
	DeviceTypePanel            DeviceType = "primary_touch_link_device"
	DeviceTypeThermostat       DeviceType = "thermostat_device"
	DeviceTypeWirelessSensor   DeviceType = "wireless_sensor"
	DeviceTypeUnknown          DeviceType = ""
)

// GarageDoorState represents a garage door's position.
type GarageDoorState int

const (
	GarageDoorStateUnknown GarageDoorState = 0
	GarageDoorStateClosed  GarageDoorState = 1
	GarageDoorStateClosing GarageDoorState = 2
	GarageDoorStateStopped GarageDoorState = 3
	GarageDoorStateOpening GarageDoorState = 4
	GarageDoorStateOpened  GarageDoorState = 5
)

// GarageDoorStateFromRaw converts a raw attribute value, defaulting to Unknown.
func GarageDoorStateFromRaw(v any) GarageDoorState {
	if n, ok := toInt(v); ok && n >= int(GarageDoorStateClosed) && n <= int(GarageDoorStateOpened) {
		return GarageDoorState(n)
	}
	return GarageDoorStateUnknown
}

// EquipmentType classifies a wireless sensor's hardware.
type EquipmentType int

const (
	EquipmentTypeContact     EquipmentType = 1
	EquipmentTypeMotion      EquipmentType = 2
	EquipmentTypeFreeze      EquipmentType = 6
	EquipmentTypeWater       EquipmentType = 8
	EquipmentTypeTemperature EquipmentType = 10
	EquipmentTypeEmergency   EquipmentType = 11
	EquipmentTypeUnknown     EquipmentType = -1
)

// SensorType classifies how the panel treats a sensor zone.
type SensorType int

const (
	SensorTypeExitEntry1     SensorType = 1
	SensorTypeExitEntry2     SensorType = 2
	SensorTypePerimeter      SensorType = 3
	SensorTypeInteriorFollow SensorType = 4
	SensorTypeFire           SensorType = 8
	SensorTypeFire24Hour     SensorType = 9
	SensorTypeCarbonMonoxide SensorType = 14
	SensorTypeUnused         SensorType = 0
	SensorTypeUnknown        SensorType = -1
)

// ZoneBypass values for the bypassed attribute.
const (
	ZoneUnbypassed       = 0
	ZoneManuallyBypassed = 1
	ZoneForceBypassed    = 2
)

// FanMode thermostat fan modes.
type FanMode int

const (
	FanModeAutoLow  FanMode = 0
	FanModeOnLow    FanMode = 1
	FanModeAutoHigh FanMode = 2
	FanModeOnHigh   FanMode = 3
	FanModeUnknown  FanMode = -1
)

// OperatingMode thermostat operating modes.
type OperatingMode int

const (
	OperatingModeOff       OperatingMode = 0
	OperatingModeHeat      OperatingMode = 1
	OperatingModeCool      OperatingMode = 2
	OperatingModeAuto      OperatingMode = 3
	OperatingModeEmergency OperatingMode = 4
	OperatingModeEco       OperatingMode = 100
	OperatingModeUnknown   OperatingMode = -1
)

// HoldMode thermostat hold modes.
type HoldMode int

const (
	HoldModeFree      HoldMode = 0
	HoldModeUntilNext HoldMode = 1
	HoldModeTwoHours  HoldMode = 2
	HoldModePermanent HoldMode = 3
	HoldModeUnknown   HoldMode = -1
)

// OperatingState thermostat operating states.
type OperatingState int

const (
	OperatingStateIdle    OperatingState = 0
	OperatingStateHeating OperatingState = 1
	OperatingStateCooling OperatingState = 2
	OperatingStateUnknown OperatingState = -1
)

// Capability gates whether a command is legal for a panel. The set is
// computed once at discovery time from the panel's firmware feature map
// instead of string-keyed lookups at call time.
type Capability int

const (
	CapabilityArming Capability = iota + 1
	CapabilityTriggerAlarm
	CapabilityReboot
	CapabilityLockControl
	CapabilitySwitchControl
	CapabilityGarageControl
	CapabilityThermostatControl
	CapabilitySensorBypass
	CapabilitySnapshot
)

// capabilityFeatureKeys maps vendor firmware feature keys to capabilities.
var capabilityFeatureKeys = map[string]Capability{
	"arming":           CapabilityArming,
	"trigger_alarm":    CapabilityTriggerAlarm,
	"rb":               CapabilityReboot,
	"lock_control":     CapabilityLockControl,
	"zwave_switch":     CapabilitySwitchControl,
	"garage_door":      CapabilityGarageControl,
	"hvac":             CapabilityThermostatControl,
	"zone_bypass":      CapabilitySensorBypass,
	"video_thumbnails": CapabilitySnapshot,
}

// CapabilitySet is the fixed set of capabilities negotiated for a panel.
type CapabilitySet map[Capability]struct{}

// Has reports whether the capability is present.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// CapabilitySetFromFeatures derives the capability set from a firmware
// feature map ("fea"). A nil map means feature negotiation never happened;
// all capabilities are assumed available, matching the vendor app's
// behavior on legacy panels.
func CapabilitySetFromFeatures(features map[string]any) CapabilitySet {
	set := make(CapabilitySet)
	if features == nil {
		for _, c := range capabilityFeatureKeys {
			set[c] = struct{}{}
		}
		return set
	}
	for key, c := range capabilityFeatureKeys {
		if enabled, ok := features[key].(bool); ok && enabled {
			set[c] = struct{}{}
		}
	}
	return set
}

// toInt coerces JSON numbers (float64 after unmarshal) and native ints.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// ToInt is the exported form used by the entity layer.
func ToInt(v any) (int, bool) { return toInt(v) }
