package vivint

import (
	"context"
	"math"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// Thermostat setpoint parameter names accepted by the vendor.
const (
	ThermostatParamCoolSetPoint  = "cool_set_point"
	ThermostatParamHeatSetPoint  = "heat_set_point"
	ThermostatParamFanMode       = "fan_mode"
	ThermostatParamOperatingMode = "operating_mode"
)

// Thermostat is an HVAC control device.
type Thermostat struct {
	GenericDevice
}

func newThermostat(data map[string]any, panel *AlarmPanel) *Thermostat {
	return &Thermostat{GenericDevice: newGenericDevice(data, panel)}
}

func (t *Thermostat) float(key string) (float64, bool) {
	raw, ok := t.Get(key)
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Temperature returns the current temperature reading.
func (t *Thermostat) Temperature() (float64, bool) { return t.float(models.AttrValue) }

// CoolSetPoint returns the cooling setpoint.
func (t *Thermostat) CoolSetPoint() (float64, bool) { return t.float(models.AttrCoolSetPoint) }

// HeatSetPoint returns the heating setpoint.
func (t *Thermostat) HeatSetPoint() (float64, bool) { return t.float(models.AttrHeatSetPoint) }

// MinimumTemperature returns the lowest allowed setpoint.
func (t *Thermostat) MinimumTemperature() (float64, bool) {
	return t.float(models.AttrMinimumTemperature)
}

// MaximumTemperature returns the highest allowed setpoint.
func (t *Thermostat) MaximumTemperature() (float64, bool) {
	return t.float(models.AttrMaximumTemperature)
}

// Humidity returns the relative humidity reading.
func (t *Thermostat) Humidity() (int, bool) { return t.Int(models.AttrHumidity) }

// FanMode returns the thermostat's fan mode.
func (t *Thermostat) FanMode() models.FanMode {
	if n, ok := t.Int(models.AttrFanMode); ok {
		return models.FanMode(n)
	}
	return models.FanModeUnknown
}

// HoldMode returns the thermostat's hold mode.
func (t *Thermostat) HoldMode() models.HoldMode {
	if n, ok := t.Int(models.AttrHoldMode); ok {
		return models.HoldMode(n)
	}
	return models.HoldModeUnknown
}

// OperatingMode returns the thermostat's operating mode.
func (t *Thermostat) OperatingMode() models.OperatingMode {
	if n, ok := t.Int(models.AttrOperatingMode); ok {
		return models.OperatingMode(n)
	}
	return models.OperatingModeUnknown
}

// OperatingState returns the thermostat's operating state.
func (t *Thermostat) OperatingState() models.OperatingState {
	if n, ok := t.Int(models.AttrOperatingState); ok {
		return models.OperatingState(n)
	}
	return models.OperatingStateUnknown
}

// IsFanOn reports whether the fan is currently running.
func (t *Thermostat) IsFanOn() bool {
	n, _ := t.Int(models.AttrFanState)
	return n == 1
}

// IsOn reports whether the thermostat is actively heating or cooling.
func (t *Thermostat) IsOn() bool { return t.OperatingState() != models.OperatingStateIdle }

// CelsiusToFahrenheit converts a Celsius reading to a rounded Fahrenheit value.
func CelsiusToFahrenheit(celsius float64) int {
	return int(math.Round(celsius*1.8 + 32))
}

// SetState sends arbitrary state parameters to the thermostat.
func (t *Thermostat) SetState(ctx context.Context, params map[string]any) error {
	if !t.panel.Supports(models.CapabilityThermostatControl) {
		return ErrUnsupportedCapability
	}
	return t.panel.api().SetThermostatState(ctx, t.panel.ID(), t.panel.PartitionID(), t.ID(), params)
}

// SetCoolSetPoint sets the cooling setpoint.
func (t *Thermostat) SetCoolSetPoint(ctx context.Context, setpoint float64) error {
	return t.SetState(ctx, map[string]any{ThermostatParamCoolSetPoint: setpoint})
}

// SetHeatSetPoint sets the heating setpoint.
func (t *Thermostat) SetHeatSetPoint(ctx context.Context, setpoint float64) error {
	return t.SetState(ctx, map[string]any{ThermostatParamHeatSetPoint: setpoint})
}

// SetFanMode sets the fan mode.
func (t *Thermostat) SetFanMode(ctx context.Context, mode models.FanMode) error {
	return t.SetState(ctx, map[string]any{ThermostatParamFanMode: int(mode)})
}

// SetOperatingMode sets the operating mode.
func (t *Thermostat) SetOperatingMode(ctx context.Context, mode models.OperatingMode) error {
	return t.SetState(ctx, map[string]any{ThermostatParamOperatingMode: int(mode)})
}
