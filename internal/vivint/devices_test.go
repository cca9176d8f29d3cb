package vivint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

func TestDoorLockStateAndCommands(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil,
		deviceBody(40, models.DeviceTypeDoorLock, map[string]any{
			models.AttrState:        true,
			models.AttrUserCodeList: []any{float64(1), float64(3)},
		}),
	)
	lock := system.Device(40).(*DoorLock)

	assert.True(t, lock.IsLocked())
	assert.Equal(t, []int{1, 3}, lock.UserCodeList())

	require.NoError(t, lock.Unlock(context.Background()))
	require.NoError(t, lock.Lock(context.Background()))
	assert.Equal(t, []string{"SetLockState", "SetLockState"}, api.recorded())

	// Command did not change local state.
	assert.True(t, lock.IsLocked())
}

func TestSwitchLevelValidation(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil,
		deviceBody(41, models.DeviceTypeBinarySwitch, nil),
		deviceBody(42, models.DeviceTypeMultilevelSwitch, map[string]any{models.AttrValue: float64(60)}),
	)
	binary := system.Device(41).(*Switch)
	dimmer := system.Device(42).(*Switch)

	assert.False(t, binary.IsMultilevel())
	assert.True(t, dimmer.IsMultilevel())
	assert.Equal(t, 60, dimmer.Level())

	ctx := context.Background()

	require.ErrorIs(t, binary.SetLevel(ctx, 50), ErrNotMultilevel)
	require.ErrorIs(t, dimmer.SetLevel(ctx, 101), ErrInvalidLevel)
	require.ErrorIs(t, dimmer.SetLevel(ctx, -1), ErrInvalidLevel)
	assert.Empty(t, api.recorded())

	require.NoError(t, dimmer.SetLevel(ctx, 50))
	require.NoError(t, binary.TurnOn(ctx))
	require.NoError(t, binary.TurnOff(ctx))
	assert.Len(t, api.recorded(), 3)
}

func TestGarageDoorStates(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil,
		deviceBody(43, models.DeviceTypeGarageDoor, map[string]any{models.AttrState: float64(1)}),
	)
	door := system.Device(43).(*GarageDoor)

	closed, known := door.IsClosed()
	assert.True(t, known)
	assert.True(t, closed)

	door.Update(map[string]any{models.AttrState: float64(4)}, false)
	assert.True(t, door.IsOpening())

	door.Update(map[string]any{models.AttrState: float64(99)}, false)
	_, known = door.IsClosed()
	assert.False(t, known)
	assert.Equal(t, models.GarageDoorStateUnknown, door.State())

	require.NoError(t, door.Open(context.Background()))
	require.NoError(t, door.Close(context.Background()))
	assert.Equal(t, []string{"SetGarageDoorState", "SetGarageDoorState"}, api.recorded())
}

func TestThermostatAccessors(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil,
		deviceBody(44, models.DeviceTypeThermostat, map[string]any{
			models.AttrValue:          float64(21.5),
			models.AttrCoolSetPoint:   float64(24),
			models.AttrHeatSetPoint:   float64(19),
			models.AttrHumidity:       float64(45),
			models.AttrOperatingState: float64(0),
		}),
	)
	thermostat := system.Device(44).(*Thermostat)

	temp, ok := thermostat.Temperature()
	require.True(t, ok)
	assert.InDelta(t, 21.5, temp, 0.001)

	cool, _ := thermostat.CoolSetPoint()
	heat, _ := thermostat.HeatSetPoint()
	assert.InDelta(t, 24, cool, 0.001)
	assert.InDelta(t, 19, heat, 0.001)
	assert.False(t, thermostat.IsOn())

	require.NoError(t, thermostat.SetCoolSetPoint(context.Background(), 25))
	assert.Equal(t, []string{"SetThermostatState"}, api.recorded())
}

func TestCelsiusToFahrenheit(t *testing.T) {
	assert.Equal(t, 32, CelsiusToFahrenheit(0))
	assert.Equal(t, 72, CelsiusToFahrenheit(22.2))
	assert.Equal(t, 212, CelsiusToFahrenheit(100))
}

func TestWirelessSensorValidity(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil,
		deviceBody(45, models.DeviceTypeWirelessSensor, map[string]any{
			models.AttrSerialNumber:  "A1B2C3",
			models.AttrEquipmentCode: float64(1251),
			models.AttrSensorType:    float64(1),
		}),
		deviceBody(46, models.DeviceTypeWirelessSensor, map[string]any{
			models.AttrSensorType: float64(0),
		}),
	)

	valid := system.Device(45).(*WirelessSensor)
	assert.True(t, valid.IsValid())

	unused := system.Device(46).(*WirelessSensor)
	assert.False(t, unused.IsValid())
}

func TestWirelessSensorParent(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil,
		deviceBody(47, models.DeviceTypeDoorLock, map[string]any{
			models.AttrSerialNumber: "LOCK01",
		}),
		deviceBody(48, models.DeviceTypeWirelessSensor, map[string]any{
			models.AttrSerialNumber: "LOCK01",
			models.AttrHidden:       true,
		}),
	)

	sensor := system.Device(48).(*WirelessSensor)
	parent := sensor.Parent()
	require.NotNil(t, parent)
	assert.Equal(t, int64(47), parent.ID())

	// Visible sensors have no parent.
	sensor.Update(map[string]any{models.AttrHidden: false}, false)
	assert.Nil(t, sensor.Parent())
}

func TestWirelessSensorBypass(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil,
		deviceBody(49, models.DeviceTypeWirelessSensor, nil),
	)
	sensor := system.Device(49).(*WirelessSensor)

	require.NoError(t, sensor.Bypass(context.Background()))
	require.NoError(t, sensor.Unbypass(context.Background()))
	assert.Equal(t, []string{"SetSensorBypass", "SetSensorBypass"}, api.recorded())
}

func TestUnknownDeviceType(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil,
		deviceBody(50, models.DeviceType("future_widget_device"), nil),
	)

	dev := system.Device(50)
	require.NotNil(t, dev)
	assert.IsType(t, &UnknownDevice{}, dev)

	// Unknown devices still absorb updates.
	dev.HandleMessage(map[string]any{models.AttrOnline: true})
	assert.True(t, dev.Online())
}

func TestGenericDeviceNameFallback(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil,
		deviceBody(51, models.DeviceTypeBinarySwitch, nil),
	)

	assert.Equal(t, "Binary Switch 51", system.Device(51).Name())
}

func TestSoftwareVersionForms(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil,
		deviceBody(60, models.DeviceTypeBinarySwitch, map[string]any{models.AttrCurrentSoftwareVersion: "3.2.1"}),
		deviceBody(61, models.DeviceTypeBinarySwitch, map[string]any{models.AttrFirmwareVersion: "1.0.4"}),
		deviceBody(62, models.DeviceTypeBinarySwitch, map[string]any{models.AttrFirmwareVersion: float64(7)}),
		deviceBody(63, models.DeviceTypeBinarySwitch, map[string]any{
			models.AttrFirmwareVersion: []any{float64(1), float64(2), float64(3)},
		}),
		deviceBody(64, models.DeviceTypeBinarySwitch, map[string]any{
			models.AttrFirmwareVersion: []any{[]any{float64(4), float64(5)}, []any{float64(6)}},
		}),
		deviceBody(65, models.DeviceTypeBinarySwitch, nil),
	)

	version := func(id int64) string { return system.Device(id).(*Switch).SoftwareVersion() }

	assert.Equal(t, "3.2.1", version(60))
	assert.Equal(t, "1.0.4", version(61))
	assert.Equal(t, "7", version(62))
	assert.Equal(t, "1.2.3", version(63))
	assert.Equal(t, "4.5.6", version(64))
	assert.Equal(t, "", version(65))
}
