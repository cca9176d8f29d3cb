package vivint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

func partitionMessage(panelID, partitionID int64, op string, data map[string]any) models.PushMessage {
	return models.PushMessage{
		Type:        models.MessageTypeAccountPartition,
		Operation:   op,
		PanelID:     panelID,
		PartitionID: partitionID,
		Data:        data,
	}
}

func TestPanelParsesDevicesInOrder(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil,
		deviceBody(10, models.DeviceTypeDoorLock, map[string]any{models.AttrName: "Front Door"}),
		deviceBody(11, models.DeviceTypeCamera, nil),
		deviceBody(12, models.DeviceTypeBinarySwitch, nil),
	)

	panel := system.Panel(1)
	require.NotNil(t, panel)

	devices := panel.Devices()
	require.Len(t, devices, 3)
	assert.Equal(t, int64(10), devices[0].ID())
	assert.Equal(t, int64(11), devices[1].ID())
	assert.Equal(t, int64(12), devices[2].ID())

	assert.IsType(t, &DoorLock{}, devices[0])
	assert.IsType(t, &Camera{}, devices[1])
	assert.IsType(t, &Switch{}, devices[2])
}

func TestPanelMessageWithoutDevicesUpdatesPanel(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil)
	panel := system.Panel(1)

	require.True(t, panel.IsDisarmed())

	panel.HandleMessage(partitionMessage(123, 1, models.OperationUpdate, map[string]any{
		models.AttrState: float64(3),
	}))

	assert.Equal(t, models.ArmedStateArmedStay, panel.State())
	assert.True(t, panel.IsArmed())
}

func TestPanelCreateOperationAddsDevice(t *testing.T) {
	api := newFakeAPI()
	account, system := testSystem(api, 123, nil)
	panel := system.Panel(1)

	var discovered []int64
	account.SetDispatcher(func(event string, systemID, deviceID int64, data map[string]any) {
		if event == models.EventDeviceDiscovered {
			discovered = append(discovered, deviceID)
		}
	})

	panel.HandleMessage(partitionMessage(123, 1, models.OperationCreate, map[string]any{
		models.AttrDevices: []any{
			deviceBody(20, models.DeviceTypeWirelessSensor, map[string]any{models.AttrName: "Back Window"}),
		},
	}))

	dev := panel.Device(20)
	require.NotNil(t, dev)
	assert.Equal(t, "Back Window", dev.Name())
	assert.Equal(t, []int64{20}, discovered)
}

func TestPanelDeleteOperationRemembersDevice(t *testing.T) {
	api := newFakeAPI()
	account, system := testSystem(api, 123, nil,
		deviceBody(10, models.DeviceTypeDoorLock, map[string]any{models.AttrName: "Front Door"}),
	)
	panel := system.Panel(1)

	var deleted []int64
	account.SetDispatcher(func(event string, systemID, deviceID int64, data map[string]any) {
		if event == models.EventDeviceDeleted {
			deleted = append(deleted, deviceID)
		}
	})

	panel.HandleMessage(partitionMessage(123, 1, models.OperationDelete, map[string]any{
		models.AttrDevices: []any{
			map[string]any{models.AttrID: float64(10)},
		},
	}))

	assert.Nil(t, panel.Device(10))
	assert.Equal(t, []int64{10}, deleted)

	unregistered := panel.UnregisteredDevices()
	require.Contains(t, unregistered, int64(10))
	assert.Equal(t, "Front Door", unregistered[10].Name)
}

func TestPanelUpdateRoutesToDevice(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil,
		deviceBody(10, models.DeviceTypeDoorLock, map[string]any{models.AttrState: false}),
	)
	panel := system.Panel(1)

	panel.HandleMessage(partitionMessage(123, 1, models.OperationUpdate, map[string]any{
		models.AttrDevices: []any{
			map[string]any{models.AttrID: float64(10), models.AttrState: true},
		},
	}))

	lock, ok := panel.Device(10).(*DoorLock)
	require.True(t, ok)
	assert.True(t, lock.IsLocked())
}

func TestPanelMessageForUnknownDeviceIsDropped(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil)
	panel := system.Panel(1)

	// Must not panic or create a device.
	panel.HandleMessage(partitionMessage(123, 1, models.OperationUpdate, map[string]any{
		models.AttrDevices: []any{
			map[string]any{models.AttrID: float64(99), models.AttrState: true},
		},
	}))
	assert.Nil(t, panel.Device(99))
}

func TestPanelArmCommandsCallAPI(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil)
	panel := system.Panel(1)
	ctx := context.Background()

	require.NoError(t, panel.ArmStay(ctx))
	require.NoError(t, panel.ArmAway(ctx))
	require.NoError(t, panel.Disarm(ctx))

	assert.Equal(t, []string{"SetAlarmState", "SetAlarmState", "SetAlarmState"}, api.recorded())

	// Commands never mutate local state; only push confirmations do.
	assert.True(t, panel.IsDisarmed())
}

func TestPanelUnsupportedCapabilityFailsBeforeAPICall(t *testing.T) {
	api := newFakeAPI()
	// Explicit feature map with arming disabled.
	_, system := testSystem(api, 123, map[string]any{"trigger_alarm": true})
	panel := system.Panel(1)

	err := panel.ArmStay(context.Background())
	require.ErrorIs(t, err, ErrUnsupportedCapability)
	assert.Empty(t, api.recorded())
}

func TestPanelNilFeaturesAllowsEverything(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil)
	panel := system.Panel(1)

	assert.True(t, panel.Supports(models.CapabilityArming))
	assert.True(t, panel.Supports(models.CapabilityReboot))
	assert.True(t, panel.Supports(models.CapabilitySnapshot))
}

func TestPanelRebootRequiresAdmin(t *testing.T) {
	api := newFakeAPI()
	account := NewAccount(api)
	system := newSystem(systemBody(123, nil), account, "Home", false)
	account.systems = append(account.systems, system)
	panel := system.Panel(1)

	err := panel.Reboot(context.Background())
	require.ErrorIs(t, err, ErrNotAdmin)
	assert.Empty(t, api.recorded())
}

func TestPanelTriggerAlarm(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil)
	panel := system.Panel(1)

	require.NoError(t, panel.TriggerAlarm(context.Background()))
	assert.Equal(t, []string{"TriggerAlarm"}, api.recorded())
}
