package vivint

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

func TestAccountRefreshBuildsSystems(t *testing.T) {
	api := newFakeAPI()
	api.authUser = &models.AuthUser{
		Users: []models.AuthUserEntry{{
			ID: "user-1",
			Systems: []models.AuthUserSystem{
				{PanelID: 123, Nickname: "Home", Admin: true},
				{PanelID: 456, Nickname: "Cabin"},
			},
		}},
	}
	api.systemData[123] = systemBody(123, nil,
		deviceBody(10, models.DeviceTypeDoorLock, nil),
	)
	api.systemData[456] = systemBody(456, nil)

	account := NewAccount(api)
	require.NoError(t, account.Refresh(context.Background()))

	systems := account.Systems()
	require.Len(t, systems, 2)

	home := account.System(123)
	require.NotNil(t, home)
	assert.Equal(t, "Home", home.Name())
	assert.True(t, home.IsAdmin())
	assert.NotNil(t, home.Device(10))

	cabin := account.System(456)
	require.NotNil(t, cabin)
	assert.False(t, cabin.IsAdmin())
}

func TestAccountRefreshPropagatesAuthError(t *testing.T) {
	api := newFakeAPI()
	api.err = errors.New("boom")

	account := NewAccount(api)
	require.Error(t, account.Refresh(context.Background()))
	assert.Empty(t, account.Systems())
}

func TestAccountRefreshEmptyUsers(t *testing.T) {
	api := newFakeAPI()
	api.authUser = &models.AuthUser{}

	account := NewAccount(api)
	require.NoError(t, account.Refresh(context.Background()))
	assert.Empty(t, account.Systems())
}

func TestAccountDeviceLookup(t *testing.T) {
	api := newFakeAPI()
	account, _ := testSystem(api, 123, nil,
		deviceBody(10, models.DeviceTypeDoorLock, nil),
	)

	dev, err := account.Device(123, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), dev.ID())

	_, err = account.Device(999, 10)
	assert.ErrorIs(t, err, ErrSystemNotFound)

	_, err = account.Device(123, 999)
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestAccountMessageForUnknownSystemIsDropped(t *testing.T) {
	api := newFakeAPI()
	account, _ := testSystem(api, 123, nil)

	// Must not panic.
	account.HandleMessage(models.PushMessage{
		Type:    models.MessageTypeAccountSystem,
		PanelID: 999,
	})
}

func TestSystemUpdateMessage(t *testing.T) {
	api := newFakeAPI()
	account, system := testSystem(api, 123, nil)

	var events []string
	account.SetDispatcher(func(event string, systemID, deviceID int64, data map[string]any) {
		events = append(events, event)
		assert.Equal(t, int64(123), systemID)
	})

	account.HandleMessage(models.PushMessage{
		Type:      models.MessageTypeAccountSystem,
		Operation: models.OperationUpdate,
		PanelID:   123,
		Data:      map[string]any{"csce": float64(30)},
	})

	assert.Contains(t, events, models.EventSystemUpdated)
	assert.True(t, system.Has("csce"))
}

func TestPartitionMessageWithoutPartitionIDIsDropped(t *testing.T) {
	api := newFakeAPI()
	account, system := testSystem(api, 123, nil)
	panel := system.Panel(1)

	account.HandleMessage(models.PushMessage{
		Type:    models.MessageTypeAccountPartition,
		PanelID: 123,
		Data:    map[string]any{models.AttrState: float64(4)},
	})

	// Message was not applied anywhere.
	assert.True(t, panel.IsDisarmed())
}

func TestPartitionMessageRoutesToPanel(t *testing.T) {
	api := newFakeAPI()
	account, system := testSystem(api, 123, nil)

	account.HandleMessage(models.PushMessage{
		Type:        models.MessageTypeAccountPartition,
		Operation:   models.OperationUpdate,
		PanelID:     123,
		PartitionID: 1,
		Data:        map[string]any{models.AttrState: float64(4)},
	})

	assert.True(t, system.Panel(1).IsArmedAway())
}

func TestSystemRefreshReconcilesPanels(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystem(api, 123, nil,
		deviceBody(10, models.DeviceTypeDoorLock, map[string]any{models.AttrState: false}),
	)

	// Vendor now reports the lock as locked.
	api.systemData[123] = systemBody(123, nil,
		deviceBody(10, models.DeviceTypeDoorLock, map[string]any{models.AttrState: true}),
	)

	require.NoError(t, system.Refresh(context.Background()))

	lock := system.Device(10).(*DoorLock)
	assert.True(t, lock.IsLocked())
	assert.Len(t, system.Panels(), 1)
}

func TestDeviceEventsCarryDeviceID(t *testing.T) {
	api := newFakeAPI()
	account, system := testSystem(api, 123, nil,
		deviceBody(10, models.DeviceTypeDoorLock, map[string]any{models.AttrState: false}),
	)

	type dispatched struct {
		event    string
		deviceID int64
	}
	var got []dispatched
	account.SetDispatcher(func(event string, systemID, deviceID int64, data map[string]any) {
		got = append(got, dispatched{event, deviceID})
	})

	system.Panel(1).HandleMessage(partitionMessage(123, 1, models.OperationUpdate, map[string]any{
		models.AttrDevices: []any{
			map[string]any{models.AttrID: float64(10), models.AttrState: true},
		},
	}))

	require.Len(t, got, 1)
	assert.Equal(t, models.EventDeviceUpdated, got[0].event)
	assert.Equal(t, int64(10), got[0].deviceID)
}
