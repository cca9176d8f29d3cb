package vivint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

func userEntry(id int64, extra map[string]any) map[string]any {
	data := map[string]any{models.AttrID: float64(id)}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// testSystemWithUsers injects account users into the raw system body before
// wiring the system.
func testSystemWithUsers(api *fakeAPI, panelID int64, users []any, devices ...map[string]any) (*Account, *System) {
	account := NewAccount(api)
	body := systemBody(panelID, nil, devices...)
	body[models.AttrSystem].(map[string]any)[models.AttrUsers] = users
	system := newSystem(body, account, "Home", true)
	account.systems = append(account.systems, system)
	return account, system
}

func TestSystemBuildsUsers(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystemWithUsers(api, 123, []any{
		userEntry(7, map[string]any{
			models.AttrName:           "Jamie",
			models.AttrAdmin:          true,
			models.AttrUserRegistered: true,
			models.AttrHasPins:        true,
			models.AttrLockIDs:        []any{float64(10), float64(11)},
		}),
		userEntry(8, map[string]any{models.AttrName: "Guest"}),
	})

	require.Len(t, system.Users(), 2)

	user := system.User(7)
	require.NotNil(t, user)
	assert.Equal(t, "Jamie", user.Name())
	assert.True(t, user.IsAdmin())
	assert.True(t, user.IsRegistered())
	assert.True(t, user.HasPins())
	assert.False(t, user.HasLockPin())
	assert.Equal(t, []int64{10, 11}, user.LockIDs())

	guest := system.User(8)
	require.NotNil(t, guest)
	assert.False(t, guest.IsAdmin())
	assert.Nil(t, guest.LockIDs())

	assert.Nil(t, system.User(99))
}

func TestSystemRoutesUserFragments(t *testing.T) {
	api := newFakeAPI()
	account, system := testSystemWithUsers(api, 123, []any{
		userEntry(7, map[string]any{models.AttrName: "Jamie"}),
	})

	type dispatched struct {
		event string
		data  map[string]any
	}
	var got []dispatched
	account.SetDispatcher(func(event string, systemID, deviceID int64, data map[string]any) {
		got = append(got, dispatched{event, data})
	})

	system.HandleMessage(models.PushMessage{
		Type:      models.MessageTypeAccountSystem,
		Operation: models.OperationUpdate,
		PanelID:   123,
		Data: map[string]any{
			models.AttrUsers: []any{
				userEntry(7, map[string]any{models.AttrAdmin: true}),
			},
		},
	})

	user := system.User(7)
	assert.True(t, user.IsAdmin())
	assert.Equal(t, "Jamie", user.Name())

	// The fragment updated the user entity, never the system's root map.
	assert.False(t, system.Has(models.AttrUsers))

	require.Len(t, got, 1)
	assert.Equal(t, models.EventUserUpdated, got[0].event)
	assert.Equal(t, int64(7), got[0].data[models.AttrID])
	assert.Equal(t, true, got[0].data[models.AttrAdmin])
}

func TestUserAddLockFragment(t *testing.T) {
	api := newFakeAPI()
	_, system := testSystemWithUsers(api, 123, []any{
		userEntry(7, map[string]any{models.AttrLockIDs: []any{float64(10)}}),
	})

	system.HandleMessage(models.PushMessage{
		Type:      models.MessageTypeAccountSystem,
		Operation: models.OperationUpdate,
		PanelID:   123,
		Data: map[string]any{
			models.AttrUsers: []any{
				userEntry(7, map[string]any{addLockKey: float64(12)}),
			},
		},
	})

	user := system.User(7)
	assert.Equal(t, []int64{10, 12}, user.LockIDs())
	assert.False(t, user.Has(addLockKey))
}

func TestSystemUnknownUserFragmentIgnored(t *testing.T) {
	api := newFakeAPI()
	account, system := testSystemWithUsers(api, 123, []any{
		userEntry(7, nil),
	})

	var events []string
	account.SetDispatcher(func(event string, systemID, deviceID int64, data map[string]any) {
		events = append(events, event)
	})

	system.HandleMessage(models.PushMessage{
		Type:      models.MessageTypeAccountSystem,
		Operation: models.OperationUpdate,
		PanelID:   123,
		Data: map[string]any{
			models.AttrUsers: []any{
				userEntry(99, map[string]any{models.AttrAdmin: true}),
			},
		},
	})

	assert.Empty(t, events)
	assert.False(t, system.User(7).IsAdmin())
}
