package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArmedStateFromRaw(t *testing.T) {
	assert.Equal(t, ArmedStateDisarmed, ArmedStateFromRaw(float64(0)))
	assert.Equal(t, ArmedStateArmedStay, ArmedStateFromRaw(3))
	assert.Equal(t, ArmedStateArmedAway, ArmedStateFromRaw("ARMED_AWAY"))
	assert.Equal(t, ArmedStateArmedAway, ArmedStateFromRaw("armed_away"))
	assert.Equal(t, ArmedStateUnknown, ArmedStateFromRaw(float64(42)))
	assert.Equal(t, ArmedStateUnknown, ArmedStateFromRaw(nil))
	assert.Equal(t, ArmedStateUnknown, ArmedStateFromRaw("NOT_A_STATE"))
}

func TestArmedStateString(t *testing.T) {
	assert.Equal(t, "DISARMED", ArmedStateDisarmed.String())
	assert.Equal(t, "UNKNOWN", ArmedState(42).String())
}

func TestGarageDoorStateFromRaw(t *testing.T) {
	assert.Equal(t, GarageDoorStateClosed, GarageDoorStateFromRaw(float64(1)))
	assert.Equal(t, GarageDoorStateOpened, GarageDoorStateFromRaw(5))
	assert.Equal(t, GarageDoorStateUnknown, GarageDoorStateFromRaw(float64(99)))
	assert.Equal(t, GarageDoorStateUnknown, GarageDoorStateFromRaw(nil))
}

func TestCapabilitySetFromFeatures(t *testing.T) {
	// Nil map: negotiation never happened, everything allowed.
	all := CapabilitySetFromFeatures(nil)
	assert.True(t, all.Has(CapabilityArming))
	assert.True(t, all.Has(CapabilitySnapshot))

	// Empty map: nothing negotiated.
	none := CapabilitySetFromFeatures(map[string]any{})
	assert.False(t, none.Has(CapabilityArming))

	some := CapabilitySetFromFeatures(map[string]any{
		"arming":       true,
		"lock_control": true,
		"hvac":         false,
		"garage_door":  "yes", // non-bool values are ignored
	})
	assert.True(t, some.Has(CapabilityArming))
	assert.True(t, some.Has(CapabilityLockControl))
	assert.False(t, some.Has(CapabilityThermostatControl))
	assert.False(t, some.Has(CapabilityGarageControl))
}

func TestToInt(t *testing.T) {
	n, ok := ToInt(float64(42))
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	n, ok = ToInt(7)
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = ToInt("42")
	assert.False(t, ok)

	_, ok = ToInt(nil)
	assert.False(t, ok)
}
