package vivint

import (
	"context"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// GarageDoor is a Z-Wave garage door opener.
type GarageDoor struct {
	GenericDevice
}

func newGarageDoor(data map[string]any, panel *AlarmPanel) *GarageDoor {
	return &GarageDoor{GenericDevice: newGenericDevice(data, panel)}
}

// State returns the door's position, Unknown for unrecognized values.
func (g *GarageDoor) State() models.GarageDoorState {
	raw, _ := g.Get(models.AttrState)
	return models.GarageDoorStateFromRaw(raw)
}

// IsClosed reports whether the door is closed. The second return is false
// when the position is unknown.
func (g *GarageDoor) IsClosed() (bool, bool) {
	state := g.State()
	if state == models.GarageDoorStateUnknown {
		return false, false
	}
	return state == models.GarageDoorStateClosed, true
}

// IsClosing reports whether the door is closing.
func (g *GarageDoor) IsClosing() bool { return g.State() == models.GarageDoorStateClosing }

// IsOpening reports whether the door is opening.
func (g *GarageDoor) IsOpening() bool { return g.State() == models.GarageDoorStateOpening }

// SetState requests a door movement. Position changes locally only when the
// vendor confirms via the push stream.
func (g *GarageDoor) SetState(ctx context.Context, state models.GarageDoorState) error {
	if !g.panel.Supports(models.CapabilityGarageControl) {
		return ErrUnsupportedCapability
	}
	return g.panel.api().SetGarageDoorState(ctx, g.panel.ID(), g.panel.PartitionID(), g.ID(), state)
}

// Close closes the garage door.
func (g *GarageDoor) Close(ctx context.Context) error {
	return g.SetState(ctx, models.GarageDoorStateClosing)
}

// Open opens the garage door.
func (g *GarageDoor) Open(ctx context.Context) error {
	return g.SetState(ctx, models.GarageDoorStateOpening)
}
