package vivint

import (
	"context"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// Switch is a Z-Wave switch, either binary or multilevel. Multilevel
// switches additionally carry a 0..100 dimmer level.
type Switch struct {
	GenericDevice
	multilevel bool
}

func newSwitch(data map[string]any, panel *AlarmPanel, multilevel bool) *Switch {
	return &Switch{GenericDevice: newGenericDevice(data, panel), multilevel: multilevel}
}

// IsMultilevel reports whether the switch has a dimmer level.
func (s *Switch) IsMultilevel() bool { return s.multilevel }

// IsOn reports whether the switch is on.
func (s *Switch) IsOn() bool { return s.Bool(models.AttrState) }

// Level returns the dimmer level, 0 for binary switches.
func (s *Switch) Level() int {
	n, _ := s.Int(models.AttrValue)
	return n
}

func (s *Switch) setState(ctx context.Context, on *bool, level *int) error {
	if !s.panel.Supports(models.CapabilitySwitchControl) {
		return ErrUnsupportedCapability
	}
	return s.panel.api().SetSwitchState(ctx, s.panel.ID(), s.panel.PartitionID(), s.ID(), on, level)
}

// TurnOn turns the switch on.
func (s *Switch) TurnOn(ctx context.Context) error {
	on := true
	return s.setState(ctx, &on, nil)
}

// TurnOff turns the switch off.
func (s *Switch) TurnOff(ctx context.Context) error {
	on := false
	return s.setState(ctx, &on, nil)
}

// SetLevel sets the dimmer level. Only valid on multilevel switches and for
// levels in 0..100.
func (s *Switch) SetLevel(ctx context.Context, level int) error {
	if !s.multilevel {
		return ErrNotMultilevel
	}
	if level < 0 || level > 100 {
		return ErrInvalidLevel
	}
	return s.setState(ctx, nil, &level)
}
