package vivint

import (
	"context"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// WirelessSensor is a panel zone sensor (contact, motion, glass break and
// the like). Hidden sensors attach to a parent device sharing their serial
// number, typically a lock reporting through a sensor zone.
type WirelessSensor struct {
	GenericDevice
	BypassTamper
}

func newWirelessSensor(data map[string]any, panel *AlarmPanel) *WirelessSensor {
	s := &WirelessSensor{GenericDevice: newGenericDevice(data, panel)}
	s.BypassTamper = BypassTamper{entity: &s.Entity}
	return s
}

// EquipmentType returns the sensor's hardware class.
func (s *WirelessSensor) EquipmentType() models.EquipmentType {
	if n, ok := s.Int(models.AttrEquipmentType); ok {
		return models.EquipmentType(n)
	}
	return models.EquipmentTypeUnknown
}

// SensorType returns the zone role assigned by the panel.
func (s *WirelessSensor) SensorType() models.SensorType {
	if n, ok := s.Int(models.AttrSensorType); ok {
		return models.SensorType(n)
	}
	return models.SensorTypeUnknown
}

// EquipmentCode returns the vendor's raw equipment code.
func (s *WirelessSensor) EquipmentCode() int {
	n, _ := s.Int(models.AttrEquipmentCode)
	return n
}

// SoftwareVersion returns the sensor's firmware version.
func (s *WirelessSensor) SoftwareVersion() string { return s.Str(models.AttrFirmwareVersion) }

// IsOn reports whether the sensor is triggered (open, wet, in motion).
func (s *WirelessSensor) IsOn() bool { return s.Bool(models.AttrState) }

// IsHidden reports whether the sensor is hidden behind a parent device.
func (s *WirelessSensor) IsHidden() bool { return s.Bool(models.AttrHidden) }

// IsValid reports whether the sensor represents real registered hardware.
// Unserialled or unused zones are filtered out of device listings.
func (s *WirelessSensor) IsValid() bool {
	return s.SerialNumber() != "" &&
		s.EquipmentCode() != 0 &&
		s.SensorType() != models.SensorTypeUnused
}

// Parent resolves the device this sensor reports through, by matching
// serial numbers. Only meaningful for hidden sensors.
func (s *WirelessSensor) Parent() Device {
	if !s.IsHidden() {
		return nil
	}
	serial := s.SerialNumber()
	if serial == "" {
		return nil
	}
	for _, dev := range s.panel.Devices() {
		if dev.ID() == s.ID() {
			continue
		}
		if gd, ok := dev.(interface{ SerialNumber() string }); ok && gd.SerialNumber() == serial {
			return dev
		}
	}
	return nil
}

// SetBypass bypasses or unbypasses the sensor's zone.
func (s *WirelessSensor) SetBypass(ctx context.Context, bypass bool) error {
	if !s.panel.Supports(models.CapabilitySensorBypass) {
		return ErrUnsupportedCapability
	}
	return s.panel.api().SetSensorBypass(ctx, s.panel.ID(), s.panel.PartitionID(), s.ID(), bypass)
}

// Bypass bypasses the sensor.
func (s *WirelessSensor) Bypass(ctx context.Context) error { return s.SetBypass(ctx, true) }

// Unbypass unbypasses the sensor.
func (s *WirelessSensor) Unbypass(ctx context.Context) error { return s.SetBypass(ctx, false) }
