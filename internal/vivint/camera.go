package vivint

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// Camera event names, raised on top of the plain update event when a push
// fragment matches one of the vendor's activity signatures.
const (
	EventMotionDetected = "motion_detected"
	EventDoorbellDing   = "doorbell_ding"
	EventThumbnailReady = "thumbnail_ready"
	EventVideoReady     = "video_ready"
)

// Thumbnail dates arrive as "2006-01-02T15:04:05.000", sometimes with a
// trailing "Z".
const thumbnailDateLayout = "2006-01-02T15:04:05.000"

// Ping cameras keep a VPN tunnel to the panel that blocks direct access even
// when the panel reports it available, so direct URLs are suppressed for them.
var skipDirectTypes = map[string]bool{
	"alpha_cs6022_camera_device": true,
}

type cameraInfo struct {
	manufacturer string
	model        string
}

var cameraInfoByType = map[string]cameraInfo{
	"alpha_cs6022_camera_device":      {"Vivint", "Indoor Camera (CS6022)"},
	"camera_device":                   {"", "Generic Camera Device"},
	"hd100_camera_device":             {"LG", "HD 100 Camera"},
	"lgit_hd110_camera_device":        {"LG", "HD 110 Camera"},
	"panel_camera_device":             {"", "Panel Camera"},
	"touch_link_camera_device":        {"", "Panel Camera"},
	"vivint_dbc300_camera_device":     {"Vivint", "Doorbell Camera Pro Gen 1 (DBC300)"},
	"vivint_dbc301_camera_device":     {"Vivint", "Doorbell Camera Pro Gen 1 (DBC301)"},
	"vivint_dbc350_camera_device":     {"Vivint", "Doorbell Camera Pro Gen 2 (DBC350)"},
	"vivint_idc350_camera_device":     {"Vivint", "Indoor Camera Pro (IDC350)"},
	"vivint_odc300_camera_device":     {"Vivint", "Outdoor Camera Pro Gen 1 (ODC300)"},
	"vivint_odc350_camera_device":     {"Vivint", "Outdoor Camera Pro Gen 2 (ODC350)"},
	"vivotek_520ir_camera_device":     {"Vivotek", "Fixed Camera (V520IR)"},
	"vivotek_620pt_camera_device":     {"Vivotek", "Pan and Tilt Camera (V620PT)"},
	"vivotek_720_camera_device":       {"Vivotek", "Outdoor Camera (V720)"},
	"vivotek_720w_camera_device":      {"Vivotek", "Wireless Outdoor Camera (V720W)"},
	"vivotek_721w_camera_device":      {"Vivotek", "Wireless Outdoor Camera (V721W)"},
	"vivotek_cc8130_camera_device":    {"Vivotek", "Dome Camera (CC8130)"},
	"vivotek_db8331w_camera_device":   {"Vivotek", "Doorbell Camera (DB8331W)"},
	"vivotek_db8332_camera_device":    {"Vivotek", "Doorbell Camera v2 (DB8332)"},
	"vivotek_db8332s1_camera_device":  {"Vivotek", "Doorbell Camera 2S1 (DB8332S1)"},
	"vivotek_db8332sw_camera_device":  {"Vivotek", "Doorbell Camera v2s (DB8332SW)"},
	"vivotek_fd8134v_camera_device":   {"Vivotek", "Dome Camera (FD8134V)"},
	"vivotek_fd8151v_camera_device":   {"Vivotek", "Dome Camera (FD8151V)"},
	"vivotek_hd400w_camera_device":    {"Vivotek", "Outdoor Camera v2 (HD400W)"},
	"vivotek_hdp450_camera_device":    {"Vivotek", "Outdoor Camera (HDP450)"},
}

// Camera is a video device. On top of plain attribute updates it detects
// activity signatures in push fragments and raises dedicated events for them.
type Camera struct {
	GenericDevice
	manufacturer string
	model        string
}

func newCamera(data map[string]any, panel *AlarmPanel) *Camera {
	c := &Camera{GenericDevice: newGenericDevice(data, panel)}
	actualType, _ := data[models.AttrActualType].(string)
	if info, ok := cameraInfoByType[actualType]; ok {
		c.manufacturer = info.manufacturer
		c.model = info.model
	} else if actualType != "" {
		parts := strings.SplitN(actualType, "_", 3)
		c.manufacturer = strings.Title(parts[0])
		if len(parts) > 1 {
			c.model = strings.ToUpper(parts[1])
		}
	}
	return c
}

// Manufacturer returns the camera's manufacturer, if known.
func (c *Camera) Manufacturer() string { return c.manufacturer }

// Model returns the camera's model, if known.
func (c *Camera) Model() string { return c.model }

// SerialNumber returns the camera's MAC address.
func (c *Camera) SerialNumber() string { return c.MACAddress() }

// MACAddress returns the camera's MAC address.
func (c *Camera) MACAddress() string { return c.Str(models.AttrCameraMAC) }

// IPAddress returns the camera's local IP address.
func (c *Camera) IPAddress() string { return c.Str(models.AttrCameraIPAddress) }

// IsDoorbell reports whether this camera is a doorbell model.
func (c *Camera) IsDoorbell() bool {
	actualType := c.Str(models.AttrActualType)
	return strings.Contains(actualType, "dbc") || strings.Contains(actualType, "doorbell")
}

// IsInPrivacyMode reports whether the camera's privacy mode is active.
func (c *Camera) IsInPrivacyMode() bool { return c.Bool(models.AttrCameraPrivacy) }

// IsInDeterMode reports whether deter mode is active.
func (c *Camera) IsInDeterMode() bool { return c.Bool(models.AttrDeterOnDuty) }

// CaptureClipOnMotion reports whether the camera records a clip on motion.
func (c *Camera) CaptureClipOnMotion() bool { return c.Bool(models.AttrCaptureClipOnMotion) }

// ExtendChimeEnabled reports whether the camera acts as a chime extender.
func (c *Camera) ExtendChimeEnabled() bool { return c.Bool(models.AttrExtendChime) }

// WirelessSignalStrength returns the camera's wireless signal strength.
func (c *Camera) WirelessSignalStrength() int {
	n, _ := c.Int(models.AttrWirelessSignal)
	return n
}

// RequestSnapshot asks the panel to capture a fresh thumbnail. The vendor
// signals completion through the push stream; poll ThumbnailURL afterwards.
func (c *Camera) RequestSnapshot(ctx context.Context) error {
	if !c.panel.Supports(models.CapabilitySnapshot) {
		return ErrUnsupportedCapability
	}
	return c.panel.api().RequestCameraThumbnail(ctx, c.panel.ID(), c.panel.PartitionID(), c.ID())
}

// ThumbnailURL resolves a temporary download URL for the camera's latest
// thumbnail. Returns ("", nil) when no thumbnail timestamp is present yet.
func (c *Camera) ThumbnailURL(ctx context.Context) (string, error) {
	raw := strings.TrimSuffix(c.Str(models.AttrCameraThumbnailDate), "Z")
	if raw == "" {
		return "", nil
	}
	t, err := time.Parse(thumbnailDateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("parse thumbnail date %q: %w", raw, err)
	}
	return c.panel.api().GetCameraThumbnailURL(ctx, c.panel.ID(), c.panel.PartitionID(), c.ID(), t.UnixMilli())
}

// DirectRTSPURL builds the camera's local-network RTSP URL, or "" when the
// camera does not allow direct access.
func (c *Camera) DirectRTSPURL(hd bool) string {
	if !c.Bool(models.AttrCameraDirectAvail) || skipDirectTypes[c.Str(models.AttrActualType)] {
		return ""
	}
	pathKey := models.AttrDirectStreamPathHD
	if !hd {
		pathKey = models.AttrDirectStreamPathSD
	}
	port, _ := c.Int(models.AttrCameraIPPort)
	return fmt.Sprintf("rtsp://%s:%s@%s:%d/%s",
		c.Str(models.AttrCameraUsername),
		c.Str(models.AttrCameraPassword),
		c.IPAddress(),
		port,
		c.Str(pathKey))
}

// HandleMessage applies a push fragment and raises the matching activity
// event, when the fragment carries one of the known signatures.
func (c *Camera) HandleMessage(data map[string]any) {
	c.GenericDevice.HandleMessage(data)

	event := ""
	switch {
	case truthy(data[models.AttrCameraThumbnailDate]):
		event = EventThumbnailReady
	case truthy(data[models.AttrDingDong]):
		event = EventDoorbellDing
	case hasExactKeys(data, models.AttrID, models.AttrType):
		event = EventVideoReady
	case truthy(data[models.AttrVisitorDetected]),
		hasExactKeys(data, models.AttrID, models.AttrActualType, models.AttrState),
		hasExactKeys(data, models.AttrID, models.AttrDeterOnDuty, models.AttrType):
		event = EventMotionDetected
	}
	if event != "" {
		c.Emit(event, map[string]any{"message": data})
	}
}

func truthy(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return val != nil
}

func hasExactKeys(data map[string]any, keys ...string) bool {
	if len(data) != len(keys) {
		return false
	}
	for _, k := range keys {
		if _, ok := data[k]; !ok {
			return false
		}
	}
	return true
}
