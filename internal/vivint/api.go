package vivint

import (
	"context"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// API is the vendor cloud collaborator. Command methods only issue the
// request; local state is updated when the corresponding push event or
// refresh arrives, never optimistically.
type API interface {
	// GetAuthUser returns the authenticated user record listing systems.
	GetAuthUser(ctx context.Context) (*models.AuthUser, error)
	// GetSystem returns the full raw system body for a panel id.
	GetSystem(ctx context.Context, panelID int64) (map[string]any, error)
	// GetDeviceData returns the raw panel partition body carrying one device.
	GetDeviceData(ctx context.Context, panelID, deviceID int64) (map[string]any, error)

	SetAlarmState(ctx context.Context, panelID, partitionID int64, state models.ArmedState) error
	TriggerAlarm(ctx context.Context, panelID, partitionID int64) error
	RebootPanel(ctx context.Context, panelID int64) error

	SetLockState(ctx context.Context, panelID, partitionID, deviceID int64, locked bool) error
	SetSwitchState(ctx context.Context, panelID, partitionID, deviceID int64, on *bool, level *int) error
	SetGarageDoorState(ctx context.Context, panelID, partitionID, deviceID int64, state models.GarageDoorState) error
	SetThermostatState(ctx context.Context, panelID, partitionID, deviceID int64, params map[string]any) error
	SetSensorBypass(ctx context.Context, panelID, partitionID, deviceID int64, bypass bool) error

	RequestCameraThumbnail(ctx context.Context, panelID, partitionID, deviceID int64) error
	GetCameraThumbnailURL(ctx context.Context, panelID, partitionID, deviceID int64, thumbnailTS int64) (string, error)

	// Download fetches raw bytes from a vendor-hosted URL (snapshots, clips).
	Download(ctx context.Context, url string) ([]byte, error)
}
