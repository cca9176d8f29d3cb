package vivint

import (
	"context"
	"sync"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// fakeAPI records every command issued against it and serves canned
// bodies for the read methods.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	authUser   *models.AuthUser
	systemData map[int64]map[string]any
	deviceData map[int64]map[string]any
	err        error

	thumbnailURL string
	downloadBody []byte
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		systemData: make(map[int64]map[string]any),
		deviceData: make(map[int64]map[string]any),
	}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeAPI) GetAuthUser(ctx context.Context) (*models.AuthUser, error) {
	f.record("GetAuthUser")
	return f.authUser, f.err
}

func (f *fakeAPI) GetSystem(ctx context.Context, panelID int64) (map[string]any, error) {
	f.record("GetSystem")
	return f.systemData[panelID], f.err
}

func (f *fakeAPI) GetDeviceData(ctx context.Context, panelID, deviceID int64) (map[string]any, error) {
	f.record("GetDeviceData")
	return f.deviceData[deviceID], f.err
}

func (f *fakeAPI) SetAlarmState(ctx context.Context, panelID, partitionID int64, state models.ArmedState) error {
	f.record("SetAlarmState")
	return f.err
}

func (f *fakeAPI) TriggerAlarm(ctx context.Context, panelID, partitionID int64) error {
	f.record("TriggerAlarm")
	return f.err
}

func (f *fakeAPI) RebootPanel(ctx context.Context, panelID int64) error {
	f.record("RebootPanel")
	return f.err
}

func (f *fakeAPI) SetLockState(ctx context.Context, panelID, partitionID, deviceID int64, locked bool) error {
	f.record("SetLockState")
	return f.err
}

func (f *fakeAPI) SetSwitchState(ctx context.Context, panelID, partitionID, deviceID int64, on *bool, level *int) error {
	f.record("SetSwitchState")
	return f.err
}

func (f *fakeAPI) SetGarageDoorState(ctx context.Context, panelID, partitionID, deviceID int64, state models.GarageDoorState) error {
	f.record("SetGarageDoorState")
	return f.err
}

func (f *fakeAPI) SetThermostatState(ctx context.Context, panelID, partitionID, deviceID int64, params map[string]any) error {
	f.record("SetThermostatState")
	return f.err
}

func (f *fakeAPI) SetSensorBypass(ctx context.Context, panelID, partitionID, deviceID int64, bypass bool) error {
	f.record("SetSensorBypass")
	return f.err
}

func (f *fakeAPI) RequestCameraThumbnail(ctx context.Context, panelID, partitionID, deviceID int64) error {
	f.record("RequestCameraThumbnail")
	return f.err
}

func (f *fakeAPI) GetCameraThumbnailURL(ctx context.Context, panelID, partitionID, deviceID int64, thumbnailTS int64) (string, error) {
	f.record("GetCameraThumbnailURL")
	return f.thumbnailURL, f.err
}

func (f *fakeAPI) Download(ctx context.Context, url string) ([]byte, error) {
	f.record("Download")
	return f.downloadBody, f.err
}

// systemBody builds a raw system payload with a single partition carrying
// the given devices.
func systemBody(panelID int64, features map[string]any, devices ...map[string]any) map[string]any {
	rawDevices := make([]any, 0, len(devices))
	for _, d := range devices {
		rawDevices = append(rawDevices, d)
	}
	body := map[string]any{
		models.AttrPanelID: float64(panelID),
		models.AttrPartitions: []any{
			map[string]any{
				models.AttrPanelID:     float64(panelID),
				models.AttrPartitionID: float64(1),
				models.AttrState:       float64(0),
				models.AttrDevices:     rawDevices,
			},
		},
	}
	if features != nil {
		body[models.AttrFeatureSet] = features
	}
	return map[string]any{models.AttrSystem: body}
}

func deviceBody(id int64, deviceType models.DeviceType, extra map[string]any) map[string]any {
	data := map[string]any{
		models.AttrID:   float64(id),
		models.AttrType: string(deviceType),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// testSystem builds a fully wired system with one partition.
func testSystem(api *fakeAPI, panelID int64, features map[string]any, devices ...map[string]any) (*Account, *System) {
	account := NewAccount(api)
	system := newSystem(systemBody(panelID, features, devices...), account, "Home", true)
	account.systems = append(account.systems, system)
	return account, system
}
