package vivint

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/ChrisWondeFro/vivintpy/internal/config"
	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// Client is the HTTP implementation of API against the vendor cloud.
type Client struct {
	http *resty.Client
}

// NewClient creates a vendor API client. Token acquisition and refresh are
// a collaborator concern; the bearer credential comes from configuration.
func NewClient(cfg *config.VendorConfig) *Client {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.RefreshToken).
		SetHeader("Content-Type", "application/json")

	return &Client{http: c}
}

func (c *Client) GetAuthUser(ctx context.Context) (*models.AuthUser, error) {
	var out models.AuthUser
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/authuser")
	if err != nil {
		return nil, fmt.Errorf("get authuser: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get authuser: status %d", resp.StatusCode())
	}
	return &out, nil
}

func (c *Client) GetSystem(ctx context.Context, panelID int64) (map[string]any, error) {
	var out map[string]any
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/api/systems/%d", panelID))
	if err != nil {
		return nil, fmt.Errorf("get system %d: %w", panelID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get system %d: status %d", panelID, resp.StatusCode())
	}
	return out, nil
}

func (c *Client) GetDeviceData(ctx context.Context, panelID, deviceID int64) (map[string]any, error) {
	var out map[string]any
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/api/system-update/%d/%d", panelID, deviceID))
	if err != nil {
		return nil, fmt.Errorf("get device data %d/%d: %w", panelID, deviceID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get device data %d/%d: status %d", panelID, deviceID, resp.StatusCode())
	}
	return out, nil
}

func (c *Client) SetAlarmState(ctx context.Context, panelID, partitionID int64, state models.ArmedState) error {
	return c.put(ctx, fmt.Sprintf("/api/%d/%d/armedstates", panelID, partitionID), map[string]any{
		"system":      panelID,
		"partitionId": partitionID,
		"armState":    int(state),
		"forceArm":    false,
	})
}

func (c *Client) TriggerAlarm(ctx context.Context, panelID, partitionID int64) error {
	return c.post(ctx, fmt.Sprintf("/api/%d/%d/alarm", panelID, partitionID), nil)
}

func (c *Client) RebootPanel(ctx context.Context, panelID int64) error {
	return c.post(ctx, fmt.Sprintf("/api/panels/%d/reboot", panelID), nil)
}

func (c *Client) SetLockState(ctx context.Context, panelID, partitionID, deviceID int64, locked bool) error {
	return c.put(ctx, fmt.Sprintf("/api/%d/%d/locks/%d", panelID, partitionID, deviceID), map[string]any{
		models.AttrState: locked,
	})
}

func (c *Client) SetSwitchState(ctx context.Context, panelID, partitionID, deviceID int64, on *bool, level *int) error {
	body := map[string]any{}
	if on != nil {
		body[models.AttrState] = *on
	}
	if level != nil {
		body[models.AttrValue] = *level
	}
	return c.put(ctx, fmt.Sprintf("/api/%d/%d/switches/%d", panelID, partitionID, deviceID), body)
}

func (c *Client) SetGarageDoorState(ctx context.Context, panelID, partitionID, deviceID int64, state models.GarageDoorState) error {
	return c.put(ctx, fmt.Sprintf("/api/%d/%d/door/%d", panelID, partitionID, deviceID), map[string]any{
		models.AttrState: int(state),
	})
}

func (c *Client) SetThermostatState(ctx context.Context, panelID, partitionID, deviceID int64, params map[string]any) error {
	return c.put(ctx, fmt.Sprintf("/api/%d/%d/thermostats/%d", panelID, partitionID, deviceID), params)
}

func (c *Client) SetSensorBypass(ctx context.Context, panelID, partitionID, deviceID int64, bypass bool) error {
	return c.put(ctx, fmt.Sprintf("/api/%d/%d/sensors/%d", panelID, partitionID, deviceID), map[string]any{
		models.AttrBypassed: bypass,
	})
}

func (c *Client) RequestCameraThumbnail(ctx context.Context, panelID, partitionID, deviceID int64) error {
	return c.get(ctx, fmt.Sprintf("/api/%d/%d/%d/request-camera-thumbnail", panelID, partitionID, deviceID))
}

func (c *Client) GetCameraThumbnailURL(ctx context.Context, panelID, partitionID, deviceID int64, thumbnailTS int64) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetQueryParam("time", fmt.Sprintf("%d", thumbnailTS)).
		Get(fmt.Sprintf("/api/%d/%d/%d/camera-thumbnail", panelID, partitionID, deviceID))
	if err != nil {
		return "", fmt.Errorf("get camera thumbnail url: %w", err)
	}
	defer resp.RawBody().Close()

	// The vendor answers with a redirect to a signed media URL.
	location := resp.Header().Get("Location")
	if location == "" && resp.StatusCode() >= 400 {
		return "", fmt.Errorf("get camera thumbnail url: status %d", resp.StatusCode())
	}
	return location, nil
}

func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("download %s: status %d", url, resp.StatusCode())
	}
	return resp.Body(), nil
}

func (c *Client) get(ctx context.Context, path string) error {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	return c.check(resp, err, path)
}

func (c *Client) post(ctx context.Context, path string, body map[string]any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(path)
	return c.check(resp, err, path)
}

func (c *Client) put(ctx context.Context, path string, body map[string]any) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Put(path)
	return c.check(resp, err, path)
}

func (c *Client) check(resp *resty.Response, err error, path string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if resp.IsError() {
		log.Debug().Str("path", path).Int("status", resp.StatusCode()).Msg("Vendor API error response")
		return fmt.Errorf("%s: status %d", path, resp.StatusCode())
	}
	return nil
}
