package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
	"github.com/ChrisWondeFro/vivintpy/internal/storage"
	"github.com/ChrisWondeFro/vivintpy/internal/vivint"
)

// ========== Auth handlers ==========

// HandleLogin authenticates the configured API user
func (s *RESTServer) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accessToken, refreshToken, err := s.auth.Authenticate(req.Username, req.Password)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(s.config.JWT.AccessTokenTTL.Seconds()),
		"token_type":    "Bearer",
	})
}

// HandleRefresh exchanges a refresh token
func (s *RESTServer) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accessToken, refreshToken, err := s.auth.RefreshToken(req.RefreshToken)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(s.config.JWT.AccessTokenTTL.Seconds()),
		"token_type":    "Bearer",
	})
}

// ========== Account handlers ==========

// HandleHealth reports liveness
func (s *RESTServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"name":     s.config.Server.Name,
		"version":  s.config.Server.Version,
		"systems":  len(s.account.Systems()),
		"sessions": s.broker.SessionCount(),
	})
}

// HandleAccountRefresh re-pulls systems and devices from the vendor
func (s *RESTServer) HandleAccountRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.account.Refresh(r.Context()); err != nil {
		s.respondError(w, http.StatusBadGateway, "account refresh failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"systems": len(s.account.Systems()),
	})
}

// ========== System handlers ==========

func systemSummary(sys *vivint.System) map[string]interface{} {
	panels := make([]map[string]interface{}, 0, len(sys.Panels()))
	for _, p := range sys.Panels() {
		panels = append(panels, map[string]interface{}{
			"partition_id": p.PartitionID(),
			"state":        p.State().String(),
			"is_armed":     p.IsArmed(),
			"devices":      len(p.Devices()),
		})
	}
	return map[string]interface{}{
		"id":       sys.ID(),
		"name":     sys.Name(),
		"is_admin": sys.IsAdmin(),
		"panels":   panels,
	}
}

func deviceSummary(sys *vivint.System, dev vivint.Device) map[string]interface{} {
	out := map[string]interface{}{
		"id":        dev.ID(),
		"system_id": sys.ID(),
		"name":      dev.Name(),
		"type":      string(dev.DeviceType()),
		"online":    dev.Online(),
	}
	if p := dev.Panel(); p != nil {
		out["partition_id"] = p.PartitionID()
	}
	return out
}

// HandleListSystems lists the account's systems
func (s *RESTServer) HandleListSystems(w http.ResponseWriter, r *http.Request) {
	systems := s.account.Systems()
	out := make([]map[string]interface{}, 0, len(systems))
	for _, sys := range systems {
		out = append(out, systemSummary(sys))
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"systems": out,
		"total":   len(out),
	})
}

func (s *RESTServer) systemFromPath(w http.ResponseWriter, r *http.Request) *vivint.System {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid system id")
		return nil
	}
	sys := s.account.System(id)
	if sys == nil {
		s.respondError(w, http.StatusNotFound, "system not found")
		return nil
	}
	return sys
}

// HandleGetSystem returns one system
func (s *RESTServer) HandleGetSystem(w http.ResponseWriter, r *http.Request) {
	sys := s.systemFromPath(w, r)
	if sys == nil {
		return
	}
	s.respondJSON(w, http.StatusOK, systemSummary(sys))
}

// HandleListDevices lists a system's devices across all partitions
func (s *RESTServer) HandleListDevices(w http.ResponseWriter, r *http.Request) {
	sys := s.systemFromPath(w, r)
	if sys == nil {
		return
	}

	var out []map[string]interface{}
	for _, p := range sys.Panels() {
		for _, dev := range p.Devices() {
			out = append(out, deviceSummary(sys, dev))
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"devices": out,
		"total":   len(out),
	})
}

// ========== System command handlers ==========

func (s *RESTServer) respondCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, vivint.ErrUnsupportedCapability), errors.Is(err, vivint.ErrNotAdmin):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, vivint.ErrInvalidLevel), errors.Is(err, vivint.ErrNotMultilevel):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.respondError(w, http.StatusBadGateway, "vendor request failed")
	}
}

// panelFromSystem resolves the partition addressed by the optional
// partition_id query parameter, defaulting to the first partition.
func (s *RESTServer) panelFromSystem(w http.ResponseWriter, r *http.Request, sys *vivint.System) *vivint.AlarmPanel {
	panels := sys.Panels()
	if len(panels) == 0 {
		s.respondError(w, http.StatusNotFound, "system has no partitions")
		return nil
	}
	raw := r.URL.Query().Get("partition_id")
	if raw == "" {
		return panels[0]
	}
	partitionID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid partition id")
		return nil
	}
	panel := sys.Panel(partitionID)
	if panel == nil {
		s.respondError(w, http.StatusNotFound, "partition not found")
		return nil
	}
	return panel
}

// HandleArmSystem arms a partition in stay or away mode
func (s *RESTServer) HandleArmSystem(w http.ResponseWriter, r *http.Request) {
	sys := s.systemFromPath(w, r)
	if sys == nil {
		return
	}
	panel := s.panelFromSystem(w, r, sys)
	if panel == nil {
		return
	}

	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var err error
	switch req.Mode {
	case "stay":
		err = panel.ArmStay(r.Context())
	case "away":
		err = panel.ArmAway(r.Context())
	default:
		s.respondError(w, http.StatusBadRequest, "mode must be stay or away")
		return
	}
	if err != nil {
		s.respondCommandError(w, err)
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// HandleDisarmSystem disarms a partition
func (s *RESTServer) HandleDisarmSystem(w http.ResponseWriter, r *http.Request) {
	sys := s.systemFromPath(w, r)
	if sys == nil {
		return
	}
	panel := s.panelFromSystem(w, r, sys)
	if panel == nil {
		return
	}
	if err := panel.Disarm(r.Context()); err != nil {
		s.respondCommandError(w, err)
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// HandleTriggerAlarm triggers an alarm on a partition
func (s *RESTServer) HandleTriggerAlarm(w http.ResponseWriter, r *http.Request) {
	sys := s.systemFromPath(w, r)
	if sys == nil {
		return
	}
	panel := s.panelFromSystem(w, r, sys)
	if panel == nil {
		return
	}
	if err := panel.TriggerAlarm(r.Context()); err != nil {
		s.respondCommandError(w, err)
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// HandleRebootPanel reboots a system's panel
func (s *RESTServer) HandleRebootPanel(w http.ResponseWriter, r *http.Request) {
	sys := s.systemFromPath(w, r)
	if sys == nil {
		return
	}
	panel := s.panelFromSystem(w, r, sys)
	if panel == nil {
		return
	}
	if err := panel.Reboot(r.Context()); err != nil {
		s.respondCommandError(w, err)
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// ========== Device handlers ==========

func (s *RESTServer) deviceFromPath(w http.ResponseWriter, r *http.Request) (*vivint.System, vivint.Device) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid device id")
		return nil, nil
	}
	for _, sys := range s.account.Systems() {
		if dev := sys.Device(id); dev != nil {
			return sys, dev
		}
	}
	s.respondError(w, http.StatusNotFound, "device not found")
	return nil, nil
}

// HandleGetDevice returns a device with its full attribute map
func (s *RESTServer) HandleGetDevice(w http.ResponseWriter, r *http.Request) {
	sys, dev := s.deviceFromPath(w, r)
	if dev == nil {
		return
	}
	out := deviceSummary(sys, dev)
	out["attributes"] = dev.Attributes()
	s.respondJSON(w, http.StatusOK, out)
}

// HandleSetLock locks or unlocks a door lock
func (s *RESTServer) HandleSetLock(w http.ResponseWriter, r *http.Request) {
	_, dev := s.deviceFromPath(w, r)
	if dev == nil {
		return
	}
	lock, ok := dev.(*vivint.DoorLock)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "device is not a door lock")
		return
	}

	var req struct {
		Locked bool `json:"locked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := lock.SetState(r.Context(), req.Locked); err != nil {
		s.respondCommandError(w, err)
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// HandleSetSwitch turns a switch on/off or sets its level
func (s *RESTServer) HandleSetSwitch(w http.ResponseWriter, r *http.Request) {
	_, dev := s.deviceFromPath(w, r)
	if dev == nil {
		return
	}
	sw, ok := dev.(*vivint.Switch)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "device is not a switch")
		return
	}

	var req struct {
		On    *bool `json:"on"`
		Level *int  `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var err error
	switch {
	case req.Level != nil:
		err = sw.SetLevel(r.Context(), *req.Level)
	case req.On != nil && *req.On:
		err = sw.TurnOn(r.Context())
	case req.On != nil:
		err = sw.TurnOff(r.Context())
	default:
		s.respondError(w, http.StatusBadRequest, "on or level required")
		return
	}
	if err != nil {
		s.respondCommandError(w, err)
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// HandleSetGarageDoor opens or closes a garage door
func (s *RESTServer) HandleSetGarageDoor(w http.ResponseWriter, r *http.Request) {
	_, dev := s.deviceFromPath(w, r)
	if dev == nil {
		return
	}
	door, ok := dev.(*vivint.GarageDoor)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "device is not a garage door")
		return
	}

	var req struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var err error
	switch req.State {
	case "open":
		err = door.Open(r.Context())
	case "close":
		err = door.Close(r.Context())
	default:
		s.respondError(w, http.StatusBadRequest, "state must be open or close")
		return
	}
	if err != nil {
		s.respondCommandError(w, err)
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// HandleSetThermostat applies thermostat setpoints and modes
func (s *RESTServer) HandleSetThermostat(w http.ResponseWriter, r *http.Request) {
	_, dev := s.deviceFromPath(w, r)
	if dev == nil {
		return
	}
	thermostat, ok := dev.(*vivint.Thermostat)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "device is not a thermostat")
		return
	}

	var req struct {
		CoolSetPoint  *float64 `json:"cool_set_point"`
		HeatSetPoint  *float64 `json:"heat_set_point"`
		FanMode       *int     `json:"fan_mode"`
		OperatingMode *int     `json:"operating_mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := map[string]any{}
	if req.CoolSetPoint != nil {
		params[vivint.ThermostatParamCoolSetPoint] = *req.CoolSetPoint
	}
	if req.HeatSetPoint != nil {
		params[vivint.ThermostatParamHeatSetPoint] = *req.HeatSetPoint
	}
	if req.FanMode != nil {
		params[vivint.ThermostatParamFanMode] = *req.FanMode
	}
	if req.OperatingMode != nil {
		params[vivint.ThermostatParamOperatingMode] = *req.OperatingMode
	}
	if len(params) == 0 {
		s.respondError(w, http.StatusBadRequest, "no thermostat parameters provided")
		return
	}

	if err := thermostat.SetState(r.Context(), params); err != nil {
		s.respondCommandError(w, err)
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// HandleSetBypass bypasses or unbypasses a sensor
func (s *RESTServer) HandleSetBypass(w http.ResponseWriter, r *http.Request) {
	_, dev := s.deviceFromPath(w, r)
	if dev == nil {
		return
	}
	sensor, ok := dev.(*vivint.WirelessSensor)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "device is not a sensor")
		return
	}

	var req struct {
		Bypass bool `json:"bypass"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sensor.SetBypass(r.Context(), req.Bypass); err != nil {
		s.respondCommandError(w, err)
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// HandleRequestSnapshot asks a camera for a fresh thumbnail
func (s *RESTServer) HandleRequestSnapshot(w http.ResponseWriter, r *http.Request) {
	_, dev := s.deviceFromPath(w, r)
	if dev == nil {
		return
	}
	cam, ok := dev.(*vivint.Camera)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "device is not a camera")
		return
	}
	if err := cam.RequestSnapshot(r.Context()); err != nil {
		s.respondCommandError(w, err)
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// ========== History handlers ==========

func queryInt64(r *http.Request, key string) *int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func queryLimitOffset(r *http.Request) (int, int) {
	limit := 100
	offset := 0
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 1000 {
		limit = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && n >= 0 {
		offset = n
	}
	return limit, offset
}

// HandleListEvents lists persisted events, newest first
func (s *RESTServer) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, http.StatusNotImplemented, "event history disabled")
		return
	}

	filters := storage.EventFilters{
		SystemID: queryInt64(r, "system_id"),
		DeviceID: queryInt64(r, "device_id"),
	}
	if name := r.URL.Query().Get("event"); name != "" {
		filters.EventName = &name
	}
	if raw := r.URL.Query().Get("since"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.StartTime = &ts
		}
	}

	limit, offset := queryLimitOffset(r)
	events, total, err := s.store.ListEvents(r.Context(), filters, limit, offset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []*models.EventRecord{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// HandleListCaptures lists capture records, newest first
func (s *RESTServer) HandleListCaptures(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, http.StatusNotImplemented, "capture history disabled")
		return
	}

	limit, offset := queryLimitOffset(r)
	captures, total, err := s.store.ListCaptures(r.Context(), queryInt64(r, "system_id"), queryInt64(r, "device_id"), limit, offset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list captures")
		return
	}
	if captures == nil {
		captures = []*models.CaptureRecord{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"captures": captures,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// HandleGetCapture returns one capture record
func (s *RESTServer) HandleGetCapture(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, http.StatusNotImplemented, "capture history disabled")
		return
	}

	capture, err := s.store.GetCapture(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "capture not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to get capture")
		return
	}
	s.respondJSON(w, http.StatusOK, capture)
}
