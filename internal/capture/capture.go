package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ChrisWondeFro/vivintpy/internal/config"
	"github.com/ChrisWondeFro/vivintpy/internal/events"
	"github.com/ChrisWondeFro/vivintpy/internal/models"
	"github.com/ChrisWondeFro/vivintpy/internal/storage"
	"github.com/ChrisWondeFro/vivintpy/internal/vivint"
)

// Emitter reinjects capture results into the event fan-out.
type Emitter interface {
	Emit(event string, systemID, deviceID int64, data map[string]any)
}

// Manager saves a fresh snapshot (and, when the trigger carries one, an
// audio clip) whenever a doorbell camera reports motion or a ding. One
// capture runs per camera at a time; triggers arriving mid-capture are
// dropped, not queued.
type Manager struct {
	cfg     config.CaptureConfig
	account *vivint.Account
	bus     *events.Bus
	emitter Emitter
	store   storage.Store

	mu       sync.Mutex
	inFlight map[int64]bool
}

// NewManager creates a capture manager. store may be nil when capture
// metadata persistence is disabled.
func NewManager(cfg config.CaptureConfig, account *vivint.Account, bus *events.Bus, emitter Emitter, store storage.Store) *Manager {
	return &Manager{
		cfg:      cfg,
		account:  account,
		bus:      bus,
		emitter:  emitter,
		store:    store,
		inFlight: make(map[int64]bool),
	}
}

// Start subscribes to the event bus and blocks until the context is
// cancelled. In-flight captures finish on their own goroutines.
func (m *Manager) Start(ctx context.Context) error {
	ch, cancel := m.bus.Subscribe(256)
	defer cancel()

	log.Info().Str("media_root", m.cfg.MediaRoot).Msg("Capture manager started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case env, ok := <-ch:
			if !ok {
				return nil
			}
			m.handle(ctx, env)
		}
	}
}

func (m *Manager) handle(ctx context.Context, env models.Envelope) {
	if env.EventName != models.EventMotionDetected && env.EventName != models.EventDoorbellDing {
		return
	}
	dev, err := m.account.Device(env.SystemID, env.DeviceID)
	if err != nil {
		return
	}
	cam, ok := dev.(*vivint.Camera)
	if !ok || !cam.IsDoorbell() {
		return
	}

	m.mu.Lock()
	if m.inFlight[cam.ID()] {
		m.mu.Unlock()
		log.Debug().Int64("device", cam.ID()).Msg("Capture already in flight, dropping trigger")
		return
	}
	m.inFlight[cam.ID()] = true
	m.mu.Unlock()

	go func() {
		defer func() {
			m.mu.Lock()
			delete(m.inFlight, cam.ID())
			m.mu.Unlock()
		}()
		m.process(ctx, cam, env)
	}()
}

// process runs one capture end to end. Every failure is logged and
// swallowed; a failed capture never disturbs the event path.
func (m *Manager) process(ctx context.Context, cam *vivint.Camera, env models.Envelope) {
	systemID := env.SystemID
	deviceID := cam.ID()

	if err := cam.RequestSnapshot(ctx); err != nil {
		log.Warn().Err(err).Int64("device", deviceID).Msg("Snapshot request failed")
		return
	}

	snapshotURL := m.pollThumbnailURL(ctx, cam)
	if snapshotURL == "" {
		log.Warn().Int64("device", deviceID).Msg("Timed out waiting for snapshot")
		return
	}

	jpg, err := m.account.API().Download(ctx, snapshotURL)
	if err != nil {
		log.Error().Err(err).Int64("device", deviceID).Msg("Snapshot download failed")
		return
	}

	timestamp := time.Now().UTC().Format("20060102T150405Z")
	dir := filepath.Join(m.cfg.MediaRoot, fmt.Sprintf("%d", systemID), fmt.Sprintf("%d", deviceID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("Media directory create failed")
		return
	}

	snapshotPath := filepath.Join(dir, timestamp+".jpg")
	if err := os.WriteFile(snapshotPath, jpg, 0o644); err != nil {
		log.Error().Err(err).Str("path", snapshotPath).Msg("Snapshot write failed")
		return
	}
	log.Info().Str("path", snapshotPath).Msg("Saved snapshot")

	audioPath := m.saveClip(ctx, env, dir, timestamp)

	record := &models.CaptureRecord{
		SystemID:     systemID,
		DeviceID:     deviceID,
		Trigger:      env.EventName,
		SnapshotPath: snapshotPath,
		AudioPath:    audioPath,
	}
	if m.store != nil {
		if err := m.store.SaveCapture(ctx, record); err != nil {
			log.Error().Err(err).Int64("device", deviceID).Msg("Capture persist failed")
		}
	}

	m.emitter.Emit(models.EventCaptureSaved, systemID, deviceID, map[string]any{
		"snapshot_path": snapshotPath,
		"audio_path":    audioPath,
		"trigger":       env.EventName,
		"timestamp":     timestamp,
	})
}

// pollThumbnailURL polls until the vendor resolves a snapshot URL or the
// configured timeout elapses.
func (m *Manager) pollThumbnailURL(ctx context.Context, cam *vivint.Camera) string {
	deadline := time.Now().Add(m.cfg.SnapshotTimeout)
	for time.Now().Before(deadline) {
		url, err := cam.ThumbnailURL(ctx)
		if err == nil && url != "" {
			return url
		}
		select {
		case <-ctx.Done():
			return ""
		case <-time.After(m.cfg.PollInterval):
		}
	}
	return ""
}

// saveClip downloads and stores the audio clip referenced by the trigger
// message, if any. Returns the stored path or "".
func (m *Manager) saveClip(ctx context.Context, env models.Envelope, dir, timestamp string) string {
	clipURL := clipURLFrom(env.Data)
	if clipURL == "" {
		return ""
	}

	audio, err := m.account.API().Download(ctx, clipURL)
	if err != nil {
		log.Warn().Err(err).Str("url", clipURL).Msg("Audio clip download failed")
		return ""
	}

	audioPath := filepath.Join(dir, timestamp+".m4a")
	if err := os.WriteFile(audioPath, audio, 0o644); err != nil {
		log.Error().Err(err).Str("path", audioPath).Msg("Audio clip write failed")
		return ""
	}
	log.Info().Str("path", audioPath).Msg("Saved audio clip")
	return audioPath
}

// clipURLFrom digs the clip URL out of the raw trigger payload. The
// vendor is not consistent about the key's casing.
func clipURLFrom(data map[string]any) string {
	msg, ok := data["message"].(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"clipUrl", "clipURL", "clip_url"} {
		if url, ok := msg[key].(string); ok && url != "" {
			return url
		}
	}
	return ""
}
