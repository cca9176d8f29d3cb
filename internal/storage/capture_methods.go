package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// SaveCapture persists a capture record
func (s *PostgresStore) SaveCapture(ctx context.Context, capture *models.CaptureRecord) error {
	if capture.ID == uuid.Nil {
		capture.ID = uuid.New()
	}
	if capture.CreatedAt.IsZero() {
		capture.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO captures (id, system_id, device_id, trigger_event, snapshot_path, audio_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var audioPath sql.NullString
	if capture.AudioPath != "" {
		audioPath = sql.NullString{String: capture.AudioPath, Valid: true}
	}

	_, err := s.getDB().ExecContext(ctx, query,
		capture.ID, capture.SystemID, capture.DeviceID, capture.Trigger,
		capture.SnapshotPath, audioPath, capture.CreatedAt,
	)
	return err
}

// GetCapture returns one capture record by id
func (s *PostgresStore) GetCapture(ctx context.Context, id string) (*models.CaptureRecord, error) {
	captureID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	query := `
		SELECT id, system_id, device_id, trigger_event, snapshot_path, audio_path, created_at
		FROM captures WHERE id = $1`

	var (
		rec       models.CaptureRecord
		audioPath sql.NullString
	)
	err = s.getDB().QueryRowContext(ctx, query, captureID).Scan(
		&rec.ID, &rec.SystemID, &rec.DeviceID, &rec.Trigger,
		&rec.SnapshotPath, &audioPath, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.AudioPath = audioPath.String
	return &rec, nil
}

// ListCaptures lists capture records, newest first
func (s *PostgresStore) ListCaptures(ctx context.Context, systemID, deviceID *int64, limit, offset int) ([]*models.CaptureRecord, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 0

	if systemID != nil {
		argCount++
		where += fmt.Sprintf(" AND system_id = $%d", argCount)
		args = append(args, *systemID)
	}
	if deviceID != nil {
		argCount++
		where += fmt.Sprintf(" AND device_id = $%d", argCount)
		args = append(args, *deviceID)
	}

	var total int64
	if err := s.getDB().QueryRowContext(ctx, "SELECT COUNT(*) FROM captures"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT id, system_id, device_id, trigger_event, snapshot_path, audio_path, created_at FROM captures" + where
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount+1, argCount+2)
	args = append(args, limit, offset)

	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var captures []*models.CaptureRecord
	for rows.Next() {
		var (
			rec       models.CaptureRecord
			audioPath sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.SystemID, &rec.DeviceID, &rec.Trigger, &rec.SnapshotPath, &audioPath, &rec.CreatedAt); err != nil {
			return nil, 0, err
		}
		rec.AudioPath = audioPath.String
		captures = append(captures, &rec)
	}
	return captures, total, rows.Err()
}
