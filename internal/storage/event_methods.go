package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// SaveEvent persists one normalized envelope
func (s *PostgresStore) SaveEvent(ctx context.Context, env models.Envelope) error {
	var data []byte
	if env.Data != nil {
		var err error
		data, err = json.Marshal(env.Data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
	}

	query := `
		INSERT INTO events (id, event_name, system_id, device_id, ts, data)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.getDB().ExecContext(ctx, query,
		uuid.New(), env.EventName, env.SystemID, env.DeviceID, env.Timestamp, data,
	)
	return err
}

// ListEvents lists persisted events with filters, newest first
func (s *PostgresStore) ListEvents(ctx context.Context, filters EventFilters, limit, offset int) ([]*models.EventRecord, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 0

	if filters.SystemID != nil {
		argCount++
		where += fmt.Sprintf(" AND system_id = $%d", argCount)
		args = append(args, *filters.SystemID)
	}
	if filters.DeviceID != nil {
		argCount++
		where += fmt.Sprintf(" AND device_id = $%d", argCount)
		args = append(args, *filters.DeviceID)
	}
	if filters.EventName != nil {
		argCount++
		where += fmt.Sprintf(" AND event_name = $%d", argCount)
		args = append(args, *filters.EventName)
	}
	if filters.StartTime != nil {
		argCount++
		where += fmt.Sprintf(" AND ts >= $%d", argCount)
		args = append(args, filters.StartTime.UnixMilli())
	}
	if filters.EndTime != nil {
		argCount++
		where += fmt.Sprintf(" AND ts <= $%d", argCount)
		args = append(args, filters.EndTime.UnixMilli())
	}

	var total int64
	if err := s.getDB().QueryRowContext(ctx, "SELECT COUNT(*) FROM events"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT id, event_name, system_id, device_id, ts, data, created_at FROM events" + where
	query += fmt.Sprintf(" ORDER BY ts DESC LIMIT $%d OFFSET $%d", argCount+1, argCount+2)
	args = append(args, limit, offset)

	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []*models.EventRecord
	for rows.Next() {
		var (
			rec  models.EventRecord
			data []byte
		)
		if err := rows.Scan(&rec.ID, &rec.EventName, &rec.SystemID, &rec.DeviceID, &rec.Timestamp, &data, &rec.CreatedAt); err != nil {
			return nil, 0, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &rec.Data); err != nil {
				return nil, 0, fmt.Errorf("decode event data: %w", err)
			}
		}
		events = append(events, &rec)
	}
	return events, total, rows.Err()
}

// PruneEvents deletes events persisted before the cutoff
func (s *PostgresStore) PruneEvents(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.getDB().ExecContext(ctx, "DELETE FROM events WHERE ts < $1", before.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
