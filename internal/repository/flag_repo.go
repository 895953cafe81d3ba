package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"brinleneuro/internal/database"
	"brinleneuro/internal/models"
)

// FlagRepository persists per-device flags
type FlagRepository struct {
	db database.DBTX
}

// NewFlagRepository creates a new flag repository
func NewFlagRepository(db database.DBTX) *FlagRepository {
	return &FlagRepository{db: db}
}

// Get returns a device's flag value and whether it exists
func (r *FlagRepository) Get(ctx context.Context, deviceID, key string) (string, bool, error) {
	var value string
	query := `SELECT flag_value FROM flags WHERE device_id = ? AND flag_key = ?`
	err := r.db.QueryRowContext(ctx, query, deviceID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get flag %s: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces a device's flag
func (r *FlagRepository) Set(ctx context.Context, deviceID, key, value string) error {
	if _, err := r.db.ExecContext(ctx, r.db.GetDialect().UpsertFlagQuery(), deviceID, key, value); err != nil {
		return fmt.Errorf("failed to set flag %s: %w", key, err)
	}
	return nil
}

// Remove deletes a device's flag; removing an absent flag is not an error
func (r *FlagRepository) Remove(ctx context.Context, deviceID, key string) error {
	query := `DELETE FROM flags WHERE device_id = ? AND flag_key = ?`
	if _, err := r.db.ExecContext(ctx, query, deviceID, key); err != nil {
		return fmt.Errorf("failed to remove flag %s: %w", key, err)
	}
	return nil
}

// All returns every stored flag, ordered by device and key
func (r *FlagRepository) All(ctx context.Context) ([]models.Flag, error) {
	query := `SELECT device_id, flag_key, flag_value, updated_at FROM flags ORDER BY device_id, flag_key`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list flags: %w", err)
	}
	defer rows.Close()

	var out []models.Flag
	for rows.Next() {
		var f models.Flag
		var updated sql.NullTime
		if err := rows.Scan(&f.DeviceID, &f.Key, &f.Value, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan flag: %w", err)
		}
		if updated.Valid {
			f.UpdatedAt = updated.Time
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Clear deletes every stored flag
func (r *FlagRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM flags`); err != nil {
		return fmt.Errorf("failed to clear flags: %w", err)
	}
	return nil
}

// ForDevice returns a flags.Store view scoped to one device
func (r *FlagRepository) ForDevice(deviceID string) *DeviceFlags {
	return &DeviceFlags{repo: r, deviceID: deviceID}
}

// DeviceFlags is a FlagRepository bound to one device id
type DeviceFlags struct {
	repo     *FlagRepository
	deviceID string
}

func (d *DeviceFlags) Get(ctx context.Context, key string) (string, bool, error) {
	return d.repo.Get(ctx, d.deviceID, key)
}

func (d *DeviceFlags) Set(ctx context.Context, key, value string) error {
	return d.repo.Set(ctx, d.deviceID, key, value)
}

func (d *DeviceFlags) Remove(ctx context.Context, key string) error {
	return d.repo.Remove(ctx, d.deviceID, key)
}
