package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"brinleneuro/internal/database"
	"brinleneuro/internal/models"
	"brinleneuro/internal/repository"
)

const backupVersion = "1.0"

// BackupData is the JSON form of the flags table
type BackupData struct {
	Version    string        `json:"version"`
	ExportedAt time.Time     `json:"exported_at"`
	Flags      []models.Flag `json:"flags"`
}

// BackupService handles flag backup and restore
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes every flag to outputPath
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()
	return s.ExportTo(ctx, file)
}

// ExportTo writes every flag to w
func (s *BackupService) ExportTo(ctx context.Context, w io.Writer) error {
	all, err := repository.NewFlagRepository(s.db).All(ctx)
	if err != nil {
		return err
	}
	backup := BackupData{Version: backupVersion, ExportedAt: time.Now().UTC(), Flags: all}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	log.Info().Int("flags", len(all)).Msg("flags exported")
	return nil
}

// Import restores flags from inputPath
func (s *BackupService) Import(ctx context.Context, inputPath string, clear bool) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()
	return s.ImportFrom(ctx, file, clear)
}

// ImportFrom restores flags from r in one transaction, merging with existing
// flags unless clear is set
func (s *BackupService) ImportFrom(ctx context.Context, r io.Reader, clear bool) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		repo := repository.NewFlagRepository(tx)
		if clear {
			if err := repo.Clear(ctx); err != nil {
				return err
			}
		}
		for _, f := range backup.Flags {
			if f.DeviceID == "" || f.Key == "" {
				return fmt.Errorf("backup flag missing device or key")
			}
			if err := repo.Set(ctx, f.DeviceID, f.Key, f.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().Int("flags", len(backup.Flags)).Bool("clear", clear).Msg("flags imported")
	return nil
}
