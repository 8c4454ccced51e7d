package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrSnakeDoc/solvelog/internal/logger"
	"github.com/MrSnakeDoc/solvelog/internal/tracker"
)

const (
	// DefaultBackupRetention is how long backup files are kept
	DefaultBackupRetention = 30 * 24 * time.Hour // 30 days

	backupPrefix = "solvelog-backup-"
)

// BackupRotator writes a daily export into a directory and removes
// backups older than the retention.
type BackupRotator struct {
	store     *tracker.Store
	dir       string
	logger    logger.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
}

// NewBackupRotator creates a new backup rotator
func NewBackupRotator(
	store *tracker.Store,
	dir string,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *BackupRotator {
	if retention == 0 {
		retention = DefaultBackupRetention
	}

	return &BackupRotator{
		store:     store,
		dir:       dir,
		logger:    log,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic backup process
func (br *BackupRotator) Start(ctx context.Context) error {
	if err := os.MkdirAll(br.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup dir: %w", err)
	}

	// Run immediately on start
	if err := br.Rotate(ctx); err != nil {
		br.logger.Warn("initial backup failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(br.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := br.Rotate(ctx); err != nil {
					br.logger.Error("backup failed",
						logger.Error(err))
				}
			case <-br.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the backup rotator
func (br *BackupRotator) Stop() {
	close(br.stopCh)
}

// Rotate writes today's backup then prunes expired ones.
func (br *BackupRotator) Rotate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := br.now()
	path, err := br.write(now)
	if err != nil {
		return err
	}

	removed := br.prune(now)

	br.logger.Info("backup written",
		logger.String("file", path),
		logger.Int("problems", br.store.Len()),
		logger.Int("expired_removed", removed))
	return nil
}

// write exports to a temp file and renames it into place, so a crash never
// leaves a truncated backup.
func (br *BackupRotator) write(now time.Time) (string, error) {
	path := filepath.Join(br.dir, tracker.ExportFileName(now))

	tmp, err := os.CreateTemp(br.dir, ".backup-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err := br.store.Export(tmp); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move backup into place: %w", err)
	}
	return path, nil
}

// prune removes backups whose modification time is older than the retention.
func (br *BackupRotator) prune(now time.Time) int {
	entries, err := os.ReadDir(br.dir)
	if err != nil {
		br.logger.Warn("failed to list backups", logger.Error(err))
		return 0
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), backupPrefix) || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		age := now.Sub(info.ModTime())
		if age < br.retention {
			continue
		}
		if err := os.Remove(filepath.Join(br.dir, e.Name())); err != nil {
			br.logger.Warn("failed to remove expired backup",
				logger.String("file", e.Name()),
				logger.Error(err))
			continue
		}
		br.logger.Info("expired backup removed",
			logger.String("file", e.Name()),
			logger.String("age", age.String()))
		removed++
	}
	return removed
}
