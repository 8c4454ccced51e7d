package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/solvelog/internal/imports"
	"github.com/MrSnakeDoc/solvelog/internal/logger"
	"github.com/MrSnakeDoc/solvelog/internal/tracker"
	"github.com/MrSnakeDoc/solvelog/internal/utils"
)

// DefaultImportDebounce coalesces the burst of events editors emit on save.
const DefaultImportDebounce = 200 * time.Millisecond

// ImportWatcher imports a seed/export file at start and again whenever it
// changes on disk.
type ImportWatcher struct {
	loader   *imports.Loader
	mapper   *imports.Mapper
	store    *tracker.Store
	logger   logger.Logger
	debounce time.Duration
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	done     chan struct{}
}

// NewImportWatcher creates a new import file watcher
func NewImportWatcher(
	importFile string,
	loc *time.Location,
	store *tracker.Store,
	log logger.Logger,
	debounce time.Duration,
) *ImportWatcher {
	if debounce <= 0 {
		debounce = DefaultImportDebounce
	}
	return &ImportWatcher{
		loader:   imports.NewLoader(importFile),
		mapper:   imports.NewMapper(loc),
		store:    store,
		logger:   log,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start imports the file once and begins watching it. A failed initial
// import is logged, not fatal: the file may be fixed later.
func (iw *ImportWatcher) Start(ctx context.Context) error {
	if _, err := iw.Import(ctx); err != nil {
		iw.logger.Warn("initial import failed",
			logger.String("file", iw.loader.Path()),
			logger.Error(err))
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	// watch the directory: atomic saves replace the file
	if err := w.Add(filepath.Dir(iw.loader.Path())); err != nil {
		utils.Close(w)
		return fmt.Errorf("failed to watch import directory: %w", err)
	}
	iw.watcher = w

	go iw.watchLoop(ctx)

	iw.logger.Info("watching import file",
		logger.String("file", iw.loader.Path()))
	return nil
}

// Stop stops watching and waits for the loop to exit.
func (iw *ImportWatcher) Stop() {
	close(iw.stopCh)
	if iw.watcher != nil {
		_ = iw.watcher.Close()
		<-iw.done
	}
}

// Import loads, maps and imports the file once.
func (iw *ImportWatcher) Import(ctx context.Context) (tracker.ImportReport, error) {
	file, err := iw.loader.Load()
	if err != nil {
		return tracker.ImportReport{}, err
	}

	report, err := iw.store.Import(ctx, iw.mapper.MapProblems(file))
	if err != nil {
		return tracker.ImportReport{}, fmt.Errorf("failed to import %s: %w", iw.loader.Path(), err)
	}

	iw.logger.Info("import file applied",
		logger.String("file", iw.loader.Path()),
		logger.Int("inserted", report.Inserted),
		logger.Int("updated", report.Updated),
		logger.Int("skipped", report.Skipped))
	return report, nil
}

func (iw *ImportWatcher) watchLoop(ctx context.Context) {
	defer close(iw.done)

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	name := filepath.Base(iw.loader.Path())

	for {
		select {
		case <-iw.stopCh:
			return
		case <-ctx.Done():
			return
		case ev, ok := <-iw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce.Reset(iw.debounce)
			}
		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			iw.logger.Warn("import watcher error", logger.Error(err))
		case <-debounce.C:
			if _, err := iw.Import(ctx); err != nil {
				iw.logger.Error("failed to re-import file",
					logger.String("file", iw.loader.Path()),
					logger.Error(err))
			}
		}
	}
}
