package autosave

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"cogsaver/core/savefile"
	"cogsaver/core/watcher"
	"cogsaver/feature/catalog"
	"cogsaver/feature/catalog/models"

	"go.uber.org/zap"
)

// snapStamp names snapshots down to the second so bursts minutes apart
// stay distinct. Lexicographic order on these names is chronological.
const snapStamp = "06.01.02 15.04.05"

// Status is a point-in-time report of the autosave machinery.
type Status struct {
	Watching     bool   `json:"watching"`
	Debounce     string `json:"debounce"`
	Keep         int    `json:"keep"`
	Snapshots    int    `json:"snapshots"`
	SessionCount int    `json:"session_count"`
	LastPath     string `json:"last_path,omitempty"`
	LastTime     string `json:"last_time,omitempty"`
	WritesSeen   int    `json:"writes_seen"`
	Settled      int    `json:"settled"`
}

// Service snapshots the live save into the saves/auto retention ring.
type Service struct {
	cfg     savefile.Config
	catalog *catalog.Service
	logger  *zap.Logger

	mu       sync.Mutex
	watcher  *watcher.FileWatcher
	lastPath string
	lastTime time.Time
	count    int
}

// NewService builds the autosave service. catalog may be nil or not ready,
// in which case snapshots are taken but not cataloged.
func NewService(cfg savefile.Config, cat *catalog.Service, logger *zap.Logger) *Service {
	return &Service{cfg: cfg, catalog: cat, logger: logger}
}

// Snapshot copies the live save into the auto folder and applies
// retention. The reason only decorates the log line; every snapshot joins
// the same ring.
func (s *Service) Snapshot(ctx context.Context, reason string) (string, error) {
	if !s.cfg.Selected() {
		return "", savefile.ErrNoGame
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.cfg.AutosavePath()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create autosave folder: %w", err)
	}

	base := time.Now().Format(snapStamp)
	dst := filepath.Join(dir, base+s.cfg.SaveExt)
	for n := 2; ; n++ {
		if _, err := os.Stat(dst); errors.Is(err, fs.ErrNotExist) {
			break
		}
		dst = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, n, s.cfg.SaveExt))
	}

	if err := savefile.Copy(s.cfg.SaveLocation, dst); err != nil {
		return "", fmt.Errorf("failed to snapshot save: %w", err)
	}

	if s.catalog != nil && s.catalog.Ready() {
		if _, err := s.catalog.Register(ctx, dst, "", models.SourceAutosave); err != nil {
			s.logger.Warn("Snapshot taken but not cataloged", zap.Error(err))
		}
	}

	s.lastPath = dst
	s.lastTime = time.Now()
	s.count++
	s.logger.Info("Autosave snapshot",
		zap.String("path", dst),
		zap.String("reason", reason),
	)

	if _, err := s.pruneLocked(ctx); err != nil {
		s.logger.Warn("Retention pass failed", zap.Error(err))
	}

	return dst, nil
}

// Prune applies retention on demand and reports how many snapshots were
// removed.
func (s *Service) Prune(ctx context.Context) (int, error) {
	if !s.cfg.Selected() {
		return 0, savefile.ErrNoGame
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruneLocked(ctx)
}

// pruneLocked deletes everything past the newest keep snapshots. A keep
// of zero or less disables retention entirely.
func (s *Service) pruneLocked(ctx context.Context) (int, error) {
	keep := s.cfg.AutosaveKeep
	if keep <= 0 {
		return 0, nil
	}

	dir := s.cfg.AutosavePath()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list autosave folder: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), s.cfg.SaveExt) {
			continue
		}
		names = append(names, entry.Name())
	}

	// Stamped names sort chronologically, newest last.
	sort.Strings(names)
	if len(names) <= keep {
		return 0, nil
	}

	removed := 0
	for _, name := range names[:len(names)-keep] {
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			s.logger.Warn("Failed to remove old snapshot", zap.String("path", path), zap.Error(err))
			continue
		}
		if s.catalog != nil && s.catalog.Ready() {
			if err := s.catalog.Remove(ctx, s.catalog.SaveKey(path)); err != nil {
				s.logger.Warn("Snapshot removed but catalog row remains", zap.Error(err))
			}
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("Old snapshots pruned", zap.Int("removed", removed), zap.Int("kept", keep))
	}
	return removed, nil
}

// StartWatching begins snapshotting settled writes of the live save. It is
// non-blocking and idempotent.
func (s *Service) StartWatching(ctx context.Context) error {
	if !s.cfg.Selected() {
		return savefile.ErrNoGame
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher != nil && s.watcher.IsWatching() {
		return nil
	}

	w, err := watcher.New(s.cfg.SaveLocation, s.cfg.Debounce(), s.onSettle, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	s.watcher = w
	return nil
}

// StopWatching stops the watcher and waits for in-flight snapshots to
// finish. Safe to call when nothing is running.
func (s *Service) StopWatching() {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	// Stop outside the lock: the event loop may be inside Snapshot.
	if w != nil {
		w.Stop()
	}
}

func (s *Service) onSettle(ctx context.Context, path string) {
	if _, err := s.Snapshot(ctx, "autosave"); err != nil {
		s.logger.Warn("Autosave snapshot failed", zap.Error(err))
	}
}

// Watching reports whether the live save is currently being watched.
func (s *Service) Watching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watcher != nil && s.watcher.IsWatching()
}

// Status reports the current autosave state for the status endpoint and
// the TUI.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Debounce:     s.cfg.Debounce().String(),
		Keep:         s.cfg.AutosaveKeep,
		SessionCount: s.count,
		LastPath:     s.lastPath,
	}
	if !s.lastTime.IsZero() {
		st.LastTime = s.lastTime.Format(time.RFC3339)
	}
	if s.watcher != nil {
		st.Watching = s.watcher.IsWatching()
		ws := s.watcher.GetStats()
		st.WritesSeen = ws.WritesSeen
		st.Settled = ws.Settled
	}

	if entries, err := os.ReadDir(s.cfg.AutosavePath()); err == nil {
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), s.cfg.SaveExt) {
				st.Snapshots++
			}
		}
	}

	return st
}
