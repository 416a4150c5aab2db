package slots

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cogsaver/core/savefile"
	"cogsaver/feature/catalog"
	"cogsaver/feature/catalog/models"

	"go.uber.org/zap"
)

var (
	// ErrNoGame mirrors savefile.ErrNoGame so callers of this package can
	// match it without importing savefile.
	ErrNoGame = savefile.ErrNoGame

	// ErrNoQuicksave is returned by Quickload when the slot is empty.
	ErrNoQuicksave = errors.New("no quicksave found")

	// ErrSaveNotFound is returned when a reference resolves to nothing.
	ErrSaveNotFound = errors.New("save not found")
)

// Snapshotter takes safety snapshots of the live save before it is
// overwritten. Implemented by the autosave feature.
type Snapshotter interface {
	Snapshot(ctx context.Context, reason string) (string, error)
}

// Save is one entry of the saves listing: the file on disk merged with
// whatever the catalog knows about it.
type Save struct {
	FileName  string    `json:"file_name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
	Label     string    `json:"label,omitempty"`
	Character string    `json:"character,omitempty"`
	Scene     string    `json:"scene,omitempty"`
	Source    string    `json:"source,omitempty"`
	Cataloged bool      `json:"cataloged"`
	Drifted   bool      `json:"drifted,omitempty"`
}

// Service handles slot operations around the live save file.
type Service struct {
	cfg     savefile.Config
	catalog *catalog.Service
	snap    Snapshotter
	logger  *zap.Logger
}

// NewService creates a new slots service. catalog and snap may be nil;
// cataloging and pre-restore snapshots are then skipped with a warning.
func NewService(cfg savefile.Config, cat *catalog.Service, snap Snapshotter, logger *zap.Logger) *Service {
	return &Service{
		cfg:     cfg,
		catalog: cat,
		snap:    snap,
		logger:  logger,
	}
}

// Quicksave copies the live save over the quicksave slot and returns the
// slot path.
func (s *Service) Quicksave(ctx context.Context) (string, error) {
	if !s.cfg.Selected() {
		return "", ErrNoGame
	}

	dst := s.cfg.QuicksavePath()
	if err := savefile.Copy(s.cfg.SaveLocation, dst); err != nil {
		return "", fmt.Errorf("quicksave failed: %w", err)
	}

	s.logger.Info("Quicksave created", zap.String("path", dst))
	return dst, nil
}

// Quickload copies the quicksave slot back over the live save. An empty
// slot reports ErrNoQuicksave and leaves the live save untouched.
func (s *Service) Quickload(ctx context.Context) error {
	if !s.cfg.Selected() {
		return ErrNoGame
	}

	src := s.cfg.QuicksavePath()
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return ErrNoQuicksave
		}
		return fmt.Errorf("quickload failed: %w", err)
	}

	if err := savefile.Copy(src, s.cfg.SaveLocation); err != nil {
		return fmt.Errorf("quickload failed: %w", err)
	}

	s.logger.Info("Quicksave loaded", zap.String("path", src))
	return nil
}

// Create copies the live save into a new permanent save. With an empty
// label the name is suggested from the state inside the file; collisions
// get a numbered suffix instead of overwriting.
func (s *Service) Create(ctx context.Context, label string) (*Save, error) {
	if !s.cfg.Selected() {
		return nil, ErrNoGame
	}

	if err := os.MkdirAll(s.cfg.SavesPath(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create saves folder: %w", err)
	}

	name := savefile.SanitizeName(label)
	if name == "" {
		name = savefile.SuggestName(savefile.Describe(s.cfg.SaveLocation), time.Now())
	}
	name = strings.TrimSuffix(name, s.cfg.SaveExt)

	dst := s.nextFreePath(name)
	if err := savefile.Copy(s.cfg.SaveLocation, dst); err != nil {
		return nil, fmt.Errorf("failed to create save: %w", err)
	}

	s.register(ctx, dst, label, models.SourceCreate)

	save, err := s.describeFile(ctx, dst)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Save created", zap.String("file", save.FileName))
	return save, nil
}

// Restore copies a saved file back over the live save. The live save is
// snapshotted first when a snapshotter is available.
func (s *Service) Restore(ctx context.Context, ref string) (string, error) {
	if !s.cfg.Selected() {
		return "", ErrNoGame
	}

	src, err := s.resolveRef(ctx, ref)
	if err != nil {
		return "", err
	}

	if s.snap != nil {
		if _, err := s.snap.Snapshot(ctx, "pre-restore"); err != nil {
			s.logger.Warn("Pre-restore snapshot failed", zap.Error(err))
		}
	}

	if err := savefile.Copy(src, s.cfg.SaveLocation); err != nil {
		return "", fmt.Errorf("restore failed: %w", err)
	}

	s.logger.Info("Save restored", zap.String("from", src))
	return src, nil
}

// List returns every save file in the saves folder, newest first, merged
// with catalog data where available.
func (s *Service) List(ctx context.Context) ([]Save, error) {
	if !s.cfg.Selected() {
		return nil, ErrNoGame
	}

	records := s.catalogIndex(ctx)

	var saves []Save
	root := s.cfg.SavesPath()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), s.cfg.SaveExt) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)

		save := Save{
			FileName: key,
			Path:     path,
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		}
		if rec, ok := records[key]; ok {
			save.Label = rec.Label
			save.Character = rec.Character
			save.Scene = rec.Scene
			save.Source = rec.Source
			save.Cataloged = true
			save.Drifted = rec.Size != info.Size()
		}
		saves = append(saves, save)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}

	sort.Slice(saves, func(i, j int) bool {
		return saves[i].ModTime.After(saves[j].ModTime)
	})
	return saves, nil
}

// Delete removes a save file and its catalog row. Only files inside the
// saves folder are deletable; the live save and the quicksave slot are out
// of reach.
func (s *Service) Delete(ctx context.Context, ref string) (string, error) {
	if !s.cfg.Selected() {
		return "", ErrNoGame
	}

	path, err := s.resolveRef(ctx, ref)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(s.cfg.SavesPath(), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("refusing to delete outside the saves folder: %s", path)
	}

	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("failed to delete save: %w", err)
	}

	if s.catalog != nil && s.catalog.Ready() {
		if err := s.catalog.Remove(ctx, filepath.ToSlash(rel)); err != nil {
			s.logger.Warn("Failed to drop catalog row", zap.Error(err))
		}
	}

	s.logger.Info("Save deleted", zap.String("file", filepath.ToSlash(rel)))
	return path, nil
}

// resolveRef turns a loose reference into an existing file path. Catalog
// lookups win, then plain names inside the saves folder, then explicit
// paths.
func (s *Service) resolveRef(ctx context.Context, ref string) (string, error) {
	if s.catalog != nil && s.catalog.Ready() {
		if rec, err := s.catalog.Resolve(ctx, ref); err == nil {
			path := s.catalog.PathFor(rec)
			if _, statErr := os.Stat(path); statErr == nil {
				return path, nil
			}
			// The row exists but the file vanished. Fall through so path
			// references still work.
		}
	}

	for _, name := range []string{ref, ref + s.cfg.SaveExt} {
		path := filepath.Join(s.cfg.SavesPath(), filepath.FromSlash(name))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return ref, nil
	}

	return "", fmt.Errorf("%w: %s", ErrSaveNotFound, ref)
}

// nextFreePath appends " (n)" until the name no longer collides.
func (s *Service) nextFreePath(name string) string {
	dir := s.cfg.SavesPath()
	path := filepath.Join(dir, name+s.cfg.SaveExt)
	for n := 2; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", name, n, s.cfg.SaveExt))
	}
}

// register catalogs a freshly written save, best effort.
func (s *Service) register(ctx context.Context, path, label, source string) {
	if s.catalog == nil || !s.catalog.Ready() {
		return
	}
	if _, err := s.catalog.Register(ctx, path, label, source); err != nil {
		s.logger.Warn("Failed to catalog save", zap.String("path", path), zap.Error(err))
	}
}

// catalogIndex returns the catalog rows keyed by file name, empty when the
// catalog is unavailable.
func (s *Service) catalogIndex(ctx context.Context) map[string]models.SaveRecord {
	index := make(map[string]models.SaveRecord)
	if s.catalog == nil || !s.catalog.Ready() {
		return index
	}

	records, err := s.catalog.List(ctx)
	if err != nil {
		s.logger.Warn("Failed to load catalog rows", zap.Error(err))
		return index
	}
	for _, rec := range records {
		index[rec.FileName] = rec
	}
	return index
}

// describeFile builds the listing entry for a single file.
func (s *Service) describeFile(ctx context.Context, path string) (*Save, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat save: %w", err)
	}

	rel, err := filepath.Rel(s.cfg.SavesPath(), path)
	if err != nil {
		return nil, fmt.Errorf("failed to locate save: %w", err)
	}
	key := filepath.ToSlash(rel)

	save := &Save{
		FileName: key,
		Path:     path,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}

	if s.catalog != nil && s.catalog.Ready() {
		if rec, err := s.catalog.Get(ctx, key); err == nil && rec != nil {
			save.Label = rec.Label
			save.Character = rec.Character
			save.Scene = rec.Scene
			save.Source = rec.Source
			save.Cataloged = true
		}
	}

	return save, nil
}
