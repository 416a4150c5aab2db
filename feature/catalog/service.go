package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cogsaver/core/savefile"
	"cogsaver/feature/catalog/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoCatalog is returned when the catalog database is not available.
var ErrNoCatalog = errors.New("catalog database not available")

// Service handles catalog operations for the selected game.
type Service struct {
	db     *gorm.DB
	cfg    savefile.Config
	logger *zap.Logger
}

// NewService creates a new catalog service. db may be nil when the database
// connection failed; every operation then reports ErrNoCatalog.
func NewService(db *gorm.DB, cfg savefile.Config, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// Ready reports whether the catalog database is usable.
func (s *Service) Ready() bool {
	return s.db != nil
}

// DB exposes the underlying connection for the reconcile adapter.
func (s *Service) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the save_records table.
func (s *Service) Migrate() error {
	if s.db == nil {
		return ErrNoCatalog
	}
	return s.db.AutoMigrate(&models.SaveRecord{})
}

// Register catalogs the file at path, parsing character and scene out of its
// state. An existing row for the same file is refreshed instead of duplicated,
// keeping its label unless a new one is given.
func (s *Service) Register(ctx context.Context, path, label, source string) (*models.SaveRecord, error) {
	if s.db == nil {
		return nil, ErrNoCatalog
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat save: %w", err)
	}

	sum, err := savefile.Checksum(path)
	if err != nil {
		return nil, fmt.Errorf("failed to hash save: %w", err)
	}

	desc := savefile.Describe(path)
	game := s.cfg.Game()
	key := s.SaveKey(path)

	var existing models.SaveRecord
	err = s.db.WithContext(ctx).
		Where("game = ? AND file_name = ?", game, key).
		First(&existing).Error

	switch {
	case err == nil:
		updates := map[string]any{
			"character": desc.Character,
			"scene":     desc.Scene,
			"sha256":    sum,
			"size":      info.Size(),
		}
		if label != "" {
			updates["label"] = label
		}
		if res := s.db.WithContext(ctx).Model(&existing).Updates(updates); res.Error != nil {
			return nil, fmt.Errorf("failed to refresh record: %w", res.Error)
		}
		return &existing, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		rec := &models.SaveRecord{
			ID:        uuid.NewString(),
			Game:      game,
			FileName:  key,
			Label:     label,
			Character: desc.Character,
			Scene:     desc.Scene,
			Sha256:    sum,
			Size:      info.Size(),
			Source:    source,
			CreatedAt: time.Now(),
		}
		if res := s.db.WithContext(ctx).Create(rec); res.Error != nil {
			return nil, fmt.Errorf("failed to create record: %w", res.Error)
		}
		return rec, nil

	default:
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
}

// Rescan walks the saves folder and registers every save file the catalog
// does not know yet. Files under auto/ register with the autosave source,
// everything else as an import. Returns how many files were added.
func (s *Service) Rescan(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrNoCatalog
	}

	root := s.cfg.SavesPath()
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to stat saves folder: %w", err)
	}

	known := make(map[string]struct{})
	records, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		known[rec.FileName] = struct{}{}
	}

	added := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), s.cfg.SaveExt) {
			return nil
		}

		key := s.SaveKey(path)
		if _, ok := known[key]; ok {
			return nil
		}

		source := models.SourceImport
		if strings.HasPrefix(key, "auto/") {
			source = models.SourceAutosave
		}

		if _, err := s.Register(ctx, path, "", source); err != nil {
			s.logger.Warn("Failed to register found save",
				zap.String("file", key),
				zap.Error(err))
			return nil
		}

		added++
		return nil
	})
	if err != nil {
		return added, fmt.Errorf("rescan failed: %w", err)
	}

	return added, nil
}

// Resolve finds the record a loose reference points at. The reference is
// tried as record id, then file name (with and without the save extension),
// then label.
func (s *Service) Resolve(ctx context.Context, ref string) (*models.SaveRecord, error) {
	if s.db == nil {
		return nil, ErrNoCatalog
	}

	game := s.cfg.Game()
	var rec models.SaveRecord

	err := s.db.WithContext(ctx).Where("id = ?", ref).First(&rec).Error
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	for _, name := range []string{ref, ref + s.cfg.SaveExt} {
		err = s.db.WithContext(ctx).
			Where("game = ? AND file_name = ?", game, name).
			First(&rec).Error
		if err == nil {
			return &rec, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to query record: %w", err)
		}
	}

	err = s.db.WithContext(ctx).
		Where("game = ? AND label = ?", game, ref).
		First(&rec).Error
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	return nil, fmt.Errorf("no save matches %q: %w", ref, gorm.ErrRecordNotFound)
}

// Get returns the record for an exact file name, or nil when unknown.
func (s *Service) Get(ctx context.Context, fileName string) (*models.SaveRecord, error) {
	if s.db == nil {
		return nil, ErrNoCatalog
	}

	var rec models.SaveRecord
	err := s.db.WithContext(ctx).
		Where("game = ? AND file_name = ?", s.cfg.Game(), fileName).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	return &rec, nil
}

// List returns all records for the selected game, newest first.
func (s *Service) List(ctx context.Context) ([]models.SaveRecord, error) {
	if s.db == nil {
		return nil, ErrNoCatalog
	}

	var records []models.SaveRecord
	err := s.db.WithContext(ctx).
		Where("game = ?", s.cfg.Game()).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// Remove drops the record for the given file name. Removing an uncataloged
// file is not an error.
func (s *Service) Remove(ctx context.Context, fileName string) error {
	if s.db == nil {
		return ErrNoCatalog
	}

	res := s.db.WithContext(ctx).
		Where("game = ? AND file_name = ?", s.cfg.Game(), fileName).
		Delete(&models.SaveRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete record: %w", res.Error)
	}
	return nil
}

// SaveKey returns the catalog key for a file path: relative to the saves
// folder with forward slashes, falling back to the base name for paths
// outside it.
func (s *Service) SaveKey(path string) string {
	rel, err := filepath.Rel(s.cfg.SavesPath(), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// PathFor returns the absolute path a record's file lives at.
func (s *Service) PathFor(rec *models.SaveRecord) string {
	return filepath.Join(s.cfg.SavesPath(), filepath.FromSlash(rec.FileName))
}
