package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cogsaver/core/reconcile"
	"cogsaver/core/savefile"
	"cogsaver/core/storage"
	"cogsaver/feature/catalog/models"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

// SaveAdapter implements the reconcile.Adapter interface for save files.
// Keys are file names relative to the saves folder, slash separated, the
// same shape the catalog stores and the vault layout embeds.
type SaveAdapter struct {
	game string
	ext  string

	// mutation context
	mu     sync.RWMutex
	store  CatalogStore
	client storage.Client
	bucket string
	prefix string
}

// CatalogStore is the slice of the catalog service the write side needs.
type CatalogStore interface {
	DB() *gorm.DB
	Register(ctx context.Context, path, label, source string) (*models.SaveRecord, error)
	Remove(ctx context.Context, fileName string) error
	PathFor(rec *models.SaveRecord) string
}

// NewAdapter creates a new save adapter scoped to one game.
func NewAdapter(game, ext string) *SaveAdapter {
	return &SaveAdapter{
		game: game,
		ext:  ext,
	}
}

// Name returns the unique name of this adapter.
func (a *SaveAdapter) Name() string {
	return "saves"
}

// LocalSave is the disk-side item: one save file, stat data only. The
// checksum is computed lazily and cached because most reconciles never
// need it.
type LocalSave struct {
	Key     string
	Path    string
	Size    int64
	ModTime time.Time

	sumOnce sync.Once
	sum     string
	sumErr  error
}

// Checksum returns the file's sha256, hashing it on first use.
func (l *LocalSave) Checksum() (string, error) {
	l.sumOnce.Do(func() {
		l.sum, l.sumErr = savefile.Checksum(l.Path)
	})
	return l.sum, l.sumErr
}

// LoadCatalogIndex loads all catalog rows for the game, keyed by file name.
func (a *SaveAdapter) LoadCatalogIndex(ctx context.Context, db *gorm.DB) (map[string]reconcile.CatalogItem, error) {
	index := make(map[string]reconcile.CatalogItem)

	// Handle nil DB
	if db == nil {
		return index, nil
	}

	var records []models.SaveRecord
	err := db.WithContext(ctx).
		Where("game = ?", a.game).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog rows: %w", err)
	}

	for _, rec := range records {
		index[rec.FileName] = rec
	}

	return index, nil
}

// LoadLocalIndex walks the saves folder and returns every save file keyed
// by its relative path. The files are only stat'ed, never opened.
func (a *SaveAdapter) LoadLocalIndex(ctx context.Context, dir string) (map[string]reconcile.LocalItem, error) {
	index := make(map[string]reconcile.LocalItem)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A missing saves folder means an empty index, not a failure.
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return filepath.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), a.ext) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)

		index[key] = &LocalSave{
			Key:     key,
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk saves folder: %w", err)
	}

	return index, nil
}

// LoadVaultSet lists all vault objects under the prefix and returns the set
// of save keys found.
func (a *SaveAdapter) LoadVaultSet(ctx context.Context, client storage.Client, bucket, prefix, extension string) (map[string]struct{}, error) {
	set := make(map[string]struct{})

	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}

	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list vault objects: %w", obj.Err)
		}

		if key, ok := a.ExtractVaultKey(obj.Key, extension); ok {
			set[key] = struct{}{}
		}
	}

	return set, nil
}

// ExtractCatalogKey returns the save key from a catalog row.
func (a *SaveAdapter) ExtractCatalogKey(item reconcile.CatalogItem) string {
	return item.(models.SaveRecord).FileName
}

// ExtractLocalKey returns the save key from a disk item.
func (a *SaveAdapter) ExtractLocalKey(item reconcile.LocalItem) string {
	return item.(*LocalSave).Key
}

// ExtractVaultKey parses a vault object key of the form
// "<game>/saves/<file>" and returns the save key.
func (a *SaveAdapter) ExtractVaultKey(objectKey, extension string) (string, bool) {
	if !strings.HasSuffix(objectKey, extension) {
		return "", false
	}

	parts := strings.SplitN(objectKey, "/", 3)
	if len(parts) < 3 || parts[1] != "saves" || parts[2] == "" {
		return "", false
	}

	return parts[2], true
}

// ResolveName returns the display name for a save.
func (a *SaveAdapter) ResolveName(catalogItem reconcile.CatalogItem, localItem reconcile.LocalItem) string {
	if catalogItem != nil {
		return catalogItem.(models.SaveRecord).Title()
	}
	if localItem != nil {
		return localItem.(*LocalSave).Key
	}
	return ""
}

// CompareFields compares the catalog row against the file on disk. A size
// difference already proves drift, so the hash comparison only runs for
// files whose size still matches.
func (a *SaveAdapter) CompareFields(catalogItem reconcile.CatalogItem, localItem reconcile.LocalItem) []string {
	rec := catalogItem.(models.SaveRecord)
	loc := localItem.(*LocalSave)

	var mismatches []string

	if rec.Size != loc.Size {
		mismatches = append(mismatches, fmt.Sprintf("size: disk=%d catalog=%d", loc.Size, rec.Size))
		return mismatches
	}

	if rec.Sha256 != "" {
		if sum, err := loc.Checksum(); err == nil && sum != rec.Sha256 {
			mismatches = append(mismatches, fmt.Sprintf("sha256: disk=%s catalog=%s", short(sum), short(rec.Sha256)))
		}
	}

	return mismatches
}

// QueryCatalog performs a targeted catalog lookup by file name, then label.
func (a *SaveAdapter) QueryCatalog(ctx context.Context, db *gorm.DB, query reconcile.Query) (reconcile.CatalogItem, error) {
	if db == nil {
		return nil, nil
	}

	var rec models.SaveRecord

	if query.FileName != "" {
		err := db.WithContext(ctx).
			Where("game = ? AND file_name = ?", a.game, query.FileName).
			First(&rec).Error
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if query.Label != "" {
		err := db.WithContext(ctx).
			Where("game = ? AND label = ?", a.game, query.Label).
			First(&rec).Error
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, nil
}

// QueryLocal performs a targeted disk lookup by file name.
func (a *SaveAdapter) QueryLocal(ctx context.Context, dir string, query reconcile.Query) (reconcile.LocalItem, error) {
	if query.FileName == "" {
		return nil, nil
	}

	path := filepath.Join(dir, filepath.FromSlash(query.FileName))
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat save: %w", err)
	}
	if info.IsDir() {
		return nil, nil
	}

	return &LocalSave{
		Key:     query.FileName,
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// CheckVault checks whether a single save exists in the vault.
func (a *SaveAdapter) CheckVault(ctx context.Context, client storage.Client, bucket, prefix, extension, key string) (bool, error) {
	_, err := client.StatObject(ctx, bucket, objectKey(prefix, key), minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat vault object: %w", err)
	}
	return true, nil
}

// GetMetadata returns display metadata for a save.
func (a *SaveAdapter) GetMetadata(catalogItem reconcile.CatalogItem, localItem reconcile.LocalItem) map[string]string {
	meta := make(map[string]string)

	if catalogItem != nil {
		rec := catalogItem.(models.SaveRecord)
		if rec.Character != "" {
			meta["character"] = rec.Character
		}
		if rec.Scene != "" {
			meta["scene"] = rec.Scene
		}
		if rec.Source != "" {
			meta["source"] = rec.Source
		}
	}

	if localItem != nil {
		loc := localItem.(*LocalSave)
		meta["modified"] = loc.ModTime.Format(time.RFC3339)
	}

	return meta
}

// objectKey joins the vault prefix and a save key.
func objectKey(prefix, key string) string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + key
}

// short abbreviates a sha256 for mismatch messages.
func short(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
