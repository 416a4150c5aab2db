package backup

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cogsaver/core/savefile"
	"cogsaver/core/storage"
	"cogsaver/feature/catalog"
	"cogsaver/feature/catalog/models"
	catalogrec "cogsaver/feature/catalog/reconcile"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Entry is one backed-up save in the vault.
type Entry struct {
	Key      string    `json:"key"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Result summarizes a push or pull run.
type Result struct {
	Uploaded   []string `json:"uploaded,omitempty"`
	Downloaded []string `json:"downloaded,omitempty"`
	Skipped    int      `json:"skipped"`
}

// Service copies saves between the saves folder and the vault.
type Service struct {
	cfg    savefile.Config
	client storage.Client
	bucket string
	store  *catalog.Service
	logger *zap.Logger
}

// NewService builds the backup service. client may be nil when backups
// are disabled; every operation then returns storage.ErrDisabled. store
// may be nil, pulled saves are then not cataloged.
func NewService(cfg savefile.Config, client storage.Client, bucket string, store *catalog.Service, logger *zap.Logger) *Service {
	return &Service{
		cfg:    cfg,
		client: client,
		bucket: bucket,
		store:  store,
		logger: logger,
	}
}

// Enabled reports whether a vault client is configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// Push uploads saves the vault is missing or holds at a different size.
func (s *Service) Push(ctx context.Context) (*Result, error) {
	prefix, err := s.precheck()
	if err != nil {
		return nil, err
	}

	local, err := s.localIndex()
	if err != nil {
		return nil, err
	}
	remote, err := s.vaultIndex(ctx, prefix)
	if err != nil {
		return nil, err
	}

	result := &Result{Uploaded: []string{}}
	for _, key := range sortedKeys(local) {
		if obj, ok := remote[key]; ok && obj.Size == local[key].size {
			result.Skipped++
			continue
		}
		if err := s.upload(ctx, prefix, key, local[key].path); err != nil {
			return nil, err
		}
		result.Uploaded = append(result.Uploaded, key)
	}

	s.logger.Info("Vault push finished",
		zap.Int("uploaded", len(result.Uploaded)),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// Pull downloads saves the folder is missing. Local files are never
// overwritten: the saves folder stays the source of truth.
func (s *Service) Pull(ctx context.Context) (*Result, error) {
	prefix, err := s.precheck()
	if err != nil {
		return nil, err
	}

	remote, err := s.vaultIndex(ctx, prefix)
	if err != nil {
		return nil, err
	}

	result := &Result{Downloaded: []string{}}
	for _, key := range sortedObjectKeys(remote) {
		path := filepath.Join(s.cfg.SavesPath(), filepath.FromSlash(key))
		if _, err := os.Stat(path); err == nil {
			result.Skipped++
			continue
		}

		if err := s.download(ctx, prefix, key, path); err != nil {
			return nil, err
		}
		result.Downloaded = append(result.Downloaded, key)

		if s.store != nil && s.store.Ready() {
			if _, err := s.store.Register(ctx, path, "", models.SourceImport); err != nil {
				s.logger.Warn("Pulled save not cataloged", zap.String("key", key), zap.Error(err))
			}
		}
	}

	s.logger.Info("Vault pull finished",
		zap.Int("downloaded", len(result.Downloaded)),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// List returns every backed-up save for the selected game.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	prefix, err := s.precheck()
	if err != nil {
		return nil, err
	}

	remote, err := s.vaultIndex(ctx, prefix)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(remote))
	for _, key := range sortedObjectKeys(remote) {
		obj := remote[key]
		entries = append(entries, Entry{
			Key:      key,
			Size:     obj.Size,
			Modified: obj.LastModified,
		})
	}
	return entries, nil
}

func (s *Service) precheck() (string, error) {
	if s.client == nil {
		return "", storage.ErrDisabled
	}
	if !s.cfg.Selected() {
		return "", savefile.ErrNoGame
	}
	return catalogrec.VaultPrefix(s.cfg.Game()), nil
}

type localFile struct {
	path string
	size int64
}

func (s *Service) localIndex() (map[string]localFile, error) {
	index := make(map[string]localFile)

	root := s.cfg.SavesPath()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
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
		index[filepath.ToSlash(rel)] = localFile{path: path, size: info.Size()}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to scan saves folder: %w", err)
	}

	return index, nil
}

func (s *Service) vaultIndex(ctx context.Context, prefix string) (map[string]minio.ObjectInfo, error) {
	index := make(map[string]minio.ObjectInfo)

	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: true}
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list vault: %w", obj.Err)
		}
		key := strings.TrimPrefix(obj.Key, prefix)
		if key == "" || !strings.HasSuffix(key, s.cfg.SaveExt) {
			continue
		}
		index[key] = obj
	}

	return index, nil
}

func (s *Service) upload(ctx context.Context, prefix, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", key, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", key, err)
	}

	opts := minio.PutObjectOptions{ContentType: "application/octet-stream"}
	if _, err := s.client.PutObject(ctx, s.bucket, prefix+key, f, info.Size(), opts); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return nil
}

func (s *Service) download(ctx context.Context, prefix, key, path string) error {
	obj, err := s.client.GetObject(ctx, s.bucket, prefix+key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	defer obj.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create folder for %s: %w", key, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", key, err)
	}
	if _, err := io.Copy(f, obj); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

func sortedKeys(m map[string]localFile) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedObjectKeys(m map[string]minio.ObjectInfo) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
