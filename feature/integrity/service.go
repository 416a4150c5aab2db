package integrity

import (
	"context"

	"cogsaver/core/savefile"
	"cogsaver/core/storage"
	"cogsaver/feature/catalog"
	"cogsaver/feature/integrity/checks"

	"go.uber.org/zap"
)

// Service handles integrity checks.
type Service struct {
	cfg    savefile.Config
	store  *catalog.Service
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new integrity service. store may be nil or not
// ready and client may be nil; the corresponding checks degrade or report
// accordingly.
func NewService(cfg savefile.Config, store *catalog.Service, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		cfg:    cfg,
		store:  store,
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// CheckStructure returns the missing pieces of the slot layout.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(s.cfg, s.store != nil && s.store.Ready())
}

// FixStructure creates the missing folders and reports what it fixed.
func (s *Service) FixStructure(ctx context.Context, missing []string) ([]string, error) {
	return checks.FixStructure(s.cfg, s.logger, missing)
}

// CheckSaves scans the saves folder for unparsable or drifted files.
func (s *Service) CheckSaves(ctx context.Context) (*checks.SavesReport, error) {
	return checks.CheckSaves(ctx, s.cfg, s.store)
}

// CheckVault verifies the backup bucket is reachable and exists.
func (s *Service) CheckVault(ctx context.Context) (bool, error) {
	return checks.CheckVault(ctx, s.client, s.bucket)
}

// FixVault creates the backup bucket.
func (s *Service) FixVault(ctx context.Context) error {
	return checks.FixVault(ctx, s.client, s.bucket, s.logger)
}

// CheckCatalog verifies the catalog schema against the save record model.
func (s *Service) CheckCatalog() (*checks.CatalogReport, error) {
	if s.store == nil {
		return checks.CheckCatalogSchema(nil)
	}
	return checks.CheckCatalogSchema(s.store.DB())
}
