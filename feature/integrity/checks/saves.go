package checks

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cogsaver/core/savefile"
	"cogsaver/feature/catalog"
)

// SavesReport is the result of scanning the saves folder for damage.
type SavesReport struct {
	Scanned          int      `json:"scanned"`
	Unparsable       []string `json:"unparsable"`
	Drifted          []string `json:"drifted"`
	Uncataloged      []string `json:"uncataloged"`
	CatalogAvailable bool     `json:"catalog_available"`
	Healthy          bool     `json:"healthy"`
}

// CheckSaves verifies that every save in the saves folder still parses as
// a CoG state and, when the catalog is available, that its content still
// matches the recorded checksum. Files the catalog has never seen are
// listed separately; a rescan registers them.
func CheckSaves(ctx context.Context, cfg savefile.Config, store *catalog.Service) (*SavesReport, error) {
	if !cfg.Selected() {
		return nil, savefile.ErrNoGame
	}

	report := &SavesReport{
		Unparsable:       []string{},
		Drifted:          []string{},
		Uncataloged:      []string{},
		CatalogAvailable: store != nil && store.Ready(),
	}

	root := cfg.SavesPath()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), cfg.SaveExt) {
			return nil
		}

		report.Scanned++
		key := keyFor(cfg, path)

		raw, err := os.ReadFile(path)
		if err != nil {
			report.Unparsable = append(report.Unparsable, key)
			return nil
		}
		if _, err := savefile.ExtractState(raw); err != nil {
			report.Unparsable = append(report.Unparsable, key)
			return nil
		}

		if !report.CatalogAvailable {
			return nil
		}

		rec, err := store.Get(ctx, key)
		if err != nil {
			return err
		}
		if rec == nil {
			report.Uncataloged = append(report.Uncataloged, key)
			return nil
		}
		if rec.Sha256 != "" {
			sum, err := savefile.Checksum(path)
			if err != nil {
				report.Unparsable = append(report.Unparsable, key)
				return nil
			}
			if sum != rec.Sha256 {
				report.Drifted = append(report.Drifted, key)
			}
		}

		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			// No saves folder means nothing to scan, not damage.
			report.Healthy = true
			return report, nil
		}
		return nil, fmt.Errorf("failed to scan saves folder: %w", err)
	}

	report.Healthy = len(report.Unparsable) == 0 && len(report.Drifted) == 0
	return report, nil
}

func keyFor(cfg savefile.Config, path string) string {
	rel, err := filepath.Rel(cfg.SavesPath(), path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
