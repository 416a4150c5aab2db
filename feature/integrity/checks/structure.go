package checks

import (
	"fmt"
	"os"

	"cogsaver/core/savefile"

	"go.uber.org/zap"
)

// Symbolic names for the pieces of the slot layout. They double as keys in
// check reports and in the missing/fixed lists.
const (
	PieceSaves     = "saves"
	PieceAutosaves = "saves/auto"
	PieceQuicksave = "quicksave"
	PieceCatalog   = "catalog"
)

// CheckStructure returns the pieces of the slot layout that are missing
// around the live save. The live save itself is a precondition: when it
// cannot be read, the check fails outright.
func CheckStructure(cfg savefile.Config, catalogReady bool) ([]string, error) {
	if !cfg.Selected() {
		return nil, savefile.ErrNoGame
	}

	if _, err := os.ReadFile(cfg.SaveLocation); err != nil {
		return nil, fmt.Errorf("live save is not readable: %w", err)
	}

	var missing []string

	if info, err := os.Stat(cfg.SavesPath()); err != nil || !info.IsDir() {
		missing = append(missing, PieceSaves)
	}
	if info, err := os.Stat(cfg.AutosavePath()); err != nil || !info.IsDir() {
		missing = append(missing, PieceAutosaves)
	}
	if _, err := os.Stat(cfg.QuicksavePath()); err != nil {
		missing = append(missing, PieceQuicksave)
	}
	if !catalogReady {
		missing = append(missing, PieceCatalog)
	}

	return missing, nil
}

// FixStructure creates the missing folders and reports what it actually
// fixed. The quicksave slot and the catalog are not creatable here: the
// first needs a quicksave, the second a restart with a working database.
func FixStructure(cfg savefile.Config, logger *zap.Logger, missing []string) ([]string, error) {
	var fixed []string

	for _, piece := range missing {
		var dir string
		switch piece {
		case PieceSaves:
			dir = cfg.SavesPath()
		case PieceAutosaves:
			dir = cfg.AutosavePath()
		default:
			logger.Info("Piece cannot be created by the fixer, skipping", zap.String("piece", piece))
			continue
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("Failed to create folder", zap.String("folder", dir), zap.Error(err))
			return fixed, err
		}
		logger.Info("Created missing folder", zap.String("folder", dir))
		fixed = append(fixed, piece)
	}

	return fixed, nil
}
