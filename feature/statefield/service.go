package statefield

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cogsaver/core/savefile"
	"cogsaver/core/utils"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

// ErrFieldNotFound is returned when a gjson path matches nothing in the
// save state.
var ErrFieldNotFound = errors.New("no such field in save state")

// Snapshotter backs up the live save before an edit lands.
type Snapshotter interface {
	Snapshot(ctx context.Context, reason string) (string, error)
}

// Field is one addressable value inside the state document.
type Field struct {
	Path  string `json:"path"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// View is the Show result: the decoded summary plus the stats table.
type View struct {
	Character string  `json:"character,omitempty"`
	Scene     string  `json:"scene,omitempty"`
	Line      int64   `json:"line"`
	Version   string  `json:"version,omitempty"`
	Fields    []Field `json:"fields"`
}

// SetOptions tune how Set interprets its value and unknown paths.
type SetOptions struct {
	// ForceString skips scalar coercion so "42" can stay text.
	ForceString bool
	// Create allows writing a path that does not exist yet.
	Create bool
}

// Service reads and edits state fields in the selected game's live save.
type Service struct {
	cfg    savefile.Config
	snap   Snapshotter
	logger *zap.Logger
}

// NewService builds the state editor. snap may be nil, in which case edits
// proceed without a safety snapshot.
func NewService(cfg savefile.Config, snap Snapshotter, logger *zap.Logger) *Service {
	return &Service{cfg: cfg, snap: snap, logger: logger}
}

// Show decodes the live save and renders its summary together with every
// field under the stats object.
func (s *Service) Show(ctx context.Context) (*View, error) {
	_, state, _, _, err := s.load()
	if err != nil {
		return nil, err
	}

	sum := savefile.Summarize(state)
	view := &View{
		Character: sum.Character,
		Scene:     sum.Scene,
		Line:      sum.Line,
		Version:   sum.Version,
		Fields:    []Field{},
	}

	if stats := gjson.GetBytes(state, "stats"); stats.IsObject() {
		flatten("stats", stats, &view.Fields)
	}

	return view, nil
}

// Get looks up a single gjson path in the live save's state.
func (s *Service) Get(ctx context.Context, path string) (*Field, error) {
	_, state, _, _, err := s.load()
	if err != nil {
		return nil, err
	}

	v := gjson.GetBytes(state, path)
	if !v.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, path)
	}

	return fieldAt(path, v), nil
}

// Set writes one path in the state and persists the save atomically. The
// raw value is coerced to bool/int/float where it parses as one unless
// opts.ForceString is set. Paths absent from the state are rejected unless
// opts.Create is set.
func (s *Service) Set(ctx context.Context, path, raw string, opts SetOptions) (*Field, error) {
	full, state, start, end, err := s.load()
	if err != nil {
		return nil, err
	}

	if !gjson.GetBytes(state, path).Exists() && !opts.Create {
		return nil, fmt.Errorf("%w: %s (re-run with create to add it)", ErrFieldNotFound, path)
	}

	value := utils.CoerceScalar(raw, opts.ForceString)
	next, err := sjson.SetBytes(state, path, value)
	if err != nil {
		return nil, fmt.Errorf("failed to set %s: %w", path, err)
	}

	if err := s.persist(ctx, full, start, end, next); err != nil {
		return nil, err
	}

	s.logger.Info("State field written",
		zap.String("path", path),
		zap.Any("value", value),
	)
	return fieldAt(path, gjson.GetBytes(next, path)), nil
}

// Unset deletes one path from the state and persists the save atomically.
func (s *Service) Unset(ctx context.Context, path string) error {
	full, state, start, end, err := s.load()
	if err != nil {
		return err
	}

	if !gjson.GetBytes(state, path).Exists() {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, path)
	}

	next, err := sjson.DeleteBytes(state, path)
	if err != nil {
		return fmt.Errorf("failed to unset %s: %w", path, err)
	}

	if err := s.persist(ctx, full, start, end, next); err != nil {
		return err
	}

	s.logger.Info("State field removed", zap.String("path", path))
	return nil
}

// load reads the live save and locates the JSON window inside it.
func (s *Service) load() (full, state []byte, start, end int, err error) {
	if !s.cfg.Selected() {
		return nil, nil, 0, 0, savefile.ErrNoGame
	}

	full, err = os.ReadFile(s.cfg.SaveLocation)
	if err != nil {
		return nil, nil, 0, 0, fmt.Errorf("failed to read save: %w", err)
	}

	start, end, err = savefile.StateWindow(full)
	if err != nil {
		return nil, nil, 0, 0, err
	}

	return full, full[start:end], start, end, nil
}

// persist splices the rewritten state between the original framing bytes
// and replaces the live save through a same-directory rename.
func (s *Service) persist(ctx context.Context, full []byte, start, end int, state []byte) error {
	if s.snap != nil {
		if _, err := s.snap.Snapshot(ctx, "pre-edit"); err != nil {
			s.logger.Warn("Snapshot before edit failed, writing anyway", zap.Error(err))
		}
	}

	out := make([]byte, 0, start+len(state)+(len(full)-end))
	out = append(out, full[:start]...)
	out = append(out, state...)
	out = append(out, full[end:]...)

	live := s.cfg.SaveLocation
	mode := os.FileMode(0o644)
	if info, err := os.Stat(live); err == nil {
		mode = info.Mode()
	}

	tmp, err := os.CreateTemp(filepath.Dir(live), ".cogsaver-edit-*")
	if err != nil {
		return fmt.Errorf("failed to stage edit: %w", err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("failed to stage edit: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to stage edit: %w", err)
	}

	if err := os.Chmod(name, mode); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to stage edit: %w", err)
	}
	if err := os.Rename(name, live); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to replace save: %w", err)
	}

	return nil
}

// flatten walks an object depth-first, emitting one row per leaf with its
// full dotted path. Arrays stay as single raw rows so the table does not
// explode into index paths.
func flatten(prefix string, v gjson.Result, out *[]Field) {
	if v.IsObject() {
		v.ForEach(func(key, child gjson.Result) bool {
			flatten(prefix+"."+key.Str, child, out)
			return true
		})
		return
	}

	*out = append(*out, *fieldAt(prefix, v))
}

func fieldAt(path string, v gjson.Result) *Field {
	f := &Field{Path: path, Type: kindOf(v)}
	switch {
	case v.IsObject() || v.IsArray():
		f.Value = v.Raw
	case v.Type == gjson.Null:
		f.Value = "null"
	default:
		f.Value = utils.ToString(v.Value())
	}
	return f
}

func kindOf(v gjson.Result) string {
	switch {
	case v.IsObject():
		return "object"
	case v.IsArray():
		return "array"
	case v.Type == gjson.String:
		return "string"
	case v.Type == gjson.Number:
		return "number"
	case v.Type == gjson.True || v.Type == gjson.False:
		return "bool"
	case v.Type == gjson.Null:
		return "null"
	default:
		return "unknown"
	}
}
