package savefile

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrStateNotFound is returned when no state object can be located in a save.
var ErrStateNotFound = errors.New("no serialized state object found in save")

// NameStamp is the timestamp layout embedded in suggested save names.
const NameStamp = "06.01.02 15.04"

// Summary is the human-relevant slice of a decoded save state.
type Summary struct {
	// Character is the player character's name, when the state records one.
	Character string
	// Scene is the scene the save sits in.
	Scene string
	// Line is the line number within the scene.
	Line int64
	// Version is the engine version string stored with the state.
	Version string
}

// StateWindow reports the byte range [start, end) of the serialized JSON
// state inside a raw save file. Editors use it to splice a rewritten state
// back between the surrounding framing bytes untouched.
func StateWindow(raw []byte) (start, end int, err error) {
	start = bytes.IndexByte(raw, '{')
	last := bytes.LastIndexByte(raw, '}')
	if start < 0 || last <= start {
		return 0, 0, ErrStateNotFound
	}

	end = last + 1
	if !gjson.ValidBytes(raw[start:end]) {
		return 0, 0, ErrStateNotFound
	}

	return start, end, nil
}

// ExtractState locates the serialized JSON state inside a raw save file.
// Engine builds wrap the object in varying amounts of storage framing, so
// everything outside the outermost braces is ignored.
func ExtractState(raw []byte) ([]byte, error) {
	start, end, err := StateWindow(raw)
	if err != nil {
		return nil, err
	}

	return raw[start:end], nil
}

// Summarize pulls the display fields out of a state object. Absent fields
// stay at their zero values.
func Summarize(state []byte) Summary {
	var s Summary

	for _, path := range []string{"stats.name", "stats.firstname", "name", "firstname"} {
		if v := gjson.GetBytes(state, path); v.Type == gjson.String && v.Str != "" {
			s.Character = v.Str
			break
		}
	}

	for _, path := range []string{"sceneName", "stats.sceneName"} {
		if v := gjson.GetBytes(state, path); v.Type == gjson.String && v.Str != "" {
			s.Scene = v.Str
			break
		}
	}

	s.Line = gjson.GetBytes(state, "lineNum").Int()
	s.Version = gjson.GetBytes(state, "version").String()

	return s
}

// Describe reads and summarizes the save at path. It is deliberately
// forgiving: unreadable or unparsable files yield an empty summary, because
// callers only use the result to decorate names and listings.
func Describe(path string) Summary {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Summary{}
	}

	state, err := ExtractState(raw)
	if err != nil {
		return Summary{}
	}

	return Summarize(state)
}

// SuggestName builds the default label for a new save:
// "<character> <yy.mm.dd HH.MM> <scene>", with absent parts omitted.
// The timestamp is always present.
func SuggestName(sum Summary, now time.Time) string {
	parts := make([]string, 0, 3)
	if sum.Character != "" {
		parts = append(parts, sum.Character)
	}
	parts = append(parts, now.Format(NameStamp))
	if sum.Scene != "" {
		parts = append(parts, sum.Scene)
	}

	return SanitizeName(strings.Join(parts, " "))
}

// SanitizeName strips characters that cannot appear in file names on the
// platforms the engine ships to. Path separators and Windows-reserved
// punctuation become dashes.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, name)
}
