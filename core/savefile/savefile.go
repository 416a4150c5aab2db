package savefile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotPSState is returned when a selected file fails the live-save name rule.
var ErrNotPSState = errors.New("file name does not end with PSstate")

// ErrNoGame is returned by operations that need a selected live save when
// none has been picked yet.
var ErrNoGame = errors.New("no game selected")

// SelectHint explains where the live save lives. It is shown whenever a
// selection is rejected.
const SelectHint = "pick the storePS<gamename>PSstate file, usually found in " +
	`Steam/userdata/<yourSteamID#>/<SteamGame#>/remote`

// Validate checks that path points at a usable live save: it must exist, be a
// regular file and, unless strict checking is disabled, carry the PSstate
// suffix the engine uses for its persistent slot.
func Validate(path string, strict bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("inspecting save file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	if strict && !strings.HasSuffix(filepath.Base(path), "PSstate") {
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrNotPSState)
	}

	return nil
}

// Copy duplicates src into dst, preserving the source's modification time.
// The copy is written to a temp file in dst's directory and renamed into
// place, so a failed copy never leaves a truncated save behind.
func Copy(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".cogsaver-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("flushing copy: %w", err)
	}

	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting mode: %w", err)
	}
	if err := os.Chtimes(tmpName, time.Now(), info.ModTime()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("preserving mtime: %w", err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", dst, err)
	}

	return nil
}

// Checksum returns the hex encoded SHA-256 digest of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
