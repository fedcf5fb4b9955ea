package manifest

import (
	"fmt"
	"os"
)

// Temp-file names for rewritten manifests awaiting upload.
const (
	TempPlaylistName = "temp_playlist.m3u8"
	TempMasterName   = "temp_master.m3u8"
)

// WithTemp writes content to path, runs fn, and removes the file on every
// exit path, including when fn fails. The rewritten manifest exists on disk
// only for the duration of its upload.
func WithTemp(path string, content []byte, fn func() error) (err error) {
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write temp manifest %s: %w", path, err)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && err == nil {
			err = fmt.Errorf("remove temp manifest %s: %w", path, rmErr)
		}
	}()

	return fn()
}

// TempSet tracks a group of temp manifests that must exist simultaneously,
// such as the rewritten sub-manifests of one batch upload. Callers should
// defer Cleanup immediately after creating the set so the files are removed
// on failure paths too; Cleanup is idempotent.
type TempSet struct {
	paths []string
}

// Write creates one temp manifest and records it for cleanup.
func (s *TempSet) Write(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write temp manifest %s: %w", path, err)
	}
	s.paths = append(s.paths, path)
	return nil
}

// Cleanup removes every temp manifest written so far and returns the first
// removal error, if any.
func (s *TempSet) Cleanup() error {
	var first error
	for _, p := range s.paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && first == nil {
			first = fmt.Errorf("remove temp manifest %s: %w", p, err)
		}
	}
	s.paths = nil
	return first
}
