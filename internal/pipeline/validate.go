package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blobcast/blobcast/internal/config"
)

// Sentinel errors for source validation.
var (
	ErrSourceNotFound    = errors.New("source file not found")
	ErrUnsupportedFormat = errors.New("unsupported source format")
)

// ValidateSource checks that the input exists, is a regular file, and has
// the supported container extension. Extension matching is case-insensitive
// so Clip.MP4 passes.
func ValidateSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, path)
	}
	if !strings.EqualFold(filepath.Ext(path), config.SourceExt) {
		return fmt.Errorf("%w: %s (expected %s)", ErrUnsupportedFormat, path, config.SourceExt)
	}
	return nil
}
