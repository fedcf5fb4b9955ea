// Package blobstore wraps the storage network's CLI. A batch of files goes
// up in one invocation of the client binary; the structured stdout is parsed
// into a path-to-blob-identifier mapping.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
)

var (
	// ErrUploadFailed is returned when the store CLI exits non-zero or its
	// output is not parseable as the expected structured result.
	ErrUploadFailed = errors.New("blob upload failed")

	// ErrPartialMapping is returned when a result record carries neither
	// success variant. Dropping such records silently would later leave a
	// dangling local filename inside a published manifest, so the run fails
	// instead.
	ErrPartialMapping = errors.New("upload result missing blob identifier")
)

// Client invokes the storage network CLI.
type Client struct {
	Bin    string // binary name or path, e.g. "walrus"
	Epochs int    // retention period requested per upload
}

// NewClient returns a Client for the given binary and retention period.
func NewClient(bin string, epochs int) *Client {
	return &Client{Bin: bin, Epochs: epochs}
}

// Store uploads the given files (paths relative to root) in one batch call
// and returns a mapping from each relative path to its blob identifier.
// The identifier is resolved from the alreadyCertified variant when the
// blob pre-exists on the network, otherwise from newlyCreated.
func (c *Client) Store(ctx context.Context, root string, relPaths []string) (Mapping, error) {
	if len(relPaths) == 0 {
		return Mapping{}, nil
	}

	args := []string{"store", "--epochs", strconv.Itoa(c.Epochs), "--json"}
	byAbs := make(map[string]string, len(relPaths))
	for _, rel := range relPaths {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		byAbs[abs] = rel
		args = append(args, abs)
	}

	cmd := exec.CommandContext(ctx, c.Bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v%s", ErrUploadFailed, c.Bin, err, stderrSuffix(stderr.String()))
	}

	results, err := parseStoreOutput(out)
	if err != nil {
		return nil, err
	}

	mapping := make(Mapping, len(relPaths))
	for _, res := range results {
		rel, ok := byAbs[res.Path]
		if !ok {
			// The CLI normally echoes paths exactly as given; tolerate a
			// cleaned form before giving up.
			rel, ok = byAbs[filepath.Clean(res.Path)]
		}
		if !ok {
			return nil, fmt.Errorf("%w: unrequested path %q in result", ErrUploadFailed, res.Path)
		}

		id := res.blobID()
		if id == "" {
			return nil, fmt.Errorf("%w: %s", ErrPartialMapping, rel)
		}
		mapping[rel] = id
	}

	for _, rel := range relPaths {
		if _, ok := mapping[rel]; !ok {
			return nil, fmt.Errorf("%w: no result for %s", ErrPartialMapping, rel)
		}
	}

	return mapping, nil
}

func stderrSuffix(s string) string {
	if s == "" {
		return ""
	}
	return "\n" + s
}
