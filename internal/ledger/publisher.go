package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
)

var (
	// ErrPublishFailed is returned when the ledger CLI exits non-zero or its
	// output does not contain the created record.
	ErrPublishFailed = errors.New("ledger publish failed")

	// ErrInvalidManifestURL is returned when the reference string is not
	// syntactically a URL. Nothing beyond syntax is checked; the pipeline
	// already guarantees the blob exists.
	ErrInvalidManifestURL = errors.New("manifest reference is not a valid URL")
)

// recordTypeSuffix identifies the record object type in the CLI's
// object-changes output.
const recordTypeSuffix = "::video_records::VideoRecord"

// Publisher invokes the ledger CLI to create and share one record.
type Publisher struct {
	Bin       string // binary name or path, e.g. "sui"
	PackageID string // package holding the record contract
}

// NewPublisher returns a Publisher for the given binary and package.
func NewPublisher(bin, packageID string) *Publisher {
	return &Publisher{Bin: bin, PackageID: packageID}
}

// Publish creates one shared record carrying title, description, and the
// manifest URL, stamped with the current network time. The returned Record
// is terminal; nothing downstream consumes it beyond display.
func (p *Publisher) Publish(ctx context.Context, title, description, manifestURL string) (*Record, error) {
	u, err := url.Parse(manifestURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidManifestURL, manifestURL)
	}
	if p.PackageID == "" {
		return nil, fmt.Errorf("%w: no ledger package configured (set BLOBCAST_LEDGER_PACKAGE)", ErrPublishFailed)
	}

	cmd := exec.CommandContext(ctx, p.Bin, "client", "call",
		"--package", p.PackageID,
		"--module", "video_records",
		"--function", "create_and_share",
		"--args", title, description, manifestURL,
		"--json",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%w: %s: %v: %s", ErrPublishFailed, p.Bin, err, msg)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrPublishFailed, p.Bin, err)
	}

	id, createdAt, err := parseCallResult(out)
	if err != nil {
		return nil, err
	}

	return &Record{
		ID:          id,
		Title:       title,
		Description: description,
		ManifestURL: manifestURL,
		CreatedAtMs: createdAt,
	}, nil
}

// --- ledger CLI JSON wire types ---

type callResult struct {
	TimestampMs   string         `json:"timestampMs"`
	ObjectChanges []objectChange `json:"objectChanges"`
}

type objectChange struct {
	Type       string `json:"type"`
	ObjectType string `json:"objectType"`
	ObjectID   string `json:"objectId"`
}

// parseCallResult extracts the created record's object ID and the network
// timestamp from the CLI output.
func parseCallResult(out []byte) (string, int64, error) {
	var res callResult
	if err := json.Unmarshal(out, &res); err != nil {
		return "", 0, fmt.Errorf("%w: parse ledger output: %v", ErrPublishFailed, err)
	}

	var id string
	for _, ch := range res.ObjectChanges {
		if ch.Type == "created" && strings.HasSuffix(ch.ObjectType, recordTypeSuffix) {
			id = ch.ObjectID
			break
		}
	}
	if id == "" {
		return "", 0, fmt.Errorf("%w: no created record in ledger output", ErrPublishFailed)
	}

	createdAt, _ := strconv.ParseInt(res.TimestampMs, 10, 64)
	return id, createdAt, nil
}
