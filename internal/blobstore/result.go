package blobstore

import (
	"encoding/json"
	"fmt"
)

// --- store CLI JSON wire types ---
//
// The batch-store subcommand emits one record per input file:
//
//	[{"path": "...", "blobStoreResult": {"alreadyCertified": {"blobId": "..."}}},
//	 {"path": "...", "blobStoreResult": {"newlyCreated": {"blobObject": {"blobId": "..."}}}}]

type storeRecord struct {
	Path   string      `json:"path"`
	Result storeResult `json:"blobStoreResult"`
}

type storeResult struct {
	AlreadyCertified *certifiedBlob `json:"alreadyCertified"`
	NewlyCreated     *createdBlob   `json:"newlyCreated"`
}

type certifiedBlob struct {
	BlobID string `json:"blobId"`
}

type createdBlob struct {
	BlobObject blobObject `json:"blobObject"`
}

type blobObject struct {
	BlobID string `json:"blobId"`
}

// blobID resolves the identifier, preferring the already-certified variant.
// Empty means neither variant was present.
func (r *storeRecord) blobID() string {
	if r.Result.AlreadyCertified != nil && r.Result.AlreadyCertified.BlobID != "" {
		return r.Result.AlreadyCertified.BlobID
	}
	if r.Result.NewlyCreated != nil {
		return r.Result.NewlyCreated.BlobObject.BlobID
	}
	return ""
}

// parseStoreOutput decodes the CLI's stdout into result records.
func parseStoreOutput(out []byte) ([]storeRecord, error) {
	var records []storeRecord
	if err := json.Unmarshal(out, &records); err != nil {
		return nil, fmt.Errorf("%w: parse store output: %v", ErrUploadFailed, err)
	}
	return records, nil
}
