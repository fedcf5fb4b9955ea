package blobstore

import "strings"

// Mapping associates asset file paths (relative to the output root) with the
// opaque blob identifiers issued by the storage network. It is built
// incrementally across the pipeline's upload batches; entries are never
// removed within one run.
type Mapping map[string]string

// Merge copies every entry of other into m.
func (m Mapping) Merge(other Mapping) {
	for path, id := range other {
		m[path] = id
	}
}

// BlobURL returns the retrieval URL for a blob identifier on the given
// aggregator endpoint.
func BlobURL(aggregator, blobID string) string {
	return strings.TrimRight(aggregator, "/") + "/v1/blobs/" + blobID
}
