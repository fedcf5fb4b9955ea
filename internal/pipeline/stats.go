package pipeline

import "github.com/blobcast/blobcast/internal/ledger"

// RunStats summarizes one pipeline run for the final report.
type RunStats struct {
	Renditions    int
	Segments      int
	Manifests     int // sub-manifests plus master
	BytesUploaded int64
	MasterURL     string
	Record        *ledger.Record // nil unless a ledger record was published
}
