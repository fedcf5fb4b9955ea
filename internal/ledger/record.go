// Package ledger publishes video records to the distributed ledger via its
// CLI. A record is created once, shared on creation, and never mutated.
package ledger

// Record is the on-ledger object created for a published stream.
type Record struct {
	ID          string // object ID issued by the ledger
	Title       string
	Description string
	ManifestURL string
	CreatedAtMs int64 // network epoch time in milliseconds
}
