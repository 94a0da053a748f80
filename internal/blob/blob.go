// Package blob defines the contract the submission workflow expects
// from the external artifact store.
package blob

import "context"

// UploadResult is the durable reference returned by the media host.
// Both fields are set exactly once and never recomputed.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Store uploads raw bytes under a path-like namespace and returns a
// durable URL plus an opaque identifier.
type Store interface {
	Upload(ctx context.Context, content []byte, filename, namespace string) (UploadResult, error)
}
