package objstore

import "context"

// Storage is the binary object storage consumed by the photo features.
// Documents persist the stable path, never the ephemeral download URL,
// which may be signed and short-lived depending on the backend.
type Storage interface {
	Upload(ctx context.Context, path string, data []byte) error
	DownloadURL(ctx context.Context, path string) (string, error)
}
