package policies

import "context"

// ArchivePort stores immutable documents and returns where they can be fetched.
type ArchivePort interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}
