package interfaces

import "context"

// Uploader stores an opaque document and returns a stable public URL.
type Uploader interface {
	UploadBytes(ctx context.Context, folder string, filename string, b []byte) (string, error)
}
