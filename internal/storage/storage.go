package storage

import (
	"context"
	"time"
)

// BlobStore is the slice of the object store the drive depends on.
type BlobStore interface {
	Delete(ctx context.Context, key string) error
	PresignedPutURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
