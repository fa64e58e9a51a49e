// Package storage abstracts the object store holding verification
// documents. The service layer only sees Put/Delete/PresignGet; the S3
// implementation lives in s3.go and an in-memory one in memory.go.
package storage

import (
	"context"
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the collaborator contract for document blobs.
type ObjectStore interface {
	// Put stores the object and returns its public URL.
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
