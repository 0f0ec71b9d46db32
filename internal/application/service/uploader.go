package service

import (
	"context"
	"io"
)

// Uploader stores an object remotely and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	// List returns the full public ids that start with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, publicID string) error
}
