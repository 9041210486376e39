// Package storage keeps product images on local disk or in an S3 bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	nanoid "github.com/jaevor/go-nanoid"
)

// ImageStore stores product images and returns the public URL written to image_url
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
	// Delete removes the object behind a URL previously returned by Save. Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
}

// NameGenerator returns unique object names that keep the upload's extension
type NameGenerator struct {
	next func() string
}

func NewNameGenerator() (*NameGenerator, error) {
	gen, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("create id generator: %w", err)
	}
	return &NameGenerator{next: gen}, nil
}

// Name returns a fresh name ending in the lower-cased extension of filename
func (g *NameGenerator) Name(filename string) string {
	return g.next() + strings.ToLower(filepath.Ext(filename))
}
