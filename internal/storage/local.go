package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const productsDir = "products"

// LocalStore writes images below Dir/products and serves them under PublicPath
type LocalStore struct {
	Dir        string
	PublicPath string
}

func NewLocalStore(dir, publicPath string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, productsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{Dir: dir, PublicPath: strings.TrimRight(publicPath, "/")}, nil
}

func (s *LocalStore) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid object name %q", name)
	}

	dst := filepath.Join(s.Dir, productsDir, name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close image file: %w", err)
	}

	return path.Join(s.PublicPath, productsDir, name), nil
}

func (s *LocalStore) Delete(ctx context.Context, url string) error {
	prefix := path.Join(s.PublicPath, productsDir) + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}

	name := strings.TrimPrefix(url, prefix)
	if name == "" || name != filepath.Base(name) {
		return nil
	}

	err := os.Remove(filepath.Join(s.Dir, productsDir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}
