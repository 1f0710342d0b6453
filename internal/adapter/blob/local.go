package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores photo blobs on the local filesystem. Useful for
// single-machine deployments and tests; the durable-before-record
// contract is honored by fsyncing each blob before returning.
type Local struct {
	root    string
	baseURL string
}

// NewLocal creates a Local store rooted at dir. The directory is
// created (with parents) if it does not already exist. baseURL, when
// non-empty, is the public URL prefix for stored blobs; otherwise
// file:// URLs are returned.
func NewLocal(dir, baseURL string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Local{root: abs, baseURL: baseURL}, nil
}

func (l *Local) Put(_ context.Context, key string, r io.Reader) (string, error) {
	full := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(full)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", err
	}

	if l.baseURL != "" {
		return l.baseURL + "/" + key, nil
	}
	return fmt.Sprintf("file://%s", full), nil
}
