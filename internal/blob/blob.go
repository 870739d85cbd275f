package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Ref is a transient handle to bytes held by a Registry. The zero Ref is absent.
type Ref struct {
	ID          string
	ContentType string
	Size        int64
}

// IsZero reports whether r refers to nothing.
func (r Ref) IsZero() bool { return r.ID == "" }

// URI returns the blob: URI for r, or "" for the zero Ref.
func (r Ref) URI() string {
	if r.IsZero() {
		return ""
	}
	return "blob:" + r.ID
}

// Registry backs transient references with files in a private directory.
// Every Create must be paired with a Revoke; Live reports how many are
// outstanding.
type Registry struct {
	mu   sync.Mutex
	dir  string
	live map[string]string // ref ID -> file path
}

// NewRegistry creates a registry whose files live in a fresh directory under
// parent (os.TempDir when empty).
func NewRegistry(parent string) (*Registry, error) {
	dir, err := os.MkdirTemp(parent, "cvbuilder-blobs-")
	if err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &Registry{dir: dir, live: make(map[string]string)}, nil
}

// Create stores data and returns a reference to it.
func (r *Registry) Create(data []byte, contentType string) (Ref, error) {
	id := uuid.NewString()
	path := filepath.Join(r.dir, id)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return Ref{}, fmt.Errorf("write blob %s: %w", id, err)
	}

	r.mu.Lock()
	r.live[id] = path
	r.mu.Unlock()

	return Ref{ID: id, ContentType: contentType, Size: int64(len(data))}, nil
}

// Open returns a reader over a live reference.
func (r *Registry) Open(ref Ref) (io.ReadCloser, error) {
	r.mu.Lock()
	path, ok := r.live[ref.ID]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("blob %s: revoked or unknown", ref.ID)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", ref.ID, err)
	}
	return f, nil
}

// Revoke releases ref. Revoking twice, or revoking the zero Ref, is a no-op.
func (r *Registry) Revoke(ref Ref) {
	if ref.IsZero() {
		return
	}
	r.mu.Lock()
	path, ok := r.live[ref.ID]
	delete(r.live, ref.ID)
	r.mu.Unlock()
	if ok {
		os.Remove(path)
	}
}

// Live returns the number of references not yet revoked.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Close revokes everything and removes the backing directory.
func (r *Registry) Close() error {
	r.mu.Lock()
	r.live = make(map[string]string)
	r.mu.Unlock()
	return os.RemoveAll(r.dir)
}
