package pdfpng

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Ref is a transient, locally resolvable handle to in-memory binary data.
// It must be released exactly once through the [RefStore] that minted it.
type Ref struct {
	ID   uuid.UUID
	Name string
	// URL resolves the data for previews: "blob:pdfpng/<id>" for
	// [MemRefs], a file:// URL for [TempRefs].
	URL string
}

// IsZero reports whether r was never minted.
func (r Ref) IsZero() bool {
	return r.ID == uuid.Nil
}

// RefStore mints and releases transient references.
type RefStore interface {
	Mint(name string, data []byte) (Ref, error)
	Open(ref Ref) (io.ReadCloser, error)
	Release(ref Ref) error
	// Live returns the number of minted, unreleased references.
	Live() int
}

// MemRefs keeps referenced data in memory. The zero value is ready to use.
type MemRefs struct {
	mu   sync.Mutex
	data map[uuid.UUID][]byte
}

// NewMemRefs returns an empty in-memory store.
func NewMemRefs() *MemRefs {
	return &MemRefs{}
}

func (m *MemRefs) Mint(name string, data []byte) (Ref, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[uuid.UUID][]byte)
	}
	id := uuid.New()
	m.data[id] = data
	return Ref{ID: id, Name: name, URL: "blob:pdfpng/" + id.String()}, nil
}

func (m *MemRefs) Open(ref Ref) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[ref.ID]
	if !ok {
		return nil, ErrRefReleased
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemRefs) Release(ref Ref) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[ref.ID]; !ok {
		return ErrRefReleased
	}
	delete(m.data, ref.ID)
	return nil
}

func (m *MemRefs) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// TempRefs spools referenced data to files under a private temporary
// directory so that other local programs can open previews by URL.
//
// Call [TempRefs.Close] to remove the directory and anything left in it.
type TempRefs struct {
	dir string

	mu   sync.Mutex
	live map[uuid.UUID]string
}

// NewTempRefs creates the backing directory inside parent, or inside the
// system temporary directory when parent is empty.
func NewTempRefs(parent string) (*TempRefs, error) {
	dir, err := os.MkdirTemp(parent, "pdfpng-refs-*")
	if err != nil {
		return nil, fmt.Errorf("pdfpng: creating reference directory: %w", err)
	}
	return &TempRefs{dir: dir, live: make(map[uuid.UUID]string)}, nil
}

// Dir returns the backing directory.
func (t *TempRefs) Dir() string {
	return t.dir
}

func (t *TempRefs) Mint(name string, data []byte) (Ref, error) {
	id := uuid.New()
	path := filepath.Join(t.dir, id.String()+"-"+filepath.Base(name))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return Ref{}, fmt.Errorf("pdfpng: writing reference: %w", err)
	}

	t.mu.Lock()
	t.live[id] = path
	t.mu.Unlock()

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return Ref{ID: id, Name: name, URL: u.String()}, nil
}

func (t *TempRefs) Open(ref Ref) (io.ReadCloser, error) {
	t.mu.Lock()
	path, ok := t.live[ref.ID]
	t.mu.Unlock()
	if !ok {
		return nil, ErrRefReleased
	}
	return os.Open(path)
}

func (t *TempRefs) Release(ref Ref) error {
	t.mu.Lock()
	path, ok := t.live[ref.ID]
	delete(t.live, ref.ID)
	t.mu.Unlock()
	if !ok {
		return ErrRefReleased
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("pdfpng: releasing reference: %w", err)
	}
	return nil
}

func (t *TempRefs) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// Close removes the backing directory. Close is idempotent.
func (t *TempRefs) Close() error {
	t.mu.Lock()
	t.live = make(map[uuid.UUID]string)
	t.mu.Unlock()
	return os.RemoveAll(t.dir)
}
