// Package spa serves a single-page application from an embedded, read-only
// asset set: exact file lookups with content-derived ETags, and an index
// document fallback so client-side routes still load the application shell.
package spa

import (
	"crypto/sha256"
	"io/fs"
	"sync"
)

// Asset is one embedded file together with its content hash.
type Asset struct {
	Data []byte
	// Hash is the SHA-256 digest of Data.
	Hash []byte
}

// Provider looks up embedded assets by relative path. The namespace is fixed
// when the binary is built and never mutated afterwards, so implementations
// must be safe for unbounded concurrent readers.
type Provider interface {
	Get(path string) (Asset, bool)
}

// FSProvider adapts any fs.FS (typically an embed.FS subtree) into a
// Provider. Hashes are computed on first access and cached for the process
// lifetime, which is sound because the underlying set is immutable.
type FSProvider struct {
	fsys fs.FS

	mu    sync.RWMutex
	cache map[string]Asset
}

// NewFS returns a Provider backed by fsys.
func NewFS(fsys fs.FS) *FSProvider {
	return &FSProvider{fsys: fsys, cache: make(map[string]Asset)}
}

// Get reads and hashes the file at path. Directories and unreadable entries
// report a miss.
func (p *FSProvider) Get(path string) (Asset, bool) {
	p.mu.RLock()
	a, ok := p.cache[path]
	p.mu.RUnlock()
	if ok {
		return a, true
	}

	data, err := fs.ReadFile(p.fsys, path)
	if err != nil {
		return Asset{}, false
	}
	sum := sha256.Sum256(data)
	a = Asset{Data: data, Hash: sum[:]}

	p.mu.Lock()
	p.cache[path] = a
	p.mu.Unlock()
	return a, true
}
