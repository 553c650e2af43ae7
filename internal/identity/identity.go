// Package identity issues the pseudo-random per-client token that stands
// in for authentication. The token is the sole authorization key for
// editing and deleting reviews, so it must be stable across sessions on
// the same machine.
package identity

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DefaultFileName is the single key held in durable local storage.
const DefaultFileName = "userId"

// Provider yields the acting client's identity token. It is injected
// into the store rather than read from ambient state so tests can
// substitute a fixed identity.
type Provider interface {
	UserID() string
}

// FileProvider persists the token in one small file, the desktop analog
// of a browser's localStorage entry.
type FileProvider struct {
	path string

	mu     sync.Mutex
	cached string
}

// NewFileProvider stores the token at the given path. An empty path
// falls back to <user config dir>/reviewwall/userId.
func NewFileProvider(path string) *FileProvider {
	if path == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(dir, "reviewwall", DefaultFileName)
		}
	}
	return &FileProvider{path: path}
}

// UserID returns the persisted token, generating and saving one on first
// use. When storage is unavailable a fresh token is handed out per call;
// ownership checks degrade to permissive for that session, which beats
// refusing to work at all.
func (p *FileProvider) UserID() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached
	}

	if p.path != "" {
		if raw, err := os.ReadFile(p.path); err == nil {
			if tok := strings.TrimSpace(string(raw)); tok != "" {
				p.cached = tok
				return tok
			}
		}
	}

	tok := newToken()
	if p.path != "" {
		if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err == nil {
			if err := os.WriteFile(p.path, []byte(tok), 0o600); err == nil {
				p.cached = tok
			}
		}
	}
	return tok
}

// newToken does not need cryptographic strength, just enough entropy to
// avoid collisions among casual concurrent users.
func newToken() string {
	return "user_" + uuid.NewString()
}

// Static returns a provider with a fixed identity.
func Static(id string) Provider { return staticProvider(id) }

type staticProvider string

func (s staticProvider) UserID() string { return string(s) }
