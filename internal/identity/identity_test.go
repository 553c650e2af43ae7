package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProviderPersistsToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids", DefaultFileName)

	p := NewFileProvider(path)
	first := p.UserID()
	require.NotEmpty(t, first)
	assert.Contains(t, first, "user_")

	// Same provider hands back the cached value.
	assert.Equal(t, first, p.UserID())

	// A fresh provider reads the same token from disk: the identity
	// survives across sessions.
	again := NewFileProvider(path)
	assert.Equal(t, first, again.UserID())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, string(raw))
}

func TestFileProviderDegradesToFreshTokens(t *testing.T) {
	// The parent "directory" is a regular file, so persisting the token
	// cannot work. Each call then yields a new token instead of failing.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	path := filepath.Join(blocker, DefaultFileName)

	p := NewFileProvider(path)
	first := p.UserID()
	second := p.UserID()

	require.NotEmpty(t, first)
	require.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
}

func TestStaticProvider(t *testing.T) {
	assert.Equal(t, "fixed", Static("fixed").UserID())
}
