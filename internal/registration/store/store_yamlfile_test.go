package store

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emails.yml")
	ctx := context.Background()

	s := NewFile(path, testLogger())
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.Insert(ctx, "First@School.EDU"))
	require.NoError(t, s.Insert(ctx, "second@school.edu"))

	// A fresh store over the same file sees both normalized entries.
	reopened := NewFile(path, testLogger())
	require.NoError(t, reopened.Load(ctx))
	assert.Equal(t, 2, reopened.Size())

	ok, err := reopened.Contains(ctx, "first@school.edu")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileStoreDiskFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emails.yml")
	ctx := context.Background()

	s := NewFile(path, testLogger())
	require.NoError(t, s.Insert(ctx, "User@School.EDU"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Registered map[string]bool `yaml:"registered"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.True(t, doc.Registered["user@school.edu"])
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "absent.yml"), testLogger())
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 0, s.Size())
}

func TestFileStoreClearRewritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emails.yml")
	ctx := context.Background()

	s := NewFile(path, testLogger())
	require.NoError(t, s.Insert(ctx, "a@b.com"))
	require.NoError(t, s.Clear(ctx))

	reopened := NewFile(path, testLogger())
	require.NoError(t, reopened.Load(ctx))
	assert.Equal(t, 0, reopened.Size())
}

func TestFileStorePersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	// Unwritable path: persist fails but the in-memory set still answers.
	path := filepath.Join(t.TempDir(), "no-such-dir", "emails.yml")
	ctx := context.Background()

	s := NewFile(path, testLogger())
	require.NoError(t, s.Insert(ctx, "a@b.com"))

	ok, err := s.Contains(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, ok)
}
