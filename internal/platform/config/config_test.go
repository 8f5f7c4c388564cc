package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, 11434, cfg.Port)
	assert.Equal(t, "default", cfg.VerificationCode)
	assert.True(t, cfg.Email.Enabled)
	assert.Equal(t, BackendYAML, cfg.Storage.Backend)
	assert.NotEmpty(t, cfg.Messages["success"])
}

func TestLoadBackfillsMessagesWithoutOverwriting(t *testing.T) {
	path := writeConfig(t, `
port: 9000
verification-code: sesame
messages:
  success: "<h1>custom</h1>"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "sesame", cfg.VerificationCode)
	// Explicit value survives, absent keys are back-filled.
	assert.Equal(t, "<h1>custom</h1>", cfg.Messages["success"])
	assert.Equal(t, defaultMessages["invalid_code"], cfg.Messages["invalid_code"])
	assert.Equal(t, defaultMessages["index_title"], cfg.Messages["index_title"])
}

func TestLoadNormalizesSuffixList(t *testing.T) {
	path := writeConfig(t, `
allowed-email-suffixes: [" @School.EDU ", "@school.edu", "@other.com", ""]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"@school.edu", "@other.com"}, cfg.AllowedEmailSuffixes)
}

func TestLoadEmailFlowCanBeDisabled(t *testing.T) {
	path := writeConfig(t, `
email:
  enabled: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Email.Enabled)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "port: [not a port")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestManagerReloadSwapsSnapshot(t *testing.T) {
	path := writeConfig(t, "port: 9000\n")
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	m, err := NewManager(path, logger)
	require.NoError(t, err)
	assert.Equal(t, 9000, m.Current().Port)

	require.NoError(t, os.WriteFile(path, []byte("port: 9100\n"), 0o644))
	cfg, err := m.Reload()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 9100, m.Current().Port)
}

func TestManagerReloadFailureKeepsOldSnapshot(t *testing.T) {
	path := writeConfig(t, "port: 9000\n")
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	m, err := NewManager(path, logger)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("port: [broken"), 0o644))
	_, err = m.Reload()
	assert.Error(t, err)
	assert.Equal(t, 9000, m.Current().Port)
}
