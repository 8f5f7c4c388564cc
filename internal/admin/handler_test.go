package admin

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Traveler1145141/TRWhitelist/internal/platform/config"
	"github.com/Traveler1145141/TRWhitelist/internal/registration/store"
	adminmw "github.com/Traveler1145141/TRWhitelist/pkg/platform/middleware/admin"
)

const adminToken = "secret-token"

type adminFixture struct {
	router     http.Handler
	configPath string
	registered *store.InMemoryStore
	restart    chan struct{}
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9000\nadmin:\n  token: "+adminToken+"\n"), 0o644))

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	manager, err := config.NewManager(path, logger)
	require.NoError(t, err)

	registered := store.NewInMemory()
	restart := make(chan struct{}, 1)

	h := New(manager, registered, restart, logger)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(func() string { return manager.Current().Admin.Token }, logger))
		h.Register(r)
	})

	return &adminFixture{router: r, configPath: path, registered: registered, restart: restart}
}

func (f *adminFixture) post(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAdminTokenRequired(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.post(t, "/admin/reload", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.post(t, "/admin/reload", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReloadWithoutPortChange(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.post(t, "/admin/reload", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"port_changed":false`)
	assert.Empty(t, f.restart)
}

func TestReloadWithPortChangeSignalsRestart(t *testing.T) {
	f := newAdminFixture(t)
	require.NoError(t, os.WriteFile(f.configPath, []byte("port: 9100\nadmin:\n  token: "+adminToken+"\n"), 0o644))

	rec := f.post(t, "/admin/reload", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"port_changed":true`)
	assert.Len(t, f.restart, 1)
}

func TestReloadedAdminTokenTakesEffectImmediately(t *testing.T) {
	f := newAdminFixture(t)
	require.NoError(t, os.WriteFile(f.configPath, []byte("port: 9000\nadmin:\n  token: rotated\n"), 0o644))

	// The reload itself still authenticates with the old token.
	rec := f.post(t, "/admin/reload", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	// No rebind happened, yet the guard already enforces the new token.
	rec = f.post(t, "/admin/reload", adminToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.post(t, "/admin/reload", "rotated")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReloadFailureReports500(t *testing.T) {
	f := newAdminFixture(t)
	require.NoError(t, os.WriteFile(f.configPath, []byte("port: [broken"), 0o644))

	rec := f.post(t, "/admin/reload", adminToken)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestClearRegistrations(t *testing.T) {
	f := newAdminFixture(t)
	require.NoError(t, f.registered.Insert(context.Background(), "a@b.com"))

	rec := f.post(t, "/admin/clear-registrations", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, f.registered.Size())
}
