package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"karangjaladri.id/mangrove-web/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.yml")
}

func TestCheckLocales(t *testing.T) {
	out, err := execute(t, "--config", missingConfig(t), "check", "locales")
	require.NoError(t, err)
	require.Contains(t, out, "dictionaries ok")
	require.Contains(t, out, "[id en]")
}

func TestCheckContent(t *testing.T) {
	out, err := execute(t, "--config", missingConfig(t), "check", "content")
	require.NoError(t, err)
	require.Contains(t, out, "content ok: 5 plants")
}

func TestCheckLocalesReportsDrift(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id.yaml"), []byte("nav:\n  home: Beranda\n  map: Peta\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte("nav:\n  home: Home\n"), 0o644))
	cfgPath := filepath.Join(t.TempDir(), "mangrove-web.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("locales:\n  dir: "+dir+"\n"), 0o644))

	_, err := execute(t, "--config", cfgPath, "check", "locales")
	require.Error(t, err)
	require.Contains(t, err.Error(), "nav.map")
}

func TestInvalidConfigIsRejected(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "mangrove-web.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("carousel:\n  interval: 0s\n"), 0o644))

	_, err := execute(t, "--config", cfgPath, "check", "content")
	require.Error(t, err)
	require.Contains(t, err.Error(), "carousel.interval")
}

func TestBuildServerServesEmbeddedSite(t *testing.T) {
	cfg := config.Default()
	cfg.Session.SigningKey = "test"

	srv, sessions, hub, err := buildServer(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(hub.Close)
	t.Cleanup(sessions.Close)
	require.Equal(t, ":8080", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `id="carousel"`)
	require.Equal(t, 1, sessions.Len())
}

func TestPublicDirServesMediaBesideEmbeddedAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "avicennia1.jpeg"), []byte("jpeg"), 0o644))
	cfg := config.Default()
	cfg.Public.Dir = dir
	require.NoError(t, cfg.Validate())

	srv, sessions, hub, err := buildServer(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(hub.Close)
	t.Cleanup(sessions.Close)

	for _, path := range []string{"/assets/app.js", "/images/avicennia1.jpeg"} {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestStrictLocalesFailStartup(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id.yaml"), []byte("a: x\nb: y\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte("a: x\n"), 0o644))
	cfg := config.Default()
	cfg.Locales.Dir = dir
	cfg.I18n.Strict = true

	_, _, _, err := buildServer(cfg, zap.NewNop())
	require.Error(t, err)
}
