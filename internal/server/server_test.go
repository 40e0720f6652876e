package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) Config {
	t.Helper()
	root := t.TempDir()
	public := filepath.Join(root, "public")
	require.NoError(t, os.MkdirAll(public, 0755))
	files := map[string]string{
		"index.html":       "<title>viewer</title>",
		"pose-system.html": "<title>pose</title>",
		"debug.html":       "<title>debug</title>",
		"main.js":          "console.log('hi')",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(public, name), []byte(body), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "figure.glb"), []byte("glTF\x02\x00\x00\x00"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("API_KEY=secret"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(public, ".hidden"), []byte("hidden"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "config"), []byte("[core]"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(public, "docs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(public, "docs", "index.html"), []byte("docs"), 0644))
	return Config{PublicDir: public, ModelsDir: root}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	h := Handler(fixture(t), slog.New(slog.DiscardHandler))

	cases := []struct {
		path, body string
	}{
		{"/", "<title>viewer</title>"},
		{"/pose-system", "<title>pose</title>"},
		{"/debug", "<title>debug</title>"},
		{"/main.js", "console.log('hi')"},
	}
	for _, c := range cases {
		rec := get(t, h, c.path)
		assert.Equal(t, http.StatusOK, rec.Code, c.path)
		assert.Equal(t, c.body, rec.Body.String(), c.path)
	}
}

func TestModelsServedFromRoot(t *testing.T) {
	h := Handler(fixture(t), nil)
	rec := get(t, h, "/models/figure.glb")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "model/gltf-binary", rec.Header().Get("Content-Type"))
	assert.Equal(t, "glTF\x02\x00\x00\x00", rec.Body.String())
}

func TestNotFound(t *testing.T) {
	h := Handler(fixture(t), nil)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/nope.js").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/models/missing.glb").Code)
}

func TestHidesDotfilesAndListings(t *testing.T) {
	h := Handler(fixture(t), nil)
	for _, path := range []string{"/models/.env", "/.hidden", "/models/", "/models/.git/config"} {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.NotContains(t, rec.Body.String(), "secret", path)
	}

	rec := get(t, h, "/docs/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "docs", rec.Body.String())
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(ln.Addr().String(), Handler(fixture(t), nil), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/debug"
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(url)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "<title>debug</title>", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":3000", Addr("3000"))
	assert.Equal(t, "localhost:80", displayAddr(&net.TCPAddr{Port: 80}))
}
