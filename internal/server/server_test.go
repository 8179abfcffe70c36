package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("home"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "posts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts", "index.html"), []byte("posts"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "a.txt"), []byte("a"), 0o644))

	h := NewHandler(dir)

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{name: "root", path: "/", wantCode: http.StatusOK, wantBody: "home"},
		{name: "directory with index", path: "/posts/", wantCode: http.StatusOK, wantBody: "posts"},
		{name: "directory without index", path: "/img/", wantCode: http.StatusNotFound},
		{name: "file", path: "/img/a.txt", wantCode: http.StatusOK, wantBody: "a"},
		{name: "missing", path: "/nope.html", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestHandler_DotDotStaysInsideDir(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "site")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "outside"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "outside", "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(parent, "outside"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "outside", "index.html"), []byte("secret"), 0o644))

	rec := httptest.NewRecorder()
	NewHandler(dir).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/../outside/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.NotContains(t, rec.Body.String(), "a.txt")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, NewHandler(t.TempDir()), zerolog.Nop()) }()

	require.Eventually(t, func() bool {
		conn, dialErr := net.Dial("tcp", addr)
		if dialErr != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	err = Serve(context.Background(), ln.Addr().String(), http.NotFoundHandler(), zerolog.Nop())
	assert.Error(t, err)
}

func TestWatcher_DebouncedRebuild(t *testing.T) {
	root := t.TempDir()
	var builds atomic.Int32

	w, err := NewWatcher([]string{root, filepath.Join(root, "missing")}, 200*time.Millisecond,
		func(context.Context) error {
			builds.Add(1)
			return nil
		}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for i := range 3 {
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte{byte('a' + i)}, 0o644))
	}

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), builds.Load())

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	var builds atomic.Int32

	w, err := NewWatcher([]string{root}, 50*time.Millisecond, func(context.Context) error {
		builds.Add(1)
		return nil
	}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	sub := filepath.Join(root, "posts")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.Eventually(t, func() bool { return builds.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	before := builds.Load()
	require.NoError(t, os.WriteFile(filepath.Join(sub, "new.md"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return builds.Load() > before }, 3*time.Second, 20*time.Millisecond)
}
