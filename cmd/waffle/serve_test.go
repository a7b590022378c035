package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T) *app {
	t.Helper()
	featureRoot(t)
	a, err := newApp(context.Background(), &rootOptions{}, io.Discard, true)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	_, err = a.snapshot(context.Background())
	require.NoError(t, err)
	return a
}

func get(t *testing.T, h http.Handler, method, target string, v any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	if v != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
	}
	return rec
}

func TestRouter(t *testing.T) {
	a := testApp(t)
	h := newRouter(a, false)

	t.Run("health", func(t *testing.T) {
		rec := get(t, h, http.MethodGet, "/healthz", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

		rec = get(t, h, http.MethodGet, "/readyz", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("features", func(t *testing.T) {
		var body struct {
			Version  uint64        `json:"version"`
			Features []featureInfo `json:"features"`
		}
		rec := get(t, h, http.MethodGet, "/features", &body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, body.Features, 3)
		assert.Greater(t, body.Version, a.resolver.Snapshot().Version(), "per-request snapshot")
	})

	t.Run("resolve", func(t *testing.T) {
		var res resolution
		rec := get(t, h, http.MethodGet, "/resolve/method?key="+url.QueryEscape("Blog::title"), &res)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, resolution{Kind: "method", Key: "Blog::title", Target: "Blog::titleFeature1", Overridden: true}, res)

		rec = get(t, h, http.MethodGet, "/resolve/view?key=x", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("expand", func(t *testing.T) {
		var body struct {
			Paths []string `json:"paths"`
		}
		get(t, h, http.MethodGet, "/expand?pattern="+url.QueryEscape("app/views/blog/{:template}.html.tmpl"), &body)
		assert.Equal(t, []string{
			"app/views/features/blog/{:template}_Promo.html.tmpl",
			"app/views/blog/{:template}.html.tmpl",
		}, body.Paths)
	})

	t.Run("params", func(t *testing.T) {
		var body struct {
			Params  map[string]string `json:"params"`
			Changed bool              `json:"changed"`
		}
		get(t, h, http.MethodGet, "/params?controller=blog&template=show", &body)
		assert.False(t, body.Changed)
		assert.Equal(t, "show", body.Params["template"])
	})

	t.Run("locate", func(t *testing.T) {
		name := filepath.Join(a.settings.Root, "app", "views", "blog", "show.html.tmpl")
		require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
		require.NoError(t, os.WriteFile(name, nil, 0o600))

		var body map[string]string
		rec := get(t, h, http.MethodGet, "/locate/template?controller=blog&template=show&type=html", &body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "app/views/blog/show.html.tmpl", body["path"])

		rec = get(t, h, http.MethodGet, "/locate/template?controller=blog&template=edit&type=html", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = get(t, h, http.MethodGet, "/locate/partial", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("reload", func(t *testing.T) {
		before := a.resolver.Snapshot().Version()
		var body struct {
			Version uint64 `json:"version"`
			Enabled int    `json:"enabled"`
		}
		rec := get(t, h, http.MethodPost, "/reload", &body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Greater(t, body.Version, before)
		assert.Equal(t, 2, body.Enabled)
	})
}

func TestRouter_Published(t *testing.T) {
	a := testApp(t)
	h := newRouter(a, true)

	var body struct {
		Version uint64 `json:"version"`
	}
	get(t, h, http.MethodGet, "/features", &body)
	assert.Equal(t, a.resolver.Snapshot().Version(), body.Version)
}

func TestRouter_ReloadReadsEditedDefinitions(t *testing.T) {
	a := testApp(t)
	h := newRouter(a, true)

	var res resolution
	get(t, h, http.MethodGet, "/resolve/method?key="+url.QueryEscape("Blog::title"), &res)
	assert.Equal(t, "Blog::titleFeature1", res.Target)

	name := filepath.Join(a.settings.Root, "app", "config", "features", "BlogFeature.yaml")
	require.NoError(t, os.WriteFile(name, []byte("enabled: true\nmethods:\n  Blog::title: Blog::titleFeature2\n"), 0o600))

	rec := get(t, h, http.MethodPost, "/reload", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	get(t, h, http.MethodGet, "/resolve/method?key="+url.QueryEscape("Blog::title"), &res)
	assert.Equal(t, "Blog::titleFeature2", res.Target)

	require.NoError(t, os.WriteFile(name, []byte("enabled: false\n"), 0o600))
	get(t, h, http.MethodPost, "/reload", nil)

	res = resolution{}
	get(t, h, http.MethodGet, "/resolve/method?key="+url.QueryEscape("Blog::title"), &res)
	assert.False(t, res.Overridden)
}
