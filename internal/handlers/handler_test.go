// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"sitebuilder/internal/editor"
	"sitebuilder/internal/models"
	"sitebuilder/internal/render"
	"sitebuilder/internal/sites"
	"sitebuilder/internal/store"
)

// mapCache is an in-memory PageCache.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, html []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = html
	c.sets++
}

func (c *mapCache) InvalidatePage(_ context.Context, websiteID, pageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, websiteID+":"+pageID)
}

// InvalidateWebsite drops every key of a website, as cache.PageCache does.
func (c *mapCache) InvalidateWebsite(_ context.Context, websiteID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, websiteID+":") {
			delete(c.data, k)
		}
	}
}

// fakeAssets records uploads instead of talking to S3.
type fakeAssets struct {
	mu      sync.Mutex
	objects map[string][]byte
	failing bool
}

func newFakeAssets() *fakeAssets { return &fakeAssets{objects: make(map[string][]byte)} }

func (f *fakeAssets) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if f.failing {
		return errors.New("s3 unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeAssets) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeAssets) FileURL(key string) string { return "https://cdn.test/" + key }

func (f *fakeAssets) ExtractKey(rawURL string) (string, bool) {
	if k, ok := strings.CutPrefix(rawURL, "https://cdn.test/"); ok {
		return k, true
	}
	return "", false
}

// testEnv holds a complete handler stack over the in-memory store.
type testEnv struct {
	Store   *store.MemoryStore
	Sites   *sites.Service
	Manager *editor.Manager
	Memo    *render.Memo
	Cache   *mapCache
	Assets  *fakeAssets
	API     *API
	Editor  *Editor
	Public  *Public
	Mux     http.Handler
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mem := store.NewMemoryStore()
	env := newTestEnvWithRepo(t, mem)
	env.Store = mem
	return env
}

// newTestEnvWithRepo builds the handler stack over repo.
func newTestEnvWithRepo(t *testing.T, repo store.WebsiteRepository) *testEnv {
	t.Helper()

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	env := &testEnv{
		Memo:   render.NewMemo(0),
		Cache:  newMapCache(),
		Assets: newFakeAssets(),
	}
	env.Sites = sites.New(repo, sites.WithInvalidator(sites.Invalidators{env.Memo, env.Cache}))
	env.Manager = editor.NewManager(env.Sites, editor.NewMemorySessions())
	env.API = NewAPI(env.Sites, env.Assets, "http://sites.test/")
	env.Editor = NewEditor(env.Manager)
	env.Public = NewPublic(env.Sites, renderer, env.Memo, env.Cache, env.Manager)
	env.Mux = testMux(env)
	return env
}

// testMux mounts the handlers the way the router does.
func testMux(env *testEnv) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/components", env.API.Components)
		r.Get("/templates", env.API.Templates)
		r.Get("/data/{component}", env.API.Data)
		r.Get("/websites", env.API.ListWebsites)
		r.Post("/websites", env.API.CreateWebsite)
		r.Route("/websites/{wid}", func(r chi.Router) {
			r.Get("/", env.API.GetWebsite)
			r.Patch("/", env.API.UpdateWebsite)
			r.Delete("/", env.API.DeleteWebsite)
			r.Get("/references", env.API.References)
			r.Post("/pages", env.API.CreatePage)
			r.Delete("/pages/{pid}", env.API.DeletePage)
			r.Get("/pages/{pid}/layout", env.API.ExportLayout)
			r.Put("/pages/{pid}/layout", env.API.ImportLayout)
			r.Get("/pages/{pid}/qr.png", env.API.QRCode)
			r.Post("/assets", env.API.AssetUpload)
			r.Delete("/assets", env.API.AssetDelete)
		})
		r.Post("/editor/sessions", env.Editor.Open)
		r.Route("/editor/sessions/{sid}", func(r chi.Router) {
			r.Get("/", env.Editor.Get)
			r.Delete("/", env.Editor.Close)
			r.Post("/reload", env.Editor.Reload)
			r.Post("/select", env.Editor.Select)
			r.Post("/blocks", env.Editor.AddBlock)
			r.Patch("/blocks/{bid}", env.Editor.PatchBlock)
			r.Delete("/blocks/{bid}", env.Editor.RemoveBlock)
			r.Post("/blocks/{bid}/duplicate", env.Editor.DuplicateBlock)
			r.Post("/drag/start", env.Editor.DragStart)
			r.Post("/drag/over", env.Editor.DragOver)
			r.Post("/drag/end", env.Editor.DragEnd)
		})
	})
	r.Get("/render/{wid}/{pid}", env.Public.Render)
	r.Get("/preview/{wid}/{pid}", env.Public.Preview)
	return r
}

// do sends a request through the test mux. A non-nil body is encoded as JSON
// unless it already is a string.
func (env *testEnv) do(t *testing.T, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	env.Mux.ServeHTTP(rec, req)
	return rec
}

// createWebsite creates a website through the service.
func (env *testEnv) createWebsite(t *testing.T, name string) *models.Website {
	t.Helper()
	w, err := env.Sites.CreateWebsite(context.Background(), sites.NewWebsite{Name: name})
	if err != nil {
		t.Fatalf("CreateWebsite: %v", err)
	}
	return w
}

// decode unmarshals a response body into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// expectStatus fails the test when the response status differs.
func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}
