package sites

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sitebuilder/internal/blocks"
	"sitebuilder/internal/database"
	"sitebuilder/internal/layout"
	"sitebuilder/internal/models"
	"sitebuilder/internal/store"
	"sitebuilder/internal/templates"
)

type recordingInvalidator struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingInvalidator) InvalidateWebsite(_ context.Context, id string) {
	r.mu.Lock()
	r.ids = append(r.ids, id)
	r.mu.Unlock()
}

func (r *recordingInvalidator) count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, v := range r.ids {
		if v == id {
			n++
		}
	}
	return n
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	return New(store.NewMemoryStore(), opts...)
}

func createSite(t *testing.T, s *Service) *models.Website {
	t.Helper()
	w, err := s.CreateWebsite(context.Background(), NewWebsite{Name: "Test Site"})
	if err != nil {
		t.Fatalf("CreateWebsite: %v", err)
	}
	return w
}

func types(l layout.Layout) []blocks.BlockType {
	out := make([]blocks.BlockType, len(l))
	for i, b := range l {
		out[i] = b.Type
	}
	return out
}

func assertTypes(t *testing.T, l layout.Layout, want ...blocks.BlockType) {
	t.Helper()
	got := types(l)
	if len(got) != len(want) {
		t.Fatalf("types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("types = %v, want %v", got, want)
		}
	}
}

func TestCreateWebsite(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	w := createSite(t, s)
	if w.ID == "" {
		t.Fatal("website has no id")
	}
	if len(w.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(w.Pages))
	}
	home := w.Pages[0]
	if home.Name != "Home" || home.Path != "/" {
		t.Errorf("home page = %q %q, want Home /", home.Name, home.Path)
	}
	assertTypes(t, home.Layout, blocks.Hero, blocks.ServiceGrid, blocks.Testimonials, blocks.CTA)

	if w.Revision != 1 {
		t.Errorf("revision = %d, want 1", w.Revision)
	}
	if *w.Colors != models.DefaultColors() || *w.Fonts != models.DefaultFonts() {
		t.Errorf("theme = %+v %+v, want defaults", w.Colors, w.Fonts)
	}

	got, err := s.GetWebsite(ctx, w.ID)
	if err != nil {
		t.Fatalf("GetWebsite: %v", err)
	}
	if got.Name != "Test Site" || len(got.Pages) != 1 {
		t.Errorf("stored website = %+v", got)
	}
}

func TestCreateWebsiteRequiresName(t *testing.T) {
	s := newTestService(t)
	if _, err := s.CreateWebsite(context.Background(), NewWebsite{Name: "  "}); !errors.Is(err, ErrInvalidWebsite) {
		t.Errorf("err = %v, want ErrInvalidWebsite", err)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.GetWebsite(ctx, "nope"); !errors.Is(err, ErrWebsiteNotFound) {
		t.Errorf("GetWebsite err = %v, want ErrWebsiteNotFound", err)
	}
	w := createSite(t, s)
	if _, err := s.GetPage(ctx, w.ID, "nope"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("GetPage err = %v, want ErrPageNotFound", err)
	}
	if _, err := s.AddBlock(ctx, "nope", "nope", blocks.Stats); !errors.Is(err, ErrWebsiteNotFound) {
		t.Errorf("AddBlock err = %v, want ErrWebsiteNotFound", err)
	}
}

func TestCreateAndPopulate(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	w := createSite(t, s)
	home := w.Pages[0]

	b, err := s.AddBlock(ctx, w.ID, home.ID, blocks.Stats)
	if err != nil {
		t.Fatalf("AddBlock: %v", err)
	}

	page, err := s.GetPage(ctx, w.ID, home.ID)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	assertTypes(t, page.Layout, blocks.Hero, blocks.ServiceGrid, blocks.Testimonials, blocks.CTA, blocks.Stats)
	if page.Layout[4].ID() != b.ID() {
		t.Errorf("last block id = %s, want %s", page.Layout[4].ID(), b.ID())
	}
}

func TestAddBlockPlacement(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	w := createSite(t, s)
	pid := w.Pages[0].ID

	for _, bt := range []blocks.BlockType{blocks.Footer, blocks.Navbar, blocks.Stats} {
		if _, err := s.AddBlock(ctx, w.ID, pid, bt); err != nil {
			t.Fatalf("AddBlock(%s): %v", bt, err)
		}
	}

	page, err := s.GetPage(ctx, w.ID, pid)
	if err != nil {
		t.Fatal(err)
	}
	assertTypes(t, page.Layout,
		blocks.Navbar, blocks.Hero, blocks.ServiceGrid, blocks.Testimonials,
		blocks.CTA, blocks.Stats, blocks.Footer)
}

func TestAddBlockUniqueness(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		policy  blocks.Uniqueness
		typ     blocks.BlockType
		wantErr bool
	}{
		{"all rejects second hero", blocks.UniqueAll, blocks.Hero, true},
		{"content allows second hero", blocks.UniqueContent, blocks.Hero, false},
		{"none allows second hero", blocks.UniqueNone, blocks.Hero, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, WithUniqueness(tt.policy))
			w := createSite(t, s)
			_, err := s.AddBlock(ctx, w.ID, w.Pages[0].ID, tt.typ)
			if tt.wantErr != errors.Is(err, ErrBlockTypePresent) {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	t.Run("content rejects second navbar", func(t *testing.T) {
		s := newTestService(t, WithUniqueness(blocks.UniqueContent))
		w := createSite(t, s)
		pid := w.Pages[0].ID
		if _, err := s.AddBlock(ctx, w.ID, pid, blocks.Navbar); err != nil {
			t.Fatal(err)
		}
		if _, err := s.AddBlock(ctx, w.ID, pid, blocks.Navbar); !errors.Is(err, ErrBlockTypePresent) {
			t.Errorf("err = %v, want ErrBlockTypePresent", err)
		}
	})
}

func TestAddBlockUnknownType(t *testing.T) {
	s := newTestService(t)
	w := createSite(t, s)
	_, err := s.AddBlock(context.Background(), w.ID, w.Pages[0].ID, blocks.BlockType("CAROUSEL"))
	if !errors.Is(err, blocks.ErrUnknownBlockType) {
		t.Errorf("err = %v, want ErrUnknownBlockType", err)
	}
}

func TestDeletePageLastPageProtected(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	w := createSite(t, s)
	home := w.Pages[0]

	if err := s.DeletePage(ctx, w.ID, home.ID); !errors.Is(err, ErrLastPageProtected) {
		t.Fatalf("err = %v, want ErrLastPageProtected", err)
	}

	got, err := s.GetWebsite(ctx, w.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Pages) != 1 || got.Pages[0].ID != home.ID {
		t.Fatalf("pages changed: %+v", got.Pages)
	}
	if got.Revision != w.Revision {
		t.Errorf("revision = %d, want %d (nothing written)", got.Revision, w.Revision)
	}
}

func TestDeletePage(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	w := createSite(t, s)

	about, err := s.CreatePage(ctx, w.ID, NewPage{Name: "About"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeletePage(ctx, w.ID, about.ID); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	if _, err := s.GetPage(ctx, w.ID, about.ID); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("deleted page still present: %v", err)
	}
	if err := s.DeletePage(ctx, w.ID, about.ID); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("second delete err = %v, want ErrPageNotFound", err)
	}
}

func TestCreatePage(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	w := createSite(t, s)

	t.Run("empty layout and slug path", func(t *testing.T) {
		p, err := s.CreatePage(ctx, w.ID, NewPage{Name: "About Us"})
		if err != nil {
			t.Fatal(err)
		}
		if p.Path != "/about-us" {
			t.Errorf("path = %q, want /about-us", p.Path)
		}
		if len(p.Layout) != 0 {
			t.Errorf("layout = %v, want empty", types(p.Layout))
		}
	})

	t.Run("same name gets suffixed path", func(t *testing.T) {
		p, err := s.CreatePage(ctx, w.ID, NewPage{Name: "About Us"})
		if err != nil {
			t.Fatal(err)
		}
		if p.Path != "/about-us-2" {
			t.Errorf("path = %q, want /about-us-2", p.Path)
		}
	})

	t.Run("explicit path is normalized", func(t *testing.T) {
		p, err := s.CreatePage(ctx, w.ID, NewPage{Name: "Team", Path: "Company/Our Team/"})
		if err != nil {
			t.Fatal(err)
		}
		if p.Path != "/company/our-team" {
			t.Errorf("path = %q", p.Path)
		}
	})

	t.Run("explicit duplicate path", func(t *testing.T) {
		_, err := s.CreatePage(ctx, w.ID, NewPage{Name: "Again", Path: "/about-us"})
		if !errors.Is(err, ErrDuplicatePath) {
			t.Errorf("err = %v, want ErrDuplicatePath", err)
		}
	})

	t.Run("from template", func(t *testing.T) {
		p, err := s.CreatePage(ctx, w.ID, NewPage{Name: "Services", Template: templates.NameServices})
		if err != nil {
			t.Fatal(err)
		}
		assertTypes(t, p.Layout, blocks.Hero, blocks.ServiceGrid)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := s.CreatePage(ctx, w.ID, NewPage{Name: "X", Template: "pricing"})
		if !errors.Is(err, templates.ErrUnknownTemplate) {
			t.Errorf("err = %v, want ErrUnknownTemplate", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		if _, err := s.CreatePage(ctx, w.ID, NewPage{}); !errors.Is(err, ErrInvalidWebsite) {
			t.Errorf("err = %v, want ErrInvalidWebsite", err)
		}
	})
}

func TestUpdateWebsite(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	w := createSite(t, s)

	name := "Renamed"
	domain := "renamed.example"
	colors := models.Colors{Primary: "#111111", Secondary: "#222222", Accent: "#333333"}
	got, err := s.UpdateWebsite(ctx, w.ID, WebsiteUpdate{Name: &name, Domain: &domain, Colors: &colors})
	if err != nil {
		t.Fatalf("UpdateWebsite: %v", err)
	}
	if got.Name != name || got.Domain != domain || *got.Colors != colors {
		t.Errorf("website = %+v", got)
	}
	if *got.Fonts != models.DefaultFonts() {
		t.Errorf("fonts changed: %+v", got.Fonts)
	}

	empty := ""
	if _, err := s.UpdateWebsite(ctx, w.ID, WebsiteUpdate{Name: &empty}); !errors.Is(err, ErrInvalidWebsite) {
		t.Errorf("err = %v, want ErrInvalidWebsite", err)
	}
}

func TestUpdatePageLayout(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	w := createSite(t, s)
	home := w.Pages[0]

	reordered, err := layout.Reorder(home.Layout, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.UpdatePageLayout(ctx, w.ID, home.ID, reordered)
	if err != nil {
		t.Fatalf("UpdatePageLayout: %v", err)
	}
	assertTypes(t, got.Page(home.ID).Layout, blocks.ServiceGrid, blocks.Testimonials, blocks.CTA, blocks.Hero)

	t.Run("invalid layout", func(t *testing.T) {
		dup := append(layout.Layout{}, home.Layout[0], home.Layout[0])
		_, err := s.UpdatePageLayout(ctx, w.ID, home.ID, dup)
		if !errors.Is(err, layout.ErrInvalidLayout) {
			t.Errorf("err = %v, want ErrInvalidLayout", err)
		}
	})

	t.Run("missing page", func(t *testing.T) {
		_, err := s.UpdatePageLayout(ctx, w.ID, "nope", layout.Layout{})
		if !errors.Is(err, ErrPageNotFound) {
			t.Errorf("err = %v, want ErrPageNotFound", err)
		}
	})

	t.Run("nil layout stores empty", func(t *testing.T) {
		got, err := s.UpdatePageLayout(ctx, w.ID, home.ID, nil)
		if err != nil {
			t.Fatal(err)
		}
		if l := got.Page(home.ID).Layout; l == nil || len(l) != 0 {
			t.Errorf("layout = %v, want empty non-nil", l)
		}
	})
}

func TestUpdatePageLayoutIfMatch(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	w := createSite(t, s)
	home := w.Pages[0]

	got, err := s.UpdatePageLayoutIfMatch(ctx, w.ID, home.ID, home.Layout[:2], w.Revision)
	if err != nil {
		t.Fatalf("matching revision: %v", err)
	}
	if got.Revision != w.Revision+1 {
		t.Errorf("revision = %d, want %d", got.Revision, w.Revision+1)
	}

	_, err = s.UpdatePageLayoutIfMatch(ctx, w.ID, home.ID, home.Layout, w.Revision)
	if !errors.Is(err, ErrRevisionMismatch) {
		t.Errorf("stale revision err = %v, want ErrRevisionMismatch", err)
	}
}

func TestDeleteWebsite(t *testing.T) {
	inv := &recordingInvalidator{}
	s := newTestService(t, WithInvalidator(inv))
	ctx := context.Background()
	w := createSite(t, s)

	if err := s.DeleteWebsite(ctx, w.ID); err != nil {
		t.Fatalf("DeleteWebsite: %v", err)
	}
	if _, err := s.GetWebsite(ctx, w.ID); !errors.Is(err, ErrWebsiteNotFound) {
		t.Errorf("err = %v, want ErrWebsiteNotFound", err)
	}
	if err := s.DeleteWebsite(ctx, w.ID); err != nil {
		t.Errorf("deleting a missing website: %v", err)
	}
	if n := inv.count(w.ID); n != 3 {
		t.Errorf("invalidations = %d, want 3", n)
	}
}

func TestWritesNotifyInvalidator(t *testing.T) {
	inv := &recordingInvalidator{}
	s := newTestService(t, WithInvalidator(inv))
	ctx := context.Background()
	w := createSite(t, s)

	if _, err := s.AddBlock(ctx, w.ID, w.Pages[0].ID, blocks.Stats); err != nil {
		t.Fatal(err)
	}
	if n := inv.count(w.ID); n != 2 {
		t.Errorf("invalidations = %d, want 2", n)
	}

	// A rejected write persists nothing and invalidates nothing.
	if err := s.DeletePage(ctx, w.ID, w.Pages[0].ID); err == nil {
		t.Fatal("expected last page error")
	}
	if n := inv.count(w.ID); n != 2 {
		t.Errorf("invalidations after failed write = %d, want 2", n)
	}
}

func TestInvalidatorsFanOut(t *testing.T) {
	a, b := &recordingInvalidator{}, &recordingInvalidator{}
	s := newTestService(t, WithInvalidator(Invalidators{a, nil, b}))
	w := createSite(t, s)

	if a.count(w.ID) != 1 || b.count(w.ID) != 1 {
		t.Errorf("invalidations = %d and %d, want 1 each", a.count(w.ID), b.count(w.ID))
	}
}

func TestConcurrentWritesNotLost(t *testing.T) {
	s := newTestService(t, WithUniqueness(blocks.UniqueNone))
	ctx := context.Background()
	w := createSite(t, s)
	pid := w.Pages[0].ID

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AddBlock(ctx, w.ID, pid, blocks.TextSection); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("AddBlock: %v", err)
	}

	got, err := s.GetWebsite(ctx, w.ID)
	if err != nil {
		t.Fatal(err)
	}
	if l := len(got.Page(pid).Layout); l != 4+n {
		t.Errorf("blocks = %d, want %d", l, 4+n)
	}
	if got.Revision != int64(1+n) {
		t.Errorf("revision = %d, want %d", got.Revision, 1+n)
	}
}

func TestClockSetsTimestamps(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, WithClock(func() time.Time { return fixed }))
	w := createSite(t, s)
	if !w.CreatedAt.Equal(fixed) || !w.UpdatedAt.Equal(fixed) {
		t.Errorf("timestamps = %v %v, want %v", w.CreatedAt, w.UpdatedAt, fixed)
	}
}

func TestSeed(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	w, err := Seed(ctx, s)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if w == nil || w.Name != SeedWebsiteName {
		t.Fatalf("seeded website = %+v", w)
	}
	if len(w.Pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(w.Pages))
	}
	for _, p := range w.Pages {
		if p.Layout[0].Type != blocks.Navbar || p.Layout[len(p.Layout)-1].Type != blocks.Footer {
			t.Errorf("page %s not framed by navbar and footer: %v", p.Name, types(p.Layout))
		}
		if refs := layout.DanglingReferences(p.Layout, w.PageIDs()); len(refs) != 0 {
			t.Errorf("page %s has dangling links: %+v", p.Name, refs)
		}
		if n := len(layout.References(p.Layout)); n != 6 {
			t.Errorf("page %s links = %d, want 6", p.Name, n)
		}
	}

	again, err := Seed(ctx, s)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if again != nil {
		t.Error("second Seed created another website")
	}
}

func TestServiceOnSQLite(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "sites.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db, database.SQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s := New(store.NewWebsiteStore(db, database.SQLite))
	ctx := context.Background()

	w := createSite(t, s)
	if _, err := s.AddBlock(ctx, w.ID, w.Pages[0].ID, blocks.Stats); err != nil {
		t.Fatal(err)
	}
	page, err := s.GetPage(ctx, w.ID, w.Pages[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	assertTypes(t, page.Layout, blocks.Hero, blocks.ServiceGrid, blocks.Testimonials, blocks.CTA, blocks.Stats)

	list, err := s.ListWebsites(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Revision != 2 {
		t.Errorf("list = %+v", list)
	}
}
