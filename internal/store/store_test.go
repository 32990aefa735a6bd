// store_test.go provides shared helpers for the store tests. The same
// contract runs against every backend: memory and SQLite always, PostgreSQL
// and MongoDB when reachable (skipped otherwise).
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"sitebuilder/internal/blocks"
	"sitebuilder/internal/database"
	"sitebuilder/internal/layout"
	"sitebuilder/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with the same defaults as config.Load.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "sitebuilder")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "sitebuilder")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db, database.Postgres); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// sqliteDB opens a migrated SQLite database in a temporary directory.
func sqliteDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "sites.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db, database.SQLite); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// cleanWebsites removes test websites by id. Call in t.Cleanup().
func cleanWebsites(t *testing.T, repo WebsiteRepository, ids ...string) {
	t.Helper()
	for _, id := range ids {
		repo.Delete(context.Background(), id)
	}
}

// testWebsite builds a two-page website with links and unknown block fields.
func testWebsite(t *testing.T, id string) *models.Website {
	t.Helper()

	nav, err := blocks.NewBlock(blocks.Navbar, id+"-nav")
	if err != nil {
		t.Fatal(err)
	}
	nav.Config.(*blocks.NavbarConfig).Links = []blocks.Link{{Label: "About", PageID: id + "-about"}}

	hero, err := layout.Deserialize([]byte(`[{"type":"HERO","config":{"id":"` + id + `-hero","title":"Hi","subtitle":"","glow":true}}]`))
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Website{
		ID:     id,
		Name:   "Acme " + id,
		Domain: "acme.example",
		Colors: &models.Colors{Primary: "#000", Secondary: "#fff", Accent: "#f00"},
		Pages: []models.Page{
			{ID: id + "-home", Name: "Home", Path: "/", Layout: layout.Layout{nav, hero[0]}},
			{ID: id + "-about", Name: "About", Path: "/about", Layout: layout.Layout{}},
		},
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// runRepositoryContract exercises Get/List/Put/Delete on repo.
func runRepositoryContract(t *testing.T, repo WebsiteRepository, prefix string) {
	ctx := context.Background()
	a := testWebsite(t, prefix+"-a")
	b := testWebsite(t, prefix+"-b")
	b.UpdatedAt = a.UpdatedAt.Add(time.Second)
	t.Cleanup(func() { cleanWebsites(t, repo, a.ID, b.ID) })

	t.Run("get missing returns nil", func(t *testing.T) {
		got, err := repo.Get(ctx, prefix+"-missing")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != nil {
			t.Errorf("Get missing = %+v, want nil", got)
		}
	})

	t.Run("put and get round trip", func(t *testing.T) {
		if err := repo.Put(ctx, a); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := repo.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !reflect.DeepEqual(got, a) {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, a)
		}
		extra := got.Pages[0].Layout[1].Config.(*blocks.HeroConfig).Extra
		if string(extra["glow"]) != "true" {
			t.Errorf("unknown block field lost: %v", extra)
		}
	})

	t.Run("put replaces whole document", func(t *testing.T) {
		updated := testWebsite(t, a.ID)
		updated.Name = "Renamed"
		updated.Pages = updated.Pages[:1]
		updated.Revision = 2
		if err := repo.Put(ctx, updated); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := repo.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Name != "Renamed" || len(got.Pages) != 1 || got.Revision != 2 {
			t.Errorf("after replace = name %q, %d pages, rev %d", got.Name, len(got.Pages), got.Revision)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		if err := repo.Put(ctx, b); err != nil {
			t.Fatalf("Put: %v", err)
		}
		items, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		var ids []string
		for _, w := range items {
			if w.ID == a.ID || w.ID == b.ID {
				ids = append(ids, w.ID)
			}
		}
		if !reflect.DeepEqual(ids, []string{b.ID, a.ID}) {
			t.Errorf("List order = %v, want [%s %s]", ids, b.ID, a.ID)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Delete(ctx, a.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if got, _ := repo.Get(ctx, a.ID); got != nil {
			t.Error("website still present after Delete")
		}
		if err := repo.Delete(ctx, a.ID); err != nil {
			t.Errorf("second Delete: %v", err)
		}
	})
}
