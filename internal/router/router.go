// Package router sets up all HTTP routes and middleware chains for the
// site builder. Routes are split into the JSON API, the editor sessions and
// the rendered HTML pages, each with its own middleware stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitebuilder/internal/handlers"
	"sitebuilder/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter may be nil to disable rate limiting.
func New(api *handlers.API, ed *handlers.Editor, pub *handlers.Public, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	// Only requests that may write to the document store count against the
	// write limit. Selection and drag moves touch the session alone and
	// arrive in rapid streams while the user drags.
	limited := func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			limited(r)

			// Catalogs
			r.Get("/components", api.Components)
			r.Get("/templates", api.Templates)
			r.Get("/data/{component}", api.Data)

			// Websites
			r.Get("/websites", api.ListWebsites)
			r.Post("/websites", api.CreateWebsite)
			r.Route("/websites/{wid}", func(r chi.Router) {
				r.Get("/", api.GetWebsite)
				r.Patch("/", api.UpdateWebsite)
				r.Delete("/", api.DeleteWebsite)
				r.Get("/references", api.References)

				r.Post("/pages", api.CreatePage)
				r.Delete("/pages/{pid}", api.DeletePage)
				r.Get("/pages/{pid}/layout", api.ExportLayout)
				r.Put("/pages/{pid}/layout", api.ImportLayout)
				r.Get("/pages/{pid}/qr.png", api.QRCode)

				r.Post("/assets", api.AssetUpload)
				r.Delete("/assets", api.AssetDelete)
			})

			r.Post("/editor/sessions", ed.Open)
		})

		// Editor sessions
		r.Route("/editor/sessions/{sid}", func(r chi.Router) {
			r.Get("/", ed.Get)
			r.Post("/select", ed.Select)
			r.Post("/drag/start", ed.DragStart)
			r.Post("/drag/over", ed.DragOver)

			r.Group(func(r chi.Router) {
				limited(r)
				r.Delete("/", ed.Close)
				r.Post("/reload", ed.Reload)
				r.Post("/blocks", ed.AddBlock)
				r.Patch("/blocks/{bid}", ed.PatchBlock)
				r.Delete("/blocks/{bid}", ed.RemoveBlock)
				r.Post("/blocks/{bid}/duplicate", ed.DuplicateBlock)
				r.Post("/drag/end", ed.DragEnd)
			})
		})
	})

	// Rendered pages.
	r.Group(func(r chi.Router) {
		r.Use(middleware.PageCSP)
		r.Get("/render/{wid}/{pid}", pub.Render)
		r.Get("/preview/{wid}/{pid}", pub.Preview)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
