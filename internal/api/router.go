package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/munin/internal/provider"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(p *provider.Provider, authEnabled bool, token string) chi.Router {
	h := NewHandler(p)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Bookmarks.
	r.Get("/bookmarks", h.ListBookmarks)
	r.Post("/bookmarks", h.CreateBookmark)
	r.Post("/bookmarks/import", h.ImportBookmarks)
	r.Get("/bookmarks/{id}", h.GetBookmark)
	r.Put("/bookmarks/{id}", h.UpdateBookmark)
	r.Delete("/bookmarks/{id}", h.DeleteBookmark)

	// Tags.
	r.Get("/tags", h.ListTags)
	r.Post("/tags", h.CreateTag)
	r.Delete("/tags", h.DeleteTag)

	// Notes.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Type-ahead suggestions and aggregates.
	r.Get("/suggest/{scope}", h.Suggest)
	r.Get("/unreadcount", h.UnreadCount)

	return r
}
