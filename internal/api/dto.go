package api

import (
	"github.com/starford/munin/internal/models"
	"github.com/starford/munin/internal/store"
)

// BookmarkRequest is the request body for creating a bookmark, and one entry
// of a bulk import.
type BookmarkRequest struct {
	URL         string `json:"url"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
	Tags        string `json:"tags"`
	Shared      *bool  `json:"shared"`
	ToRead      bool   `json:"toread"`
	Time        int64  `json:"time"`
	Account     string `json:"account"`
	Synced      bool   `json:"synced"`
}

// values converts the request into store column values.
func (r BookmarkRequest) values() store.Values {
	shared := true
	if r.Shared != nil {
		shared = *r.Shared
	}
	return store.Values{
		models.BookmarkURL:         r.URL,
		models.BookmarkDescription: r.Description,
		models.BookmarkNotes:       r.Notes,
		models.BookmarkTags:        r.Tags,
		models.BookmarkShared:      shared,
		models.BookmarkToRead:      r.ToRead,
		models.BookmarkTime:        r.Time,
		models.BookmarkAccount:     r.Account,
		models.BookmarkSynced:      r.Synced,
	}
}

// UpdateBookmarkRequest carries a partial bookmark update; only present
// fields are written.
type UpdateBookmarkRequest struct {
	URL         *string `json:"url"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
	Tags        *string `json:"tags"`
	Shared      *bool   `json:"shared"`
	ToRead      *bool   `json:"toread"`
	Time        *int64  `json:"time"`
	Synced      *bool   `json:"synced"`
}

// values converts the partial update into store column values.
func (r UpdateBookmarkRequest) values() store.Values {
	v := store.Values{}
	if r.URL != nil {
		v[models.BookmarkURL] = *r.URL
	}
	if r.Description != nil {
		v[models.BookmarkDescription] = *r.Description
	}
	if r.Notes != nil {
		v[models.BookmarkNotes] = *r.Notes
	}
	if r.Tags != nil {
		v[models.BookmarkTags] = *r.Tags
	}
	if r.Shared != nil {
		v[models.BookmarkShared] = *r.Shared
	}
	if r.ToRead != nil {
		v[models.BookmarkToRead] = *r.ToRead
	}
	if r.Time != nil {
		v[models.BookmarkTime] = *r.Time
	}
	if r.Synced != nil {
		v[models.BookmarkSynced] = *r.Synced
	}
	return v
}

// TagRequest is the request body for creating a tag entry.
type TagRequest struct {
	Name    string `json:"name"`
	Count   int64  `json:"count"`
	Account string `json:"account"`
}

// NoteRequest is the request body for creating a note.
type NoteRequest struct {
	Title   string `json:"title"`
	Text    string `json:"text"`
	Account string `json:"account"`
}

// UpdateNoteRequest carries a partial note update.
type UpdateNoteRequest struct {
	Title *string `json:"title"`
	Text  *string `json:"text"`
}

// BookmarkListResponse wraps bookmark listings.
type BookmarkListResponse struct {
	Bookmarks []models.Bookmark `json:"bookmarks"`
}

// TagListResponse wraps tag listings.
type TagListResponse struct {
	Tags []models.Tag `json:"tags"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notes"`
}

// ImportResponse reports a bulk import result.
type ImportResponse struct {
	Inserted int64 `json:"inserted"`
}

// SuggestResponse wraps shaped suggestion rows. Columns reflects the active
// output schema: the icon column is present only when suggestion icons are
// enabled.
type SuggestResponse struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// UnreadCountResponse wraps per-account to-read counts.
type UnreadCountResponse struct {
	Counts []store.UnreadCount `json:"counts"`
}
