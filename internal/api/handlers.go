package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/starford/munin/internal/apperr"
	"github.com/starford/munin/internal/models"
	"github.com/starford/munin/internal/provider"
	"github.com/starford/munin/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	p *provider.Provider
}

// NewHandler creates a new Handler.
func NewHandler(p *provider.Provider) *Handler {
	return &Handler{p: p}
}

// sortOrders whitelists the sort parameter; anything else falls back to the
// store's natural order.
var sortOrders = map[string]string{
	"time":        models.BookmarkTime + " DESC",
	"description": models.BookmarkDescription,
	"title":       models.NoteTitle,
	"name":        models.TagName,
}

// listFilter builds a conjunctive parameterized filter from common query
// parameters.
func listFilter(q url.Values) (string, []any) {
	var where string
	var args []any
	and := func(clause string, clauseArgs ...any) {
		if where != "" {
			where += " AND "
		}
		where += clause
		args = append(args, clauseArgs...)
	}

	if account := q.Get("account"); account != "" {
		and("account = ?", account)
	}
	if q.Get("toread") == "1" {
		and(models.BookmarkToRead + " = 1")
	}
	if tag := q.Get("tag"); tag != "" {
		and(models.BookmarkTags+" LIKE ?", "%"+tag+"%")
	}
	return where, args
}

func (h *Handler) handleQueryError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, apperr.ErrUnrecognizedResource) {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	slog.Error(what+" failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

// ListBookmarks handles GET /api/bookmarks.
func (h *Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	where, args := listFilter(q)

	rs, err := h.p.Query(r.Context(), "bookmark", models.BookmarkColumns, where, args, sortOrders[q.Get("sort")])
	if err != nil {
		h.handleQueryError(w, err, "list bookmarks")
		return
	}
	defer rs.Close()

	bookmarks := []models.Bookmark{}
	for rs.Next() {
		b, err := models.ScanBookmark(rs)
		if err != nil {
			h.handleQueryError(w, err, "scan bookmark")
			return
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rs.Err(); err != nil {
		h.handleQueryError(w, err, "list bookmarks")
		return
	}
	writeJSON(w, http.StatusOK, BookmarkListResponse{Bookmarks: bookmarks})
}

// GetBookmark handles GET /api/bookmarks/{id}.
func (h *Handler) GetBookmark(w http.ResponseWriter, r *http.Request) {
	rs, err := h.p.Query(r.Context(), "bookmark/"+chi.URLParam(r, "id"), models.BookmarkColumns, "", nil, "")
	if err != nil {
		h.handleQueryError(w, err, "get bookmark")
		return
	}
	defer rs.Close()

	if !rs.Next() {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	b, err := models.ScanBookmark(rs)
	if err != nil {
		h.handleQueryError(w, err, "scan bookmark")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// CreateBookmark handles POST /api/bookmarks.
func (h *Handler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	var req BookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.URL == "" || req.Account == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("url and account are required"))
		return
	}

	id, err := h.p.Insert(r.Context(), "bookmark", req.values())
	if err != nil {
		slog.Error("create bookmark failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// UpdateBookmark handles PUT /api/bookmarks/{id}.
func (h *Handler) UpdateBookmark(w http.ResponseWriter, r *http.Request) {
	var req UpdateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	values := req.values()
	if len(values) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("no fields to update"))
		return
	}

	count, err := h.p.Update(r.Context(), "bookmark/"+chi.URLParam(r, "id"), values, "", nil)
	if err != nil {
		h.handleQueryError(w, err, "update bookmark")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": count})
}

// DeleteBookmark handles DELETE /api/bookmarks/{id}.
func (h *Handler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	count, err := h.p.Delete(r.Context(), "bookmark/"+chi.URLParam(r, "id"), "", nil)
	if err != nil {
		h.handleQueryError(w, err, "delete bookmark")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": count})
}

// ImportBookmarks handles POST /api/bookmarks/import: an all-or-nothing bulk
// load of a fetched result set.
func (h *Handler) ImportBookmarks(w http.ResponseWriter, r *http.Request) {
	var reqs []BookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	rows := make([]store.Values, len(reqs))
	for i, req := range reqs {
		if req.URL == "" || req.Account == "" {
			writeJSON(w, http.StatusBadRequest, errorBody("every bookmark needs url and account"))
			return
		}
		rows[i] = req.values()
	}

	inserted, err := h.p.BulkInsert(r.Context(), "bookmark", rows)
	if err != nil {
		slog.Error("bookmark import failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("import failed, no rows applied"))
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Inserted: inserted})
}

// ListTags handles GET /api/tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	where, args := listFilter(q)

	rs, err := h.p.Query(r.Context(), "tag", models.TagColumns, where, args, sortOrders[q.Get("sort")])
	if err != nil {
		h.handleQueryError(w, err, "list tags")
		return
	}
	defer rs.Close()

	tags := []models.Tag{}
	for rs.Next() {
		t, err := models.ScanTag(rs)
		if err != nil {
			h.handleQueryError(w, err, "scan tag")
			return
		}
		tags = append(tags, t)
	}
	if err := rs.Err(); err != nil {
		h.handleQueryError(w, err, "list tags")
		return
	}
	writeJSON(w, http.StatusOK, TagListResponse{Tags: tags})
}

// CreateTag handles POST /api/tags.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Name == "" || req.Account == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name and account are required"))
		return
	}

	id, err := h.p.Insert(r.Context(), "tag", store.Values{
		models.TagName:    req.Name,
		models.TagCount:   req.Count,
		models.TagAccount: req.Account,
	})
	if err != nil {
		slog.Error("create tag failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// DeleteTag handles DELETE /api/tags?name=&account=.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	where := models.TagName + " = ?"
	args := []any{name}
	if account := q.Get("account"); account != "" {
		where += " AND " + models.TagAccount + " = ?"
		args = append(args, account)
	}

	count, err := h.p.Delete(r.Context(), "tag", where, args)
	if err != nil {
		h.handleQueryError(w, err, "delete tag")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": count})
}

// ListNotes handles GET /api/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	where, args := listFilter(q)

	rs, err := h.p.Query(r.Context(), "note", models.NoteColumns, where, args, sortOrders[q.Get("sort")])
	if err != nil {
		h.handleQueryError(w, err, "list notes")
		return
	}
	defer rs.Close()

	notes := []models.Note{}
	for rs.Next() {
		n, err := models.ScanNote(rs)
		if err != nil {
			h.handleQueryError(w, err, "scan note")
			return
		}
		notes = append(notes, n)
	}
	if err := rs.Err(); err != nil {
		h.handleQueryError(w, err, "list notes")
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes})
}

// CreateNote handles POST /api/notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Account == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("account is required"))
		return
	}

	id, err := h.p.Insert(r.Context(), "note", store.Values{
		models.NoteTitle:   req.Title,
		models.NoteText:    req.Text,
		models.NoteAccount: req.Account,
	})
	if err != nil {
		slog.Error("create note failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// GetNote handles GET /api/notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	rs, err := h.p.Query(r.Context(), "note/"+chi.URLParam(r, "id"), models.NoteColumns, "", nil, "")
	if err != nil {
		h.handleQueryError(w, err, "get note")
		return
	}
	defer rs.Close()

	if !rs.Next() {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	n, err := models.ScanNote(rs)
	if err != nil {
		h.handleQueryError(w, err, "scan note")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// UpdateNote handles PUT /api/notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	values := store.Values{}
	if req.Title != nil {
		values[models.NoteTitle] = *req.Title
	}
	if req.Text != nil {
		values[models.NoteText] = *req.Text
	}
	if len(values) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("no fields to update"))
		return
	}

	count, err := h.p.Update(r.Context(), "note/"+chi.URLParam(r, "id"), values, "", nil)
	if err != nil {
		h.handleQueryError(w, err, "update note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": count})
}

// DeleteNote handles DELETE /api/notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	count, err := h.p.Delete(r.Context(), "note/"+chi.URLParam(r, "id"), "", nil)
	if err != nil {
		h.handleQueryError(w, err, "delete note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": count})
}

// Suggest handles GET /api/suggest/{scope}?q=. Scope is one of global, main,
// tag, bookmark, note. An empty query returns an empty, valid suggestion set.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	scope := chi.URLParam(r, "scope")
	path := scope + "/suggest"
	if q := r.URL.Query().Get("q"); q != "" {
		path += "/" + q
	}

	rs, err := h.p.Query(r.Context(), path, nil, "", nil, "")
	if err != nil {
		h.handleQueryError(w, err, "suggest")
		return
	}
	defer rs.Close()

	resp := SuggestResponse{Columns: rs.Columns(), Rows: []map[string]any{}}
	dest := make([]any, len(resp.Columns))
	for i := range dest {
		dest[i] = new(any)
	}
	for rs.Next() {
		if err := rs.Scan(dest...); err != nil {
			h.handleQueryError(w, err, "scan suggestion")
			return
		}
		row := make(map[string]any, len(resp.Columns))
		for i, c := range resp.Columns {
			row[c] = *dest[i].(*any)
		}
		resp.Rows = append(resp.Rows, row)
	}
	writeJSON(w, http.StatusOK, resp)
}

// UnreadCount handles GET /api/unreadcount.
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	rs, err := h.p.Query(r.Context(), "unreadcount", nil, "", nil, "")
	if err != nil {
		h.handleQueryError(w, err, "unread count")
		return
	}
	defer rs.Close()

	counts := []store.UnreadCount{}
	for rs.Next() {
		var c store.UnreadCount
		if err := rs.Scan(&c.Count, &c.Account); err != nil {
			h.handleQueryError(w, err, "scan unread count")
			return
		}
		counts = append(counts, c)
	}
	writeJSON(w, http.StatusOK, UnreadCountResponse{Counts: counts})
}
