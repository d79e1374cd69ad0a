// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the Munin data layer for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/munin/internal/models"
	"github.com/starford/munin/internal/provider"
	"github.com/starford/munin/internal/store"
)

// suggestScopes are the valid scope arguments for search_suggest.
var suggestScopes = map[string]bool{
	"global": true, "main": true, "tag": true, "bookmark": true, "note": true,
}

// Server wraps the MCP server with Munin tools.
type Server struct {
	mcp *server.MCPServer
	p   *provider.Provider
}

// New creates a new MCP server with all Munin tools registered.
func New(p *provider.Provider) *Server {
	s := &Server{p: p}

	s.mcp = server.NewMCPServer(
		"Munin",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_suggest",
		mcp.WithDescription("Type-ahead search suggestions across bookmarks, tags and notes. "+
			"Every whitespace-separated token must match; results are deduplicated and ordered."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("scope", mcp.Description("Suggestion scope: global, main, tag, bookmark or note (default main)")),
	), s.searchSuggest)

	s.mcp.AddTool(mcp.NewTool("list_bookmarks",
		mcp.WithDescription("List stored bookmarks, optionally filtered by account or to-read flag."),
		mcp.WithString("account", mcp.Description("Only bookmarks owned by this account")),
		mcp.WithBoolean("toread", mcp.Description("Only bookmarks flagged to-read")),
	), s.listBookmarks)

	s.mcp.AddTool(mcp.NewTool("add_bookmark",
		mcp.WithDescription("Save a new bookmark."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Bookmark URL")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Display title")),
		mcp.WithString("account", mcp.Required(), mcp.Description("Owning account")),
		mcp.WithString("tags", mcp.Description("Space-delimited tag names")),
		mcp.WithString("notes", mcp.Description("Extended notes")),
		mcp.WithBoolean("toread", mcp.Description("Flag the bookmark to-read")),
	), s.addBookmark)

	s.mcp.AddTool(mcp.NewTool("unread_count",
		mcp.WithDescription("Count of to-read bookmarks grouped by account."),
	), s.unreadCount)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchSuggest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scope := req.GetString("scope", "main")
	if !suggestScopes[scope] {
		return mcp.NewToolResultError(fmt.Sprintf("unknown scope: %s", scope)), nil
	}

	path := scope + "/suggest"
	if query != "" {
		path += "/" + query
	}
	rs, err := s.p.Query(ctx, path, nil, "", nil, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer rs.Close()

	columns := rs.Columns()
	rows := []map[string]any{}
	dest := make([]any, len(columns))
	for i := range dest {
		dest[i] = new(any)
	}
	for rs.Next() {
		if err := rs.Scan(dest...); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		row := make(map[string]any, len(columns))
		for i, c := range columns {
			row[c] = *dest[i].(*any)
		}
		rows = append(rows, row)
	}

	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listBookmarks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var where string
	var args []any
	if account := req.GetString("account", ""); account != "" {
		where = models.BookmarkAccount + " = ?"
		args = append(args, account)
	}
	if req.GetBool("toread", false) {
		if where != "" {
			where += " AND "
		}
		where += models.BookmarkToRead + " = 1"
	}

	rs, err := s.p.Query(ctx, "bookmark", models.BookmarkColumns, where, args, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer rs.Close()

	bookmarks := []models.Bookmark{}
	for rs.Next() {
		b, err := models.ScanBookmark(rs)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rs.Err(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, _ := json.MarshalIndent(bookmarks, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addBookmark(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bookmarkURL, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	account, err := req.RequireString("account")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := s.p.Insert(ctx, "bookmark", store.Values{
		models.BookmarkURL:         bookmarkURL,
		models.BookmarkDescription: description,
		models.BookmarkAccount:     account,
		models.BookmarkTags:        req.GetString("tags", ""),
		models.BookmarkNotes:       req.GetString("notes", ""),
		models.BookmarkToRead:      req.GetBool("toread", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(`{"id": %d}`, id)), nil
}

func (s *Server) unreadCount(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rs, err := s.p.Query(ctx, "unreadcount", nil, "", nil, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer rs.Close()

	counts := []store.UnreadCount{}
	for rs.Next() {
		var c store.UnreadCount
		if err := rs.Scan(&c.Count, &c.Account); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		counts = append(counts, c)
	}

	out, _ := json.MarshalIndent(counts, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
