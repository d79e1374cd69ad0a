package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/munin/internal/apperr"
	"github.com/starford/munin/internal/models"
	"github.com/starford/munin/internal/store"
)

// defaultSuggestionLimit caps each per-kind candidate search.
const defaultSuggestionLimit = 10

func (p *Provider) suggestionLimit() int {
	if n := p.settings.SuggestLimit(); n > 0 {
		return n
	}
	return defaultSuggestionLimit
}

// suggest dispatches a routed suggestion request to the right scope. The
// query text is lowercased before tokenizing; SQLite LIKE matching is
// case-insensitive for ASCII, so candidates match regardless of stored case.
func (p *Provider) suggest(ctx context.Context, m Match) (RowSet, error) {
	query := strings.ToLower(m.Query)
	account := p.accounts.Current()
	accountCount := p.accounts.Count()

	switch m.Scope {
	case ScopeGlobal:
		return p.searchSuggestions(ctx, query, false, account, accountCount)
	case ScopeMain:
		return p.searchSuggestions(ctx, query, true, account, accountCount)
	case ScopeTag:
		s, err := p.tagSuggestions(ctx, query, true, account, accountCount)
		if err != nil {
			return nil, err
		}
		return p.shapeRows(s), nil
	case ScopeBookmark:
		s, err := p.bookmarkSuggestions(ctx, query, true, account, accountCount)
		if err != nil {
			return nil, err
		}
		return p.shapeRows(s), nil
	case ScopeNote:
		s, err := p.noteSuggestions(ctx, query, true, account, accountCount)
		if err != nil {
			return nil, err
		}
		return p.shapeRows(s), nil
	default:
		return nil, fmt.Errorf("%w: unknown suggestion scope", apperr.ErrUnrecognizedResource)
	}
}

// searchSuggestions aggregates bookmark, tag and note suggestions for one
// query. The three per-kind searches have no ordering dependency and run
// concurrently; the merge happens only after all complete and emits rows in
// dedup-key order, so completion order never affects the result.
func (p *Provider) searchSuggestions(ctx context.Context, query string, accountSpecific bool, account string, accountCount int) (RowSet, error) {
	var tagS, bookmarkS, noteS map[string]models.SearchSuggestion

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tagS, err = p.tagSuggestions(gctx, query, accountSpecific, account, accountCount)
		return err
	})
	g.Go(func() error {
		var err error
		bookmarkS, err = p.bookmarkSuggestions(gctx, query, accountSpecific, account, accountCount)
		return err
	})
	g.Go(func() error {
		var err error
		noteS, err = p.noteSuggestions(gctx, query, accountSpecific, account, accountCount)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]models.SearchSuggestion, len(tagS)+len(bookmarkS)+len(noteS))
	for k, v := range tagS {
		merged[k] = v
	}
	for k, v := range bookmarkS {
		merged[k] = v
	}
	for k, v := range noteS {
		merged[k] = v
	}
	return p.shapeRows(merged), nil
}

// tokenFilter builds the conjunctive LIKE filter for one entity kind: every
// token must match fieldClause, and when account-scoped the account clause
// is repeated once per token. The repetition is redundant but deliberate; it
// mirrors the token-loop construction of the filter and must not be
// collapsed without checking observable results.
func tokenFilter(tokens []string, fieldClause string, argsPerToken int, accountSpecific bool, account string) (string, []any) {
	var clauses []string
	var args []any
	for _, tok := range tokens {
		clauses = append(clauses, fieldClause)
		for i := 0; i < argsPerToken; i++ {
			args = append(args, "%"+tok+"%")
		}
		if accountSpecific {
			// All three tables name the owning-account column "account".
			clauses = append(clauses, "account = ?")
			args = append(args, account)
		}
	}
	return strings.Join(clauses, " AND "), args
}

// bookmarkSuggestions returns bookmark candidates keyed by dedup key. Every
// token must substring-match the description or the notes field.
func (p *Provider) bookmarkSuggestions(ctx context.Context, query string, accountSpecific bool, account string, accountCount int) (map[string]models.SearchSuggestion, error) {
	suggestions := make(map[string]models.SearchSuggestion)
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return suggestions, nil
	}

	where, args := tokenFilter(tokens,
		"("+models.BookmarkDescription+" LIKE ? OR "+models.BookmarkNotes+" LIKE ?)",
		2, accountSpecific, account)
	projection := []string{models.RowID, models.BookmarkDescription, models.BookmarkURL, models.BookmarkAccount}

	rows, err := p.db.Query(ctx, store.KindBookmark, projection, where, args, "", p.suggestionLimit())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var description, link, acct string
		if err := rows.Scan(&id, &description, &link, &acct); err != nil {
			return nil, err
		}

		line2 := link
		line2URL := link
		if !accountSpecific && accountCount > 1 {
			// A cross-account suggestion names the owning account instead
			// of exposing the bookmark URL.
			line2 = acct
			line2URL = ""
		}

		suggestions[suggestKey(description, "bookmark", acct)] = models.SearchSuggestion{
			Text1:    description,
			Text2:    line2,
			Text2URL: line2URL,
			Icon:     models.IconBookmark,
			Target:   bookmarkTarget(acct, id),
			Action:   models.ActionView,
		}
	}
	return suggestions, rows.Err()
}

// tagSuggestions returns tag candidates keyed by dedup key. Every token must
// substring-match the tag name.
func (p *Provider) tagSuggestions(ctx context.Context, query string, accountSpecific bool, account string, accountCount int) (map[string]models.SearchSuggestion, error) {
	suggestions := make(map[string]models.SearchSuggestion)
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return suggestions, nil
	}

	where, args := tokenFilter(tokens, models.TagName+" LIKE ?", 1, accountSpecific, account)
	projection := []string{models.RowID, models.TagName, models.TagCount, models.TagAccount}

	rows, err := p.db.Query(ctx, store.KindTag, projection, where, args, "", p.suggestionLimit())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, count int64
		var name, acct string
		if err := rows.Scan(&id, &name, &count, &acct); err != nil {
			return nil, err
		}

		line2 := fmt.Sprintf("%d bookmarks", count)
		if !accountSpecific && accountCount > 1 {
			line2 = acct
		}

		suggestions[suggestKey(name, "tag", acct)] = models.SearchSuggestion{
			Text1:  name,
			Text2:  line2,
			Icon:   models.IconTag,
			Target: tagTarget(acct, name),
			Action: models.ActionView,
		}
	}
	return suggestions, rows.Err()
}

// noteSuggestions returns note candidates keyed by dedup key. Every token
// must substring-match the title or the text field.
func (p *Provider) noteSuggestions(ctx context.Context, query string, accountSpecific bool, account string, accountCount int) (map[string]models.SearchSuggestion, error) {
	suggestions := make(map[string]models.SearchSuggestion)
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return suggestions, nil
	}

	where, args := tokenFilter(tokens,
		"("+models.NoteTitle+" LIKE ? OR "+models.NoteText+" LIKE ?)",
		2, accountSpecific, account)
	projection := []string{models.RowID, models.NoteTitle, models.NoteText, models.NoteAccount}

	rows, err := p.db.Query(ctx, store.KindNote, projection, where, args, "", p.suggestionLimit())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var title, text, acct string
		if err := rows.Scan(&id, &title, &text, &acct); err != nil {
			return nil, err
		}

		line2 := text
		if !accountSpecific && accountCount > 1 {
			line2 = acct
		}

		suggestions[suggestKey(title, "note", acct)] = models.SearchSuggestion{
			Text1:  title,
			Text2:  line2,
			Icon:   models.IconNote,
			Target: noteTarget(acct, id),
			Action: models.ActionView,
		}
	}
	return suggestions, rows.Err()
}

// suggestKey builds the composite dedup key that keeps suggestions unique
// across entity kinds and accounts even when the primary text collides.
func suggestKey(text1, kind, account string) string {
	return text1 + "_" + kind + "_" + account
}

func bookmarkTarget(account string, id int64) string {
	u := url.URL{Scheme: "munin", Host: account, Path: "/bookmarks/" + strconv.FormatInt(id, 10)}
	return u.String()
}

func tagTarget(account, name string) string {
	u := url.URL{Scheme: "munin", Host: account, Path: "/bookmarks",
		RawQuery: url.Values{"tag": {name}}.Encode()}
	return u.String()
}

func noteTarget(account string, id int64) string {
	u := url.URL{Scheme: "munin", Host: account, Path: "/notes/" + strconv.FormatInt(id, 10)}
	return u.String()
}
