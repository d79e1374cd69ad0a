package provider

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/starford/munin/internal/apperr"
	"github.com/starford/munin/internal/store"
)

// Shape classifies what a resource path addresses.
type Shape int

const (
	ShapeCollection Shape = iota
	ShapeItem
	ShapeSuggest
	ShapeUnreadCount
)

// Scope narrows a suggestion request.
type Scope int

const (
	ScopeNone     Scope = iota
	ScopeGlobal         // all accounts, all entity kinds
	ScopeMain           // active account, all entity kinds
	ScopeTag            // active account, tags only
	ScopeBookmark       // active account, bookmarks only
	ScopeNote           // active account, notes only
)

// Match is the routing result for one resource path.
type Match struct {
	Kind  store.Kind
	Shape Shape
	Scope Scope
	ID    int64  // set for ShapeItem
	Query string // raw suggestion text, may be empty
}

// routeEntry pairs a path pattern with the match it produces. In patterns,
// "#" stands for a numeric id segment and "*" for a free-text segment.
type routeEntry struct {
	pattern string
	match   Match
}

// routeTable is the fixed resource surface, evaluated per call and never
// mutated. A "#" segment only matches digits, so "bookmark/#" never shadows
// "bookmark/suggest".
var routeTable = []routeEntry{
	{"bookmark", Match{Kind: store.KindBookmark, Shape: ShapeCollection}},
	{"bookmark/#", Match{Kind: store.KindBookmark, Shape: ShapeItem}},
	{"tag", Match{Kind: store.KindTag, Shape: ShapeCollection}},
	{"note", Match{Kind: store.KindNote, Shape: ShapeCollection}},
	{"note/#", Match{Kind: store.KindNote, Shape: ShapeItem}},
	{"unreadcount", Match{Shape: ShapeUnreadCount}},
	{"global/suggest", Match{Shape: ShapeSuggest, Scope: ScopeGlobal}},
	{"global/suggest/*", Match{Shape: ShapeSuggest, Scope: ScopeGlobal}},
	{"main/suggest", Match{Shape: ShapeSuggest, Scope: ScopeMain}},
	{"main/suggest/*", Match{Shape: ShapeSuggest, Scope: ScopeMain}},
	{"tag/suggest", Match{Kind: store.KindTag, Shape: ShapeSuggest, Scope: ScopeTag}},
	{"tag/suggest/*", Match{Kind: store.KindTag, Shape: ShapeSuggest, Scope: ScopeTag}},
	{"bookmark/suggest", Match{Kind: store.KindBookmark, Shape: ShapeSuggest, Scope: ScopeBookmark}},
	{"bookmark/suggest/*", Match{Kind: store.KindBookmark, Shape: ShapeSuggest, Scope: ScopeBookmark}},
	{"note/suggest", Match{Kind: store.KindNote, Shape: ShapeSuggest, Scope: ScopeNote}},
	{"note/suggest/*", Match{Kind: store.KindNote, Shape: ShapeSuggest, Scope: ScopeNote}},
}

// Route resolves a resource path against the static pattern table. It
// performs no I/O and has no state.
func Route(path string) (Match, error) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for _, e := range routeTable {
		if m, ok := matchPattern(e.pattern, segs, e.match); ok {
			return m, nil
		}
	}
	return Match{}, fmt.Errorf("%w: %q", apperr.ErrUnrecognizedResource, path)
}

func matchPattern(pattern string, segs []string, base Match) (Match, bool) {
	parts := strings.Split(pattern, "/")
	if len(parts) != len(segs) {
		return Match{}, false
	}
	for i, p := range parts {
		switch p {
		case "#":
			id, err := strconv.ParseInt(segs[i], 10, 64)
			if err != nil {
				return Match{}, false
			}
			base.ID = id
		case "*":
			base.Query = segs[i]
		default:
			if p != segs[i] {
				return Match{}, false
			}
		}
	}
	return base, true
}
