package provider

import (
	"errors"
	"testing"

	"github.com/starford/munin/internal/apperr"
	"github.com/starford/munin/internal/store"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		path string
		want Match
	}{
		{"bookmark", Match{Kind: store.KindBookmark, Shape: ShapeCollection}},
		{"bookmark/42", Match{Kind: store.KindBookmark, Shape: ShapeItem, ID: 42}},
		{"tag", Match{Kind: store.KindTag, Shape: ShapeCollection}},
		{"note", Match{Kind: store.KindNote, Shape: ShapeCollection}},
		{"note/7", Match{Kind: store.KindNote, Shape: ShapeItem, ID: 7}},
		{"unreadcount", Match{Shape: ShapeUnreadCount}},
		{"global/suggest", Match{Shape: ShapeSuggest, Scope: ScopeGlobal}},
		{"global/suggest/recipe pasta", Match{Shape: ShapeSuggest, Scope: ScopeGlobal, Query: "recipe pasta"}},
		{"main/suggest/x", Match{Shape: ShapeSuggest, Scope: ScopeMain, Query: "x"}},
		{"tag/suggest/go", Match{Kind: store.KindTag, Shape: ShapeSuggest, Scope: ScopeTag, Query: "go"}},
		{"bookmark/suggest", Match{Kind: store.KindBookmark, Shape: ShapeSuggest, Scope: ScopeBookmark}},
		{"note/suggest/todo", Match{Kind: store.KindNote, Shape: ShapeSuggest, Scope: ScopeNote, Query: "todo"}},
	}

	for _, tt := range tests {
		got, err := Route(tt.path)
		if err != nil {
			t.Errorf("Route(%q): %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Route(%q) = %+v, want %+v", tt.path, got, tt.want)
		}
	}
}

func TestRouteUnrecognized(t *testing.T) {
	for _, path := range []string{"", "folder", "bookmark/abc", "tag/7", "suggest", "global/suggest/a/b", "bookmark/42/edit"} {
		if _, err := Route(path); !errors.Is(err, apperr.ErrUnrecognizedResource) {
			t.Errorf("Route(%q) err = %v, want ErrUnrecognizedResource", path, err)
		}
	}
}

func TestRouteIsPure(t *testing.T) {
	// Same path, same result, no state between calls.
	a, err := Route("bookmark/9")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Route("bookmark/9")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("Route not deterministic: %+v vs %+v", a, b)
	}
}
