package provider

import (
	"context"
	"fmt"
	"testing"

	"github.com/starford/munin/internal/models"
	"github.com/starford/munin/internal/store"
	"github.com/starford/munin/internal/testutil"
)

func insertTag(t *testing.T, p *Provider, account, name string, count int) {
	t.Helper()
	_, err := p.Insert(context.Background(), "tag", store.Values{
		models.TagName:    name,
		models.TagCount:   count,
		models.TagAccount: account,
	})
	if err != nil {
		t.Fatalf("insert tag: %v", err)
	}
}

func insertNote(t *testing.T, p *Provider, account, title, text string) {
	t.Helper()
	_, err := p.Insert(context.Background(), "note", store.Values{
		models.NoteTitle:   title,
		models.NoteText:    text,
		models.NoteAccount: account,
	})
	if err != nil {
		t.Fatalf("insert note: %v", err)
	}
}

// collectRows drains a RowSet into one generic map per row.
func collectRows(t *testing.T, rs RowSet) []map[string]any {
	t.Helper()
	defer rs.Close()

	cols := rs.Columns()
	var out []map[string]any
	for rs.Next() {
		dest := make([]any, len(cols))
		for i := range dest {
			dest[i] = new(any)
		}
		if err := rs.Scan(dest...); err != nil {
			t.Fatalf("Scan: %v", err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = *dest[i].(*any)
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	return out
}

func suggestRows(t *testing.T, p *Provider, path string) []map[string]any {
	t.Helper()
	rs, err := p.Query(context.Background(), path, nil, "", nil, "")
	if err != nil {
		t.Fatalf("Query %s: %v", path, err)
	}
	return collectRows(t, rs)
}

func TestSuggestBookmarkSingleAccount(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 1}, true)

	id := insertBookmark(t, p, "alice", "https://example.com/pasta", "Pasta recipe", "weeknight dinner")
	insertBookmark(t, p, "alice", "https://example.com/other", "Gardening", "")

	rows := suggestRows(t, p, "main/suggest/pasta")
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	r := rows[0]
	if r["text1"] != "Pasta recipe" {
		t.Errorf("text1 = %v", r["text1"])
	}
	if r["text2"] != "https://example.com/pasta" || r["text2_url"] != "https://example.com/pasta" {
		t.Errorf("text2 = %v, text2_url = %v, want bookmark url in both", r["text2"], r["text2_url"])
	}
	if r["icon"] != models.IconBookmark {
		t.Errorf("icon = %v", r["icon"])
	}
	if r["action"] != models.ActionView {
		t.Errorf("action = %v", r["action"])
	}
	if want := fmt.Sprintf("munin://alice/bookmarks/%d", id); r["target"] != want {
		t.Errorf("target = %v, want %v", r["target"], want)
	}
}

func TestSuggestMatchesCaseInsensitively(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 1}, true)
	insertBookmark(t, p, "alice", "https://example.com/pasta", "Pasta Recipe", "")

	if rows := suggestRows(t, p, "main/suggest/PASTA"); len(rows) != 1 {
		t.Errorf("uppercase query rows = %d, want 1", len(rows))
	}
}

func TestSuggestAllTokensMustMatch(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 1}, true)
	insertBookmark(t, p, "alice", "https://a.example", "Pasta recipe", "")
	insertBookmark(t, p, "alice", "https://b.example", "Pasta history", "")

	rows := suggestRows(t, p, "main/suggest/pasta recipe")
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0]["text1"] != "Pasta recipe" {
		t.Errorf("text1 = %v", rows[0]["text1"])
	}
}

func TestSuggestTokensMatchAcrossFields(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 1}, true)
	insertBookmark(t, p, "alice", "https://a.example", "Pasta recipe", "weeknight dinner")

	// One token matches the description, the other only the notes field.
	if rows := suggestRows(t, p, "main/suggest/pasta dinner"); len(rows) != 1 {
		t.Errorf("rows = %d, want 1", len(rows))
	}
}

func TestSuggestEmptyQuery(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 1}, true)
	insertBookmark(t, p, "alice", "https://a.example", "Pasta recipe", "")

	if rows := suggestRows(t, p, "main/suggest"); len(rows) != 0 {
		t.Errorf("no-query rows = %d, want 0", len(rows))
	}
	if rows := suggestRows(t, p, "main/suggest/   "); len(rows) != 0 {
		t.Errorf("whitespace-query rows = %d, want 0", len(rows))
	}
}

func TestSuggestGlobalMultiAccount(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 2}, true)
	insertTag(t, p, "alice", "tag1", 5)
	insertTag(t, p, "bob", "tag1", 2)

	rows := suggestRows(t, p, "global/suggest/tag1")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (one per account)", len(rows))
	}
	// Dedup keys sort lexicographically, so alice's entry comes first.
	if rows[0]["text2"] != "alice" || rows[1]["text2"] != "bob" {
		t.Errorf("text2 = [%v %v], want owning accounts", rows[0]["text2"], rows[1]["text2"])
	}
}

func TestSuggestGlobalMultiAccountHidesBookmarkURL(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 2}, true)
	insertBookmark(t, p, "bob", "https://b.example/pasta", "Pasta recipe", "")

	rows := suggestRows(t, p, "global/suggest/pasta")
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0]["text2"] != "bob" {
		t.Errorf("text2 = %v, want owning account", rows[0]["text2"])
	}
	if rows[0]["text2_url"] != "" {
		t.Errorf("text2_url = %v, want empty across accounts", rows[0]["text2_url"])
	}
}

func TestSuggestScopedToActiveAccount(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 2}, true)
	insertBookmark(t, p, "alice", "https://a.example/pasta", "Pasta recipe", "")
	insertBookmark(t, p, "bob", "https://b.example/pasta", "Pasta recipe", "")

	rows := suggestRows(t, p, "main/suggest/pasta")
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want only the active account's match", len(rows))
	}
	if rows[0]["text2"] != "https://a.example/pasta" {
		t.Errorf("text2 = %v", rows[0]["text2"])
	}
}

func TestSuggestDedupAcrossKinds(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 1}, true)
	// Same display text in two different kinds stays as two rows.
	insertTag(t, p, "alice", "recipes", 3)
	insertNote(t, p, "alice", "recipes", "shopping list")

	rows := suggestRows(t, p, "main/suggest/recipes")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (kind is part of the dedup key)", len(rows))
	}
}

func TestSuggestRowIDsSequential(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 1}, true)
	insertTag(t, p, "alice", "tag1", 1)
	insertTag(t, p, "alice", "tag2", 1)
	insertTag(t, p, "alice", "tag3", 1)

	rows := suggestRows(t, p, "tag/suggest/tag")
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, r := range rows {
		if r["_id"] != int64(i) {
			t.Errorf("row %d _id = %v, want %d", i, r["_id"], i)
		}
	}
}

func TestSuggestIconColumnToggle(t *testing.T) {
	withIcons, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 1}, true)
	insertTag(t, withIcons, "alice", "tag1", 1)

	rows := suggestRows(t, withIcons, "tag/suggest/tag1")
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0]["icon"] != models.IconTag {
		t.Errorf("icon = %v, want %q", rows[0]["icon"], models.IconTag)
	}

	withoutIcons, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 1}, false)
	insertTag(t, withoutIcons, "alice", "tag1", 1)

	rows = suggestRows(t, withoutIcons, "tag/suggest/tag1")
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if _, present := rows[0]["icon"]; present {
		t.Error("icon column present with icons disabled")
	}
}

func TestSuggestPerKindLimit(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 1}, true)
	for i := 0; i < 15; i++ {
		insertTag(t, p, "alice", fmt.Sprintf("tag%02d", i), 1)
	}

	rows := suggestRows(t, p, "tag/suggest/tag")
	if len(rows) != 10 {
		t.Errorf("rows = %d, want the per-kind cap of 10", len(rows))
	}
}

func TestSuggestSingleKindScopes(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 1}, true)
	insertBookmark(t, p, "alice", "https://a.example", "shared word", "")
	insertTag(t, p, "alice", "shared", 1)
	insertNote(t, p, "alice", "shared thoughts", "body")

	cases := []struct {
		path string
		icon string
	}{
		{"bookmark/suggest/shared", models.IconBookmark},
		{"tag/suggest/shared", models.IconTag},
		{"note/suggest/shared", models.IconNote},
	}
	for _, tc := range cases {
		rows := suggestRows(t, p, tc.path)
		if len(rows) != 1 {
			t.Errorf("%s: rows = %d, want 1", tc.path, len(rows))
			continue
		}
		if rows[0]["icon"] != tc.icon {
			t.Errorf("%s: icon = %v, want %q", tc.path, rows[0]["icon"], tc.icon)
		}
	}
}

func TestSuggestTagSecondLine(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 1}, true)
	insertTag(t, p, "alice", "golang", 12)

	rows := suggestRows(t, p, "tag/suggest/golang")
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0]["text2"] != "12 bookmarks" {
		t.Errorf("text2 = %v, want usage count", rows[0]["text2"])
	}
	if want := "munin://alice/bookmarks?tag=golang"; rows[0]["target"] != want {
		t.Errorf("target = %v, want %v", rows[0]["target"], want)
	}
}

func TestSuggestDeterministicOrdering(t *testing.T) {
	p, _ := testProvider(t, testutil.StaticAccounts{Active: "alice", Total: 1}, true)
	insertNote(t, p, "alice", "zeta pasta", "")
	insertBookmark(t, p, "alice", "https://a.example", "alpha pasta", "")
	insertTag(t, p, "alice", "pasta", 1)

	want := []string{"alpha pasta", "pasta", "zeta pasta"}
	for i := 0; i < 5; i++ {
		rows := suggestRows(t, p, "main/suggest/pasta")
		if len(rows) != len(want) {
			t.Fatalf("rows = %d, want %d", len(rows), len(want))
		}
		for j, r := range rows {
			if r["text1"] != want[j] {
				t.Fatalf("run %d row %d text1 = %v, want %v", i, j, r["text1"], want[j])
			}
		}
	}
}
