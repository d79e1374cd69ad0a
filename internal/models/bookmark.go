// Package models defines the domain types for Munin.
package models

// RowID is the integer identity column shared by every table.
const RowID = "_id"

// Bookmark table columns.
const (
	BookmarkURL         = "url"
	BookmarkDescription = "description"
	BookmarkNotes       = "notes"
	BookmarkTags        = "tags"
	BookmarkShared      = "shared"
	BookmarkToRead      = "toread"
	BookmarkTime        = "time"
	BookmarkAccount     = "account"
	BookmarkSynced      = "synced"
)

// BookmarkColumns is the full projection for bookmark queries, in schema order.
var BookmarkColumns = []string{
	RowID, BookmarkURL, BookmarkDescription, BookmarkNotes, BookmarkTags,
	BookmarkShared, BookmarkToRead, BookmarkTime, BookmarkAccount, BookmarkSynced,
}

// Bookmark represents a saved link owned by one account.
type Bookmark struct {
	ID          int64  `json:"id"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Notes       string `json:"notes,omitempty"`
	Tags        string `json:"tags,omitempty"` // space-delimited tag names
	Shared      bool   `json:"shared"`
	ToRead      bool   `json:"toread"`
	Time        int64  `json:"time"`
	Account     string `json:"account"`
	Synced      bool   `json:"synced"`
}

// RowScanner is the subset of a result set needed to read one row.
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanBookmark reads one bookmark from a row queried with BookmarkColumns.
func ScanBookmark(r RowScanner) (Bookmark, error) {
	var b Bookmark
	var shared, toread, synced int64
	if err := r.Scan(&b.ID, &b.URL, &b.Description, &b.Notes, &b.Tags,
		&shared, &toread, &b.Time, &b.Account, &synced); err != nil {
		return Bookmark{}, err
	}
	b.Shared = shared != 0
	b.ToRead = toread != 0
	b.Synced = synced != 0
	return b, nil
}
