package models

// Tag table columns.
const (
	TagName    = "name"
	TagCount   = "count"
	TagAccount = "account"
)

// TagColumns is the full projection for tag queries, in schema order.
var TagColumns = []string{RowID, TagName, TagCount, TagAccount}

// Tag is an account-scoped secondary index entry: a tag name and the number
// of bookmarks that reference it. The count is maintained by the bookmark
// add/remove flows, never by this layer.
type Tag struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Count   int64  `json:"count"`
	Account string `json:"account"`
}

// ScanTag reads one tag from a row queried with TagColumns.
func ScanTag(r RowScanner) (Tag, error) {
	var t Tag
	if err := r.Scan(&t.ID, &t.Name, &t.Count, &t.Account); err != nil {
		return Tag{}, err
	}
	return t, nil
}
