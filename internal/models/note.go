package models

// Note table columns.
const (
	NoteTitle   = "title"
	NoteText    = "text"
	NoteAccount = "account"
)

// NoteColumns is the full projection for note queries, in schema order.
var NoteColumns = []string{RowID, NoteTitle, NoteText, NoteAccount}

// Note is a free-form text note owned by one account.
type Note struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	Account string `json:"account"`
}

// ScanNote reads one note from a row queried with NoteColumns.
func ScanNote(r RowScanner) (Note, error) {
	var n Note
	if err := r.Scan(&n.ID, &n.Title, &n.Text, &n.Account); err != nil {
		return Note{}, err
	}
	return n, nil
}
