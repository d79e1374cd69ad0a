package provider

import (
	"errors"
	"fmt"
	"sort"

	"github.com/starford/munin/internal/models"
)

// Suggestion row columns.
const (
	colRowID    = "_id"
	colText1    = "text1"
	colText2    = "text2"
	colText2URL = "text2_url"
	colTarget   = "target"
	colAction   = "action"
	colIcon     = "icon"
)

// matrixRows is a materialized RowSet used for suggestion and aggregate
// results. It satisfies the same forward-only contract as store rows.
type matrixRows struct {
	columns []string
	rows    [][]any
	pos     int
}

func newMatrixRows(columns []string) *matrixRows {
	return &matrixRows{columns: columns, pos: -1}
}

func (m *matrixRows) addRow(vals ...any) {
	m.rows = append(m.rows, vals)
}

func (m *matrixRows) Columns() []string { return m.columns }

func (m *matrixRows) Next() bool {
	if m.pos+1 >= len(m.rows) {
		m.pos = len(m.rows)
		return false
	}
	m.pos++
	return true
}

func (m *matrixRows) Scan(dest ...any) error {
	if m.pos < 0 || m.pos >= len(m.rows) {
		return errors.New("provider: Scan called without Next")
	}
	row := m.rows[m.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("provider: Scan wants %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		if err := assign(d, row[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *matrixRows) Err() error   { return nil }
func (m *matrixRows) Close() error { return nil }

func assign(dest, src any) error {
	switch d := dest.(type) {
	case *any:
		*d = src
	case *string:
		s, ok := src.(string)
		if !ok {
			return fmt.Errorf("provider: cannot scan %T into *string", src)
		}
		*d = s
	case *int64:
		switch s := src.(type) {
		case int64:
			*d = s
		case int:
			*d = int64(s)
		default:
			return fmt.Errorf("provider: cannot scan %T into *int64", src)
		}
	default:
		return fmt.Errorf("provider: unsupported scan destination %T", dest)
	}
	return nil
}

// shapeRows converts merged suggestions into the ordered row sequence
// consumed by callers: dedup-key (lexicographic) order, sequential synthetic
// row ids, and the icon column present only when suggestion icons are
// enabled.
func (p *Provider) shapeRows(suggestions map[string]models.SearchSuggestion) *matrixRows {
	keys := make([]string, 0, len(suggestions))
	for k := range suggestions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	icons := p.settings.SuggestIcons()
	columns := []string{colRowID, colText1, colText2, colText2URL, colTarget, colAction}
	if icons {
		columns = append(columns, colIcon)
	}

	mr := newMatrixRows(columns)
	for i, k := range keys {
		s := suggestions[k]
		row := []any{int64(i), s.Text1, s.Text2, s.Text2URL, s.Target, s.Action}
		if icons {
			row = append(row, s.Icon)
		}
		mr.addRow(row...)
	}
	return mr
}
