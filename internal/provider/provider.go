// Package provider implements the resource mediator over the Munin store:
// path routing, filtered queries, mutations with change notification, and
// cross-entity search suggestion aggregation.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/starford/munin/internal/apperr"
	"github.com/starford/munin/internal/models"
	"github.com/starford/munin/internal/store"
)

// Notifier receives change notifications after every mutation. Notify is
// fire-and-forget; implementations must not block. Register records
// interest in a resource on behalf of a returned result set so that later
// writes to the same resource reach its consumer.
type Notifier interface {
	Notify(resource string, fullRefresh bool)
	Register(resource string)
}

// NopNotifier discards all notifications. Useful for one-shot consumers
// such as the MCP command.
type NopNotifier struct{}

func (NopNotifier) Notify(string, bool) {}
func (NopNotifier) Register(string)     {}

// Accounts exposes the externally managed account registry.
type Accounts interface {
	Current() string
	Count() int
}

// Settings supplies the live suggestion settings.
type Settings interface {
	SuggestIcons() bool
	SuggestLimit() int
}

// RowSet is a lazy, forward-only, single-pass sequence of rows.
type RowSet interface {
	Columns() []string
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Provider mediates access to the bookmark, tag and note collections.
type Provider struct {
	db       *store.DB
	accounts Accounts
	notifier Notifier
	settings Settings
	logger   *slog.Logger
}

// New creates a Provider over the given store.
func New(db *store.DB, accounts Accounts, notifier Notifier, settings Settings, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{db: db, accounts: accounts, notifier: notifier, settings: settings, logger: logger}
}

// Query resolves path and returns the matching rows. Collection and item
// queries apply the caller's parameterized filter and register the resource
// for change notification; suggest paths run the suggestion aggregator and
// the unreadcount path returns one row per account with to-read bookmarks.
func (p *Provider) Query(ctx context.Context, path string, projection []string, where string, args []any, orderBy string) (RowSet, error) {
	m, err := Route(path)
	if err != nil {
		return nil, err
	}

	switch m.Shape {
	case ShapeCollection:
		rs, err := p.db.Query(ctx, m.Kind, projection, where, args, orderBy, 0)
		if err != nil {
			return nil, err
		}
		p.notifier.Register(path)
		return rs, nil

	case ShapeItem:
		idWhere := models.RowID + " = ?"
		idArgs := []any{m.ID}
		if where != "" {
			idWhere += " AND (" + where + ")"
			idArgs = append(idArgs, args...)
		}
		rs, err := p.db.Query(ctx, m.Kind, projection, idWhere, idArgs, orderBy, 0)
		if err != nil {
			return nil, err
		}
		p.notifier.Register(path)
		return rs, nil

	case ShapeUnreadCount:
		counts, err := p.db.UnreadCounts(ctx)
		if err != nil {
			return nil, err
		}
		mr := newMatrixRows([]string{"count", "account"})
		for _, c := range counts {
			mr.addRow(c.Count, c.Account)
		}
		return mr, nil

	case ShapeSuggest:
		return p.suggest(ctx, m)

	default:
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnrecognizedResource, path)
	}
}

// Insert writes one row into the collection addressed by path and returns
// its new identity. Observers are notified with the new item's resource.
func (p *Provider) Insert(ctx context.Context, path string, values store.Values) (int64, error) {
	m, err := Route(path)
	if err != nil {
		return 0, err
	}
	if m.Shape != ShapeCollection {
		return 0, fmt.Errorf("%w: insert needs a collection resource, got %q", apperr.ErrUnrecognizedResource, path)
	}

	id, err := p.db.Insert(ctx, m.Kind, values)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", apperr.ErrWriteFailed, path, err)
	}
	p.notifier.Notify(path+"/"+strconv.FormatInt(id, 10), true)
	return id, nil
}

// Update applies values to the rows addressed by path and filter, returning
// the affected-row count. When the update touches exactly one field and that
// field sets the synced flag, the change notification is metadata-only.
func (p *Provider) Update(ctx context.Context, path string, values store.Values, where string, args []any) (int64, error) {
	m, err := Route(path)
	if err != nil {
		return 0, err
	}
	where, args, err = mutationFilter(m, where, args)
	if err != nil {
		return 0, err
	}

	count, err := p.db.Update(ctx, m.Kind, values, where, args)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", apperr.ErrWriteFailed, path, err)
	}
	p.notifier.Notify(path, !syncOnly(values))
	return count, nil
}

// Delete removes the rows addressed by path and filter, returning the
// affected-row count. A filter matching nothing is not an error.
func (p *Provider) Delete(ctx context.Context, path string, where string, args []any) (int64, error) {
	m, err := Route(path)
	if err != nil {
		return 0, err
	}
	where, args, err = mutationFilter(m, where, args)
	if err != nil {
		return 0, err
	}

	count, err := p.db.Delete(ctx, m.Kind, where, args)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", apperr.ErrWriteFailed, path, err)
	}
	p.notifier.Notify(path, false)
	return count, nil
}

// BulkInsert loads the batch into the collection addressed by path as one
// all-or-nothing transaction. On success the exact row count is returned and
// observers receive exactly one notification for the whole batch; on failure
// zero rows are reported and nothing is applied.
func (p *Provider) BulkInsert(ctx context.Context, path string, rows []store.Values) (int64, error) {
	m, err := Route(path)
	if err != nil {
		return 0, err
	}
	if m.Shape != ShapeCollection {
		return 0, fmt.Errorf("%w: bulk insert needs a collection resource, got %q", apperr.ErrUnrecognizedResource, path)
	}

	count, err := p.db.BulkInsert(ctx, m.Kind, rows)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", apperr.ErrBulkInsertFailed, path, err)
	}
	p.logger.Debug("bulk load complete", slog.String("resource", path), slog.Int64("rows", count))
	p.notifier.Notify(path, false)
	return count, nil
}

// mutationFilter scopes a mutation to the addressed rows: item paths pin the
// identity, collection paths pass the caller's filter through.
func mutationFilter(m Match, where string, args []any) (string, []any, error) {
	switch m.Shape {
	case ShapeCollection:
		return where, args, nil
	case ShapeItem:
		idWhere := models.RowID + " = ?"
		idArgs := []any{m.ID}
		if where != "" {
			idWhere += " AND (" + where + ")"
			idArgs = append(idArgs, args...)
		}
		return idWhere, idArgs, nil
	default:
		return "", nil, fmt.Errorf("%w: mutation needs a collection or item resource", apperr.ErrUnrecognizedResource)
	}
}

// syncOnly reports whether values is a metadata-only change: exactly one
// field, and that field sets the synced flag.
func syncOnly(values store.Values) bool {
	if len(values) != 1 {
		return false
	}
	v, ok := values[models.BookmarkSynced]
	if !ok {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case int:
		return x == 1
	case int64:
		return x == 1
	default:
		return false
	}
}
