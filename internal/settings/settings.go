// Package settings holds the live-reloadable search settings. The watcher
// re-reads the config file on change, so the provider always sees current
// values without a restart.
package settings

import "sync/atomic"

// Settings is the atomically updatable view of the suggestion configuration.
type Settings struct {
	icons atomic.Bool
	limit atomic.Int64
}

// New creates settings with the given initial values.
func New(icons bool, limit int) *Settings {
	s := &Settings{}
	s.Update(icons, limit)
	return s
}

// SuggestIcons reports whether suggestion rows carry the icon column.
func (s *Settings) SuggestIcons() bool { return s.icons.Load() }

// SuggestLimit returns the per-kind suggestion row cap.
func (s *Settings) SuggestLimit() int { return int(s.limit.Load()) }

// Update swaps both values.
func (s *Settings) Update(icons bool, limit int) {
	s.icons.Store(icons)
	s.limit.Store(int64(limit))
}
