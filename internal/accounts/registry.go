// Package accounts holds the in-process registry of configured accounts.
// The data layer treats accounts as weak string references; this registry is
// the external collaborator that answers "which account is active" and "how
// many accounts exist".
package accounts

import (
	"slices"
	"sync"
)

// Registry tracks the configured accounts and which one is active. It is
// safe for concurrent use; the settings watcher may swap the active account
// or the whole set at runtime.
type Registry struct {
	mu      sync.RWMutex
	names   []string
	current string
}

// NewRegistry creates a registry. When active is empty the first configured
// account becomes active.
func NewRegistry(names []string, active string) *Registry {
	if active == "" && len(names) > 0 {
		active = names[0]
	}
	return &Registry{names: slices.Clone(names), current: active}
}

// Current returns the active account name, or empty when none is configured.
func (r *Registry) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Count returns the number of configured accounts.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// All returns a copy of the configured account names.
func (r *Registry) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.names)
}

// Replace swaps the configured set and the active account in one step.
// When active is empty or unknown the first name becomes active.
func (r *Registry) Replace(names []string, active string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = slices.Clone(names)
	if active == "" || !slices.Contains(r.names, active) {
		active = ""
		if len(r.names) > 0 {
			active = r.names[0]
		}
	}
	r.current = active
}
