// Package testutil provides shared test helpers for setting up databases
// and collaborator fakes.
package testutil

import (
	"os"
	"sync"
	"testing"

	"github.com/starford/munin/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "munin-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Notification records one change notification.
type Notification struct {
	Resource string
	Full     bool
}

// RecordingNotifier captures notifications and registrations for assertions.
type RecordingNotifier struct {
	mu            sync.Mutex
	Notifications []Notification
	Registered    []string
}

func (n *RecordingNotifier) Notify(resource string, fullRefresh bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notifications = append(n.Notifications, Notification{Resource: resource, Full: fullRefresh})
}

func (n *RecordingNotifier) Register(resource string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Registered = append(n.Registered, resource)
}

// Last returns the most recent notification.
func (n *RecordingNotifier) Last(t *testing.T) Notification {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Notifications) == 0 {
		t.Fatal("no notifications recorded")
	}
	return n.Notifications[len(n.Notifications)-1]
}

// Count returns the number of recorded notifications.
func (n *RecordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Notifications)
}

// StaticAccounts is a fixed account registry fake.
type StaticAccounts struct {
	Active string
	Total  int
}

func (a StaticAccounts) Current() string { return a.Active }
func (a StaticAccounts) Count() int      { return a.Total }

// StaticSettings is a fixed suggestion-settings fake.
type StaticSettings struct {
	Icons bool
	Limit int
}

func (s StaticSettings) SuggestIcons() bool { return s.Icons }
func (s StaticSettings) SuggestLimit() int  { return s.Limit }
