package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusarea/presenced/internal/models"
)

// TestRegistry_Sentinel tests that a fresh registry holds only the sentinel
func TestRegistry_Sentinel(t *testing.T) {
	r := New()

	assert.Equal(t, 0, r.Len(), "Sentinel does not count as a real account")
	assert.Empty(t, r.Accounts())

	snapshot := r.SortedSnapshot()
	require.Len(t, snapshot, 1)
	assert.True(t, IsSentinel(&snapshot[0]))
}

// TestRegistry_Upsert tests create vs update
func TestRegistry_Upsert(t *testing.T) {
	r := New()

	row, created := r.Upsert(models.Account{
		ID:               "jabber/acct0",
		DisplayName:      "alice@example.org",
		ConnectionStatus: models.StatusConnecting,
	})
	require.True(t, created)
	assert.Equal(t, 1, r.Len())

	// A later pass wrote presence onto the row
	row.PresenceType = models.PresenceAvailable
	row.StatusMessage = "hello"

	// ACT: Upsert the same id again with fresh connection fields
	again, created := r.Upsert(models.Account{
		ID:               "jabber/acct0",
		DisplayName:      "Alice",
		ConnectionStatus: models.StatusConnected,
	})

	// ASSERT: Same row, identity refreshed, computed fields untouched
	require.False(t, created)
	assert.Same(t, row, again)
	assert.Equal(t, "Alice", row.DisplayName)
	assert.Equal(t, models.StatusConnected, row.ConnectionStatus)
	assert.Equal(t, models.PresenceAvailable, row.PresenceType, "Upsert must not clobber aggregation results")
	assert.Equal(t, "hello", row.StatusMessage)
}

// TestRegistry_Remove tests removal and untracked ids
func TestRegistry_Remove(t *testing.T) {
	r := New()
	r.Upsert(models.Account{ID: "jabber/acct0"})

	assert.True(t, r.Remove("jabber/acct0"))
	assert.False(t, r.Remove("jabber/acct0"), "Second removal is a no-op")
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Find("jabber/acct0"))

	// Sentinel survives removals
	assert.Len(t, r.SortedSnapshot(), 1)
}

// TestRegistry_ForEach tests the full walk, sentinel included
func TestRegistry_ForEach(t *testing.T) {
	r := New()
	r.Upsert(models.Account{ID: "a"})
	r.Upsert(models.Account{ID: "b"})

	var ids []string
	sentinels := 0
	r.ForEach(func(row *models.Account) {
		if IsSentinel(row) {
			sentinels++
			return
		}
		ids = append(ids, row.ID)
	})

	assert.Equal(t, []string{"a", "b"}, ids, "Real rows visit in insertion order")
	assert.Equal(t, 1, sentinels)
}

// TestRegistry_SortedSnapshot tests the severity ordering
func TestRegistry_SortedSnapshot(t *testing.T) {
	r := New()

	offlinePlain, _ := r.Upsert(models.Account{ID: "a", ServiceName: "Jabber", DisplayName: "plain"})
	offlinePlain.PresenceType = models.PresenceOffline

	available, _ := r.Upsert(models.Account{ID: "b", ServiceName: "Jabber", DisplayName: "up"})
	available.PresenceType = models.PresenceAvailable

	offlineWithError, _ := r.Upsert(models.Account{ID: "c", ServiceName: "SIP", DisplayName: "broken"})
	offlineWithError.PresenceType = models.PresenceOffline
	offlineWithError.StatusMessage = "Network error"

	busy, _ := r.Upsert(models.Account{ID: "d", ServiceName: "Jabber", DisplayName: "busy"})
	busy.PresenceType = models.PresenceBusy

	snapshot := r.SortedSnapshot()
	require.Len(t, snapshot, 5)

	assert.Equal(t, "b", snapshot[0].ID, "Available rows sort first")
	assert.Equal(t, "d", snapshot[1].ID, "Busy-like rows follow")
	assert.Equal(t, "c", snapshot[2].ID, "Offline rows with a message precede plain offline")
	assert.Equal(t, "a", snapshot[3].ID)
	assert.True(t, IsSentinel(&snapshot[4]), "Sentinel always sorts last")
}

// TestRegistry_SortedSnapshot_Ties tests the service/display tie-breakers
func TestRegistry_SortedSnapshot_Ties(t *testing.T) {
	r := New()

	for _, acct := range []models.Account{
		{ID: "1", ServiceName: "Skype", DisplayName: "bob"},
		{ID: "2", ServiceName: "Jabber", DisplayName: "zoe"},
		{ID: "3", ServiceName: "Jabber", DisplayName: "ann"},
	} {
		row, _ := r.Upsert(acct)
		row.PresenceType = models.PresenceAvailable
	}

	snapshot := r.SortedSnapshot()

	assert.Equal(t, "3", snapshot[0].ID, "Equal severity sorts by service name then display name")
	assert.Equal(t, "2", snapshot[1].ID)
	assert.Equal(t, "1", snapshot[2].ID)
}
