// Package registry holds the live set of tracked accounts and their
// last-known connection/presence snapshots.
package registry

import (
	"sort"

	"github.com/statusarea/presenced/internal/models"
)

// Registry keeps one row per tracked account in insertion order, plus a
// sentinel row with an empty id representing the "no accounts" state. The
// sentinel is always present so that callers never special-case an empty
// registry; it sorts after every real account.
//
// The registry is not safe for concurrent use. It is owned and mutated by
// the aggregator's event loop only.
type Registry struct {
	rows  []*models.Account
	index map[string]*models.Account
}

// New returns a registry holding only the sentinel row.
func New() *Registry {
	r := &Registry{index: make(map[string]*models.Account)}
	r.rows = append(r.rows, &models.Account{}) // sentinel
	return r
}

// IsSentinel reports whether a row is the "no accounts" sentinel.
func IsSentinel(a *models.Account) bool {
	return a.ID == ""
}

// Len is the number of real (non-sentinel) accounts.
func (r *Registry) Len() int {
	return len(r.rows) - 1
}

// Find returns the row for an account id, or nil when untracked.
func (r *Registry) Find(id string) *models.Account {
	return r.index[id]
}

// Upsert inserts a new row for the account or updates the connection fields
// of an existing one. It reports whether a row was created. Upsert never
// removes rows.
func (r *Registry) Upsert(snap models.Account) (*models.Account, bool) {
	if row, ok := r.index[snap.ID]; ok {
		row.DisplayName = snap.DisplayName
		row.ServiceName = snap.ServiceName
		row.Protocol = snap.Protocol
		row.ConnectionManager = snap.ConnectionManager
		row.ConnectionStatus = snap.ConnectionStatus
		row.StatusReason = snap.StatusReason
		return row, false
	}

	row := snap
	r.rows = append(r.rows, &row)
	r.index[row.ID] = &row
	return &row, true
}

// Remove drops the row for an account id. Removing an untracked id is a
// no-op.
func (r *Registry) Remove(id string) bool {
	row, ok := r.index[id]
	if !ok {
		return false
	}
	delete(r.index, id)
	for i, candidate := range r.rows {
		if candidate == row {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			break
		}
	}
	return true
}

// ForEach visits every row in insertion order, sentinel included. The
// callback may mutate rows but must not add or remove them.
func (r *Registry) ForEach(fn func(*models.Account)) {
	for _, row := range r.rows {
		fn(row)
	}
}

// Accounts returns the real accounts in insertion order.
func (r *Registry) Accounts() []*models.Account {
	out := make([]*models.Account, 0, r.Len())
	for _, row := range r.rows {
		if !IsSentinel(row) {
			out = append(out, row)
		}
	}
	return out
}

// presenceWeight orders rows by severity for display: available first, then
// busy-like states, then offline rows that still carry a message, then plain
// offline.
func presenceWeight(row *models.Account) int {
	if row.PresenceType != models.PresenceOffline {
		if row.PresenceType == models.PresenceAvailable {
			return 0
		}
		return 1
	}
	if row.StatusMessage != "" {
		return 2
	}
	return 3
}

// SortedSnapshot returns copies of all rows, sentinel included and always
// last, ordered by severity with ties broken by service name then display
// name. The sort is stable so equal rows keep insertion order.
func (r *Registry) SortedSnapshot() []models.Account {
	out := make([]models.Account, len(r.rows))
	for i, row := range r.rows {
		out[i] = *row
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if IsSentinel(a) {
			return false
		}
		if IsSentinel(b) {
			return true
		}
		if wa, wb := presenceWeight(a), presenceWeight(b); wa != wb {
			return wa < wb
		}
		if a.ServiceName != b.ServiceName {
			return a.ServiceName < b.ServiceName
		}
		return a.DisplayName < b.DisplayName
	})
	return out
}
