package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/statusarea/presenced/internal/models"
)

// fakeCaps is an in-memory CapabilityProvider for resolver tests.
type fakeCaps struct {
	presence map[models.CapabilityKey]bool
	statuses map[models.CapabilityKey][]models.PresenceStatusSpec
}

func newFakeCaps() *fakeCaps {
	return &fakeCaps{
		presence: make(map[models.CapabilityKey]bool),
		statuses: make(map[models.CapabilityKey][]models.PresenceStatusSpec),
	}
}

func (f *fakeCaps) HasPresenceInterface(key models.CapabilityKey) bool {
	return f.presence[key]
}

func (f *fakeCaps) PresenceStatuses(key models.CapabilityKey) []models.PresenceStatusSpec {
	return f.statuses[key]
}

func jabberAccount() *models.Account {
	return &models.Account{
		ID:                "gabble/jabber/acct0",
		ConnectionManager: "gabble",
		Protocol:          "jabber",
	}
}

// TestResolver_PresenceTypeFor_WellKnown tests the unconditional keywords
func TestResolver_PresenceTypeFor_WellKnown(t *testing.T) {
	r := NewResolver(newFakeCaps())
	acct := jabberAccount()

	// No capability lookup needed for these two
	assert.Equal(t, models.PresenceOffline, r.PresenceTypeFor(acct, models.KeywordOffline))
	assert.Equal(t, models.PresenceAvailable, r.PresenceTypeFor(acct, models.KeywordAvailable))
}

// TestResolver_PresenceTypeFor_Declared tests lookup through declared statuses
func TestResolver_PresenceTypeFor_Declared(t *testing.T) {
	caps := newFakeCaps()
	acct := jabberAccount()
	caps.statuses[acct.CapabilityKey()] = []models.PresenceStatusSpec{
		{Name: "dnd", Type: models.PresenceBusy},
		{Name: "away", Type: models.PresenceBusy},
		{Name: "chat", Type: models.PresenceAvailable},
		{Name: "odd", Type: models.PresenceUnset},
	}
	r := NewResolver(caps)

	assert.Equal(t, models.PresenceBusy, r.PresenceTypeFor(acct, "dnd"))
	assert.Equal(t, models.PresenceAvailable, r.PresenceTypeFor(acct, "chat"))
	assert.Equal(t, models.PresenceBusy, r.PresenceTypeFor(acct, "odd"),
		"A status declared without a type still counts as busy-like")
}

// TestResolver_PresenceTypeFor_Unknown tests the busy fallback
func TestResolver_PresenceTypeFor_Unknown(t *testing.T) {
	caps := newFakeCaps()
	acct := jabberAccount()
	caps.statuses[acct.CapabilityKey()] = []models.PresenceStatusSpec{
		{Name: "away", Type: models.PresenceBusy},
	}
	r := NewResolver(caps)

	assert.Equal(t, models.PresenceBusy, r.PresenceTypeFor(acct, "invisible"),
		"A keyword the protocol never declared resolves to Busy, not Offline")
}

// TestResolver_PresenceTypeFor_NoDeclaredStatuses tests the assume-capable rule
func TestResolver_PresenceTypeFor_NoDeclaredStatuses(t *testing.T) {
	r := NewResolver(newFakeCaps())
	acct := jabberAccount()

	assert.Equal(t, models.PresenceBusy, r.PresenceTypeFor(acct, "dnd"))
}

// TestResolver_CanChangePresence tests the presence-control gate
func TestResolver_CanChangePresence(t *testing.T) {
	caps := newFakeCaps()
	r := NewResolver(caps)
	acct := jabberAccount()
	key := acct.CapabilityKey()

	// No presence interface at all
	assert.False(t, r.CanChangePresence(acct))

	// Interface present, nothing declared: assume capable
	caps.presence[key] = true
	assert.True(t, r.CanChangePresence(acct))

	// Declared statuses without Offline or Available are not enough
	caps.statuses[key] = []models.PresenceStatusSpec{
		{Name: "away", Type: models.PresenceBusy},
		{Name: "dnd", Type: models.PresenceBusy},
	}
	assert.False(t, r.CanChangePresence(acct))

	// One settable status flips the answer
	caps.statuses[key] = append(caps.statuses[key],
		models.PresenceStatusSpec{Name: "available", Type: models.PresenceAvailable})
	assert.True(t, r.CanChangePresence(acct))
}

// TestResolver_EffectivePresence tests override-then-default resolution
func TestResolver_EffectivePresence(t *testing.T) {
	r := NewResolver(newFakeCaps())
	acct := jabberAccount()

	profile := &models.Profile{Name: "Work", DefaultPresence: models.KeywordBusy}
	assert.Equal(t, models.KeywordBusy, r.EffectivePresence(profile, acct))

	profile.SetAccountPresence(acct.ID, models.KeywordOffline)
	assert.Equal(t, models.KeywordOffline, r.EffectivePresence(profile, acct))
}
