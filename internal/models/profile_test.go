package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProfile_SetIcon tests that the error icon tracks the base icon
func TestProfile_SetIcon(t *testing.T) {
	p := &Profile{Name: "Work"}

	p.SetIcon("general_presence_online")

	assert.Equal(t, "general_presence_online", p.IconBase)
	assert.Equal(t, "general_presence_online_error", p.IconError, "Error icon is derived from the base icon")
}

// TestProfile_PresenceFor tests per-account override vs profile default
func TestProfile_PresenceFor(t *testing.T) {
	p := &Profile{Name: "Work", DefaultPresence: KeywordAvailable}
	p.SetAccountPresence("jabber/acct0", KeywordDND)

	assert.Equal(t, KeywordDND, p.PresenceFor("jabber/acct0"), "Explicit override wins")
	assert.Equal(t, KeywordAvailable, p.PresenceFor("sip/acct1"), "Unlisted accounts use the profile default")

	p.RemoveAccountPresence("jabber/acct0")
	assert.Equal(t, KeywordAvailable, p.PresenceFor("jabber/acct0"), "Removed override falls back to the default")
}

// TestBuiltinProfiles tests the fixed built-in set
func TestBuiltinProfiles(t *testing.T) {
	builtins := BuiltinProfiles()

	require.Len(t, builtins, 3)

	online, busy, offline := builtins[0], builtins[1], builtins[2]

	assert.Equal(t, "Online", online.DisplayName())
	assert.Equal(t, "Busy", busy.DisplayName())
	assert.Equal(t, "Offline", offline.DisplayName())

	assert.Equal(t, KeywordAvailable, online.DefaultPresence)
	assert.Equal(t, KeywordBusy, busy.DefaultPresence)
	assert.Equal(t, KeywordOffline, offline.DefaultPresence)

	for _, p := range builtins {
		assert.True(t, p.Builtin)
		assert.Empty(t, p.Accounts, "Built-ins carry no per-account overrides")
	}

	// The offline profile has no distinct error variant
	assert.Equal(t, offline.IconBase, offline.IconError)
	assert.NotEqual(t, online.IconBase, online.IconError)
}

// TestBuiltinProfiles_FreshCopies tests that callers get independent values
func TestBuiltinProfiles_FreshCopies(t *testing.T) {
	first := BuiltinProfiles()
	first[0].DefaultPresence = KeywordDND

	second := BuiltinProfiles()

	assert.Equal(t, KeywordAvailable, second[0].DefaultPresence, "Mutating one copy must not leak into the next")
}

// TestProfile_DisplayName tests user profiles vs built-in naming
func TestProfile_DisplayName(t *testing.T) {
	user := &Profile{Name: "Holidays", DefaultPresence: KeywordAvailable}
	assert.Equal(t, "Holidays", user.DisplayName(), "User profiles show their raw name")

	unknown := &Profile{Builtin: true, DefaultPresence: "xa"}
	assert.Equal(t, "Busy", unknown.DisplayName(), "Built-ins with a non-standard default read as Busy")
}
