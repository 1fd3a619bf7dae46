package models

// Profile is a named bundle of per-account presence overrides, switchable as
// a unit. Built-in profiles carry no overrides and are never persisted.
type Profile struct {
	Name            string
	IconBase        string
	IconError       string
	Builtin         bool
	DefaultPresence string
	// Accounts maps account id to a presence keyword override. nil on
	// built-ins.
	Accounts map[string]string
}

// IconErrorSuffix is appended to a profile's base icon to derive its error
// variant.
const IconErrorSuffix = "_error"

// SetIcon changes the base icon and rederives the error icon, keeping the
// IconError == IconBase + "_error" invariant.
func (p *Profile) SetIcon(base string) {
	p.IconBase = base
	p.IconError = base + IconErrorSuffix
}

// SetAccountPresence records or replaces the presence keyword override for
// an account.
func (p *Profile) SetAccountPresence(accountID, keyword string) {
	if p.Accounts == nil {
		p.Accounts = make(map[string]string)
	}
	p.Accounts[accountID] = keyword
}

// RemoveAccountPresence drops the override for an account, if any.
func (p *Profile) RemoveAccountPresence(accountID string) {
	delete(p.Accounts, accountID)
}

// PresenceFor returns the effective presence keyword for an account: the
// explicit override when present, the profile default otherwise.
func (p *Profile) PresenceFor(accountID string) string {
	if keyword, ok := p.Accounts[accountID]; ok {
		return keyword
	}
	return p.DefaultPresence
}

// DisplayName is the name shown to the user: built-ins have fixed localized
// names, user profiles use their raw name.
func (p *Profile) DisplayName() string {
	if !p.Builtin {
		return p.Name
	}
	switch p.DefaultPresence {
	case KeywordAvailable:
		return "Online"
	case KeywordOffline:
		return "Offline"
	default:
		return "Busy"
	}
}

// BuiltinProfiles returns fresh copies of the three fixed profiles, in their
// fixed order: Online, Busy, Offline. The Offline entry's error icon equals
// its base icon.
func BuiltinProfiles() []*Profile {
	return []*Profile{
		{
			Name:            "Online",
			IconBase:        "general_presence_online",
			IconError:       "statusarea_presence_online_error",
			Builtin:         true,
			DefaultPresence: KeywordAvailable,
		},
		{
			Name:            "Busy",
			IconBase:        "general_presence_busy",
			IconError:       "statusarea_presence_busy_error",
			Builtin:         true,
			DefaultPresence: KeywordBusy,
		},
		{
			Name:            "Offline",
			IconBase:        "general_presence_offline",
			IconError:       "general_presence_offline",
			Builtin:         true,
			DefaultPresence: KeywordOffline,
		},
	}
}
