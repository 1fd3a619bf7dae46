package services

import "github.com/statusarea/presenced/internal/models"

// Resolver computes effective presence values for single accounts. It is
// stateless apart from capability lookups through the provider.
type Resolver struct {
	caps CapabilityProvider
}

func NewResolver(caps CapabilityProvider) *Resolver {
	return &Resolver{caps: caps}
}

// PresenceTypeFor maps a presence keyword to a presence type for the given
// account. "offline" and "available" resolve unconditionally; any other
// keyword is looked up in the protocol's declared statuses. An unknown
// keyword, a protocol with no declared statuses, or a status declared as
// Unset all resolve to Busy: a protocol that declares nothing is assumed
// capable, and an unrecognized keyword on a capable protocol is some
// busy-like state rather than an error.
func (r *Resolver) PresenceTypeFor(account *models.Account, keyword string) models.PresenceType {
	switch keyword {
	case models.KeywordOffline:
		return models.PresenceOffline
	case models.KeywordAvailable:
		return models.PresenceAvailable
	}

	for _, spec := range r.caps.PresenceStatuses(account.CapabilityKey()) {
		if spec.Name != keyword {
			continue
		}
		if spec.Type == models.PresenceUnset {
			return models.PresenceBusy
		}
		return spec.Type
	}

	return models.PresenceBusy
}

// CanChangePresence reports whether the account's protocol supports presence
// control: it must expose the presence interface and either declare no
// statuses at all (assume capable) or declare at least one Offline or
// Available status.
func (r *Resolver) CanChangePresence(account *models.Account) bool {
	key := account.CapabilityKey()
	if !r.caps.HasPresenceInterface(key) {
		return false
	}

	statuses := r.caps.PresenceStatuses(key)
	if len(statuses) == 0 {
		return true
	}

	for _, spec := range statuses {
		if spec.Type == models.PresenceOffline || spec.Type == models.PresenceAvailable {
			return true
		}
	}
	return false
}

// EffectivePresence is the presence keyword the profile prescribes for the
// account: its explicit override, or the profile default.
func (r *Resolver) EffectivePresence(profile *models.Profile, account *models.Account) string {
	return profile.PresenceFor(account.ID)
}
