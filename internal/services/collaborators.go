package services

import "github.com/statusarea/presenced/internal/models"

// AccountTransport is the external layer that owns the real communication
// accounts. Queries return the live state; request methods are asynchronous
// fire-and-forget, their outcome arrives as later account events.
type AccountTransport interface {
	ConnectionStatus(accountID string) (models.ConnectionStatus, models.StatusReason)
	CurrentPresence(accountID string) (models.PresenceType, string)
	ConnectAutomatically(accountID string) bool

	RequestPresence(accountID string, presence models.PresenceType, keyword, message string)
	SetAutomaticPresence(accountID string, presence models.PresenceType, keyword, message string)
	SetConnectAutomatically(accountID string, enabled bool)
}

// CapabilityProvider resolves protocol capabilities for an account's
// connection-manager/protocol pair.
type CapabilityProvider interface {
	// HasPresenceInterface reports whether the protocol exposes presence
	// control at all.
	HasPresenceInterface(key models.CapabilityKey) bool
	// PresenceStatuses lists the presence statuses the protocol declares.
	// An empty list means the protocol declares none (assume capable).
	PresenceStatuses(key models.CapabilityKey) []models.PresenceStatusSpec
}

// Notifier receives the engine's side-effect requests. The engine never
// plays sounds or renders banners itself.
type Notifier interface {
	PlayConnected()
	PlayDisconnected()
	ShowBanner(message string)
}

// LocationProvider supplies the optional location phrase appended to the
// aggregate status message. Changes are delivered back to the engine as
// LocationChanged events.
type LocationProvider interface {
	Phrase() string
	SetLevel(level models.LocationLevel)
	Reset()
	Start()
	Stop()
}
