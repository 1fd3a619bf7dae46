package models

// Account is one tracked communication account's last-known snapshot. The
// identity and live connection state belong to the external transport; the
// registry only mirrors what the last events reported.
type Account struct {
	ID                string           `json:"id"`
	DisplayName       string           `json:"display_name"`
	ServiceName       string           `json:"service_name"`
	Protocol          string           `json:"protocol"`
	ConnectionManager string           `json:"connection_manager"`
	ConnectionStatus  ConnectionStatus `json:"connection_status"`
	StatusReason      StatusReason     `json:"status_reason"`
	PresenceType      PresenceType     `json:"presence_type"`
	StatusMessage     string           `json:"status_message"`
	IsChangingStatus  bool             `json:"is_changing_status"`
}

// CapabilityKey identifies the protocol capability entry for the account.
type CapabilityKey struct {
	ConnectionManager string
	Protocol          string
}

func (a *Account) CapabilityKey() CapabilityKey {
	return CapabilityKey{ConnectionManager: a.ConnectionManager, Protocol: a.Protocol}
}
