package models

// PresenceType is the coarse presence category an account (or the global
// state) can report. The numbering mirrors the wire enum used by the
// account transport.
type PresenceType uint

const (
	PresenceUnset PresenceType = iota
	PresenceOffline
	PresenceAvailable
	PresenceAway
	PresenceExtendedAway
	PresenceHidden
	PresenceBusy
)

func (t PresenceType) String() string {
	switch t {
	case PresenceUnset:
		return "unset"
	case PresenceOffline:
		return "offline"
	case PresenceAvailable:
		return "available"
	case PresenceAway:
		return "away"
	case PresenceExtendedAway:
		return "xa"
	case PresenceHidden:
		return "hidden"
	case PresenceBusy:
		return "busy"
	}
	return "unknown"
}

// Well-known presence keywords. "offline" and "available" resolve without a
// capability lookup; everything else goes through the protocol's declared
// status list.
const (
	KeywordOffline   = "offline"
	KeywordAvailable = "available"
	KeywordBusy      = "busy"
	KeywordAway      = "away"
	KeywordXA        = "xa"
	KeywordDND       = "dnd"
	KeywordHidden    = "hidden"
)

// KeywordDisplayName returns the user-visible name for a well-known presence
// keyword, or "" when the keyword has no fixed display form.
func KeywordDisplayName(keyword string) string {
	switch keyword {
	case KeywordOffline:
		return "Offline"
	case KeywordAvailable:
		return "Online"
	case KeywordAway:
		return "Away"
	case KeywordXA:
		return "Busy"
	case KeywordDND:
		return "Do not disturb"
	case KeywordHidden:
		return "Invisible"
	}
	return ""
}

// ConnectionStatus is the transport-reported connection state of an account.
type ConnectionStatus uint

const (
	StatusDisconnected ConnectionStatus = iota
	StatusConnecting
	StatusConnected
)

func (s ConnectionStatus) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	}
	return "unknown"
}

// StatusReason explains the last connection status change.
type StatusReason uint

const (
	ReasonNone StatusReason = iota
	ReasonRequested
	ReasonNetworkError
	ReasonAuthFailed
	ReasonEncryptionError
	ReasonNameInUse
	ReasonCertNotProvided
	ReasonCertUntrusted
	ReasonCertExpired
	ReasonCertNotActivated
	ReasonCertHostnameMismatch
	ReasonCertFingerprintMismatch
	ReasonCertSelfSigned
	ReasonCertOther
	ReasonOther

	// ReasonMessageChanged is a synthetic marker recorded on a registry row
	// whose live status message produced a fresh diff during an aggregation
	// pass. It never arrives from the transport.
	ReasonMessageChanged StatusReason = 'r'
)

// IsCertificateError reports whether the reason belongs to the certificate
// family, which collapses to a single user-visible message.
func (r StatusReason) IsCertificateError() bool {
	return r >= ReasonCertNotProvided && r <= ReasonCertOther
}

// ErrorMessage returns the user-visible error text for an unexpected
// disconnect with this reason, or "" when the reason carries no message.
func (r StatusReason) ErrorMessage() string {
	switch {
	case r == ReasonNone || r == ReasonNetworkError || r == ReasonRequested:
		return "Network error"
	case r == ReasonAuthFailed:
		return "Authentication failed"
	case r == ReasonEncryptionError:
		return "Encryption error"
	case r == ReasonNameInUse:
		return "Name already in use"
	case r.IsCertificateError():
		return "Certificate error"
	}
	return ""
}

// StatusFlags is the bit-set summarizing aggregate conditions. Bit positions
// are part of the control API contract.
type StatusFlags uint

const (
	FlagNone           StatusFlags = 0
	FlagError          StatusFlags = 1 << 0
	FlagConnecting     StatusFlags = 1 << 2
	FlagMessageChanged StatusFlags = 1 << 3
	FlagConnected      StatusFlags = 1 << 4
	FlagOffline        StatusFlags = 1 << 5
	FlagReasonError    StatusFlags = 1 << 6
)

// Has reports whether every bit in mask is set.
func (f StatusFlags) Has(mask StatusFlags) bool {
	return f&mask == mask
}

// GlobalPresence is the aggregate triple published to observers and over the
// control API.
type GlobalPresence struct {
	Type    PresenceType `json:"presence_type"`
	Message string       `json:"status_message"`
	Flags   StatusFlags  `json:"status_flags"`
}

// PresenceStatusSpec describes one presence status a protocol declares.
type PresenceStatusSpec struct {
	Name string
	Type PresenceType
}

// LocationLevel controls how much of the current location is appended to the
// aggregate status message.
type LocationLevel int

const (
	LocationLevelStreet LocationLevel = iota
	LocationLevelDistrict
	LocationLevelCity
	LocationLevelNone
	locationLevelLast
)

// Valid reports whether the level is one of the defined values.
func (l LocationLevel) Valid() bool {
	return l >= LocationLevelStreet && l < locationLevelLast
}
