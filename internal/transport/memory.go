package transport

import (
	"sync"

	"github.com/statusarea/presenced/internal/models"
)

// Sink receives account lifecycle events. The aggregator satisfies it.
type Sink interface {
	AccountUpserted(snap models.Account)
	AccountRemoved(id string)
	AccountStatusChanged(id string, status models.ConnectionStatus, reason models.StatusReason)
	AccountPresenceChanged(id string)
}

// PresenceRequest records one presence push issued through the transport.
type PresenceRequest struct {
	AccountID string
	Presence  models.PresenceType
	Keyword   string
	Message   string
	Automatic bool
}

type accountState struct {
	status      models.ConnectionStatus
	reason      models.StatusReason
	presence    models.PresenceType
	message     string
	autoConnect bool
}

type capability struct {
	hasPresence bool
	statuses    []models.PresenceStatusSpec
}

// Memory is an in-process account backend. It answers the live-state and
// capability queries, applies presence pushes to its own state, and forwards
// lifecycle changes to the sink. Safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	accounts map[string]*accountState
	caps     map[models.CapabilityKey]capability
	requests []PresenceRequest
	sink     Sink
}

func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]*accountState),
		caps:     make(map[models.CapabilityKey]capability),
	}
}

// SetSink attaches the event consumer. Must be called before any account is
// added.
func (m *Memory) SetSink(sink Sink) {
	m.mu.Lock()
	m.sink = sink
	m.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Live-state and capability queries.

func (m *Memory) ConnectionStatus(accountID string) (models.ConnectionStatus, models.StatusReason) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.accounts[accountID]; ok {
		return st.status, st.reason
	}
	return models.StatusDisconnected, models.ReasonNone
}

func (m *Memory) CurrentPresence(accountID string) (models.PresenceType, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.accounts[accountID]; ok {
		return st.presence, st.message
	}
	return models.PresenceUnset, ""
}

func (m *Memory) ConnectAutomatically(accountID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.accounts[accountID]; ok {
		return st.autoConnect
	}
	return false
}

func (m *Memory) HasPresenceInterface(key models.CapabilityKey) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.caps[key].hasPresence
}

func (m *Memory) PresenceStatuses(key models.CapabilityKey) []models.PresenceStatusSpec {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.caps[key].statuses
}

// ---------------------------------------------------------------------------
// Presence pushes.

func (m *Memory) RequestPresence(accountID string, presence models.PresenceType, keyword, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, PresenceRequest{
		AccountID: accountID,
		Presence:  presence,
		Keyword:   keyword,
		Message:   message,
	})
	if st, ok := m.accounts[accountID]; ok {
		st.presence = presence
		st.message = message
	}
}

func (m *Memory) SetAutomaticPresence(accountID string, presence models.PresenceType, keyword, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, PresenceRequest{
		AccountID: accountID,
		Presence:  presence,
		Keyword:   keyword,
		Message:   message,
		Automatic: true,
	})
}

func (m *Memory) SetConnectAutomatically(accountID string, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.accounts[accountID]; ok {
		st.autoConnect = enabled
	}
}

// Requests returns everything pushed through the transport so far.
func (m *Memory) Requests() []PresenceRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PresenceRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// ---------------------------------------------------------------------------
// Backend simulation. These mutate the live state and notify the sink, the
// way a real connection backend would.

// RegisterProtocol declares a protocol's presence capabilities.
func (m *Memory) RegisterProtocol(key models.CapabilityKey, hasPresence bool, statuses []models.PresenceStatusSpec) {
	m.mu.Lock()
	m.caps[key] = capability{hasPresence: hasPresence, statuses: statuses}
	m.mu.Unlock()
}

// AddAccount brings an account online in the backend and announces it.
func (m *Memory) AddAccount(snap models.Account, presence models.PresenceType, message string) {
	m.mu.Lock()
	m.accounts[snap.ID] = &accountState{
		status:   snap.ConnectionStatus,
		reason:   snap.StatusReason,
		presence: presence,
		message:  message,
	}
	sink := m.sink
	m.mu.Unlock()
	if sink != nil {
		sink.AccountUpserted(snap)
	}
}

// RemoveAccount drops an account and announces the removal.
func (m *Memory) RemoveAccount(id string) {
	m.mu.Lock()
	delete(m.accounts, id)
	sink := m.sink
	m.mu.Unlock()
	if sink != nil {
		sink.AccountRemoved(id)
	}
}

// SetConnectionStatus moves an account to a new connection state.
func (m *Memory) SetConnectionStatus(id string, status models.ConnectionStatus, reason models.StatusReason) {
	m.mu.Lock()
	st, ok := m.accounts[id]
	if ok {
		st.status = status
		st.reason = reason
	}
	sink := m.sink
	m.mu.Unlock()
	if ok && sink != nil {
		sink.AccountStatusChanged(id, status, reason)
	}
}

// SetPresence changes an account's own presence, as if the remote service
// did it.
func (m *Memory) SetPresence(id string, presence models.PresenceType, message string) {
	m.mu.Lock()
	st, ok := m.accounts[id]
	if ok {
		st.presence = presence
		st.message = message
	}
	sink := m.sink
	m.mu.Unlock()
	if ok && sink != nil {
		sink.AccountPresenceChanged(id)
	}
}
