package services

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/statusarea/presenced/internal/mainloop"
	"github.com/statusarea/presenced/internal/models"
	"github.com/statusarea/presenced/internal/registry"
	"github.com/statusarea/presenced/internal/repositories"
)

// DefaultPresenceMessage is the editor placeholder. It is shown in place of
// an empty message and is never persisted or pushed to accounts.
const DefaultPresenceMessage = "Enter a status message"

// telephonyProtocol accounts are host-call plumbing, never tracked.
const telephonyProtocol = "tel"

// Idle task ids; one pending instance each, coalesced across triggers.
const (
	taskRecompute    = "compute-global-presence"
	taskPushPresence = "set-presence"
)

// ProfileEventKind enumerates the profile lifecycle notifications.
type ProfileEventKind int

const (
	ProfileCreated ProfileEventKind = iota
	ProfileChanged
	ProfileDeleted
	ProfileActivated
)

// ProfileEvent is delivered to profile observers.
type ProfileEvent struct {
	Kind    ProfileEventKind
	Profile *models.Profile
}

// Config tunes the aggregator's side-effect policy.
type Config struct {
	// ExcludedProtocol is the protocol class whose accounts never
	// contribute to the aggregate status message.
	ExcludedProtocol string
	// SoundsEnabled gates the connected/disconnected sound requests.
	SoundsEnabled bool
	// BannerInterval is the minimum delay between "unable to connect"
	// banners.
	BannerInterval time.Duration
	// SoundInterval is the minimum delay between repeats of the same
	// sound.
	SoundInterval time.Duration
}

func (c *Config) applyDefaults() {
	if c.ExcludedProtocol == "" {
		c.ExcludedProtocol = "sip"
	}
	if c.BannerInterval <= 0 {
		c.BannerInterval = 59 * time.Second
	}
	if c.SoundInterval <= 0 {
		c.SoundInterval = 5 * time.Second
	}
}

// Aggregator folds per-account state into one global presence and
// orchestrates profile activation. All state is owned by its event loop;
// external callers reach it through the event entry points and the
// synchronous command/query methods.
type Aggregator struct {
	loop     *mainloop.Loop
	registry *registry.Registry
	store    *ProfileStore
	resolver *Resolver

	transport AccountTransport
	notifier  Notifier
	location  LocationProvider

	cfg Config

	globalType    models.PresenceType
	globalFlags   models.StatusFlags
	statusMessage string

	presenceSupported int

	// Accounts that disconnected without the user asking; drives the
	// rate-limited "unable to connect" banner.
	disconnected    map[string]struct{}
	hasDisconnected bool

	bannerLimiter     *rate.Limiter
	connectedLimiter  *rate.Limiter
	disconnectLimiter *rate.Limiter

	// Accumulated push flags for the coalesced presence push.
	pushAutomatic bool
	pushImmediate bool

	presenceObservers map[uuid.UUID]func(models.GlobalPresence)
	profileObservers  map[uuid.UUID]func(ProfileEvent)
	supportObservers  map[uuid.UUID]func(bool)
}

// NewAggregator wires the engine together and schedules the initial
// aggregation pass. The store should be loaded before handing it in.
func NewAggregator(store *ProfileStore, resolver *Resolver, transport AccountTransport,
	notifier Notifier, location LocationProvider, cfg Config) *Aggregator {

	cfg.applyDefaults()

	a := &Aggregator{
		loop:              mainloop.New(),
		registry:          registry.New(),
		store:             store,
		resolver:          resolver,
		transport:         transport,
		notifier:          notifier,
		location:          location,
		cfg:               cfg,
		globalType:        models.PresenceUnset,
		disconnected:      make(map[string]struct{}),
		bannerLimiter:     rate.NewLimiter(rate.Every(cfg.BannerInterval), 1),
		connectedLimiter:  rate.NewLimiter(rate.Every(cfg.SoundInterval), 1),
		disconnectLimiter: rate.NewLimiter(rate.Every(cfg.SoundInterval), 1),
		presenceObservers: make(map[uuid.UUID]func(models.GlobalPresence)),
		profileObservers:  make(map[uuid.UUID]func(ProfileEvent)),
		supportObservers:  make(map[uuid.UUID]func(bool)),
	}

	a.loop.Post(func() {
		a.location.SetLevel(a.store.LocationLevel())
		a.composeStatusMessage()
		a.scheduleRecompute()
	})

	return a
}

// Close stops the event loop and cancels any pending deferred work.
func (a *Aggregator) Close() {
	a.loop.Close()
}

// Flush blocks until every queued event and deferred pass has run. Returns
// immediately when the loop is closed.
func (a *Aggregator) Flush() {
	for {
		pending := false
		if err := a.call(func() error {
			pending = a.loop.IdlePending(taskRecompute) || a.loop.IdlePending(taskPushPresence)
			return nil
		}); err != nil {
			return
		}
		if !pending {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

// ---------------------------------------------------------------------------
// Event entry points, called by the transport integration. Each marshals
// onto the loop; the recompute itself is deferred and coalesced.

// AccountUpserted tracks a new account or refreshes the connection fields of
// a known one. Telephony accounts are ignored.
func (a *Aggregator) AccountUpserted(snap models.Account) {
	if snap.Protocol == telephonyProtocol {
		return
	}
	a.loop.Post(func() {
		row, created := a.registry.Upsert(snap)
		if created {
			row.StatusReason = models.ReasonRequested
			if row.ConnectionStatus == models.StatusConnected {
				a.playConnected()
			}
			if a.resolver.CanChangePresence(row) {
				a.presenceSupported++
				if a.presenceSupported == 1 {
					a.emitSupport(true)
				}
			}
			a.setAccountPresence(row, true, true)
		}
		a.scheduleRecompute()
	})
}

// AccountRemoved drops a tracked account. Removing the last one falls back
// to the first built-in profile.
func (a *Aggregator) AccountRemoved(id string) {
	a.loop.Post(func() {
		row := a.registry.Find(id)
		if row == nil {
			return
		}
		if a.resolver.CanChangePresence(row) {
			a.presenceSupported--
			if a.presenceSupported == 0 {
				a.emitSupport(false)
			}
		}
		a.registry.Remove(id)
		delete(a.disconnected, id)
		if a.registry.Len() == 0 {
			a.activateProfile(a.store.Profiles()[0])
		}
		a.scheduleRecompute()
	})
}

// AccountStatusChanged records a connection status transition reported by
// the transport.
func (a *Aggregator) AccountStatusChanged(id string, status models.ConnectionStatus, reason models.StatusReason) {
	a.loop.Post(func() {
		row := a.registry.Find(id)
		if row == nil {
			return
		}
		row.IsChangingStatus = true

		if status == models.StatusDisconnected {
			if reason == models.ReasonRequested {
				// The user asked for this; pending notices are stale.
				a.disconnected = make(map[string]struct{})
			} else if _, seen := a.disconnected[id]; !seen {
				a.disconnected[id] = struct{}{}
				a.hasDisconnected = true
			}
		}
		a.scheduleRecompute()
	})
}

// AccountPresenceChanged records a presence change notification. Only a
// change while connecting marks the account as mid-status-change.
func (a *Aggregator) AccountPresenceChanged(id string) {
	a.loop.Post(func() {
		row := a.registry.Find(id)
		if row == nil {
			return
		}
		if status, _ := a.transport.ConnectionStatus(id); status == models.StatusConnecting {
			row.IsChangingStatus = true
			a.scheduleRecompute()
		}
	})
}

// LocationChanged recomposes the aggregate message with the provider's new
// phrase.
func (a *Aggregator) LocationChanged() {
	a.loop.Post(func() {
		a.composeStatusMessage()
	})
}

// ---------------------------------------------------------------------------
// Commands. Synchronous; safe from any goroutine.

// ActivateProfile applies the profile to every tracked account and persists
// the choice.
func (a *Aggregator) ActivateProfile(profile *models.Profile) error {
	return a.call(func() error {
		if !a.store.Contains(profile) {
			return repositories.ErrNotFound
		}
		a.activateProfile(profile)
		return nil
	})
}

// SaveProfile validates and stores a profile, signalling created or changed
// depending on whether the handle was already known. Built-ins cannot be
// edited. The caller must not touch the handle again until the call returns;
// external surfaces submit ProfileUpdate values instead.
func (a *Aggregator) SaveProfile(profile *models.Profile) error {
	return a.call(func() error {
		_, err := a.saveProfile(profile)
		return err
	})
}

// ProfileUpdate is an editor submission: the fields to apply to the profile
// with the given display name, or to a new profile when the name is unknown.
type ProfileUpdate struct {
	Name            string
	Icon            string
	DefaultPresence string
	Accounts        map[string]string
}

// ApplyProfileUpdate creates or updates the named profile. The field writes
// happen on the loop, so an aggregation pass never observes a half-applied
// profile. Validation runs before any field is touched. Reports whether a
// profile was created.
func (a *Aggregator) ApplyProfileUpdate(update ProfileUpdate) (created bool, err error) {
	err = a.call(func() error {
		profile := a.store.FindByName(update.Name)
		if profile != nil && profile.Builtin {
			return ErrBuiltinProfile
		}
		fresh := profile == nil
		if fresh {
			profile = &models.Profile{Name: update.Name}
		}
		if err := a.store.ValidateName(update.Name, profile); err != nil {
			return err
		}

		if update.Icon != "" {
			profile.SetIcon(update.Icon)
		}
		profile.DefaultPresence = update.DefaultPresence
		profile.Accounts = nil
		for id, keyword := range update.Accounts {
			profile.SetAccountPresence(id, keyword)
		}

		created, err = a.saveProfile(profile)
		return err
	})
	return created, err
}

// saveProfile is the on-loop save path shared by both command forms.
func (a *Aggregator) saveProfile(profile *models.Profile) (bool, error) {
	if profile.Builtin {
		return false, ErrBuiltinProfile
	}
	if err := a.store.ValidateName(profile.Name, profile); err != nil {
		return false, err
	}
	created, err := a.store.Save(profile)
	if err != nil {
		a.reportPersistError(err)
	}
	if created {
		a.emitProfile(ProfileCreated, profile)
	} else {
		a.emitProfile(ProfileChanged, profile)
	}
	return created, nil
}

// DeleteProfile removes a user profile. Deleting the active profile first
// falls back to the first built-in.
func (a *Aggregator) DeleteProfile(profile *models.Profile) error {
	return a.call(func() error {
		if profile.Builtin {
			return ErrBuiltinProfile
		}
		if !a.store.Contains(profile) {
			return repositories.ErrNotFound
		}
		if a.store.Active() == profile {
			a.activateProfile(a.store.Profiles()[0])
		}
		a.emitProfile(ProfileDeleted, profile)
		if err := a.store.Delete(profile); err != nil {
			a.reportPersistError(err)
		}
		return nil
	})
}

// SetPresenceMessage updates the user's custom status message. The editor
// placeholder and the empty string both clear it.
func (a *Aggregator) SetPresenceMessage(message string) error {
	return a.call(func() error {
		has := message != "" && message != DefaultPresenceMessage
		if !has {
			message = ""
		}
		if err := a.store.SetStatusMessage(message, has); err != nil {
			a.reportPersistError(err)
		}
		a.composeStatusMessage()
		return nil
	})
}

// SetLocationLevel changes how much location detail is appended to the
// status message.
func (a *Aggregator) SetLocationLevel(level models.LocationLevel) error {
	return a.call(func() error {
		if !level.Valid() {
			return fmt.Errorf("invalid location level %d", level)
		}
		previous := a.store.LocationLevel()
		a.location.Reset()
		if err := a.store.SetLocationLevel(level); err != nil {
			a.reportPersistError(err)
		}
		if level != models.LocationLevelNone && previous == models.LocationLevelNone {
			a.notifier.ShowBanner("Location sharing turned on")
		}
		a.location.SetLevel(level)
		a.syncLocationTracking()
		a.composeStatusMessage()
		return nil
	})
}

// ---------------------------------------------------------------------------
// Queries. Synchronous; safe from any goroutine.

// GlobalPresence returns the current aggregate triple.
func (a *Aggregator) GlobalPresence() models.GlobalPresence {
	var out models.GlobalPresence
	a.call(func() error {
		out = models.GlobalPresence{
			Type:    a.globalType,
			Message: a.statusMessage,
			Flags:   a.globalFlags,
		}
		return nil
	})
	return out
}

// Profiles returns the profile list, built-ins first. The handles are live;
// callers use them for identity (activate, delete, scan) and must not read
// fields while the engine runs. Display surfaces use ProfileViews.
func (a *Aggregator) Profiles() []*models.Profile {
	var out []*models.Profile
	a.call(func() error {
		out = append(out, a.store.Profiles()...)
		return nil
	})
	return out
}

// ProfileView is a detached copy of one profile for external surfaces.
type ProfileView struct {
	Name            string
	DisplayName     string
	IconBase        string
	IconError       string
	Builtin         bool
	DefaultPresence string
	Accounts        map[string]string
	Active          bool
}

// ProfileViews returns read-only copies of every profile, built-ins first,
// taken in one pass on the loop.
func (a *Aggregator) ProfileViews() []ProfileView {
	var out []ProfileView
	a.call(func() error {
		active := a.store.Active()
		for _, p := range a.store.Profiles() {
			view := ProfileView{
				Name:            p.Name,
				DisplayName:     p.DisplayName(),
				IconBase:        p.IconBase,
				IconError:       p.IconError,
				Builtin:         p.Builtin,
				DefaultPresence: p.DefaultPresence,
				Active:          p == active,
			}
			if len(p.Accounts) > 0 {
				view.Accounts = make(map[string]string, len(p.Accounts))
				for id, keyword := range p.Accounts {
					view.Accounts[id] = keyword
				}
			}
			out = append(out, view)
		}
		return nil
	})
	return out
}

// ActiveProfile returns the currently applied profile.
func (a *Aggregator) ActiveProfile() *models.Profile {
	var out *models.Profile
	a.call(func() error {
		out = a.store.Active()
		return nil
	})
	return out
}

// FindProfile resolves a display name to a profile handle, or nil.
func (a *Aggregator) FindProfile(name string) *models.Profile {
	var out *models.Profile
	a.call(func() error {
		out = a.store.FindByName(name)
		return nil
	})
	return out
}

// AccountsSnapshot returns the severity-sorted account view, sentinel last.
func (a *Aggregator) AccountsSnapshot() []models.Account {
	var out []models.Account
	a.call(func() error {
		out = a.registry.SortedSnapshot()
		return nil
	})
	return out
}

// IsPresenceSupported reports whether any tracked account supports presence
// control.
func (a *Aggregator) IsPresenceSupported() bool {
	var out bool
	a.call(func() error {
		out = a.presenceSupported > 0
		return nil
	})
	return out
}

// PresenceMessage returns the persisted custom message, or the editor
// placeholder when none is set.
func (a *Aggregator) PresenceMessage() string {
	var out string
	a.call(func() error {
		message, has := a.store.StatusMessage()
		if !has {
			message = DefaultPresenceMessage
		}
		out = message
		return nil
	})
	return out
}

// LocationLevel returns the configured location detail level.
func (a *Aggregator) LocationLevel() models.LocationLevel {
	var out models.LocationLevel
	a.call(func() error {
		out = a.store.LocationLevel()
		return nil
	})
	return out
}

// ScanProfile folds a candidate profile over the tracked accounts without
// applying it: the resulting aggregate presence, and whether any
// non-excluded account would be brought online. Used by the editor surface.
func (a *Aggregator) ScanProfile(profile *models.Profile) (aggregate models.PresenceType, anyNonExcluded bool) {
	a.call(func() error {
		aggregate = models.PresenceOffline
		incapable := 0
		for _, row := range a.registry.Accounts() {
			resolved := a.resolver.PresenceTypeFor(row, a.resolver.EffectivePresence(profile, row))
			if resolved != models.PresenceOffline {
				if row.Protocol != a.cfg.ExcludedProtocol {
					anyNonExcluded = true
				}
				if !a.resolver.CanChangePresence(row) {
					incapable++
				}
			}
			if a.resolver.CanChangePresence(row) {
				aggregate = foldPresence(aggregate, resolved)
			}
		}
		if aggregate == models.PresenceOffline && incapable > 0 {
			aggregate = models.PresenceAvailable
		}
		return nil
	})
	return aggregate, anyNonExcluded
}

// ---------------------------------------------------------------------------
// Observers. Callbacks run on the event loop; they must not block.

func (a *Aggregator) SubscribePresence(fn func(models.GlobalPresence)) uuid.UUID {
	id := uuid.New()
	a.call(func() error {
		a.presenceObservers[id] = fn
		return nil
	})
	return id
}

func (a *Aggregator) SubscribeProfiles(fn func(ProfileEvent)) uuid.UUID {
	id := uuid.New()
	a.call(func() error {
		a.profileObservers[id] = fn
		return nil
	})
	return id
}

func (a *Aggregator) SubscribeSupport(fn func(bool)) uuid.UUID {
	id := uuid.New()
	a.call(func() error {
		a.supportObservers[id] = fn
		return nil
	})
	return id
}

func (a *Aggregator) Unsubscribe(id uuid.UUID) {
	a.call(func() error {
		delete(a.presenceObservers, id)
		delete(a.profileObservers, id)
		delete(a.supportObservers, id)
		return nil
	})
}

// ---------------------------------------------------------------------------
// Loop context from here down.

func (a *Aggregator) call(fn func() error) error {
	var err error
	if callErr := a.loop.Call(func() { err = fn() }); callErr != nil {
		return callErr
	}
	return err
}

func (a *Aggregator) scheduleRecompute() {
	a.loop.PostIdle(taskRecompute, a.recompute)
}

func (a *Aggregator) schedulePush() {
	a.loop.PostIdle(taskPushPresence, a.pushPresence)
}

func (a *Aggregator) activateProfile(profile *models.Profile) {
	if err := a.store.Activate(profile); err != nil {
		a.reportPersistError(err)
	}
	a.emitProfile(ProfileActivated, profile)
	a.pushAutomatic = true
	a.schedulePush()
	a.scheduleRecompute()
}

// recompute is the deferred aggregation pass: it walks every tracked
// account, reconciles its row against the live transport state, folds the
// per-account results into the global triple and notifies observers.
func (a *Aggregator) recompute() {
	active := a.store.Active()

	a.globalType = models.PresenceOffline
	a.globalFlags = models.FlagNone

	activeAccounts := 0

	a.registry.ForEach(func(row *models.Account) {
		if registry.IsSentinel(row) {
			return
		}
		liveStatus, liveReason := a.transport.ConnectionStatus(row.ID)
		canChange := a.resolver.CanChangePresence(row)

		notConnected := true
		rowReason := liveReason
		rowMessage := ""
		var resolved models.PresenceType

		switch liveStatus {
		case models.StatusConnecting:
			if row.ConnectionStatus == models.StatusConnected {
				a.playDisconnected()
			}
			if row.ConnectionStatus == models.StatusConnecting {
				notConnected = false
			}
			if canChange {
				resolved = a.resolver.PresenceTypeFor(row, a.resolver.EffectivePresence(active, row))
			} else {
				resolved = models.PresenceAvailable
			}
			a.globalFlags |= models.FlagConnecting

		case models.StatusDisconnected:
			if row.ConnectionStatus == models.StatusConnected {
				a.playDisconnected()
			}
			target := a.resolver.PresenceTypeFor(row, a.resolver.EffectivePresence(active, row))
			if target != models.PresenceOffline {
				// The profile wants this account online, so the
				// disconnect is unexpected.
				a.globalFlags |= models.FlagError
				if row.IsChangingStatus && liveReason != models.ReasonRequested {
					a.globalFlags |= models.FlagReasonError
				}
				rowMessage = liveReason.ErrorMessage()
			}
			resolved = models.PresenceOffline

		default: // connected
			if row.ConnectionStatus != models.StatusConnected {
				a.playConnected()
			} else {
				notConnected = false
			}

			var liveMessage string
			if canChange {
				resolved, liveMessage = a.transport.CurrentPresence(row.ID)
			} else {
				resolved = models.PresenceAvailable
			}

			excluded := row.Protocol == a.cfg.ExcludedProtocol
			messageDiff := false
			if !excluded {
				a.globalFlags |= models.FlagConnected
				if liveMessage != a.statusMessage {
					messageDiff = true
					rowReason = models.ReasonMessageChanged
					rowMessage = liveMessage
					a.statusMessage = liveMessage
					a.globalFlags |= models.FlagMessageChanged
				}
			}

			if canChange && (excluded || messageDiff) {
				keyword := a.resolver.EffectivePresence(active, row)
				if keyword != "" {
					if a.resolver.PresenceTypeFor(row, keyword) != resolved {
						// Live presence drifted from what the
						// profile prescribes; the UI must re-sync.
						a.globalFlags |= models.FlagOffline
					}
				} else if row.StatusReason == models.ReasonMessageChanged {
					rowReason = models.ReasonRequested
				}
			}
		}

		row.PresenceType = resolved
		row.ConnectionStatus = liveStatus
		row.IsChangingStatus = false
		if notConnected {
			row.StatusMessage = rowMessage
			row.StatusReason = rowReason
		}

		if canChange {
			a.globalType = foldPresence(a.globalType, resolved)
		} else if liveStatus == models.StatusConnected || liveStatus == models.StatusConnecting {
			activeAccounts++
		}
	})

	// Presence-incapable accounts that are up still count as "present".
	if a.globalType == models.PresenceOffline && activeAccounts > 0 {
		a.globalType = models.PresenceAvailable
	}

	a.syncLocationTracking()
	a.emitPresence()

	if a.globalFlags.Has(models.FlagReasonError) && a.hasDisconnected {
		a.hasDisconnected = false
		if a.bannerLimiter.Allow() {
			a.notifier.ShowBanner("Unable to connect to service")
		}
	}
}

// foldPresence merges one resolved account presence into the aggregate:
// Available beats Busy beats Offline.
func foldPresence(aggregate, resolved models.PresenceType) models.PresenceType {
	if resolved == models.PresenceAvailable {
		return models.PresenceAvailable
	}
	if aggregate != models.PresenceAvailable && resolved != models.PresenceOffline {
		return models.PresenceBusy
	}
	return aggregate
}

// pushPresence is the deferred presence push: it applies the active profile
// to every tracked account with the flags accumulated since the last run.
func (a *Aggregator) pushPresence() {
	automatic, immediate := a.pushAutomatic, a.pushImmediate
	a.pushAutomatic, a.pushImmediate = false, false

	pushed := false
	for _, row := range a.registry.Accounts() {
		if a.setAccountPresence(row, automatic, immediate) {
			pushed = true
		}
	}

	// Nothing was asked of the transport, so no status events will come
	// back; recompute directly.
	if !pushed {
		a.scheduleRecompute()
	}
}

// setAccountPresence issues the presence request for one account and keeps
// its auto-connect setting consistent with the resolved target. It reports
// whether a request was issued.
func (a *Aggregator) setAccountPresence(row *models.Account, pushAutomatic, pushImmediate bool) bool {
	if !pushAutomatic && !pushImmediate {
		return false
	}

	keyword := a.resolver.EffectivePresence(a.store.Active(), row)
	resolved := a.resolver.PresenceTypeFor(row, keyword)

	a.transport.RequestPresence(row.ID, resolved, keyword, a.statusMessage)

	if resolved == models.PresenceUnset || resolved == models.PresenceOffline {
		if a.transport.ConnectAutomatically(row.ID) {
			a.transport.SetConnectAutomatically(row.ID, false)
		}
	} else {
		a.transport.SetAutomaticPresence(row.ID, resolved, keyword, a.statusMessage)
		if !a.transport.ConnectAutomatically(row.ID) {
			a.transport.SetConnectAutomatically(row.ID, true)
		}
	}
	return true
}

// composeStatusMessage rebuilds the aggregate message from the custom
// message and the location phrase. A change schedules an immediate push and
// a recompute.
func (a *Aggregator) composeStatusMessage() {
	custom, has := a.store.StatusMessage()
	if !has {
		custom = ""
	}

	composed := custom
	if phrase := a.location.Phrase(); phrase != "" {
		if custom != "" {
			composed = custom + " - " + phrase
		} else {
			composed = "@ " + phrase
		}
	}

	if composed == a.statusMessage {
		return
	}
	a.statusMessage = composed
	a.pushImmediate = true
	a.schedulePush()
	a.scheduleRecompute()
}

// syncLocationTracking runs the location provider only while something is
// connected and a detail level is configured.
func (a *Aggregator) syncLocationTracking() {
	if !a.globalFlags.Has(models.FlagConnected) ||
		a.store.LocationLevel() == models.LocationLevelNone {
		a.location.Stop()
		return
	}
	a.location.Start()
}

func (a *Aggregator) playConnected() {
	if a.cfg.SoundsEnabled && a.connectedLimiter.Allow() {
		a.notifier.PlayConnected()
	}
}

func (a *Aggregator) playDisconnected() {
	if a.cfg.SoundsEnabled && a.disconnectLimiter.Allow() {
		a.notifier.PlayDisconnected()
	}
}

func (a *Aggregator) reportPersistError(err error) {
	log.Printf("Persistence error: %v", err)
	a.notifier.ShowBanner("Could not save presence settings")
}

func (a *Aggregator) emitPresence() {
	state := models.GlobalPresence{
		Type:    a.globalType,
		Message: a.statusMessage,
		Flags:   a.globalFlags,
	}
	for _, fn := range a.presenceObservers {
		fn(state)
	}
}

func (a *Aggregator) emitProfile(kind ProfileEventKind, profile *models.Profile) {
	event := ProfileEvent{Kind: kind, Profile: profile}
	for _, fn := range a.profileObservers {
		fn(event)
	}
}

func (a *Aggregator) emitSupport(supported bool) {
	for _, fn := range a.supportObservers {
		fn(supported)
	}
}
