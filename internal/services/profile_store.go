package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/statusarea/presenced/internal/models"
	"github.com/statusarea/presenced/internal/repositories"
)

var (
	ErrDuplicateName  = errors.New("a profile with this name already exists")
	ErrEmptyName      = errors.New("profile name is empty")
	ErrBuiltinProfile = errors.New("built-in profiles cannot be deleted")
)

// ProfileStore holds the built-in and user profiles plus the persisted
// general settings (active profile ordinal, location level, custom status
// message). Persistence is best-effort: a failed save is returned to the
// caller but never rolls back the in-memory state.
//
// Not safe for concurrent use; mutated only from the aggregator's loop.
type ProfileStore struct {
	repo     repositories.StateRepository
	profiles []*models.Profile
	active   *models.Profile

	activatedAt time.Time

	locationLevel models.LocationLevel
	statusMessage string
	hasMessage    bool
}

func NewProfileStore(repo repositories.StateRepository) *ProfileStore {
	store := &ProfileStore{
		repo:          repo,
		profiles:      models.BuiltinProfiles(),
		locationLevel: models.LocationLevelNone,
	}
	store.active = store.profiles[0]
	return store
}

// Load reconstructs the store from persisted state: built-ins by fixed
// definition, then one profile per stored group in stored order. An
// unreadable state file leaves the built-ins in place and returns the error.
func (s *ProfileStore) Load() error {
	state, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	s.profiles = models.BuiltinProfiles()
	for _, stored := range state.Profiles {
		profile := &models.Profile{
			Name:            stored.Name,
			DefaultPresence: stored.DefaultPresence,
		}
		profile.SetIcon(stored.Icon)
		for id, keyword := range stored.Accounts {
			profile.SetAccountPresence(id, keyword)
		}
		s.profiles = append(s.profiles, profile)
	}

	if state.ActiveProfile >= 0 && state.ActiveProfile < len(s.profiles) {
		s.active = s.profiles[state.ActiveProfile]
	} else {
		s.active = s.profiles[0]
	}

	s.locationLevel = state.LocationLevel
	if !s.locationLevel.Valid() {
		s.locationLevel = models.LocationLevelNone
	}
	s.statusMessage = state.StatusMessage
	s.hasMessage = state.HasStatusMessage

	return nil
}

// Profiles returns the profile list: built-ins first in their fixed order,
// then user profiles in load/creation order. The slice is shared; callers
// must not modify it.
func (s *ProfileStore) Profiles() []*models.Profile {
	return s.profiles
}

// Active returns the currently applied profile.
func (s *ProfileStore) Active() *models.Profile {
	return s.active
}

// ActivatedAt is the time of the last profile activation.
func (s *ProfileStore) ActivatedAt() time.Time {
	return s.activatedAt
}

// FindByName returns the profile whose display name matches, or nil.
func (s *ProfileStore) FindByName(name string) *models.Profile {
	for _, profile := range s.profiles {
		if profile.DisplayName() == name {
			return profile
		}
	}
	return nil
}

// Contains reports whether the store holds this exact profile handle.
// Profiles are matched by identity, not by name.
func (s *ProfileStore) Contains(profile *models.Profile) bool {
	return s.indexOf(profile) >= 0
}

// Save stores a profile: a handle not yet in the store is appended
// (created == true), a known handle keeps its position. Either way the
// state file is rewritten.
func (s *ProfileStore) Save(profile *models.Profile) (created bool, err error) {
	if s.indexOf(profile) < 0 {
		s.profiles = append(s.profiles, profile)
		created = true
	}
	return created, s.persist()
}

// Delete removes a user profile and rewrites the state file. Deleting a
// built-in fails with ErrBuiltinProfile. The caller must have moved the
// active profile off the handle first.
func (s *ProfileStore) Delete(profile *models.Profile) error {
	if profile.Builtin {
		return ErrBuiltinProfile
	}
	index := s.indexOf(profile)
	if index < 0 {
		return repositories.ErrNotFound
	}
	s.profiles = append(s.profiles[:index], s.profiles[index+1:]...)
	return s.persist()
}

// Activate marks the profile active, records the activation time and
// persists its ordinal.
func (s *ProfileStore) Activate(profile *models.Profile) error {
	s.active = profile
	s.activatedAt = time.Now()
	return s.persist()
}

// ValidateName checks a candidate profile name for the editor flow: it must
// be non-empty after trimming and must not collide with any other profile's
// effective display name (the localized name for built-ins, the raw name
// otherwise). editing is the handle being renamed and is skipped.
func (s *ProfileStore) ValidateName(candidate string, editing *models.Profile) error {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ErrEmptyName
	}
	for _, profile := range s.profiles {
		if profile == editing {
			continue
		}
		if profile.Builtin && profile.DisplayName() == candidate {
			return ErrDuplicateName
		}
		if profile.Name == candidate {
			return ErrDuplicateName
		}
	}
	return nil
}

// Settings accessors. Mutators persist immediately.

func (s *ProfileStore) LocationLevel() models.LocationLevel {
	return s.locationLevel
}

func (s *ProfileStore) SetLocationLevel(level models.LocationLevel) error {
	s.locationLevel = level
	return s.persist()
}

// StatusMessage returns the persisted custom message and whether one is set.
func (s *ProfileStore) StatusMessage() (string, bool) {
	return s.statusMessage, s.hasMessage
}

func (s *ProfileStore) SetStatusMessage(message string, has bool) error {
	s.statusMessage = message
	s.hasMessage = has
	return s.persist()
}

func (s *ProfileStore) indexOf(profile *models.Profile) int {
	for i, candidate := range s.profiles {
		if candidate == profile {
			return i
		}
	}
	return -1
}

// ActiveIndex is the active profile's ordinal in the full list.
func (s *ProfileStore) ActiveIndex() int {
	index := s.indexOf(s.active)
	if index < 0 {
		return 0
	}
	return index
}

func (s *ProfileStore) persist() error {
	state := &repositories.PersistedState{
		ActiveProfile:    s.ActiveIndex(),
		LocationLevel:    s.locationLevel,
		StatusMessage:    s.statusMessage,
		HasStatusMessage: s.hasMessage,
	}

	for _, profile := range s.profiles {
		if profile.Builtin {
			continue
		}
		stored := repositories.PersistedProfile{
			Name:            profile.Name,
			Icon:            profile.IconBase,
			DefaultPresence: profile.DefaultPresence,
		}
		if len(profile.Accounts) > 0 {
			stored.Accounts = make(map[string]string, len(profile.Accounts))
			for id, keyword := range profile.Accounts {
				stored.Accounts[id] = keyword
			}
		}
		state.Profiles = append(state.Profiles, stored)
	}

	if err := s.repo.Save(state); err != nil {
		log.Printf("Failed to persist profile state: %v", err)
		return fmt.Errorf("failed to persist profile state: %w", err)
	}
	return nil
}
