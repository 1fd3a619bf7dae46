package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusarea/presenced/internal/models"
	"github.com/statusarea/presenced/internal/repositories"
)

// memoryStateRepo is an in-memory StateRepository for store tests.
type memoryStateRepo struct {
	state   *repositories.PersistedState
	saves   int
	saveErr error
}

func (r *memoryStateRepo) Load() (*repositories.PersistedState, error) {
	if r.state == nil {
		return &repositories.PersistedState{LocationLevel: models.LocationLevelNone}, nil
	}
	return r.state, nil
}

func (r *memoryStateRepo) Save(state *repositories.PersistedState) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.state = state
	return nil
}

// TestProfileStore_New tests the initial built-in state
func TestProfileStore_New(t *testing.T) {
	store := NewProfileStore(&memoryStateRepo{})

	require.Len(t, store.Profiles(), 3)
	assert.Same(t, store.Profiles()[0], store.Active(), "The Online built-in starts active")
	assert.Equal(t, models.LocationLevelNone, store.LocationLevel())

	_, has := store.StatusMessage()
	assert.False(t, has)
}

// TestProfileStore_SaveAndLoad tests the create/update/reload cycle
func TestProfileStore_SaveAndLoad(t *testing.T) {
	repo := &memoryStateRepo{}
	store := NewProfileStore(repo)

	work := &models.Profile{Name: "Work", DefaultPresence: models.KeywordAvailable}
	work.SetIcon("general_presence_online")
	work.SetAccountPresence("gabble/jabber/acct0", models.KeywordDND)

	// ACT: first save creates, second updates
	created, err := store.Save(work)
	require.NoError(t, err)
	assert.True(t, created)

	work.DefaultPresence = models.KeywordBusy
	created, err = store.Save(work)
	require.NoError(t, err)
	assert.False(t, created, "Saving a known handle is an update")

	require.Len(t, store.Profiles(), 4)

	// ACT: a fresh store loads the same state
	reloaded := NewProfileStore(repo)
	require.NoError(t, reloaded.Load())

	require.Len(t, reloaded.Profiles(), 4)
	loaded := reloaded.Profiles()[3]
	assert.Equal(t, "Work", loaded.Name)
	assert.Equal(t, models.KeywordBusy, loaded.DefaultPresence)
	assert.Equal(t, "general_presence_online_error", loaded.IconError)
	assert.Equal(t, models.KeywordDND, loaded.PresenceFor("gabble/jabber/acct0"))
	assert.False(t, loaded.Builtin)
}

// TestProfileStore_Load_ActiveOrdinal tests active restoration and range clamping
func TestProfileStore_Load_ActiveOrdinal(t *testing.T) {
	repo := &memoryStateRepo{state: &repositories.PersistedState{
		ActiveProfile: 3,
		LocationLevel: models.LocationLevelCity,
		Profiles:      []repositories.PersistedProfile{{Name: "Work", Icon: "i", DefaultPresence: "busy"}},
	}}
	store := NewProfileStore(repo)
	require.NoError(t, store.Load())

	assert.Equal(t, "Work", store.Active().Name)
	assert.Equal(t, models.LocationLevelCity, store.LocationLevel())

	// Out-of-range ordinal falls back to the first built-in
	repo.state.ActiveProfile = 9
	require.NoError(t, store.Load())
	assert.Same(t, store.Profiles()[0], store.Active())
}

// TestProfileStore_Delete tests removal rules
func TestProfileStore_Delete(t *testing.T) {
	repo := &memoryStateRepo{}
	store := NewProfileStore(repo)

	err := store.Delete(store.Profiles()[0])
	assert.ErrorIs(t, err, ErrBuiltinProfile)

	stranger := &models.Profile{Name: "Nope"}
	err = store.Delete(stranger)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	work := &models.Profile{Name: "Work", DefaultPresence: models.KeywordBusy}
	_, err = store.Save(work)
	require.NoError(t, err)

	require.NoError(t, store.Delete(work))
	assert.Len(t, store.Profiles(), 3)
	assert.Empty(t, repo.state.Profiles, "Deletion must reach the state file")
}

// TestProfileStore_Activate tests ordinal persistence
func TestProfileStore_Activate(t *testing.T) {
	repo := &memoryStateRepo{}
	store := NewProfileStore(repo)

	work := &models.Profile{Name: "Work", DefaultPresence: models.KeywordBusy}
	_, err := store.Save(work)
	require.NoError(t, err)

	require.NoError(t, store.Activate(work))

	assert.Same(t, work, store.Active())
	assert.Equal(t, 3, repo.state.ActiveProfile, "Active profile persists as its list ordinal")
	assert.False(t, store.ActivatedAt().IsZero())
}

// TestProfileStore_ValidateName tests the editor name rules
func TestProfileStore_ValidateName(t *testing.T) {
	store := NewProfileStore(&memoryStateRepo{})

	work := &models.Profile{Name: "Work", DefaultPresence: models.KeywordBusy}
	_, err := store.Save(work)
	require.NoError(t, err)

	assert.ErrorIs(t, store.ValidateName("", nil), ErrEmptyName)
	assert.ErrorIs(t, store.ValidateName("   ", nil), ErrEmptyName)
	assert.ErrorIs(t, store.ValidateName("Online", nil), ErrDuplicateName, "Built-in display names are reserved")
	assert.ErrorIs(t, store.ValidateName("Work", nil), ErrDuplicateName)

	assert.NoError(t, store.ValidateName("Work", work), "Renaming a profile to its own name is allowed")
	assert.NoError(t, store.ValidateName("Holidays", nil))
}

// TestProfileStore_PersistError tests that a failed save surfaces but does not roll back
func TestProfileStore_PersistError(t *testing.T) {
	repo := &memoryStateRepo{saveErr: errors.New("disk full")}
	store := NewProfileStore(repo)

	work := &models.Profile{Name: "Work", DefaultPresence: models.KeywordBusy}
	created, err := store.Save(work)

	require.Error(t, err)
	assert.True(t, created)
	assert.True(t, store.Contains(work), "In-memory state stays authoritative on a failed write")
}

// TestProfileStore_Settings tests message and location persistence
func TestProfileStore_Settings(t *testing.T) {
	repo := &memoryStateRepo{}
	store := NewProfileStore(repo)

	require.NoError(t, store.SetStatusMessage("Out for lunch", true))
	require.NoError(t, store.SetLocationLevel(models.LocationLevelStreet))

	message, has := store.StatusMessage()
	assert.True(t, has)
	assert.Equal(t, "Out for lunch", message)
	assert.Equal(t, "Out for lunch", repo.state.StatusMessage)
	assert.Equal(t, models.LocationLevelStreet, repo.state.LocationLevel)

	require.NoError(t, store.SetStatusMessage("", false))
	_, has = store.StatusMessage()
	assert.False(t, has)
	assert.False(t, repo.state.HasStatusMessage)
}
