package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaar-backend/model"
	"bazaar-backend/pkg/apperr"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*model.User
	inserts int
	updates int
	failGet bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Insert(u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*model.User, error) {
	if r.failGet {
		return nil, errors.New("db down")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateProfile(id string, displayName, year, major *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	if displayName != nil {
		u.DisplayName = *displayName
	}
	if year != nil {
		u.Year = *year
	}
	if major != nil {
		u.Major = *major
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeUserRepo) SetVerified(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.EmailVerified = true
	}
	return nil
}

func (r *fakeUserRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func TestGetProfileAbsentIsNil(t *testing.T) {
	u := NewUserUsecase(newFakeUserRepo())
	got, err := u.GetProfile("nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetProfileWrapsStoreError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.failGet = true
	u := NewUserUsecase(repo)

	_, err := u.GetProfile("u1")
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
	assert.Equal(t, "Failed to fetch user profile. Please try again.", apperr.MessageOf(err))
}

func TestGetOrCreateProfileSeedsOnce(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewUserUsecase(repo)

	first, err := u.GetOrCreateProfile("u1", "joebruin@ucla.edu", "Joe Bruin")
	require.NoError(t, err)
	assert.Equal(t, "u1", first.ID)
	assert.Equal(t, "joebruin@ucla.edu", first.Email)
	assert.Equal(t, "Joe Bruin", first.DisplayName)
	assert.Equal(t, 1, repo.inserts)

	second, err := u.GetOrCreateProfile("u1", "other@ucla.edu", "Other Name")
	require.NoError(t, err)
	assert.Equal(t, "Joe Bruin", second.DisplayName, "existing profile wins over fallbacks")
	assert.Equal(t, 1, repo.inserts)
}

func TestGetOrCreateProfileNameFallbacks(t *testing.T) {
	u := NewUserUsecase(newFakeUserRepo())

	got, err := u.GetOrCreateProfile("u1", "joebruin@ucla.edu", "  ")
	require.NoError(t, err)
	assert.Equal(t, "joebruin", got.DisplayName)

	got, err = u.GetOrCreateProfile("u2", "", "")
	require.NoError(t, err)
	assert.Equal(t, "User", got.DisplayName)
}

func TestUpdateProfileWhitelist(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewUserUsecase(repo)
	require.NoError(t, u.CreateProfile(&model.User{ID: "u1", Email: "joebruin@ucla.edu", DisplayName: "Joe"}))

	// Unknown keys are dropped; with nothing left, the store is untouched.
	require.NoError(t, u.UpdateProfile("u1", "u1", map[string]string{
		"email": "evil@ucla.edu",
		"id":    "u2",
	}))
	assert.Equal(t, 0, repo.updates)

	require.NoError(t, u.UpdateProfile("u1", "u1", map[string]string{
		"displayName": "  Josephine  ",
		"major":       "Linguistics",
		"email":       "still-ignored@ucla.edu",
	}))
	got, err := u.GetProfile("u1")
	require.NoError(t, err)
	assert.Equal(t, "Josephine", got.DisplayName)
	assert.Equal(t, "Linguistics", got.Major)
	assert.Equal(t, "joebruin@ucla.edu", got.Email)
}

func TestUpdateProfileSelfOnly(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewUserUsecase(repo)
	require.NoError(t, u.CreateProfile(&model.User{ID: "u1"}))

	err := u.UpdateProfile("u2", "u1", map[string]string{"displayName": "Hijacked"})
	assert.Equal(t, apperr.CodePermissionDenied, apperr.CodeOf(err))
	assert.Equal(t, 0, repo.updates)
}

func TestDeleteProfileSelfOnly(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewUserUsecase(repo)
	require.NoError(t, u.CreateProfile(&model.User{ID: "u1"}))

	err := u.DeleteProfile("u2", "u1")
	assert.Equal(t, apperr.CodePermissionDenied, apperr.CodeOf(err))

	require.NoError(t, u.DeleteProfile("u1", "u1"))
	got, err := u.GetProfile("u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
