package usecase

import (
	"strings"
	"time"

	"bazaar-backend/model"
	"bazaar-backend/pkg/apperr"
)

// UserRepo is the profile storage contract. dao.UserRepository satisfies
// it; tests plug in fakes.
type UserRepo interface {
	Insert(u *model.User) error
	GetByID(id string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	UpdateProfile(id string, displayName, year, major *string) error
	SetVerified(id string) error
	Delete(id string) error
}

type UserUsecase struct {
	repo UserRepo
}

func NewUserUsecase(repo UserRepo) *UserUsecase {
	return &UserUsecase{repo: repo}
}

func (u *UserUsecase) GetProfile(id string) (*model.User, error) {
	user, err := u.repo.GetByID(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to fetch user profile. Please try again.", err)
	}
	return user, nil // nil when absent, not an error
}

// CreateProfile writes the full profile, overwriting any existing row at
// that key.
func (u *UserUsecase) CreateProfile(user *model.User) error {
	if err := u.repo.Insert(user); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Failed to create profile. Please try again.", err)
	}
	return nil
}

// GetOrCreateProfile reads the profile and, if absent, seeds one from the
// identity provider's fallback data before re-reading the canonical stored
// form. Tolerates accounts that predate the profile layer. Concurrent
// first access can double-write the seed; the seed is idempotent on the
// same inputs so the race is benign.
func (u *UserUsecase) GetOrCreateProfile(id, fallbackEmail, fallbackName string) (*model.User, error) {
	existing, err := u.GetProfile(id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	name := strings.TrimSpace(fallbackName)
	if name == "" {
		name = localPart(fallbackEmail)
	}
	if name == "" {
		name = "User"
	}
	now := time.Now().UTC()
	seed := &model.User{
		ID:          id,
		Email:       strings.TrimSpace(fallbackEmail),
		DisplayName: name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.CreateProfile(seed); err != nil {
		return nil, err
	}

	created, err := u.GetProfile(id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return seed, nil
	}
	return created, nil
}

// UpdateProfile whitelists exactly three mutable fields and silently
// ignores everything else. An empty intersection leaves the store
// untouched.
func (u *UserUsecase) UpdateProfile(callerID, id string, updates map[string]string) error {
	if callerID != id {
		return apperr.New(apperr.CodePermissionDenied, "You do not have permission to update this profile.")
	}

	var displayName, year, major *string
	if v, ok := updates["displayName"]; ok {
		displayName = trimmed(v)
	}
	if v, ok := updates["year"]; ok {
		year = trimmed(v)
	}
	if v, ok := updates["major"]; ok {
		major = trimmed(v)
	}
	if displayName == nil && year == nil && major == nil {
		return nil
	}

	if err := u.repo.UpdateProfile(id, displayName, year, major); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Failed to update profile. Please try again.", err)
	}
	return nil
}

func (u *UserUsecase) DeleteProfile(callerID, id string) error {
	if callerID != id {
		return apperr.New(apperr.CodePermissionDenied, "You do not have permission to delete this profile.")
	}
	if err := u.repo.Delete(id); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Failed to delete profile. Please try again.", err)
	}
	return nil
}

func localPart(email string) string {
	email = strings.TrimSpace(email)
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return ""
}

func trimmed(s string) *string {
	t := strings.TrimSpace(s)
	return &t
}
