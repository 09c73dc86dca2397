package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaar-backend/pkg/apperr"
	"bazaar-backend/pkg/identity"
)

func newAuthFixture() (*AuthUsecase, *fakeUserRepo) {
	repo := newFakeUserRepo()
	gate := identity.NewGate([]string{"ucla.edu", "g.ucla.edu"})
	return NewAuthUsecase(repo, gate, "test-secret", time.Hour), repo
}

func TestRegisterRejectsOutsideDomain(t *testing.T) {
	a, repo := newAuthFixture()
	_, _, err := a.Register("joe@gmail.com", "hunter22", "Joe", "", "")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	assert.Contains(t, apperr.MessageOf(err), "@ucla.edu or @g.ucla.edu")
	assert.Equal(t, 0, repo.inserts)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	a, repo := newAuthFixture()
	_, _, err := a.Register("joe@ucla.edu", "12345", "Joe", "", "")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	assert.Equal(t, 0, repo.inserts)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a, _ := newAuthFixture()
	_, _, err := a.Register("joe@ucla.edu", "hunter22", "Joe", "", "")
	require.NoError(t, err)

	_, _, err = a.Register("joe@ucla.edu", "another-pass", "Joe Again", "", "")
	assert.Equal(t, apperr.CodeAlreadyExists, apperr.CodeOf(err))
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	a, _ := newAuthFixture()
	user, token, err := a.Register("joe@g.ucla.edu", "hunter22", "Joe Bruin", "3rd Year", "CS")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.EmailVerified)
	assert.Equal(t, "3rd Year", user.Year)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	id, email, err := a.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, "joe@g.ucla.edu", email)

	logged, token2, err := a.Login("joe@g.ucla.edu", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token2)

	_, _, err = a.Login("joe@g.ucla.edu", "wrong-pass")
	assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))

	_, _, err = a.Login("nobody@g.ucla.edu", "hunter22")
	assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))
}

func TestRegisterDefaultsDisplayName(t *testing.T) {
	a, _ := newAuthFixture()
	user, _, err := a.Register("joebruin@ucla.edu", "hunter22", "  ", "", "")
	require.NoError(t, err)
	assert.Equal(t, "joebruin", user.DisplayName)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	a, _ := newAuthFixture()
	_, _, err := a.ParseToken("not.a.token")
	assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	repo := newFakeUserRepo()
	gate := identity.NewGate([]string{"ucla.edu"})
	issuer := NewAuthUsecase(repo, gate, "secret-a", time.Hour)
	verifier := NewAuthUsecase(repo, gate, "secret-b", time.Hour)

	_, token, err := issuer.Register("joe@ucla.edu", "hunter22", "Joe", "", "")
	require.NoError(t, err)

	_, _, err = verifier.ParseToken(token)
	assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))
}

func TestMarkVerified(t *testing.T) {
	a, repo := newAuthFixture()
	user, _, err := a.Register("joe@ucla.edu", "hunter22", "Joe", "", "")
	require.NoError(t, err)

	require.NoError(t, a.MarkVerified(user.ID))
	stored, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
}

func TestRequestPasswordResetGatesDomain(t *testing.T) {
	a, _ := newAuthFixture()
	assert.NoError(t, a.RequestPasswordReset("joe@ucla.edu"))

	err := a.RequestPasswordReset("joe@gmail.com")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}
