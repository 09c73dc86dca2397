package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jww "github.com/spf13/jwalterweatherman"
	"golang.org/x/crypto/bcrypt"

	"bazaar-backend/model"
	"bazaar-backend/pkg/apperr"
	"bazaar-backend/pkg/identity"
)

const minPasswordLen = 6

// AuthUsecase owns sign-up/sign-in and session tokens. The identity gate
// runs before any account creation or password reset.
type AuthUsecase struct {
	repo      UserRepo
	gate      *identity.Gate
	secret    []byte
	tokenTTL  time.Duration
	badDomain string
}

func NewAuthUsecase(repo UserRepo, gate *identity.Gate, secret string, tokenTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{
		repo:     repo,
		gate:     gate,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		badDomain: fmt.Sprintf("Please use a valid institutional email (@%s)",
			strings.Join(gate.Domains(), " or @")),
	}
}

type sessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Register validates the email domain and password, creates the account
// and profile, and returns a session token. The verification flag starts
// false until the provider callback flips it.
func (a *AuthUsecase) Register(email, password, displayName, year, major string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if !a.gate.ValidEmail(email) {
		return nil, "", apperr.New(apperr.CodeInvalidArgument, a.badDomain)
	}
	if len(password) < minPasswordLen {
		return nil, "", apperr.New(apperr.CodeInvalidArgument, "Password must be at least 6 characters")
	}

	existing, err := a.repo.GetByEmail(email)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeInternal, "Failed to create account. Please try again.", err)
	}
	if existing != nil {
		return nil, "", apperr.New(apperr.CodeAlreadyExists, "An account with this email already exists.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeInternal, "Failed to create account. Please try again.", err)
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = localPart(email)
	}
	now := time.Now().UTC()
	user := &model.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  name,
		Year:         strings.TrimSpace(year),
		Major:        strings.TrimSpace(major),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.repo.Insert(user); err != nil {
		return nil, "", apperr.Wrap(apperr.CodeInternal, "Failed to create profile. Please try again.", err)
	}

	token, err := a.mintToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (a *AuthUsecase) Login(email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", apperr.New(apperr.CodeInvalidArgument, "Email and password are required")
	}
	user, err := a.repo.GetByEmail(email)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeInternal, "Failed to sign in. Please try again.", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", apperr.New(apperr.CodeUnauthenticated, "Invalid email or password.")
	}
	token, err := a.mintToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// MarkVerified records that the account's email passed verification.
func (a *AuthUsecase) MarkVerified(userID string) error {
	if err := a.repo.SetVerified(userID); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Failed to update verification. Please try again.", err)
	}
	return nil
}

// RequestPasswordReset gates the address; the actual mail delivery belongs
// to the identity provider, so here it only leaves an operator trace.
func (a *AuthUsecase) RequestPasswordReset(email string) error {
	email = strings.TrimSpace(email)
	if !a.gate.ValidEmail(email) {
		return apperr.New(apperr.CodeInvalidArgument, a.badDomain)
	}
	jww.INFO.Printf("auth: password reset requested for %s", email)
	return nil
}

// ParseToken returns the user id and email carried by a session token.
func (a *AuthUsecase) ParseToken(token string) (userID, email string, err error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", "", apperr.Wrap(apperr.CodeUnauthenticated, "You must be logged in.", err)
	}
	return claims.Subject, claims.Email, nil
}

func (a *AuthUsecase) mintToken(user *model.User) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "Failed to sign in. Please try again.", err)
	}
	return token, nil
}
