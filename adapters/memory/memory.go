// Package memory provides an in-process IdentityService for development and
// tests. It fakes a remote identity backend: bcrypt-hashed passwords, JWT
// credentials with real expiry, and uuid-keyed session records. It is not a
// server-side identity provider.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	session "github.com/wanderstay/go-session"
)

const (
	defaultTokenTTL = 24 * time.Hour

	msgInvalidCredentials = "Invalid credentials"
	msgEmailTaken         = "An account with this email already exists"
	msgUnknownToken       = "Invalid or expired token"
	msgNotLoggedIn        = "Not logged in"
	msgUnknownSession     = "Unknown session"
)

type account struct {
	user         *session.User
	passwordHash string
}

// Service is an in-memory IdentityService implementation.
type Service struct {
	mu         sync.Mutex
	accounts   map[string]*account // keyed by email
	social     map[string]string   // provider:token -> email
	resets     map[string]string   // reset token -> email
	verifies   map[string]string   // verification token -> email
	sessions   []map[string]any
	current    *session.User
	credential string

	signingKey []byte
	tokenTTL   time.Duration
}

var _ session.IdentityService = (*Service)(nil)

// New returns an empty in-memory identity service.
func New() *Service {
	return &Service{
		accounts:   map[string]*account{},
		social:     map[string]string{},
		resets:     map[string]string{},
		verifies:   map[string]string{},
		signingKey: []byte("memory-identity-service"),
		tokenTTL:   defaultTokenTTL,
	}
}

// WithTokenTTL overrides credential lifetime. Negative values produce
// already-expired credentials, which tests use to exercise the
// cached-identity-with-invalid-credential path.
func (s *Service) WithTokenTTL(ttl time.Duration) *Service {
	s.tokenTTL = ttl
	return s
}

// WithSigningKey overrides the HMAC key used for credentials.
func (s *Service) WithSigningKey(key []byte) *Service {
	if len(key) > 0 {
		s.signingKey = key
	}
	return s
}

// LinkSocialAccount preregisters a provider token so SocialLogin can resolve
// it to an email, the way a provider-side exchange would.
func (s *Service) LinkSocialAccount(provider, token, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.social[provider+":"+token] = strings.ToLower(email)
}

// Login verifies email and password and establishes a credential.
func (s *Service) Login(ctx context.Context, creds session.Credentials) (session.Result[struct{}], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[strings.ToLower(creds.Email)]
	if !ok {
		return session.Fail(msgInvalidCredentials), nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(creds.Password)); err != nil {
		return session.Fail(msgInvalidCredentials), nil
	}

	if err := s.establishLocked(acc.user); err != nil {
		return session.Fail(""), nil
	}

	return session.OK(), nil
}

// Register creates an account and establishes its session.
func (s *Service) Register(ctx context.Context, data session.Registration) (session.Result[struct{}], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(data.Email)
	if _, exists := s.accounts[email]; exists {
		return session.Fail(msgEmailTaken), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return session.Fail(""), nil
	}

	id, err := hashid.NewUUID(email)
	if err != nil {
		id = uuid.New()
	}

	now := time.Now()
	user := &session.User{
		ID:        id,
		Email:     email,
		Name:      data.Name,
		Phone:     data.Phone,
		Role:      session.RoleUser,
		CreatedAt: &now,
		UpdatedAt: &now,
	}

	s.accounts[email] = &account{user: user, passwordHash: string(hash)}

	if err := s.establishLocked(user); err != nil {
		return session.Fail(""), nil
	}

	return session.OK(), nil
}

// Logout drops the credential and the cached identity.
func (s *Service) Logout(ctx context.Context) (session.Result[struct{}], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.credential = ""

	return session.OK(), nil
}

// UpdateProfile applies non-zero fields to the current identity.
func (s *Service) UpdateProfile(ctx context.Context, update session.ProfileUpdate) (session.Result[struct{}], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return session.Fail(msgNotLoggedIn), nil
	}

	u := s.current
	if update.Name != "" {
		u.Name = update.Name
	}
	if update.Avatar != "" {
		u.Avatar = update.Avatar
	}
	if update.Phone != "" {
		u.Phone = update.Phone
	}
	if update.Bio != "" {
		u.Bio = update.Bio
	}
	if update.Nationality != "" {
		u.Nationality = update.Nationality
	}
	if len(update.Languages) > 0 {
		u.Languages = append([]string(nil), update.Languages...)
	}

	now := time.Now()
	u.UpdatedAt = &now

	return session.OK(), nil
}

// ForgotPassword issues a reset token for the given email. Like a real
// identity service, it succeeds even for unknown emails so account existence
// is not leaked.
func (s *Service) ForgotPassword(ctx context.Context, email string) (session.Result[struct{}], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[strings.ToLower(email)]; ok {
		s.resets[uuid.NewString()] = strings.ToLower(email)
	}

	return session.OK(), nil
}

// PendingResetToken returns the most recent reset token for an email, the
// way the emailed link would carry it.
func (s *Service) PendingResetToken(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, addr := range s.resets {
		if addr == strings.ToLower(email) {
			return token, true
		}
	}
	return "", false
}

// ResetPassword finalizes a reset with an issued token.
func (s *Service) ResetPassword(ctx context.Context, token, password string) (session.Result[struct{}], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.resets[token]
	if !ok {
		return session.Fail(msgUnknownToken), nil
	}

	acc, ok := s.accounts[email]
	if !ok {
		return session.Fail(msgUnknownToken), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return session.Fail(""), nil
	}

	acc.passwordHash = string(hash)
	delete(s.resets, token)

	return session.OK(), nil
}

// VerifyEmail confirms an address with an issued verification token.
func (s *Service) VerifyEmail(ctx context.Context, token string) (session.Result[struct{}], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.verifies[token]
	if !ok {
		return session.Fail(msgUnknownToken), nil
	}

	acc, ok := s.accounts[email]
	if !ok {
		return session.Fail(msgUnknownToken), nil
	}

	acc.user.IsVerified = true
	delete(s.verifies, token)

	return session.OK(), nil
}

// ResendVerificationEmail issues a fresh verification token for the current
// identity.
func (s *Service) ResendVerificationEmail(ctx context.Context) (session.Result[struct{}], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return session.Fail(msgNotLoggedIn), nil
	}

	s.verifies[uuid.NewString()] = s.current.Email

	return session.OK(), nil
}

// PendingVerificationToken returns an outstanding verification token for an
// email, if any.
func (s *Service) PendingVerificationToken(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, addr := range s.verifies {
		if addr == strings.ToLower(email) {
			return token, true
		}
	}
	return "", false
}

// ChangePassword swaps the current identity's password.
func (s *Service) ChangePassword(ctx context.Context, current, next string) (session.Result[struct{}], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return session.Fail(msgNotLoggedIn), nil
	}

	acc, ok := s.accounts[s.current.Email]
	if !ok {
		return session.Fail(msgNotLoggedIn), nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(current)); err != nil {
		return session.Fail(msgInvalidCredentials), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return session.Fail(""), nil
	}

	acc.passwordHash = string(hash)

	return session.OK(), nil
}

// SocialLogin resolves a preregistered provider token to an account,
// creating one on first login, and establishes its session.
func (s *Service) SocialLogin(ctx context.Context, provider, token string) (session.Result[struct{}], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.social[provider+":"+token]
	if !ok {
		return session.Fail(msgUnknownToken), nil
	}

	acc, ok := s.accounts[email]
	if !ok {
		id, err := hashid.NewUUID(email)
		if err != nil {
			id = uuid.New()
		}

		now := time.Now()
		acc = &account{
			user: &session.User{
				ID:         id,
				Email:      email,
				Role:       session.RoleUser,
				IsVerified: true,
				CreatedAt:  &now,
				UpdatedAt:  &now,
			},
		}
		s.accounts[email] = acc
	}

	if err := s.establishLocked(acc.user); err != nil {
		return session.Fail(""), nil
	}

	return session.OK(), nil
}

// GetActiveSessions lists the session records for the account.
func (s *Service) GetActiveSessions(ctx context.Context) (session.Result[[]map[string]any], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return session.FailWith[[]map[string]any](msgNotLoggedIn), nil
	}

	out := make([]map[string]any, len(s.sessions))
	copy(out, s.sessions)

	return session.OKWith(out), nil
}

// RevokeSession drops one session record by id.
func (s *Service) RevokeSession(ctx context.Context, id string) (session.Result[struct{}], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.sessions {
		if recID, ok := rec["id"].(string); ok && recID == id {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			return session.OK(), nil
		}
	}

	return session.Fail(msgUnknownSession), nil
}

// CurrentUser returns the cached identity. Deliberately independent of
// IsAuthenticated: the cache can outlive the credential.
func (s *Service) CurrentUser() *session.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsAuthenticated reports whether the held credential parses and has not
// expired.
func (s *Service) IsAuthenticated() bool {
	s.mu.Lock()
	credential := s.credential
	s.mu.Unlock()

	if credential == "" {
		return false
	}

	_, err := jwt.Parse(credential, func(t *jwt.Token) (any, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return err == nil
}

func (s *Service) establishLocked(user *session.User) error {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return err
	}

	s.current = user
	s.credential = token
	s.sessions = append(s.sessions, map[string]any{
		"id":         uuid.NewString(),
		"user_id":    user.ID.String(),
		"created_at": now,
	})

	return nil
}
