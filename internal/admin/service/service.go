// Package service implements admin authentication against the static
// credential pair configured at deploy time.
package service

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"aakseva/internal/audit"
	"aakseva/internal/jwttoken"
	"aakseva/internal/platform/metrics"
	dErrors "aakseva/pkg/domain-errors"
)

// Revoker puts token JTIs on the revocation list until they expire.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// Identity is the authenticated admin as returned to the client.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Credentials is the configured admin account. Either PasswordHash (bcrypt)
// or Password must be set; the hash wins when both are present.
type Credentials struct {
	Email        string
	Name         string
	Password     string
	PasswordHash string
}

// Service verifies admin credentials and manages token lifecycle.
type Service struct {
	creds    Credentials
	tokens   *jwttoken.JWTService
	tokenTTL time.Duration
	revoker  Revoker
	recorder *audit.Recorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(creds Credentials, tokens *jwttoken.JWTService, tokenTTL time.Duration, revoker Revoker, recorder *audit.Recorder, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		creds:    creds,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		revoker:  revoker,
		recorder: recorder,
		metrics:  metrics,
		logger:   logger,
	}
}

// Login checks the supplied credentials and issues a signed token. Failures
// are deliberately indistinguishable between bad email and bad password.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Identity, error) {
	if !s.credentialsMatch(email, password) {
		s.metrics.IncAdminLoginFailures()
		s.recorder.Record(ctx, audit.ActionAdminLoginFailed, email, "", "")
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	token, err := s.tokens.GenerateAdminToken(s.creds.Email, s.creds.Name, s.tokenTTL)
	if err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.recorder.Record(ctx, audit.ActionAdminLoggedIn, s.creds.Email, "", "")
	return token, &Identity{Email: s.creds.Email, Name: s.creds.Name, Role: "admin"}, nil
}

// Logout revokes the presented token for its remaining lifetime. An invalid
// or already expired token is not an error from the caller's point of view.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil
	}

	ttl := claims.RemainingTTL(time.Now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}

	s.recorder.Record(ctx, audit.ActionAdminLoggedOut, claims.Email, "", "")
	return nil
}

// credentialsMatch runs both comparisons unconditionally so response timing
// does not reveal which field was wrong.
func (s *Service) credentialsMatch(email, password string) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.creds.Email)) == 1

	var passwordOK bool
	if s.creds.PasswordHash != "" {
		passwordOK = bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(password)) == nil
	} else if s.creds.Password != "" {
		passwordOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password)) == 1
	}

	return emailOK && passwordOK
}
