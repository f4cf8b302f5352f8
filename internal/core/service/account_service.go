package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubconnect/auth-service/internal/api/metrics"
	"github.com/clubconnect/auth-service/internal/core/domain"
	"github.com/clubconnect/auth-service/internal/core/ports"
)

// LoginThrottle abstracts the failed-attempt counter (Redis).
type LoginThrottle interface {
	TooManyFailures(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AccountService implements registration and credential verification.
type AccountService struct {
	repo     ports.UserRepository
	tokens   ports.TokenService
	throttle LoginThrottle
	log      zerolog.Logger
}

func NewAccountService(repo ports.UserRepository, tokens ports.TokenService, throttle LoginThrottle, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, tokens: tokens, throttle: throttle, log: log}
}

// Register creates an account with an empty attended-event set.
// Username and email must both be unused. The pre-checks here give a
// precise conflict answer; the store's unique indexes close the race
// window between check and write.
func (s *AccountService) Register(ctx context.Context, username, email, password, role string) (*domain.Account, error) {
	if username == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Username:       username,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           role,
		AttendedEvents: domain.NewEventSet(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(role).Inc()
	s.log.Info().Str("username", username).Str("role", role).Msg("account registered")
	return account, nil
}

// Authenticate verifies credentials and issues a session token. The
// failure is deliberately opaque: a missing account and a wrong password
// both come back as ErrInvalidCredentials so usernames cannot be
// enumerated through the login endpoint.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	if locked, err := s.throttle.TooManyFailures(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("throttle check failed, proceeding")
	} else if locked {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return "", domain.ErrTooManyAttempts
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, username)
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		return "", domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("throttle reset failed")
	}

	token, err := s.tokens.Issue(account.Username, account.Role)
	if err != nil {
		return "", err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, nil
}

func (s *AccountService) recordFailure(ctx context.Context, username string) {
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}
