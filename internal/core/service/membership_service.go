package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/clubconnect/auth-service/internal/api/metrics"
	"github.com/clubconnect/auth-service/internal/core/domain"
	"github.com/clubconnect/auth-service/internal/core/ports"
)

const (
	mutateMaxRetries = 4
	mutateBackoff    = 10 * time.Millisecond
)

// MembershipService performs read-modify-write mutations of a user's
// attended-event set. Writes are conditional on the record version read;
// on conflict the whole read-modify-write is retried with backoff, so
// concurrent mutations for the same user never lose an update.
type MembershipService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewMembershipService(repo ports.UserRepository, log zerolog.Logger) *MembershipService {
	return &MembershipService{repo: repo, log: log}
}

// AddEvent adds eventID to the user's set. Adding a present id succeeds
// without writing.
func (s *MembershipService) AddEvent(ctx context.Context, username string, eventID int) error {
	err := s.mutate(ctx, username, func(set domain.EventSet) bool {
		if set.Contains(eventID) {
			return false
		}
		set.Add(eventID)
		return true
	})
	if err != nil {
		return err
	}

	metrics.EventMutationsTotal.WithLabelValues("add").Inc()
	s.log.Info().Str("username", username).Int("event_id", eventID).Msg("event added")
	return nil
}

// RemoveEvent removes eventID from the user's set. Removing an absent id
// succeeds without writing.
func (s *MembershipService) RemoveEvent(ctx context.Context, username string, eventID int) error {
	err := s.mutate(ctx, username, func(set domain.EventSet) bool {
		if !set.Contains(eventID) {
			return false
		}
		set.Remove(eventID)
		return true
	})
	if err != nil {
		return err
	}

	metrics.EventMutationsTotal.WithLabelValues("remove").Inc()
	s.log.Info().Str("username", username).Int("event_id", eventID).Msg("event removed")
	return nil
}

// ListEvents returns the user's attended-event ids in ascending order.
func (s *MembershipService) ListEvents(ctx context.Context, username string) ([]int, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return account.AttendedEvents.Values(), nil
}

// mutate runs one read-modify-write cycle, retrying on version conflict.
// apply reports whether the set actually changed; unchanged sets skip the
// write entirely.
func (s *MembershipService) mutate(ctx context.Context, username string, apply func(domain.EventSet) bool) error {
	backoff := retry.WithMaxRetries(mutateMaxRetries, retry.NewExponential(mutateBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		account, err := s.repo.FindByUsername(ctx, username)
		if err != nil {
			return err
		}

		if !apply(account.AttendedEvents) {
			return nil
		}

		account.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, account); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				metrics.MembershipConflictsTotal.Inc()
				s.log.Debug().Str("username", username).Msg("version conflict, retrying mutation")
				return retry.RetryableError(err)
			}
			return fmt.Errorf("update attended events: %w", err)
		}
		return nil
	})
	// A conflict that survives the whole retry budget means the record is
	// under sustained contention; callers should back off and try again,
	// so it surfaces as Unavailable rather than an internal failure.
	if errors.Is(err, domain.ErrVersionConflict) {
		return fmt.Errorf("mutation retries exhausted: %w", domain.ErrStoreUnavailable)
	}
	return err
}
