package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Bipinmahat1/NepaliLove/internal/cache"
	"github.com/Bipinmahat1/NepaliLove/internal/models"
)

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	ListByUserIDs(ctx context.Context, userIDs []string) (map[string]models.Profile, error)
}

// ProfileLookup resolves profiles owned by the profile collaborator, reading
// through the configured cache. Cache failures degrade to a database read.
type ProfileLookup struct {
	store ProfileStore
	cache cache.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

func NewProfileLookup(store ProfileStore, c cache.Cache, ttl time.Duration, log zerolog.Logger) *ProfileLookup {
	if c == nil {
		c = cache.Noop{}
	}
	return &ProfileLookup{
		store: store,
		cache: c,
		ttl:   ttl,
		log:   log.With().Str("component", "profiles").Logger(),
	}
}

// Get returns nil without error when the user has no profile yet.
func (s *ProfileLookup) Get(ctx context.Context, userID string) (*models.Profile, error) {
	if profile, ok := s.fromCache(ctx, userID); ok {
		return profile, nil
	}

	profile, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	s.remember(ctx, profile)
	return profile, nil
}

// GetMany resolves a batch of profiles keyed by user id. Users without a
// profile are absent from the result.
func (s *ProfileLookup) GetMany(ctx context.Context, userIDs []string) (map[string]models.Profile, error) {
	result := make(map[string]models.Profile, len(userIDs))
	misses := make([]string, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))

	for _, userID := range userIDs {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}

		if profile, ok := s.fromCache(ctx, userID); ok {
			result[userID] = *profile
			continue
		}
		misses = append(misses, userID)
	}

	if len(misses) == 0 {
		return result, nil
	}

	loaded, err := s.store.ListByUserIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	for userID, profile := range loaded {
		profile := profile
		result[userID] = profile
		s.remember(ctx, &profile)
	}

	return result, nil
}

func (s *ProfileLookup) fromCache(ctx context.Context, userID string) (*models.Profile, bool) {
	raw, err := s.cache.Get(ctx, profileCacheKey(userID))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("profile cache read failed")
		}
		return nil, false
	}

	var profile models.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("discarding undecodable cached profile")
		return nil, false
	}
	return &profile, true
}

func (s *ProfileLookup) remember(ctx context.Context, profile *models.Profile) {
	encoded, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, profileCacheKey(profile.UserID), string(encoded), s.ttl); err != nil {
		s.log.Warn().Err(err).Str("user_id", profile.UserID).Msg("profile cache write failed")
	}
}

func profileCacheKey(userID string) string {
	return "profile:" + userID
}
