package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Bipinmahat1/NepaliLove/internal/metrics"
	"github.com/Bipinmahat1/NepaliLove/internal/models"
	"github.com/Bipinmahat1/NepaliLove/internal/repository"
)

type MatchLister interface {
	ListForUser(ctx context.Context, userID string) ([]models.Match, error)
}

type ProfileReader interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	GetMany(ctx context.Context, userIDs []string) (map[string]models.Profile, error)
}

type MatchService struct {
	db        TxBeginner
	matches   MatchLister
	profiles  ProfileReader
	publisher Publisher
	log       zerolog.Logger
}

func NewMatchService(
	db TxBeginner,
	matches MatchLister,
	profiles ProfileReader,
	publisher Publisher,
	log zerolog.Logger,
) *MatchService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &MatchService{
		db:        db,
		matches:   matches,
		profiles:  profiles,
		publisher: publisher,
		log:       log.With().Str("component", "matches").Logger(),
	}
}

// Swipe records the swiper's decision and, when a like meets the other user's
// latest action being a like, resolves the pair's single match. The decision
// runs under a pair-scoped advisory lock so two crossing likes always see
// each other.
func (s *MatchService) Swipe(
	ctx context.Context,
	swiperID string,
	swipedID string,
	rawAction string,
) (*models.SwipeResult, error) {
	action, err := models.ParseSwipeAction(rawAction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	pair, err := models.NewPair(swiperID, swipedID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	swiperID = strings.TrimSpace(swiperID)
	swipedID = pair.Other(swiperID)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", pair.Key()); err != nil {
		return nil, err
	}

	exists, err := repository.NewUserRepository(tx).Exists(ctx, swipedID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	txSwipeRepo := repository.NewSwipeRepository(tx)

	swipe, err := txSwipeRepo.Create(ctx, swiperID, swipedID, action)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	result := &models.SwipeResult{Swipe: swipe}

	if action == models.SwipeLike {
		reverse, found, err := txSwipeRepo.LatestAction(ctx, swipedID, swiperID)
		if err != nil {
			return nil, err
		}

		if found && reverse == models.SwipeLike {
			match, created, err := repository.NewMatchRepository(tx).CreateIfAbsent(ctx, pair)
			if err != nil {
				return nil, err
			}
			result.IsMatch = true
			result.Match = match
			result.Created = created
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.RecordSwipe(string(action))

	if result.Created {
		metrics.RecordMatch()
		s.log.Info().
			Str("match_id", result.Match.ID.String()).
			Str("user_a", result.Match.UserA).
			Str("user_b", result.Match.UserB).
			Msg("match created")

		event := Event{Type: EventMatch, Match: result.Match}
		if err := s.publisher.Publish(event, pair.Low, pair.High); err != nil {
			s.log.Warn().Err(err).Str("match_id", result.Match.ID.String()).Msg("match notification failed")
		}
	}

	return result, nil
}

// ListMatches returns the user's matches, newest first, each enriched with the
// other user's profile when one exists.
func (s *MatchService) ListMatches(ctx context.Context, userID string) ([]models.MatchWithProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}

	matches, err := s.matches.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	otherIDs := make([]string, 0, len(matches))
	for _, match := range matches {
		otherIDs = append(otherIDs, match.OtherUserID(userID))
	}

	profiles, err := s.profiles.GetMany(ctx, otherIDs)
	if err != nil {
		return nil, err
	}

	result := make([]models.MatchWithProfile, 0, len(matches))
	for _, match := range matches {
		item := models.MatchWithProfile{Match: match}
		if profile, ok := profiles[match.OtherUserID(userID)]; ok {
			profile := profile
			item.Profile = &profile
		}
		result = append(result, item)
	}

	return result, nil
}
