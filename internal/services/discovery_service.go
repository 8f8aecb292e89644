package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Bipinmahat1/NepaliLove/internal/models"
)

const (
	DefaultDiscoveryLimit = 20
	maxDiscoveryFetch     = 200
)

type CandidateSource interface {
	ListForDiscovery(ctx context.Context, userID string, limit int) ([]models.Profile, error)
}

type PreferencesReader interface {
	GetByUserID(ctx context.Context, userID string) (*models.Preferences, error)
}

type DiscoveryService struct {
	candidates  CandidateSource
	preferences PreferencesReader
	profiles    ProfileReader
}

func NewDiscoveryService(
	candidates CandidateSource,
	preferences PreferencesReader,
	profiles ProfileReader,
) *DiscoveryService {
	return &DiscoveryService{
		candidates:  candidates,
		preferences: preferences,
		profiles:    profiles,
	}
}

// Discover returns profiles the user has not swiped on yet, best preference
// match first.
func (s *DiscoveryService) Discover(ctx context.Context, userID string, limit int) ([]models.DiscoveryCandidate, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = DefaultDiscoveryLimit
	}

	fetch := limit * 4
	if fetch > maxDiscoveryFetch {
		fetch = maxDiscoveryFetch
	}

	profiles, err := s.candidates.ListForDiscovery(ctx, userID, fetch)
	if err != nil {
		return nil, err
	}

	prefs, err := s.preferences.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		prefs = nil
	}

	self, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	scored := make([]models.DiscoveryCandidate, 0, len(profiles))
	for i := range profiles {
		scored = append(scored, models.DiscoveryCandidate{
			Profile: profiles[i],
			Score:   calculateMatchScore(prefs, self, &profiles[i]),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score == scored[j].Score {
			return scored[i].Profile.CreatedAt.After(scored[j].Profile.CreatedAt)
		}
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	return scored, nil
}

func calculateMatchScore(prefs *models.Preferences, self *models.Profile, candidate *models.Profile) int {
	if prefs == nil {
		return 0
	}

	score := 0
	if candidate.Age >= prefs.MinAge && candidate.Age <= prefs.MaxAge {
		score += 40
	}
	if want := normalize(stringValue(prefs.PreferredGender)); want != "" && want == normalize(candidate.Gender) {
		score += 30
	}
	if want := normalize(stringValue(prefs.PreferredReligion)); want != "" && want == normalize(stringValue(candidate.Religion)) {
		score += 20
	}
	if self != nil {
		if here := normalize(stringValue(self.Location)); here != "" && here == normalize(stringValue(candidate.Location)) {
			score += 10
		}
	}

	return score
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
