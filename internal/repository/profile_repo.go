package repository

import (
	"context"

	"github.com/Bipinmahat1/NepaliLove/internal/models"
)

const profileColumns = `
	p.id, p.user_id, p.name, p.age, p.gender, p.ethnicity, p.religion, p.bio,
	p.looking_for, p.location, p.photos, p.video_url, p.is_active, p.created_at, p.updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE p.user_id = $1`
	return scanProfile(r.db.QueryRow(ctx, query, userID))
}

func (r *ProfileRepository) ListByUserIDs(ctx context.Context, userIDs []string) (map[string]models.Profile, error) {
	profiles := make(map[string]models.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}

	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE p.user_id = ANY($1)`
	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles[profile.UserID] = *profile
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// ListForDiscovery returns active profiles other than userID that userID has
// never swiped on, newest first.
func (r *ProfileRepository) ListForDiscovery(ctx context.Context, userID string, limit int) ([]models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		WHERE p.user_id <> $1
		  AND p.is_active = TRUE
		  AND NOT EXISTS (
			SELECT 1
			FROM swipes s
			WHERE s.swiper_id = $1 AND s.swiped_id = p.user_id
		  )
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var profile models.Profile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Name,
		&profile.Age,
		&profile.Gender,
		&profile.Ethnicity,
		&profile.Religion,
		&profile.Bio,
		&profile.LookingFor,
		&profile.Location,
		&profile.Photos,
		&profile.VideoURL,
		&profile.IsActive,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if profile.Photos == nil {
		profile.Photos = []string{}
	}
	return &profile, nil
}
