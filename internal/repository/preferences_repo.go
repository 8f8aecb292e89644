package repository

import (
	"context"

	"github.com/Bipinmahat1/NepaliLove/internal/models"
)

type PreferencesRepository struct {
	db DBTX
}

func NewPreferencesRepository(db DBTX) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

func (r *PreferencesRepository) GetByUserID(ctx context.Context, userID string) (*models.Preferences, error) {
	query := `
		SELECT id, user_id, min_age, max_age, preferred_gender, preferred_religion, max_distance, created_at, updated_at
		FROM preferences
		WHERE user_id = $1
	`
	var prefs models.Preferences
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&prefs.ID,
		&prefs.UserID,
		&prefs.MinAge,
		&prefs.MaxAge,
		&prefs.PreferredGender,
		&prefs.PreferredReligion,
		&prefs.MaxDistance,
		&prefs.CreatedAt,
		&prefs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (r *PreferencesRepository) Upsert(ctx context.Context, prefs *models.Preferences) error {
	query := `
		INSERT INTO preferences (user_id, min_age, max_age, preferred_gender, preferred_religion, max_distance)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET min_age = EXCLUDED.min_age,
			max_age = EXCLUDED.max_age,
			preferred_gender = EXCLUDED.preferred_gender,
			preferred_religion = EXCLUDED.preferred_religion,
			max_distance = EXCLUDED.max_distance,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		prefs.UserID,
		prefs.MinAge,
		prefs.MaxAge,
		prefs.PreferredGender,
		prefs.PreferredReligion,
		prefs.MaxDistance,
	).Scan(&prefs.ID, &prefs.CreatedAt, &prefs.UpdatedAt)
}
