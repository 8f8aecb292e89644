package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Bipinmahat1/NepaliLove/internal/models"
)

type SwipeRepository struct {
	db DBTX
}

func NewSwipeRepository(db DBTX) *SwipeRepository {
	return &SwipeRepository{db: db}
}

// Create appends a swipe to the ledger. Repeated swipes on the same target are
// kept as history.
func (r *SwipeRepository) Create(
	ctx context.Context,
	swiperID string,
	swipedID string,
	action models.SwipeAction,
) (*models.Swipe, error) {
	query := `
		INSERT INTO swipes (swiper_id, swiped_id, action)
		VALUES ($1, $2, $3)
		RETURNING id, swiper_id, swiped_id, action, created_at
	`

	var swipe models.Swipe
	err := r.db.QueryRow(ctx, query, swiperID, swipedID, string(action)).Scan(
		&swipe.ID,
		&swipe.SwiperID,
		&swipe.SwipedID,
		&swipe.Action,
		&swipe.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &swipe, nil
}

// LatestAction reports the most recent action swiperID took on swipedID.
// found is false when swiperID never swiped on swipedID.
func (r *SwipeRepository) LatestAction(
	ctx context.Context,
	swiperID string,
	swipedID string,
) (action models.SwipeAction, found bool, err error) {
	query := `
		SELECT action
		FROM swipes
		WHERE swiper_id = $1 AND swiped_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var raw string
	if err := r.db.QueryRow(ctx, query, swiperID, swipedID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}

	return models.SwipeAction(raw), true, nil
}
