package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Bipinmahat1/NepaliLove/internal/models"
)

type MatchRepository struct {
	db DBTX
}

func NewMatchRepository(db DBTX) *MatchRepository {
	return &MatchRepository{db: db}
}

// CreateIfAbsent inserts the match for pair unless one already exists, in which
// case the existing row is returned with created=false.
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, pair models.Pair) (*models.Match, bool, error) {
	query := `
		INSERT INTO matches (user_a, user_b)
		VALUES ($1, $2)
		ON CONFLICT (user_a, user_b) DO NOTHING
		RETURNING id, user_a, user_b, created_at
	`

	match, err := scanMatch(r.db.QueryRow(ctx, query, pair.Low, pair.High))
	if err == nil {
		return match, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	existing, err := r.GetByPair(ctx, pair)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *MatchRepository) GetByPair(ctx context.Context, pair models.Pair) (*models.Match, error) {
	query := `
		SELECT id, user_a, user_b, created_at
		FROM matches
		WHERE user_a = $1 AND user_b = $2
	`
	return scanMatch(r.db.QueryRow(ctx, query, pair.Low, pair.High))
}

func (r *MatchRepository) ListForUser(ctx context.Context, userID string) ([]models.Match, error) {
	query := `
		SELECT id, user_a, user_b, created_at
		FROM matches
		WHERE user_a = $1 OR user_b = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *match)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var match models.Match
	if err := row.Scan(&match.ID, &match.UserA, &match.UserB, &match.CreatedAt); err != nil {
		return nil, err
	}
	return &match, nil
}
