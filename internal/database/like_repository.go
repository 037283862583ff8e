// internal/database/like_repository.go
package database

import (
	"context"
	"database/sql"
	"time"

	"socialite/internal/models"
	"socialite/internal/utils"

	"github.com/google/uuid"
)

// GetLike fetches the caller's reaction row for a post, if any.
func (p *PostgresDB) GetLike(ctx context.Context, postID, ownerID uuid.UUID) (*models.Like, error) {
	query := `
		SELECT id, post_id, owner_id, is_liked, is_unliked, created_at
		FROM likes
		WHERE post_id = $1 AND owner_id = $2
	`
	var like models.Like
	err := p.DB.GetContext(ctx, &like, query, postID, ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "like not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query like", err)
	}
	return &like, nil
}

// UpsertLike inserts or updates the caller's reaction keyed by (owner, post).
// Two concurrent toggles for the same pair serialize through the unique
// constraint; the last committed write wins.
func (p *PostgresDB) UpsertLike(ctx context.Context, like *models.Like) error {
	if err := like.Validate(); err != nil {
		return err
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO likes (id, post_id, owner_id, is_liked, is_unliked, created_at)
		VALUES (:id, :post_id, :owner_id, :is_liked, :is_unliked, :created_at)
		ON CONFLICT (owner_id, post_id) DO UPDATE SET
			is_liked = EXCLUDED.is_liked,
			is_unliked = EXCLUDED.is_unliked
	`
	_, err := p.DB.NamedExecContext(ctx, query, like)
	if err != nil {
		if isCheckViolation(err) {
			return utils.NewAppError(utils.ErrLikeConflict, "a post cannot be liked and disliked at the same time", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to upsert like", err)
	}
	return nil
}

// DeleteLike removes the caller's reaction row for a post. Missing rows are
// not an error; a cleared toggle may race with another clear.
func (p *PostgresDB) DeleteLike(ctx context.Context, postID, ownerID uuid.UUID) error {
	_, err := p.DB.ExecContext(ctx, `DELETE FROM likes WHERE post_id = $1 AND owner_id = $2`, postID, ownerID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete like", err)
	}
	return nil
}

// GetPostLikes fetches a post's reactions, liked rows first, then disliked.
func (p *PostgresDB) GetPostLikes(ctx context.Context, postID uuid.UUID) ([]*models.Like, error) {
	query := `
		SELECT id, post_id, owner_id, is_liked, is_unliked, created_at
		FROM likes
		WHERE post_id = $1
		ORDER BY is_liked DESC, is_unliked ASC
	`
	likes := []*models.Like{}
	err := p.DB.SelectContext(ctx, &likes, query, postID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query post likes", err)
	}
	return likes, nil
}
