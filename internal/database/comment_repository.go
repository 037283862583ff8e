// internal/database/comment_repository.go
package database

import (
	"context"
	"database/sql"
	"time"

	"socialite/internal/models"
	"socialite/internal/utils"

	"github.com/google/uuid"
)

const commentSelect = `
	SELECT c.id, c.post_id, c.owner_id, pr.nickname AS owner_nickname, c.content, c.created_at
	FROM comments c
	JOIN profiles pr ON c.owner_id = pr.id
`

// SaveComment inserts a new comment.
func (p *PostgresDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO comments (id, post_id, owner_id, content, created_at)
		VALUES (:id, :post_id, :owner_id, :content, :created_at)
	`
	_, err := p.DB.NamedExecContext(ctx, query, comment)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save comment", err)
	}
	return nil
}

// GetComment fetches a single comment by its ID.
func (p *PostgresDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query := commentSelect + ` WHERE c.id = $1`
	var comment models.Comment
	err := p.DB.GetContext(ctx, &comment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "comment not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query comment by id", err)
	}
	return &comment, nil
}

// ListComments fetches all comments, newest first.
func (p *PostgresDB) ListComments(ctx context.Context) ([]*models.Comment, error) {
	query := commentSelect + ` ORDER BY c.created_at DESC`
	comments := []*models.Comment{}
	err := p.DB.SelectContext(ctx, &comments, query)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query comments", err)
	}
	return comments, nil
}

// GetPostComments fetches all comments for a given post, newest first.
func (p *PostgresDB) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	query := commentSelect + ` WHERE c.post_id = $1 ORDER BY c.created_at DESC`
	comments := []*models.Comment{}
	err := p.DB.SelectContext(ctx, &comments, query, postID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query post comments", err)
	}
	return comments, nil
}

// DeleteComment performs a hard delete of a comment.
func (p *PostgresDB) DeleteComment(ctx context.Context, id uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete comment", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "comment not found for delete", nil)
	}
	return nil
}
