// internal/database/post_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"socialite/internal/models"
	"socialite/internal/utils"

	"github.com/google/uuid"
)

// SavePost inserts a new post.
func (p *PostgresDB) SavePost(ctx context.Context, post *models.Post) error {
	now := time.Now()
	post.UpdatedAt = now
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}

	query := `
		INSERT INTO posts (id, owner_id, title, content, hashtags, is_draft, publish_at, created_at, updated_at)
		VALUES (:id, :owner_id, :title, :content, :hashtags, :is_draft, :publish_at, :created_at, :updated_at)
	`
	_, err := p.DB.NamedExecContext(ctx, query, post)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save post", err)
	}
	return nil
}

// GetPost fetches a post by its ID with its aggregate reaction counts.
// Drafts are returned here; handlers decide whether the caller may see them.
func (p *PostgresDB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `
		SELECT p.id, p.owner_id, pr.nickname AS owner_nickname,
		       p.title, p.content, p.hashtags, p.is_draft, p.publish_at,
		       p.created_at, p.updated_at,
		       COUNT(DISTINCT l.id) FILTER (WHERE l.is_liked)   AS like_count,
		       COUNT(DISTINCT l.id) FILTER (WHERE l.is_unliked) AS dislike_count,
		       COUNT(DISTINCT c.id)                    AS comment_count
		FROM posts p
		JOIN profiles pr ON p.owner_id = pr.id
		LEFT JOIN likes l ON l.post_id = p.id
		LEFT JOIN comments c ON c.post_id = p.id
		WHERE p.id = $1
		GROUP BY p.id, pr.nickname
	`
	var post models.Post
	err := p.DB.GetContext(ctx, &post, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "post not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query post by id", err)
	}
	return &post, nil
}

// ListPosts returns non-draft posts, newest first, annotated with aggregate
// like/dislike/comment counts computed at query time.
//
// The liked_by_me filter keeps the original behavior exactly: true selects
// posts where the caller's reaction row has is_liked, false selects posts
// where it has is_unliked. A post with no reaction row from the caller
// matches neither value.
func (p *PostgresDB) ListPosts(ctx context.Context, filter PostFilter) ([]*models.Post, error) {
	query := `
		SELECT p.id, p.owner_id, pr.nickname AS owner_nickname,
		       p.title, p.content, p.hashtags, p.is_draft, p.publish_at,
		       p.created_at, p.updated_at,
		       COUNT(DISTINCT l.id) FILTER (WHERE l.is_liked)   AS like_count,
		       COUNT(DISTINCT l.id) FILTER (WHERE l.is_unliked) AS dislike_count,
		       COUNT(DISTINCT c.id)                    AS comment_count
		FROM posts p
		JOIN profiles pr ON p.owner_id = pr.id
		LEFT JOIN likes l ON l.post_id = p.id
		LEFT JOIN comments c ON c.post_id = p.id
		WHERE NOT p.is_draft
	`
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OwnerID != nil {
		query += ` AND p.owner_id = ` + arg(*filter.OwnerID)
	}
	if filter.LikedByMe != nil {
		flag := "is_liked"
		if !*filter.LikedByMe {
			flag = "is_unliked"
		}
		query += ` AND EXISTS (
			SELECT 1 FROM likes ml
			WHERE ml.post_id = p.id AND ml.owner_id = ` + arg(filter.CallerID) + ` AND ml.` + flag + `
		)`
	}
	if filter.Search != "" {
		pattern := arg("%" + filter.Search + "%")
		query += ` AND (p.hashtags ILIKE ` + pattern + ` OR p.title ILIKE ` + pattern + ` OR p.content ILIKE ` + pattern + `)`
	}

	query += `
		GROUP BY p.id, pr.nickname
		ORDER BY p.created_at DESC
	`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	posts := []*models.Post{}
	err := p.DB.SelectContext(ctx, &posts, query, args...)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query posts", err)
	}
	return posts, nil
}

// UpdatePost updates the mutable attributes of a post.
func (p *PostgresDB) UpdatePost(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	query := `
		UPDATE posts
		SET title = :title, content = :content, hashtags = :hashtags, is_draft = :is_draft, updated_at = :updated_at
		WHERE id = :id
	`
	result, err := p.DB.NamedExecContext(ctx, query, post)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update post", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "post not found for update", nil)
	}
	return nil
}

// DeletePost removes a post. Media, comments and likes cascade with it.
func (p *PostgresDB) DeletePost(ctx context.Context, id uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete post", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "post not found for delete", nil)
	}
	return nil
}

// PublishPost flips a draft to published, setting created_at to the scheduled
// time. The is_draft guard makes the transition idempotent: a second delivery
// of the same queue message matches no rows and reports false.
func (p *PostgresDB) PublishPost(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE posts
		SET is_draft = FALSE, created_at = $2, updated_at = NOW()
		WHERE id = $1 AND is_draft
	`
	result, err := p.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to publish post", err)
	}
	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// --- Media Methods ---

// SavePostMedia inserts a media row referencing an uploaded file.
func (p *PostgresDB) SavePostMedia(ctx context.Context, media *models.PostMedia) error {
	if media.CreatedAt.IsZero() {
		media.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO post_media (id, post_id, file_path, created_at)
		VALUES (:id, :post_id, :file_path, :created_at)
	`
	_, err := p.DB.NamedExecContext(ctx, query, media)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save post media", err)
	}
	return nil
}

// GetPostMedia fetches all media rows attached to a post.
func (p *PostgresDB) GetPostMedia(ctx context.Context, postID uuid.UUID) ([]*models.PostMedia, error) {
	query := `SELECT id, post_id, file_path, created_at FROM post_media WHERE post_id = $1 ORDER BY created_at ASC`
	media := []*models.PostMedia{}
	err := p.DB.SelectContext(ctx, &media, query, postID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query post media", err)
	}
	return media, nil
}
