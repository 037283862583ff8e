// internal/database/relation_repository.go
package database

import (
	"context"
	"database/sql"
	"time"

	"socialite/internal/models"
	"socialite/internal/utils"

	"github.com/google/uuid"
)

// SaveRelation inserts a follow edge. The self-follow check runs before
// the insert; the unique constraint remains the final authority against
// race-created duplicates.
func (p *PostgresDB) SaveRelation(ctx context.Context, relation *models.Relation) error {
	if err := relation.Validate(); err != nil {
		return err
	}
	if relation.CreatedAt.IsZero() {
		relation.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO relations (id, follower_id, following_id, created_at)
		VALUES (:id, :follower_id, :following_id, :created_at)
	`
	_, err := p.DB.NamedExecContext(ctx, query, relation)
	if err != nil {
		if isUniqueViolation(err, "") {
			return utils.NewAppError(utils.ErrAlreadyFollowing, "you are already following this profile", err)
		}
		if isCheckViolation(err) {
			return utils.NewAppError(utils.ErrSelfFollow, "a profile cannot follow itself", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to save relation", err)
	}
	return nil
}

// GetRelation fetches a follow edge by its ID, with both endpoint names.
func (p *PostgresDB) GetRelation(ctx context.Context, id uuid.UUID) (*models.Relation, error) {
	query := `
		SELECT r.id, r.follower_id, r.following_id, r.created_at,
		       fr.nickname AS follower_name,
		       fg.nickname AS following_name
		FROM relations r
		JOIN profiles fr ON r.follower_id = fr.id
		JOIN profiles fg ON r.following_id = fg.id
		WHERE r.id = $1
	`
	var relation models.Relation
	err := p.DB.GetContext(ctx, &relation, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "relation not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query relation by id", err)
	}
	return &relation, nil
}

// GetFollowing lists the edges where the given profile is the follower.
func (p *PostgresDB) GetFollowing(ctx context.Context, followerID uuid.UUID) ([]*models.Relation, error) {
	query := `
		SELECT r.id, r.follower_id, r.following_id, r.created_at,
		       fr.nickname AS follower_name,
		       fg.nickname AS following_name
		FROM relations r
		JOIN profiles fr ON r.follower_id = fr.id
		JOIN profiles fg ON r.following_id = fg.id
		WHERE r.follower_id = $1
		ORDER BY r.created_at DESC
	`
	relations := []*models.Relation{}
	err := p.DB.SelectContext(ctx, &relations, query, followerID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query following list", err)
	}
	return relations, nil
}

// GetFollowers lists the edges where the given profile is the followee.
func (p *PostgresDB) GetFollowers(ctx context.Context, followingID uuid.UUID) ([]*models.Relation, error) {
	query := `
		SELECT r.id, r.follower_id, r.following_id, r.created_at,
		       fr.nickname AS follower_name,
		       fg.nickname AS following_name
		FROM relations r
		JOIN profiles fr ON r.follower_id = fr.id
		JOIN profiles fg ON r.following_id = fg.id
		WHERE r.following_id = $1
		ORDER BY r.created_at DESC
	`
	relations := []*models.Relation{}
	err := p.DB.SelectContext(ctx, &relations, query, followingID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query followers list", err)
	}
	return relations, nil
}

// GetFollowCandidates lists the profiles the given profile could follow:
// everyone except itself and the profiles it already follows.
func (p *PostgresDB) GetFollowCandidates(ctx context.Context, followerID uuid.UUID) ([]*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE id <> $1
		  AND id NOT IN (SELECT following_id FROM relations WHERE follower_id = $1)
		ORDER BY created_at DESC
	`
	profiles := []*models.Profile{}
	err := p.DB.SelectContext(ctx, &profiles, query, followerID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query follow candidates", err)
	}
	return profiles, nil
}

// DeleteRelation removes a follow edge.
func (p *PostgresDB) DeleteRelation(ctx context.Context, id uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM relations WHERE id = $1`, id)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete relation", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "relation not found for delete", nil)
	}
	return nil
}
