// internal/database/profile_repository.go
package database

import (
	"context"
	"database/sql"
	"time"

	"socialite/internal/models"
	"socialite/internal/utils"

	"github.com/google/uuid"
)

const profileColumns = `id, account_id, nickname, first_name, last_name, gender, birth_date, bio, picture, created_at`

// SaveProfile inserts a new profile. The UNIQUE constraint on account_id
// enforces the one-profile-per-account rule; a second attempt surfaces as a
// conflict error, never a crash.
func (p *PostgresDB) SaveProfile(ctx context.Context, profile *models.Profile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO profiles (id, account_id, nickname, first_name, last_name, gender, birth_date, bio, picture, created_at)
		VALUES (:id, :account_id, :nickname, :first_name, :last_name, :gender, :birth_date, :bio, :picture, :created_at)
	`
	_, err := p.DB.NamedExecContext(ctx, query, profile)
	if err != nil {
		if isUniqueViolation(err, "") {
			return utils.NewAppError(utils.ErrProfileExists, "you can only create one profile", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to save profile", err)
	}
	return nil
}

// GetProfile fetches a profile by its ID.
func (p *PostgresDB) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	var profile models.Profile
	err := p.DB.GetContext(ctx, &profile, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewProfileNotFoundError(id.String())
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query profile by id", err)
	}
	return &profile, nil
}

// GetProfileByAccount fetches the profile owned by an account.
func (p *PostgresDB) GetProfileByAccount(ctx context.Context, accountID uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE account_id = $1`
	var profile models.Profile
	err := p.DB.GetContext(ctx, &profile, query, accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrProfileNotFound, "no profile exists for this account", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query profile by account", err)
	}
	return &profile, nil
}

// SearchProfiles lists profiles, optionally narrowed by a case-insensitive
// substring over nickname, first name, last name or the birth date text.
func (p *PostgresDB) SearchProfiles(ctx context.Context, search string) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles`
	args := []interface{}{}
	if search != "" {
		query += `
			WHERE nickname ILIKE $1
			   OR first_name ILIKE $1
			   OR last_name ILIKE $1
			   OR TO_CHAR(birth_date, 'YYYY-MM-DD') LIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC`

	profiles := []*models.Profile{}
	err := p.DB.SelectContext(ctx, &profiles, query, args...)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to search profiles", err)
	}
	return profiles, nil
}

// UpdateProfile updates the mutable attributes of a profile.
func (p *PostgresDB) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET nickname = :nickname, first_name = :first_name, last_name = :last_name,
		    gender = :gender, birth_date = :birth_date, bio = :bio
		WHERE id = :id
	`
	result, err := p.DB.NamedExecContext(ctx, query, profile)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update profile", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewProfileNotFoundError(profile.ID.String())
	}
	return nil
}

// UpdateProfilePicture replaces the stored picture reference.
func (p *PostgresDB) UpdateProfilePicture(ctx context.Context, profileID uuid.UUID, path string) error {
	query := `UPDATE profiles SET picture = $1 WHERE id = $2`
	result, err := p.DB.ExecContext(ctx, query, path, profileID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update profile picture", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewProfileNotFoundError(profileID.String())
	}
	return nil
}

// DeleteProfile removes a profile. Posts, comments, likes and relations go
// with it via the schema cascades.
func (p *PostgresDB) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete profile", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewProfileNotFoundError(id.String())
	}
	return nil
}
