// internal/database/postgres.go
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"socialite/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store defines the common interface for database operations. Handlers and
// the publish worker depend on it; tests substitute an in-memory fake.
type Store interface {
	// Connection
	Close(ctx context.Context) error
	Ping(ctx context.Context) error

	// Account methods
	SaveAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error

	// Profile methods
	SaveProfile(ctx context.Context, profile *models.Profile) error
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetProfileByAccount(ctx context.Context, accountID uuid.UUID) (*models.Profile, error)
	SearchProfiles(ctx context.Context, search string) ([]*models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
	UpdateProfilePicture(ctx context.Context, profileID uuid.UUID, path string) error
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	// Relation methods
	SaveRelation(ctx context.Context, relation *models.Relation) error
	GetRelation(ctx context.Context, id uuid.UUID) (*models.Relation, error)
	GetFollowing(ctx context.Context, followerID uuid.UUID) ([]*models.Relation, error)
	GetFollowers(ctx context.Context, followingID uuid.UUID) ([]*models.Relation, error)
	GetFollowCandidates(ctx context.Context, followerID uuid.UUID) ([]*models.Profile, error)
	DeleteRelation(ctx context.Context, id uuid.UUID) error

	// Post methods
	SavePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	PublishPost(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	// Media methods
	SavePostMedia(ctx context.Context, media *models.PostMedia) error
	GetPostMedia(ctx context.Context, postID uuid.UUID) ([]*models.PostMedia, error)

	// Comment methods
	SaveComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListComments(ctx context.Context) ([]*models.Comment, error)
	GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error

	// Like methods
	GetLike(ctx context.Context, postID, ownerID uuid.UUID) (*models.Like, error)
	UpsertLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, postID, ownerID uuid.UUID) error
	GetPostLikes(ctx context.Context, postID uuid.UUID) ([]*models.Like, error)
}

// PostFilter narrows ListPosts. LikedByMe keeps the original quirk: true
// selects posts the caller explicitly liked, false selects posts the caller
// explicitly disliked. Absence of a reaction matches neither.
type PostFilter struct {
	OwnerID   *uuid.UUID
	CallerID  uuid.UUID
	LikedByMe *bool
	Search    string
	Limit     int
	Offset    int
}

// PostgresDB represents a PostgreSQL database connection
type PostgresDB struct {
	DB *sqlx.DB
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Ping the database to verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %v", err)
	}

	slog.Info("connected to PostgreSQL")

	return &PostgresDB{
		DB: db,
	}, nil
}

// Close closes the database connection
func (p *PostgresDB) Close(ctx context.Context) error {
	slog.Info("closing PostgreSQL connection")
	return p.DB.Close()
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

// InitializeTables creates all necessary tables if they don't exist.
// Child rows are removed with their parent via ON DELETE CASCADE, so delete
// operations never have to order multi-row removals by hand.
func (p *PostgresDB) InitializeTables(ctx context.Context) error {
	// Accounts table
	_, err := p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(100) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create accounts table: %v", err)
	}

	// Profiles table: at most one profile per account
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY,
			account_id UUID UNIQUE NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			nickname VARCHAR(48) NOT NULL,
			first_name VARCHAR(150) NOT NULL DEFAULT '',
			last_name VARCHAR(150) NOT NULL DEFAULT '',
			gender CHAR(1) NOT NULL,
			birth_date DATE,
			bio TEXT,
			picture VARCHAR(255),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create profiles table: %v", err)
	}

	// Relations table: unique directed follow edges, self-follow excluded
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS relations (
			id UUID PRIMARY KEY,
			follower_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			following_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE (follower_id, following_id),
			CHECK (follower_id <> following_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create relations table: %v", err)
	}

	// Posts table
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS posts (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			hashtags VARCHAR(255) NOT NULL DEFAULT '',
			is_draft BOOLEAN NOT NULL DEFAULT FALSE,
			publish_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create posts table: %v", err)
	}

	// Post media table
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS post_media (
			id UUID PRIMARY KEY,
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			file_path VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create post_media table: %v", err)
	}

	// Comments table
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS comments (
			id UUID PRIMARY KEY,
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			owner_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create comments table: %v", err)
	}

	// Likes table: one row per (owner, post), flags mutually exclusive
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS likes (
			id UUID PRIMARY KEY,
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			owner_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			is_liked BOOLEAN NOT NULL DEFAULT FALSE,
			is_unliked BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE (owner_id, post_id),
			CHECK (NOT (is_liked AND is_unliked))
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create likes table: %v", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation. The constraint name narrows the check when non-empty.
func isUniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code.Name() != "unique_violation" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// isCheckViolation reports whether err is a Postgres CHECK constraint violation.
func isCheckViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code.Name() == "check_violation"
}
