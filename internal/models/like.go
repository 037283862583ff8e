package models

import (
	"time"

	"github.com/google/uuid"

	"socialite/internal/utils"
)

// Like is a profile's reaction to a post. At most one row exists per
// (owner, post) pair; toggles update the row in place.
type Like struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PostID    uuid.UUID `json:"postId" db:"post_id"`
	OwnerID   uuid.UUID `json:"ownerId" db:"owner_id"`
	IsLiked   bool      `json:"isLiked" db:"is_liked"`
	IsUnliked bool      `json:"isUnliked" db:"is_unliked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Validate enforces that liked and disliked are mutually exclusive. It runs
// before persistence; the database CHECK constraint is the backstop.
func (l *Like) Validate() error {
	if l.IsLiked && l.IsUnliked {
		return utils.NewAppError(utils.ErrLikeConflict, "a post cannot be liked and disliked at the same time", nil)
	}
	return nil
}

// Cleared reports a reaction with both flags off. Such rows are removed
// rather than kept around.
func (l *Like) Cleared() bool {
	return !l.IsLiked && !l.IsUnliked
}
