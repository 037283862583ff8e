package models

import (
	"time"

	"github.com/google/uuid"

	"socialite/internal/utils"
)

// Relation is a directed follow edge between two profiles.
// (follower, following) pairs are unique.
type Relation struct {
	ID          uuid.UUID `json:"id" db:"id"`
	FollowerID  uuid.UUID `json:"followerId" db:"follower_id"`
	FollowingID uuid.UUID `json:"followingId" db:"following_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Populated by list queries via joins, not stored on the edge.
	FollowerName  string `json:"-" db:"follower_name"`
	FollowingName string `json:"-" db:"following_name"`
}

// Validate rejects self-follows before they reach storage. The unique
// constraint cannot catch these, so the check has to be explicit.
func (r *Relation) Validate() error {
	if r.FollowerID == r.FollowingID {
		return utils.NewAppError(utils.ErrSelfFollow, "a profile cannot follow itself", nil)
	}
	return nil
}
