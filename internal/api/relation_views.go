package api

import (
	"time"

	"socialite/internal/models"

	"github.com/google/uuid"
)

// RelationView shows one follow edge from the perspective of one endpoint:
// Profile names the other side.
type RelationView struct {
	ID        uuid.UUID `json:"id"`
	Profile   string    `json:"profile"`
	ProfileID uuid.UUID `json:"profileId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewFollowerView presents the edge to its followee: Profile is the follower.
func NewFollowerView(relation *models.Relation) RelationView {
	return RelationView{
		ID:        relation.ID,
		Profile:   relation.FollowerName,
		ProfileID: relation.FollowerID,
		CreatedAt: relation.CreatedAt,
	}
}

// NewFollowingView presents the edge to its follower: Profile is the followee.
func NewFollowingView(relation *models.Relation) RelationView {
	return RelationView{
		ID:        relation.ID,
		Profile:   relation.FollowingName,
		ProfileID: relation.FollowingID,
		CreatedAt: relation.CreatedAt,
	}
}

func NewFollowersViews(relations []*models.Relation) []RelationView {
	views := make([]RelationView, len(relations))
	for i, relation := range relations {
		views[i] = NewFollowerView(relation)
	}
	return views
}

func NewFollowingViews(relations []*models.Relation) []RelationView {
	views := make([]RelationView, len(relations))
	for i, relation := range relations {
		views[i] = NewFollowingView(relation)
	}
	return views
}
