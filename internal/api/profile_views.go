// Package api holds the response shapes. Each operation gets its own
// explicit view type with a constructor instead of a serializer picked at
// runtime by action name.
package api

import (
	"time"

	"socialite/internal/models"

	"github.com/google/uuid"
)

// ProfileSummaryView is the list-level profile shape.
type ProfileSummaryView struct {
	ID        uuid.UUID     `json:"id"`
	Nickname  string        `json:"nickname"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Gender    models.Gender `json:"gender"`
	BirthDate *time.Time    `json:"birthDate,omitempty"`
	Bio       *string       `json:"bio,omitempty"`
	Picture   *string       `json:"profilePicture,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ProfileDetailView adds follower and following summaries to the profile.
type ProfileDetailView struct {
	ProfileSummaryView
	Followers []RelationView `json:"followers"`
	Following []RelationView `json:"following"`
}

// ProfilePictureView is the response of the picture upload action.
type ProfilePictureView struct {
	ID      uuid.UUID `json:"id"`
	Picture *string   `json:"profilePicture"`
}

func NewProfileSummaryView(profile *models.Profile) ProfileSummaryView {
	return ProfileSummaryView{
		ID:        profile.ID,
		Nickname:  profile.Nickname,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Gender:    profile.Gender,
		BirthDate: profile.BirthDate,
		Bio:       profile.Bio,
		Picture:   profile.Picture,
		CreatedAt: profile.CreatedAt,
	}
}

func NewProfileSummaryViews(profiles []*models.Profile) []ProfileSummaryView {
	views := make([]ProfileSummaryView, len(profiles))
	for i, profile := range profiles {
		views[i] = NewProfileSummaryView(profile)
	}
	return views
}

func NewProfileDetailView(profile *models.Profile, followers, following []*models.Relation) ProfileDetailView {
	return ProfileDetailView{
		ProfileSummaryView: NewProfileSummaryView(profile),
		Followers:          NewFollowersViews(followers),
		Following:          NewFollowingViews(following),
	}
}

func NewProfilePictureView(profile *models.Profile) ProfilePictureView {
	return ProfilePictureView{ID: profile.ID, Picture: profile.Picture}
}
