package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	OwnerID       uuid.UUID  `json:"ownerId" db:"owner_id"`
	OwnerNickname string     `json:"ownerNickname,omitempty" db:"owner_nickname"`
	Title         string     `json:"title" db:"title"`
	Content       string     `json:"content" db:"content"`
	Hashtags      string     `json:"hashtags" db:"hashtags"`
	IsDraft       bool       `json:"isDraft" db:"is_draft"`
	PublishAt     *time.Time `json:"publishAt,omitempty" db:"publish_at"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`

	// Aggregate counts computed at query time for list responses.
	LikeCount    int `json:"-" db:"like_count"`
	DislikeCount int `json:"-" db:"dislike_count"`
	CommentCount int `json:"-" db:"comment_count"`
}
