package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID            uuid.UUID `json:"id" db:"id"`
	PostID        uuid.UUID `json:"postId" db:"post_id"`
	OwnerID       uuid.UUID `json:"ownerId" db:"owner_id"`
	OwnerNickname string    `json:"ownerNickname,omitempty" db:"owner_nickname"`
	Content       string    `json:"content" db:"content"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
