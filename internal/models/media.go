package models

import (
	"time"

	"github.com/google/uuid"
)

// PostMedia references an uploaded file attached to a post.
type PostMedia struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PostID    uuid.UUID `json:"postId" db:"post_id"`
	FilePath  string    `json:"media" db:"file_path"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
