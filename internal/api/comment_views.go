package api

import (
	"time"

	"socialite/internal/models"

	"github.com/google/uuid"
)

type CommentView struct {
	ID            uuid.UUID `json:"id"`
	PostID        uuid.UUID `json:"postId"`
	OwnerID       uuid.UUID `json:"ownerId"`
	OwnerNickname string    `json:"ownerNickname,omitempty"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewCommentView(comment *models.Comment) CommentView {
	return CommentView{
		ID:            comment.ID,
		PostID:        comment.PostID,
		OwnerID:       comment.OwnerID,
		OwnerNickname: comment.OwnerNickname,
		Content:       comment.Content,
		CreatedAt:     comment.CreatedAt,
	}
}

func NewCommentViews(comments []*models.Comment) []CommentView {
	views := make([]CommentView, len(comments))
	for i, comment := range comments {
		views[i] = NewCommentView(comment)
	}
	return views
}
