package api

import (
	"time"

	"socialite/internal/models"

	"github.com/google/uuid"
)

// PostView is the shape returned by create and update.
type PostView struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"ownerId"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Hashtags  string     `json:"hashtags"`
	IsDraft   bool       `json:"isDraft"`
	PublishAt *time.Time `json:"publishAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PostListView annotates each row with the aggregate counts computed by the
// list query.
type PostListView struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"ownerId"`
	OwnerName    string    `json:"ownerNickname"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Hashtags     string    `json:"hashtags"`
	CreatedAt    time.Time `json:"createdAt"`
	LikeCount    int       `json:"isLiked"`
	DislikeCount int       `json:"isUnliked"`
	CommentCount int       `json:"numsOfComments"`
}

// PostDetailView nests media, comments and reactions.
type PostDetailView struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   uuid.UUID     `json:"ownerId"`
	OwnerName string        `json:"ownerNickname"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Hashtags  string        `json:"hashtags"`
	CreatedAt time.Time     `json:"createdAt"`
	Media     []MediaView   `json:"mediaFiles"`
	Comments  []CommentView `json:"comments"`
	Likes     []LikeView    `json:"likes"`
}

type MediaView struct {
	ID     uuid.UUID `json:"id"`
	PostID uuid.UUID `json:"postId"`
	Media  string    `json:"media"`
}

type LikeView struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"postId"`
	OwnerID   uuid.UUID `json:"ownerId"`
	IsLiked   bool      `json:"isLiked"`
	IsUnliked bool      `json:"isUnliked"`
}

func NewPostView(post *models.Post) PostView {
	return PostView{
		ID:        post.ID,
		OwnerID:   post.OwnerID,
		Title:     post.Title,
		Content:   post.Content,
		Hashtags:  post.Hashtags,
		IsDraft:   post.IsDraft,
		PublishAt: post.PublishAt,
		CreatedAt: post.CreatedAt,
	}
}

func NewPostListView(post *models.Post) PostListView {
	return PostListView{
		ID:           post.ID,
		OwnerID:      post.OwnerID,
		OwnerName:    post.OwnerNickname,
		Title:        post.Title,
		Content:      post.Content,
		Hashtags:     post.Hashtags,
		CreatedAt:    post.CreatedAt,
		LikeCount:    post.LikeCount,
		DislikeCount: post.DislikeCount,
		CommentCount: post.CommentCount,
	}
}

func NewPostListViews(posts []*models.Post) []PostListView {
	views := make([]PostListView, len(posts))
	for i, post := range posts {
		views[i] = NewPostListView(post)
	}
	return views
}

func NewPostDetailView(post *models.Post, media []*models.PostMedia, comments []*models.Comment, likes []*models.Like) PostDetailView {
	view := PostDetailView{
		ID:        post.ID,
		OwnerID:   post.OwnerID,
		OwnerName: post.OwnerNickname,
		Title:     post.Title,
		Content:   post.Content,
		Hashtags:  post.Hashtags,
		CreatedAt: post.CreatedAt,
		Media:     make([]MediaView, len(media)),
		Comments:  NewCommentViews(comments),
		Likes:     make([]LikeView, len(likes)),
	}
	for i, m := range media {
		view.Media[i] = MediaView{ID: m.ID, PostID: m.PostID, Media: m.FilePath}
	}
	for i, l := range likes {
		view.Likes[i] = NewLikeView(l)
	}
	return view
}

func NewLikeView(like *models.Like) LikeView {
	return LikeView{
		ID:        like.ID,
		PostID:    like.PostID,
		OwnerID:   like.OwnerID,
		IsLiked:   like.IsLiked,
		IsUnliked: like.IsUnliked,
	}
}

func NewMediaView(media *models.PostMedia) MediaView {
	return MediaView{ID: media.ID, PostID: media.PostID, Media: media.FilePath}
}
