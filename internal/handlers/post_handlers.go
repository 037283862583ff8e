package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"socialite/internal/api"
	"socialite/internal/database"
	"socialite/internal/media"
	"socialite/internal/models"
	"socialite/internal/utils"
)

// PostRequest carries the writable post fields. PublishAt only applies on
// create: a future time keeps the post a draft until the scheduler flips it.
type PostRequest struct {
	Title     string  `json:"title" validate:"required,min=1,max=200"`
	Content   string  `json:"content" validate:"required,min=1"`
	Hashtags  string  `json:"hashtags" validate:"max=500"`
	IsDraft   bool    `json:"isDraft"`
	PublishAt *string `json:"publishAt" validate:"omitempty"`
}

// HandleListPosts lists published posts, newest first, with optional owner,
// reaction and text filters.
func (s *Server) HandleListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := database.PostFilter{
			Search: r.URL.Query().Get("search"),
			Limit:  queryInt(r, "limit", 50),
			Offset: queryInt(r, "offset", 0),
		}

		if owner := r.URL.Query().Get("owner"); owner != "" {
			ownerID, err := uuid.Parse(owner)
			if err != nil {
				s.writeError(w, utils.NewValidationError("invalid owner id"))
				return
			}
			filter.OwnerID = &ownerID
		}

		// liked_by_me=false does not mean "not liked": it selects posts the
		// caller explicitly disliked. Posts the caller never reacted to match
		// neither value.
		// The reaction filter is the only one needing the caller's profile;
		// an account without one can still browse posts.
		if liked := r.URL.Query().Get("liked_by_me"); liked != "" {
			value, err := strconv.ParseBool(liked)
			if err != nil {
				s.writeError(w, utils.NewValidationError("liked_by_me must be true or false"))
				return
			}
			profile, err := s.currentProfile(r)
			if err != nil {
				s.writeError(w, err)
				return
			}
			filter.LikedByMe = &value
			filter.CallerID = profile.ID
		}

		posts, err := s.Store.ListPosts(r.Context(), filter)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, api.NewPostListViews(posts))
	}
}

// HandleCreatePost creates a post for the caller's profile. A future
// publishAt stores the post as a draft and queues it for publication; a past
// publishAt publishes immediately, backdated to the requested time.
func (s *Server) HandleCreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.currentProfile(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		var req PostRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		now := time.Now()
		post := &models.Post{
			ID:        uuid.New(),
			OwnerID:   profile.ID,
			Title:     req.Title,
			Content:   req.Content,
			Hashtags:  req.Hashtags,
			IsDraft:   req.IsDraft,
			CreatedAt: now,
			UpdatedAt: now,
		}

		var publishAt *time.Time
		if req.PublishAt != nil {
			parsed, err := time.Parse(time.RFC3339, *req.PublishAt)
			if err != nil {
				s.writeError(w, utils.NewValidationError("publishAt must be an RFC 3339 timestamp"))
				return
			}
			publishAt = &parsed

			if parsed.After(now) {
				post.IsDraft = true
				post.PublishAt = publishAt
			} else {
				// Requested time already passed: publish now, dated then.
				post.IsDraft = false
				post.CreatedAt = parsed
				post.UpdatedAt = parsed
			}
		}

		if err := s.Store.SavePost(r.Context(), post); err != nil {
			s.writeError(w, err)
			return
		}

		if post.IsDraft && post.PublishAt != nil {
			if err := s.Queue.Schedule(r.Context(), post.ID, *post.PublishAt); err != nil {
				slog.Error("failed to queue post for publication", "post", post.ID, "error", err)
			}
		}

		post.OwnerNickname = profile.Nickname
		s.writeJSON(w, http.StatusCreated, api.NewPostView(post))
	}
}

// HandleGetPost returns one post with its media, comments and reactions.
// Drafts are only visible to their owner.
func (s *Server) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, _, err := s.visiblePost(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		mediaFiles, err := s.Store.GetPostMedia(r.Context(), post.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		comments, err := s.Store.GetPostComments(r.Context(), post.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		likes, err := s.Store.GetPostLikes(r.Context(), post.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, api.NewPostDetailView(post, mediaFiles, comments, likes))
	}
}

// HandleUpdatePost updates the caller's own post
func (s *Server) HandleUpdatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := s.ownedPost(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		var req PostRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		post.Title = req.Title
		post.Content = req.Content
		post.Hashtags = req.Hashtags
		post.IsDraft = req.IsDraft
		post.UpdatedAt = time.Now()

		if err := s.Store.UpdatePost(r.Context(), post); err != nil {
			s.writeError(w, err)
			return
		}

		if !post.IsDraft && post.PublishAt != nil {
			// Published by hand ahead of schedule; drop the pending task.
			if err := s.Queue.Remove(r.Context(), post.ID); err != nil {
				slog.Warn("failed to drop queued publication", "post", post.ID, "error", err)
			}
		}

		s.writeJSON(w, http.StatusOK, api.NewPostView(post))
	}
}

// HandleDeletePost deletes the caller's own post along with its media files,
// comments and reactions.
func (s *Server) HandleDeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := s.ownedPost(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		mediaFiles, err := s.Store.GetPostMedia(r.Context(), post.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		if err := s.Store.DeletePost(r.Context(), post.ID); err != nil {
			s.writeError(w, err)
			return
		}

		if err := s.Queue.Remove(r.Context(), post.ID); err != nil {
			slog.Warn("failed to drop queued publication", "post", post.ID, "error", err)
		}
		for _, file := range mediaFiles {
			if err := s.Media.Remove(file.FilePath); err != nil {
				slog.Warn("failed to remove media file", "path", file.FilePath, "error", err)
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleUploadPostMedia attaches an uploaded file to the caller's own post
func (s *Server) HandleUploadPostMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := s.ownedPost(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		file, header, err := s.formFile(r, "media")
		if err != nil {
			s.writeError(w, err)
			return
		}
		defer file.Close()

		relPath, err := s.Media.Save(media.CatalogPostsMedia, post.OwnerID, post.OwnerNickname, header.Filename, file)
		if err != nil {
			s.writeError(w, err)
			return
		}

		postMedia := &models.PostMedia{
			ID:       uuid.New(),
			PostID:   post.ID,
			FilePath: relPath,
		}
		if err := s.Store.SavePostMedia(r.Context(), postMedia); err != nil {
			s.Media.Remove(relPath)
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusCreated, api.NewMediaView(postMedia))
	}
}

// HandleAddComment adds the caller's comment to a visible post
func (s *Server) HandleAddComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, profile, err := s.visiblePost(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		var req CommentRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		comment := &models.Comment{
			ID:      uuid.New(),
			PostID:  post.ID,
			OwnerID: profile.ID,
			Content: req.Content,
		}
		if err := s.Store.SaveComment(r.Context(), comment); err != nil {
			s.writeError(w, err)
			return
		}

		comment.OwnerNickname = profile.Nickname
		s.writeJSON(w, http.StatusCreated, api.NewCommentView(comment))
	}
}

// HandleToggleLike applies the caller's submitted reaction to a post,
// keyed by (owner, post): one row, updated in place. Both flags false clears
// the reaction; both flags true is rejected.
func (s *Server) HandleToggleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, profile, err := s.visiblePost(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		var req LikeRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		like := &models.Like{
			ID:        uuid.New(),
			PostID:    post.ID,
			OwnerID:   profile.ID,
			IsLiked:   req.IsLiked,
			IsUnliked: req.IsUnliked,
		}
		if err := like.Validate(); err != nil {
			s.writeError(w, err)
			return
		}

		if like.Cleared() {
			if err := s.Store.DeleteLike(r.Context(), post.ID, profile.ID); err != nil {
				s.writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// The upsert keeps the existing row on conflict, so the response
		// must carry that row's identity, not the freshly generated one.
		if existing, err := s.Store.GetLike(r.Context(), post.ID, profile.ID); err == nil {
			like.ID = existing.ID
			like.CreatedAt = existing.CreatedAt
		}

		if err := s.Store.UpsertLike(r.Context(), like); err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, api.NewLikeView(like))
	}
}

// CommentRequest carries a new comment's body.
type CommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// LikeRequest carries a reaction. Both flags true is invalid; both false
// clears any recorded reaction.
type LikeRequest struct {
	IsLiked   bool `json:"isLiked"`
	IsUnliked bool `json:"isUnliked"`
}

// ownedPost resolves {postID} and checks the post belongs to the caller.
func (s *Server) ownedPost(r *http.Request) (*models.Post, error) {
	postID, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		return nil, utils.NewValidationError("invalid post id")
	}

	profile, err := s.currentProfile(r)
	if err != nil {
		return nil, err
	}

	post, err := s.Store.GetPost(r.Context(), postID)
	if err != nil {
		return nil, err
	}
	if post.OwnerID != profile.ID {
		return nil, utils.NewForbiddenError("post belongs to another profile")
	}
	return post, nil
}

// visiblePost resolves {postID} for reading: anyone may see a published post,
// only the owner may see a draft.
func (s *Server) visiblePost(r *http.Request) (*models.Post, *models.Profile, error) {
	postID, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		return nil, nil, utils.NewValidationError("invalid post id")
	}

	profile, err := s.currentProfile(r)
	if err != nil {
		return nil, nil, err
	}

	post, err := s.Store.GetPost(r.Context(), postID)
	if err != nil {
		return nil, nil, err
	}
	if post.IsDraft && post.OwnerID != profile.ID {
		return nil, nil, utils.NewAppError(utils.ErrNotFound, "post not found", nil)
	}
	return post, profile, nil
}

// queryInt reads an integer query param, falling back on absence or garbage.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
