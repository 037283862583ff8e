package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"socialite/internal/api"
	"socialite/internal/utils"
)

// HandleListComments lists all comments, newest first
func (s *Server) HandleListComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comments, err := s.Store.ListComments(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.NewCommentViews(comments))
	}
}

// HandleGetComment returns one comment
func (s *Server) HandleGetComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
		if err != nil {
			s.writeError(w, utils.NewValidationError("invalid comment id"))
			return
		}

		comment, err := s.Store.GetComment(r.Context(), commentID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, api.NewCommentView(comment))
	}
}

// HandleDeleteComment deletes a comment. Only its author may do so.
func (s *Server) HandleDeleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
		if err != nil {
			s.writeError(w, utils.NewValidationError("invalid comment id"))
			return
		}

		profile, err := s.currentProfile(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		comment, err := s.Store.GetComment(r.Context(), commentID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		if comment.OwnerID != profile.ID {
			s.writeError(w, utils.NewForbiddenError("comment belongs to another profile"))
			return
		}

		if err := s.Store.DeleteComment(r.Context(), commentID); err != nil {
			s.writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
