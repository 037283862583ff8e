package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"socialite/internal/api"
	"socialite/internal/models"
	"socialite/internal/utils"
)

// FollowRequest names the profile the caller wants to follow.
type FollowRequest struct {
	ProfileID string `json:"profileId" validate:"required,uuid4"`
}

// HandleListFollowing lists the profiles the caller follows
func (s *Server) HandleListFollowing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.currentProfile(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		relations, err := s.Store.GetFollowing(r.Context(), profile.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, api.NewFollowingViews(relations))
	}
}

// HandleFollow creates a follow edge from the caller to another profile.
// Following yourself or someone you already follow is rejected.
func (s *Server) HandleFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.currentProfile(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		var req FollowRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}
		followingID, err := uuid.Parse(req.ProfileID)
		if err != nil {
			s.writeError(w, utils.NewValidationError("invalid profile id"))
			return
		}

		target, err := s.Store.GetProfile(r.Context(), followingID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		relation := &models.Relation{
			ID:          uuid.New(),
			FollowerID:  profile.ID,
			FollowingID: target.ID,
		}
		if err := s.Store.SaveRelation(r.Context(), relation); err != nil {
			s.writeError(w, err)
			return
		}
		relation.FollowerName = profile.Nickname
		relation.FollowingName = target.Nickname

		s.writeJSON(w, http.StatusCreated, api.NewFollowingView(relation))
	}
}

// HandleFollowCandidates suggests profiles the caller does not follow yet
func (s *Server) HandleFollowCandidates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.currentProfile(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		candidates, err := s.Store.GetFollowCandidates(r.Context(), profile.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, api.NewProfileSummaryViews(candidates))
	}
}

// HandleGetFollowing returns one of the caller's outgoing follow edges
func (s *Server) HandleGetFollowing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		relation, err := s.relationForCaller(r, func(rel *models.Relation, profileID uuid.UUID) bool {
			return rel.FollowerID == profileID
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.NewFollowingView(relation))
	}
}

// HandleUnfollow removes a follow edge. Either endpoint of the edge may
// remove it: unfollowing and dropping a follower are the same operation.
func (s *Server) HandleUnfollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		relation, err := s.relationForCaller(r, func(rel *models.Relation, profileID uuid.UUID) bool {
			return rel.FollowerID == profileID || rel.FollowingID == profileID
		})
		if err != nil {
			s.writeError(w, err)
			return
		}

		if err := s.Store.DeleteRelation(r.Context(), relation.ID); err != nil {
			s.writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleListFollowers lists the profiles following the caller
func (s *Server) HandleListFollowers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.currentProfile(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		relations, err := s.Store.GetFollowers(r.Context(), profile.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, api.NewFollowersViews(relations))
	}
}

// HandleGetFollower returns one of the caller's incoming follow edges
func (s *Server) HandleGetFollower() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		relation, err := s.relationForCaller(r, func(rel *models.Relation, profileID uuid.UUID) bool {
			return rel.FollowingID == profileID
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.NewFollowerView(relation))
	}
}

// relationForCaller resolves the {relationID} route param and checks the
// caller's profile satisfies owns for that edge.
func (s *Server) relationForCaller(r *http.Request, owns func(*models.Relation, uuid.UUID) bool) (*models.Relation, error) {
	relationID, err := uuid.Parse(chi.URLParam(r, "relationID"))
	if err != nil {
		return nil, utils.NewValidationError("invalid relation id")
	}

	profile, err := s.currentProfile(r)
	if err != nil {
		return nil, err
	}

	relation, err := s.Store.GetRelation(r.Context(), relationID)
	if err != nil {
		return nil, err
	}
	if !owns(relation, profile.ID) {
		return nil, utils.NewAppError(utils.ErrNotFound, "relation not found", nil)
	}
	return relation, nil
}
