package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"socialite/internal/api"
	"socialite/internal/media"
	"socialite/internal/middleware"
	"socialite/internal/models"
	"socialite/internal/utils"
)

// ProfileRequest carries the writable profile fields for create and update.
type ProfileRequest struct {
	Nickname  string  `json:"nickname" validate:"required,min=1,max=50"`
	FirstName string  `json:"firstName" validate:"max=100"`
	LastName  string  `json:"lastName" validate:"max=100"`
	Gender    string  `json:"gender" validate:"required,oneof=M F O"`
	BirthDate *string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Bio       *string `json:"bio" validate:"omitempty,max=1000"`
}

func (req *ProfileRequest) apply(profile *models.Profile) error {
	profile.Nickname = req.Nickname
	profile.FirstName = req.FirstName
	profile.LastName = req.LastName
	profile.Gender = models.Gender(req.Gender)
	profile.Bio = req.Bio
	profile.BirthDate = nil
	if req.BirthDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return utils.NewValidationError("birthDate must be formatted as YYYY-MM-DD")
		}
		profile.BirthDate = &parsed
	}
	return profile.Validate()
}

// HandleListProfiles lists profiles, optionally filtered by a free-text search
// over names and birth date.
func (s *Server) HandleListProfiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := s.Store.SearchProfiles(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.NewProfileSummaryViews(profiles))
	}
}

// HandleCreateProfile creates the profile for the authenticated account. An
// account holds at most one profile.
func (s *Server) HandleCreateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			s.writeError(w, utils.NewUnauthorizedError("no authenticated account"))
			return
		}

		var req ProfileRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		profile := &models.Profile{ID: uuid.New(), AccountID: accountID}
		if err := req.apply(profile); err != nil {
			s.writeError(w, err)
			return
		}

		if err := s.Store.SaveProfile(r.Context(), profile); err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusCreated, api.NewProfileSummaryView(profile))
	}
}

// HandleGetProfile returns one profile with its follower and following edges
func (s *Server) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := uuid.Parse(chi.URLParam(r, "profileID"))
		if err != nil {
			s.writeError(w, utils.NewValidationError("invalid profile id"))
			return
		}

		profile, err := s.Store.GetProfile(r.Context(), profileID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		followers, err := s.Store.GetFollowers(r.Context(), profileID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		following, err := s.Store.GetFollowing(r.Context(), profileID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, api.NewProfileDetailView(profile, followers, following))
	}
}

// HandleUpdateProfile updates the caller's own profile
func (s *Server) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.ownedProfile(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		var req ProfileRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}
		if err := req.apply(profile); err != nil {
			s.writeError(w, err)
			return
		}

		if err := s.Store.UpdateProfile(r.Context(), profile); err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, api.NewProfileSummaryView(profile))
	}
}

// HandleDeleteProfile deletes the caller's own profile and everything hanging
// off it: posts, media, comments, likes and follow edges go with it.
func (s *Server) HandleDeleteProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.ownedProfile(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		if err := s.Store.DeleteProfile(r.Context(), profile.ID); err != nil {
			s.writeError(w, err)
			return
		}

		if profile.Picture != nil {
			if err := s.Media.Remove(*profile.Picture); err != nil {
				slog.Warn("failed to remove profile picture file", "path", *profile.Picture, "error", err)
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleUploadProfilePicture stores a new picture for the caller's profile,
// replacing any previous one.
func (s *Server) HandleUploadProfilePicture() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.ownedProfile(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		file, header, err := s.formFile(r, "profilePicture")
		if err != nil {
			s.writeError(w, err)
			return
		}
		defer file.Close()

		relPath, err := s.Media.Save(media.CatalogProfilePictures, profile.ID, profile.Nickname, header.Filename, file)
		if err != nil {
			s.writeError(w, err)
			return
		}

		previous := profile.Picture
		profile.Picture = &relPath
		if err := s.Store.UpdateProfilePicture(r.Context(), profile.ID, relPath); err != nil {
			s.Media.Remove(relPath)
			s.writeError(w, err)
			return
		}

		if previous != nil {
			if err := s.Media.Remove(*previous); err != nil {
				slog.Warn("failed to remove replaced picture file", "path", *previous, "error", err)
			}
		}

		s.writeJSON(w, http.StatusOK, api.NewProfilePictureView(profile))
	}
}

// ownedProfile resolves the {profileID} route param and checks it belongs to
// the authenticated account.
func (s *Server) ownedProfile(r *http.Request) (*models.Profile, error) {
	profileID, err := uuid.Parse(chi.URLParam(r, "profileID"))
	if err != nil {
		return nil, utils.NewValidationError("invalid profile id")
	}

	profile, err := s.currentProfile(r)
	if err != nil {
		return nil, err
	}
	if profile.ID != profileID {
		return nil, utils.NewForbiddenError("profile belongs to another account")
	}
	return profile, nil
}
