package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"socialite/internal/middleware"
)

// Router builds the HTTP surface: open account-lifecycle routes plus the
// authenticated resource groups.
func (s *Server) Router(corsConfig *middleware.CORSConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(corsConfig))
	r.Use(s.countRequests)

	r.Get("/health", s.HandleHealth())
	r.Post("/register", s.HandleRegister())
	r.Post("/login", s.HandleLogin())

	r.Group(func(r chi.Router) {
		r.Use(s.Auth.AuthMiddleware)

		r.Post("/logout", s.HandleLogout())
		r.Get("/me", s.HandleGetMe())
		r.Put("/me", s.HandleUpdateMe())

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.HandleListProfiles())
			r.Post("/", s.HandleCreateProfile())
			r.Get("/{profileID}", s.HandleGetProfile())
			r.Put("/{profileID}", s.HandleUpdateProfile())
			r.Patch("/{profileID}", s.HandleUpdateProfile())
			r.Delete("/{profileID}", s.HandleDeleteProfile())
			r.Post("/{profileID}/upload-picture", s.HandleUploadProfilePicture())
		})

		r.Route("/following", func(r chi.Router) {
			r.Get("/", s.HandleListFollowing())
			r.Post("/", s.HandleFollow())
			r.Get("/candidates", s.HandleFollowCandidates())
			r.Get("/{relationID}", s.HandleGetFollowing())
			r.Delete("/{relationID}", s.HandleUnfollow())
		})

		r.Route("/followers", func(r chi.Router) {
			r.Get("/", s.HandleListFollowers())
			r.Get("/{relationID}", s.HandleGetFollower())
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", s.HandleListPosts())
			r.Post("/", s.HandleCreatePost())
			r.Get("/{postID}", s.HandleGetPost())
			r.Put("/{postID}", s.HandleUpdatePost())
			r.Patch("/{postID}", s.HandleUpdatePost())
			r.Delete("/{postID}", s.HandleDeletePost())
			r.Post("/{postID}/upload-media", s.HandleUploadPostMedia())
			r.Post("/{postID}/comments", s.HandleAddComment())
			r.Post("/{postID}/like", s.HandleToggleLike())
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", s.HandleListComments())
			r.Get("/{commentID}", s.HandleGetComment())
			r.Delete("/{commentID}", s.HandleDeleteComment())
		})
	})

	return r
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.Metrics.IncrementRequests()
		next.ServeHTTP(w, r)
		s.Metrics.AddOperationLatency(r.Method, time.Since(start))
	})
}
