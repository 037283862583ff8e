package handlers

import (
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"socialite/internal/api"
	"socialite/internal/middleware"
	"socialite/internal/models"
	"socialite/internal/utils"

	"github.com/google/uuid"
)

// RegisterRequest represents a request to register a new account
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents a request to log in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateAccountRequest represents a request to update the current account
type UpdateAccountRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

// HandleRegister handles requests to register a new account
func (s *Server) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.writeError(w, utils.NewAppError(utils.ErrDatabase, "failed to hash password", err))
			return
		}

		account := &models.Account{
			ID:             uuid.New(),
			Username:       req.Username,
			Email:          req.Email,
			HashedPassword: string(hashed),
		}
		if err := s.Store.SaveAccount(r.Context(), account); err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusCreated, api.NewAccountView(account))
	}
}

// HandleLogin handles requests to log in and issues a session token
func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		account, err := s.Store.GetAccountByEmail(r.Context(), req.Email)
		if err != nil {
			// Unknown email and wrong password look the same to the caller.
			s.writeError(w, utils.NewAppError(utils.ErrInvalidCredentials, "invalid email or password", nil))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(req.Password)); err != nil {
			s.writeError(w, utils.NewAppError(utils.ErrInvalidCredentials, "invalid email or password", nil))
			return
		}

		token, err := s.Auth.GenerateToken(account.ID)
		if err != nil {
			s.writeError(w, utils.NewAppError(utils.ErrDatabase, "failed to generate auth token", err))
			return
		}

		s.writeJSON(w, http.StatusOK, api.LoginResponse{
			Success: true,
			Token:   token,
			UserID:  account.ID.String(),
		})
	}
}

// HandleLogout invalidates the presented token by denylisting it until its
// natural expiry.
func (s *Server) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, expiresAt, ok := middleware.GetTokenFromContext(r.Context())
		if !ok {
			s.writeError(w, utils.NewUnauthorizedError("no token on request"))
			return
		}

		if err := s.Auth.Revoke(r.Context(), token, expiresAt); err != nil {
			s.writeError(w, utils.NewAppError(utils.ErrDatabase, "failed to revoke token", err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleGetMe returns the current account
func (s *Server) HandleGetMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			s.writeError(w, utils.NewUnauthorizedError("no authenticated account"))
			return
		}

		account, err := s.Store.GetAccount(r.Context(), accountID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, api.NewAccountView(account))
	}
}

// HandleUpdateMe updates the current account's credentials
func (s *Server) HandleUpdateMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			s.writeError(w, utils.NewUnauthorizedError("no authenticated account"))
			return
		}

		var req UpdateAccountRequest
		if !s.decodeAndValidate(w, r, &req) {
			return
		}

		account, err := s.Store.GetAccount(r.Context(), accountID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		account.Username = req.Username
		account.Email = req.Email
		if req.Password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				s.writeError(w, utils.NewAppError(utils.ErrDatabase, "failed to hash password", err))
				return
			}
			account.HashedPassword = string(hashed)
		}
		account.UpdatedAt = time.Now()

		if err := s.Store.UpdateAccount(r.Context(), account); err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, api.NewAccountView(account))
	}
}
