package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"socialite/internal/database"
	"socialite/internal/media"
	"socialite/internal/middleware"
	"socialite/internal/models"
	"socialite/internal/scheduler"
	"socialite/internal/utils"

	"github.com/go-playground/validator/v10"
)

// Server holds all server dependencies shared by the request handlers.
type Server struct {
	Store   database.Store
	Auth    *middleware.Authenticator
	Media   *media.Store
	Queue   scheduler.Queue
	Metrics *utils.MetricsCollector

	MaxUploadSize int64

	validate *validator.Validate
}

// NewServer creates a new Server instance with the given components
func NewServer(
	store database.Store,
	auth *middleware.Authenticator,
	mediaStore *media.Store,
	queue scheduler.Queue,
	metrics *utils.MetricsCollector,
	maxUploadSize int64,
) *Server {
	return &Server{
		Store:         store,
		Auth:          auth,
		Media:         mediaStore,
		Queue:         queue,
		Metrics:       metrics,
		MaxUploadSize: maxUploadSize,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// writeError maps an error to its HTTP status and a JSON error body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.Metrics.IncrementErrors()

	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		appErr = utils.NewAppError(utils.ErrDatabase, "internal error", err)
	}

	status := utils.AppErrorToHTTPStatus(appErr.Code)
	if status >= 500 {
		slog.Error("request failed", "code", appErr.Code, "error", err)
	}
	s.writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    appErr.Code,
		Message: appErr.Message,
	}})
}

// decodeAndValidate parses the JSON body into req and runs the validator,
// turning validation failures into a field-detailed 400 body. It reports
// whether the request may proceed.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		s.writeError(w, utils.NewValidationError("invalid request body"))
		return false
	}
	if err := s.validate.Struct(req); err != nil {
		s.Metrics.IncrementErrors()
		fields := map[string]string{}
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fieldErr := range validationErrs {
				fields[fieldErr.Field()] = fieldErr.Tag()
			}
		}
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Code:    utils.ErrInvalidInput,
			Message: "validation failed",
			Fields:  fields,
		}})
		return false
	}
	return true
}

// formFile pulls one named file out of a multipart request, bounded by the
// configured upload size.
func (s *Server) formFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(s.MaxUploadSize); err != nil {
		return nil, nil, utils.NewValidationError("request is not valid multipart form data")
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, utils.NewValidationError(fmt.Sprintf("missing form file %q", field))
	}
	return file, header, nil
}

// currentProfile resolves the caller's profile from the authenticated
// account placed in the context by the JWT middleware.
func (s *Server) currentProfile(r *http.Request) (*models.Profile, error) {
	accountID, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		return nil, utils.NewUnauthorizedError("no authenticated account")
	}
	return s.Store.GetProfileByAccount(r.Context(), accountID)
}
