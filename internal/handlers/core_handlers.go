package handlers

import (
	"net/http"
	"time"
)

// HandleHealth reports service liveness and basic runtime counters
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		code := http.StatusOK
		if err := s.Store.Ping(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		s.writeJSON(w, code, map[string]interface{}{
			"status":         status,
			"uptime_seconds": int64(s.Metrics.Uptime() / time.Second),
			"request_count":  s.Metrics.RequestCount(),
			"error_count":    s.Metrics.ErrorCount(),
		})
	}
}
