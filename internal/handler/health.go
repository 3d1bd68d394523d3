package handler

import "net/http"

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status        string   `json:"status"`
	MissingTables []string `json:"missing_tables,omitempty"`
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running and
// every schema table exists. A table that failed to be created at startup
// makes the check answer 503 with the missing table names.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.schema == nil {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
		return
	}
	missing, err := s.schema.MissingTables(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	if len(missing) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", MissingTables: missing})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
