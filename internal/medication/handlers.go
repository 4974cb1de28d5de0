package medication

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/tubocare/medtrack/pkg/monitoring"
	"github.com/tubocare/medtrack/pkg/types"
)

// setupRoutes configures HTTP routes for the medication service
func (s *Service) setupRoutes(router *mux.Router) {
	router.Use(s.loggingMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.authMiddleware)

	// Medication routes
	api.HandleFunc("/medications", s.addMedicationHandler).Methods("POST")
	api.HandleFunc("/medications", s.getMedicationsHandler).Methods("GET")
	api.HandleFunc("/medications/{id}", s.getMedicationHandler).Methods("GET")
	api.HandleFunc("/medications/{id}", s.updateMedicationHandler).Methods("PUT")
	api.HandleFunc("/medications/{id}", s.deleteMedicationHandler).Methods("DELETE")

	// Dose checklist
	api.HandleFunc("/medications/{id}/doses", s.toggleDoseHandler).Methods("POST")

	// Schedule views
	api.HandleFunc("/schedule/daily", s.getDailyScheduleHandler).Methods("GET")
	api.HandleFunc("/schedule/weekly", s.getWeeklyScheduleHandler).Methods("GET")

	// Health and metrics are unauthenticated
	router.Handle(s.config.Monitoring.HealthPath, s.health.Handler()).Methods("GET")
	if s.config.Monitoring.Enabled {
		router.Handle(s.config.Monitoring.MetricsPath, monitoring.Handler()).Methods("GET")
	}

	s.logger.Info("Medication service routes configured")
}

// addMedicationHandler handles medication creation
func (s *Service) addMedicationHandler(w http.ResponseWriter, r *http.Request) {
	var med types.Medication
	if err := json.NewDecoder(r.Body).Decode(&med); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	claims := claimsFromRequest(r)
	created, err := s.AddMedication(&med, claims.UserID)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to add medication", err)
		return
	}

	s.writeJSONResponse(w, http.StatusCreated, created)
}

// getMedicationsHandler returns all medications for the authenticated user
func (s *Service) getMedicationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromRequest(r)

	meds, err := s.GetMedications(claims.UserID)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to get medications", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, meds)
}

// getMedicationHandler handles medication retrieval
func (s *Service) getMedicationHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	medID := vars["id"]

	claims := claimsFromRequest(r)
	med, err := s.GetMedication(medID, claims.UserID)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Medication not found", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, med)
}

// updateMedicationHandler handles medication updates
func (s *Service) updateMedicationHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	medID := vars["id"]

	var updates types.MedicationUpdates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	claims := claimsFromRequest(r)
	updated, err := s.UpdateMedication(medID, &updates, claims.UserID)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to update medication", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, updated)
}

// deleteMedicationHandler handles medication deletion
func (s *Service) deleteMedicationHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	medID := vars["id"]

	claims := claimsFromRequest(r)
	if err := s.DeleteMedication(medID, claims.UserID); err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to delete medication", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Medication deleted successfully"})
}

// toggleDoseRequest is the body for marking a dose taken or not taken
type toggleDoseRequest struct {
	Day     types.Weekday   `json:"day"`
	Time    types.TimeOfDay `json:"time"`
	Checked bool            `json:"checked"`
}

// toggleDoseHandler handles dose checklist toggles
func (s *Service) toggleDoseHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	medID := vars["id"]

	var req toggleDoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	claims := claimsFromRequest(r)
	updated, err := s.ToggleDose(medID, req.Day, req.Time, req.Checked, claims.UserID)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to toggle dose", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, updated)
}

// getDailyScheduleHandler returns the grouped home screen view. The
// reference time defaults to now and can be pinned with ?at=RFC3339.
func (s *Service) getDailyScheduleHandler(w http.ResponseWriter, r *http.Request) {
	now := s.clock.Now()
	if at := r.URL.Query().Get("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			s.writeErrorResponse(w, http.StatusBadRequest, "Invalid 'at' timestamp", err)
			return
		}
		now = parsed
	}

	claims := claimsFromRequest(r)
	view, err := s.GetDailySchedule(claims.UserID, now)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to build daily schedule", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, view)
}

// getWeeklyScheduleHandler returns all seven day buckets
func (s *Service) getWeeklyScheduleHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromRequest(r)

	groups, err := s.GetWeeklySchedule(claims.UserID)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to build weekly schedule", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, groups)
}

// statusForError maps structured service errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case types.IsErrorType(err, types.ErrorTypeValidation):
		return http.StatusBadRequest
	case types.IsErrorType(err, types.ErrorTypeNotFound):
		return http.StatusNotFound
	case types.IsErrorType(err, types.ErrorTypeConnectivity):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONResponse writes a JSON response
func (s *Service) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeErrorResponse writes an error response
func (s *Service) writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	s.logger.Errorf("%s: %v", message, err)

	response := map[string]interface{}{
		"error":  message,
		"status": statusCode,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	s.writeJSONResponse(w, statusCode, response)
}
