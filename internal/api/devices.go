package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/routerdock/internal/device"
	"github.com/nerrad567/routerdock/internal/mikrotik"
)

// RegisterRequest is the JSON body for registering a router. The
// password authenticates the initial poll only; it is never stored
// and never echoed back.
type RegisterRequest struct {
	IPAddress string `json:"ip_address"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	Port      int    `json:"port,omitempty"`
}

// RefreshRequest is the optional JSON body for re-polling a router.
// Empty fields fall back to the username stored at registration and
// the configured default password.
type RefreshRequest struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// DeviceResponse is the public shape of a registry record. The poll
// account name stays internal.
type DeviceResponse struct {
	ID           string         `json:"id"`
	IPAddress    string         `json:"ip_address"`
	Port         int            `json:"port"`
	CreatedAt    time.Time      `json:"created_at"`
	LastAccessed *time.Time     `json:"last_accessed,omitempty"`
	Data         map[string]any `json:"data"`
}

// newDeviceResponse strips a record down to its public fields.
func newDeviceResponse(rec *device.Record) DeviceResponse {
	return DeviceResponse{
		ID:           rec.ID,
		IPAddress:    rec.IPAddress,
		Port:         rec.Port,
		CreatedAt:    rec.CreatedAt,
		LastAccessed: rec.LastAccessed,
		Data:         rec.Data,
	}
}

func newDeviceResponses(records []device.Record) []DeviceResponse {
	out := make([]DeviceResponse, 0, len(records))
	for i := range records {
		out = append(out, newDeviceResponse(&records[i]))
	}
	return out
}

// handleListDevices returns all registered routers.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListDevices(r.Context())
	if err != nil {
		s.logger.Error("failed to list devices", "error", err)
		writeInternalError(w, "failed to list devices")
		return
	}

	responses := newDeviceResponses(records)
	writeJSON(w, http.StatusOK, map[string]any{"devices": responses, "count": len(responses)})
}

// handleGetDevice returns a single router by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.service.GetDevice(r.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("failed to get device", "error", err)
		writeInternalError(w, "failed to get device")
		return
	}

	writeJSON(w, http.StatusOK, newDeviceResponse(rec))
}

// handleRegisterDevice registers a router and polls it for the first time.
func (s *Server) handleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	rec, err := s.service.RegisterDevice(r.Context(), req.IPAddress, req.Username, req.Password, req.Port)
	if err != nil {
		s.writeServiceError(w, err, "register device")
		return
	}

	writeJSON(w, http.StatusCreated, newDeviceResponse(rec))
}

// handleRefreshDevice re-polls a router and returns the refreshed
// record. The request body is optional.
func (s *Server) handleRefreshDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	rec, err := s.service.RefreshDevice(r.Context(), id, req.Username, req.Password)
	if err != nil {
		s.writeServiceError(w, err, "refresh device")
		return
	}

	writeJSON(w, http.StatusOK, newDeviceResponse(rec))
}

// handleDeleteDevice removes a router by ID.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := s.service.DeleteDevice(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to delete device", "error", err)
		writeInternalError(w, "failed to delete device")
		return
	}
	if !removed {
		writeNotFound(w, "device not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps poll and registry failures onto HTTP
// responses: validation to 400, unknown IDs to 404, routers that
// cannot be polled to 502, anything else to 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, device.ErrNotFound):
		writeNotFound(w, "device not found")
	case errors.Is(err, mikrotik.ErrConnection):
		writeError(w, http.StatusBadGateway, ErrCodeBadGateway, err.Error())
	default:
		s.logger.Error("failed to "+action, "error", err)
		writeInternalError(w, "failed to "+action)
	}
}

// isValidationError checks whether an error is one of the record
// validation sentinels.
func isValidationError(err error) bool {
	return errors.Is(err, device.ErrInvalidIPAddress) ||
		errors.Is(err, device.ErrInvalidPort) ||
		errors.Is(err, device.ErrInvalidUsername)
}
