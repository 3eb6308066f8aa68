package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/shipagency/internal/common"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

var errInvalidJSON = errors.New("invalid JSON payload")

// decodeJSON reads a single JSON value. An empty body decodes as {}.
func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errInvalidJSON
	}
	if dec.More() {
		return errInvalidJSON
	}
	return nil
}

// statusFor maps service errors to a status and a client-facing message.
// notFound names the missing resource.
func statusFor(err error, notFound string) (int, string) {
	switch {
	case errors.Is(err, errInvalidJSON):
		return http.StatusBadRequest, "Invalid JSON payload"
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "Validation Error"
	case errors.Is(err, common.ErrConflict):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid credentials"
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token format"
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Token has expired"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, notFound
	case errors.Is(err, common.ErrDelivery):
		return http.StatusInternalServerError, "Error sending email"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	status, msg := statusFor(err, notFound)
	body := errorResponse{Message: msg}

	var verr *common.ValidationError
	if errors.As(err, &verr) {
		if verr.Message != "" {
			body.Message = verr.Message
		}
		body.Errors = verr.Fields
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		if s.development {
			body.Error = err.Error()
		}
	}

	writeJSON(w, status, body)
}
