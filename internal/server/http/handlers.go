package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/models"
	"github.com/dmitrijs2005/shipagency/internal/server/repositories/repomanager"
	"github.com/go-chi/chi/v5"
)

const healthTimeout = 2 * time.Second

type tokenResponse struct {
	Token string `json:"token"`
}

type cleanupResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

type healthResponse struct {
	Status   string         `json:"status"`
	Database databaseHealth `json:"database"`
	API      string         `json:"api"`
}

type databaseHealth struct {
	State     string `json:"state"`
	Connected bool   `json:"connected"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}

	token, _, err := s.deps.Users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}

	token, _, err := s.deps.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFromContext(r.Context()))
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.Users.Cleanup(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, cleanupResponse{
		Message:      fmt.Sprintf("Deleted %d users", n),
		DeletedCount: n,
	})
}

func (s *Server) handleListVessels(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Vessels.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetVessel(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.Vessels.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err, "Vessel not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleCreateVessel(w http.ResponseWriter, r *http.Request) {
	var in models.VesselInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}

	v, err := s.deps.Vessels.Create(r.Context(), in, userFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleUpdateVessel(w http.ResponseWriter, r *http.Request) {
	var patch models.VesselPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}

	v, err := s.deps.Vessels.Update(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeServiceError(w, r, err, "Vessel not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDeleteVessel(w http.ResponseWriter, r *http.Request) {
	err := s.deps.Vessels.Delete(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err, "Vessel not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Vessel deleted successfully"})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.deps.Hub.ServeWS(w, r, userFromContext(r.Context()).ID)
}

func (s *Server) handleSendServiceNotification(w http.ResponseWriter, r *http.Request) {
	var req models.ServiceNotificationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}

	res, err := s.deps.Notifications.SendService(r.Context(), userFromContext(r.Context()), req)
	if err != nil {
		s.writeServiceError(w, r, err, "Vessel not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSendCustomNotification(w http.ResponseWriter, r *http.Request) {
	var req models.CustomNotificationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}

	res, err := s.deps.Notifications.SendCustom(r.Context(), userFromContext(r.Context()), req)
	if err != nil {
		s.writeServiceError(w, r, err, "Vessel not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleHealth always answers 200; the database block tells whether the
// store is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	state := s.deps.Repos.State(ctx)
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Database: databaseHealth{
			State:     state,
			Connected: state == repomanager.StateConnected || state == repomanager.StateMemory,
		},
		API: "running",
	})
}
