// Package handlers exposes the agency job service as a JSON HTTP API,
// bridging the transport layer and business logic.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stafflink/stafflink/internal/agency/auth"
	"github.com/stafflink/stafflink/internal/agency/authz"
	"github.com/stafflink/stafflink/internal/agency/controller"
	e "github.com/stafflink/stafflink/internal/agency/errors"
	"github.com/stafflink/stafflink/internal/agency/models"
	"go.uber.org/zap"
)

// JobController defines the business logic interface the HTTP handlers
// invoke.
type JobController interface {
	CreateJob(ctx context.Context, actingUserID uuid.UUID, in *controller.CreateJobInput) (*models.Job, error)
	UpdateJob(ctx context.Context, actingUserID, jobID uuid.UUID, upd *models.JobUpdate) error
	RequestJobDeletion(ctx context.Context, actingUserID, jobID uuid.UUID) error
	ListJobs(ctx context.Context, actingUserID uuid.UUID) (*models.JobList, error)
	GetJob(ctx context.Context, actingUserID, jobID uuid.UUID) (*models.Job, authz.Decision, error)
	ListMessages(ctx context.Context, userID uuid.UUID) (*models.MessageList, error)
	MarkMessageRead(ctx context.Context, userID, messageID uuid.UUID) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd *models.ProfileUpdate) error
	GetOptions(ctx context.Context) (*models.Options, error)
}

// API wires the JSON routes to the controller.
type API struct {
	controller JobController
	logger     *zap.Logger
}

func NewAPI(ctrl JobController, logger *zap.Logger) *API {
	return &API{controller: ctrl, logger: logger.Named("http")}
}

// Router builds the route table and wraps it with bearer-token auth.
func (a *API) Router(jwtSecret string) http.Handler {
	r := mux.NewRouter()

	v1 := r.PathPrefix("/agency/v1").Subrouter()
	v1.HandleFunc("/jobs", a.handleListJobs).Methods(http.MethodGet)
	v1.HandleFunc("/jobs", a.handleCreateJob).Methods(http.MethodPost)
	v1.HandleFunc("/jobs/{id}", a.handleGetJob).Methods(http.MethodGet)
	v1.HandleFunc("/jobs/{id}", a.handleUpdateJob).Methods(http.MethodPatch)
	v1.HandleFunc("/jobs/{id}", a.handleDeleteJob).Methods(http.MethodDelete)
	v1.HandleFunc("/messages", a.handleListMessages).Methods(http.MethodGet)
	v1.HandleFunc("/messages/{id}/read", a.handleMarkMessageRead).Methods(http.MethodPost)
	v1.HandleFunc("/profile", a.handleGetProfile).Methods(http.MethodGet)
	v1.HandleFunc("/profile", a.handleUpdateProfile).Methods(http.MethodPatch)
	v1.HandleFunc("/options", a.handleGetOptions).Methods(http.MethodGet)

	return auth.HTTPMiddleware(r, jwtSecret)
}

func (a *API) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		a.writeError(w, e.ErrNotAuthorized)
		return
	}

	var in controller.CreateJobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		a.writeError(w, e.ErrInvalidInput)
		return
	}

	job, err := a.controller.CreateJob(r.Context(), identity.UserID, &in)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, jobToResponse(job))
}

func (a *API) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		a.writeError(w, e.ErrNotAuthorized)
		return
	}

	jobID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, e.ErrInvalidInput)
		return
	}

	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, e.ErrInvalidInput)
		return
	}

	if err := a.controller.UpdateJob(r.Context(), identity.UserID, jobID, req.toModel()); err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]string{"status": "edit request submitted"})
}

func (a *API) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		a.writeError(w, e.ErrNotAuthorized)
		return
	}

	jobID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, e.ErrInvalidInput)
		return
	}

	if err := a.controller.RequestJobDeletion(r.Context(), identity.UserID, jobID); err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]string{"status": "deletion requested"})
}

func (a *API) handleListJobs(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		a.writeError(w, e.ErrNotAuthorized)
		return
	}

	list, err := a.controller.ListJobs(r.Context(), identity.UserID)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, jobListResponse{
		UserJobs:   jobsToResponses(list.UserJobs),
		AgencyJobs: jobsToResponses(list.AgencyJobs),
	})
}

func (a *API) handleGetJob(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		a.writeError(w, e.ErrNotAuthorized)
		return
	}

	jobID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, e.ErrInvalidInput)
		return
	}

	job, _, err := a.controller.GetJob(r.Context(), identity.UserID, jobID)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, jobToResponse(job))
}

func (a *API) handleListMessages(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		a.writeError(w, e.ErrNotAuthorized)
		return
	}

	list, err := a.controller.ListMessages(r.Context(), identity.UserID)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, messageListToResponse(list))
}

func (a *API) handleMarkMessageRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		a.writeError(w, e.ErrNotAuthorized)
		return
	}

	messageID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, e.ErrInvalidInput)
		return
	}

	if err := a.controller.MarkMessageRead(r.Context(), identity.UserID, messageID); err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (a *API) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		a.writeError(w, e.ErrNotAuthorized)
		return
	}

	profile, err := a.controller.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, profileToResponse(profile))
}

func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		a.writeError(w, e.ErrNotAuthorized)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, e.ErrInvalidInput)
		return
	}

	if err := a.controller.UpdateProfile(r.Context(), identity.UserID, req.toModel()); err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]string{"status": "profile updated"})
}

func (a *API) handleGetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := a.controller.GetOptions(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, optionsResponse{
		Hotels:         opts.Hotels,
		Accommodations: opts.Accommodations,
		MaleOutfits:    opts.MaleOutfits,
		FemaleOutfits:  opts.FemaleOutfits,
	})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("Failed to encode response", zap.Error(err))
	}
}

type apiError struct {
	Error string `json:"error"`
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	var verr *e.ValidationError

	switch {
	case errors.As(err, &verr):
		a.writeJSON(w, http.StatusBadRequest, apiError{Error: verr.Error()})
	case errors.Is(err, e.ErrInvalidInput):
		a.writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid input"})
	case errors.Is(err, e.ErrNotFound):
		a.writeJSON(w, http.StatusNotFound, apiError{Error: "not found"})
	case errors.Is(err, e.ErrNotAuthorized):
		a.writeJSON(w, http.StatusForbidden, apiError{Error: "not authorized"})
	default:
		a.logger.Error("Request failed", zap.Error(err))
		a.writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
	}
}
