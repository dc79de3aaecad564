// Package handler exposes the admin endpoints: login, logout, the ranked
// volunteer listing, role management and dashboard stats.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	adminservice "aakseva/internal/admin/service"
	"aakseva/internal/roles"
	volunteerservice "aakseva/internal/volunteer/service"
	dErrors "aakseva/pkg/domain-errors"
	"aakseva/pkg/platform/httputil"
	"aakseva/pkg/requestcontext"
)

type Handler struct {
	admins     *adminservice.Service
	volunteers *volunteerservice.Service
	roles      *roles.Service
	guard      func(http.Handler) http.Handler
	logger     *slog.Logger
}

func New(admins *adminservice.Service, volunteers *volunteerservice.Service, roleService *roles.Service, guard func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	return &Handler{
		admins:     admins,
		volunteers: volunteers,
		roles:      roleService,
		guard:      guard,
		logger:     logger,
	}
}

// Register mounts the admin routes. Everything except login and the health
// probe sits behind the bearer token guard.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.guard)
			r.Post("/logout", h.Logout)
			r.Get("/volunteers", h.ListVolunteers)
			r.Post("/assign-role", h.AssignRole)
			r.Post("/remove-role", h.RemoveRole)
			r.Get("/stats", h.Stats)
		})
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteMessage(w, "admin service is healthy")
}

// loginResponse is the one endpoint that departs from the shared envelope:
// the token and admin identity ride at the top level.
type loginResponse struct {
	Success bool                   `json:"success"`
	Token   string                 `json:"token"`
	Admin   *adminservice.Identity `json:"admin"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	token, admin, err := h.admins.Login(ctx, body.Email, body.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "admin login failed",
			"email", body.Email,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "admin logged in",
		"email", admin.Email,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, loginResponse{Success: true, Token: token, Admin: admin})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := h.admins.Logout(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "admin logout failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, "logged out successfully")
}

// ListVolunteers returns every record ordered for the admin view, role
// holders first.
func (h *Handler) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vs, err := h.volunteers.ListByRoleRank(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list volunteers for admin",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, len(vs), vs)
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		VolunteerID string `json:"volunteerId"`
		Role        string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	id, err := uuid.Parse(body.VolunteerID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "volunteer not found"))
		return
	}

	v, err := h.roles.AssignRole(ctx, id, body.Role, requestcontext.AdminEmail(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to assign role",
			"volunteer_id", id,
			"role", body.Role,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "role assigned",
		"volunteer_id", id,
		"role", body.Role,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteData(w, http.StatusOK, "role assigned successfully", v)
}

func (h *Handler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		VolunteerID string `json:"volunteerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	id, err := uuid.Parse(body.VolunteerID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "volunteer not found"))
		return
	}

	v, err := h.roles.RemoveRole(ctx, id, requestcontext.AdminEmail(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to remove role",
			"volunteer_id", id,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "role removed successfully", v)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.roles.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute dashboard stats",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", stats)
}
