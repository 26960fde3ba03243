package handler

import (
	"errors"
	"net/http"

	"github.com/mcoot/taptext/internal/api/apierr"
	"github.com/mcoot/taptext/internal/api/request"
	"github.com/mcoot/taptext/internal/api/response"
	"github.com/mcoot/taptext/internal/model"
	"github.com/mcoot/taptext/internal/services/moderation"
)

// ModerationHandler handles admin-only endpoints and the public warning list
type ModerationHandler struct {
	moderationService *moderation.Service
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(moderationService *moderation.Service) *ModerationHandler {
	return &ModerationHandler{
		moderationService: moderationService,
	}
}

// Warn handles POST /warn
func (h *ModerationHandler) Warn(w http.ResponseWriter, r *http.Request) {
	var req request.WarnRequest
	if !decode(w, r, &req) {
		return
	}

	if _, err := h.moderationService.Warn(r.Context(), req.Admin, req.Target, req.Reason); err != nil {
		if errors.Is(err, model.ErrUnauthorized) {
			err = apierr.New(http.StatusForbidden, apierr.MsgNotAuthorized)
		}
		WriteError(w, err)
		return
	}

	response.Text(w, http.StatusOK, response.Warned)
}

// Warnings handles GET /warnings/{user}
func (h *ModerationHandler) Warnings(w http.ResponseWriter, r *http.Request) {
	target, ok := pathVar(w, r, "user")
	if !ok {
		return
	}

	warnings, err := h.moderationService.ListWarnings(r.Context(), target)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, warnings)
}

// Promote handles POST /promote
func (h *ModerationHandler) Promote(w http.ResponseWriter, r *http.Request) {
	var req request.RoleChangeRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.moderationService.Promote(r.Context(), req.Admin, req.Target); err != nil {
		WriteError(w, err)
		return
	}

	response.Text(w, http.StatusOK, response.Promoted)
}

// Demote handles POST /demote
func (h *ModerationHandler) Demote(w http.ResponseWriter, r *http.Request) {
	var req request.RoleChangeRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.moderationService.Demote(r.Context(), req.Admin, req.Target); err != nil {
		WriteError(w, err)
		return
	}

	response.Text(w, http.StatusOK, response.Demoted)
}
