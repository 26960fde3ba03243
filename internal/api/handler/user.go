package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/taptext/internal/api/apierr"
	"github.com/mcoot/taptext/internal/api/request"
	"github.com/mcoot/taptext/internal/api/response"
	"github.com/mcoot/taptext/internal/model"
	"github.com/mcoot/taptext/internal/services/auth"
	"github.com/mcoot/taptext/internal/services/social"
)

// UserHandler handles account and profile endpoints
type UserHandler struct {
	authService   *auth.Service
	socialService *social.Service
	logger        *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *auth.Service, socialService *social.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		authService:   authService,
		socialService: socialService,
		logger:        logger,
	}
}

// Login handles POST /login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			err = apierr.New(http.StatusUnauthorized, apierr.MsgUserNotFound)
		}
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, u)
}

// Register handles POST /register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.authService.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, u)
}

// UpdateProfile handles POST /update-profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.socialService.UpdateProfile(r.Context(), req.Username, req.DisplayName); err != nil {
		h.logger.Error("profile update failed",
			slog.String("username", req.Username),
			slog.String("error", err.Error()))
		WriteError(w, apierr.New(http.StatusInternalServerError, apierr.MsgUpdateFailed))
		return
	}

	response.Text(w, http.StatusOK, response.Updated)
}

// Get handles GET /users/{username}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	username, ok := pathVar(w, r, "username")
	if !ok {
		return
	}

	u, err := h.socialService.GetUser(r.Context(), username)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, u)
}

// Follow handles POST /follow
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	var req request.FollowRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.socialService.Follow(r.Context(), req.Follower, req.Followee); err != nil {
		WriteError(w, err)
		return
	}

	response.Text(w, http.StatusOK, response.Followed)
}
