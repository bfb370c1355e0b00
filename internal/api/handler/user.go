package handler

import (
	"encoding/json"
	"net/http"

	"github.com/2exd/suit-streak-server/internal/api/middleware"
	"github.com/2exd/suit-streak-server/internal/api/request"
	"github.com/2exd/suit-streak-server/internal/api/response"
	"github.com/2exd/suit-streak-server/internal/model"
	"github.com/2exd/suit-streak-server/internal/services/identity"
)

// UserHandler handles identity endpoints
type UserHandler struct {
	identityService *identity.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(identityService *identity.Service) *UserHandler {
	return &UserHandler{
		identityService: identityService,
	}
}

// Create handles POST /api/v1/users. With a user_id in the body an
// existing identity is resumed, otherwise a fresh one is created.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, NewInvalidRequestError("invalid request body"))
			return
		}
	}

	var (
		session *identity.Session
		ident   *model.Identity
		err     error
	)
	if req.UserID != "" {
		session, ident, err = h.identityService.Resume(r.Context(), model.UserID(req.UserID))
	} else {
		session, ident, err = h.identityService.Create(r.Context())
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session, ident))
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	ident, err := h.identityService.Get(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(ident))
}

// SetUsername handles PUT /api/v1/users/me/username
func (h *UserHandler) SetUsername(w http.ResponseWriter, r *http.Request) {
	var req request.SetUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	userID := middleware.MustGetUserID(r.Context())

	ident, err := h.identityService.SetUsername(r.Context(), userID, req.Username)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(ident))
}

// SetAvatar handles PUT /api/v1/users/me/avatar. An empty url requests
// a generated default avatar.
func (h *UserHandler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	var req request.SetAvatarRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, NewInvalidRequestError("invalid request body"))
			return
		}
	}

	userID := middleware.MustGetUserID(r.Context())

	var err error
	if req.URL != "" {
		err = h.identityService.SetAvatar(r.Context(), userID, req.URL)
	} else {
		err = h.identityService.GenerateDefaultAvatar(r.Context(), userID)
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	ident, err := h.identityService.Get(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(ident))
}

// Logout handles POST /api/v1/users/me/logout. The username and avatar
// are cleared but the user id survives for a later return.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	if err := h.identityService.ClearUser(r.Context(), userID); err != nil {
		WriteError(w, err)
		return
	}

	if session := middleware.GetSession(r.Context()); session != nil {
		h.identityService.InvalidateSession(session.Token)
	}

	response.NoContent(w)
}
