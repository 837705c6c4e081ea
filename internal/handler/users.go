package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
	"github.com/aryan0dhankhar/giftexchange/internal/service"
)

// UserHandler serves the user endpoints
type UserHandler struct {
	exchange Exchange
	logger   *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(exchange Exchange, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		exchange: exchange,
		logger:   logger,
	}
}

// CreateUserRequest is the body of POST /user/create
type CreateUserRequest struct {
	Name *string `json:"name"`
}

// CreateUserResponse is returned after a user is created
type CreateUserResponse struct {
	ID domain.UserID `json:"id"`
}

// DeleteUserRequest is the body of POST /user/delete
type DeleteUserRequest struct {
	UserID ID `json:"user_id"`
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.exchange.ListUsers(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, users)
}

// Create handles POST /user/create
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Name == nil {
		writeError(w, h.logger, domain.ErrValidation("missing field name"))
		return
	}

	id, err := h.exchange.CreateUser(r.Context(), service.CreateUserCommand{Name: *req.Name})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("user created", slog.Uint64("user_id", uint64(id)))
	writeJSON(w, h.logger, http.StatusOK, CreateUserResponse{ID: id})
}

// Delete handles POST /user/delete
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	userID, err := requireUserID("user_id", req.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.exchange.DeleteUser(r.Context(), service.DeleteUserCommand{UserID: userID}); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("user deleted", slog.Uint64("user_id", uint64(userID)))
	writeJSON(w, h.logger, http.StatusOK, emptyObject)
}
