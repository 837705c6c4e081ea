package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
	"github.com/aryan0dhankhar/giftexchange/internal/service"
)

// GroupHandler serves the group and membership endpoints
type GroupHandler struct {
	exchange Exchange
	logger   *slog.Logger
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(exchange Exchange, logger *slog.Logger) *GroupHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupHandler{
		exchange: exchange,
		logger:   logger,
	}
}

// CreateGroupRequest is the body of POST /group/create
type CreateGroupRequest struct {
	CreatorID ID `json:"creator_id"`
}

// CreateGroupResponse is returned after a group is created
type CreateGroupResponse struct {
	GroupID domain.GroupID `json:"group_id"`
}

// JoinGroupRequest is the body of POST /group/join
type JoinGroupRequest struct {
	UserID  ID `json:"user_id"`
	GroupID ID `json:"group_id"`
}

// AdminActionRequest is the body of POST /group/unadmin and /group/delete
type AdminActionRequest struct {
	AdminID ID `json:"admin_id"`
	GroupID ID `json:"group_id"`
}

// List handles GET /groups
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.exchange.ListGroups(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, groups)
}

// Create handles POST /group/create
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	creatorID, err := requireUserID("creator_id", req.CreatorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	groupID, err := h.exchange.CreateGroup(r.Context(), service.CreateGroupCommand{CreatorID: creatorID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("group created",
		slog.Uint64("group_id", uint64(groupID)),
		slog.Uint64("creator_id", uint64(creatorID)),
	)
	writeJSON(w, h.logger, http.StatusOK, CreateGroupResponse{GroupID: groupID})
}

// Join handles POST /group/join
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinGroupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	userID, err := requireUserID("user_id", req.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	groupID, err := requireGroupID("group_id", req.GroupID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.exchange.JoinGroup(r.Context(), service.JoinGroupCommand{UserID: userID, GroupID: groupID}); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, emptyObject)
}

// Demote handles POST /group/unadmin
func (h *GroupHandler) Demote(w http.ResponseWriter, r *http.Request) {
	adminID, groupID, err := decodeAdminAction(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.exchange.DemoteAdmin(r.Context(), service.DemoteAdminCommand{AdminID: adminID, GroupID: groupID}); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, emptyObject)
}

// Delete handles POST /group/delete
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	adminID, groupID, err := decodeAdminAction(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.exchange.DeleteGroup(r.Context(), service.DeleteGroupCommand{AdminID: adminID, GroupID: groupID}); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("group deleted", slog.Uint64("group_id", uint64(groupID)))
	writeJSON(w, h.logger, http.StatusOK, emptyObject)
}

func decodeAdminAction(r *http.Request) (domain.UserID, domain.GroupID, error) {
	var req AdminActionRequest
	if err := decodeBody(r, &req); err != nil {
		return 0, 0, err
	}
	adminID, err := requireUserID("admin_id", req.AdminID)
	if err != nil {
		return 0, 0, err
	}
	groupID, err := requireGroupID("group_id", req.GroupID)
	if err != nil {
		return 0, 0, err
	}
	return adminID, groupID, nil
}
