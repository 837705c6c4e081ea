package security

import (
	"log/slog"
	"slices"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
)

// Permission represents an action a group member may perform
type Permission string

const (
	PermDemoteAdmin Permission = "demote_admin"
	PermDeleteGroup Permission = "delete_group"
)

// LevelPermissions maps group access levels to their permissions
var LevelPermissions = map[domain.AccessLevel][]Permission{
	domain.AccessAdmin: {
		PermDemoteAdmin,
		PermDeleteGroup,
	},
	domain.AccessUser: {},
}

// AuthorizationService handles group-level authorization checks
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		logger: logger,
	}
}

// HasPermission checks if an access level grants a specific permission
func (as *AuthorizationService) HasPermission(level domain.AccessLevel, permission Permission) bool {
	return slices.Contains(LevelPermissions[level], permission)
}

// AuthorizeGroupAction checks that userID is a member of groupID and that
// the membership grants permission. It returns the acting membership.
//
// It is called inside a store transaction, so it does not log.
func (as *AuthorizationService) AuthorizeGroupAction(
	tx domain.ReadTx,
	userID domain.UserID,
	groupID domain.GroupID,
	permission Permission,
) (domain.Membership, error) {
	m, ok := tx.Membership(userID, groupID)
	if !ok {
		return domain.Membership{}, domain.ErrAuthorization("user does not belong to this group")
	}
	if !as.HasPermission(m.AccessLevel, permission) {
		return domain.Membership{}, domain.ErrAuthorization("not an admin")
	}
	return m, nil
}

// LogDenied records a rejected group action once the store lock is released
func (as *AuthorizationService) LogDenied(userID domain.UserID, groupID domain.GroupID, permission Permission, err error) {
	as.logger.Warn("permission denied",
		slog.Uint64("user_id", uint64(userID)),
		slog.Uint64("group_id", uint64(groupID)),
		slog.String("permission", string(permission)),
		slog.String("error", err.Error()),
	)
}
