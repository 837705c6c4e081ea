package handler

import (
	"context"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
	"github.com/aryan0dhankhar/giftexchange/internal/service"
)

// Exchange is the command layer the HTTP handlers drive
type Exchange interface {
	ListUsers(ctx context.Context) (map[domain.UserID]string, error)
	ListGroups(ctx context.Context) (map[domain.GroupID]bool, error)
	CreateUser(ctx context.Context, cmd service.CreateUserCommand) (domain.UserID, error)
	CreateGroup(ctx context.Context, cmd service.CreateGroupCommand) (domain.GroupID, error)
	JoinGroup(ctx context.Context, cmd service.JoinGroupCommand) error
	DemoteAdmin(ctx context.Context, cmd service.DemoteAdminCommand) error
	DeleteGroup(ctx context.Context, cmd service.DeleteGroupCommand) error
	DeleteUser(ctx context.Context, cmd service.DeleteUserCommand) error
}

var _ Exchange = (*service.ExchangeService)(nil)
