package service

import "github.com/aryan0dhankhar/giftexchange/internal/domain"

// CreateUserCommand registers a new user
type CreateUserCommand struct {
	Name string
}

// CreateGroupCommand creates an open group administered by its creator
type CreateGroupCommand struct {
	CreatorID domain.UserID
}

// JoinGroupCommand adds a user to an open group as a plain member
type JoinGroupCommand struct {
	UserID  domain.UserID
	GroupID domain.GroupID
}

// DemoteAdminCommand drops the acting admin to a plain member
type DemoteAdminCommand struct {
	AdminID domain.UserID
	GroupID domain.GroupID
}

// DeleteGroupCommand removes a group and all its memberships
type DeleteGroupCommand struct {
	AdminID domain.UserID
	GroupID domain.GroupID
}

// DeleteUserCommand removes a user and the user's memberships
type DeleteUserCommand struct {
	UserID domain.UserID
}
