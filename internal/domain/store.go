package domain

import "context"

// ReadTx gives read access to a consistent snapshot of users, groups and
// memberships.
type ReadTx interface {
	User(id UserID) (User, bool)
	Users() []User
	Group(id GroupID) (Group, bool)
	Groups() []Group
	Membership(userID UserID, groupID GroupID) (Membership, bool)
	MembershipsOfUser(userID UserID) []Membership
	MembershipsOfGroup(groupID GroupID) []Membership
	CountAdmins(groupID GroupID) int
	Counts() Counts
}

// Tx extends ReadTx with mutations. Ids are allocated inside the
// transaction, so two concurrent creations never share an id. Once a
// registry has handed out every id it can represent, Insert returns a
// ConflictError instead of wrapping around. NoSanta is never allocated as
// a user id.
type Tx interface {
	ReadTx
	InsertUser(name string) (User, error)
	RemoveUser(id UserID)
	InsertGroup() (Group, error)
	RemoveGroup(id GroupID)
	SetGroupClosed(id GroupID, closed bool)
	PutMembership(m Membership)
	RemoveMembership(userID UserID, groupID GroupID)
}

// Store serializes access to the whole user/group/membership aggregate.
//
// Update runs fn with exclusive access; when fn returns an error none of its
// changes become visible. View runs fn with shared access.
type Store interface {
	Update(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx ReadTx) error) error
}
