package domain

import (
	"fmt"
	"math"
)

// UserID identifies a registered user. Ids are never reused.
type UserID uint32

// GroupID identifies a gift-exchange group. Ids are never reused.
type GroupID uint32

// NoSanta marks a membership that has no assigned recipient yet.
const NoSanta = UserID(math.MaxUint32)

// User represents a registered participant
type User struct {
	ID   UserID
	Name string
}

// Group represents a gift-exchange group
type Group struct {
	ID       GroupID
	IsClosed bool // closed groups accept no new members
}

// AccessLevel is the role a user holds inside one group
type AccessLevel int

const (
	AccessUser AccessLevel = iota
	AccessAdmin
)

func (l AccessLevel) String() string {
	switch l {
	case AccessUser:
		return "user"
	case AccessAdmin:
		return "admin"
	default:
		return fmt.Sprintf("AccessLevel(%d)", int(l))
	}
}

// MembershipKey is the (user, group) pair a membership is stored under
type MembershipKey struct {
	UserID  UserID
	GroupID GroupID
}

// Membership associates one user with one group
type Membership struct {
	UserID      UserID
	GroupID     GroupID
	AccessLevel AccessLevel
	SantaID     UserID // recipient placeholder, always NoSanta for now
}

// Key returns the pair the membership is indexed by.
func (m Membership) Key() MembershipKey {
	return MembershipKey{UserID: m.UserID, GroupID: m.GroupID}
}

// IsAdmin reports whether the membership grants admin rights.
func (m Membership) IsAdmin() bool {
	return m.AccessLevel == AccessAdmin
}

// Counts summarizes the size of the aggregate
type Counts struct {
	Users       int
	Groups      int
	Memberships int
	OpenGroups  int
}
