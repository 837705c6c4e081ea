package repository

import (
	"cmp"
	"context"
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
)

const (
	// user ids stop below NoSanta so the placeholder never names a real user
	userIDLimit  = uint64(domain.NoSanta)
	groupIDLimit = uint64(math.MaxUint32) + 1
)

// state is the whole aggregate guarded by MemoryStore.mu. byUser, byGroup
// and admins are indexes over memberships kept in step by putMembership and
// removeMembership.
type state struct {
	users       map[domain.UserID]string
	groups      map[domain.GroupID]bool
	memberships map[domain.MembershipKey]domain.Membership
	byUser      map[domain.UserID]map[domain.GroupID]struct{}
	byGroup     map[domain.GroupID]map[domain.UserID]struct{}
	admins      map[domain.GroupID]int
	nextUserID  uint64
	nextGroupID uint64
}

func newState() *state {
	return &state{
		users:       map[domain.UserID]string{},
		groups:      map[domain.GroupID]bool{},
		memberships: map[domain.MembershipKey]domain.Membership{},
		byUser:      map[domain.UserID]map[domain.GroupID]struct{}{},
		byGroup:     map[domain.GroupID]map[domain.UserID]struct{}{},
		admins:      map[domain.GroupID]int{},
	}
}

func (s *state) putMembership(m domain.Membership) (domain.Membership, bool) {
	key := m.Key()
	prev, had := s.removeMembership(key)

	s.memberships[key] = m
	if s.byUser[m.UserID] == nil {
		s.byUser[m.UserID] = map[domain.GroupID]struct{}{}
	}
	s.byUser[m.UserID][m.GroupID] = struct{}{}
	if s.byGroup[m.GroupID] == nil {
		s.byGroup[m.GroupID] = map[domain.UserID]struct{}{}
	}
	s.byGroup[m.GroupID][m.UserID] = struct{}{}
	if m.IsAdmin() {
		s.admins[m.GroupID]++
	}
	return prev, had
}

func (s *state) removeMembership(key domain.MembershipKey) (domain.Membership, bool) {
	m, ok := s.memberships[key]
	if !ok {
		return domain.Membership{}, false
	}

	delete(s.memberships, key)
	delete(s.byUser[key.UserID], key.GroupID)
	if len(s.byUser[key.UserID]) == 0 {
		delete(s.byUser, key.UserID)
	}
	delete(s.byGroup[key.GroupID], key.UserID)
	if len(s.byGroup[key.GroupID]) == 0 {
		delete(s.byGroup, key.GroupID)
	}
	if m.IsAdmin() {
		s.admins[key.GroupID]--
		if s.admins[key.GroupID] == 0 {
			delete(s.admins, key.GroupID)
		}
	}
	return m, true
}

// MemoryStore implements domain.Store in process memory. A single RWMutex
// covers users, groups and memberships together.
type MemoryStore struct {
	mu    sync.RWMutex
	state *state
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newState()}
}

// Update runs fn with exclusive access. Mutations are applied in place and
// recorded in an undo log; if fn returns an error or panics the log is
// replayed backwards before the lock is released.
func (s *MemoryStore) Update(_ context.Context, fn func(tx domain.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{st: s.state}
	committed := false
	defer func() {
		if !committed {
			tx.rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	committed = true
	return nil
}

// View runs fn with shared access to the current state.
func (s *MemoryStore) View(_ context.Context, fn func(tx domain.ReadTx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(&memoryTx{st: s.state})
}

// memoryTx works directly on the live state. It must not be used after the
// callback it was handed to returns.
type memoryTx struct {
	st   *state
	undo []func()
}

func (t *memoryTx) record(fn func()) {
	t.undo = append(t.undo, fn)
}

func (t *memoryTx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *memoryTx) User(id domain.UserID) (domain.User, bool) {
	name, ok := t.st.users[id]
	if !ok {
		return domain.User{}, false
	}
	return domain.User{ID: id, Name: name}, true
}

func (t *memoryTx) Users() []domain.User {
	out := make([]domain.User, 0, len(t.st.users))
	for _, id := range slices.Sorted(maps.Keys(t.st.users)) {
		out = append(out, domain.User{ID: id, Name: t.st.users[id]})
	}
	return out
}

func (t *memoryTx) Group(id domain.GroupID) (domain.Group, bool) {
	closed, ok := t.st.groups[id]
	if !ok {
		return domain.Group{}, false
	}
	return domain.Group{ID: id, IsClosed: closed}, true
}

func (t *memoryTx) Groups() []domain.Group {
	out := make([]domain.Group, 0, len(t.st.groups))
	for _, id := range slices.Sorted(maps.Keys(t.st.groups)) {
		out = append(out, domain.Group{ID: id, IsClosed: t.st.groups[id]})
	}
	return out
}

func (t *memoryTx) Membership(userID domain.UserID, groupID domain.GroupID) (domain.Membership, bool) {
	m, ok := t.st.memberships[domain.MembershipKey{UserID: userID, GroupID: groupID}]
	return m, ok
}

// MembershipsOfUser returns the user's memberships ordered by group id
func (t *memoryTx) MembershipsOfUser(userID domain.UserID) []domain.Membership {
	groups := t.st.byUser[userID]
	out := make([]domain.Membership, 0, len(groups))
	for groupID := range groups {
		out = append(out, t.st.memberships[domain.MembershipKey{UserID: userID, GroupID: groupID}])
	}
	slices.SortFunc(out, func(a, b domain.Membership) int {
		return cmp.Compare(a.GroupID, b.GroupID)
	})
	return out
}

// MembershipsOfGroup returns the group's memberships ordered by user id
func (t *memoryTx) MembershipsOfGroup(groupID domain.GroupID) []domain.Membership {
	users := t.st.byGroup[groupID]
	out := make([]domain.Membership, 0, len(users))
	for userID := range users {
		out = append(out, t.st.memberships[domain.MembershipKey{UserID: userID, GroupID: groupID}])
	}
	slices.SortFunc(out, func(a, b domain.Membership) int {
		return cmp.Compare(a.UserID, b.UserID)
	})
	return out
}

func (t *memoryTx) CountAdmins(groupID domain.GroupID) int {
	return t.st.admins[groupID]
}

func (t *memoryTx) Counts() domain.Counts {
	c := domain.Counts{
		Users:       len(t.st.users),
		Groups:      len(t.st.groups),
		Memberships: len(t.st.memberships),
	}
	for _, closed := range t.st.groups {
		if !closed {
			c.OpenGroups++
		}
	}
	return c
}

func (t *memoryTx) InsertUser(name string) (domain.User, error) {
	st := t.st
	if st.nextUserID >= userIDLimit {
		return domain.User{}, domain.ErrConflict("user ids exhausted")
	}
	id := domain.UserID(st.nextUserID)
	st.nextUserID++
	st.users[id] = name
	t.record(func() {
		delete(st.users, id)
		st.nextUserID--
	})
	return domain.User{ID: id, Name: name}, nil
}

func (t *memoryTx) RemoveUser(id domain.UserID) {
	st := t.st
	name, ok := st.users[id]
	if !ok {
		return
	}
	delete(st.users, id)
	t.record(func() { st.users[id] = name })
}

func (t *memoryTx) InsertGroup() (domain.Group, error) {
	st := t.st
	if st.nextGroupID >= groupIDLimit {
		return domain.Group{}, domain.ErrConflict("group ids exhausted")
	}
	id := domain.GroupID(st.nextGroupID)
	st.nextGroupID++
	st.groups[id] = false
	t.record(func() {
		delete(st.groups, id)
		st.nextGroupID--
	})
	return domain.Group{ID: id}, nil
}

func (t *memoryTx) RemoveGroup(id domain.GroupID) {
	st := t.st
	closed, ok := st.groups[id]
	if !ok {
		return
	}
	delete(st.groups, id)
	t.record(func() { st.groups[id] = closed })
}

func (t *memoryTx) SetGroupClosed(id domain.GroupID, closed bool) {
	st := t.st
	prev, ok := st.groups[id]
	if !ok || prev == closed {
		return
	}
	st.groups[id] = closed
	t.record(func() { st.groups[id] = prev })
}

func (t *memoryTx) PutMembership(m domain.Membership) {
	st := t.st
	prev, had := st.putMembership(m)
	t.record(func() {
		if had {
			st.putMembership(prev)
			return
		}
		st.removeMembership(m.Key())
	})
}

func (t *memoryTx) RemoveMembership(userID domain.UserID, groupID domain.GroupID) {
	st := t.st
	prev, had := st.removeMembership(domain.MembershipKey{UserID: userID, GroupID: groupID})
	if had {
		t.record(func() { st.putMembership(prev) })
	}
}
