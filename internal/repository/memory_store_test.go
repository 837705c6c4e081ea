package repository

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
)

func insertUser(t *testing.T, tx domain.Tx, name string) domain.User {
	t.Helper()
	u, err := tx.InsertUser(name)
	require.NoError(t, err)
	return u
}

func insertGroup(t *testing.T, tx domain.Tx) domain.Group {
	t.Helper()
	g, err := tx.InsertGroup()
	require.NoError(t, err)
	return g
}

func membership(userID domain.UserID, groupID domain.GroupID, level domain.AccessLevel) domain.Membership {
	return domain.Membership{UserID: userID, GroupID: groupID, AccessLevel: level, SantaID: domain.NoSanta}
}

func TestMemoryStore_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var first, second, third domain.User
	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		first = insertUser(t, tx, "Alice")
		second = insertUser(t, tx, "Bob")
		return nil
	}))
	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		tx.RemoveUser(second.ID)
		third = insertUser(t, tx, "Carol")
		return nil
	}))

	assert.Equal(t, domain.UserID(0), first.ID)
	assert.Equal(t, domain.UserID(1), second.ID)
	assert.Equal(t, domain.UserID(2), third.ID)

	require.NoError(t, store.View(ctx, func(tx domain.ReadTx) error {
		users := tx.Users()
		require.Len(t, users, 2)
		assert.Equal(t, "Alice", users[0].Name)
		assert.Equal(t, "Carol", users[1].Name)
		return nil
	}))
}

func TestMemoryStore_FailedUpdateIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	errBoom := errors.New("boom")

	err := store.Update(ctx, func(tx domain.Tx) error {
		u := insertUser(t, tx, "Alice")
		g := insertGroup(t, tx)
		tx.PutMembership(membership(u.ID, g.ID, domain.AccessAdmin))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	require.NoError(t, store.View(ctx, func(tx domain.ReadTx) error {
		assert.Equal(t, domain.Counts{}, tx.Counts())
		assert.Equal(t, 0, tx.CountAdmins(0))
		assert.Empty(t, tx.MembershipsOfUser(0))
		assert.Empty(t, tx.MembershipsOfGroup(0))
		return nil
	}))

	// the discarded transaction did not consume ids either
	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		assert.Equal(t, domain.UserID(0), insertUser(t, tx, "Bob").ID)
		assert.Equal(t, domain.GroupID(0), insertGroup(t, tx).ID)
		return nil
	}))
}

func TestMemoryStore_FailedUpdateRestoresExistingState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		alice := insertUser(t, tx, "Alice")
		bob := insertUser(t, tx, "Bob")
		g0 := insertGroup(t, tx)
		g1 := insertGroup(t, tx)
		tx.PutMembership(membership(alice.ID, g0.ID, domain.AccessAdmin))
		tx.PutMembership(membership(bob.ID, g0.ID, domain.AccessAdmin))
		tx.PutMembership(membership(bob.ID, g1.ID, domain.AccessAdmin))
		return nil
	}))

	var before domain.Counts
	require.NoError(t, store.View(ctx, func(tx domain.ReadTx) error {
		before = tx.Counts()
		return nil
	}))

	err := store.Update(ctx, func(tx domain.Tx) error {
		// demote, delete a group with its memberships, delete a user, close a group
		tx.PutMembership(membership(0, 0, domain.AccessUser))
		for _, m := range tx.MembershipsOfGroup(1) {
			tx.RemoveMembership(m.UserID, m.GroupID)
		}
		tx.RemoveGroup(1)
		tx.RemoveMembership(1, 0)
		tx.RemoveUser(1)
		tx.SetGroupClosed(0, true)
		insertUser(t, tx, "Carol")
		return domain.ErrConflict("abort")
	})
	require.Error(t, err)

	require.NoError(t, store.View(ctx, func(tx domain.ReadTx) error {
		assert.Equal(t, before, tx.Counts())
		assert.Equal(t, 2, tx.CountAdmins(0))
		assert.Equal(t, 1, tx.CountAdmins(1))

		m, ok := tx.Membership(0, 0)
		require.True(t, ok)
		assert.True(t, m.IsAdmin())

		bob, ok := tx.User(1)
		require.True(t, ok)
		assert.Equal(t, "Bob", bob.Name)

		g0, ok := tx.Group(0)
		require.True(t, ok)
		assert.False(t, g0.IsClosed)
		_, ok = tx.Group(1)
		assert.True(t, ok)

		ofBob := tx.MembershipsOfUser(1)
		require.Len(t, ofBob, 2)
		assert.Equal(t, domain.GroupID(0), ofBob[0].GroupID)
		assert.Equal(t, domain.GroupID(1), ofBob[1].GroupID)
		return nil
	}))

	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		assert.Equal(t, domain.UserID(2), insertUser(t, tx, "Carol").ID)
		return nil
	}))
}

func TestMemoryStore_PanicRollsBackAndReleasesLock(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.Panics(t, func() {
		_ = store.Update(ctx, func(tx domain.Tx) error {
			insertUser(t, tx, "Alice")
			panic("handler bug")
		})
	})

	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		assert.Empty(t, tx.Users())
		assert.Equal(t, domain.UserID(0), insertUser(t, tx, "Bob").ID)
		return nil
	}))
}

func TestMemoryStore_Memberships(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		alice := insertUser(t, tx, "Alice")
		bob := insertUser(t, tx, "Bob")
		g0 := insertGroup(t, tx)
		g1 := insertGroup(t, tx)
		tx.SetGroupClosed(g1.ID, true)
		tx.PutMembership(membership(alice.ID, g0.ID, domain.AccessAdmin))
		tx.PutMembership(membership(bob.ID, g0.ID, domain.AccessAdmin))
		tx.PutMembership(membership(bob.ID, g1.ID, domain.AccessUser))
		return nil
	}))

	require.NoError(t, store.View(ctx, func(tx domain.ReadTx) error {
		assert.Equal(t, 2, tx.CountAdmins(0))
		assert.Equal(t, 0, tx.CountAdmins(1))

		ofBob := tx.MembershipsOfUser(1)
		require.Len(t, ofBob, 2)
		assert.Equal(t, domain.GroupID(0), ofBob[0].GroupID)
		assert.Equal(t, domain.GroupID(1), ofBob[1].GroupID)

		ofGroup := tx.MembershipsOfGroup(0)
		require.Len(t, ofGroup, 2)
		assert.Equal(t, domain.UserID(0), ofGroup[0].UserID)

		g1, ok := tx.Group(1)
		require.True(t, ok)
		assert.True(t, g1.IsClosed)

		assert.Equal(t, domain.Counts{Users: 2, Groups: 2, Memberships: 3, OpenGroups: 1}, tx.Counts())
		return nil
	}))

	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		tx.RemoveMembership(1, 0)
		_, ok := tx.Membership(1, 0)
		assert.False(t, ok)
		assert.Equal(t, 1, tx.CountAdmins(0))
		assert.Len(t, tx.MembershipsOfUser(1), 1)
		return nil
	}))
}

func TestMemoryStore_AdminCountFollowsLevelChanges(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		a := insertUser(t, tx, "Alice")
		b := insertUser(t, tx, "Bob")
		g := insertGroup(t, tx)

		tx.PutMembership(membership(a.ID, g.ID, domain.AccessAdmin))
		tx.PutMembership(membership(b.ID, g.ID, domain.AccessUser))
		assert.Equal(t, 1, tx.CountAdmins(g.ID))

		tx.PutMembership(membership(b.ID, g.ID, domain.AccessAdmin))
		assert.Equal(t, 2, tx.CountAdmins(g.ID))

		tx.PutMembership(membership(a.ID, g.ID, domain.AccessUser))
		assert.Equal(t, 1, tx.CountAdmins(g.ID))

		tx.RemoveMembership(b.ID, g.ID)
		assert.Equal(t, 0, tx.CountAdmins(g.ID))
		assert.Len(t, tx.MembershipsOfGroup(g.ID), 1)
		return nil
	}))
}

func TestMemoryStore_IDExhaustion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.state.nextUserID = uint64(domain.NoSanta) - 1
	store.state.nextGroupID = math.MaxUint32

	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		u := insertUser(t, tx, "Last")
		assert.Equal(t, domain.NoSanta-1, u.ID)

		_, err := tx.InsertUser("Overflow")
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))

		g := insertGroup(t, tx)
		assert.Equal(t, domain.GroupID(math.MaxUint32), g.ID)

		_, err = tx.InsertGroup()
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
		return nil
	}))

	require.NoError(t, store.View(ctx, func(tx domain.ReadTx) error {
		assert.Equal(t, domain.Counts{Users: 1, Groups: 1, OpenGroups: 1}, tx.Counts())
		_, ok := tx.User(domain.NoSanta)
		assert.False(t, ok)
		return nil
	}))
}

func TestMemoryStore_ConcurrentInsertsGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const workers = 64
	ids := make([]domain.UserID, workers)

	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			return store.Update(ctx, func(tx domain.Tx) error {
				u, err := tx.InsertUser("user")
				ids[i] = u.ID
				return err
			})
		})
	}
	require.NoError(t, g.Wait())

	seen := map[domain.UserID]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "id %d allocated twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}
