package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
	"github.com/aryan0dhankhar/giftexchange/internal/repository"
)

func TestHasPermission(t *testing.T) {
	authz := NewAuthorizationService(nil)

	assert.True(t, authz.HasPermission(domain.AccessAdmin, PermDemoteAdmin))
	assert.True(t, authz.HasPermission(domain.AccessAdmin, PermDeleteGroup))
	assert.False(t, authz.HasPermission(domain.AccessUser, PermDemoteAdmin))
	assert.False(t, authz.HasPermission(domain.AccessUser, PermDeleteGroup))
	assert.False(t, authz.HasPermission(domain.AccessLevel(42), PermDeleteGroup))
}

func TestAuthorizeGroupAction(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	authz := NewAuthorizationService(nil)

	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		admin, _ := tx.InsertUser("Alice")
		member, _ := tx.InsertUser("Bob")
		_, _ = tx.InsertUser("Carol")
		g, _ := tx.InsertGroup()
		tx.PutMembership(domain.Membership{UserID: admin.ID, GroupID: g.ID, AccessLevel: domain.AccessAdmin, SantaID: domain.NoSanta})
		tx.PutMembership(domain.Membership{UserID: member.ID, GroupID: g.ID, AccessLevel: domain.AccessUser, SantaID: domain.NoSanta})
		return nil
	}))

	tests := []struct {
		name    string
		userID  domain.UserID
		wantErr string
	}{
		{name: "admin", userID: 0},
		{name: "plain member", userID: 1, wantErr: "not an admin"},
		{name: "outsider", userID: 2, wantErr: "user does not belong to this group"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.View(ctx, func(tx domain.ReadTx) error {
				m, err := authz.AuthorizeGroupAction(tx, tt.userID, 0, PermDeleteGroup)
				if err == nil {
					assert.Equal(t, tt.userID, m.UserID)
				}
				return err
			})
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))
		})
	}
}
