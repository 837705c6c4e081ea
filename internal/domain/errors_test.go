package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "validation", err: ErrValidation("bad name"), want: KindValidation},
		{name: "not found", err: ErrNotFound("no such user"), want: KindNotFound},
		{name: "conflict", err: ErrConflict("group is closed"), want: KindConflict},
		{name: "authorization", err: ErrAuthorization("not an admin"), want: KindAuthorization},
		{name: "wrapped conflict", err: fmt.Errorf("join: %w", ErrConflict("user already in group")), want: KindConflict},
		{name: "plain error", err: errors.New("boom"), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no such group 7", ErrNotFound("no such group %d", 7).Error())
	assert.Equal(t, "not an admin", ErrAuthorization("not an admin").Error())
}

func TestAccessLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "user", AccessUser.String())
	assert.Equal(t, "admin", AccessAdmin.String())
	assert.Equal(t, "AccessLevel(9)", AccessLevel(9).String())
}
