package service

import (
	"context"
	"fmt"
	"log/slog"
)

// demoAdmins are created on an empty store, each administering one group
var demoAdmins = []string{"Ilya", "Stepan"}

// SeedDemo populates the store with demo users and groups through the
// regular commands, so ids and invariants match normal operation.
func (s *ExchangeService) SeedDemo(ctx context.Context) error {
	for _, name := range demoAdmins {
		userID, err := s.CreateUser(ctx, CreateUserCommand{Name: name})
		if err != nil {
			return fmt.Errorf("failed to seed user %q: %w", name, err)
		}
		groupID, err := s.CreateGroup(ctx, CreateGroupCommand{CreatorID: userID})
		if err != nil {
			return fmt.Errorf("failed to seed group for %q: %w", name, err)
		}
		s.logger.Info("seeded demo data",
			slog.String("user", name),
			slog.Uint64("user_id", uint64(userID)),
			slog.Uint64("group_id", uint64(groupID)),
		)
	}
	return nil
}
