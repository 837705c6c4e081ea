package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
	"github.com/aryan0dhankhar/giftexchange/internal/observability/metrics"
	"github.com/aryan0dhankhar/giftexchange/internal/observability/tracing"
	"github.com/aryan0dhankhar/giftexchange/internal/security"
	"github.com/aryan0dhankhar/giftexchange/internal/security/audit"
)

// ExchangeService is the command layer over users, groups and memberships.
// Every command validates and mutates inside a single store transaction;
// logging, metrics and auditing happen after the transaction has returned.
type ExchangeService struct {
	store  domain.Store
	authz  *security.AuthorizationService
	audit  *audit.Logger
	logger *slog.Logger
	tracer trace.Tracer
}

// NewExchangeService creates a new exchange service
func NewExchangeService(
	store domain.Store,
	authz *security.AuthorizationService,
	auditLogger *audit.Logger,
	logger *slog.Logger,
) *ExchangeService {
	if logger == nil {
		logger = slog.Default()
	}
	if authz == nil {
		authz = security.NewAuthorizationService(logger)
	}
	if auditLogger == nil {
		auditLogger = audit.NewLogger(logger, nil)
	}
	return &ExchangeService{
		store:  store,
		authz:  authz,
		audit:  auditLogger,
		logger: logger,
		tracer: tracing.Tracer(),
	}
}

// ListUsers returns every user name keyed by id
func (s *ExchangeService) ListUsers(ctx context.Context) (map[domain.UserID]string, error) {
	out := map[domain.UserID]string{}
	op := &operation{name: "list_users", readOnly: true}
	err := s.execute(ctx, op, func(ctx context.Context) error {
		return s.store.View(ctx, func(tx domain.ReadTx) error {
			for _, u := range tx.Users() {
				out[u.ID] = u.Name
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListGroups returns every group's closed flag keyed by id
func (s *ExchangeService) ListGroups(ctx context.Context) (map[domain.GroupID]bool, error) {
	out := map[domain.GroupID]bool{}
	op := &operation{name: "list_groups", readOnly: true}
	err := s.execute(ctx, op, func(ctx context.Context) error {
		return s.store.View(ctx, func(tx domain.ReadTx) error {
			for _, g := range tx.Groups() {
				out[g.ID] = g.IsClosed
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser registers a user and returns the allocated id
func (s *ExchangeService) CreateUser(ctx context.Context, cmd CreateUserCommand) (domain.UserID, error) {
	var id domain.UserID
	op := &operation{name: "create_user", resource: "user"}
	err := s.execute(ctx, op, func(ctx context.Context) error {
		if cmd.Name == "" {
			return domain.ErrValidation("bad name")
		}
		return s.store.Update(ctx, func(tx domain.Tx) error {
			user, err := tx.InsertUser(cmd.Name)
			if err != nil {
				return err
			}
			id = user.ID
			op.resourceID = formatID(id)
			op.actorID = op.resourceID
			return nil
		})
	})
	return id, err
}

// CreateGroup creates an open group whose creator is its only admin
func (s *ExchangeService) CreateGroup(ctx context.Context, cmd CreateGroupCommand) (domain.GroupID, error) {
	var id domain.GroupID
	op := &operation{name: "create_group", resource: "group", actorID: formatID(cmd.CreatorID)}
	err := s.execute(ctx, op, func(ctx context.Context) error {
		return s.store.Update(ctx, func(tx domain.Tx) error {
			if _, ok := tx.User(cmd.CreatorID); !ok {
				return domain.ErrNotFound("bad creator_id")
			}
			group, err := tx.InsertGroup()
			if err != nil {
				return err
			}
			id = group.ID
			tx.PutMembership(domain.Membership{
				UserID:      cmd.CreatorID,
				GroupID:     id,
				AccessLevel: domain.AccessAdmin,
				SantaID:     domain.NoSanta,
			})
			op.resourceID = formatID(id)
			return nil
		})
	})
	return id, err
}

// JoinGroup adds the user to the group as a plain member.
// Checks run in order: group exists, group open, user exists, not a member.
func (s *ExchangeService) JoinGroup(ctx context.Context, cmd JoinGroupCommand) error {
	op := &operation{name: "join_group", resource: "group", actorID: formatID(cmd.UserID), resourceID: formatID(cmd.GroupID)}
	return s.execute(ctx, op, func(ctx context.Context) error {
		return s.store.Update(ctx, func(tx domain.Tx) error {
			group, ok := tx.Group(cmd.GroupID)
			if !ok {
				return domain.ErrNotFound("no such group")
			}
			if group.IsClosed {
				return domain.ErrConflict("group is closed")
			}
			if _, ok := tx.User(cmd.UserID); !ok {
				return domain.ErrNotFound("no such user")
			}
			if _, ok := tx.Membership(cmd.UserID, cmd.GroupID); ok {
				return domain.ErrConflict("user already in group")
			}
			tx.PutMembership(domain.Membership{
				UserID:      cmd.UserID,
				GroupID:     cmd.GroupID,
				AccessLevel: domain.AccessUser,
				SantaID:     domain.NoSanta,
			})
			return nil
		})
	})
}

// CountAdmins returns the number of admins of a group
func (s *ExchangeService) CountAdmins(ctx context.Context, groupID domain.GroupID) (int, error) {
	var n int
	err := s.store.View(ctx, func(tx domain.ReadTx) error {
		n = tx.CountAdmins(groupID)
		return nil
	})
	return n, err
}

// DemoteAdmin turns the acting admin into a plain member, refusing to leave
// the group without an admin.
func (s *ExchangeService) DemoteAdmin(ctx context.Context, cmd DemoteAdminCommand) error {
	op := &operation{name: "demote_admin", resource: "group", actorID: formatID(cmd.AdminID), resourceID: formatID(cmd.GroupID)}
	err := s.execute(ctx, op, func(ctx context.Context) error {
		return s.store.Update(ctx, func(tx domain.Tx) error {
			m, err := s.authz.AuthorizeGroupAction(tx, cmd.AdminID, cmd.GroupID, security.PermDemoteAdmin)
			if err != nil {
				return err
			}
			if tx.CountAdmins(cmd.GroupID) < 2 {
				return domain.ErrConflict("cannot remove last admin")
			}
			m.AccessLevel = domain.AccessUser
			tx.PutMembership(m)
			return nil
		})
	})
	if domain.KindOf(err) == domain.KindAuthorization {
		s.authz.LogDenied(cmd.AdminID, cmd.GroupID, security.PermDemoteAdmin, err)
	}
	return err
}

// DeleteGroup removes the group and every membership in it
func (s *ExchangeService) DeleteGroup(ctx context.Context, cmd DeleteGroupCommand) error {
	op := &operation{name: "delete_group", resource: "group", actorID: formatID(cmd.AdminID), resourceID: formatID(cmd.GroupID)}
	err := s.execute(ctx, op, func(ctx context.Context) error {
		return s.store.Update(ctx, func(tx domain.Tx) error {
			if _, err := s.authz.AuthorizeGroupAction(tx, cmd.AdminID, cmd.GroupID, security.PermDeleteGroup); err != nil {
				return err
			}
			for _, m := range tx.MembershipsOfGroup(cmd.GroupID) {
				tx.RemoveMembership(m.UserID, m.GroupID)
			}
			tx.RemoveGroup(cmd.GroupID)
			return nil
		})
	})
	if domain.KindOf(err) == domain.KindAuthorization {
		s.authz.LogDenied(cmd.AdminID, cmd.GroupID, security.PermDeleteGroup, err)
	}
	return err
}

// DeleteUser removes the user and all of the user's memberships. Nothing is
// removed if the user is in a closed group or is the only admin of an open
// group.
func (s *ExchangeService) DeleteUser(ctx context.Context, cmd DeleteUserCommand) error {
	op := &operation{name: "delete_user", resource: "user", actorID: formatID(cmd.UserID), resourceID: formatID(cmd.UserID)}
	return s.execute(ctx, op, func(ctx context.Context) error {
		return s.store.Update(ctx, func(tx domain.Tx) error {
			if _, ok := tx.User(cmd.UserID); !ok {
				return domain.ErrNotFound("no such user")
			}

			var closed, open []domain.Membership
			for _, m := range tx.MembershipsOfUser(cmd.UserID) {
				group, ok := tx.Group(m.GroupID)
				if ok && group.IsClosed {
					closed = append(closed, m)
				} else {
					open = append(open, m)
				}
			}

			if len(closed) > 0 {
				return domain.ErrConflict("user belongs to closed groups %s; nothing was removed", joinGroupIDs(closed))
			}

			var removable, blocking []domain.Membership
			for _, m := range open {
				if !m.IsAdmin() || tx.CountAdmins(m.GroupID) > 1 {
					removable = append(removable, m)
				} else {
					blocking = append(blocking, m)
				}
			}

			if len(blocking) > 0 {
				return domain.ErrConflict("user is the only admin of groups %s", joinGroupIDs(blocking))
			}

			for _, m := range removable {
				tx.RemoveMembership(m.UserID, m.GroupID)
			}
			tx.RemoveUser(cmd.UserID)
			return nil
		})
	})
}

// operation describes one command for tracing, metrics and audit
type operation struct {
	name       string
	resource   string
	actorID    string
	resourceID string
	readOnly   bool
}

func (s *ExchangeService) execute(ctx context.Context, op *operation, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "ExchangeService."+op.name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	metrics.ObserveCommand(op.name, err, elapsed)
	span.SetAttributes(
		attribute.String("giftexchange.actor_id", op.actorID),
		attribute.String("giftexchange.resource_id", op.resourceID),
	)

	if err != nil {
		kind := domain.KindOf(err)
		span.SetAttributes(attribute.String("giftexchange.error_kind", string(kind)))
		span.SetStatus(codes.Error, err.Error())
		if kind == domain.KindInternal {
			s.logger.Error("command failed",
				slog.String("command", op.name),
				slog.String("error", err.Error()),
			)
		} else {
			s.logger.Info("command rejected",
				slog.String("command", op.name),
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()),
			)
		}
	} else {
		s.logger.Debug("command completed",
			slog.String("command", op.name),
			slog.String("resource_id", op.resourceID),
			slog.Duration("duration", elapsed),
		)
	}

	if !op.readOnly {
		s.audit.LogOutcome(ctx, op.actorID, op.name, op.resource, op.resourceID, err)
	}
	return err
}

func formatID[T ~uint32](id T) string {
	return strconv.FormatUint(uint64(id), 10)
}

func joinGroupIDs(ms []domain.Membership) string {
	ids := make([]string, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, formatID(m.GroupID))
	}
	return strings.Join(ids, ", ")
}
