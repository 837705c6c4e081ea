package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewGroupCommand creates the group command group.
func NewGroupCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Group operations (list, create, join, demote, delete)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			groups, err := opts.client().ListGroups(cmd.Context())
			if err != nil {
				return out.Fail(err)
			}
			rows := make([][]string, 0, len(groups))
			for _, g := range groups {
				state := "open"
				if g.IsClosed {
					state = "closed"
				}
				rows = append(rows, []string{formatID(g.ID), state})
			}
			return out.Table(groups, []string{"ID", "STATUS"}, rows)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <creator-id>",
		Short: "Create a group administered by the creator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			creatorID, err := parseIDArg("creator id", args[0])
			if err != nil {
				return out.Fail(err)
			}
			groupID, err := opts.client().CreateGroup(cmd.Context(), creatorID)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(map[string]uint32{"group_id": groupID}, fmt.Sprintf("created group %d", groupID))
		},
	})

	cmd.AddCommand(pairCommand(opts, "join <user-id> <group-id>", "Join an open group", "user id",
		func(ctx context.Context, c *Client, userID, groupID uint32) (string, error) {
			return fmt.Sprintf("user %d joined group %d", userID, groupID), c.JoinGroup(ctx, userID, groupID)
		}))

	cmd.AddCommand(pairCommand(opts, "demote <admin-id> <group-id>", "Give up admin rights in a group", "admin id",
		func(ctx context.Context, c *Client, adminID, groupID uint32) (string, error) {
			return fmt.Sprintf("user %d is no longer an admin of group %d", adminID, groupID), c.DemoteAdmin(ctx, adminID, groupID)
		}))

	cmd.AddCommand(pairCommand(opts, "delete <admin-id> <group-id>", "Delete a group as one of its admins", "admin id",
		func(ctx context.Context, c *Client, adminID, groupID uint32) (string, error) {
			return fmt.Sprintf("deleted group %d", groupID), c.DeleteGroup(ctx, adminID, groupID)
		}))

	return cmd
}

// pairCommand builds a command taking a user id and a group id
func pairCommand(
	opts *RootOptions,
	use, short, firstName string,
	run func(ctx context.Context, c *Client, first, groupID uint32) (string, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			first, err := parseIDArg(firstName, args[0])
			if err != nil {
				return out.Fail(err)
			}
			groupID, err := parseIDArg("group id", args[1])
			if err != nil {
				return out.Fail(err)
			}
			text, err := run(cmd.Context(), opts.client(), first, groupID)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(struct{}{}, text)
		},
	}
}
