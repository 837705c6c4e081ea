package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewUserCommand creates the user command group.
func NewUserCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User operations (list, create, delete)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			users, err := opts.client().ListUsers(cmd.Context())
			if err != nil {
				return out.Fail(err)
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{formatID(u.ID), u.Name})
			}
			return out.Table(users, []string{"ID", "NAME"}, rows)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Register a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			id, err := opts.client().CreateUser(cmd.Context(), args[0])
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(map[string]uint32{"id": id}, fmt.Sprintf("created user %d", id))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user and all of its memberships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			userID, err := parseIDArg("user id", args[0])
			if err != nil {
				return out.Fail(err)
			}
			if err := opts.client().DeleteUser(cmd.Context(), userID); err != nil {
				return out.Fail(err)
			}
			return out.Success(struct{}{}, fmt.Sprintf("deleted user %d", userID))
		},
	})

	return cmd
}
