package cli

import (
	"github.com/spf13/cobra"
)

func newWarnCmd() *cobra.Command {
	var admin, reason string

	cmd := &cobra.Command{
		Use:   "warn <target>",
		Short: "Record a warning against a user (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"admin":  admin,
				"target": args[0],
				"reason": reason,
			}
			return postStatus(cmd, "/warn", req)
		},
	}

	cmd.Flags().StringVar(&admin, "admin", "", "Acting admin username (required)")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for the warning (required)")
	_ = cmd.MarkFlagRequired("admin")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newWarningsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warnings <username>",
		Short: "List warnings recorded against a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Warning

			if err := client.Get("/warnings/"+pathSegment(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPromoteCmd() *cobra.Command {
	return newRoleCmd("promote", "Grant the admin role (admin only)", "/promote")
}

func newDemoteCmd() *cobra.Command {
	return newRoleCmd("demote", "Revoke the admin role (admin only)", "/demote")
}

func newRoleCmd(use, short, path string) *cobra.Command {
	var admin string

	cmd := &cobra.Command{
		Use:   use + " <target>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"admin":  admin,
				"target": args[0],
			}
			return postStatus(cmd, path, req)
		},
	}

	cmd.Flags().StringVar(&admin, "admin", "", "Acting admin username (required)")
	_ = cmd.MarkFlagRequired("admin")

	return cmd
}
