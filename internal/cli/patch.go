package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusVerify bool

var applyCmd = &cobra.Command{
	Use:     "apply <id> <channel> <version>",
	Short:   "Patch a target with a cached version",
	Example: `  dxvk-manager apply 570 dxvk v2.6`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := deps.Manager.Apply(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		if ok, _ := printJSON(cmd, result); !ok {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, result.Message)
			if result.Warning != "" {
				_, _ = fmt.Fprintf(out, "Warning: %s\n", result.Warning)
			}
		}
		if !result.Success {
			return errors.New("apply failed")
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Put the backed up original DLLs back",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := deps.Manager.Restore(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if ok, _ := printJSON(cmd, result); !ok {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		}
		if !result.Success {
			return errors.New("restore failed")
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete DXVK DLLs from a target without restoring backups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := deps.Manager.ForceRemove(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if ok, _ := printJSON(cmd, result); !ok {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		}
		if !result.Success {
			return errors.New("remove failed")
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Show the patch state of a target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := deps.Manager.Target(args[0])
		if err != nil {
			return err
		}
		state := deps.Manager.GetPatchState(args[0])
		hasBackup, err := deps.Manager.HasBackup(args[0])
		if err != nil {
			return err
		}

		if !statusVerify {
			if ok, err := printJSON(cmd, state); ok {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if !jsonOutput {
			printTarget(cmd, target)
			_, _ = fmt.Fprintf(out, "Patched:   %s\n", yesNo(state.Patched))
			if state.Patched {
				_, _ = fmt.Fprintf(out, "Version:   %s %s\n", state.AppliedChannel, state.AppliedVersion)
				if state.AppliedAt != nil {
					_, _ = fmt.Fprintf(out, "Applied:   %s\n", state.AppliedAt.Local().Format(time.DateTime))
				}
				_, _ = fmt.Fprintf(out, "Files:     %s\n", list(state.AppliedFiles))
			}
			_, _ = fmt.Fprintf(out, "Backups:   %s\n", yesNo(hasBackup))
		}

		if !statusVerify {
			return nil
		}
		result, err := deps.Manager.Verify(args[0])
		if err != nil {
			return err
		}
		if ok, err := printJSON(cmd, result); ok {
			return err
		}
		_, _ = fmt.Fprintf(out, "Matching:  %s\n", list(result.Matching))
		_, _ = fmt.Fprintf(out, "Drifted:   %s\n", list(result.Drifted))
		_, _ = fmt.Fprintf(out, "Missing:   %s\n", list(result.Missing))
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusVerify, "verify", false, "compare installed DLLs with the cached version")
}
