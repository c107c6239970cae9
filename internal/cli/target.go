package cli

import (
	"fmt"

	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/spf13/cobra"
)

var (
	scanPrune     bool
	scanSteamApps string
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Manage target metadata",
}

var targetSetCmd = &cobra.Command{
	Use:     "set <id>",
	Short:   "Create or update a target",
	Example: `  dxvk-manager target set my-game --dir "/games/My Game" --d3d "Direct3D 11" --x64`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			flags  = cmd.Flags()
			update model.TargetUpdate
		)
		if flags.Changed("name") {
			v, _ := flags.GetString("name")
			update.Name = &v
		}
		if flags.Changed("dir") {
			v, _ := flags.GetString("dir")
			update.InstallDir = &v
		}
		if flags.Changed("d3d") {
			v, _ := flags.GetString("d3d")
			update.Descriptor = &v
		}
		if flags.Changed("x64") {
			v, _ := flags.GetBool("x64")
			update.Is64 = &v
		}
		if flags.Changed("x32") {
			v, _ := flags.GetBool("x32")
			update.Is32 = &v
		}

		target, err := deps.Manager.UpdateTarget(args[0], update)
		if err != nil {
			return err
		}
		if ok, err := printJSON(cmd, target); ok {
			return err
		}
		printTarget(cmd, target)
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Import installed Steam games as targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := deps.Manager.SyncLibrary(cmd.Context(), model.SyncLibraryParam{
			SteamApps: scanSteamApps,
			Prune:     scanPrune,
		})
		if err != nil {
			return err
		}
		if ok, err := printJSON(cmd, result); ok {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Found %d games: %d added, %d updated, %d removed\n",
			result.Discovered, len(result.Added), len(result.Updated), len(result.Removed))
		return err
	},
}

func init() {
	f := targetSetCmd.Flags()
	f.String("name", "", "display name")
	f.String("dir", "", "installation directory")
	f.String("d3d", "", "graphics API descriptor, e.g. \"Direct3D 9\"")
	f.Bool("x64", false, "has a 64-bit executable")
	f.Bool("x32", false, "has a 32-bit executable")
	targetCmd.AddCommand(targetSetCmd)

	scanCmd.Flags().BoolVar(&scanPrune, "prune", false, "delete targets of games that are no longer installed")
	scanCmd.Flags().StringVar(&scanSteamApps, "steamapps", "", "steamapps directory (default from config)")
}

func printTarget(cmd *cobra.Command, t *model.Target) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "ID:        %s\n", t.ID)
	_, _ = fmt.Fprintf(out, "Name:      %s\n", t.Name)
	_, _ = fmt.Fprintf(out, "Directory: %s\n", t.InstallDir)
	_, _ = fmt.Fprintf(out, "API:       %s\n", t.Descriptor)
	_, _ = fmt.Fprintf(out, "64-bit:    %s\n", yesNo(t.Bitness.Is64))
	_, _ = fmt.Fprintf(out, "32-bit:    %s\n", yesNo(t.Bitness.Is32))
}
