package cli

import (
	"fmt"

	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/spf13/cobra"
)

var (
	reqX64 bool
	reqX32 bool
)

var requirementsCmd = &cobra.Command{
	Use:     "requirements <descriptor>",
	Short:   "Show which DLLs a graphics API descriptor needs",
	Example: `  dxvk-manager requirements "Direct3D 9.0c" --x32`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := deps.Manager.ResolveRequirements(args[0], model.Bitness{Is64: reqX64, Is32: reqX32})
		if ok, err := printJSON(cmd, req); ok {
			return err
		}
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "API:   %s\n", req.Description)
		_, _ = fmt.Fprintf(out, "Arch:  %s\n", req.Arch)
		_, _ = fmt.Fprintf(out, "Files: %s\n", list(req.Files))
		if req.Incompatible {
			_, _ = fmt.Fprintln(out, "Warning: this API is not translated by DXVK")
		}
		return nil
	},
}

func init() {
	requirementsCmd.Flags().BoolVar(&reqX64, "x64", false, "target has a 64-bit executable")
	requirementsCmd.Flags().BoolVar(&reqX32, "x32", false, "target has a 32-bit executable")
}
