package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

// printJSON writes v when --json is set and reports whether it did.
func printJSON(cmd *cobra.Command, v any) (bool, error) {
	if !jsonOutput {
		return false, nil
	}
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return true, err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return true, err
}

func table(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...string) {
	_, _ = fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func list(files []string) string {
	if len(files) == 0 {
		return "-"
	}
	return strings.Join(files, ", ")
}
