package cli

import (
	"fmt"

	"github.com/MirrorChyan/dxvk-manager/internal/model"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/sortorder"
	"github.com/spf13/cobra"
)

var (
	releasesAll   bool
	releasesOrder string
	fetchURL      string
)

var releasesCmd = &cobra.Command{
	Use:   "releases [channel]",
	Short: "List upstream releases of a channel",
	Example: `  dxvk-manager releases dxvk
  dxvk-manager releases --all`,
	Args: cobra.RangeArgs(0, 1),
	RunE: runReleases,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <channel> <version>",
	Short: "Download and cache a version",
	Example: `  dxvk-manager fetch dxvk v2.6
  dxvk-manager fetch dxvk-gplasync v2.6-1 --url https://mirror.local/dxvk-gplasync-2.6-1.tar.gz`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := deps.Manager.FetchAndCache(cmd.Context(), model.FetchParam{
			Channel:     args[0],
			Version:     args[1],
			DownloadURL: fetchURL,
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s is cached\n", args[0], args[1])
		return err
	},
}

var cachedCmd = &cobra.Command{
	Use:   "cached <channel>",
	Short: "List cached versions of a channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		versions, err := deps.Manager.InstalledVersions(args[0])
		if err != nil {
			return err
		}
		if ok, err := printJSON(cmd, versions); ok {
			return err
		}
		for _, v := range versions {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		return nil
	},
}

func init() {
	releasesCmd.Flags().BoolVar(&releasesAll, "all", false, "list every channel")
	releasesCmd.Flags().StringVar(&releasesOrder, "order", string(sortorder.Newest), "newest or oldest first")
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "archive URL (looked up in the catalog when omitted)")
}

func runReleases(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	catalogs := make(map[string][]model.Release)

	switch {
	case releasesAll:
		for ch, releases := range deps.Manager.ListAllCatalogs(ctx) {
			catalogs[ch.String()] = releases
		}
	case len(args) == 1:
		releases, err := deps.Manager.ListCatalog(ctx, args[0], sortorder.Parse(releasesOrder))
		if err != nil {
			return err
		}
		catalogs[args[0]] = releases
	default:
		return fmt.Errorf("a channel or --all is required")
	}

	if ok, err := printJSON(cmd, catalogs); ok {
		return err
	}

	tw := table(cmd.OutOrStdout(), "CHANNEL", "VERSION", "PUBLISHED", "CACHED", "DOWNLOADABLE")
	for _, ch := range deps.Manager.Channels().All() {
		for _, r := range catalogs[ch.ID.String()] {
			row(tw, ch.ID.String(), r.Version, r.PublishedDate, yesNo(r.IsDownloaded), yesNo(r.Actionable()))
		}
	}
	return tw.Flush()
}
