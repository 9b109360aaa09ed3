package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	orphansExclude []string
	orphansRefresh bool
	orphansJSON    bool

	pruneOlderThan time.Duration
	pruneYes       bool
)

var mediaOrphansCmd = &cobra.Command{
	Use:   "media:orphans",
	Short: "List stored images that no product references",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		images, err := a.Media.GetUnorganizedImages(cmd.Context(), orphansExclude, orphansRefresh)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if orphansJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(images)
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tURL")
		for _, img := range images {
			fmt.Fprintf(w, "%s\t%s\n", img.Name, img.URL)
		}
		w.Flush()
		fmt.Fprintf(out, "%d unorganized image(s)\n", len(images))
		return nil
	},
}

var mediaPruneCmd = &cobra.Command{
	Use:   "media:prune",
	Short: "Delete unorganized images older than a cutoff (dry run unless --yes)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if pruneOlderThan <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		report, err := a.Media.Prune(cmd.Context(), pruneOlderThan, !pruneYes)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, o := range report.Candidates {
			fmt.Fprintf(out, "  %s  %s  %d bytes\n", o.CreatedAt.Format(time.DateOnly), o.Name, o.SizeBytes)
		}
		if report.DryRun {
			fmt.Fprintf(out, "%d image(s), %d bytes older than %s would be deleted. Re-run with --yes to delete.\n",
				len(report.Candidates), report.TotalBytes, report.Cutoff.Format(time.RFC3339))
			return nil
		}
		fmt.Fprintf(out, "Deleted %d image(s), %d bytes.\n", report.Deleted, report.TotalBytes)
		return nil
	},
}

func init() {
	mediaOrphansCmd.Flags().StringArrayVar(&orphansExclude, "exclude", nil, "URL to leave out (repeatable)")
	mediaOrphansCmd.Flags().BoolVar(&orphansRefresh, "refresh", false, "Recompute the reference set instead of using the cache")
	mediaOrphansCmd.Flags().BoolVar(&orphansJSON, "json", false, "Print JSON")
	rootCmd.AddCommand(mediaOrphansCmd)

	mediaPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 720*time.Hour, "Minimum age of images to delete")
	mediaPruneCmd.Flags().BoolVar(&pruneYes, "yes", false, "Actually delete")
	rootCmd.AddCommand(mediaPruneCmd)
}
