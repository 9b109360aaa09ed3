package cmd

import (
	"fmt"
	"math/rand"
	"os/signal"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"sareeadmin.GO/cron"
	_ "sareeadmin.GO/cron/jobs"
)

var jobName string

var cronFonts = []string{"banner", "big", "block", "slant", "standard", "small", "doom", "larry3d", "puffy"}

var cronStartCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Start the cron scheduler or run a single job by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jobName != "" {
			name := strings.ToLower(jobName)
			fmt.Fprintf(out, "Running cron job: %s\n", name)
			return cron.RunOnce(ctx, a, name, args...)
		}

		figure.NewFigure("Saree Cron", cronFonts[rand.Intn(len(cronFonts))], true).Print()
		c, err := cron.StartCron(ctx, a)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Cron scheduler started. Press Ctrl+C to exit.")
		go a.ListenInvalidations(ctx)
		<-ctx.Done()
		<-c.Stop().Done()
		return nil
	},
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	rootCmd.AddCommand(cronStartCmd)
}
