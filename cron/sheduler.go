package cron

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"sort"
	"time"

	"github.com/robfig/cron/v3"

	"sareeadmin.GO/core/app"
	"sareeadmin.GO/core/log"
)

// ErrUnknownJob is returned by RunOnce for a name nothing registered.
var ErrUnknownJob = errors.New("unknown cron job")

// StartCron schedules every registered job against a and starts the scheduler.
// Runs of the same job never overlap. Jobs see ctx, so cancelling it stops in-flight work.
func StartCron(ctx context.Context, a *app.App) (*cron.Cron, error) {
	logger := cron.VerbosePrintfLogger(stdlog.New(os.Stdout, "cron: ", stdlog.LstdFlags))
	if !a.Config.Debug {
		logger = cron.PrintfLogger(stdlog.New(os.Stdout, "cron: ", stdlog.LstdFlags))
	}
	c := cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))

	jobs := Jobs()
	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		name, j := name, jobs[name]
		spec := j.Schedule(a.Config)
		if spec == "" || spec == "off" {
			log.Info().Str("job", name).Msg("cron: job disabled")
			continue
		}
		if _, err := c.AddFunc(spec, func() { run(ctx, a, name, j.Run) }); err != nil {
			return nil, fmt.Errorf("register job %s (%q): %w", name, spec, err)
		}
		log.Info().Str("job", name).Str("schedule", spec).Msg("cron: job scheduled")
	}
	c.Start()
	return c, nil
}

// RunOnce runs a single job by name and returns its error.
func RunOnce(ctx context.Context, a *app.App, name string, args ...string) error {
	j, ok := Jobs()[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return run(ctx, a, name, j.Run, args...)
}

func run(ctx context.Context, a *app.App, name string, fn JobFunc, args ...string) error {
	start := time.Now()
	err := fn(ctx, a, args...)
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Str("job", name).Dur("took", time.Since(start)).Msg("cron: job finished")
	return err
}
