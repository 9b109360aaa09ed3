// Package jobs holds the scheduled media maintenance jobs.
package jobs

import (
	"context"

	"sareeadmin.GO/config"
	"sareeadmin.GO/core/app"
	"sareeadmin.GO/core/log"
	"sareeadmin.GO/cron"
)

func init() {
	cron.Register("orphanreport", func(cfg *config.Config) string { return cfg.Media.ReportSchedule }, OrphanReport)
}

// OrphanReport logs how many stored images no product references and their total size.
func OrphanReport(ctx context.Context, a *app.App, _ ...string) error {
	objs, err := a.Media.Unorganized(ctx, nil, false)
	if err != nil {
		return err
	}
	var total int64
	for _, o := range objs {
		total += o.SizeBytes
	}
	log.Info().Int("count", len(objs)).Int64("bytes", total).Msg("orphanreport: unorganized images")
	return nil
}
