package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vfg2006/metric-imager/internal/config"
	"github.com/vfg2006/metric-imager/internal/scheduler"
	"github.com/vfg2006/metric-imager/internal/usecases/imaging"
	"github.com/vfg2006/metric-imager/pkg/duration"
)

func newWatchCommand(cfg *config.Config) *cobra.Command {
	var (
		start      string
		pattern    string
		title      string
		region     string
		outputPath string
		cron       string
		period     int32
	)

	cmd := &cobra.Command{
		Use:   "watch <traffic-spec.json> <accounts.toml>",
		Short: "Re-render the metric images on a cron schedule until interrupted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			startSpec, err := duration.Parse(start)
			if err != nil {
				return err
			}

			watchConfig := *cfg
			watchConfig.Snapshot.Enabled = true
			if cron != "" {
				watchConfig.Snapshot.CronSchedule = cron
			}

			params := scheduler.SnapshotParams{
				TrafficSpecPath: args[0],
				AccountsPath:    args[1],
				Run: imaging.RunParams{
					Pattern:       pattern,
					Start:         startSpec,
					PeriodSeconds: period,
					Title:         title,
				},
			}

			service := scheduler.NewSnapshotSyncService(
				newImagingService(cfg, region, outputPath),
				params,
				&watchConfig,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := service.Start(ctx); err != nil {
				return err
			}

			// First snapshot runs immediately; the cron takes over after.
			service.TriggerManualSync(ctx)

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "4320H", "window start offset before now, e.g. 4320H or 30D")
	cmd.Flags().StringVarP(&pattern, "pattern", "f", "", "only query accounts whose namespace contains this substring")
	cmd.Flags().StringVar(&title, "title", "metric", "title used to identify the downloaded images")
	cmd.Flags().StringVarP(&region, "region", "r", "", "AWS region override (e.g. us-east-1, eu-west-1)")
	cmd.Flags().StringVarP(&outputPath, "output-path", "o", "", "directory for rendered images")
	cmd.Flags().StringVar(&cron, "cron", "", "cron schedule override for the periodic snapshot")
	cmd.Flags().Int32VarP(&period, "period", "p", 3600, "metric aggregation period in seconds")

	return cmd
}
