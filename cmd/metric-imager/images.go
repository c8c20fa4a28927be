package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vfg2006/metric-imager/infrastructure/accounts"
	"github.com/vfg2006/metric-imager/infrastructure/trafficspec"
	"github.com/vfg2006/metric-imager/internal/config"
	"github.com/vfg2006/metric-imager/internal/usecases/imaging"
	"github.com/vfg2006/metric-imager/pkg/duration"
)

const endOffsetNone = "0H"

func newImagesCommand(cfg *config.Config) *cobra.Command {
	var (
		start      string
		end        string
		pattern    string
		title      string
		region     string
		outputPath string
		period     int32
	)

	cmd := &cobra.Command{
		Use:   "images <traffic-spec.json> <accounts.toml>",
		Short: "Download metric comparison images, one per matching account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			startSpec, err := duration.Parse(start)
			if err != nil {
				return err
			}

			var endSpec *duration.Spec
			if end != endOffsetNone {
				parsed, err := duration.Parse(end)
				if err != nil {
					return err
				}
				endSpec = &parsed
			}

			specs, err := trafficspec.Load(args[0])
			if err != nil {
				return err
			}

			accountConfigs, err := accounts.Load(args[1])
			if err != nil {
				return err
			}

			service := newImagingService(cfg, region, outputPath)
			report, err := service.Run(cmd.Context(), imaging.RunParams{
				Accounts:      accountConfigs,
				Specs:         specs,
				Pattern:       pattern,
				Start:         startSpec,
				End:           endSpec,
				PeriodSeconds: period,
				Title:         title,
			})
			if err != nil {
				return err
			}

			for _, image := range report.Images {
				fmt.Fprintln(cmd.OutOrStdout(), image)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d accounts, %d/%d queries succeeded, %d images rendered\n",
				report.Selected, report.Succeeded, report.Queries, report.Rendered)

			// Per-query failures are already reported; partial failure is
			// still a successful run.
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "4320H", "window start offset before now, e.g. 4320H or 30D")
	cmd.Flags().StringVarP(&end, "end", "e", endOffsetNone, "window end offset before now; 0H means now")
	cmd.Flags().StringVarP(&pattern, "pattern", "f", "", "only query accounts whose namespace contains this substring")
	cmd.Flags().StringVar(&title, "title", "metric", "title used to identify the downloaded images")
	cmd.Flags().StringVarP(&region, "region", "r", "", "AWS region override (e.g. us-east-1, eu-west-1)")
	cmd.Flags().StringVarP(&outputPath, "output-path", "o", "", "directory for rendered images")
	cmd.Flags().Int32VarP(&period, "period", "p", 3600, "metric aggregation period in seconds")

	return cmd
}
