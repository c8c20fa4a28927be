package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/cobra"
	"github.com/vfg2006/metric-imager/internal/config"
)

func newShowCommand(cfg *config.Config) *cobra.Command {
	var (
		region    string
		namespace string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the metrics visible in one region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			integrator := newIntegrator(cfg, region)

			metrics, err := integrator.ListMetrics(cmd.Context(), region, namespace)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, metric := range metrics {
				fmt.Fprintf(out, "Namespace: %s\n", aws.ToString(metric.Namespace))
				fmt.Fprintf(out, "Name:      %s\n", aws.ToString(metric.MetricName))
				fmt.Fprintln(out, "Dimensions:")
				for _, dimension := range metric.Dimensions {
					fmt.Fprintf(out, "  Name:  %s\n", aws.ToString(dimension.Name))
					fmt.Fprintf(out, "  Value: %s\n", aws.ToString(dimension.Value))
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "Found %d metrics.\n", len(metrics))

			return nil
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", "", "AWS region override (e.g. us-east-1, eu-west-1)")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "restrict the listing to one metric namespace")

	return cmd
}
