package main

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/metric-imager/infrastructure/integrator/cloudwatch"
	"github.com/vfg2006/metric-imager/infrastructure/integrator/cloudwatch/cloudwatchclient"
	"github.com/vfg2006/metric-imager/infrastructure/render"
	"github.com/vfg2006/metric-imager/internal/config"
	"github.com/vfg2006/metric-imager/internal/usecases/fetching"
	"github.com/vfg2006/metric-imager/internal/usecases/imaging"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level %q, falling back to info", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	root := &cobra.Command{
		Use:           "metric-imager",
		Short:         "Fetch operational metrics across accounts and render comparison charts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newConfigCommand(),
		newImagesCommand(cfg),
		newShowCommand(cfg),
		newWatchCommand(cfg),
	)

	if err := root.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// newIntegrator builds the CloudWatch integrator, preferring an explicit
// region override over the configured default.
func newIntegrator(cfg *config.Config, regionOverride string) *cloudwatch.CloudWatchIntegrator {
	defaultRegion := cfg.AWS.DefaultRegion
	if regionOverride != "" {
		defaultRegion = regionOverride
	}
	return cloudwatch.New(cloudwatchclient.NewClient(defaultRegion))
}

// newImagingService wires the full fetch-and-render pipeline.
func newImagingService(cfg *config.Config, regionOverride, outputDir string) *imaging.Service {
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}

	orchestrator := fetching.NewOrchestrator(newIntegrator(cfg, regionOverride), fetching.OrchestratorConfig{
		MaxWorkers:   cfg.Fetch.MaxWorkers,
		MaxAttempts:  cfg.Fetch.MaxAttempts,
		QueryTimeout: cfg.Fetch.QueryTimeout(),
		BackoffBase:  cfg.Fetch.BackoffBase(),
		BackoffMax:   cfg.Fetch.BackoffMax(),
	})

	return imaging.NewService(orchestrator, render.NewChartRenderer(outputDir))
}
