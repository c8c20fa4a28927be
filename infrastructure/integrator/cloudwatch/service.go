// Package cloudwatch adapts the CloudWatch SDK client to the orchestrator's
// fetcher contract, classifying remote failures into retryable and
// non-retryable kinds.
package cloudwatch

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/vfg2006/metric-imager/infrastructure/integrator/cloudwatch/cloudwatchclient"
	"github.com/vfg2006/metric-imager/internal/domain"
)

type CloudWatchIntegrator struct {
	client cloudwatchclient.Client
}

func New(client cloudwatchclient.Client) *CloudWatchIntegrator {
	return &CloudWatchIntegrator{client: client}
}

// FetchSeries executes one metric query, returning a classified
// *domain.RemoteError on failure.
func (i *CloudWatchIntegrator) FetchSeries(ctx context.Context, query domain.MetricQuery) (domain.Series, error) {
	series, err := i.client.GetMetricSeries(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	return series, nil
}

// ListMetrics enumerates the metrics visible in one region.
func (i *CloudWatchIntegrator) ListMetrics(ctx context.Context, region, namespace string) ([]types.Metric, error) {
	metrics, err := i.client.ListMetrics(ctx, region, namespace)
	if err != nil {
		return nil, mapError(err)
	}
	return metrics, nil
}
