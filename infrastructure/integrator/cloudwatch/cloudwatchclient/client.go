package cloudwatchclient

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/vfg2006/metric-imager/internal/domain"
)

type Client interface {
	GetMetricSeries(ctx context.Context, query domain.MetricQuery) (domain.Series, error)
	ListMetrics(ctx context.Context, region, namespace string) ([]types.Metric, error)
}

// CloudWatchClient holds one SDK client per region, created lazily.
// Credentials come from the environment (shared config, env vars, instance
// role); the client never manages them itself.
type CloudWatchClient struct {
	defaultRegion string

	mu       sync.Mutex
	byRegion map[string]*cloudwatch.Client
}

func NewClient(defaultRegion string) *CloudWatchClient {
	return &CloudWatchClient{
		defaultRegion: defaultRegion,
		byRegion:      make(map[string]*cloudwatch.Client),
	}
}

func (c *CloudWatchClient) clientFor(ctx context.Context, region string) (*cloudwatch.Client, error) {
	if region == "" {
		region = c.defaultRegion
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.byRegion[region]; ok {
		return client, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("cloudwatch: loading AWS config for region %s: %w", region, err)
	}

	client := cloudwatch.NewFromConfig(cfg)
	c.byRegion[region] = client
	return client, nil
}

// GetMetricSeries fetches one metric's datapoints for the query window via
// GetMetricData, following pagination and returning the series in ascending
// timestamp order.
func (c *CloudWatchClient) GetMetricSeries(ctx context.Context, query domain.MetricQuery) (domain.Series, error) {
	client, err := c.clientFor(ctx, query.Account.Region)
	if err != nil {
		return nil, err
	}

	dimensions := make([]types.Dimension, 0, len(query.Dimensions))
	for name, value := range query.Dimensions {
		dimensions = append(dimensions, types.Dimension{
			Name:  aws.String(name),
			Value: aws.String(value),
		})
	}

	input := &cloudwatch.GetMetricDataInput{
		StartTime: aws.Time(query.Window.Start),
		EndTime:   aws.Time(query.Window.End),
		ScanBy:    types.ScanByTimestampAscending,
		MetricDataQueries: []types.MetricDataQuery{
			{
				Id: aws.String("m0"),
				MetricStat: &types.MetricStat{
					Metric: &types.Metric{
						Namespace:  aws.String(query.Account.Namespace),
						MetricName: aws.String(query.MetricName),
						Dimensions: dimensions,
					},
					Period: aws.Int32(query.PeriodSeconds),
					Stat:   aws.String(query.Stat),
				},
			},
		},
	}

	var series domain.Series
	paginator := cloudwatch.NewGetMetricDataPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, result := range page.MetricDataResults {
			for i := range result.Timestamps {
				if i >= len(result.Values) {
					break
				}
				series = append(series, domain.Datapoint{
					Timestamp: result.Timestamps[i],
					Value:     result.Values[i],
				})
			}
		}
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})

	return series, nil
}

// ListMetrics enumerates the metrics visible in one region, optionally
// restricted to a namespace.
func (c *CloudWatchClient) ListMetrics(ctx context.Context, region, namespace string) ([]types.Metric, error) {
	client, err := c.clientFor(ctx, region)
	if err != nil {
		return nil, err
	}

	input := &cloudwatch.ListMetricsInput{}
	if namespace != "" {
		input.Namespace = aws.String(namespace)
	}

	var metrics []types.Metric
	paginator := cloudwatch.NewListMetricsPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, page.Metrics...)
	}

	return metrics, nil
}
