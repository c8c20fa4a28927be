package imaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/metric-imager/infrastructure/trafficspec"
	"github.com/vfg2006/metric-imager/internal/domain"
	"github.com/vfg2006/metric-imager/internal/usecases/fetching"
	fetchingmocks "github.com/vfg2006/metric-imager/internal/usecases/fetching/mocks"
	"github.com/vfg2006/metric-imager/internal/usecases/imaging/mocks"
	"github.com/vfg2006/metric-imager/pkg/duration"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC)

func paramsFixture() RunParams {
	return RunParams{
		Accounts: []domain.AccountConfig{
			{Namespace: "ItemDPP", AccountID: "111111111111", Region: "us-east-1"},
			{Namespace: "ItemDPP", AccountID: "222222222222", Region: "eu-west-1"},
			{Namespace: "Other", AccountID: "333333333333", Region: "us-west-2"},
		},
		Specs: []trafficspec.MetricSpec{
			{Name: "RetryCount", Stat: "Sum", Dimensions: map[string]string{"Service": "{{NAMESPACE}}"}},
		},
		Pattern:       "ItemDPP",
		Start:         duration.Spec{Magnitude: 2, Unit: duration.UnitHours},
		PeriodSeconds: 3600,
		Title:         "metric",
		Now:           testNow,
	}
}

func orchestratorConfig() fetching.OrchestratorConfig {
	return fetching.OrchestratorConfig{
		MaxWorkers:   4,
		MaxAttempts:  2,
		QueryTimeout: time.Second,
		BackoffBase:  time.Millisecond,
		BackoffMax:   2 * time.Millisecond,
	}
}

// End-to-end scenario: two of three accounts match the pattern, one of the
// matched accounts fails with a non-retryable not-found, and the renderer is
// still invoked exactly once per selected account.
func TestRunEndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	params := paramsFixture()

	fetcher := fetchingmocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().
		FetchSeries(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q domain.MetricQuery) (domain.Series, error) {
			if q.Account.AccountID == "222222222222" {
				return nil, domain.NewRemoteError(domain.ErrorKindNotFound, "ResourceNotFound", "no such metric", nil)
			}
			return domain.Series{
				{Timestamp: q.Window.Start, Value: 4},
				{Timestamp: q.Window.End, Value: 7},
			}, nil
		}).
		Times(2)

	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().
		Render(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(account domain.AccountConfig, results []domain.FetchResult, opts domain.RenderOptions) (string, error) {
			assert.Equal(t, "ItemDPP", account.Namespace)
			require.Len(t, results, 1)
			return account.AccountID + ".png", nil
		}).
		Times(2)

	service := NewService(fetching.NewOrchestrator(fetcher, orchestratorConfig()), renderer)
	report, err := service.Run(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Selected)
	assert.Equal(t, 2, report.Queries)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 2, report.Rendered)
	assert.Zero(t, report.RenderFailures)
	assert.Equal(t, []string{"111111111111.png", "222222222222.png"}, report.Images)

	// Start = "2H" relative to the injected now.
	assert.Equal(t, testNow.Add(-2*time.Hour), report.Window.Start)
	assert.Equal(t, testNow, report.Window.End)
}

func TestRunZeroMatchingAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	params := paramsFixture()
	params.Pattern = "NothingMatchesThis"

	// Neither the orchestrator nor the renderer may be touched.
	service := NewService(mocks.NewMockOrchestrator(ctrl), mocks.NewMockRenderer(ctrl))
	report, err := service.Run(context.Background(), params)

	require.NoError(t, err)
	assert.Zero(t, report.Selected)
	assert.Zero(t, report.Queries)
	assert.Empty(t, report.Images)
}

func TestRunWindowSharedByAllQueries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	params := paramsFixture()
	params.Pattern = ""

	orchestrator := mocks.NewMockOrchestrator(ctrl)
	orchestrator.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, queries []domain.MetricQuery) []domain.FetchResult {
			require.Len(t, queries, 3)
			expected := domain.TimeWindow{Start: testNow.Add(-2 * time.Hour), End: testNow}
			for _, q := range queries {
				assert.Equal(t, expected, q.Window)
				assert.Equal(t, q.Account.Namespace, q.Dimensions["Service"], "dimension template must expand per account")
			}
			results := make([]domain.FetchResult, len(queries))
			for i, q := range queries {
				results[i] = domain.FetchResult{Query: q, Series: domain.Series{}}
			}
			return results
		})

	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().Render(gomock.Any(), gomock.Any(), gomock.Any()).Return("out.png", nil).Times(3)

	service := NewService(orchestrator, renderer)
	_, err := service.Run(context.Background(), params)
	require.NoError(t, err)
}

func TestRunRenderFailureDoesNotAbortRemainingRenders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	params := paramsFixture()

	orchestrator := mocks.NewMockOrchestrator(ctrl)
	orchestrator.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, queries []domain.MetricQuery) []domain.FetchResult {
			results := make([]domain.FetchResult, len(queries))
			for i, q := range queries {
				results[i] = domain.FetchResult{Query: q, Series: domain.Series{}}
			}
			return results
		})

	first := true
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().
		Render(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(account domain.AccountConfig, _ []domain.FetchResult, _ domain.RenderOptions) (string, error) {
			if first {
				first = false
				return "", errors.New("disk full")
			}
			return "ok.png", nil
		}).
		Times(2)

	service := NewService(orchestrator, renderer)
	report, err := service.Run(context.Background(), params)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Rendered)
	assert.Equal(t, 1, report.RenderFailures)
}

func TestRunRenderOptionsCarryRunMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	params := paramsFixture()
	params.Pattern = "Other"
	params.Title = "retries"
	params.Start = duration.Spec{Magnitude: 4320, Unit: duration.UnitHours}

	orchestrator := mocks.NewMockOrchestrator(ctrl)
	orchestrator.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, queries []domain.MetricQuery) []domain.FetchResult {
			results := make([]domain.FetchResult, len(queries))
			for i, q := range queries {
				results[i] = domain.FetchResult{Query: q, Series: domain.Series{}}
			}
			return results
		})

	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().
		Render(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ domain.AccountConfig, _ []domain.FetchResult, opts domain.RenderOptions) (string, error) {
			assert.Equal(t, "retries", opts.Title)
			assert.Equal(t, "4320H", opts.StartLabel)
			assert.Equal(t, testNow, opts.Timestamp)
			return "out.png", nil
		})

	service := NewService(orchestrator, renderer)
	_, err := service.Run(context.Background(), params)
	require.NoError(t, err)
}
