// Package render draws one PNG chart per account from its fetched series,
// using the same artifact naming the original workflow produced:
// <namespace>-<title>-<region>-<start>-<unixsecs>.png
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/vfg2006/metric-imager/internal/domain"
	chart "github.com/wcharczuk/go-chart/v2"
)

type ChartRenderer struct {
	outputDir string
	width     int
	height    int
}

func NewChartRenderer(outputDir string) *ChartRenderer {
	return &ChartRenderer{
		outputDir: outputDir,
		width:     1280,
		height:    480,
	}
}

// Render draws the account's successful series into one PNG and writes it
// under the output directory, returning the artifact path. Accounts whose
// queries all failed still produce an image with an empty "no data" series
// so the account is visibly present in the output set.
func (r *ChartRenderer) Render(account domain.AccountConfig, results []domain.FetchResult, opts domain.RenderOptions) (string, error) {
	series := buildSeries(results)
	if len(series) == 0 {
		series = []chart.Series{noDataSeries(results, opts)}
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s %s (%s)", account.Namespace, opts.Title, account.Region),
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return "", pkgerrors.Wrapf(err, "render: drawing chart for %s", account.Key())
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", pkgerrors.Wrapf(err, "render: creating output dir %s", r.outputDir)
	}

	name := fmt.Sprintf("%s-%s-%s-%s-%d.png",
		account.Namespace,
		opts.Title,
		account.Region,
		opts.StartLabel,
		opts.Timestamp.Unix(),
	)
	path := filepath.Join(r.outputDir, name)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", pkgerrors.Wrapf(err, "render: writing %s", path)
	}

	return path, nil
}

// buildSeries keeps only successful results with enough points to draw a
// line; go-chart rejects series with fewer than two points.
func buildSeries(results []domain.FetchResult) []chart.Series {
	var series []chart.Series
	for _, result := range results {
		if result.Failed() || len(result.Series) < 2 {
			continue
		}
		xs := make([]time.Time, len(result.Series))
		ys := make([]float64, len(result.Series))
		for i, point := range result.Series {
			xs[i] = point.Timestamp
			ys[i] = point.Value
		}
		series = append(series, chart.TimeSeries{
			Name:    result.Query.MetricName,
			XValues: xs,
			YValues: ys,
		})
	}
	return series
}

// noDataSeries draws a flat zero line across the query window so accounts
// without a single datapoint still render.
func noDataSeries(results []domain.FetchResult, opts domain.RenderOptions) chart.Series {
	start := opts.Timestamp.Add(-time.Hour)
	end := opts.Timestamp
	if len(results) > 0 {
		window := results[0].Query.Window
		if !window.Start.IsZero() && window.Start.Before(window.End) {
			start, end = window.Start, window.End
		}
	}
	return chart.TimeSeries{
		Name:    "no data",
		XValues: []time.Time{start, end},
		YValues: []float64{0, 0},
	}
}
