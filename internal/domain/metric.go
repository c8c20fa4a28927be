package domain

import "time"

// TimeWindow is the absolute query window shared by every query of one run.
// It is resolved once per invocation, never per account.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// MetricQuery is one request for a named metric's series against one account.
// Read-only once constructed.
type MetricQuery struct {
	Account       AccountConfig
	MetricName    string
	Stat          string
	Dimensions    map[string]string
	PeriodSeconds int32
	Window        TimeWindow
}

// Datapoint is a single (timestamp, value) sample.
type Datapoint struct {
	Timestamp time.Time
	Value     float64
}

// Series is an ordered sequence of datapoints, ascending by timestamp.
type Series []Datapoint

// FetchResult holds the outcome of one metric query. Exactly one of Series
// or Failure is set.
type FetchResult struct {
	Query   MetricQuery
	Series  Series
	Failure *RemoteError
}

// Failed reports whether the query ended in a failure entry.
func (r FetchResult) Failed() bool {
	return r.Failure != nil
}

// SeriesBundle is the per-account collection of fetch results, ready for
// rendering. Keys preserves the original account order; every selected
// account appears as a key even when all of its queries failed.
type SeriesBundle struct {
	Keys     []string
	Accounts map[string]AccountConfig
	Results  map[string][]FetchResult
}

// RenderOptions carries the run metadata the renderer needs to label and
// name one account's image.
type RenderOptions struct {
	Title      string
	StartLabel string
	Timestamp  time.Time
}
