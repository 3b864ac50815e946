package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tripsampler/internal/sampler"
	"github.com/wonny/tripsampler/internal/table"
)

func sampleResult(t *testing.T) *sampler.Result {
	t.Helper()
	tbl, err := table.New([]string{"trip_id", "tpep_pickup_datetime"}, [][]string{
		{"a", "2024-01-01 05:00:00"},
		{"b", "2024-01-01 05:30:00"},
		{"c", "2024-01-01 05:45:00"},
		{"d", "2024-01-02 17:10:00"},
		{"e", "not-a-time"},
	})
	require.NoError(t, err)

	opts := sampler.DefaultOptions()
	opts.Malformed = sampler.MalformedSkip
	res, err := sampler.Sample(context.Background(), tbl, opts)
	require.NoError(t, err)
	return res
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(sampleResult(t))
	require.NoError(t, err)

	assert.Equal(t, 5, s.InputRows)
	assert.Equal(t, 2, s.OutputRows)
	assert.Equal(t, 1, s.SkippedRows)
	assert.Equal(t, 2, s.Days)
	assert.Equal(t, 2, s.Buckets)
	assert.Equal(t, 46, s.EmptyBuckets)
	assert.Equal(t, 3.0, s.Population.Max)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), s.First)
}

func TestPopulationQuantiles(t *testing.T) {
	q, err := PopulationQuantiles(nil)
	require.NoError(t, err)
	assert.Equal(t, Quantiles{}, q)

	var buckets []sampler.BucketStat
	for i := 1; i <= 100; i++ {
		buckets = append(buckets, sampler.BucketStat{Population: i, Drawn: 1})
	}

	q, err = PopulationQuantiles(buckets)
	require.NoError(t, err)
	assert.InDelta(t, 50, q.P50, 2)
	assert.InDelta(t, 90, q.P90, 2)
	assert.InDelta(t, 99, q.P99, 2)
	assert.Equal(t, 100.0, q.Max)
}

func TestPrint(t *testing.T) {
	s, err := Summarize(sampleResult(t))
	require.NoError(t, err)
	s.RunID = "run-1"
	s.Input = "converted.csv"
	s.ProfileHash = strings.Repeat("ab", 32)

	var buf bytes.Buffer
	Print(&buf, s)
	out := buf.String()

	assert.Contains(t, out, "Original rows")
	assert.Contains(t, out, "Sampled rows   : 2")
	assert.Contains(t, out, "Skipped rows   : 1")
	assert.Contains(t, out, "2024-01-01 ~ 2024-01-02 (2 days)")
	assert.Contains(t, out, "abababababab")
}

func TestPrintPreview(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	PrintPreview(&buf, res.Output, 5)
	out := buf.String()

	assert.Contains(t, out, "First 2 rows")
	assert.Contains(t, out, "tpep_pickup_datetime", "headers are not reformatted")
	assert.Contains(t, out, "2024-01-02 17:10:00")

	buf.Reset()
	PrintPreview(&buf, res.Output, 0)
	assert.Empty(t, buf.String())
}

func TestPrintBuckets(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	PrintBuckets(&buf, res.Plan.Buckets, 1)
	out := buf.String()

	assert.Contains(t, out, "2024-01-01T05")
	assert.NotContains(t, out, "2024-01-02T17")
}
