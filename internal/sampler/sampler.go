// Package sampler draws a stratified sample of trip records by pickup (date, hour).
//
// Every calendar date between the first and last pickup is visited, hours 0-23 in order.
// Each non-empty bucket contributes min(size, population) records drawn without
// replacement, and the per-bucket samples are concatenated in bucket order.
package sampler

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/wonny/tripsampler/internal/table"
	"github.com/wonny/tripsampler/internal/timeparse"
)

// BucketStat describes one non-empty bucket of a plan.
type BucketStat struct {
	Key        BucketKey
	Population int
	Drawn      int
}

// Plan is the outcome of sampling a set of bucket keys.
type Plan struct {
	// Indices are positions into the keys slice, in output order.
	Indices []int

	// Buckets lists the non-empty buckets in visiting order.
	Buckets []BucketStat

	First        time.Time
	Last         time.Time
	Days         int
	EmptyBuckets int
}

// BuildPlan visits every bucket of the keys' date span and draws from the non-empty ones.
// It reads nothing but keys and opts, so the same input always yields the same plan.
func BuildPlan(ctx context.Context, keys []BucketKey, opts Options) (*Plan, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	plan := &Plan{Indices: []int{}}
	first, last, ok := Span(keys)
	if !ok {
		return plan, nil
	}
	plan.First, plan.Last = first, last

	groups := Group(keys)
	rngFor := opts.generatorFor()

	err := EachBucket(first, last, func(k BucketKey) error {
		if k.Hour == 0 {
			plan.Days++
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		population := groups[k]
		if len(population) == 0 {
			plan.EmptyBuckets++
			return nil
		}

		n := min(opts.Size, len(population))
		plan.Indices = append(plan.Indices, draw(rngFor(k), population, n)...)
		plan.Buckets = append(plan.Buckets, BucketStat{Key: k, Population: len(population), Drawn: n})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// draw picks n of population without replacement (partial Fisher-Yates).
// The returned slice is in draw order; population is not modified.
func draw(rng *rand.Rand, population []int, n int) []int {
	pool := make([]int, len(population))
	copy(pool, population)

	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// SkippedRow is a record dropped under MalformedSkip.
type SkippedRow struct {
	Row   int
	Value string
}

// Result is the outcome of Sample.
type Result struct {
	Output    *table.Table
	Plan      *Plan
	InputRows int
	Skipped   []SkippedRow
}

// Sample parses the pickup column of t once per record, buckets the records and returns
// a new table holding the stratified sample. t is not modified.
func Sample(ctx context.Context, t *table.Table, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	values, ok := t.Column(opts.Column)
	if !ok {
		return nil, &MissingFieldError{Column: opts.Column, Available: t.Columns}
	}

	parser := opts.Parser
	if parser == nil {
		parser = timeparse.Default()
	}

	keys, rows, skipped, err := bucketKeys(values, parser, opts.Malformed)
	if err != nil {
		return nil, err
	}

	plan, err := BuildPlan(ctx, keys, opts)
	if err != nil {
		return nil, fmt.Errorf("build plan: %w", err)
	}

	// plan indices point into keys; map them back to record positions
	selected := make([]int, len(plan.Indices))
	for i, k := range plan.Indices {
		selected[i] = rows[k]
	}

	return &Result{
		Output:    t.Take(selected),
		Plan:      plan,
		InputRows: t.Len(),
		Skipped:   skipped,
	}, nil
}

// bucketKeys parses every value once. rows[i] is the record position of keys[i].
func bucketKeys(values []string, parser *timeparse.Parser, policy MalformedPolicy) ([]BucketKey, []int, []SkippedRow, error) {
	keys := make([]BucketKey, 0, len(values))
	rows := make([]int, 0, len(values))
	var skipped []SkippedRow

	for i, v := range values {
		ts, err := parser.Parse(v)
		if err != nil {
			if policy == MalformedSkip {
				skipped = append(skipped, SkippedRow{Row: i, Value: v})
				continue
			}
			return nil, nil, nil, &MalformedTimestampError{Row: i, Value: v, Err: err}
		}
		keys = append(keys, KeyOf(ts))
		rows = append(rows, i)
	}

	return keys, rows, skipped, nil
}
