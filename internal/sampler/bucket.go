package sampler

import (
	"fmt"
	"time"
)

// BucketKey identifies one (calendar date, hour-of-day) stratum.
// Date is midnight UTC of the pickup's wall-clock date.
type BucketKey struct {
	Date time.Time
	Hour int
}

// KeyOf derives the bucket of a pickup timestamp from its own wall clock.
func KeyOf(t time.Time) BucketKey {
	y, m, d := t.Date()
	return BucketKey{
		Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Hour: t.Hour(),
	}
}

// String returns "2006-01-02T15"
func (k BucketKey) String() string {
	return fmt.Sprintf("%sT%02d", k.Date.Format(time.DateOnly), k.Hour)
}

// Before reports whether k sorts before o in (date, hour) order.
func (k BucketKey) Before(o BucketKey) bool {
	if !k.Date.Equal(o.Date) {
		return k.Date.Before(o.Date)
	}
	return k.Hour < o.Hour
}

// Group partitions row positions by bucket, keeping input order within a bucket.
func Group(keys []BucketKey) map[BucketKey][]int {
	groups := make(map[BucketKey][]int)
	for i, k := range keys {
		groups[k] = append(groups[k], i)
	}
	return groups
}

// Span returns the first and last pickup dates. ok is false for no keys.
func Span(keys []BucketKey) (first, last time.Time, ok bool) {
	if len(keys) == 0 {
		return time.Time{}, time.Time{}, false
	}

	first, last = keys[0].Date, keys[0].Date
	for _, k := range keys[1:] {
		if k.Date.Before(first) {
			first = k.Date
		}
		if k.Date.After(last) {
			last = k.Date
		}
	}
	return first, last, true
}

// EachBucket visits every (date, hour) from first to last date inclusive, hours 0-23,
// whether or not any record falls in it.
func EachBucket(first, last time.Time, fn func(BucketKey) error) error {
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		for hour := 0; hour < 24; hour++ {
			if err := fn(BucketKey{Date: day, Hour: hour}); err != nil {
				return err
			}
		}
	}
	return nil
}
