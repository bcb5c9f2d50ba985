package analytics

import (
	"fmt"
	"time"
)

// Bucket is a half-open time interval [Start, End) used to partition the order
// log for aggregation. Buckets of one scheme never overlap and leave no gaps.
type Bucket struct {
	Start time.Time
	End   time.Time
	Label string
}

// dayStart truncates t to local midnight.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// LastNDays returns n day buckets ending with the day containing ref.
// Buckets are ordered most-recent-first; callers that want a chronological
// series must reverse. Labels are ISO dates.
func LastNDays(ref time.Time, n int) []Bucket {
	buckets := make([]Bucket, 0, n)
	for i := 0; i < n; i++ {
		start := dayStart(ref.AddDate(0, 0, -i))
		buckets = append(buckets, Bucket{
			Start: start,
			End:   start.AddDate(0, 0, 1),
			Label: start.Format("2006-01-02"),
		})
	}
	return buckets
}

// CurrentWeek returns the 7 day buckets of the week containing ref, always in
// Monday through Sunday order regardless of which weekday ref falls on.
// Labels are weekday names.
func CurrentWeek(ref time.Time) []Bucket {
	// time.Weekday is Sunday-based; shift so Monday has index 0.
	offset := (int(ref.Weekday()) + 6) % 7
	monday := dayStart(ref.AddDate(0, 0, -offset))

	buckets := make([]Bucket, 0, 7)
	for i := 0; i < 7; i++ {
		start := monday.AddDate(0, 0, i)
		buckets = append(buckets, Bucket{
			Start: start,
			End:   start.AddDate(0, 0, 1),
			Label: start.Weekday().String(),
		})
	}
	return buckets
}

// TrailingMonths returns n calendar month buckets ending with the month
// containing ref, most-recent-first. Labels are "month-year" with a 1-indexed
// month, e.g. "9-2026".
func TrailingMonths(ref time.Time, n int) []Bucket {
	buckets := make([]Bucket, 0, n)
	for i := 0; i < n; i++ {
		first := time.Date(ref.Year(), ref.Month()-time.Month(i), 1, 0, 0, 0, 0, ref.Location())
		buckets = append(buckets, Bucket{
			Start: first,
			End:   first.AddDate(0, 1, 0),
			Label: fmt.Sprintf("%d-%d", int(first.Month()), first.Year()),
		})
	}
	return buckets
}

// DayRange expands an inclusive [start, end] date range into one bucket per
// calendar day, in chronological order. Both dates are normalized to local
// midnight. A range with end before start yields an empty slice rather than
// an error. Labels use the storefront's dd/MM/yyyy display format.
func DayRange(start, end time.Time) []Bucket {
	from := dayStart(start)
	to := dayStart(end)

	var buckets []Bucket
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		buckets = append(buckets, Bucket{
			Start: day,
			End:   day.AddDate(0, 0, 1),
			Label: day.Format("02/01/2006"),
		})
	}
	return buckets
}
