// Package aggregate groups already fetched ticket, booking and click records
// into calendar buckets and rankings for the analytics, sales and summary views.
//
// Everything here is pure: the same input always yields the same output.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// ParsePeriod maps the query value onto a period, daily when unknown.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case Weekly, Monthly:
		return Period(s)
	}
	return Daily
}

// Record is one revenue-bearing item to aggregate.
type Record struct {
	At         time.Time
	Label      string
	Revenue    decimal.Decimal
	Commission decimal.Decimal
}

type Bucket struct {
	Key        string          `json:"key"`
	Count      int             `json:"count"`
	Revenue    decimal.Decimal `json:"revenue"`
	Commission decimal.Decimal `json:"commission"`
}

type Totals struct {
	Count      int             `json:"count"`
	Revenue    decimal.Decimal `json:"revenue"`
	Commission decimal.Decimal `json:"commission"`
}

type Ranked struct {
	Label   string          `json:"label"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Report struct {
	Period  Period   `json:"period"`
	Buckets []Bucket `json:"buckets"`
	Totals  Totals   `json:"totals"`
	Top     []Ranked `json:"top"`
}

// BucketKey derives the bucket key of t in loc:
// 2006-01-02 for days, ISO 2006-W01 for weeks, 2006-01 for months.
func BucketKey(t time.Time, p Period, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	switch p {
	case Weekly:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case Monthly:
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// Group accumulates records per bucket in a single pass and returns buckets sorted ascending by key.
func Group(records []Record, p Period, loc *time.Location) []Bucket {
	index := make(map[string]int)
	buckets := []Bucket{}

	for _, r := range records {
		key := BucketKey(r.At, p, loc)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key})
		}
		buckets[i].Count++
		buckets[i].Revenue = buckets[i].Revenue.Add(r.Revenue)
		buckets[i].Commission = buckets[i].Commission.Add(r.Commission)
	}

	sort.Slice(buckets, func(a, b int) bool { return buckets[a].Key < buckets[b].Key })
	return buckets
}

func Sum(buckets []Bucket) Totals {
	var t Totals
	for _, b := range buckets {
		t.Count += b.Count
		t.Revenue = t.Revenue.Add(b.Revenue)
		t.Commission = t.Commission.Add(b.Commission)
	}
	return t
}

// TopByRevenue ranks labels by summed revenue, descending.
// Ties keep the order in which labels were first encountered. n <= 0 returns all.
func TopByRevenue(records []Record, n int) []Ranked {
	ranked := rank(records)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Revenue.GreaterThan(ranked[b].Revenue)
	})
	return limit(ranked, n)
}

// TopByCount ranks labels by number of records, descending, ties in encounter order.
func TopByCount(records []Record, n int) []Ranked {
	ranked := rank(records)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Count > ranked[b].Count
	})
	return limit(ranked, n)
}

func rank(records []Record) []Ranked {
	index := make(map[string]int)
	ranked := []Ranked{}
	for _, r := range records {
		i, ok := index[r.Label]
		if !ok {
			i = len(ranked)
			index[r.Label] = i
			ranked = append(ranked, Ranked{Label: r.Label})
		}
		ranked[i].Count++
		ranked[i].Revenue = ranked[i].Revenue.Add(r.Revenue)
	}
	return ranked
}

func limit(ranked []Ranked, n int) []Ranked {
	if n > 0 && len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}

// Build runs the full report for one period.
func Build(records []Record, p Period, loc *time.Location, topN int) Report {
	buckets := Group(records, p, loc)
	return Report{
		Period:  p,
		Buckets: buckets,
		Totals:  Sum(buckets),
		Top:     TopByRevenue(records, topN),
	}
}
