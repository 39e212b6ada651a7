// Package trend holds the data model shared by the query builder, the series
// normalizer and the presentation adapter
package trend

import (
	"strings"
)

// LogicMode governs whether tags are queried independently or merged into one series
type LogicMode string

// Logic modes accepted by the dashboard
const (
	ModeNone LogicMode = "NONE"
	ModeAnd  LogicMode = "AND"
	ModeOr   LogicMode = "OR"
	ModeNot  LogicMode = "NOT"
)

// Modes lists every logic mode in dashboard order
var Modes = []LogicMode{ModeNone, ModeAnd, ModeOr, ModeNot}

// ParseMode accepts any casing; empty input means NONE
func ParseMode(s string) (LogicMode, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ModeNone, true
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Merged reports whether the mode collapses the selected tags into one series
func (m LogicMode) Merged() bool { return m == ModeAnd || m == ModeOr || m == ModeNot }

// Slug is the lowercase form used in metric labels
func (m LogicMode) Slug() string { return strings.ToLower(string(m)) }

// YearRange is an inclusive span of calendar years
type YearRange struct {
	Start int `json:"start_year"`
	End   int `json:"end_year"`
}

// Ordered reports Start < End
func (r YearRange) Ordered() bool { return r.Start < r.End }

// Within reports whether both ends fall inside [lo, hi]
func (r YearRange) Within(lo, hi int) bool {
	return r.Start >= lo && r.End <= hi
}

// Months is the number of monthly points the range spans
func (r YearRange) Months() int {
	if !r.Ordered() {
		return 0
	}
	return (r.End - r.Start + 1) * 12
}

// DataPoint is one monthly count; Date is "YYYY-MM"
type DataPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// SeriesData is one named sequence of monthly counts, either a single tag or a merged query
type SeriesData struct {
	Tag              string      `json:"tag"`
	Data             []DataPoint `json:"data"`
	PeakDate         string      `json:"peakDate"`
	GrowthPercentage string      `json:"growthPercentage"`
	TotalCount       int64       `json:"totalCount"`
}

// CountAt returns the count recorded for date by linear scan; exact string match only
func (s SeriesData) CountAt(date string) (int64, bool) {
	for _, p := range s.Data {
		if p.Date == date {
			return p.Count, true
		}
	}
	return 0, false
}

// Dates returns the point dates in series order
func (s SeriesData) Dates() []string {
	out := make([]string, len(s.Data))
	for i, p := range s.Data {
		out[i] = p.Date
	}
	return out
}

// PeakListed reports whether PeakDate names a point in Data. Empty data is vacuously consistent
func (s SeriesData) PeakListed() bool {
	if len(s.Data) == 0 {
		return true
	}
	_, ok := s.CountAt(s.PeakDate)
	return ok
}

// TrendResponse is the normalized reply of one query; replaced wholesale, never merged
type TrendResponse struct {
	Series []SeriesData `json:"series"`
}

// Labels returns the series labels in order
func (r TrendResponse) Labels() []string {
	out := make([]string, len(r.Series))
	for i, s := range r.Series {
		out[i] = s.Tag
	}
	return out
}
