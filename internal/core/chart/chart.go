// Package chart reshapes per-tag series into a date-indexed table for multi-series charts
// and serializes that table for export
package chart

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"trendscope/internal/core/trend"
)

// Axis selects how the canonical date axis is derived
type Axis int

const (
	// AxisFirst takes the first series' dates in its order. Points of later series whose
	// dates are missing from the first series are dropped
	AxisFirst Axis = iota
	// AxisUnion takes every date of every series, sorted ascending
	AxisUnion
)

// Cell is one series value on a row
type Cell struct {
	Tag   string
	Count int64
}

// Row is one canonical date with a cell per series, in series order
type Row struct {
	Date  string
	Cells []Cell
}

// Count returns the value for tag; when labels repeat, the first match wins
func (r Row) Count(tag string) (int64, bool) {
	for _, c := range r.Cells {
		if c.Tag == tag {
			return c.Count, true
		}
	}
	return 0, false
}

// MarshalJSON flattens the row to {"date": ..., "<tag>": count, ...} keeping series order.
// A label equal to "date" or to an earlier label gets a "#n" suffix so every key stays unique
func (r Row) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`{"date":`)
	d, err := json.Marshal(r.Date)
	if err != nil {
		return nil, err
	}
	b.Write(d)
	seen := make(map[string]struct{}, len(r.Cells)+1)
	seen["date"] = struct{}{}
	for _, c := range r.Cells {
		k, err := json.Marshal(uniqueKey(seen, c.Tag))
		if err != nil {
			return nil, err
		}
		b.WriteByte(',')
		b.Write(k)
		b.WriteByte(':')
		b.WriteString(strconv.FormatInt(c.Count, 10))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func uniqueKey(seen map[string]struct{}, tag string) string {
	key := tag
	for n := 2; ; n++ {
		if _, dup := seen[key]; !dup {
			break
		}
		key = tag + "#" + strconv.Itoa(n)
	}
	seen[key] = struct{}{}
	return key
}

// Rows reshapes series on the first-series axis
func Rows(series []trend.SeriesData) []Row { return RowsOn(AxisFirst, series) }

// RowsOn reshapes series on the given axis; absent points become 0
func RowsOn(axis Axis, series []trend.SeriesData) []Row {
	dates := Dates(axis, series)
	rows := make([]Row, 0, len(dates))
	for _, d := range dates {
		row := Row{Date: d, Cells: make([]Cell, len(series))}
		for i, s := range series {
			n, _ := s.CountAt(d)
			row.Cells[i] = Cell{Tag: s.Tag, Count: n}
		}
		rows = append(rows, row)
	}
	return rows
}

// Dates returns the canonical axis for series
func Dates(axis Axis, series []trend.SeriesData) []string {
	if len(series) == 0 {
		return nil
	}
	if axis == AxisFirst {
		return series[0].Dates()
	}
	seen := make(map[string]struct{})
	var out []string
	for _, s := range series {
		for _, p := range s.Data {
			if _, ok := seen[p.Date]; ok {
				continue
			}
			seen[p.Date] = struct{}{}
			out = append(out, p.Date)
		}
	}
	sort.Strings(out)
	return out
}
