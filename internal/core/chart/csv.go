package chart

import (
	"fmt"
	"strconv"
	"strings"

	"trendscope/internal/core/trend"
)

// CSV renders series as `Date,"<tag>",...` followed by one line per first-series date.
// Header tags are wrapped in quotes without escaping; lines are joined by \n with no trailing newline
func CSV(series []trend.SeriesData) string { return CSVOn(AxisFirst, series) }

// CSVOn is CSV on an explicit axis
func CSVOn(axis Axis, series []trend.SeriesData) string {
	var b strings.Builder
	b.WriteString("Date")
	for _, s := range series {
		b.WriteString(`,"`)
		b.WriteString(s.Tag)
		b.WriteByte('"')
	}
	for _, row := range RowsOn(axis, series) {
		b.WriteByte('\n')
		b.WriteString(row.Date)
		for _, c := range row.Cells {
			b.WriteByte(',')
			b.WriteString(strconv.FormatInt(c.Count, 10))
		}
	}
	return b.String()
}

// ExportFilename names the download for the current filters, e.g. youtube_trends_2020_2024_NONE.csv
func ExportFilename(r trend.YearRange, mode trend.LogicMode) string {
	return fmt.Sprintf("youtube_trends_%d_%d_%s.csv", r.Start, r.End, string(mode))
}
