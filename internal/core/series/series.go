// Package series validates a trend source reply and parses it into the trend model.
// Nothing is coerced: a missing required field is a MalformedResponse, never a zero value
package series

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"trendscope/internal/core/trend"
	perr "trendscope/internal/platform/errors"
)

type wireReply struct {
	Series *[]wireSeries `json:"series"`
}

type wireSeries struct {
	Tag              *string      `json:"tag"`
	Data             *[]wirePoint `json:"data"`
	PeakDate         *string      `json:"peakDate"`
	GrowthPercentage *string      `json:"growthPercentage"`
	TotalCount       *json.Number `json:"totalCount"`
}

type wirePoint struct {
	Date  *string      `json:"date"`
	Count *json.Number `json:"count"`
}

// Normalize parses raw into a TrendResponse preserving series and point order
func Normalize(raw string) (trend.TrendResponse, error) {
	body := unfence(raw)
	if body == "" {
		return trend.TrendResponse{}, malformed("", "empty reply")
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	var w wireReply
	if err := dec.Decode(&w); err != nil {
		return trend.TrendResponse{}, perr.Malformed(err, "reply is not a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return trend.TrendResponse{}, malformed("", "unexpected trailing data after reply")
	}
	if w.Series == nil {
		return trend.TrendResponse{}, malformed("series", "missing series")
	}

	out := trend.TrendResponse{Series: make([]trend.SeriesData, 0, len(*w.Series))}
	for i, ws := range *w.Series {
		s, err := convertSeries(i, ws)
		if err != nil {
			return trend.TrendResponse{}, err
		}
		out.Series = append(out.Series, s)
	}
	return out, nil
}

func convertSeries(i int, ws wireSeries) (trend.SeriesData, error) {
	at := func(f string) string { return fmt.Sprintf("series[%d].%s", i, f) }

	switch {
	case ws.Tag == nil:
		return trend.SeriesData{}, malformed(at("tag"), "missing tag")
	case ws.Data == nil:
		return trend.SeriesData{}, malformed(at("data"), "missing data")
	case ws.PeakDate == nil:
		return trend.SeriesData{}, malformed(at("peakDate"), "missing peakDate")
	case ws.GrowthPercentage == nil:
		return trend.SeriesData{}, malformed(at("growthPercentage"), "missing growthPercentage")
	case ws.TotalCount == nil:
		return trend.SeriesData{}, malformed(at("totalCount"), "missing totalCount")
	}

	total, err := count(*ws.TotalCount)
	if err != nil {
		return trend.SeriesData{}, perr.WithField(perr.Malformed(err, "invalid totalCount"), at("totalCount"))
	}

	s := trend.SeriesData{
		Tag:              *ws.Tag,
		PeakDate:         *ws.PeakDate,
		GrowthPercentage: *ws.GrowthPercentage,
		TotalCount:       total,
		Data:             make([]trend.DataPoint, 0, len(*ws.Data)),
	}
	for j, wp := range *ws.Data {
		pt := fmt.Sprintf("data[%d]", j)
		if wp.Date == nil {
			return trend.SeriesData{}, malformed(at(pt+".date"), "missing date")
		}
		if wp.Count == nil {
			return trend.SeriesData{}, malformed(at(pt+".count"), "missing count")
		}
		c, err := count(*wp.Count)
		if err != nil {
			return trend.SeriesData{}, perr.WithField(perr.Malformed(err, "invalid count"), at(pt+".count"))
		}
		s.Data = append(s.Data, trend.DataPoint{Date: *wp.Date, Count: c})
	}
	return s, nil
}

// count accepts integers and integral floats such as 12.0; fractions, negatives and values past int64 are rejected
func count(n json.Number) (int64, error) {
	if v, err := n.Int64(); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("negative value %d", v)
		}
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f < 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, fmt.Errorf("not a non-negative integer: %s", n.String())
	}
	return int64(f), nil
}

// unfence strips surrounding whitespace and a markdown code fence, if present
func unfence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		if lang := strings.TrimSpace(s[:nl]); !strings.ContainsAny(lang, "{[") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func malformed(field, msg string) error {
	return perr.WithField(perr.New(perr.ErrorCodeMalformedResponse, msg), field)
}
