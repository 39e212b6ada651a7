package series

import (
	"fmt"
	"regexp"

	"trendscope/internal/core/trend"
)

var monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Warning is a contract deviation that is tolerated but worth logging
type Warning struct {
	Series int    `json:"series"`
	Tag    string `json:"tag"`
	Issue  string `json:"issue"`
}

func (w Warning) String() string { return fmt.Sprintf("series[%d] %q: %s", w.Series, w.Tag, w.Issue) }

// Check reports tolerated deviations: peak dates missing from data, dates not shaped YYYY-MM,
// points out of chronological order, and a series count differing from expected (skipped when expected < 0)
func Check(r trend.TrendResponse, expected int) []Warning {
	var out []Warning
	if expected >= 0 && len(r.Series) != expected {
		out = append(out, Warning{Series: -1, Issue: fmt.Sprintf("expected %d series, got %d", expected, len(r.Series))})
	}
	for i, s := range r.Series {
		add := func(format string, a ...any) {
			out = append(out, Warning{Series: i, Tag: s.Tag, Issue: fmt.Sprintf(format, a...)})
		}
		if !s.PeakListed() {
			add("peakDate %q not present in data", s.PeakDate)
		}
		prev := ""
		for _, p := range s.Data {
			if !monthRe.MatchString(p.Date) {
				add("date %q is not YYYY-MM", p.Date)
				continue
			}
			if prev != "" && p.Date <= prev {
				add("date %q out of order after %q", p.Date, prev)
			}
			prev = p.Date
		}
	}
	return out
}
