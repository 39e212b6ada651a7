// Package query turns dashboard filters into the prompt and output contract sent to the trend source
package query

import (
	"fmt"
	"strings"

	"trendscope/internal/core/trend"
)

// Request is what the trend source receives: free text plus the structural reply contract
type Request struct {
	Prompt string
	Schema *Schema

	Tags  []string
	Mode  trend.LogicMode
	Range trend.YearRange

	// ExpectedSeries is how many series a conforming reply carries
	ExpectedSeries int
	// Label is the merged series name requested under a logic mode
	Label string
}

// Build composes the request. Under a logic mode tags must already be the user's selection;
// an empty list yields a request with zero effective tags rather than an error
func Build(tags []string, r trend.YearRange, mode trend.LogicMode) Request {
	tags = append([]string(nil), tags...)
	req := Request{
		Schema: SeriesSchema(),
		Tags:   tags,
		Mode:   mode,
		Range:  r,
	}

	var desc, shape string
	switch {
	case len(tags) == 0:
		desc = "no tags (return an empty series array)"
		shape = "Return an empty series array."
	case mode.Merged():
		req.Label = MergedLabel(mode, tags)
		req.ExpectedSeries = 1
		desc = mergedDescription(mode, tags)
		shape = fmt.Sprintf("Return exactly one series whose tag is %q.", req.Label)
	default:
		req.ExpectedSeries = len(tags)
		desc = fmt.Sprintf("separate monthly counts for each of these tags: [%s] so they can be compared",
			strings.Join(tags, ", "))
		shape = fmt.Sprintf("Return exactly %d series, one per tag in the order listed, each labelled with its tag.",
			len(tags))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate realistic (simulated) monthly YouTube video count data from January %d to December %d for: %s.\n",
		r.Start, r.End, desc)
	b.WriteString("Return a JSON object with a 'series' array. Each series has: ")
	b.WriteString("tag (the label), ")
	b.WriteString("data (one point per month in chronological order, each with date as YYYY-MM and count as a non-negative integer), ")
	b.WriteString("peakDate (the YYYY-MM with the highest count), ")
	b.WriteString("growthPercentage (signed change from the first to the last month, e.g. \"+45%\"), ")
	b.WriteString("totalCount (the sum of all counts).\n")
	b.WriteString(shape)
	req.Prompt = b.String()
	return req
}

func mergedDescription(mode trend.LogicMode, tags []string) string {
	switch mode {
	case trend.ModeAnd:
		return fmt.Sprintf("monthly count of videos that have ALL of these tags simultaneously [%s]",
			strings.Join(tags, " AND "))
	case trend.ModeOr:
		return fmt.Sprintf("monthly count of videos that have ANY of these tags [%s] (the union of these topics)",
			strings.Join(tags, " OR "))
	default:
		return fmt.Sprintf("monthly count of videos that do NOT have any of these tags: [%s] (general trends excluding these niches)",
			strings.Join(tags, ", "))
	}
}

// MergedLabel names the single series a logic mode produces
func MergedLabel(mode trend.LogicMode, tags []string) string {
	switch mode {
	case trend.ModeAnd:
		return "Merged: " + strings.Join(tags, " & ")
	case trend.ModeOr:
		return "Merged: " + strings.Join(tags, " | ")
	case trend.ModeNot:
		return "Excluding: " + strings.Join(tags, ", ")
	default:
		return ""
	}
}
