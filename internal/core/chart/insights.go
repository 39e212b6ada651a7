package chart

import (
	"math"
	"math/big"
	"strconv"

	"trendscope/internal/core/trend"
)

// Palette is the series color cycle used by the dashboard
var Palette = []string{"#3b82f6", "#8b5cf6", "#10b981", "#f43f5e", "#f59e0b"}

// Color returns the palette entry for the i-th series
func Color(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// Insight is the summary card shown per series
type Insight struct {
	Tag              string `json:"tag"`
	PeakDate         string `json:"peak_date"`
	PeakListed       bool   `json:"peak_listed"`
	GrowthPercentage string `json:"growth_percentage"`
	TotalCount       int64  `json:"total_count"`
	TotalDisplay     string `json:"total_display"`
	Color            string `json:"color"`
}

// Insights derives one card per series, in series order
func Insights(series []trend.SeriesData) []Insight {
	out := make([]Insight, len(series))
	for i, s := range series {
		out[i] = Insight{
			Tag:              s.Tag,
			PeakDate:         s.PeakDate,
			PeakListed:       s.PeakListed(),
			GrowthPercentage: s.GrowthPercentage,
			TotalCount:       s.TotalCount,
			TotalDisplay:     FormatCount(s.TotalCount),
			Color:            Color(i),
		}
	}
	return out
}

// FormatCount abbreviates n: millions with one decimal (1.2M), thousands rounded (45k), otherwise plain.
// Both round the float64 quotient itself with ties going up, so 1_450_000 is 1.4M and 1_250_000 is 1.3M
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return oneDecimal(float64(n)/1_000_000) + "M"
	case n >= 1_000:
		return strconv.FormatInt(int64(math.Round(float64(n)/1_000)), 10) + "k"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// oneDecimal rounds the exact binary value of x >= 0 to one decimal, halves up
func oneDecimal(x float64) string {
	tenths := new(big.Float).SetPrec(256).SetFloat64(x)
	tenths.Mul(tenths, big.NewFloat(10))
	whole, _ := tenths.Int(nil)
	rest := new(big.Float).SetPrec(256).Sub(tenths, new(big.Float).SetInt(whole))
	if rest.Cmp(big.NewFloat(0.5)) >= 0 {
		whole.Add(whole, big.NewInt(1))
	}
	m := whole.Int64()
	return strconv.FormatInt(m/10, 10) + "." + strconv.FormatInt(m%10, 10)
}
