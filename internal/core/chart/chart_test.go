package chart

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"trendscope/internal/core/trend"
)

func catsDogs() []trend.SeriesData {
	return []trend.SeriesData{
		{Tag: "cats", Data: []trend.DataPoint{{Date: "2023-01", Count: 10}, {Date: "2023-02", Count: 20}}},
		{Tag: "dogs", Data: []trend.DataPoint{{Date: "2023-01", Count: 5}, {Date: "2023-02", Count: 8}}},
	}
}

func TestRows_CatsDogs(t *testing.T) {
	t.Parallel()
	rows := Rows(catsDogs())
	want := []Row{
		{Date: "2023-01", Cells: []Cell{{"cats", 10}, {"dogs", 5}}},
		{Date: "2023-02", Cells: []Cell{{"cats", 20}, {"dogs", 8}}},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("Rows mismatch\n got %+v\nwant %+v", rows, want)
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(raw); got != `[{"date":"2023-01","cats":10,"dogs":5},{"date":"2023-02","cats":20,"dogs":8}]` {
		t.Fatalf("json = %s", got)
	}
}

func TestRow_MarshalJSON_UniqueKeys(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		row  Row
		want string
	}{
		{"date label", Row{Date: "2023-01", Cells: []Cell{{"date", 3}}}, `{"date":"2023-01","date#2":3}`},
		{"repeated label", Row{Date: "2023-01", Cells: []Cell{{"cats", 1}, {"cats", 2}, {"cats", 4}}}, `{"date":"2023-01","cats":1,"cats#2":2,"cats#3":4}`},
		{"suffix already taken", Row{Date: "2023-01", Cells: []Cell{{"a#2", 1}, {"a", 2}, {"a", 3}}}, `{"date":"2023-01","a#2":1,"a":2,"a#3":3}`},
	}
	for _, c := range cases {
		raw, err := json.Marshal(c.row)
		if err != nil {
			t.Fatalf("%s: marshal: %v", c.name, err)
		}
		if string(raw) != c.want {
			t.Fatalf("%s: json = %s, want %s", c.name, raw, c.want)
		}
	}
}

func TestRows_Deterministic(t *testing.T) {
	t.Parallel()
	a, b := Rows(catsDogs()), Rows(catsDogs())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("Rows is not deterministic")
	}
}

func TestRows_FirstSeriesAnchorsAxis(t *testing.T) {
	t.Parallel()
	s := catsDogs()
	s[1].Data = append(s[1].Data, trend.DataPoint{Date: "2023-03", Count: 99})

	for _, r := range Rows(s) {
		if r.Date == "2023-03" {
			t.Fatalf("date absent from the first series must not appear: %+v", r)
		}
	}
	if strings.Contains(CSV(s), "2023-03") {
		t.Fatalf("CSV must not contain 2023-03:\n%s", CSV(s))
	}

	union := RowsOn(AxisUnion, s)
	if len(union) != 3 || union[2].Date != "2023-03" {
		t.Fatalf("union axis should add 2023-03: %+v", union)
	}
	if n, _ := union[2].Count("cats"); n != 0 {
		t.Fatalf("missing cats point should be 0, got %d", n)
	}
}

func TestRows_MissingPointIsZero(t *testing.T) {
	t.Parallel()
	s := catsDogs()
	s[1].Data = s[1].Data[:1]
	rows := Rows(s)
	if n, ok := rows[1].Count("dogs"); !ok || n != 0 {
		t.Fatalf("expected dogs=0 on 2023-02, got %d,%v", n, ok)
	}
}

func TestRows_Empty(t *testing.T) {
	t.Parallel()
	if rows := Rows(nil); len(rows) != 0 {
		t.Fatalf("expected no rows, got %v", rows)
	}
	if got := CSV(nil); got != "Date" {
		t.Fatalf("CSV(nil) = %q", got)
	}
	if d := Dates(AxisUnion, nil); d != nil {
		t.Fatalf("Dates(nil) = %v", d)
	}
}

func TestCSV_CatsDogs(t *testing.T) {
	t.Parallel()
	want := "Date,\"cats\",\"dogs\"\n2023-01,10,5\n2023-02,20,8"
	if got := CSV(catsDogs()); got != want {
		t.Fatalf("CSV mismatch\n got %q\nwant %q", got, want)
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	t.Parallel()
	s := []trend.SeriesData{
		{Tag: "a", Data: []trend.DataPoint{{Date: "2020-01", Count: 1}, {Date: "2020-02", Count: 0}, {Date: "2020-03", Count: 1234567}}},
		{Tag: "b", Data: []trend.DataPoint{{Date: "2020-03", Count: 7}, {Date: "2020-01", Count: 3}}},
		{Tag: "c"},
	}
	out := CSV(s)
	if out != CSV(s) {
		t.Fatalf("CSV must be byte-stable")
	}

	lines := strings.Split(out, "\n")
	header := strings.Split(lines[0], ",")
	if len(header) != 4 || header[1] != `"a"` || header[3] != `"c"` {
		t.Fatalf("header = %v", header)
	}
	for li, line := range lines[1:] {
		cells := strings.Split(line, ",")
		date := cells[0]
		if date != s[0].Data[li].Date {
			t.Fatalf("line %d date %q, want %q", li, date, s[0].Data[li].Date)
		}
		for si := range s {
			got, err := strconv.ParseInt(cells[si+1], 10, 64)
			if err != nil {
				t.Fatalf("cell parse: %v", err)
			}
			want, _ := s[si].CountAt(date)
			if got != want {
				t.Fatalf("series %q at %s = %d, want %d", s[si].Tag, date, got, want)
			}
		}
	}
}

func TestCSV_QuoteNotEscaped(t *testing.T) {
	t.Parallel()
	s := []trend.SeriesData{{Tag: `say "hi"`, Data: []trend.DataPoint{{Date: "2023-01", Count: 1}}}}
	if got := CSV(s); got != "Date,\"say \"hi\"\"\n2023-01,1" {
		t.Fatalf("CSV = %q", got)
	}
}

func TestExportFilename(t *testing.T) {
	t.Parallel()
	got := ExportFilename(trend.YearRange{Start: 2020, End: 2024}, trend.ModeAnd)
	if got != "youtube_trends_2020_2024_AND.csv" {
		t.Fatalf("ExportFilename = %q", got)
	}
}
