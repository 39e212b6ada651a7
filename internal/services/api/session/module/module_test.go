package module

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trendscope/internal/core/trend"
	"trendscope/internal/modkit"
	"trendscope/internal/modkit/module"
	"trendscope/internal/platform/config"
	phttp "trendscope/internal/platform/net/http"
	"trendscope/internal/services/api/session/domain"
	trendsdom "trendscope/internal/services/api/trends/domain"

	"github.com/go-chi/chi/v5"
)

type stubFetcher struct{ err error }

func (f stubFetcher) Fetch(_ context.Context, tags []string, r trend.YearRange, mode trend.LogicMode) (trendsdom.QueryResult, error) {
	if f.err != nil {
		return trendsdom.QueryResult{}, f.err
	}
	series := make([]trend.SeriesData, 0, len(tags))
	for i, tag := range tags {
		series = append(series, trend.SeriesData{
			Tag:              tag,
			Data:             []trend.DataPoint{{Date: "2021-01", Count: int64(10 * (i + 1))}},
			PeakDate:         "2021-01",
			GrowthPercentage: "0%",
			TotalCount:       int64(10 * (i + 1)),
		})
	}
	return trendsdom.QueryResult{QueryID: "q1", Mode: mode, StartYear: r.Start, EndYear: r.End, Series: series}, nil
}

func mount(t *testing.T, f trendsdom.Fetcher) (modkit.Module, http.Handler) {
	t.Helper()
	m := New(modkit.Deps{Cfg: config.New()}, modkit.WithPorts(Ports{Fetcher: f}))
	t.Cleanup(m.(*Module).Close)
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	return m, mux
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Kind  string          `json:"kind"`
	Field string          `json:"field"`
	Data  json.RawMessage `json:"data"`
}

func view(t *testing.T, rec *httptest.ResponseRecorder) domain.View {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	var v domain.View
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("view %q: %v", env.Data, err)
	}
	return v
}

func kind(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestSessionFlow(t *testing.T) {
	_, h := mount(t, stubFetcher{})

	v := view(t, do(h, http.MethodGet, "/session", ""))
	if len(v.Tags) != 0 || v.CanSubmit || v.SubmitHint == "" {
		t.Fatalf("fresh view = %+v", v)
	}

	do(h, http.MethodPost, "/session/tags", `{"tag":"Cats"}`)
	v = view(t, do(h, http.MethodPost, "/session/tags", `{"tag":"dogs"}`))
	if strings.Join(v.Tags, ",") != "cats,dogs" || !v.CanSubmit {
		t.Fatalf("after add = %+v", v)
	}

	v = view(t, do(h, http.MethodPut, "/session/mode", `{"mode":"AND"}`))
	if v.CanSubmit {
		t.Fatalf("AND without selection must not be submittable")
	}
	v = view(t, do(h, http.MethodPost, "/session/select", `{"tag":"dogs"}`))
	if strings.Join(v.SelectedTags, ",") != "dogs" || !v.CanSubmit {
		t.Fatalf("after select = %+v", v)
	}

	rec := do(h, http.MethodPost, "/session/submit?wait=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("submit = %d %s", rec.Code, rec.Body.String())
	}
	v = view(t, rec)
	if v.Loading || v.Result == nil || len(v.Result.Series) != 1 || v.Result.Series[0].Tag != "dogs" {
		t.Fatalf("settled view = %+v", v)
	}

	rec = do(h, http.MethodGet, "/session/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "youtube_trends_2020_2024_AND.csv") {
		t.Fatalf("disposition = %q", cd)
	}

	v = view(t, do(h, http.MethodDelete, "/session/tags/dogs", ""))
	if strings.Join(v.Tags, ",") != "cats" || len(v.SelectedTags) != 0 {
		t.Fatalf("after remove = %+v", v)
	}

	v = view(t, do(h, http.MethodPost, "/session/reset", ""))
	if len(v.Tags) != 0 || v.Result != nil || v.Mode != trend.ModeNone {
		t.Fatalf("after reset = %+v", v)
	}
}

func TestSessionErrors(t *testing.T) {
	_, h := mount(t, stubFetcher{err: errors.New("source down")})

	cases := []struct {
		name, method, path, body string
		code                     int
		kind                     string
	}{
		{"submit without tags", http.MethodPost, "/session/submit", "", 400, "validation"},
		{"unknown mode", http.MethodPut, "/session/mode", `{"mode":"XOR"}`, 400, "validation"},
		{"unordered range", http.MethodPut, "/session/range", `{"start_year":2024,"end_year":2020}`, 400, "validation"},
		{"range out of bounds", http.MethodPut, "/session/range", `{"start_year":1990,"end_year":2020}`, 400, "validation"},
		{"blank tag", http.MethodPost, "/session/tags", `{"tag":"  "}`, 400, "validation"},
		{"export without result", http.MethodGet, "/session/export", "", 404, "not_found"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := do(h, c.method, c.path, c.body)
			if env := kind(t, rec); rec.Code != c.code || env.Kind != c.kind {
				t.Fatalf("got %d %+v", rec.Code, env)
			}
		})
	}
}

func TestSubmitFailureShowsBanner(t *testing.T) {
	_, h := mount(t, stubFetcher{err: errors.New("source down")})
	do(h, http.MethodPost, "/session/tags", `{"tag":"cats"}`)

	v := view(t, do(h, http.MethodPost, "/session/submit?wait=1", ""))
	if v.Loading || v.Error == nil || v.Result != nil {
		t.Fatalf("failed view = %+v", v)
	}

	v = view(t, do(h, http.MethodPost, "/session/error/clear", ""))
	if v.Error != nil {
		t.Fatalf("banner not cleared: %+v", v.Error)
	}
}

func TestSubmitWithoutWaitAnswersAccepted(t *testing.T) {
	m, h := mount(t, stubFetcher{})
	do(h, http.MethodPost, "/session/tags", `{"tag":"cats"}`)

	rec := do(h, http.MethodPost, "/session/submit", "")
	if rec.Code != http.StatusAccepted || !view(t, rec).Loading {
		t.Fatalf("submit = %d %s", rec.Code, rec.Body.String())
	}

	port := module.MustPortsOf[domain.ServicePort](m)
	v, err := port.Wait(context.Background())
	if err != nil || v.Loading || v.Result == nil {
		t.Fatalf("wait = %+v %v", v, err)
	}
	if m.Name() != "session" || m.(*Module).Prefix() != "/session" {
		t.Fatalf("name/prefix = %q %q", m.Name(), m.(*Module).Prefix())
	}
}

func TestNew_RequiresFetcher(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic without fetcher")
		}
	}()
	New(modkit.Deps{})
}
