package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "trendscope/internal/platform/errors"
	pnet "trendscope/internal/platform/net"
	phttp "trendscope/internal/platform/net/http"
)

func reqWithID(method, path, body, rid string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	return req.WithContext(pnet.WithRequest(req.Context(), rid))
}

func decodeEnv(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestRespondOKAndError(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.RespondOK(rec, reqWithID("GET", "/", "", "rid-1"), map[string]int{"n": 1})
	env := decodeEnv(t, rec)
	if rec.Code != 200 || env.StatusCode != 200 || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("ok envelope: %d %+v", rec.Code, env)
	}

	rec = httptest.NewRecorder()
	phttp.RespondError(rec, reqWithID("GET", "/", "", "rid-2"), perr.Validationf("end_year", "end before start"))
	env = decodeEnv(t, rec)
	if rec.Code != http.StatusBadRequest || env.Kind != "validation" || env.Field != "end_year" || env.Error != "end before start" {
		t.Fatalf("error envelope: %d %+v", rec.Code, env)
	}
}

func TestHandle_StatusesAndHeaders(t *testing.T) {
	cases := []struct {
		name string
		resp phttp.Response
		code int
	}{
		{"ok", phttp.OK("x"), 200},
		{"created", phttp.Created("x"), 201},
		{"accepted", phttp.Accepted("x"), 202},
		{"nocontent", phttp.NoContent(), 204},
		{"zero status", phttp.Response{Body: "x"}, 200},
		{"conflict", phttp.Error(perr.Conflictf("busy")), 409},
		{"upstream", phttp.Error(perr.FetchFailed(nil, "down")), 502},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		phttp.Handle(func(*http.Request) phttp.Response { return c.resp })(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != c.code {
			t.Fatalf("%s: code = %d, want %d", c.name, rec.Code, c.code)
		}
		if c.code == 204 && rec.Body.Len() != 0 {
			t.Fatalf("%s: 204 must not carry a body", c.name)
		}
	}

	rec := httptest.NewRecorder()
	h := phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Response{Status: 200, Body: "x", Header: http.Header{"X-Extra": {"1"}}}
	})
	h(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Header().Get("X-Extra") != "1" {
		t.Fatalf("custom header dropped")
	}
}

func TestHandle_Download(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Download("youtube_trends_2020_2024_NONE.csv", "text/csv; charset=utf-8", []byte("Date,\"cats\""))
	})(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != 200 || rec.Body.String() != `Date,"cats"` {
		t.Fatalf("download: %d %q", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="youtube_trends_2020_2024_NONE.csv"` {
		t.Fatalf("disposition = %q", cd)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}

	rec = httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Download("x.bin", "", nil)
	})(rec, httptest.NewRequest("GET", "/", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Fatalf("default content type = %q", ct)
	}
}

type echoIn struct {
	Tags []string `json:"tags" validate:"required,min=1"`
}

func TestJSONHandler(t *testing.T) {
	h := phttp.JSONHandler(func(_ *http.Request, in echoIn) (any, error) {
		if in.Tags[0] == "boom" {
			return nil, perr.Malformed(nil, "bad reply")
		}
		if in.Tags[0] == "made" {
			return phttp.Created(in.Tags), nil
		}
		return in.Tags, nil
	})

	cases := []struct {
		body string
		code int
		kind string
	}{
		{`{"tags":["cats"]}`, 200, ""},
		{`{"tags":["made"]}`, 201, ""},
		{`{"tags":["boom"]}`, 502, "malformed_response"},
		{`{"tags":[]}`, 400, "validation"},
		{`{"tags":`, 400, "json"},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		h(rec, reqWithID("POST", "/", c.body, "r"))
		if rec.Code != c.code {
			t.Fatalf("%s: code = %d, want %d", c.body, rec.Code, c.code)
		}
		if env := decodeEnv(t, rec); env.Kind != c.kind {
			t.Fatalf("%s: kind = %q, want %q", c.body, env.Kind, c.kind)
		}
	}
}

func TestJSONHandlerNoBody(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSONHandlerNoBody(func(*http.Request) (any, error) { return nil, perr.NotFoundf("nope") })(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != 404 {
		t.Fatalf("code = %d", rec.Code)
	}
}
