package bind

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "trendscope/internal/platform/errors"
	"trendscope/internal/platform/testkit"
)

type payload struct {
	Tags  []string `json:"tags" validate:"required,min=1,dive,notblank"`
	Mode  string   `json:"mode" validate:"omitempty,oneof=NONE AND OR NOT"`
	Start int      `json:"start_year" validate:"min=2005"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestParseJSON_Success(t *testing.T) {
	got, err := ParseJSON[payload](post(`{"tags":["cats"],"mode":"AND","start_year":2020}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Tags) != 1 || got.Mode != "AND" || got.Start != 2020 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_JSONErrors(t *testing.T) {
	cases := map[string]*http.Request{
		"empty":    httptest.NewRequest(http.MethodPost, "/", http.NoBody),
		"broken":   post(`{`),
		"unknown":  post(`{"tags":["a"],"start_year":2020,"boom":1}`),
		"oversize": post(`{"tags":["` + strings.Repeat("a", 70<<10) + `"],"start_year":2020}`),
	}
	for name, req := range cases {
		_, err := ParseJSON[payload](req)
		if perr.CodeOf(err) != perr.ErrorCodeJSON {
			t.Fatalf("%s: expected JSON code, got %v (%v)", name, perr.CodeOf(err), err)
		}
	}
}

func TestParseJSON_TrailingData_Seam(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &jsonMore, func(*json.Decoder) bool { return true })

	_, err := ParseJSON[payload](post(`{"tags":["a"],"start_year":2020}`))
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON error for trailing data, got %v", err)
	}
}

func TestParseJSON_ValidationCarriesField(t *testing.T) {
	cases := []struct {
		body, field, msg string
	}{
		{`{"tags":[],"start_year":2020}`, "tags", "tags must be at least 1"},
		{`{"tags":["  "],"start_year":2020}`, "tags[0]", "tags[0] must not be blank"},
		{`{"tags":["a"],"mode":"XOR","start_year":2020}`, "mode", "mode must be one of [NONE AND OR NOT]"},
		{`{"tags":["a"],"start_year":1999}`, "start_year", "start_year must be at least 2005"},
	}
	for _, c := range cases {
		_, err := ParseJSON[payload](post(c.body))
		e, ok := perr.As(err)
		if !ok || e.Code() != perr.ErrorCodeValidation {
			t.Fatalf("%s: expected validation error, got %v", c.body, err)
		}
		if e.Field() != c.field || e.Message() != c.msg {
			t.Fatalf("%s: field=%q msg=%q", c.body, e.Field(), e.Message())
		}
	}
}

func TestParseJSON_AllowEmptyBodyStillValidates(t *testing.T) {
	type opt struct {
		Note string `json:"note"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	if _, err := ParseJSON[opt](req, JSONOptions{AllowEmptyBody: true}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	if _, err := ParseJSON[payload](req, JSONOptions{AllowEmptyBody: true}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("zero payload should fail validation, got %v", err)
	}
}

func TestJSONNameFallbacks(t *testing.T) {
	type s struct {
		A string `json:"-" validate:"required"`
		B string `validate:"required"`
	}
	err := Struct(s{B: "x"})
	if e, _ := perr.As(err); e == nil || e.Field() != "A" {
		t.Fatalf("dash tag should fall back to field name, got %v", err)
	}
	err = Struct(s{A: "x"})
	if e, _ := perr.As(err); e == nil || e.Field() != "B" {
		t.Fatalf("missing tag should fall back to field name, got %v", err)
	}
}

func TestStructNonStruct(t *testing.T) {
	if !perr.IsCode(Struct(42), perr.ErrorCodeUnknown) {
		t.Fatalf("non-struct should map to internal error")
	}
	if f, m := FieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil err should be empty")
	}
}
