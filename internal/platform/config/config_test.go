package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	kit "trendscope/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	core := New().Prefix("CORE_")
	if got := core.key("API_PORT"); got != "CORE_API_PORT" {
		t.Fatalf("key() = %q", got)
	}
	if got := core.Prefix("GEMINI_").key("MODEL"); got != "CORE_GEMINI_MODEL" {
		t.Fatalf("nested key() = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("CORE_GEMINI_")
	t.Setenv("CORE_GEMINI_MODEL", "  gemini-3-flash-preview ")
	if got := c.MustString("MODEL"); got != "gemini-3-flash-preview" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMustInt(t *testing.T) {
	c := New().Prefix("SVC_")
	t.Setenv("SVC_WORKERS", "  8 ")
	if got := c.MustInt("WORKERS"); got != 8 {
		t.Fatalf("MustInt = %d", got)
	}
	kit.MustPanic(t, func() { _ = c.MustInt("MISSING") })
	t.Setenv("SVC_BAD", "x")
	kit.MustPanic(t, func() { _ = c.MustInt("BAD") })
}

func TestMayScalars(t *testing.T) {
	c := New().Prefix("S_")
	t.Setenv("S_NAME", " trendscope ")
	t.Setenv("S_N", "12")
	t.Setenv("S_BADN", "twelve")
	t.Setenv("S_F", "1.5")
	t.Setenv("S_BADF", "x")
	t.Setenv("S_ON", "true")
	t.Setenv("S_BADB", "maybe")
	t.Setenv("S_D", "250ms")
	t.Setenv("S_BADD", "soon")

	if c.MayString("NAME", "x") != "trendscope" || c.MayString("NONE", "x") != "x" {
		t.Fatalf("MayString mismatch")
	}
	if c.MayInt("N", 1) != 12 || c.MayInt("BADN", 1) != 1 || c.MayInt("NONE", 3) != 3 {
		t.Fatalf("MayInt mismatch")
	}
	if c.MayFloat64("F", 0) != 1.5 || c.MayFloat64("BADF", 2) != 2 {
		t.Fatalf("MayFloat64 mismatch")
	}
	if !c.MayBool("ON", false) || !c.MayBool("BADB", true) || c.MayBool("NONE", false) {
		t.Fatalf("MayBool mismatch")
	}
	if c.MayDuration("D", 0) != 250*time.Millisecond || c.MayDuration("BADD", time.Second) != time.Second {
		t.Fatalf("MayDuration mismatch")
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CORE_API_")
	t.Setenv("CORE_API_CORS_ORIGINS", " http://a , ,http://b ")
	got := c.MayCSV("CORS_ORIGINS", nil)
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Fatalf("MayCSV = %v", got)
	}
	t.Setenv("CORE_API_CORS_ORIGINS", " , ,")
	if got := c.MayCSV("CORS_ORIGINS", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("all-empty should fall back: %v", got)
	}
}

func TestMayIntIn(t *testing.T) {
	c := New().Prefix("CORE_DASHBOARD_")
	t.Setenv("CORE_DASHBOARD_MIN_YEAR", "2010")
	t.Setenv("CORE_DASHBOARD_MAX_YEAR", "3000")
	if got := c.MayIntIn("MIN_YEAR", 2005, 1900, 2100); got != 2010 {
		t.Fatalf("in range = %d", got)
	}
	if got := c.MayIntIn("MAX_YEAR", 2025, 1900, 2100); got != 2025 {
		t.Fatalf("out of range should fall back, got %d", got)
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "test.env")
	if err := os.WriteFile(p, []byte("TS_DOTENV_A=from-file\nTS_DOTENV_B=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TS_DOTENV_B", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("TS_DOTENV_A") })

	loaded, err := LoadDotenv(filepath.Join(dir, "missing.env"), p)
	if err != nil {
		t.Fatalf("LoadDotenv: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != p {
		t.Fatalf("loaded = %v", loaded)
	}
	if os.Getenv("TS_DOTENV_A") != "from-file" {
		t.Fatalf("file value not loaded")
	}
	if os.Getenv("TS_DOTENV_B") != "from-env" {
		t.Fatalf("existing env must win")
	}
}
