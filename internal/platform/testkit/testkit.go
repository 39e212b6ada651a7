// Package testkit provides testing helpers shared across packages
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var seamMu sync.Mutex

// Swap replaces *target for the duration of the test; Cleanup restores the original
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial holds a process-wide lock until the test ends. Use it in tests that swap
// package-level seams other packages also read
func Serial(t *testing.T) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(seamMu.Unlock)
}

// MustPanic fails the test unless fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustContain fails unless haystack contains needle. Long output is written to a temp file
// so the failure message stays readable
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return
	}
	if len(haystack) <= 512 {
		t.Fatalf("expected %q in:\n%s", needle, haystack)
	}
	out := filepath.Join(t.TempDir(), "output.txt")
	_ = os.WriteFile(out, []byte(haystack), 0o600)
	t.Fatalf("expected %q in output (%d bytes) written to %s", needle, len(haystack), out)
}
