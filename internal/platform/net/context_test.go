package net

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if RequestID(ctx) != "" {
		t.Fatalf("bare context should have no id")
	}
	if WithRequest(ctx, "") != ctx {
		t.Fatalf("empty id should not derive a context")
	}
	if got := RequestID(WithRequest(ctx, "req-1")); got != "req-1" {
		t.Fatalf("RequestID = %q", got)
	}
}
