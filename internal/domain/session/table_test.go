package session

import (
	"strings"
	"testing"
)

func TestAllocateDistinctPerWindow(t *testing.T) {
	tbl := NewTable()

	a := tbl.Allocate("win_a")
	b := tbl.Allocate("win_b")
	if a == b {
		t.Fatal("windows must not share sessions")
	}
	if !strings.HasPrefix(a, "bsess_") {
		t.Errorf("unexpected session id format: %s", a)
	}
}

func TestAllocateIdempotentPerWindow(t *testing.T) {
	tbl := NewTable()

	first := tbl.Allocate("win_a")
	second := tbl.Allocate("win_a")
	if first != second {
		t.Error("re-allocating for the same window must return the same session")
	}
	if tbl.Len() != 1 {
		t.Errorf("expected 1 binding, got %d", tbl.Len())
	}
}

func TestReleaseUnbinds(t *testing.T) {
	tbl := NewTable()

	sid := tbl.Allocate("win_a")
	got, ok := tbl.Release("win_a")
	if !ok || got != sid {
		t.Fatalf("expected released session %s, got %s (ok=%v)", sid, got, ok)
	}
	if _, ok := tbl.Lookup("win_a"); ok {
		t.Error("lookup after release should miss")
	}
	if _, ok := tbl.Release("win_a"); ok {
		t.Error("double release should miss")
	}

	// A reopened window gets a fresh session.
	if next := tbl.Allocate("win_a"); next == sid {
		t.Error("reallocated session should differ from the released one")
	}
}
