package diag

import (
	"fmt"
	"testing"
)

func TestDescribe(t *testing.T) {
	err := Errorf(KindScope, "undeclared identifier %q", "x").At(4, 2)
	if got := Describe(err); got != `line 4: undeclared identifier "x"` {
		t.Fatalf("Describe = %q", got)
	}
}

func TestDescribeWithContext(t *testing.T) {
	err := Errorf(KindTypeMismatch, "bad operand").At(1, 1).With("operator", "+")
	got := Describe(err)
	want := "line 1: bad operand (operator: +)"
	if got != want {
		t.Fatalf("Describe = %q, want %q", got, want)
	}
}

func TestAtKeepsInnermostPosition(t *testing.T) {
	err := Errorf(KindScope, "x").At(7, 3).At(1, 1)
	if err.Line != 7 || err.Column != 3 {
		t.Fatalf("position = %d:%d, want 7:3", err.Line, err.Column)
	}
}

func TestKindOfUnwraps(t *testing.T) {
	err := fmt.Errorf("while loading: %w", Errorf(KindRuntimeIO, "input exhausted"))
	kind, ok := KindOf(err)
	if !ok || kind != KindRuntimeIO {
		t.Fatalf("KindOf = %v %v", kind, ok)
	}
	if _, ok := KindOf(fmt.Errorf("plain")); ok {
		t.Fatal("plain errors carry no kind")
	}
}

func TestKindNamesRoundTrip(t *testing.T) {
	for _, kind := range []Kind{
		KindTypeMismatch, KindScope, KindCase, KindStructure,
		KindRuntimeIndex, KindRuntimeIO, KindRuntimeMath, KindResource,
	} {
		back, ok := KindFromName(kind.String())
		if !ok || back != kind {
			t.Fatalf("round trip failed for %s", kind)
		}
	}
	if _, ok := KindFromName("Unheard"); ok {
		t.Fatal("unknown names must not resolve")
	}
}
