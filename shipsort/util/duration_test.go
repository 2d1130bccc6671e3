package util

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte(" 250ms ")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if time.Duration(d) != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", time.Duration(d))
	}
	b, err := d.MarshalText()
	if err != nil || string(b) != "250ms" {
		t.Fatalf("marshal = %q, %v", b, err)
	}

	for _, s := range []string{"", "soon", "-1s"} {
		if err := d.UnmarshalText([]byte(s)); err == nil {
			t.Fatalf("expected an error for %q", s)
		}
	}
}
