package internaldefs

import (
	"strings"
	"testing"

	shopAuth "github.com/MrEthical07/shopAuth"
)

func TestCounterDefsUniqueAndComplete(t *testing.T) {
	names := map[string]bool{}
	ids := map[shopAuth.MetricID]bool{}
	for _, def := range CounterDefs {
		if !strings.HasPrefix(def.Name, "shopauth_") || !strings.HasSuffix(def.Name, "_total") {
			t.Fatalf("unexpected counter name %q", def.Name)
		}
		if names[def.Name] || ids[def.ID] {
			t.Fatalf("duplicate counter definition %q", def.Name)
		}
		names[def.Name] = true
		ids[def.ID] = true
	}
	for id := shopAuth.MetricOTPSent; id < shopAuth.MetricAuthenticateLatency; id++ {
		if !ids[id] {
			t.Fatalf("counter %d has no definition", id)
		}
	}
}

func TestCumulativeBuckets(t *testing.T) {
	got := CumulativeBuckets(NormalizeBuckets([]uint64{1, 2, 0, 3}))
	want := [8]uint64{1, 3, 3, 6, 6, 6, 6, 6}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if len(HistogramBoundSuffix) != len(HistogramBounds) {
		t.Fatal("bucket suffixes must match bounds")
	}
}
