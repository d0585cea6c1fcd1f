package massdiff

import "testing"

func TestSingleNotchAcceptor(t *testing.T) {
	a := SingleNotchAcceptor{Tolerance: 0.01}
	intervals := a.Intervals(1000.0)
	if len(intervals) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(intervals))
	}
	if intervals[0].Notch != 0 {
		t.Errorf("expected notch 0, got %d", intervals[0].Notch)
	}
	if intervals[0].Interval.Min != 999.99 || intervals[0].Interval.Max != 1000.01 {
		t.Errorf("unexpected interval: %+v", intervals[0].Interval)
	}
}

func TestDotMassDiffAcceptorNotchTags(t *testing.T) {
	a := DotMassDiffAcceptor{AcceptedMassShifts: []float64{0, 1.00335, 2.00670}, Tolerance: 0.02}
	intervals := a.Intervals(500.0)
	if len(intervals) != 3 {
		t.Fatalf("expected 3 intervals, got %d", len(intervals))
	}
	for i, iv := range intervals {
		if iv.Notch != i {
			t.Errorf("interval %d has notch %d, want %d", i, iv.Notch, i)
		}
	}
	if a.NumNotches() != 3 {
		t.Errorf("NumNotches() = %d, want 3", a.NumNotches())
	}
}

// An acceptor returning an empty interval list means the peptide
// contributes zero scans (spec §8's boundary case).
type emptyAcceptor struct{}

func (emptyAcceptor) Intervals(float64) []NotchedInterval { return nil }
func (emptyAcceptor) NumNotches() int                     { return 1 }

func TestEmptyAcceptorYieldsNoIntervals(t *testing.T) {
	var a Acceptor = emptyAcceptor{}
	if intervals := a.Intervals(500.0); len(intervals) != 0 {
		t.Errorf("expected no intervals, got %d", len(intervals))
	}
}
