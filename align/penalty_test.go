package align

import (
	"testing"
)

func TestPenaltyTableValues(t *testing.T) {
	pt := newPenaltyTable(DefaultOpts.Match, DefaultOpts.Mismatch,
		DefaultOpts.GapOpenExtend, DefaultOpts.GapExtend)

	// At q=0 the N-base constant leaves a quarter of the base penalty:
	// w(0) = 1 - 0.75 = 0.25.
	if got := pt.match[0]; got != 7 {
		t.Errorf("match[0] = %d, want 7", got)
	}
	if got := pt.mismatch[0]; got != 18 {
		t.Errorf("mismatch[0] = %d, want 18", got)
	}
	if got := pt.gapOpen[0]; got != 23 {
		t.Errorf("gapOpen[0] = %d, want 23", got)
	}
	if got := pt.gapExt[0]; got != 15 {
		t.Errorf("gapExt[0] = %d, want 15", got)
	}

	// At q=40 the weight is within rounding of 1, so the entries are the
	// base penalties plus 10.
	if got := pt.match[40]; got != 0 {
		t.Errorf("match[40] = %d, want 0", got)
	}
	if got := pt.mismatch[40]; got != 40 {
		t.Errorf("mismatch[40] = %d, want 40", got)
	}
	if got := pt.gapOpen[40]; got != 60 {
		t.Errorf("gapOpen[40] = %d, want 60", got)
	}
	if got := pt.gapExt[40]; got != 30 {
		t.Errorf("gapExt[40] = %d, want 30", got)
	}
}

func TestPenaltyTableMonotone(t *testing.T) {
	pt := newPenaltyTable(DefaultOpts.Match, DefaultOpts.Mismatch,
		DefaultOpts.GapOpenExtend, DefaultOpts.GapExtend)

	// The weight grows with q, so positive-base tables are nondecreasing
	// and the negative-base match table is nonincreasing.
	for q := 1; q < nPhred; q++ {
		if pt.match[q] > pt.match[q-1] {
			t.Fatalf("match table increases at q=%d: %d > %d", q, pt.match[q], pt.match[q-1])
		}
		if pt.mismatch[q] < pt.mismatch[q-1] {
			t.Fatalf("mismatch table decreases at q=%d", q)
		}
		if pt.gapOpen[q] < pt.gapOpen[q-1] {
			t.Fatalf("gapOpen table decreases at q=%d", q)
		}
		if pt.gapExt[q] < pt.gapExt[q-1] {
			t.Fatalf("gapExt table decreases at q=%d", q)
		}
	}
}
