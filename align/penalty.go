package align

import (
	"math"
)

// Sanger PHRED scores range from 0 to 93. All quality characters must
// land in this range after the PHRED offset is subtracted.
const nPhred = 94

// penaltyTable holds the quality-indexed penalty vectors. For a PHRED
// score q the weight is w(q) = 1 - 10^(-(q+qN)/10), with qN the score of
// an N base call (P(error|N) = 0.75), so that a q of 0 still carries a
// quarter of the base penalty. Each entry is the weighted, rounded base
// penalty plus a constant 10.
type penaltyTable struct {
	match    [nPhred]int
	mismatch [nPhred]int
	gapOpen  [nPhred]int
	gapExt   [nPhred]int
}

func newPenaltyTable(match, mismatch, gapOpenExtend, gapExtend int) (t penaltyTable) {
	qN := -10.0 * math.Log10(0.75)
	for q := 0; q < nPhred; q++ {
		weight := 1.0 - math.Pow(10.0, -(float64(q)+qN)/10.0)
		t.match[q] = 10 + int(math.Round(weight*float64(match)))
		t.mismatch[q] = 10 + int(math.Round(weight*float64(mismatch)))
		t.gapOpen[q] = 10 + int(math.Round(weight*float64(gapOpenExtend)))
		t.gapExt[q] = 10 + int(math.Round(weight*float64(gapExtend)))
	}
	return t
}
