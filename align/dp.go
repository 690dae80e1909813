package align

import (
	"github.com/grailbio/hts/sam"
)

// InitGlobal fills row 0 of the matrices for global alignment: the query
// start is charged for any leading reference bases it skips, as an
// accumulating deletion run at the base gap-extend penalty.
func (a *Aligner) InitGlobal() {
	if a.subqueryLen() == 0 {
		return
	}
	q := int(a.subqual()[0]) - a.opts.PhredOffset
	gapOpenTrue := a.pen.gapOpen[q] - a.pen.gapExt[q]

	pen, ins, insLen := a.penRows[0], a.insRows[0], a.insLens[0]
	pen[0] = 0
	ins[0] = gapOpenTrue
	insLen[0] = 0
	a.trace[0] = sam.NewCigarOp(sam.CigarEqual, 0)

	storedDel := a.opts.GapOpenExtend - a.opts.GapExtend
	for j := 1; j <= a.subdbLen(); j++ {
		storedDel += a.opts.GapExtend
		pen[j] = storedDel
		ins[j] = pen[j] + gapOpenTrue
		insLen[j] = 0
		// The topmost row holds only horizontal moves.
		a.trace[j] = sam.NewCigarOp(sam.CigarDeletion, j)
	}
}

// InitSemiGlobal fills row 0 for semi-global alignment: leading
// reference bases are free, so the whole row scores zero.
func (a *Aligner) InitSemiGlobal() {
	if a.subqueryLen() == 0 {
		return
	}
	q := int(a.subqual()[0]) - a.opts.PhredOffset
	gapOpenTrue := a.pen.gapOpen[q] - a.pen.gapExt[q]

	pen, ins, insLen := a.penRows[0], a.insRows[0], a.insLens[0]
	pen[0] = 0
	ins[0] = gapOpenTrue
	insLen[0] = 0
	a.trace[0] = sam.NewCigarOp(sam.CigarEqual, 0)

	for j := 1; j <= a.subdbLen(); j++ {
		pen[j] = 0
		ins[j] = gapOpenTrue
		insLen[j] = 0
		a.trace[j] = sam.NewCigarOp(sam.CigarDeletion, j)
	}
}

// Align fills the interior of the matrices with the Gotoh recurrence and
// records the chosen move in every trace cell. Row 0 must have been
// initialized by InitGlobal or InitSemiGlobal. Insertion penalties are
// weighted by the quality of the query base; deletion penalties use the
// base constants (the reference carries no qualities).
func (a *Aligner) Align() error {
	sdb, sq, sqa := a.subdb(), a.subquery(), a.subqual()
	if len(sdb) == 0 || len(sq) == 0 {
		return ErrEmptyInput
	}
	offset := a.opts.PhredOffset
	gapOpenExtend, gapExtend := a.opts.GapOpenExtend, a.opts.GapExtend

	prev, cur := 0, 1
	for i := 1; i <= len(sq); i++ {
		cq := sq[i-1]
		q := int(sqa[i-1]) - offset
		matchPen, mismatchPen := a.pen.match[q], a.pen.mismatch[q]
		gapOpenPen, gapExtPen := a.pen.gapOpen[q], a.pen.gapExt[q]

		penPrev, penCur := a.penRows[prev], a.penRows[cur]
		insPrev, insCur := a.insRows[prev], a.insRows[cur]
		lenPrev, lenCur := a.insLens[prev], a.insLens[cur]
		row := a.trace[i*a.stride : i*a.stride+a.stride]

		// The leftmost column holds only vertical moves.
		wI := insPrev[0] + gapExtPen
		insCur[0] = wI
		cI := lenPrev[0] + 1
		lenCur[0] = cI
		row[0] = sam.NewCigarOp(sam.CigarInsertion, int(cI))
		penCur[0] = wI
		storedDel := penCur[0] + (gapOpenExtend - gapExtend)
		var cD uint32

		for j := 1; j <= len(sdb); j++ {
			isMatch := sdb[j-1] == cq || sdb[j-1] == ambiguousBase

			// Deletion: horizontal move.
			wDOpen := penCur[j-1] + gapOpenExtend
			wDExtend := storedDel + gapExtend

			// Insertion: vertical move.
			wIOpen := penPrev[j] + gapOpenPen
			wIExtend := insPrev[j] + gapExtPen

			// Given equal scores, prefer extending existing gaps to
			// opening new ones.
			if wDOpen < wDExtend {
				storedDel = wDOpen
				cD = 1
			} else {
				storedDel = wDExtend
				cD++
			}
			wD := storedDel
			if wIOpen < wIExtend {
				insCur[j] = wIOpen
				cI = 1
			} else {
				insCur[j] = wIExtend
				cI = lenPrev[j] + 1
			}
			lenCur[j] = cI
			wI := insCur[j]

			var wM int
			mstate := sam.CigarMismatch
			if isMatch {
				wM = penPrev[j-1] + matchPen
				mstate = sam.CigarEqual
			} else {
				wM = penPrev[j-1] + mismatchPen
			}

			// Order of preference: M, I, D.
			switch {
			case wI < wM:
				if wD < wI {
					row[j] = sam.NewCigarOp(sam.CigarDeletion, int(cD))
					penCur[j] = wD
				} else {
					row[j] = sam.NewCigarOp(sam.CigarInsertion, int(cI))
					penCur[j] = wI
				}
			case wD < wM:
				row[j] = sam.NewCigarOp(sam.CigarDeletion, int(cD))
				penCur[j] = wD
			default:
				row[j] = sam.NewCigarOp(mstate, 1)
				penCur[j] = wM
			}
		}
		prev, cur = cur, prev
	}
	// After the final swap the "previous" pair member holds the last row.
	a.lastRow = prev
	return nil
}

// LocateMin scans the last score row and records the first column
// achieving the minimum. With free end gaps (semi-global) this is the
// alignment end; in global mode the caller decides whether a non-final
// column is acceptable.
func (a *Aligner) LocateMin() int {
	last := a.penRows[a.lastRow]
	optScore, optCol := last[0], 0
	for j := 1; j <= a.subdbLen(); j++ {
		if last[j] < optScore {
			optScore = last[j]
			optCol = j
		}
	}
	a.score = optScore
	a.optCol = optCol
	return optScore
}
