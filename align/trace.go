package align

import (
	"github.com/grailbio/hts/sam"
)

// Trace walks the trace matrix from (subqueryLen, EndCol) back to row 0
// and emits the forward CIGAR. Runs of sequence matches are summed into
// one op, as are runs of mismatches; insertion and deletion cells are
// emitted one op per cell. The ops are written back-to-front into the
// engine's CIGAR buffer, leaving free padding cells on both sides for
// the post-processing steps. On return, Offset reports the reference
// subview column where the alignment starts.
func (a *Aligner) Trace() error {
	qlen, dlen := a.subqueryLen(), a.subdbLen()
	// Worst case one op per query base plus one per reference base, plus
	// two pad cells on each side.
	need := qlen + dlen + 5
	if cap(a.cigar) < need {
		a.cigar = make([]sam.CigarOp, need)
	}
	a.cigar = a.cigar[:need]

	m, n := qlen, a.optCol
	cell := a.trace[m*a.stride+n]
	z, state := cell.Len(), cell.Type()

	// Reverse cursor into the buffer; the two cells past it stay free.
	rc := len(a.cigar) - 3
	for m > 0 {
		switch state {
		case sam.CigarEqual, sam.CigarMismatch:
			run := 0
			cur := state
			for state == cur && m > 0 {
				run += z
				m -= z
				n -= z
				cell = a.trace[m*a.stride+n]
				z, state = cell.Len(), cell.Type()
			}
			a.cigar[rc] = sam.NewCigarOp(cur, run)
			rc--
		case sam.CigarDeletion:
			a.cigar[rc] = cell
			rc--
			n -= z
			cell = a.trace[m*a.stride+n]
			z, state = cell.Len(), cell.Type()
		case sam.CigarInsertion:
			a.cigar[rc] = cell
			rc--
			m -= z
			cell = a.trace[m*a.stride+n]
			z, state = cell.Len(), cell.Type()
		default:
			return ErrCorruptTrace
		}
	}

	a.offset = n
	a.cigarBegin = rc + 1
	a.cigarEnd = len(a.cigar) - 2
	return nil
}
