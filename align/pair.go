package align

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
)

// AlignPair expands the current CIGAR into two equal-length gap-padded
// byte strings for display: the reference side and the query side.
// Match, mismatch and fused-match ops copy both sequences; insertions
// copy the query and gap the reference; deletions copy the reference and
// gap the query. Soft clips advance both cursors without emitting, hard
// clips emit and advance nothing.
func (a *Aligner) AlignPair() (refSide, querySide []byte, err error) {
	total := 0
	for i := a.cigarBegin; i < a.cigarEnd; i++ {
		total += a.cigar[i].Len()
	}
	refSide = make([]byte, 0, total)
	querySide = make([]byte, 0, total)

	ri := a.dbClipHead + a.offset
	qi := a.qClipHead
	for i := a.cigarBegin; i < a.cigarEnd; i++ {
		op := a.cigar[i]
		n := op.Len()
		switch op.Type() {
		case sam.CigarHardClipped:
		case sam.CigarSoftClipped:
			ri += n
			qi += n
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			refSide = append(refSide, a.db[ri:ri+n]...)
			querySide = append(querySide, a.query[qi:qi+n]...)
			ri += n
			qi += n
		case sam.CigarInsertion:
			for k := 0; k < n; k++ {
				refSide = append(refSide, '-')
			}
			querySide = append(querySide, a.query[qi:qi+n]...)
			qi += n
		case sam.CigarDeletion:
			refSide = append(refSide, a.db[ri:ri+n]...)
			for k := 0; k < n; k++ {
				querySide = append(querySide, '-')
			}
			ri += n
		default:
			return nil, nil, ErrCorruptTrace
		}
	}
	if len(refSide) != len(querySide) {
		log.Panicf("align: unbalanced alignment pair: %d vs %d", len(refSide), len(querySide))
	}
	return refSide, querySide, nil
}
