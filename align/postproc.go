package align

import (
	"github.com/grailbio/hts/sam"
)

// AppendSoftClip extends the CIGAR to cover the query bases removed by
// the clip offsets given to PrepareQuery. On each side, an adjacent soft
// clip is merged; an adjacent match run is first grown inward over
// clipped bases that literally equal the neighboring reference bases
// (moving Offset back for head growth), and any remainder becomes a new
// soft-clip run in the reserved padding cell.
func (a *Aligner) AppendSoftClip() {
	if clip := a.qClipHead; clip > 0 {
		cell := a.cigar[a.cigarBegin]
		z, t := cell.Len(), cell.Type()
		switch {
		case t == sam.CigarSoftClipped:
			a.cigar[a.cigarBegin] = sam.NewCigarOp(sam.CigarSoftClipped, z+clip)
		case t == sam.CigarEqual || t == sam.CigarMatch:
			matchAdd := 0
			qi := a.qClipHead
			di := a.dbClipHead + a.offset
			for clip > 0 && qi > 0 && di > 0 && a.query[qi-1] == a.db[di-1] {
				qi--
				di--
				matchAdd++
				clip--
			}
			if matchAdd > 0 {
				a.cigar[a.cigarBegin] = sam.NewCigarOp(t, z+matchAdd)
				a.offset -= matchAdd
			}
			if clip > 0 {
				a.cigarBegin--
				a.cigar[a.cigarBegin] = sam.NewCigarOp(sam.CigarSoftClipped, clip)
			}
		default:
			a.cigarBegin--
			a.cigar[a.cigarBegin] = sam.NewCigarOp(sam.CigarSoftClipped, clip)
		}
	}
	if clip := a.qClipTail; clip > 0 {
		cell := a.cigar[a.cigarEnd-1]
		z, t := cell.Len(), cell.Type()
		switch {
		case t == sam.CigarSoftClipped:
			a.cigar[a.cigarEnd-1] = sam.NewCigarOp(sam.CigarSoftClipped, z+clip)
		case t == sam.CigarEqual || t == sam.CigarMatch:
			matchAdd := 0
			qi := a.qClipHead + a.subqueryLen()
			di := a.dbClipHead + a.optCol
			for clip > 0 && qi < len(a.query) && di < len(a.db) && a.query[qi] == a.db[di] {
				qi++
				di++
				matchAdd++
				clip--
			}
			if matchAdd > 0 {
				a.cigar[a.cigarEnd-1] = sam.NewCigarOp(t, z+matchAdd)
			}
			if clip > 0 {
				a.cigar[a.cigarEnd] = sam.NewCigarOp(sam.CigarSoftClipped, clip)
				a.cigarEnd++
			}
		default:
			a.cigar[a.cigarEnd] = sam.NewCigarOp(sam.CigarSoftClipped, clip)
			a.cigarEnd++
		}
	}
}

// AppendHardClip records clipHead and clipTail bases trimmed off the
// read before alignment. Hard clips carry no sequence, so unlike
// AppendSoftClip there is no match growth; an adjacent hard clip is
// merged, anything else gets a new run in the padding cell.
func (a *Aligner) AppendHardClip(clipHead, clipTail int) {
	if clipHead > 0 {
		cell := a.cigar[a.cigarBegin]
		if cell.Type() == sam.CigarHardClipped {
			a.cigar[a.cigarBegin] = sam.NewCigarOp(sam.CigarHardClipped, cell.Len()+clipHead)
		} else {
			a.cigarBegin--
			a.cigar[a.cigarBegin] = sam.NewCigarOp(sam.CigarHardClipped, clipHead)
		}
	}
	if clipTail > 0 {
		cell := a.cigar[a.cigarEnd-1]
		if cell.Type() == sam.CigarHardClipped {
			a.cigar[a.cigarEnd-1] = sam.NewCigarOp(sam.CigarHardClipped, cell.Len()+clipTail)
		} else {
			a.cigar[a.cigarEnd] = sam.NewCigarOp(sam.CigarHardClipped, clipTail)
			a.cigarEnd++
		}
	}
}

// SoftClipTrace replaces the non-matching edits at either end of the
// alignment with soft clipping:
//
//	                  |<-----
//	5= 1X 2D 20= 1I 30= 3I 1X
//
// The tail scan accumulates everything that consumes query until the
// last sequence match; the head scan does the same from the front and
// additionally moves Offset over every walked-over op that consumes
// reference. Afterwards the CIGAR begins and ends with a sequence match
// or a clip.
func (a *Aligner) SoftClipTrace() {
	softClip3p := 0
	i := a.cigarEnd - 1
	for ; i >= a.cigarBegin; i-- {
		t := a.cigar[i].Type()
		if t == sam.CigarEqual {
			break
		}
		if t != sam.CigarDeletion && t != sam.CigarHardClipped {
			softClip3p += a.cigar[i].Len()
		}
	}
	if softClip3p > 0 {
		i++
		a.cigar[i] = sam.NewCigarOp(sam.CigarSoftClipped, softClip3p)
	}
	end := i + 1

	offset := a.offset
	softClip5p := 0
	j := a.cigarBegin
	for ; j != end; j++ {
		t := a.cigar[j].Type()
		if t == sam.CigarEqual {
			break
		}
		if t == sam.CigarHardClipped {
			continue
		}
		opLen := a.cigar[j].Len()
		if t != sam.CigarDeletion {
			softClip5p += opLen
		}
		if t != sam.CigarInsertion && t != sam.CigarSoftClipped {
			offset += opLen
		}
	}
	if softClip5p > 0 {
		j--
		a.cigar[j] = sam.NewCigarOp(sam.CigarSoftClipped, softClip5p)
	}

	a.offset = offset
	a.cigarBegin = j
	a.cigarEnd = end
}

// CompactTrace fuses adjacent sequence-match and mismatch runs into
// plain M runs, in place, working from the tail. Other ops are copied
// verbatim.
func (a *Aligner) CompactTrace() {
	w := a.cigarEnd - 1
	r := a.cigarEnd - 1
	stop := a.cigarBegin - 1
	for r != stop {
		var cell sam.CigarOp
		numMatches := 0
		for {
			cell = a.cigar[r]
			t := cell.Type()
			r--
			if t == sam.CigarEqual || t == sam.CigarMismatch {
				numMatches += cell.Len()
				if r == stop {
					cell = sam.NewCigarOp(sam.CigarMatch, numMatches)
					break
				}
			} else if numMatches > 0 {
				a.cigar[w] = sam.NewCigarOp(sam.CigarMatch, numMatches)
				w--
				break
			} else {
				break
			}
		}
		a.cigar[w] = cell
		w--
	}
	a.cigarBegin = w + 1
}
