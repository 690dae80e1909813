package align

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/simd"
	"github.com/grailbio/hts/sam"
)

// MaxSeqLen is the longest reference or query subview the engine
// accepts. Run lengths in packed CIGAR cells occupy 28 bits.
const MaxSeqLen = 1<<28 - 1

// ambiguousBase is the one interpreted reference character: it matches
// any query base at the match penalty. The wildcard is one-sided; an N in
// the query is a literal.
const ambiguousBase = 'N'

// Aligner computes quality-aware alignments. It owns all working memory
// and reuses it across alignments; buffers grow monotonically with the
// input dimensions. Thread compatible: use one Aligner per goroutine.
type Aligner struct {
	opts Opts
	pen  penaltyTable

	// Caller-owned input views. The engine borrows these read-only for
	// the duration of one alignment sequence.
	db, query, qual        []byte
	dbClipHead, dbClipTail int
	qClipHead, qClipTail   int

	// Rolling rows for the substitution and insertion matrices, plus the
	// insertion run-length trackers. Row identity is an index into the
	// fixed pair, never an aliased pointer.
	penRows [2][]int
	insRows [2][]int
	insLens [2][]uint32
	lastRow int

	// Trace matrix, row-major (subquery+1) x (subdb+1).
	trace  []sam.CigarOp
	stride int

	// CIGAR buffer. The valid run is cigar[cigarBegin:cigarEnd]; at least
	// two free cells remain on each side so post-processing can prepend
	// and append clip runs in place.
	cigar      []sam.CigarOp
	cigarBegin int
	cigarEnd   int

	score  int
	optCol int
	offset int

	synthQual []byte
}

// NewAligner returns an Aligner for the given penalties and quality
// encoding. It returns ErrQualityOutOfRange when opts.AssumePhred cannot
// index the penalty tables.
func NewAligner(opts Opts) (*Aligner, error) {
	if opts.AssumePhred < 0 || opts.AssumePhred >= nPhred {
		return nil, ErrQualityOutOfRange
	}
	return &Aligner{
		opts: opts,
		pen:  newPenaltyTable(opts.Match, opts.Mismatch, opts.GapOpenExtend, opts.GapExtend),
	}, nil
}

// Opts returns the configuration the Aligner was built with.
func (a *Aligner) Opts() Opts { return a.opts }

// Prepare sets both input views for the next alignment, applying the
// same head and tail clip to the reference and the query.
func (a *Aligner) Prepare(db, query, qual []byte, clipHead, clipTail int) error {
	if err := a.PrepareRef(db, clipHead, clipTail); err != nil {
		return err
	}
	return a.PrepareQuery(query, qual, clipHead, clipTail)
}

// PrepareRef sets the reference view. The alignment runs against
// db[clipHead : len(db)-clipTail].
func (a *Aligner) PrepareRef(db []byte, clipHead, clipTail int) error {
	if clipHead < 0 || clipTail < 0 || clipHead+clipTail > len(db) {
		log.Panicf("align: reference clips %d+%d exceed length %d", clipHead, clipTail, len(db))
	}
	a.db = db
	a.dbClipHead, a.dbClipTail = clipHead, clipTail
	return a.reshape()
}

// PrepareQuery sets the query view and its quality. The clip offsets
// apply to the query and quality alike. A nil qual synthesizes a uniform
// quality of AssumePhred for every base; a qual shorter than the query is
// rejected with ErrQualityTooShort, a longer one is legal and ignored
// beyond the query.
func (a *Aligner) PrepareQuery(query, qual []byte, clipHead, clipTail int) error {
	if clipHead < 0 || clipTail < 0 || clipHead+clipTail > len(query) {
		log.Panicf("align: query clips %d+%d exceed length %d", clipHead, clipTail, len(query))
	}
	if qual == nil {
		if cap(a.synthQual) < len(query) {
			a.synthQual = simd.MakeUnsafe(len(query))
		}
		a.synthQual = a.synthQual[:len(query)]
		simd.Memset8Unsafe(a.synthQual, byte(a.opts.AssumePhred+a.opts.PhredOffset))
		qual = a.synthQual
	} else if len(qual) < len(query) {
		return ErrQualityTooShort
	}
	a.query, a.qual = query, qual
	a.qClipHead, a.qClipTail = clipHead, clipTail
	return a.reshape()
}

func (a *Aligner) subdb() []byte    { return a.db[a.dbClipHead : len(a.db)-a.dbClipTail] }
func (a *Aligner) subquery() []byte { return a.query[a.qClipHead : len(a.query)-a.qClipTail] }
func (a *Aligner) subqual() []byte  { return a.qual[a.qClipHead:] }

func (a *Aligner) subdbLen() int    { return len(a.db) - a.dbClipHead - a.dbClipTail }
func (a *Aligner) subqueryLen() int { return len(a.query) - a.qClipHead - a.qClipTail }

// reshape sizes the rolling rows and the trace matrix for the current
// subview dimensions, keeping existing capacity where it suffices.
func (a *Aligner) reshape() error {
	qlen, dlen := a.subqueryLen(), a.subdbLen()
	if qlen > MaxSeqLen || dlen > MaxSeqLen {
		return ErrSeqTooLong
	}
	cols := dlen + 1
	a.stride = cols
	need := (qlen + 1) * cols
	if cap(a.trace) < need {
		a.trace = make([]sam.CigarOp, need)
	}
	a.trace = a.trace[:need]
	for k := 0; k < 2; k++ {
		if cap(a.penRows[k]) < cols {
			a.penRows[k] = make([]int, cols)
			a.insRows[k] = make([]int, cols)
			a.insLens[k] = make([]uint32, cols)
		}
		a.penRows[k] = a.penRows[k][:cols]
		a.insRows[k] = a.insRows[k][:cols]
		a.insLens[k] = a.insLens[k][:cols]
	}
	return nil
}

// Score returns the optimum penalty found by LocateMin.
func (a *Aligner) Score() int { return a.score }

// EndCol returns the reference column (within the reference subview)
// where the optimum alignment ends.
func (a *Aligner) EndCol() int { return a.optCol }

// Offset returns the position within the reference subview where the
// traced alignment starts. Post-processing steps may move it.
func (a *Aligner) Offset() int { return a.offset }

// Cigar returns the current CIGAR. The returned slice aliases the
// engine's buffer and is valid until the next Trace or Prepare call.
func (a *Aligner) Cigar() sam.Cigar {
	return sam.Cigar(a.cigar[a.cigarBegin:a.cigarEnd])
}

// CigarString renders the current CIGAR in the usual <len><op> form.
func (a *Aligner) CigarString() string { return a.Cigar().String() }

// AlignmentStart maps the traced offset back to a coordinate in the
// underlying (unclipped) reference, given the reference's own position
// alstart in some larger coordinate system.
func (a *Aligner) AlignmentStart(alstart int) int {
	if alstart < 0 {
		alstart = 0
	}
	return alstart + a.offset + a.dbClipHead
}
