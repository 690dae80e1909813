package align

// Opts configures an Aligner.
type Opts struct {
	// Match is the base match penalty. It is typically negative so that
	// matched bases reduce the alignment penalty.
	Match int
	// Mismatch is the base mismatch penalty.
	Mismatch int
	// GapOpenExtend is the combined penalty for opening a gap and its
	// first extension.
	GapOpenExtend int
	// GapExtend is the penalty for each additional gap base.
	GapExtend int

	// PhredOffset is subtracted from each quality character before the
	// penalty-table lookup. 33 for Sanger-style encodings.
	PhredOffset int
	// AssumePhred is the quality assumed for every base when no quality
	// string is supplied to PrepareQuery. Must be in [0, 93].
	AssumePhred int
}

// DefaultOpts holds the penalty and encoding defaults of the original
// 454 realigner.
var DefaultOpts = Opts{
	Match:         -10,
	Mismatch:      30,
	GapOpenExtend: 50,
	GapExtend:     20,
	PhredOffset:   33,
	AssumePhred:   nPhred - 1,
}
