// Package align implements quality-aware pairwise alignment of a read
// against a reference window, in the style of the asymmetric
// Smith-Waterman variant with inverse scores described in
// http://dx.doi.org/10.1101/gr.6468307.  Scores are penalties: the best
// alignment is the one with the minimum total.  Per-base penalties for
// match, mismatch, gap open and gap extension are scaled by the PHRED
// quality of the query base, so that low-confidence bases contribute
// little to the total.  The reference base 'N' matches any query base.
//
// An Aligner can be reused across many reads.  One full alignment is the
// ordered sequence
//
//	Prepare* -> InitGlobal|InitSemiGlobal -> Align -> LocateMin -> Trace
//
// optionally followed by CIGAR post-processing (AppendSoftClip,
// AppendHardClip, SoftClipTrace, CompactTrace) and AlignPair.  The engine
// is not safe for concurrent use; give each goroutine its own Aligner.
package align
