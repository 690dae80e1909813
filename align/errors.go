package align

import (
	"github.com/grailbio/base/errors"
)

var (
	// ErrEmptyInput is returned by Align when the reference or query
	// subview is empty.
	ErrEmptyInput = errors.New("align: empty reference or query")
	// ErrQualityTooShort is returned by PrepareQuery when the quality
	// string does not cover the query.
	ErrQualityTooShort = errors.New("align: quality shorter than query")
	// ErrQualityOutOfRange is returned by NewAligner when AssumePhred is
	// outside the representable PHRED range.
	ErrQualityOutOfRange = errors.New("align: assumed PHRED score outside 0-93")
	// ErrSeqTooLong is returned by Prepare* when a subview is too long
	// for the 28-bit run lengths of packed CIGAR cells.
	ErrSeqTooLong = errors.New("align: sequence too long for packed CIGAR run lengths")
	// ErrCorruptTrace is returned by Trace when the trace matrix holds an
	// opcode outside the defined set. The engine state is indeterminate
	// afterwards and must not be reused.
	ErrCorruptTrace = errors.New("align: unknown CIGAR operation in trace matrix")
)
