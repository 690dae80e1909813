// Package fasta contains code for parsing FASTA files.  Briefly, FASTA
// files consist of a number of named sequences that may be interrupted
// by newlines.  For example:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Note: Sequence names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text appearing after a space is ignored.
// For example, '>chr1 A viral sequence' becomes 'chr1'.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Fasta holds a set of named sequences read eagerly into memory.
type Fasta struct {
	seqs     map[string][]byte
	seqNames []string
}

// New reads all FASTA data from r into memory.
func New(r io.Reader) (*Fasta, error) {
	f := &Fasta{seqs: make(map[string][]byte)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1024*1024*1024)
	var seqName string
	var seq []byte
	flush := func() error {
		if seq == nil {
			return nil
		}
		if seqName == "" {
			return errors.Errorf("malformed FASTA file: sequence data before any '>' header")
		}
		if _, ok := f.seqs[seqName]; ok {
			return errors.Errorf("duplicate FASTA sequence name: %s", seqName)
		}
		f.seqs[seqName] = seq
		f.seqNames = append(f.seqNames, seqName)
		seq = nil
		return nil
	}
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if err := flush(); err != nil {
				return nil, err
			}
			seqName = strings.Split(line[1:], " ")[0]
			seq = []byte{}
		} else {
			seq = append(seq, line...)
		}
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(f.seqNames) == 0 {
		return nil, errors.Errorf("empty FASTA file")
	}
	return f, nil
}

// Seq returns the full sequence with the given name. The returned slice
// is owned by the Fasta and must not be modified.
func (f *Fasta) Seq(seqName string) ([]byte, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return nil, errors.Errorf("sequence not found: %s", seqName)
	}
	return s, nil
}

// Get returns a subsequence of the given sequence name at the given
// coordinates, which are treated as a 0-based half-open interval
// [start, end).
func (f *Fasta) Get(seqName string, start, end int) ([]byte, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return nil, errors.Errorf("sequence not found: %s", seqName)
	}
	if end <= start {
		return nil, errors.Errorf("start must be less than end")
	}
	if start < 0 || end > len(s) {
		return nil, errors.Errorf("invalid query range %d - %d for sequence %s with length %d",
			start, end, seqName, len(s))
	}
	return s[start:end], nil
}

// Len returns the length of the given sequence.
func (f *Fasta) Len(seqName string) (int, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found: %s", seqName)
	}
	return len(s), nil
}

// SeqNames returns the names of all sequences, in the order of
// appearance in the FASTA file.
func (f *Fasta) SeqNames() []string {
	return f.seqNames
}
