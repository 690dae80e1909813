package fasta_test

import (
	"strings"
	"testing"

	"github.com/escherba/qxalign/encoding/fasta"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fastaData = `>seq1 A viral sequence
ACGTAC
GAGGAC
GCG
>seq2
ACGT
`

func TestFasta(t *testing.T) {
	f, err := fasta.New(strings.NewReader(fastaData))
	require.NoError(t, err)

	expect.EQ(t, f.SeqNames(), []string{"seq1", "seq2"})

	n, err := f.Len("seq1")
	require.NoError(t, err)
	expect.EQ(t, n, 15)

	s, err := f.Seq("seq2")
	require.NoError(t, err)
	expect.EQ(t, string(s), "ACGT")

	got, err := f.Get("seq1", 4, 9)
	require.NoError(t, err)
	expect.EQ(t, string(got), "ACGAG")
}

func TestFastaErrors(t *testing.T) {
	f, err := fasta.New(strings.NewReader(fastaData))
	require.NoError(t, err)

	_, err = f.Seq("seq3")
	assert.Error(t, err)
	_, err = f.Get("seq1", 3, 3)
	assert.Error(t, err)
	_, err = f.Get("seq1", 0, 100)
	assert.Error(t, err)

	_, err = fasta.New(strings.NewReader("ACGT\n"))
	assert.Error(t, err)
	_, err = fasta.New(strings.NewReader(""))
	assert.Error(t, err)
	_, err = fasta.New(strings.NewReader(">a\nAC\n>a\nGT\n"))
	assert.Error(t, err)
}
