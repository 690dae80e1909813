package fastq

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const data = `@r0/1
GATACA
+
IIIIII
@r1/1 trailing comment
ACGTN
+r1/1
IIII@!
`

func TestScanner(t *testing.T) {
	sc := NewScanner(strings.NewReader(data), All)
	var reads []Read
	var read Read
	for sc.Scan(&read) {
		reads = append(reads, read)
	}
	require.NoError(t, sc.Err())
	require.Equal(t, 2, len(reads))

	assert.Equal(t, "r0/1", reads[0].ID)
	assert.Equal(t, "GATACA", reads[0].Seq)
	assert.Equal(t, "+", reads[0].Unk)
	assert.Equal(t, "IIIIII", reads[0].Qual)

	assert.Equal(t, "r1/1 trailing comment", reads[1].ID)
	assert.Equal(t, "ACGTN", reads[1].Seq)
	assert.Equal(t, "IIII@!", reads[1].Qual)
}

func TestScannerFields(t *testing.T) {
	sc := NewScanner(strings.NewReader(data), Seq|Qual)
	var read Read
	require.True(t, sc.Scan(&read))
	assert.Equal(t, "", read.ID)
	assert.Equal(t, "GATACA", read.Seq)
	assert.Equal(t, "IIIIII", read.Qual)
}

func TestScannerShort(t *testing.T) {
	sc := NewScanner(strings.NewReader("@r0\nGATACA\n+\n"), All)
	var read Read
	require.False(t, sc.Scan(&read))
	assert.Equal(t, ErrShort, sc.Err())
}

func TestScannerInvalid(t *testing.T) {
	sc := NewScanner(strings.NewReader("r0\nGATACA\n+\nIIIIII\n"), All)
	var read Read
	require.False(t, sc.Scan(&read))
	assert.Equal(t, ErrInvalid, sc.Err())

	sc = NewScanner(strings.NewReader("@r0\nGATACA\nIIIIII\n+\n"), All)
	require.False(t, sc.Scan(&read))
	assert.Equal(t, ErrInvalid, sc.Err())
}

func TestValidate(t *testing.T) {
	read := Read{Seq: "GATACA", Qual: "IIIIII"}
	surplus, err := read.Validate()
	require.NoError(t, err)
	assert.Equal(t, 0, surplus)

	read = Read{Seq: "GATACA", Qual: "IIIIIIII"}
	surplus, err = read.Validate()
	require.NoError(t, err)
	assert.Equal(t, 2, surplus)

	read = Read{Seq: "GATACA", Qual: "III"}
	_, err = read.Validate()
	assert.Equal(t, ErrQualTooShort, err)
}
