package align_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/escherba/qxalign/align"
	"github.com/grailbio/testutil/assert"
	"github.com/stretchr/testify/require"
)

// naiveAligner is an independent oracle: the same quality-weighted
// affine-gap model computed over full (not rolling) matrices, written
// directly from the recurrence definition.
type naiveAligner struct {
	opts                             align.Opts
	match, mismatch, gapOpen, gapExt [94]int
}

func newNaiveAligner(opts align.Opts) *naiveAligner {
	n := &naiveAligner{opts: opts}
	qN := -10.0 * math.Log10(0.75)
	for q := 0; q < 94; q++ {
		w := 1.0 - math.Pow(10.0, -(float64(q)+qN)/10.0)
		n.match[q] = 10 + int(math.Round(w*float64(opts.Match)))
		n.mismatch[q] = 10 + int(math.Round(w*float64(opts.Mismatch)))
		n.gapOpen[q] = 10 + int(math.Round(w*float64(opts.GapOpenExtend)))
		n.gapExt[q] = 10 + int(math.Round(w*float64(opts.GapExtend)))
	}
	return n
}

// alignFull fills complete substitution/insertion/deletion matrices and
// returns the minimum of the last row and the first column achieving it.
func (na *naiveAligner) alignFull(db, query, qual []byte, semi bool) (score, col int) {
	m, n := len(query), len(db)
	pen := make([][]int, m+1)
	ins := make([][]int, m+1)
	del := make([][]int, m+1)
	for i := range pen {
		pen[i] = make([]int, n+1)
		ins[i] = make([]int, n+1)
		del[i] = make([]int, n+1)
	}
	q0 := int(qual[0]) - na.opts.PhredOffset
	gapOpenTrue := na.gapOpen[q0] - na.gapExt[q0]

	for j := 0; j <= n; j++ {
		if semi || j == 0 {
			pen[0][j] = 0
		} else {
			pen[0][j] = na.opts.GapOpenExtend + (j-1)*na.opts.GapExtend
		}
		ins[0][j] = pen[0][j] + gapOpenTrue
	}
	for i := 1; i <= m; i++ {
		q := int(qual[i-1]) - na.opts.PhredOffset
		pen[i][0] = ins[i-1][0] + na.gapExt[q]
		ins[i][0] = pen[i][0]
		del[i][0] = pen[i][0] + na.opts.GapOpenExtend - na.opts.GapExtend
		for j := 1; j <= n; j++ {
			dOpen := pen[i][j-1] + na.opts.GapOpenExtend
			dExt := del[i][j-1] + na.opts.GapExtend
			if dOpen < dExt {
				del[i][j] = dOpen
			} else {
				del[i][j] = dExt
			}
			iOpen := pen[i-1][j] + na.gapOpen[q]
			iExt := ins[i-1][j] + na.gapExt[q]
			if iOpen < iExt {
				ins[i][j] = iOpen
			} else {
				ins[i][j] = iExt
			}
			wM := pen[i-1][j-1]
			if db[j-1] == query[i-1] || db[j-1] == 'N' {
				wM += na.match[q]
			} else {
				wM += na.mismatch[q]
			}
			switch {
			case ins[i][j] < wM:
				if del[i][j] < ins[i][j] {
					pen[i][j] = del[i][j]
				} else {
					pen[i][j] = ins[i][j]
				}
			case del[i][j] < wM:
				pen[i][j] = del[i][j]
			default:
				pen[i][j] = wM
			}
		}
	}
	score, col = pen[m][0], 0
	for j := 1; j <= n; j++ {
		if pen[m][j] < score {
			score, col = pen[m][j], j
		}
	}
	return score, col
}

func randSeq(r *rand.Rand, n int, withN bool) []byte {
	alphabet := "ACGT"
	if withN {
		alphabet = "ACGTN"
	}
	s := make([]byte, n)
	for i := range s {
		s[i] = alphabet[r.Intn(len(alphabet))]
	}
	return s
}

func randQual(r *rand.Rand, n, phredOffset int) []byte {
	q := make([]byte, n)
	for i := range q {
		q[i] = byte(r.Intn(94) + phredOffset)
	}
	return q
}

// TestOptimalityAgainstNaiveDP cross-checks the rolling-row engine
// against the full-matrix oracle on random inputs, in both modes.
func TestOptimalityAgainstNaiveDP(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	a, err := align.NewAligner(align.DefaultOpts)
	require.NoError(t, err)

	for trial := 0; trial < 500; trial++ {
		db := randSeq(r, 1+r.Intn(30), true)
		query := randSeq(r, 1+r.Intn(30), false)
		qual := randQual(r, len(query), align.DefaultOpts.PhredOffset)
		semi := trial%2 == 1

		require.NoError(t, a.Prepare(db, query, qual, 0, 0))
		if semi {
			a.InitSemiGlobal()
		} else {
			a.InitGlobal()
		}
		require.NoError(t, a.Align())
		got := a.LocateMin()

		na := newNaiveAligner(align.DefaultOpts)
		want, wantCol := na.alignFull(db, query, qual, semi)
		if got != want || a.EndCol() != wantCol {
			t.Fatalf("trial %d (semi=%v, db=%q, query=%q, qual=%v): engine (%d, col %d) != oracle (%d, col %d)",
				trial, semi, db, query, qual, got, a.EndCol(), want, wantCol)
		}
	}
}

// TestTraceConsumption checks the CIGAR accounting invariants on random
// alignments: query-consuming ops cover exactly the query, and
// reference-consuming ops cover exactly EndCol-Offset.
func TestTraceConsumption(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	a, err := align.NewAligner(align.DefaultOpts)
	require.NoError(t, err)

	for trial := 0; trial < 500; trial++ {
		db := randSeq(r, 1+r.Intn(40), true)
		query := randSeq(r, 1+r.Intn(40), false)
		qual := randQual(r, len(query), align.DefaultOpts.PhredOffset)

		require.NoError(t, a.Prepare(db, query, qual, 0, 0))
		if trial%2 == 0 {
			a.InitGlobal()
		} else {
			a.InitSemiGlobal()
		}
		require.NoError(t, a.Align())
		a.LocateMin()
		require.NoError(t, a.Trace())

		var consumedQuery, consumedRef int
		for _, op := range a.Cigar() {
			con := op.Type().Consumes()
			consumedQuery += op.Len() * con.Query
			consumedRef += op.Len() * con.Reference
		}
		assert.EQ(t, consumedQuery, len(query))
		assert.EQ(t, consumedRef, a.EndCol()-a.Offset())
	}
}
