package h265

import (
	"testing"

	"github.com/thesyncim/cabac/h265model"
)

func setBits(w *Writer, ctx *h265model.Context, pattern uint64, numBits, bypassIndex int) {
	for i := 0; i < numBits; i++ {
		v := (pattern & (1 << uint(i))) != 0
		if i == bypassIndex {
			w.PutBypass(v)
		} else {
			w.Put(v, ctx)
		}
	}
	w.Finish()
}

func checkBits(t *testing.T, r *Reader, ctx *h265model.Context, pattern uint64, numBits, bypassIndex int) {
	t.Helper()
	for i := 0; i < numBits; i++ {
		var bit bool
		if i == bypassIndex {
			bit, _ = r.GetBypass()
		} else {
			bit, _ = r.Get(ctx)
		}
		want := (pattern & (1 << uint(i))) != 0
		if bit != want {
			t.Fatalf("pattern %b-%d iter %d: want %v got %v", pattern, numBits, i, want, bit)
		}
	}
}

func testPermutation(t *testing.T, pattern uint64, numBits, bypassIndex int) {
	var wctx h265model.Context
	w := NewWriter()
	setBits(w, &wctx, pattern, numBits, bypassIndex)

	var rctx h265model.Context
	r := NewReader(w.Bytes())
	checkBits(t, r, &rctx, pattern, numBits, bypassIndex)
}

// TestPermutations exercises, for every length k from 1 to 9, every bit
// pattern below 2^(k-1) (the top bit stays clear), with the bypass bit
// walking through the middle of the pattern.
func TestPermutations(t *testing.T) {
	for k := 1; k < 10; k++ {
		for i := uint64(0); i < (1 << uint(k-1)); i++ {
			testPermutation(t, i, k, k/2)
		}
	}
}

func TestLongRunsOfMPS(t *testing.T) {
	var wctx h265model.Context
	w := NewWriter()
	for i := 0; i < 100000; i++ {
		w.Put(false, &wctx)
	}
	w.Finish()

	var rctx h265model.Context
	r := NewReader(w.Bytes())
	for i := 0; i < 100000; i++ {
		bit, _ := r.Get(&rctx)
		if bit != false {
			t.Fatalf("iter %d: expected false", i)
		}
	}
}
