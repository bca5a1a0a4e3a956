package vp8

import (
	"errors"
	"testing"

	"github.com/thesyncim/cabac"
	"github.com/thesyncim/cabac/vp8model"
)

// TestFinishTwiceIsRejected confirms a Writer refuses to encode or flush
// again once Finish has already run, instead of silently corrupting the
// already-flushed carry chain.
func TestFinishTwiceIsRejected(t *testing.T) {
	ctx := vp8model.New()
	w := NewWriter()
	if err := w.Put(true, &ctx); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("first Finish: %v", err)
	}
	if err := w.Finish(); !errors.Is(err, cabac.ErrClosed) {
		t.Fatalf("second Finish: want ErrClosed, got %v", err)
	}
	if err := w.Put(false, &ctx); !errors.Is(err, cabac.ErrClosed) {
		t.Fatalf("Put after Finish: want ErrClosed, got %v", err)
	}
	if err := w.PutBypass(false); !errors.Is(err, cabac.ErrClosed) {
		t.Fatalf("PutBypass after Finish: want ErrClosed, got %v", err)
	}
}

// TestAllContexts exercises every possible 16-bit context value through one
// true bit, one false bit, and two bypass bits, then decodes the resulting
// stream back and checks every bit matches.
func TestAllContexts(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive 65536-context sweep skipped in -short mode")
	}

	contexts := make([]vp8model.Context, 65536)
	for i := range contexts {
		contexts[i] = vp8model.Context(i)
	}

	w := NewWriter()
	for i := range contexts {
		w.Put(true, &contexts[i])
		w.Put(false, &contexts[i])
		w.PutBypass(true)
		w.PutBypass(false)
	}
	w.Finish()

	for i := range contexts {
		contexts[i] = vp8model.Context(i)
	}

	r := NewReader(w.Bytes())
	for i := range contexts {
		if bit, _ := r.Get(&contexts[i]); bit != true {
			t.Fatalf("i=%d: expected true", i)
		}
		if bit, _ := r.Get(&contexts[i]); bit != false {
			t.Fatalf("i=%d: expected false", i)
		}
		if bit, _ := r.GetBypass(); bit != true {
			t.Fatalf("i=%d: expected bypass true", i)
		}
		if bit, _ := r.GetBypass(); bit != false {
			t.Fatalf("i=%d: expected bypass false", i)
		}
	}
}

func setBits(w *Writer, ctx *vp8model.Context, pattern uint64, numBits, bypassIndex int) {
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

func checkBits(t *testing.T, r *Reader, ctx *vp8model.Context, pattern uint64, numBits, bypassIndex int) {
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
	ctx := vp8model.New()
	w := NewWriter()
	setBits(w, &ctx, pattern, numBits, bypassIndex)

	ctx = vp8model.New()
	r := NewReader(w.Bytes())
	checkBits(t, r, &ctx, pattern, numBits, bypassIndex)
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
