package rans32

import (
	"github.com/thesyncim/cabac"
	"github.com/thesyncim/cabac/bio"
	"github.com/thesyncim/cabac/vp8model"
)

// Writer codes binary symbols against two interleaved 32-bit rANS
// states. Symbols are buffered in program order and only actually coded,
// in reverse, once BlockSize of them have accumulated or Finish is
// called; callers with a latency-sensitive need to see bytes sooner
// should prefer one of this module's other coders.
type Writer struct {
	out      *bio.Writer
	pending  []pendingSymbol
	finished bool
}

// NewWriter returns a Writer that buffers its output in memory.
func NewWriter() *Writer {
	return &Writer{out: bio.NewWriter()}
}

// Put buffers bit for later coding against ctx's current probability,
// then updates ctx in place exactly as if it had been coded immediately.
func (w *Writer) Put(bit bool, ctx *vp8model.Context) error {
	if w.finished {
		return cabac.ErrClosed
	}
	w.pending = append(w.pending, pendingSymbol{bit: bit, prob: ctx.Probability()})
	*ctx = ctx.Update(bit)
	if len(w.pending) == BlockSize {
		w.flush()
	}
	return nil
}

// PutBypass buffers bit for later coding at a fixed 1/2 probability.
func (w *Writer) PutBypass(bit bool) error {
	if w.finished {
		return cabac.ErrClosed
	}
	w.pending = append(w.pending, pendingSymbol{bit: bit, prob: 128})
	if len(w.pending) == BlockSize {
		w.flush()
	}
	return nil
}

// Finish flushes any buffered symbols shorter than a full block. Calling
// Finish more than once returns cabac.ErrClosed.
func (w *Writer) Finish() error {
	if w.finished {
		return cabac.ErrClosed
	}
	w.finished = true
	if len(w.pending) > 0 {
		w.flush()
	}
	return nil
}

// Bytes returns the coded output accumulated so far. A caller must call
// Finish first to drain any partially filled block.
func (w *Writer) Bytes() []byte {
	return w.out.Bytes()
}

// flush codes the whole pending buffer as one block: both states start
// fresh at ransL, symbols are folded in from the end of the buffer
// backward (alternating which state receives each one per assignState),
// then both final states and every renormalization word are written out
// in the order a matching Reader consumes them.
func (w *Writer) flush() {
	n := len(w.pending)
	s0, s1 := ransL, ransL

	var emitted []uint16
	emit := func(v uint16) { emitted = append(emitted, v) }

	for i := n - 1; i >= 0; i-- {
		if assignState(i, n) {
			encodeSym(&s0, w.pending[i], emit)
		} else {
			encodeSym(&s1, w.pending[i], emit)
		}
	}

	// emitted was built in the order renormalization actually happened,
	// which runs backward through the block; reversing it gives the
	// order a forward-reading decoder needs to consume it in.
	for l, r := 0, len(emitted)-1; l < r; l, r = l+1, r-1 {
		emitted[l], emitted[r] = emitted[r], emitted[l]
	}

	lo0, hi0 := writeState16(s0)
	lo1, hi1 := writeState16(s1)
	w.out.WriteUint16LE(lo0)
	w.out.WriteUint16LE(hi0)
	w.out.WriteUint16LE(lo1)
	w.out.WriteUint16LE(hi1)
	for _, word := range emitted {
		w.out.WriteUint16LE(word)
	}

	w.pending = w.pending[:0]
}
