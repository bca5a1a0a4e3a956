package fpaq0p

import (
	"github.com/thesyncim/cabac"
	"github.com/thesyncim/cabac/vp8model"
)

// Writer is one lane of a parallel-coded stream: a standalone fpaq0
// interval that reserves its output bytes in out instead of writing them
// directly, so many lanes can share one output stream.
type Writer struct {
	out      *EncoderOutput
	xl       uint32
	xr       uint32
	id       byte
	finished bool
}

// NewWriter registers a new lane with id against out, reserving its first
// four output slots up front. id must be unique among the lanes sharing
// out; a decoder must construct its Readers in the same order the Writers
// were constructed for the bytes to line up.
func NewWriter(out *EncoderOutput, id byte) *Writer {
	for i := 0; i < 4; i++ {
		out.pushReserved(id)
	}
	return &Writer{out: out, xl: 0, xr: 0xffffffff, id: id}
}

func (w *Writer) flushBits() {
	for (w.xl^w.xr)&0xff000000 == 0 {
		b := byte(w.xr >> 24)
		w.out.commit(w.id, b, true)
		w.xl <<= 8
		w.xr = (w.xr << 8) | 0xff
	}
}

// Put encodes bit against ctx, then updates ctx in place.
func (w *Writer) Put(bit bool, ctx *vp8model.Context) error {
	if w.finished {
		return cabac.ErrClosed
	}
	xm := w.xl + ((w.xr-w.xl)>>8)*uint32(ctx.Probability())

	if !bit {
		w.xr = xm
	} else {
		w.xl = xm + 1
	}

	*ctx = ctx.Update(bit)
	w.flushBits()
	return nil
}

// PutBypass encodes bit at a fixed 1/2 probability.
func (w *Writer) PutBypass(bit bool) error {
	if w.finished {
		return cabac.ErrClosed
	}
	xm := w.xl + (((w.xr - w.xl) & 0xffffff00) >> 1)

	if !bit {
		w.xr = xm
	} else {
		w.xl = xm + 1
	}

	w.flushBits()
	return nil
}

// Finish drains this lane's final interval byte plus three trailing zero
// bytes into its reserved slots, without reserving any further slots.
// Calling Finish more than once returns cabac.ErrClosed.
func (w *Writer) Finish() error {
	if w.finished {
		return cabac.ErrClosed
	}
	w.finished = true
	b := byte(w.xr >> 24)
	for i := 0; i < 4; i++ {
		w.out.commit(w.id, b, false)
		b = 0
	}
	return nil
}
