// Package fpaq0 implements a carry-free binary arithmetic coder, as used
// by Ilia Muraviev and Matt Mahoney's fpaq0.
//
// Unlike vp8 and h265, fpaq0 never needs to propagate a carry into
// previously emitted bytes: whenever the top byte of the interval's low
// and high bounds agree, that byte can be emitted immediately and is
// final. This is the property fpaq0p exploits to interleave several
// independent encoders into one output stream.
//
// The technique traces back to F. Rubin, "Arithmetic Stream Coding Using
// Fixed Precision Registers", IEEE Trans. Information Theory IT-25 (6)
// (1979), and was rediscovered by Muraviev and Mahoney.
package fpaq0

import (
	"github.com/thesyncim/cabac"
	"github.com/thesyncim/cabac/bio"
	"github.com/thesyncim/cabac/vp8model"
)

// Writer encodes a carry-free arithmetic bit stream.
type Writer struct {
	out      *bio.Writer
	xl       uint32
	xr       uint32
	finished bool
}

// NewWriter returns a Writer that buffers coded output in memory.
func NewWriter() *Writer {
	return &Writer{out: bio.NewWriter(), xl: 0, xr: 0xffffffff}
}

// Bytes returns the coded output buffered so far. Call Finish first.
func (w *Writer) Bytes() []byte { return w.out.Bytes() }

func (w *Writer) flushBits() {
	for (w.xl^w.xr)&0xff000000 == 0 {
		w.out.WriteByte(byte(w.xr >> 24))
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

// Finish flushes the final byte of xr and three zero bytes, so a decoder
// constructed with its 4-byte read-ahead window never under-reads. Calling
// Finish more than once returns cabac.ErrClosed.
func (w *Writer) Finish() error {
	if w.finished {
		return cabac.ErrClosed
	}
	w.finished = true
	w.out.WriteByte(byte(w.xr >> 24))
	w.out.WriteByte(0)
	w.out.WriteByte(0)
	w.out.WriteByte(0)
	return nil
}

// Reader decodes a carry-free arithmetic bit stream.
type Reader struct {
	in *bio.Reader
	xl uint32
	xr uint32
	x  uint32
}

// NewReader wraps buf for decoding, reading its 4-byte initial window.
func NewReader(buf []byte) *Reader {
	in := bio.NewReader(buf)
	return &Reader{
		in: in,
		xl: 0,
		xr: 0xffffffff,
		x:  in.ReadUint32BE(),
	}
}

func (r *Reader) fillBits() {
	for (r.xl^r.xr)&0xff000000 == 0 {
		r.xl <<= 8
		r.xr = (r.xr << 8) | 0xff
		r.x = (r.x << 8) | uint32(r.in.ReadByte())
	}
}

// Get decodes one bit against ctx, then updates ctx in place.
func (r *Reader) Get(ctx *vp8model.Context) (bool, error) {
	xm := r.xl + ((r.xr-r.xl)>>8)*uint32(ctx.Probability())

	bit := true
	if r.x <= xm {
		r.xr = xm
		bit = false
	} else {
		r.xl = xm + 1
	}

	*ctx = ctx.Update(bit)
	r.fillBits()
	return bit, nil
}

// GetBypass decodes one bit at a fixed 1/2 probability.
func (r *Reader) GetBypass() (bool, error) {
	xm := r.xl + (((r.xr - r.xl) & 0xffffff00) >> 1)

	bit := true
	if r.x <= xm {
		r.xr = xm
		bit = false
	} else {
		r.xl = xm + 1
	}

	r.fillBits()
	return bit, nil
}
