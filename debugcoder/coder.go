// Package debugcoder implements a non-compressing Writer/Reader pair that
// tags every coded bit with the identity of the context it was coded
// against. It exists purely to catch a specific class of bug in code that
// drives one of this module's real coders: passing a different context
// variable (or the same variable in a different order) to Get than was
// passed to the matching Put. A real coder's wire format carries no such
// information, so that mistake silently decodes the wrong bits instead of
// failing; debugcoder fails loudly instead, at the cost of a 5-byte
// overhead per bit.
//
// Ported from the debug reader/writer pair in the reference cabac
// implementation this module is distilled from.
package debugcoder

import (
	"github.com/thesyncim/cabac"
	"github.com/thesyncim/cabac/bio"
)

// Context identifies a single probability slot by an ever-increasing
// counter rather than by an actual probability. The zero value means
// "not yet assigned"; the first Put or Get against it claims the next
// counter value from its coder.
type Context struct {
	value uint32
}

// New returns an unassigned Context.
func New() Context {
	return Context{}
}

// bypassTag marks a bypass-coded bit in the stream in place of a context
// identity, since bypass bits have no context to verify.
const bypassTag = 0xdead

// Writer tags every coded bit with its context's identity so a matching
// Reader can assert it is being driven in the same order.
type Writer struct {
	out      *bio.Writer
	counter  uint32
	finished bool
}

// NewWriter returns a Writer whose first assigned context identity is
// 101; identities below 100 are reserved so a stray zero-valued Context
// is never mistaken for one that's actually been assigned.
func NewWriter() *Writer {
	return &Writer{out: bio.NewWriter(), counter: 100}
}

// Put tags bit with ctx's identity (assigning one if ctx is fresh), then
// reassigns ctx a new identity for its next use.
func (w *Writer) Put(bit bool, ctx *Context) error {
	if w.finished {
		return cabac.ErrClosed
	}
	if ctx.value == 0 {
		w.counter++
		ctx.value = w.counter
	}

	w.out.WriteUint32LE(ctx.value)
	w.counter++
	ctx.value = w.counter

	w.out.WriteByte(boolByte(bit))
	return nil
}

// PutBypass tags bit with the reserved bypass identity.
func (w *Writer) PutBypass(bit bool) error {
	if w.finished {
		return cabac.ErrClosed
	}
	w.out.WriteUint32LE(bypassTag)
	w.out.WriteByte(boolByte(bit))
	return nil
}

// Finish is a no-op beyond marking the writer closed: debugcoder's output
// needs no trailing padding. Calling Finish more than once returns
// cabac.ErrClosed.
func (w *Writer) Finish() error {
	if w.finished {
		return cabac.ErrClosed
	}
	w.finished = true
	return nil
}

// Bytes returns the tagged output accumulated so far.
func (w *Writer) Bytes() []byte {
	return w.out.Bytes()
}

// Reader decodes a stream written by Writer, asserting that every
// non-bypass bit's tagged context identity matches what ctx would have
// been assigned had it been driven through the same sequence of Put
// calls.
type Reader struct {
	in      *bio.Reader
	counter uint32
}

// NewReader constructs a Reader over buf, with counter assignment
// starting in lockstep with a fresh Writer's.
func NewReader(buf []byte) *Reader {
	return &Reader{in: bio.NewReader(buf), counter: 100}
}

// Get decodes the next bit, returning cabac.ErrContextMismatch if the
// stream's tagged context identity does not match ctx's expected one.
func (r *Reader) Get(ctx *Context) (bool, error) {
	if ctx.value == 0 {
		r.counter++
		ctx.value = r.counter
	}

	got := r.in.ReadUint32LE()
	if got != ctx.value {
		return false, cabac.ErrContextMismatch
	}
	r.counter++
	ctx.value = r.counter

	return r.in.ReadByte() != 0, nil
}

// GetBypass decodes the next bypass-coded bit, returning
// cabac.ErrContextMismatch if the stream's tag is not the reserved
// bypass identity.
func (r *Reader) GetBypass() (bool, error) {
	if got := r.in.ReadUint32LE(); got != bypassTag {
		return false, cabac.ErrContextMismatch
	}
	return r.in.ReadByte() != 0, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
