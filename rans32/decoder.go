package rans32

import (
	"github.com/thesyncim/cabac/bio"
	"github.com/thesyncim/cabac/vp8model"
)

// Reader decodes a stream coded by Writer. Because a rANS block's final
// (possibly short) size determines which physical state decodes which
// symbol, and the wire format carries no per-block length header, a
// Reader must be told the total number of symbols to expect up front:
// that is the one piece of information this coder's bitstream format
// cannot recover on its own, and this module's other coders don't need
// it because they carry no block structure at all.
type Reader struct {
	in           *bio.Reader
	totalSymbols int
	consumed     int

	s0, s1    uint32
	blockN    int
	blockNext int
}

// NewReader constructs a Reader over buf, expecting exactly totalSymbols
// Get/GetBypass calls before the stream is exhausted.
func NewReader(buf []byte, totalSymbols int) *Reader {
	r := &Reader{in: bio.NewReader(buf), totalSymbols: totalSymbols}
	r.startBlock()
	return r
}

func (r *Reader) startBlock() {
	n := BlockSize
	if remaining := r.totalSymbols - r.consumed; remaining < BlockSize {
		n = remaining
	}
	r.blockN = n
	r.blockNext = 0

	lo0 := r.in.ReadUint16LE()
	hi0 := r.in.ReadUint16LE()
	lo1 := r.in.ReadUint16LE()
	hi1 := r.in.ReadUint16LE()
	r.s0 = uint32(lo0) | uint32(hi0)<<16
	r.s1 = uint32(lo1) | uint32(hi1)<<16
}

func (r *Reader) refill() uint16 {
	return r.in.ReadUint16LE()
}

func (r *Reader) nextBit(prob uint8) bool {
	if r.blockN > 0 && r.blockNext == r.blockN {
		r.startBlock()
	}

	var bit bool
	if assignState(r.blockNext, r.blockN) {
		bit = decodeSym(&r.s0, prob, r.refill)
	} else {
		bit = decodeSym(&r.s1, prob, r.refill)
	}

	r.blockNext++
	r.consumed++
	return bit
}

// Get decodes one bit against ctx, then updates ctx in place.
func (r *Reader) Get(ctx *vp8model.Context) (bool, error) {
	bit := r.nextBit(ctx.Probability())
	*ctx = ctx.Update(bit)
	return bit, nil
}

// GetBypass decodes one bit at a fixed 1/2 probability.
func (r *Reader) GetBypass() (bool, error) {
	return r.nextBit(128), nil
}
