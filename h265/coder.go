// Package h265 implements the H.264/H.265 CABAC arithmetic coder, driven
// by h265model.Context states.
//
// Ported from libde265's CABAC engine (see the license banner carried in
// h265model).
package h265

import (
	"github.com/thesyncim/cabac"
	"github.com/thesyncim/cabac/bio"
	"github.com/thesyncim/cabac/h265model"
)

// Writer encodes a CABAC bit stream.
type Writer struct {
	out              *bio.Writer
	low              uint32
	rng              uint32
	bufferedByte     uint32
	numBufferedBytes int32
	bitsLeft         int32
	finished         bool
}

// NewWriter returns a Writer that buffers coded output in memory.
func NewWriter() *Writer {
	return &Writer{
		out:          bio.NewWriter(),
		low:          0,
		rng:          510,
		bitsLeft:     23,
		bufferedByte: 0xff,
	}
}

// Bytes returns the coded output buffered so far. Call Finish first.
func (w *Writer) Bytes() []byte { return w.out.Bytes() }

// PutBypass encodes bit at a fixed 1/2 probability.
func (w *Writer) PutBypass(bit bool) error {
	if w.finished {
		return cabac.ErrClosed
	}
	w.low <<= 1
	if bit {
		w.low += w.rng
	}

	w.bitsLeft--
	if w.bitsLeft < 12 {
		w.flushCompleted()
	}
	return nil
}

// Put encodes bit against ctx, then updates ctx in place.
func (w *Writer) Put(bit bool, ctx *h265model.Context) error {
	if w.finished {
		return cabac.ErrClosed
	}
	lps := ctx.LPS(uint8(w.rng >> 6))
	w.rng -= uint32(lps)

	if bit != ctx.MPS() {
		numBits := h265model.RenormTable[lps>>3]
		w.low = (w.low + w.rng) << numBits
		w.rng = uint32(lps) << numBits

		ctx.UpdateLPS()
		w.bitsLeft -= int32(numBits)
	} else {
		ctx.UpdateMPS()

		if w.rng >= 256 {
			return nil
		}

		w.low <<= 1
		w.rng <<= 1
		w.bitsLeft--
	}

	if w.bitsLeft < 12 {
		w.flushCompleted()
	}
	return nil
}

func (w *Writer) flushCompleted() {
	leadByte := w.low >> uint32(24-w.bitsLeft)
	w.bitsLeft += 8
	w.low &= 0xffffffff >> uint32(w.bitsLeft)

	switch {
	case leadByte == 0xff:
		w.numBufferedBytes++
	case w.numBufferedBytes > 0:
		carry := leadByte >> 8
		byt := w.bufferedByte + carry
		w.bufferedByte = leadByte & 0xff

		w.out.WriteByte(byte(byt))

		byt = (0xff + carry) & 0xff
		for w.numBufferedBytes > 1 {
			w.out.WriteByte(byte(byt))
			w.numBufferedBytes--
		}
	default:
		w.numBufferedBytes = 1
		w.bufferedByte = leadByte
	}
}

// Finish flushes the buffered carry chain and drains the remaining low
// bits, rounding up to a final byte boundary. Calling Finish more than
// once returns cabac.ErrClosed.
func (w *Writer) Finish() error {
	if w.finished {
		return cabac.ErrClosed
	}
	w.finished = true
	if w.low>>uint32(32-w.bitsLeft) != 0 {
		w.out.WriteByte(byte(w.bufferedByte + 1))
		for w.numBufferedBytes > 1 {
			w.out.WriteByte(0x00)
			w.numBufferedBytes--
		}
		w.low -= 1 << uint32(32-w.bitsLeft)
	} else {
		if w.numBufferedBytes > 0 {
			w.out.WriteByte(byte(w.bufferedByte))
		}
		for w.numBufferedBytes > 1 {
			w.out.WriteByte(0xff)
			w.numBufferedBytes--
		}
	}

	bitsRem := 32 - w.bitsLeft
	data := w.low
	for bitsRem >= 8 {
		w.out.WriteByte(byte(data >> uint32(bitsRem-8)))
		bitsRem -= 8
	}
	if bitsRem > 0 {
		w.out.WriteByte(byte(data << uint32(8-bitsRem)))
	}
	return nil
}

// Reader decodes a CABAC bit stream.
type Reader struct {
	in         *bio.Reader
	value      uint32
	rng        uint32
	bitsNeeded int32
}

// NewReader wraps buf for decoding, consuming the two-byte header every
// CABAC stream starts with.
func NewReader(buf []byte) *Reader {
	in := bio.NewReader(buf)
	r := &Reader{
		in:         in,
		rng:        510,
		bitsNeeded: 8,
	}
	r.value = uint32(in.ReadByte())<<8 | uint32(in.ReadByte())
	r.bitsNeeded -= 16
	return r
}

// GetBypass decodes one bit at a fixed 1/2 probability.
func (r *Reader) GetBypass() (bool, error) {
	r.value <<= 1
	r.bitsNeeded++

	if r.bitsNeeded >= 0 {
		r.bitsNeeded = -8
		r.value |= uint32(r.in.ReadByte())
	}

	scaledRange := r.rng << 7
	if r.value < scaledRange {
		return false, nil
	}
	r.value -= scaledRange
	return true, nil
}

// Get decodes one bit against ctx, then updates ctx in place.
func (r *Reader) Get(ctx *h265model.Context) (bool, error) {
	rng := r.rng
	value := r.value

	lps := ctx.LPS(uint8(rng >> 6))
	rng -= uint32(lps)

	scaledRange := rng << 7

	var bit bool
	if value < scaledRange {
		// MPS path
		bit = ctx.MPS()
		ctx.UpdateMPS()

		if scaledRange < (256 << 7) {
			rng = scaledRange >> 6
			value <<= 1
			r.bitsNeeded++

			if r.bitsNeeded == 0 {
				r.bitsNeeded = -8
				value |= uint32(r.in.ReadByte())
			}
		}
	} else {
		// LPS path
		value -= scaledRange

		numBits := h265model.RenormTable[lps>>3]
		value <<= numBits
		rng = uint32(lps) << numBits

		bit = !ctx.MPS()
		ctx.UpdateLPS()

		r.bitsNeeded += int32(numBits)
		if r.bitsNeeded >= 0 {
			value |= uint32(r.in.ReadByte()) << uint32(r.bitsNeeded)
			r.bitsNeeded -= 8
		}
	}

	r.rng = rng
	r.value = value
	return bit, nil
}
