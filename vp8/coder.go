// Package vp8 implements the VP8/WebM boolean arithmetic coder, as used by
// the JPEG Lepton compressor: a carry-propagating range coder driven by
// vp8model.Context probabilities.
//
// Ported from the VP8/WebM boolean coder (see the BSD-style license banner
// carried in vp8model), generalized from a Rust Read/Write pair into the
// bio.Reader/bio.Writer primitives shared across this module.
//
// Copyright (c) 2010 The WebM project authors. All Rights Reserved.
package vp8

import (
	"math/bits"

	"github.com/thesyncim/cabac"
	"github.com/thesyncim/cabac/bio"
	"github.com/thesyncim/cabac/vp8model"
)

const (
	bitsInByte              = 8
	bitsInLong              = 64
	bitsInLongMinusLastByte = bitsInLong - bitsInByte
)

// Reader decodes a VP8-coded bit stream.
type Reader struct {
	in    *bio.Reader
	value uint64
	rng   uint32
	count int32
}

// NewReader wraps buf for decoding. The first bit of every VP8 stream is a
// marker bit written by NewWriter and is consumed here so callers never
// see it.
func NewReader(buf []byte) *Reader {
	r := &Reader{
		in:    bio.NewReader(buf),
		value: 0,
		count: -8,
		rng:   255,
	}
	r.fill(&r.value, &r.count)

	dummy := vp8model.New()
	r.Get(&dummy)
	return r
}

func (r *Reader) fill(value *uint64, count *int32) {
	shift := bitsInLongMinusLastByte - (*count + bitsInByte)
	for shift >= 0 {
		b := r.in.ReadByte()
		*value |= uint64(b) << uint(shift)
		shift -= bitsInByte
		*count += bitsInByte
	}
}

// Get decodes one bit against ctx, then updates ctx in place.
func (r *Reader) Get(ctx *vp8model.Context) (bool, error) {
	tmpValue := r.value
	tmpRange := r.rng
	tmpCount := r.count

	if tmpCount < 0 {
		r.fill(&tmpValue, &tmpCount)
	}

	probability := uint32(ctx.Probability())
	split := 1 + (((tmpRange - 1) * probability) >> bitsInByte)
	bigSplit := uint64(split) << bitsInLongMinusLastByte
	bit := tmpValue >= bigSplit

	newCtx := ctx.Update(bit)

	var shift int32
	if bit {
		tmpRange -= split
		tmpValue -= bigSplit
		shift = int32(bits.LeadingZeros32(tmpRange)) - 24
	} else {
		tmpRange = split
		shift = int32(bits.LeadingZeros32(split)) - 24
	}

	*ctx = newCtx
	r.value = tmpValue << uint(shift)
	r.rng = tmpRange << uint(shift)
	r.count = tmpCount - shift
	return bit, nil
}

// GetBypass decodes one bit at a fixed 1/2 probability.
func (r *Reader) GetBypass() (bool, error) {
	tmpValue := r.value
	tmpRange := r.rng
	tmpCount := r.count

	if tmpCount < 0 {
		r.fill(&tmpValue, &tmpCount)
	}

	split := 1 + (tmpRange >> 1)
	bigSplit := uint64(split) << bitsInLongMinusLastByte
	bit := tmpValue >= bigSplit

	var shift int32
	if bit {
		tmpRange -= split
		tmpValue -= bigSplit
		shift = int32(bits.LeadingZeros32(tmpRange)) - 24
	} else {
		tmpRange = split
		shift = int32(bits.LeadingZeros32(split)) - 24
	}

	r.value = tmpValue << uint(shift)
	r.rng = tmpRange << uint(shift)
	r.count = tmpCount - shift
	return bit, nil
}

// Writer encodes a VP8-coded bit stream.
type Writer struct {
	out              *bio.Writer
	lowValue         uint32
	rng              uint32
	bitsLeft         int32
	numBufferedBytes uint32
	bufferedByte     uint8
	finished         bool
}

// NewWriter returns a Writer that buffers coded output in memory. Call
// Finish and then Bytes once all bits have been coded.
func NewWriter() *Writer {
	w := &Writer{
		out:      bio.NewWriter(),
		lowValue: 0,
		rng:      255,
		bitsLeft: -24,
	}
	dummy := vp8model.New()
	w.Put(false, &dummy)
	return w
}

// Bytes returns the coded output buffered so far. Call Finish first.
func (w *Writer) Bytes() []byte { return w.out.Bytes() }

// Put encodes bit against ctx, then updates ctx in place.
func (w *Writer) Put(bit bool, ctx *vp8model.Context) error {
	if w.finished {
		return cabac.ErrClosed
	}
	probability := uint32(ctx.Probability())
	tmpRange := w.rng
	split := 1 + (((tmpRange - 1) * probability) >> 8)
	tmpLow := w.lowValue

	newCtx := ctx.Update(bit)

	var shift int32
	if bit {
		tmpLow += split
		tmpRange -= split
		shift = int32(bits.LeadingZeros8(uint8(tmpRange)))
	} else {
		tmpRange = split
		shift = int32(bits.LeadingZeros8(uint8(split)))
	}
	tmpRange <<= uint32(shift)

	tmpCount := w.bitsLeft + shift
	if tmpCount >= 0 {
		w.sendToOutput(&shift, &tmpCount, &tmpLow)
	}
	tmpLow <<= uint32(shift)

	*ctx = newCtx
	w.bitsLeft = tmpCount
	w.lowValue = tmpLow
	w.rng = tmpRange
	return nil
}

// PutBypass encodes bit at a fixed 1/2 probability.
func (w *Writer) PutBypass(bit bool) error {
	if w.finished {
		return cabac.ErrClosed
	}
	tmpRange := w.rng
	split := 1 + (tmpRange >> 1)
	tmpLow := w.lowValue

	var shift int32
	if bit {
		tmpLow += split
		tmpRange -= split
		shift = int32(bits.LeadingZeros8(uint8(tmpRange)))
	} else {
		tmpRange = split
		shift = int32(bits.LeadingZeros8(uint8(split)))
	}
	tmpRange <<= uint32(shift)

	tmpCount := w.bitsLeft + shift
	if tmpCount >= 0 {
		w.sendToOutput(&shift, &tmpCount, &tmpLow)
	}
	tmpLow <<= uint32(shift)

	w.bitsLeft = tmpCount
	w.lowValue = tmpLow
	w.rng = tmpRange
	return nil
}

func (w *Writer) sendToOutput(shift, tmpCount *int32, tmpLow *uint32) {
	offset := *shift - *tmpCount
	lastByte := *tmpLow >> uint32(24-offset)

	if lastByte&0x100 != 0 {
		w.flushBufferedBytes(1)
	}

	lb := uint8(lastByte)
	if lb == 0xff {
		w.numBufferedBytes++
	} else {
		w.flushBufferedBytes(0)
		w.bufferedByte = lb
		w.numBufferedBytes = 1
	}

	*tmpLow <<= uint32(offset)
	*shift = *tmpCount
	*tmpLow &= 0xffffff
	*tmpCount -= 8
}

func (w *Writer) flushBufferedBytes(carry uint8) {
	if w.numBufferedBytes > 0 {
		w.out.WriteByte(w.bufferedByte + carry)
		w.numBufferedBytes--
		for w.numBufferedBytes > 0 {
			w.out.WriteByte(0xff + carry)
			w.numBufferedBytes--
		}
	}
}

// Finish pads the stream with bypass zero bits until the carry chain can
// no longer propagate, then flushes any buffered bytes. Calling Finish
// more than once returns cabac.ErrClosed.
func (w *Writer) Finish() error {
	if w.finished {
		return cabac.ErrClosed
	}
	for w.lowValue > 0 {
		w.PutBypass(false)
	}
	w.flushBufferedBytes(0)
	w.finished = true
	return nil
}
