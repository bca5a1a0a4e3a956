// Package vp8model implements the VP8 boolean-coder adaptive probability
// context: a pair of 8-bit saturating counters packed into one 16-bit word.
//
// Ported from the VP8/WebM boolean coder as used by the JPEG Lepton
// compressor (see the BSD-style license banner below, carried from the
// original Google VP8 sources).
//
// Copyright (c) 2010 The WebM project authors. All Rights Reserved.
// Use of the algorithm is governed by a BSD-style license; see the VP8
// project's PATENTS and LICENSE files for the full grant.
package vp8model

// Context is the adaptive probability state shared by the vp8, fpaq0, and
// rans32 coders. The low byte counts observed "true" bits, the high byte
// counts observed "false" bits; both start at 1 so the probability of the
// next bit being false is always well-defined and never zero.
type Context uint16

// New returns a Context balanced between zero and one observations.
func New() Context {
	return 0x0101
}

// probLookup[c] is the probability (0 excluded, 1-255) that the next bit
// coded against a context holding counts c will be false. Computed once at
// program start instead of dividing on every coded bit.
var probLookup [65536]uint8

func init() {
	for i := 1; i < 65536; i++ {
		a := i >> 8   // false count
		b := i & 0xff // true count
		p := (a << 8) / (a + b)
		if p == 0 {
			p = 1
		}
		probLookup[i] = uint8(p)
	}
}

// Probability returns the probability (1-255) that the next bit coded
// against c will be false.
func (c Context) Probability() uint8 {
	return probLookup[c]
}

// Update returns the context after observing bit, applying the branchless
// rotate-add-fold counter update: the byte belonging to the observed bit is
// rotated into the high position, incremented there by adding 0x100 to the
// 16-bit word, and folded (halving both counters) whenever it
// would overflow past 0xff — except when the other counter has never been
// observed (still 1), in which case the probability is instead biased all
// the way to its extreme to better compress long monotonic runs.
func (c Context) Update(bit bool) Context {
	rot := uint32(0)
	if bit {
		rot = 8
	}
	orig := uint16(uint32(c)<<rot | uint32(c)>>(16-rot))

	sum := uint32(orig) + 0x100
	if sum > 0xffff {
		mask := uint32(0x8100)
		if orig == 0xff01 {
			mask = 0xff00
		}
		sum = ((uint32(orig) + 0x101) >> 1) | mask
	}

	v := uint16(sum)
	return Context(uint32(v)<<rot | uint32(v)>>(16-rot))
}

// UpdateWide applies Update to all four contexts in ctxs in place, coding
// bit i against ctxs[i] according to bits[i]. It is the scalar-but-batched
// analogue of a 4-lane SIMD context update, used by the fpaq0p package's
// parallel decoder so that four independent lanes can be advanced together
// without four separate branchy calls.
func UpdateWide(ctxs *[4]Context, bits [4]bool) {
	for i := 0; i < 4; i++ {
		ctxs[i] = ctxs[i].Update(bits[i])
	}
}
