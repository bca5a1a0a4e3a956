// Package cabac implements context-adaptive binary arithmetic coding.
//
// cabac provides a family of binary arithmetic coders that share a single
// generic interface: a bit is coded either against an adaptive probability
// context or "bypass" (coded at a fixed 1/2 probability, skipping context
// adaptation entirely). Four coder families are provided, each a separate
// subpackage:
//
//   - vp8: the VP8 boolean coder, with 8-bit saturating-counter contexts.
//   - h265: the HEVC/H.265 CABAC engine, with 6-bit state + MPS contexts.
//   - fpaq0: a carry-free byte-oriented range coder, and fpaq0p, a
//     parallel variant that interleaves N independent encoders into one
//     output stream without any wire-level signalling.
//   - rans32: a dual-state interleaved rANS coder operating over the same
//     8-bit probabilities as vp8 and fpaq0.
//
// debugcoder provides a fifth, non-compressing coder used to validate that
// a caller is presenting the same sequence of contexts to a writer and a
// reader; it is useful in tests but produces no real compression.
//
// All coders implement Writer and Reader, parameterized over their context
// type, so call sites that only need bit-level put/get can be written once
// against the generic interface and switched between coder families without
// change.
//
// It requires no cgo dependencies.
package cabac
