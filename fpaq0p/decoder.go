package fpaq0p

import (
	"golang.org/x/sys/cpu"

	"github.com/thesyncim/cabac/bio"
	"github.com/thesyncim/cabac/vp8model"
)

// Reader decodes one lane of a parallel-coded stream. Readers sharing one
// underlying bio.Reader must be constructed in the same order their
// Writers were, so each Reader's initial 4-byte window lines up with the
// bytes its Writer actually reserved.
type Reader struct {
	in *bio.Reader
	xl uint32
	xr uint32
	x  uint32
}

// NewReader constructs a lane reader against the shared input, consuming
// its first four bytes.
func NewReader(in *bio.Reader) *Reader {
	return &Reader{in: in, xl: 0, xr: 0xffffffff, x: in.ReadUint32BE()}
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

// hasWideFastPath reports whether the host has the SIMD feature set this
// package's 4-wide decoder was designed to exploit. Go has no portable way
// to emit real SIMD without cgo or assembly (see SPEC_FULL.md's domain
// stack notes), so ReaderSIMD4 always runs the same scalar arithmetic;
// this only gates which code shape is used, not the result.
func hasWideFastPath() bool {
	return cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD
}

// ReaderSIMD4 decodes four lanes of a parallel-coded stream together. It
// produces bit-identical results to four independent Readers advanced in
// lock-step. When hasWideFastPath reports true it updates all four
// contexts through vp8model.UpdateWide in one call, mirroring a 4-lane SIMD
// decoder's branchless context update; otherwise it updates each lane's
// context individually.
type ReaderSIMD4 struct {
	in   *bio.Reader
	xl   [4]uint32
	xr   [4]uint32
	x    [4]uint32
	wide bool
}

// NewReaderSIMD4 constructs four lane readers against the shared input, in
// order, each consuming its first four bytes before the next lane's.
func NewReaderSIMD4(in *bio.Reader) *ReaderSIMD4 {
	r := &ReaderSIMD4{in: in, wide: hasWideFastPath()}
	for i := 0; i < 4; i++ {
		r.xl[i] = 0
		r.xr[i] = 0xffffffff
		r.x[i] = in.ReadUint32BE()
	}
	return r
}

func (r *ReaderSIMD4) fillBits(i int) {
	for (r.xl[i]^r.xr[i])&0xff000000 == 0 {
		r.xl[i] <<= 8
		r.xr[i] = (r.xr[i] << 8) | 0xff
		r.x[i] = (r.x[i] << 8) | uint32(r.in.ReadByte())
	}
}

// Get decodes one bit from each of the four lanes against ctxs, updating
// every context in place. On hosts with a wide fast path, all four
// contexts are updated through one vp8model.UpdateWide call, the shape a
// real 4-lane SIMD update would take; otherwise each lane's context is
// updated individually as it's decoded. Both shapes compute the same
// result, since Go cannot itself vectorize the wide path (see
// hasWideFastPath), but keeping them distinct means r.wide actually
// selects between two code paths instead of being decorative.
func (r *ReaderSIMD4) Get(ctxs *[4]vp8model.Context) ([4]bool, error) {
	var bits [4]bool

	if r.wide {
		for i := 0; i < 4; i++ {
			xm := r.xl[i] + ((r.xr[i]-r.xl[i])>>8)*uint32(ctxs[i].Probability())

			bits[i] = true
			if r.x[i] <= xm {
				bits[i] = false
				r.xr[i] = xm
			} else {
				r.xl[i] = xm + 1
			}
		}
		vp8model.UpdateWide(ctxs, bits)
	} else {
		for i := 0; i < 4; i++ {
			xm := r.xl[i] + ((r.xr[i]-r.xl[i])>>8)*uint32(ctxs[i].Probability())

			bits[i] = true
			if r.x[i] <= xm {
				bits[i] = false
				r.xr[i] = xm
			} else {
				r.xl[i] = xm + 1
			}
			ctxs[i] = ctxs[i].Update(bits[i])
		}
	}

	for i := 0; i < 4; i++ {
		r.fillBits(i)
	}

	return bits, nil
}
