// Package fpaq0p implements a parallel variant of the fpaq0 carry-free
// coder: several independent encoders (one per "lane") interleave their
// output bytes into a single stream with no wire-level signalling,
// relying only on every lane reserving its next output position in program
// order. A decoder reconstructed with lanes registered in the same order
// reads each lane's bytes back out transparently.
//
// Parallelization implements the interleaving scheme from P. G. Howard,
// "Interleaving entropy codes," Proceedings. Compression and Complexity of
// SEQUENCES 1997 (Cat. No.97TB100171), Salerno, Italy, 1997, pp. 45-55.
package fpaq0p

import "github.com/thesyncim/cabac/bio"

// entry is one slot in the output queue: either still reserved for a
// particular lane id, or already committed to a concrete byte value.
type entry struct {
	committed bool
	id        byte
	value     byte
}

// EncoderOutput stitches together the interleaved output of several
// Writer lanes sharing it, draining committed bytes to out strictly in
// the order their slots were first reserved.
type EncoderOutput struct {
	future []entry
	head   int
	out    *bio.Writer
}

// NewEncoderOutput returns an EncoderOutput that buffers its drained bytes
// in memory.
func NewEncoderOutput() *EncoderOutput {
	return &EncoderOutput{out: bio.NewWriter()}
}

// Bytes returns the bytes drained so far. Every lane sharing this
// EncoderOutput must have called Finish before this reflects the whole
// stream.
func (o *EncoderOutput) Bytes() []byte { return o.out.Bytes() }

// Empty reports whether every reserved slot has been committed and
// drained. Once every lane sharing this EncoderOutput has called Finish,
// it reports true.
func (o *EncoderOutput) Empty() bool {
	return o.head >= len(o.future)
}

func (o *EncoderOutput) pushReserved(id byte) {
	o.future = append(o.future, entry{committed: false, id: id})
}

// WriteBypassByte writes a byte directly into the interleaved stream,
// behind every slot already reserved (it is appended at the tail of the
// queue), letting a caller splice raw framing bytes into the middle of a
// parallel-coded stream.
func (o *EncoderOutput) WriteBypassByte(b byte) {
	o.future = append(o.future, entry{committed: true, value: b})
	o.writeReadyBytes()
}

// commit fills lane id's earliest still-reserved slot with value, then
// (if repush) reserves a fresh slot at the tail for that lane's next byte.
func (o *EncoderOutput) commit(id byte, value byte, repush bool) {
	for i := o.head; i < len(o.future); i++ {
		if !o.future[i].committed && o.future[i].id == id {
			o.future[i] = entry{committed: true, value: value}
			break
		}
	}
	if repush {
		o.pushReserved(id)
	}
	o.writeReadyBytes()
}

func (o *EncoderOutput) writeReadyBytes() {
	for o.head < len(o.future) && o.future[o.head].committed {
		o.out.WriteByte(o.future[o.head].value)
		o.head++
	}
}
