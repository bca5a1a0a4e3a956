package vp8model

import "testing"

// originalImplForTest mirrors the reference C++ counter/divide
// implementation that the fast table-driven Update is checked against.
type originalImplForTest struct {
	counts      [2]uint8
	probability uint8
}

func (o *originalImplForTest) trueCount() uint32  { return uint32(o.counts[1]) }
func (o *originalImplForTest) falseCount() uint32 { return uint32(o.counts[0]) }

func (o *originalImplForTest) optimize(sum uint32) uint8 {
	return uint8((o.falseCount() << 8) / sum)
}

func (o *originalImplForTest) recordObsAndUpdate(obs bool) {
	fcount := uint32(o.counts[0])
	tcount := uint32(o.counts[1])

	idx := 0
	if obs {
		idx = 1
	}
	other := 1 - idx

	overflow := o.counts[idx] == 0xff
	if overflow {
		neverSeen := o.counts[other] == 1
		if neverSeen {
			o.counts[idx] = 0xff
			if obs {
				o.probability = 0
			} else {
				o.probability = 255
			}
		} else {
			o.counts[0] = uint8((1 + fcount) >> 1)
			o.counts[1] = uint8((1 + tcount) >> 1)
			o.counts[idx] = 129
			o.probability = o.optimize(uint32(o.counts[0]) + uint32(o.counts[1]))
		}
	} else {
		o.counts[idx]++
		o.probability = o.optimize(fcount + tcount + 1)
	}
}

func TestAllProbabilities(t *testing.T) {
	for i := 0; i < 65536; i++ {
		hi, lo := uint8(i>>8), uint8(i)
		if hi == 0 || lo == 0 {
			continue
		}

		oldF := &originalImplForTest{counts: [2]uint8{hi, lo}}
		newF := Context(i)
		for k := 0; k < 10; k++ {
			oldF.recordObsAndUpdate(false)
			newF = newF.Update(false)
			if oldF.probability != newF.Probability() {
				t.Fatalf("i=%d k=%d false: want %d got %d", i, k, oldF.probability, newF.Probability())
			}
		}

		oldT := &originalImplForTest{counts: [2]uint8{hi, lo}}
		newT := Context(i)
		for k := 0; k < 10; k++ {
			oldT.recordObsAndUpdate(true)
			newT = newT.Update(true)

			if oldT.probability == 0 {
				// the new implementation treats 0 as an internal sentinel
				// (many-trues-in-a-row) and reports probability 1 instead,
				// which makes no difference to split computation.
				if newT.Probability() != 1 {
					t.Fatalf("i=%d k=%d true: want sentinel 1 got %d", i, k, newT.Probability())
				}
			} else if oldT.probability != newT.Probability() {
				t.Fatalf("i=%d k=%d true: want %d got %d", i, k, oldT.probability, newT.Probability())
			}
		}
	}
}

func TestUpdateWideMatchesScalar(t *testing.T) {
	for counts := 0; counts < 65536; counts += 257 {
		c := Context(counts)
		scalar := [4]Context{c, c, c, c}
		scalar[0] = scalar[0].Update(false)
		scalar[1] = scalar[1].Update(true)
		scalar[2] = scalar[2].Update(false)
		scalar[3] = scalar[3].Update(true)

		wide := [4]Context{c, c, c, c}
		UpdateWide(&wide, [4]bool{false, true, false, true})

		if scalar != wide {
			t.Fatalf("counts=%d: scalar %v != wide %v", counts, scalar, wide)
		}
	}
}

func TestNewIsBalanced(t *testing.T) {
	if New().Probability() != 128 {
		t.Fatalf("expected balanced default to be ~128, got %d", New().Probability())
	}
}
