package h265model

import "testing"

func TestZeroValueIsInitialState(t *testing.T) {
	var c Context
	if c.State() != 0 {
		t.Fatalf("expected state 0, got %d", c.State())
	}
	if c.MPS() != false {
		t.Fatalf("expected MPS false")
	}
}

func TestUpdateMPSIncreasesConfidence(t *testing.T) {
	var c Context
	for i := 0; i < 5; i++ {
		prev := c.State()
		c.UpdateMPS()
		if c.State() < prev {
			t.Fatalf("state should not decrease on repeated MPS, step %d: %d -> %d", i, prev, c.State())
		}
	}
}

func TestUpdateLPSFromState0StaysBounded(t *testing.T) {
	var c Context
	for i := 0; i < 200; i++ {
		c.UpdateLPS()
		if c.State() > 63 {
			t.Fatalf("state escaped 6-bit range: %d", c.State())
		}
	}
}

func TestLPSTableShape(t *testing.T) {
	var c Context
	for q := uint8(0); q < 4; q++ {
		if got := c.LPS(q); got != LPSTable[0][q] {
			t.Fatalf("q=%d: got %d want %d", q, got, LPSTable[0][q])
		}
	}
}
