package dealer

import "testing"

func TestStandOn_DrawsBelowThresholdOnly(t *testing.T) {
	p := StandOn{Threshold: 17}
	for v := 2; v < 17; v++ {
		if !p.ShouldHit(View{Value: v}) {
			t.Fatalf("expected hit at %d", v)
		}
	}
	for v := 17; v <= 30; v++ {
		if p.ShouldHit(View{Value: v}) {
			t.Fatalf("expected stand at %d", v)
		}
	}
}

func TestStandOn_IgnoresPlayerValue(t *testing.T) {
	p := StandOn{Threshold: 17}
	if p.ShouldHit(View{Value: 18, PlayerValue: 21}) {
		t.Fatalf("dealer must not chase the player's total")
	}
}
