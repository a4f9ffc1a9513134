package main

import (
	"testing"

	"twentyone-lite/card"
	"twentyone-lite/twentyone"
)

func TestHandString_HiddenCardsMasked(t *testing.T) {
	h := twentyone.HandView{Cards: []card.Card{card.MustParse("7d")}, Value: 7, Count: 2, Hidden: true}
	if got := handString(h); got != "?? 7♦" {
		t.Fatalf("unexpected hidden hand %q", got)
	}
	h = twentyone.HandView{Cards: []card.Card{card.MustParse("Ah"), card.MustParse("Kd")}, Value: 21, Count: 2}
	if got := handString(h); got != "A♥ K♦  (21)" {
		t.Fatalf("unexpected hand %q", got)
	}
}
