package scoring

import (
	"testing"

	"github.com/ofcsolver/ofcsolver/arrangement"
	"github.com/ofcsolver/ofcsolver/card"
)

func build(t *testing.T, front, middle, back []string) *arrangement.Arrangement {
	t.Helper()
	a := arrangement.New()
	for i, s := range front {
		if err := a.Place(card.MustParse(s), arrangement.Front, i); err != nil {
			t.Fatalf("place front %s: %v", s, err)
		}
	}
	for i, s := range middle {
		if err := a.Place(card.MustParse(s), arrangement.Middle, i); err != nil {
			t.Fatalf("place middle %s: %v", s, err)
		}
	}
	for i, s := range back {
		if err := a.Place(card.MustParse(s), arrangement.Back, i); err != nil {
			t.Fatalf("place back %s: %v", s, err)
		}
	}
	return a
}

func TestHeadsUpAntisymmetric(t *testing.T) {
	a := build(t, []string{"2C", "2D", "3H"}, []string{"4C", "4D", "4H", "9S", "2S"}, []string{"AS", "KS", "QS", "JS", "TS"})
	b := build(t, []string{"5C", "5D", "7H"}, []string{"6C", "6D", "6H", "8S", "3S"}, []string{"9S", "9D", "9H", "2H", "3C"})
	ab, err := HeadsUp(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := HeadsUp(b, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ab.Total != -ba.Total {
		t.Errorf("HeadsUp(a,b)=%d, HeadsUp(b,a)=%d, want negatives of each other", ab.Total, ba.Total)
	}
}

func TestHeadsUpBothFoulIsZero(t *testing.T) {
	foulA := build(t, []string{"2C", "2D", "2H"}, []string{"3C", "3D", "9H", "JS", "4S"}, []string{"AS", "KS", "QS", "JC", "TS"})
	foulB := build(t, []string{"3C", "3D", "3H"}, []string{"4C", "4D", "9H", "JD", "5S"}, []string{"AC", "KC", "QC", "JH", "TC"})
	b, err := HeadsUp(foulA, foulB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Total != 0 {
		t.Errorf("Total = %d, want 0 when both foul", b.Total)
	}
}

func TestHeadsUpOneFoulPaysSweepPlusRoyalty(t *testing.T) {
	foul := build(t, []string{"2C", "2D", "2H"}, []string{"3C", "3D", "9H", "JS", "4S"}, []string{"AS", "KS", "QS", "JC", "TS"})
	clean := build(t, []string{"7C", "7D", "2H"}, []string{"6C", "6D", "9H", "9D", "5S"}, []string{"AC", "KC", "QC", "JH", "TC"})
	b, err := HeadsUp(clean, foul)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cleanRoyalty, _ := clean.Royalties()
	want := 6 + cleanRoyalty
	if b.Total != want {
		t.Errorf("Total = %d, want %d", b.Total, want)
	}
}

func TestHeadsUpRowWinsAndScoop(t *testing.T) {
	winner := build(t, []string{"7C", "7D", "2H"}, []string{"8C", "8D", "9H", "JD", "5S"}, []string{"AC", "KC", "QC", "JH", "TC"})
	loser := build(t, []string{"2C", "3D", "5H"}, []string{"6C", "6D", "2S", "4H", "9D"}, []string{"3H", "3S", "9S", "9C", "7H"})
	b, err := HeadsUp(winner, loser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.RowWins != 3 {
		t.Errorf("RowWins = %d, want 3 (winner takes every row)", b.RowWins)
	}
	if b.ScoopBonus != 3 {
		t.Errorf("ScoopBonus = %d, want 3", b.ScoopBonus)
	}
}

func TestMultiwaySumsToZero(t *testing.T) {
	a := build(t, []string{"2C", "2D", "3H"}, []string{"4C", "4D", "4H", "9S", "2S"}, []string{"AS", "KS", "QS", "JS", "TS"})
	b := build(t, []string{"5C", "5D", "7H"}, []string{"6C", "6D", "6H", "8S", "3S"}, []string{"9S", "9D", "9H", "2H", "3C"})
	c := build(t, []string{"8C", "8D", "KH"}, []string{"TC", "TD", "TH", "7S", "2H"}, []string{"6S", "6D", "6H", "4D", "4H"})
	totals, err := Multiway([]*arrangement.Arrangement{a, b, c})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := 0
	for _, v := range totals {
		sum += v
	}
	if sum != 0 {
		t.Errorf("multiway totals summed to %d, want 0 (zero-sum settlement)", sum)
	}
}
