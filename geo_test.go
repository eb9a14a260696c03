package main

import (
	"math"
	"testing"

	"gaiaeye/provider"
)

func TestAreaHectaresEquatorialBox(t *testing.T) {
	// 0.1 x 0.1 degrees at the equator is roughly 11.1 x 11.1 km.
	box := provider.BBox{North: 0.1, South: 0, East: 0.1, West: 0}
	got := areaHectares(box)
	want := 12364.0
	if math.Abs(got-want) > 50 {
		t.Errorf("area = %.0f ha, want about %.0f", got, want)
	}
}

func TestAreaHectaresShrinksTowardPole(t *testing.T) {
	equator := areaHectares(provider.BBox{North: 0.1, South: 0, East: 0.1, West: 0})
	north := areaHectares(provider.BBox{North: 60.1, South: 60, East: 0.1, West: 0})
	if north >= equator {
		t.Errorf("box at 60N (%.0f ha) should be smaller than at the equator (%.0f ha)", north, equator)
	}
	// cos(60 deg) = 0.5, so the high-latitude box is about half the area.
	if ratio := north / equator; ratio < 0.45 || ratio > 0.55 {
		t.Errorf("area ratio = %.3f, want about 0.5", ratio)
	}
}
