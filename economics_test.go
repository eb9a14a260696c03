package main

import "testing"

func TestEstimateEconomicsScalesWithProductivity(t *testing.T) {
	e := estimateEconomics("wheat", 75, 500, 10)

	if e.YieldTphPerHa != 6 {
		t.Errorf("yield = %v, want 6", e.YieldTphPerHa)
	}
	if e.RevenuePerHa != 1320 {
		t.Errorf("revenue/ha = %v, want 1320", e.RevenuePerHa)
	}
	if e.MarginPerHa != 820 {
		t.Errorf("margin/ha = %v, want 820", e.MarginPerHa)
	}
	if e.TotalRevenue != 13200 {
		t.Errorf("total revenue = %v, want 13200", e.TotalRevenue)
	}
	if e.ROIPercent != 164 {
		t.Errorf("roi = %v, want 164", e.ROIPercent)
	}
}

func TestEstimateEconomicsUnknownCropFallsBackToWheat(t *testing.T) {
	e := estimateEconomics("dragonfruit", 50, 0, 1)
	if e.CropType != "wheat" {
		t.Errorf("crop = %q, want wheat fallback", e.CropType)
	}
	if e.ROIPercent != 0 {
		t.Errorf("roi with zero costs = %v, want 0", e.ROIPercent)
	}
}

func TestEstimateEconomicsNegativeProductivityClamped(t *testing.T) {
	e := estimateEconomics("corn", -1, 100, 1)
	if e.YieldTphPerHa != 0 {
		t.Errorf("yield for unknown productivity = %v, want 0", e.YieldTphPerHa)
	}
	if e.MarginPerHa != -100 {
		t.Errorf("margin = %v, want -100 (pure cost)", e.MarginPerHa)
	}
}
