package main

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Economics is a back-of-the-envelope projection from the productivity
// score. Money math runs through decimals so totals survive large areas
// without float drift.
type Economics struct {
	CropType        string  `json:"crop_type"`
	AreaHa          float64 `json:"area_ha"`
	YieldTphPerHa   float64 `json:"yield_tph_per_ha"`
	RevenuePerHa    float64 `json:"revenue_per_ha"`
	CostPerHa       float64 `json:"cost_per_ha"`
	MarginPerHa     float64 `json:"margin_per_ha"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalMargin     float64 `json:"total_margin"`
	ROIPercent      float64 `json:"roi_percent"`
	PriceAssumption float64 `json:"price_per_ton"`
}

type cropBaseline struct {
	yieldTph    float64 // tons per hectare at productivity 100
	pricePerTon float64 // USD
}

var cropBaselines = map[string]cropBaseline{
	"wheat":   {yieldTph: 8.0, pricePerTon: 220},
	"corn":    {yieldTph: 11.0, pricePerTon: 190},
	"rice":    {yieldTph: 7.0, pricePerTon: 380},
	"soybean": {yieldTph: 3.5, pricePerTon: 450},
}

const defaultCrop = "wheat"

// estimateEconomics scales the crop baseline by the productivity score
// (0-100). Unknown crops fall back to wheat. A non-positive productivity
// or cost yields zero ROI rather than dividing by zero.
func estimateEconomics(crop string, productivity, inputCostsPerHa, areaHa float64) Economics {
	key := strings.ToLower(strings.TrimSpace(crop))
	base, ok := cropBaselines[key]
	if !ok {
		key = defaultCrop
		base = cropBaselines[defaultCrop]
	}
	if productivity < 0 {
		productivity = 0
	}

	factor := decimal.NewFromFloat(productivity).Div(decimal.NewFromInt(100))
	yield := decimal.NewFromFloat(base.yieldTph).Mul(factor)
	price := decimal.NewFromFloat(base.pricePerTon)
	revenue := yield.Mul(price)
	cost := decimal.NewFromFloat(inputCostsPerHa)
	margin := revenue.Sub(cost)
	area := decimal.NewFromFloat(areaHa)

	roi := decimal.Zero
	if cost.IsPositive() {
		roi = margin.Div(cost).Mul(decimal.NewFromInt(100))
	}

	return Economics{
		CropType:        key,
		AreaHa:          round2(areaHa),
		YieldTphPerHa:   yield.Round(2).InexactFloat64(),
		RevenuePerHa:    revenue.Round(2).InexactFloat64(),
		CostPerHa:       cost.Round(2).InexactFloat64(),
		MarginPerHa:     margin.Round(2).InexactFloat64(),
		TotalRevenue:    revenue.Mul(area).Round(2).InexactFloat64(),
		TotalMargin:     margin.Mul(area).Round(2).InexactFloat64(),
		ROIPercent:      roi.Round(1).InexactFloat64(),
		PriceAssumption: base.pricePerTon,
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
