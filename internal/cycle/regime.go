package cycle

// Band is one regime classification bucket over a half-open score range
// [Min, Max); the final band of a cycle also includes its Max so the catalog
// maximum of 100 maps to the last regime.
type Band struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Label       string  `json:"label"`
	LabelKo     string  `json:"label_ko"`
	Description string  `json:"description"`
	Action      string  `json:"action"`
}

func classify(bands []Band, score float64) Band {
	last := len(bands) - 1
	for i, b := range bands {
		if i == last {
			return b
		}
		if score >= b.Min && score < b.Max {
			return b
		}
	}
	return bands[last]
}

var macroBands = []Band{
	{0, 25, "Recession", "경기 침체",
		"Broad activity is contracting and labor demand is weakening.",
		"Favor duration and defensives; stage into risk slowly."},
	{25, 50, "Early Expansion", "회복 초기",
		"Activity is recovering from the trough with inflation still contained.",
		"Add cyclical exposure; early-cycle sectors lead."},
	{50, 75, "Late Expansion", "확장 후기",
		"Growth is solid but capacity and price pressure are building.",
		"Stay invested but trim leverage; watch policy tightening."},
	{75, 100, "Slowdown", "둔화",
		"The economy is running hot while forward momentum rolls over.",
		"Reduce cyclicals; raise quality and cash buffers."},
}

var creditBands = []Band{
	{0, 33, "Credit Crunch", "신용 경색",
		"Spreads are blown out and financing markets are effectively shut.",
		"Avoid levered credit; prioritize liquidity and treasuries."},
	{33, 66, "Neutral", "중립",
		"Credit is available at normal cost; spreads near historical medians.",
		"Hold balanced credit exposure at benchmark weights."},
	{66, 100, "Credit Easing", "신용 완화",
		"Financing is cheap and plentiful; spread compression rewards carry.",
		"Carry trades work; monitor for late-cycle excess."},
}

var sentimentBands = []Band{
	{0, 25, "Panic", "공포",
		"Volatility is extreme and positioning is capitulating.",
		"Contrarian entry zone for staged buying."},
	{25, 50, "Caution", "경계",
		"Markets are jumpy; hedging demand stays elevated.",
		"Keep hedges on; size positions conservatively."},
	{50, 75, "Calm", "안정",
		"Volatility is subdued and risk appetite is normal.",
		"Run normal allocations."},
	{75, 100, "Euphoria", "과열",
		"Volatility is dormant and complacency is widespread.",
		"Cheap hedges; lean against crowded longs."},
}
