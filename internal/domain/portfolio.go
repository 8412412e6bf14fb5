package domain

// Position is one held symbol revalued at the current quote
type Position struct {
	Symbol string  `json:"symbol"`
	Shares int64   `json:"shares"`
	Price  float64 `json:"price"`
	Value  float64 `json:"value"`
	// PriceUnavailable marks rows whose quote lookup failed. The row is
	// still shown with its share count so a flaky provider does not hide
	// the holding; the user can reload to retry.
	PriceUnavailable bool `json:"price_unavailable"`
}

// Portfolio is the full valuation of an account
type Portfolio struct {
	Positions  []Position `json:"positions"`
	Cash       float64    `json:"cash"`
	GrandTotal float64    `json:"grand_total"`
}
