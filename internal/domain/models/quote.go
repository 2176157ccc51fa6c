package models

import "time"

// NightCharge is the per-night audit line of a room quote. TotalRate stays
// unrounded; only the room total is rounded.
type NightCharge struct {
	Night       int     `json:"night"`
	Date        string  `json:"date"`
	Season      string  `json:"season"`
	BaseRate    float64 `json:"baseRate"`
	TotalRate   float64 `json:"totalRate"`
	RateMissing bool    `json:"rateMissing,omitempty"`
}

// RoomQuote is the priced result for one requested room.
type RoomQuote struct {
	RoomIndex int           `json:"roomIndex"`
	Type      string        `json:"type"`
	Nights    []NightCharge `json:"nights"`
	Total     float64       `json:"total"`
}

// QuoteTotals aggregates room totals into the final taxed amount.
type QuoteTotals struct {
	RoomQuotes         []RoomQuote `json:"roomQuotes"`
	Subtotal           float64     `json:"subtotal"`
	DiscountedSubtotal float64     `json:"discountedSubtotal"`
	GSTRate            float64     `json:"gstRate"`
	GST                float64     `json:"gst"`
	FinalTotal         float64     `json:"finalTotal"`
	AvgNightlyRoomRate float64     `json:"avgNightlyRoomRate"`
	Nights             int         `json:"nights"`
	OverallDiscount    float64     `json:"overallDiscount"`
	// NearThreshold flags an average nightly rate within (7000, 7500]:
	// close enough to the higher GST bracket to warrant a manual look.
	// Informational only, no effect on totals.
	NearThreshold bool `json:"nearThreshold,omitempty"`
}

// Quote is a generated quote attached to a lead. Quotes are append-only.
type Quote struct {
	ID            string        `bson:"id" json:"id"`
	Rooms         []RoomRequest `bson:"rooms" json:"rooms"`
	MealPlans     []MealPlan    `bson:"meal_plans" json:"mealPlans"`
	TotalAmount   float64       `bson:"total_amount" json:"totalAmount"`
	AdvanceAmount float64       `bson:"advance_amount" json:"advanceAmount"`
	QuoteText     string        `bson:"quote_text" json:"quoteText"`
	CreatedAt     time.Time     `bson:"created_at" json:"createdAt"`
}
