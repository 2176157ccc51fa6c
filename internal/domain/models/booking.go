package models

import "time"

// DateLayout is the wire format for calendar dates across the API and parser.
const DateLayout = "2006-01-02"

// MealPlan enumerates the meal plan options offered with a quote.
type MealPlan string

const (
	MealPlanCP  MealPlan = "CP"
	MealPlanMAP MealPlan = "MAP"
	MealPlanAP  MealPlan = "AP"
)

// MealPlanLabel returns the customer-facing description for the first
// recognized plan, or "Room Only" when none applies.
func MealPlanLabel(plans []MealPlan) string {
	for _, candidate := range []struct {
		plan  MealPlan
		label string
	}{
		{MealPlanCP, "Continental Plan (Breakfast)"},
		{MealPlanMAP, "Modified American Plan (Breakfast + Dinner)"},
		{MealPlanAP, "American Plan (All Meals)"},
	} {
		for _, p := range plans {
			if p == candidate.plan {
				return candidate.label
			}
		}
	}
	return "Room Only"
}

// RoomRequest describes one room line of a booking request.
type RoomRequest struct {
	Type             string    `bson:"type" json:"type"`
	Adults           int       `bson:"adults" json:"adults"`
	Children         int       `bson:"children" json:"children"`
	Infants          int       `bson:"infants" json:"infants"`
	Pets             int       `bson:"pets" json:"pets"`
	HasAC            bool      `bson:"has_ac" json:"hasAC"`
	NightlyDiscounts []float64 `bson:"nightly_discounts" json:"nightlyDiscounts"`
}

// BookingRequest is the full input for quoting a stay.
type BookingRequest struct {
	ClientName      string        `json:"clientName"`
	Mobile          string        `json:"mobile"`
	CheckinDate     time.Time     `json:"checkinDate"`
	CheckoutDate    time.Time     `json:"checkoutDate"`
	Rooms           []RoomRequest `json:"rooms"`
	MealPlans       []MealPlan    `json:"mealPlans"`
	OverallDiscount float64       `json:"overallDiscount"`
	Notes           string        `json:"notes"`
}
