package quotes

import (
	"strings"
	"testing"
	"time"

	"github.com/grandresort/crm/internal/domain/models"
)

func sampleRequest() models.BookingRequest {
	return models.BookingRequest{
		ClientName:   "Rahul",
		Mobile:       "9876543210",
		CheckinDate:  time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		CheckoutDate: time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC),
		Rooms: []models.RoomRequest{
			{Type: "Standard", Adults: 2, Children: 0, HasAC: true},
		},
		MealPlans: []models.MealPlan{models.MealPlanCP},
	}
}

func sampleTotals() models.QuoteTotals {
	return models.QuoteTotals{
		RoomQuotes:         []models.RoomQuote{{Type: "Standard", Total: 6400}},
		Subtotal:           6400,
		DiscountedSubtotal: 6400,
		GSTRate:            0.12,
		GST:                768,
		FinalTotal:         7168,
		AvgNightlyRoomRate: 3200,
		Nights:             2,
	}
}

func TestRenderQuoteMessageSections(t *testing.T) {
	text := NewRenderer().RenderQuoteMessage(sampleRequest(), sampleTotals())

	for _, want := range []string{
		"Dear Rahul,",
		"• Guest Name: Rahul",
		"• Mobile: 9876543210",
		"• Check-in: 10 Jan 2024",
		"• Check-out: 12 Jan 2024",
		"• Duration: 2 night(s)",
		"• Meal Plan: Continental Plan (Breakfast)",
		"Room 1: Standard (AC) - 2 Adult(s), 0 Child(ren) = ₹6,400",
		"• Room Charges: ₹6,400",
		"• GST (12%): ₹768",
		"• *Total Amount: ₹7,168*",
		"*This quote is valid for 48 hours from the date of generation.*",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered quote missing %q", want)
		}
	}
}

func TestRenderQuoteMessageAdvanceSplit(t *testing.T) {
	text := NewRenderer().RenderQuoteMessage(sampleRequest(), sampleTotals())

	// 30% of 7168 rounds to 2150; balance is the remainder.
	if !strings.Contains(text, "• Advance: ₹2,150 (30%)") {
		t.Error("advance line missing or wrong")
	}
	if !strings.Contains(text, "• Balance: ₹5,018 (at check-in)") {
		t.Error("balance line missing or wrong")
	}
}

func TestRenderQuoteMessageOmitsZeroDiscount(t *testing.T) {
	text := NewRenderer().RenderQuoteMessage(sampleRequest(), sampleTotals())
	if strings.Contains(text, "Discount") {
		t.Error("discount line must be omitted when the overall discount is zero")
	}
}

func TestRenderQuoteMessageDiscountLine(t *testing.T) {
	totals := sampleTotals()
	totals.OverallDiscount = 10
	totals.DiscountedSubtotal = 5760
	totals.GST = 691
	totals.FinalTotal = 6451

	text := NewRenderer().RenderQuoteMessage(sampleRequest(), totals)
	if !strings.Contains(text, "• Discount (10%): -₹640") {
		t.Error("discount line missing or wrong for a 10% overall discount")
	}
}

func TestRenderQuoteMessageHighGSTBracket(t *testing.T) {
	totals := sampleTotals()
	totals.GSTRate = 0.18

	text := NewRenderer().RenderQuoteMessage(sampleRequest(), totals)
	if !strings.Contains(text, "• GST (18%):") {
		t.Error("GST label must follow the bracket in the totals")
	}
}

func TestRenderQuoteMessageRoomOnlyFallback(t *testing.T) {
	req := sampleRequest()
	req.MealPlans = nil

	text := NewRenderer().RenderQuoteMessage(req, sampleTotals())
	if !strings.Contains(text, "• Meal Plan: Room Only") {
		t.Error("missing meal plans must render as Room Only")
	}
}

func TestRenderQuoteMessageTotalFunction(t *testing.T) {
	// Empty request, empty totals: must still produce the template.
	text := NewRenderer().RenderQuoteMessage(models.BookingRequest{}, models.QuoteTotals{})
	if !strings.Contains(text, "GRAND RESORT MAHABALESHWAR") {
		t.Error("renderer must not fail on zero-value inputs")
	}
}
