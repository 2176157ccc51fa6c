package quotes

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/grandresort/crm/internal/domain/models"
)

// AdvanceFraction is the share of the final total collected as advance.
const AdvanceFraction = 0.3

const displayDateLayout = "02 Jan 2006"

// Renderer formats a booking request plus computed totals into the
// customer-facing quote message. The literal template text is part of the
// external contract: staff copy it verbatim into WhatsApp.
type Renderer struct {
	printer *message.Printer
}

// NewRenderer wires a renderer instance.
func NewRenderer() *Renderer {
	return &Renderer{printer: message.NewPrinter(language.English)}
}

// money renders a currency amount with group separators.
func (r *Renderer) money(v float64) string {
	return r.printer.Sprintf("%d", int64(math.Round(v)))
}

// RenderQuoteMessage emits the fixed-section quote text. Total function: it
// never fails, whatever the request looks like.
func (r *Renderer) RenderQuoteMessage(req models.BookingRequest, totals models.QuoteTotals) string {
	var roomLines []string
	for i, room := range req.Rooms {
		acLabel := "(Non-AC)"
		if room.HasAC {
			acLabel = "(AC)"
		}
		var roomTotal float64
		if i < len(totals.RoomQuotes) {
			roomTotal = totals.RoomQuotes[i].Total
		}
		roomLines = append(roomLines, fmt.Sprintf("Room %d: %s %s - %d Adult(s), %d Child(ren) = ₹%s",
			i+1, room.Type, acLabel, room.Adults, room.Children, r.money(roomTotal)))
	}

	mealPlanText := models.MealPlanLabel(req.MealPlans)
	gstText := fmt.Sprintf("%d%%", int(math.Round(totals.GSTRate*100)))

	discountLine := ""
	if totals.OverallDiscount > 0 {
		discountLine = fmt.Sprintf("• Discount (%g%%): -₹%s\n",
			totals.OverallDiscount, r.money(totals.Subtotal-totals.DiscountedSubtotal))
	}

	advance := math.Round(totals.FinalTotal * AdvanceFraction)
	balance := totals.FinalTotal - advance

	return fmt.Sprintf(`🏨 *GRAND RESORT MAHABALESHWAR* 🏨

Dear %s,

Greetings from Grand Resort Mahabaleshwar!

Thank you for your inquiry. Please find below the quote for your stay:

📋 *BOOKING DETAILS:*
• Guest Name: %s
• Mobile: %s
• Check-in: %s
• Check-out: %s
• Duration: %d night(s)
• Meal Plan: %s

🏠 *ROOM DETAILS:*
%s

💰 *PRICING BREAKDOWN:*
• Room Charges: ₹%s
%s• GST (%s): ₹%s
• *Total Amount: ₹%s*

💳 *PAYMENT TERMS:*
• Advance: ₹%s (30%%)
• Balance: ₹%s (at check-in)

⭐ *INCLUSIONS:*
• Comfortable accommodation as per selection
• %s
• Access to all resort facilities
• Swimming pool, indoor games, outdoor activities
• 24/7 room service
• Free Wi-Fi
• Complimentary parking

📞 *CONTACT DETAILS:*
Grand Resort Mahabaleshwar
📍 [Resort Address]
📞 [Resort Contact Number]
📧 [Resort Email]

⏰ *CHECK-IN/OUT:*
• Check-in: 2:00 PM
• Check-out: 11:00 AM

📌 *TERMS & CONDITIONS:*
• Rates are subject to availability
• Valid ID proof required at check-in
• Cancellation charges as per hotel policy
• Outside food & beverages not allowed
• Peak season rates may apply

For confirmation or any queries, please feel free to contact us.

Looking forward to hosting you at Grand Resort Mahabaleshwar!

Best regards,
Grand Resort Mahabaleshwar Team

---
*This quote is valid for 48 hours from the date of generation.*`,
		req.ClientName,
		req.ClientName,
		req.Mobile,
		req.CheckinDate.Format(displayDateLayout),
		req.CheckoutDate.Format(displayDateLayout),
		totals.Nights,
		mealPlanText,
		strings.Join(roomLines, "\n"),
		r.money(totals.Subtotal),
		discountLine,
		gstText,
		r.money(totals.GST),
		r.money(totals.FinalTotal),
		r.money(advance),
		r.money(balance),
		mealPlanText,
	)
}
