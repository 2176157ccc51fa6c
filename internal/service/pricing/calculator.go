package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/grandresort/crm/internal/domain/models"
)

// ErrInvalidDateRange indicates checkout is not after checkin.
var ErrInvalidDateRange = errors.New("invalid date range: checkout must be after checkin")

// TariffNotFoundError indicates a requested room type has no tariff profile
// in the supplied catalog.
type TariffNotFoundError struct {
	RoomType string
}

func (e *TariffNotFoundError) Error() string {
	return fmt.Sprintf("tariff not found for room type: %s", e.RoomType)
}

const (
	// gstRateThreshold is the average nightly room rate above which the
	// higher GST bracket applies. The boundary value itself takes the lower
	// bracket.
	gstRateThreshold = 7500
	gstRateHigh      = 0.18
	gstRateLow       = 0.12

	// nearThresholdFloor bounds the advisory band (nearThresholdFloor, gstRateThreshold].
	nearThresholdFloor = 7000
)

// Calculator prices multi-room, multi-night stays against a tariff catalog.
// It is stateless and safe for concurrent use.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator wires a calculator instance.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// ComputeQuote prices every room for every night of the stay and aggregates
// the result into taxed totals. Room totals are rounded once from the
// unrounded nightly sum; per-night amounts stay unrounded in the breakdown.
func (c *Calculator) ComputeQuote(rooms []models.RoomRequest, checkin, checkout time.Time, tariffs []models.TariffProfile, overallDiscount float64) (*models.QuoteTotals, error) {
	nights := int(math.Ceil(checkout.Sub(checkin).Hours() / 24))
	if nights <= 0 {
		return nil, ErrInvalidDateRange
	}

	catalog := make(map[string]models.TariffProfile, len(tariffs))
	for _, t := range tariffs {
		if _, ok := catalog[t.RoomType]; !ok {
			catalog[t.RoomType] = t
		}
	}

	roomQuotes := make([]models.RoomQuote, 0, len(rooms))
	var subtotal float64

	for roomIndex, room := range rooms {
		tariff, ok := catalog[room.Type]
		if !ok {
			return nil, &TariffNotFoundError{RoomType: room.Type}
		}

		quote := c.priceRoom(roomIndex, room, tariff, checkin, nights)
		roomQuotes = append(roomQuotes, quote)
		subtotal += quote.Total
	}

	discountedSubtotal := subtotal
	if overallDiscount > 0 {
		discountedSubtotal = subtotal * (1 - overallDiscount/100)
	}

	var avgNightlyRoomRate float64
	if roomNights := len(rooms) * nights; roomNights > 0 {
		avgNightlyRoomRate = discountedSubtotal / float64(roomNights)
	}

	gstRate := gstRateLow
	if avgNightlyRoomRate > gstRateThreshold {
		gstRate = gstRateHigh
	}
	gst := math.Round(discountedSubtotal * gstRate)

	return &models.QuoteTotals{
		RoomQuotes:         roomQuotes,
		Subtotal:           math.Round(subtotal),
		DiscountedSubtotal: math.Round(discountedSubtotal),
		GSTRate:            gstRate,
		GST:                gst,
		FinalTotal:         math.Round(discountedSubtotal + gst),
		AvgNightlyRoomRate: math.Round(avgNightlyRoomRate),
		Nights:             nights,
		OverallDiscount:    overallDiscount,
		NearThreshold:      avgNightlyRoomRate > nearThresholdFloor && avgNightlyRoomRate <= gstRateThreshold,
	}, nil
}

func (c *Calculator) priceRoom(roomIndex int, room models.RoomRequest, tariff models.TariffProfile, checkin time.Time, nights int) models.RoomQuote {
	charges := make([]models.NightCharge, 0, nights)
	var total float64

	for nightIndex := 0; nightIndex < nights; nightIndex++ {
		date := checkin.AddDate(0, 0, nightIndex)

		seasonRate, resolved := ResolveSeasonRate(tariff, date.Month())
		if !resolved {
			// No season data at all: price the night at zero and flag it
			// rather than failing the whole quote.
			c.logger.Warn("no season rates configured, pricing night at zero",
				zap.String("room_type", room.Type),
				zap.String("date", date.Format(models.DateLayout)))
		}

		nightRate := seasonRate.Rate
		if room.HasAC {
			nightRate += tariff.ACCharge
		}
		if room.Adults > 2 {
			nightRate += float64(room.Adults-2) * tariff.ExtraAdultCharge
		}
		if room.Children > 0 {
			nightRate += float64(room.Children) * tariff.ChildCharge
		}

		if discount := nightlyDiscount(room.NightlyDiscounts, nightIndex); discount > 0 {
			nightRate *= 1 - discount/100
		}

		charges = append(charges, models.NightCharge{
			Night:       nightIndex + 1,
			Date:        date.Format(models.DateLayout),
			Season:      seasonRate.Season,
			BaseRate:    seasonRate.Rate,
			TotalRate:   nightRate,
			RateMissing: !resolved,
		})

		total += nightRate
	}

	return models.RoomQuote{
		RoomIndex: roomIndex,
		Type:      room.Type,
		Nights:    charges,
		Total:     math.Round(total),
	}
}

// nightlyDiscount returns the clamped [0,100] discount for a night index,
// treating missing entries as zero.
func nightlyDiscount(discounts []float64, nightIndex int) float64 {
	if nightIndex >= len(discounts) {
		return 0
	}
	d := discounts[nightIndex]
	if d < 0 {
		return 0
	}
	if d > 100 {
		return 100
	}
	return d
}
