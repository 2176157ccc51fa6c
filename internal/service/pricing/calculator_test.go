package pricing

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/grandresort/crm/internal/domain/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func standardTariff() models.TariffProfile {
	return models.TariffProfile{
		RoomType: "Standard",
		SeasonRates: []models.SeasonRate{
			{Season: "Regular", StartMonth: 6, EndMonth: 11, Rate: 2000},
			{Season: "Peak", StartMonth: 12, EndMonth: 2, Rate: 3000},
		},
		ACCharge:         200,
		ExtraAdultCharge: 300,
		ChildCharge:      150,
	}
}

func standardRoom() models.RoomRequest {
	return models.RoomRequest{Type: "Standard", Adults: 2, HasAC: true}
}

func TestComputeQuotePeakSeasonScenario(t *testing.T) {
	calc := NewCalculator(nil)

	totals, err := calc.ComputeQuote(
		[]models.RoomRequest{standardRoom()},
		date(2024, time.January, 10),
		date(2024, time.January, 12),
		[]models.TariffProfile{standardTariff()},
		0,
	)
	if err != nil {
		t.Fatalf("ComputeQuote returned error: %v", err)
	}

	if totals.Nights != 2 {
		t.Errorf("nights = %d, want 2", totals.Nights)
	}
	if got := totals.RoomQuotes[0].Total; got != 6400 {
		t.Errorf("room total = %v, want 6400 (2 x 3200)", got)
	}
	if totals.Subtotal != 6400 {
		t.Errorf("subtotal = %v, want 6400", totals.Subtotal)
	}
	if totals.AvgNightlyRoomRate != 3200 {
		t.Errorf("avg nightly rate = %v, want 3200", totals.AvgNightlyRoomRate)
	}
	if totals.GSTRate != 0.12 {
		t.Errorf("gst rate = %v, want 0.12", totals.GSTRate)
	}
	if totals.GST != 768 {
		t.Errorf("gst = %v, want 768", totals.GST)
	}
	if totals.FinalTotal != 7168 {
		t.Errorf("final total = %v, want 7168", totals.FinalTotal)
	}

	for _, night := range totals.RoomQuotes[0].Nights {
		if night.Season != "Peak" {
			t.Errorf("night %d priced in %q, want Peak", night.Night, night.Season)
		}
		if night.TotalRate != 3200 {
			t.Errorf("night %d rate = %v, want 3200", night.Night, night.TotalRate)
		}
	}
}

func TestComputeQuoteInvalidDateRange(t *testing.T) {
	calc := NewCalculator(nil)
	checkin := date(2024, time.March, 10)

	for _, checkout := range []time.Time{checkin, checkin.AddDate(0, 0, -1)} {
		_, err := calc.ComputeQuote([]models.RoomRequest{standardRoom()}, checkin, checkout,
			[]models.TariffProfile{standardTariff()}, 0)
		if !errors.Is(err, ErrInvalidDateRange) {
			t.Errorf("checkout %v: expected ErrInvalidDateRange, got %v", checkout, err)
		}
	}
}

func TestComputeQuoteTariffNotFound(t *testing.T) {
	calc := NewCalculator(nil)

	_, err := calc.ComputeQuote(
		[]models.RoomRequest{{Type: "Presidential", Adults: 2}},
		date(2024, time.March, 10),
		date(2024, time.March, 12),
		[]models.TariffProfile{standardTariff()},
		0,
	)

	var notFound *TariffNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected TariffNotFoundError, got %v", err)
	}
	if notFound.RoomType != "Presidential" {
		t.Errorf("error names room type %q, want Presidential", notFound.RoomType)
	}
}

func TestComputeQuotePlainStayEqualsRateTimesNights(t *testing.T) {
	calc := NewCalculator(nil)
	room := models.RoomRequest{Type: "Standard", Adults: 2, HasAC: false}

	totals, err := calc.ComputeQuote([]models.RoomRequest{room},
		date(2024, time.July, 1), date(2024, time.July, 5),
		[]models.TariffProfile{standardTariff()}, 0)
	if err != nil {
		t.Fatalf("ComputeQuote returned error: %v", err)
	}

	// Four Regular nights, no surcharges, no discounts.
	if totals.RoomQuotes[0].Total != 2000*4 {
		t.Errorf("room total = %v, want %v", totals.RoomQuotes[0].Total, 2000*4)
	}
}

func TestComputeQuoteSurcharges(t *testing.T) {
	calc := NewCalculator(nil)
	room := models.RoomRequest{Type: "Standard", Adults: 4, Children: 2, HasAC: true}

	totals, err := calc.ComputeQuote([]models.RoomRequest{room},
		date(2024, time.July, 1), date(2024, time.July, 2),
		[]models.TariffProfile{standardTariff()}, 0)
	if err != nil {
		t.Fatalf("ComputeQuote returned error: %v", err)
	}

	// 2000 base + 200 AC + 2*300 extra adults + 2*150 children = 3100.
	if totals.RoomQuotes[0].Total != 3100 {
		t.Errorf("room total = %v, want 3100", totals.RoomQuotes[0].Total)
	}
}

func TestComputeQuoteNightlyDiscountClamped(t *testing.T) {
	calc := NewCalculator(nil)
	room := models.RoomRequest{
		Type:             "Standard",
		Adults:           2,
		NightlyDiscounts: []float64{150, -20, 50},
	}

	totals, err := calc.ComputeQuote([]models.RoomRequest{room},
		date(2024, time.July, 1), date(2024, time.July, 4),
		[]models.TariffProfile{standardTariff()}, 0)
	if err != nil {
		t.Fatalf("ComputeQuote returned error: %v", err)
	}

	nights := totals.RoomQuotes[0].Nights
	if nights[0].TotalRate != 0 {
		t.Errorf("night 1: discount above 100 must clamp to 100, rate = %v", nights[0].TotalRate)
	}
	if nights[1].TotalRate != 2000 {
		t.Errorf("night 2: negative discount must clamp to 0, rate = %v", nights[1].TotalRate)
	}
	if nights[2].TotalRate != 1000 {
		t.Errorf("night 3: 50%% discount, rate = %v", nights[2].TotalRate)
	}
}

func TestComputeQuoteOverallDiscount(t *testing.T) {
	calc := NewCalculator(nil)
	room := models.RoomRequest{Type: "Standard", Adults: 2}

	totals, err := calc.ComputeQuote([]models.RoomRequest{room},
		date(2024, time.July, 1), date(2024, time.July, 3),
		[]models.TariffProfile{standardTariff()}, 10)
	if err != nil {
		t.Fatalf("ComputeQuote returned error: %v", err)
	}

	if totals.Subtotal != 4000 {
		t.Errorf("subtotal = %v, want 4000", totals.Subtotal)
	}
	if totals.DiscountedSubtotal != 3600 {
		t.Errorf("discounted subtotal = %v, want 3600", totals.DiscountedSubtotal)
	}
	if totals.GST != 432 {
		t.Errorf("gst = %v, want 432", totals.GST)
	}
	if totals.FinalTotal != 4032 {
		t.Errorf("final total = %v, want 4032", totals.FinalTotal)
	}
}

func TestComputeQuoteGSTBracketBoundary(t *testing.T) {
	calc := NewCalculator(nil)

	tariffAt := func(rate float64) models.TariffProfile {
		return models.TariffProfile{
			RoomType:    "Standard",
			SeasonRates: []models.SeasonRate{{Season: "Regular", StartMonth: 1, EndMonth: 12, Rate: rate}},
		}
	}
	room := models.RoomRequest{Type: "Standard", Adults: 2}
	stay := func(rate float64) *models.QuoteTotals {
		totals, err := calc.ComputeQuote([]models.RoomRequest{room},
			date(2024, time.July, 1), date(2024, time.July, 2),
			[]models.TariffProfile{tariffAt(rate)}, 0)
		if err != nil {
			t.Fatalf("ComputeQuote returned error: %v", err)
		}
		return totals
	}

	if got := stay(7500); got.GSTRate != 0.12 {
		t.Errorf("avg 7500 takes rate %v, want 0.12 (boundary stays in lower bracket)", got.GSTRate)
	}
	if got := stay(7501); got.GSTRate != 0.18 {
		t.Errorf("avg 7501 takes rate %v, want 0.18", got.GSTRate)
	}
}

func TestComputeQuoteNearThresholdAdvisory(t *testing.T) {
	calc := NewCalculator(nil)
	tariff := models.TariffProfile{
		RoomType:    "Standard",
		SeasonRates: []models.SeasonRate{{Season: "Regular", StartMonth: 1, EndMonth: 12, Rate: 7200}},
	}

	totals, err := calc.ComputeQuote([]models.RoomRequest{{Type: "Standard", Adults: 2}},
		date(2024, time.July, 1), date(2024, time.July, 2),
		[]models.TariffProfile{tariff}, 0)
	if err != nil {
		t.Fatalf("ComputeQuote returned error: %v", err)
	}

	if !totals.NearThreshold {
		t.Error("avg 7200 should raise the near-threshold advisory")
	}
	if totals.GSTRate != 0.12 {
		t.Errorf("advisory must not change the bracket, rate = %v", totals.GSTRate)
	}
}

func TestComputeQuoteEmptySeasonListPricesAtZero(t *testing.T) {
	calc := NewCalculator(nil)
	tariff := models.TariffProfile{RoomType: "Standard", ACCharge: 200}

	totals, err := calc.ComputeQuote([]models.RoomRequest{standardRoom()},
		date(2024, time.July, 1), date(2024, time.July, 3),
		[]models.TariffProfile{tariff}, 0)
	if err != nil {
		t.Fatalf("empty season list must not fail the quote: %v", err)
	}

	nights := totals.RoomQuotes[0].Nights
	for _, n := range nights {
		if !n.RateMissing {
			t.Errorf("night %d should be flagged RateMissing", n.Night)
		}
		if n.BaseRate != 0 {
			t.Errorf("night %d base rate = %v, want 0", n.Night, n.BaseRate)
		}
	}
	// Surcharges still apply on top of the zero base.
	if totals.RoomQuotes[0].Total != 400 {
		t.Errorf("room total = %v, want 400 (AC surcharge only)", totals.RoomQuotes[0].Total)
	}
}

func TestComputeQuoteNightsCeiling(t *testing.T) {
	calc := NewCalculator(nil)

	// A 36h stay spans two calendar nights.
	totals, err := calc.ComputeQuote([]models.RoomRequest{standardRoom()},
		time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, time.July, 3, 0, 0, 0, 0, time.UTC),
		[]models.TariffProfile{standardTariff()}, 0)
	if err != nil {
		t.Fatalf("ComputeQuote returned error: %v", err)
	}
	if totals.Nights != 2 {
		t.Errorf("nights = %d, want 2", totals.Nights)
	}
}

func TestComputeQuoteIdempotent(t *testing.T) {
	calc := NewCalculator(nil)
	rooms := []models.RoomRequest{
		{Type: "Standard", Adults: 3, Children: 1, HasAC: true, NightlyDiscounts: []float64{10}},
	}
	tariffs := []models.TariffProfile{standardTariff()}

	first, err := calc.ComputeQuote(rooms, date(2024, time.November, 28), date(2024, time.December, 2), tariffs, 5)
	if err != nil {
		t.Fatalf("ComputeQuote returned error: %v", err)
	}
	second, err := calc.ComputeQuote(rooms, date(2024, time.November, 28), date(2024, time.December, 2), tariffs, 5)
	if err != nil {
		t.Fatalf("ComputeQuote returned error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must yield identical totals")
	}
}

func TestComputeQuoteSeasonTransitionMidStay(t *testing.T) {
	calc := NewCalculator(nil)
	room := models.RoomRequest{Type: "Standard", Adults: 2}

	// Nov 30 prices as Regular, Dec 1 as Peak.
	totals, err := calc.ComputeQuote([]models.RoomRequest{room},
		date(2024, time.November, 30), date(2024, time.December, 2),
		[]models.TariffProfile{standardTariff()}, 0)
	if err != nil {
		t.Fatalf("ComputeQuote returned error: %v", err)
	}

	nights := totals.RoomQuotes[0].Nights
	if nights[0].Season != "Regular" || nights[0].BaseRate != 2000 {
		t.Errorf("night 1 = %+v, want Regular at 2000", nights[0])
	}
	if nights[1].Season != "Peak" || nights[1].BaseRate != 3000 {
		t.Errorf("night 2 = %+v, want Peak at 3000", nights[1])
	}
}
