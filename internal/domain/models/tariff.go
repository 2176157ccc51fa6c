package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedSeasonRates indicates a persisted season-rate encoding that could
// not be normalized. Stores recover from it by falling back to an empty list;
// it never reaches pricing callers.
var ErrMalformedSeasonRates = errors.New("malformed season rates encoding")

// SeasonRate assigns a nightly rate to a calendar month range. Ranges where
// StartMonth > EndMonth wrap the year boundary (Dec-Feb style).
type SeasonRate struct {
	Season     string  `bson:"season" json:"season"`
	StartMonth int     `bson:"start_month" json:"startMonth"`
	EndMonth   int     `bson:"end_month" json:"endMonth"`
	Rate       float64 `bson:"rate" json:"rate"`
}

// Matches reports whether the rate covers the given calendar month (1-12).
func (sr SeasonRate) Matches(month int) bool {
	if sr.StartMonth <= sr.EndMonth {
		return month >= sr.StartMonth && month <= sr.EndMonth
	}
	return month >= sr.StartMonth || month <= sr.EndMonth
}

// TariffProfile holds the pricing rules for one room type. SeasonRates order is
// the caller-defined priority: the first matching entry wins.
type TariffProfile struct {
	RoomType         string       `bson:"room_type" json:"roomType"`
	SeasonRates      []SeasonRate `bson:"season_rates" json:"seasonRates"`
	ACCharge         float64      `bson:"ac_charges" json:"acCharges"`
	ExtraAdultCharge float64      `bson:"extra_adult_charge" json:"extraAdultCharge"`
	ChildCharge      float64      `bson:"child_charge" json:"childCharge"`
}

// seasonMonthRange maps a bare season label to its conventional month range.
// Used when the persisted encoding carries labels and rates only.
func seasonMonthRange(label string) (start, end int) {
	switch strings.ToLower(label) {
	case "peak":
		return 12, 2
	case "high":
		return 3, 5
	case "regular", "low":
		return 6, 11
	default:
		return 6, 11
	}
}

// DecodeSeasonRates normalizes a persisted season-rate encoding into the
// canonical slice. Two encodings exist in the wild: a structured JSON array,
// and a free-text "Peak: 4500, High: 3500, Regular: 2500" list where month
// ranges are derived from the season label.
func DecodeSeasonRates(raw string) ([]SeasonRate, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	var structured []SeasonRate
	if err := json.Unmarshal([]byte(trimmed), &structured); err == nil {
		return structured, nil
	}

	var rates []SeasonRate
	for _, pair := range strings.Split(trimmed, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		colon := strings.Index(pair, ":")
		if colon <= 0 {
			continue
		}

		season := strings.TrimSpace(pair[:colon])
		rate, err := strconv.ParseFloat(strings.TrimSpace(pair[colon+1:]), 64)
		if season == "" || err != nil {
			continue
		}

		start, end := seasonMonthRange(season)
		rates = append(rates, SeasonRate{
			Season:     season,
			StartMonth: start,
			EndMonth:   end,
			Rate:       rate,
		})
	}

	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedSeasonRates, raw)
	}

	return rates, nil
}

// EncodeSeasonRates serializes the canonical slice for persistence.
func EncodeSeasonRates(rates []SeasonRate) (string, error) {
	if len(rates) == 0 {
		return "", nil
	}

	data, err := json.Marshal(rates)
	if err != nil {
		return "", fmt.Errorf("encode season rates: %w", err)
	}
	return string(data), nil
}
