package pricing

import (
	"time"

	"github.com/grandresort/crm/internal/domain/models"
)

// regularSeasonLabel is the fallback season when no entry covers a month.
const regularSeasonLabel = "Regular"

// ResolveSeasonRate picks the season rate applicable to the given month.
// Profile order is the priority: the first matching entry wins. When no entry
// matches, the "Regular" entry is used, then the first entry in the list. The
// second return value is false only when the profile carries no season rates
// at all; that is a data-quality condition, not an error, and callers degrade
// to a zero rate.
func ResolveSeasonRate(profile models.TariffProfile, month time.Month) (models.SeasonRate, bool) {
	for _, sr := range profile.SeasonRates {
		if sr.Matches(int(month)) {
			return sr, true
		}
	}

	for _, sr := range profile.SeasonRates {
		if sr.Season == regularSeasonLabel {
			return sr, true
		}
	}

	if len(profile.SeasonRates) > 0 {
		return profile.SeasonRates[0], true
	}

	return models.SeasonRate{}, false
}
