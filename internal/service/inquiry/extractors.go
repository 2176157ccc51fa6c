package inquiry

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/grandresort/crm/internal/domain/models"
)

// nameStop terminates a name capture at punctuation, a known keyword or a digit.
const nameStop = `(?:\s|$|,|\.|and|mobile|contact|phone|\d)`

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:my name is|i am|i'm|name:|from)\s+([a-zA-Z\s]+?)` + nameStop),
	regexp.MustCompile(`(?i)(?:hi|hello|hey),?\s*(?:this is|i am|i'm)?\s*([a-zA-Z\s]+?)` + nameStop),
}

// extractClientName tries the label-anchored patterns in order; the first
// successful match wins.
func extractClientName(d *draft) {
	for _, pattern := range namePatterns {
		if m := pattern.FindStringSubmatch(d.text); len(m) > 1 {
			if name := strings.TrimSpace(m[1]); name != "" {
				d.inquiry.ClientName = name
				return
			}
		}
	}
}

var (
	labeledMobilePattern = regexp.MustCompile(`(?i)(?:mobile|contact|phone|number|call|reach)[\s:]*(\d{10})`)
	bareMobilePattern    = regexp.MustCompile(`\d{10}`)
)

// extractMobile prefers a labeled 10-digit number, then the first bare one.
func extractMobile(d *draft) {
	if m := labeledMobilePattern.FindStringSubmatch(d.text); len(m) > 1 {
		d.inquiry.Mobile = m[1]
		return
	}
	d.inquiry.Mobile = bareMobilePattern.FindString(d.text)
}

var (
	numericDatePattern   = regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})`)
	monthNameDatePattern = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\w*\s*(\d{2,4})?`)
	checkinDatePattern   = regexp.MustCompile(`(?i)(?:from|check[\s-]?in)[\s:]*(\d{1,2})[/\-.](\d{1,2})(?:[/\-.](\d{2,4}))?`)
	checkoutDatePattern  = regexp.MustCompile(`(?i)(?:to|check[\s-]?out)[\s:]*(\d{1,2})[/\-.](\d{1,2})(?:[/\-.](\d{2,4}))?`)
)

var monthsByName = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// extractDates collects every valid date mention from all patterns into one
// candidate list. Distinct candidates are sorted ascending: the earliest
// becomes checkin and the second-earliest checkout, whatever pattern or text
// position produced them. A single candidate implies a default two-night stay.
func extractDates(d *draft) {
	seen := make(map[string]struct{})
	var candidates []string
	record := func(day, month, year int) {
		iso, ok := canonicalDate(day, month, year, d.ref)
		if !ok {
			return
		}
		if _, dup := seen[iso]; dup {
			return
		}
		seen[iso] = struct{}{}
		candidates = append(candidates, iso)
	}

	for _, m := range numericDatePattern.FindAllStringSubmatch(d.text, -1) {
		record(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	for _, m := range monthNameDatePattern.FindAllStringSubmatch(d.text, -1) {
		record(atoi(m[1]), monthsByName[strings.ToLower(m[2])[:3]], atoi(m[3]))
	}

	for _, pattern := range []*regexp.Regexp{checkinDatePattern, checkoutDatePattern} {
		if m := pattern.FindStringSubmatch(d.text); len(m) > 3 {
			record(atoi(m[1]), atoi(m[2]), atoi(m[3]))
		}
	}

	sort.Strings(candidates)

	switch {
	case len(candidates) >= 2:
		d.inquiry.CheckinDate = candidates[0]
		d.inquiry.CheckoutDate = candidates[1]
	case len(candidates) == 1:
		d.inquiry.CheckinDate = candidates[0]
		checkin, err := time.Parse(models.DateLayout, candidates[0])
		if err == nil {
			d.inquiry.CheckoutDate = checkin.AddDate(0, 0, 2).Format(models.DateLayout)
		}
	}
}

// canonicalDate validates a day/month pair and renders the candidate in
// DateLayout. A zero year defaults to the reference year; two-digit years are
// taken as 20xx. Day overflow within a valid 1-31 range normalizes forward
// (31 Apr becomes 1 May).
func canonicalDate(day, month, year int, ref time.Time) (string, bool) {
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return "", false
	}
	if year == 0 {
		year = ref.Year()
	}
	if year < 100 {
		year += 2000
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format(models.DateLayout), true
}

type countKind int

const (
	countRooms countKind = iota
	countAdults
	countPeople
)

var countRules = []struct {
	re   *regexp.Regexp
	kind countKind
}{
	{regexp.MustCompile(`(?i)(\d+)\s*rooms?`), countRooms},
	{regexp.MustCompile(`(?i)(\d+)\s*adults?`), countAdults},
	{regexp.MustCompile(`(?i)(\d+)\s*people`), countPeople},
	{regexp.MustCompile(`(?i)(\d+)\s*persons?`), countPeople},
	{regexp.MustCompile(`(?i)(\d+)\s*guests?`), countPeople},
	{regexp.MustCompile(`(?i)family\s*of\s*(\d+)`), countPeople},
}

// extractGuestCounts scans the count rules in order; later rules override
// earlier ones. A generic person count above 4 triggers the family split
// heuristic: rooms=ceil(N/3), adults=ceil(0.7N), children take the rest.
func extractGuestCounts(d *draft) {
	for _, rule := range countRules {
		m := rule.re.FindStringSubmatch(d.text)
		if len(m) < 2 {
			continue
		}
		n := atoi(m[1])
		if n <= 0 {
			continue
		}

		switch rule.kind {
		case countRooms:
			d.roomCount = n
		case countAdults:
			d.adults = n
		case countPeople:
			d.adults = n
			if n > 4 {
				d.roomCount = ceilDiv(n, 3)
				d.adults = int(math.Ceil(float64(n) * 0.7))
				d.children = n - d.adults
			}
		}
	}
}

var childrenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*(?:child|children|kid|kids)`),
	regexp.MustCompile(`(?i)with\s*(\d+)\s*(?:child|children)`),
}

// extractChildrenOverride replaces whatever children count the heuristics
// produced when the text states one explicitly.
func extractChildrenOverride(d *draft) {
	for _, pattern := range childrenPatterns {
		if m := pattern.FindStringSubmatch(d.text); len(m) > 1 {
			d.children = atoi(m[1])
			return
		}
	}
}

// materializeRooms expands the counts into concrete room requests. Guests are
// distributed by ceiling, so later rooms may be overprovisioned; the sales
// team corrects the draft by hand.
func materializeRooms(d *draft) {
	if d.roomCount < 1 {
		d.roomCount = 1
	}

	rooms := make([]models.RoomRequest, d.roomCount)
	for i := range rooms {
		rooms[i] = models.RoomRequest{
			Type:             "Standard",
			Adults:           ceilDiv(d.adults, d.roomCount),
			Children:         ceilDiv(d.children, d.roomCount),
			HasAC:            true,
			NightlyDiscounts: []float64{},
		}
	}
	d.inquiry.Rooms = rooms
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
