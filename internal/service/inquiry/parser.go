package inquiry

import (
	"time"

	"go.uber.org/zap"

	"github.com/grandresort/crm/internal/domain/models"
)

// pass is one extraction strategy. Passes run in declaration order; a pass
// with overrides=true may replace values produced by an earlier pass, while
// the others only fill defaults. No pass ever fails: absent information
// leaves the field at its default.
type pass struct {
	name      string
	field     string
	overrides bool
	run       func(d *draft)
}

// draft carries the intermediate state threaded through the passes.
type draft struct {
	text string
	ref  time.Time

	inquiry models.ParsedInquiry

	roomCount int
	adults    int
	children  int
}

// Parser reconstructs a booking request from free-form inquiry text. It is a
// total function: any text yields a ParsedInquiry, however sparse. The
// reference date is explicit so that year-less date mentions stay
// deterministic under test.
type Parser struct {
	logger *zap.Logger
	passes []pass
}

// NewParser wires the parser with its ordered extractor table.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Parser{
		logger: logger,
		passes: []pass{
			{name: "client-name", field: "clientName", run: extractClientName},
			{name: "mobile", field: "mobile", run: extractMobile},
			{name: "dates", field: "checkinDate/checkoutDate", run: extractDates},
			{name: "guest-counts", field: "rooms/adults/children", run: extractGuestCounts},
			{name: "children-override", field: "children", overrides: true, run: extractChildrenOverride},
			{name: "materialize-rooms", field: "rooms", run: materializeRooms},
		},
	}
}

// Parse runs every extractor pass over the text. The raw input is always
// preserved verbatim in Notes.
func (p *Parser) Parse(text string, ref time.Time) models.ParsedInquiry {
	d := &draft{
		text:      text,
		ref:       ref,
		roomCount: 1,
		adults:    2,
	}
	d.inquiry.Notes = text

	for _, ps := range p.passes {
		ps.run(d)
	}

	p.logger.Debug("inquiry parsed",
		zap.String("client_name", d.inquiry.ClientName),
		zap.String("mobile", d.inquiry.Mobile),
		zap.String("checkin", d.inquiry.CheckinDate),
		zap.String("checkout", d.inquiry.CheckoutDate),
		zap.Int("rooms", len(d.inquiry.Rooms)))

	return d.inquiry
}
