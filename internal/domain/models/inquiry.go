package models

// ParsedInquiry is the best-effort structured projection of a free-text
// inquiry message. Every field may be empty; dates use DateLayout.
type ParsedInquiry struct {
	ClientName   string        `json:"clientName"`
	Mobile       string        `json:"mobile"`
	CheckinDate  string        `json:"checkinDate"`
	CheckoutDate string        `json:"checkoutDate"`
	Rooms        []RoomRequest `json:"rooms"`
	Notes        string        `json:"notes"`
}
