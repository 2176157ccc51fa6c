package models

import "time"

// LeadStatus tracks where a lead sits in the sales funnel.
type LeadStatus string

const (
	LeadStatusOpen        LeadStatus = "open"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusNegotiation LeadStatus = "negotiation"
	LeadStatusNurturing   LeadStatus = "nurturing"
	LeadStatusWon         LeadStatus = "won"
	LeadStatusLost        LeadStatus = "lost"
)

// ValidLeadStatus reports whether the value is one of the known statuses.
func ValidLeadStatus(s LeadStatus) bool {
	switch s {
	case LeadStatusOpen, LeadStatusContacted, LeadStatusNegotiation,
		LeadStatusNurturing, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}

// Lead is a sales inquiry record. Keyed by an opaque numeric id.
type Lead struct {
	ID           int64      `bson:"_id" json:"id"`
	Name         string     `bson:"name" json:"name"`
	Mobile       string     `bson:"mobile" json:"mobile"`
	CheckinDate  time.Time  `bson:"checkin_date" json:"checkinDate"`
	CheckoutDate time.Time  `bson:"checkout_date" json:"checkoutDate"`
	Status       LeadStatus `bson:"status" json:"status"`
	ReminderAt   *time.Time `bson:"reminder_at,omitempty" json:"reminderAt,omitempty"`
	Notes        string     `bson:"notes" json:"notes"`
	Quotes       []Quote    `bson:"quotes" json:"quotes"`
	Tags         []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"createdAt"`
}

// LeadUpdate is a partial update; nil fields are left untouched.
type LeadUpdate struct {
	Name         *string     `json:"name,omitempty"`
	Mobile       *string     `json:"mobile,omitempty"`
	CheckinDate  *time.Time  `json:"checkinDate,omitempty"`
	CheckoutDate *time.Time  `json:"checkoutDate,omitempty"`
	Status       *LeadStatus `json:"status,omitempty"`
	ReminderAt   *time.Time  `json:"reminderAt,omitempty"`
	Notes        *string     `json:"notes,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
}

// Apply copies the non-nil fields onto the lead.
func (u LeadUpdate) Apply(lead *Lead) {
	if u.Name != nil {
		lead.Name = *u.Name
	}
	if u.Mobile != nil {
		lead.Mobile = *u.Mobile
	}
	if u.CheckinDate != nil {
		lead.CheckinDate = *u.CheckinDate
	}
	if u.CheckoutDate != nil {
		lead.CheckoutDate = *u.CheckoutDate
	}
	if u.Status != nil {
		lead.Status = *u.Status
	}
	if u.ReminderAt != nil {
		lead.ReminderAt = u.ReminderAt
	}
	if u.Notes != nil {
		lead.Notes = *u.Notes
	}
	if u.Tags != nil {
		lead.Tags = u.Tags
	}
}
