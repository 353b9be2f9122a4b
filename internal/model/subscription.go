package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date portion of an ISO-8601 timestamp.
const DateLayout = "2006-01-02"

type Subscription struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Cost      float64    `json:"cost" db:"cost"`
	StartDate time.Time  `json:"startDate" db:"start_date"`
	EndDate   *time.Time `json:"endDate" db:"end_date"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// SubscriptionPatch holds the fields supplied to an update. Nil fields are
// left untouched. EndDate is applied only when SetEndDate is true, and a nil
// EndDate then clears the stored value.
type SubscriptionPatch struct {
	Name       *string
	Cost       *float64
	StartDate  *time.Time
	SetEndDate bool
	EndDate    *time.Time
}

// Apply writes the supplied fields onto sub. Timestamps are not touched.
func (p SubscriptionPatch) Apply(sub *Subscription) {
	if p.Name != nil {
		sub.Name = *p.Name
	}
	if p.Cost != nil {
		sub.Cost = *p.Cost
	}
	if p.StartDate != nil {
		sub.StartDate = *p.StartDate
	}
	if p.SetEndDate {
		sub.EndDate = p.EndDate
	}
}

// Draft is the raw text of the subscription form as it is sent to the API.
type Draft struct {
	Name      string `json:"name"`
	Cost      string `json:"cost"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// FormatCost renders a cost the way a number input would hold it.
func FormatCost(cost float64) string {
	return strconv.FormatFloat(cost, 'f', -1, 64)
}

// DateOnly returns the first ten characters of the RFC 3339 form of t.
func DateOnly(t time.Time) string {
	s := t.Format(time.RFC3339)
	if len(s) < 10 {
		return s
	}
	return s[:10]
}
