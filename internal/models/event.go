// Package models defines the domain types for Daymark.
package models

import "time"

// RecurrenceMode describes how an event repeats.
type RecurrenceMode string

const (
	// RecurrenceNone is a one-off event anchored to a single solar date.
	RecurrenceNone RecurrenceMode = "NONE"
	// RecurrenceSolarAnnual repeats every year on the anchor's month/day.
	RecurrenceSolarAnnual RecurrenceMode = "SOLAR_ANNUAL"
	// RecurrenceLunarAnnual repeats every year on a Chinese lunar month/day.
	RecurrenceLunarAnnual RecurrenceMode = "LUNAR_ANNUAL"
)

// Event types. Purely presentational; countdown math never looks at them.
const (
	TypeBirthday    = "BIRTHDAY"
	TypeAnniversary = "ANNIVERSARY"
	TypeFestival    = "FESTIVAL"
	TypeCustom      = "CUSTOM"
)

// Event is a user-owned calendar event.
//
// Date is the anchor: the original solar date the event was first recorded
// on. For LUNAR_ANNUAL events LunarMonth/LunarDay carry the lunar rule and
// are guaranteed valid (1-12 / 1-30) by creation-time validation; for other
// modes they are zero.
type Event struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Title       string         `json:"title"`
	Date        time.Time      `json:"date"`
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Mode        RecurrenceMode `json:"mode"`
	LunarMonth  int            `json:"lunarMonth,omitempty"`
	LunarDay    int            `json:"lunarDay,omitempty"`
	IsPinned    bool           `json:"isPinned"`
	RemindDays  int            `json:"remindDays,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// IsRecurring reports whether the event repeats annually.
func (e *Event) IsRecurring() bool {
	return e.Mode != RecurrenceNone
}

// IsLunar reports whether the annual rule is lunar-anchored.
func (e *Event) IsLunar() bool {
	return e.Mode == RecurrenceLunarAnnual
}
