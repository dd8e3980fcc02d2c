package api

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mirrwin/daymark/internal/apperr"
	"github.com/mirrwin/daymark/internal/eventservice"
	"github.com/mirrwin/daymark/internal/models"
)

// EventView re-exports the service view type for response payloads.
type EventView = eventservice.EventView

// eventRequest is the wire shape for creating or updating an event. The two
// recurrence booleans match the historical payload; they are collapsed into
// a single mode at this boundary and validated once.
type eventRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
	IsRecurring bool   `json:"isRecurring"`
	IsLunar     bool   `json:"isLunar"`
	LunarMonth  int    `json:"lunarMonth"`
	LunarDay    int    `json:"lunarDay"`
	IsPinned    bool   `json:"isPinned"`
	RemindDays  int    `json:"remindDays"`
}

func (r *eventRequest) toInput() (eventservice.EventInput, error) {
	var mode models.RecurrenceMode
	switch {
	case r.IsLunar && !r.IsRecurring:
		// Representable but meaningless; reject instead of guessing.
		return eventservice.EventInput{}, fmt.Errorf("%w: isLunar requires isRecurring", apperr.ErrInvalidRecurrence)
	case r.IsLunar:
		mode = models.RecurrenceLunarAnnual
	case r.IsRecurring:
		mode = models.RecurrenceSolarAnnual
	default:
		mode = models.RecurrenceNone
	}

	date, err := parseDate(r.Date)
	if err != nil {
		return eventservice.EventInput{}, err
	}

	return eventservice.EventInput{
		Title:       r.Title,
		Date:        date,
		Type:        r.Type,
		Description: r.Description,
		Mode:        mode,
		LunarMonth:  r.LunarMonth,
		LunarDay:    r.LunarDay,
		IsPinned:    r.IsPinned,
		RemindDays:  r.RemindDays,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, validation.Errors{"date": fmt.Errorf("invalid date %q", s)}
	}
	return t.In(time.Local), nil
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type profileRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type shareRequest struct {
	EventID       string `json:"eventId"`
	ExpiresInDays int    `json:"expiresInDays"`
}

type shareResponse struct {
	Token     string    `json:"token"`
	ShareURL  string    `json:"shareUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type roleRequest struct {
	Role string `json:"role"`
}

// adminEvent is an event with its owner's username, for the admin listing.
type adminEvent struct {
	*models.Event
	Username string `json:"username"`
}
