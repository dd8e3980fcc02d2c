// Package eventservice coordinates event CRUD, validation and countdown
// resolution for the API layer.
package eventservice

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/mirrwin/daymark/internal/apperr"
	"github.com/mirrwin/daymark/internal/countdown"
	"github.com/mirrwin/daymark/internal/lunar"
	"github.com/mirrwin/daymark/internal/models"
)

// EventView is an event enriched with its freshly-resolved countdown fields.
// It is computed on every read and never stored. LunarDate is the traditional
// rendering of the lunar rule (e.g. 正月初一), set only for lunar events.
type EventView struct {
	models.Event
	CountdownDays int       `json:"countdownDays"`
	Anniversary   *int      `json:"anniversary"`
	TargetDate    time.Time `json:"targetDate"`
	LunarDate     string    `json:"lunarDate,omitempty"`
}

// EventInput carries the validated fields for creating or updating an event.
type EventInput struct {
	Title       string
	Date        time.Time
	Type        string
	Description string
	Mode        models.RecurrenceMode
	LunarMonth  int
	LunarDay    int
	IsPinned    bool
	RemindDays  int
}

// Validate checks the input. Lunar configuration problems are reported as
// apperr.ErrInvalidRecurrence so they are rejected before persistence and
// can never surface later at resolution time.
func (in *EventInput) Validate() error {
	if err := validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Date, validation.Required),
		validation.Field(&in.Type, validation.Required,
			validation.In(models.TypeBirthday, models.TypeAnniversary, models.TypeFestival, models.TypeCustom)),
		validation.Field(&in.RemindDays, validation.Min(0)),
	); err != nil {
		return err
	}

	switch in.Mode {
	case models.RecurrenceLunarAnnual:
		if in.LunarMonth < 1 || in.LunarMonth > 12 || in.LunarDay < 1 || in.LunarDay > 30 {
			return fmt.Errorf("%w: lunar month %d day %d out of range",
				apperr.ErrInvalidRecurrence, in.LunarMonth, in.LunarDay)
		}
	case models.RecurrenceNone, models.RecurrenceSolarAnnual:
		if in.LunarMonth != 0 || in.LunarDay != 0 {
			return fmt.Errorf("%w: lunar month/day set on non-lunar mode %s",
				apperr.ErrInvalidRecurrence, in.Mode)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", apperr.ErrInvalidRecurrence, in.Mode)
	}
	return nil
}

// Store is the record-store surface the service needs.
type Store interface {
	CreateEvent(e *models.Event) error
	GetUserEvent(userID, id string) (*models.Event, error)
	ListEvents(userID, typeFilter string) ([]*models.Event, error)
	UpdateEvent(e *models.Event) error
	DeleteEvent(id string) error
}

// Notifier receives change notifications after successful mutations.
type Notifier interface {
	PublishEventChange(kind, eventID string)
}

// Service coordinates store and resolver operations.
type Service struct {
	store    Store
	resolver *countdown.Resolver
	notifier Notifier
}

// NewService creates a new event service. notifier may be nil.
func NewService(store Store, resolver *countdown.Resolver, notifier Notifier) *Service {
	return &Service{store: store, resolver: resolver, notifier: notifier}
}

// View resolves a single event against "now".
func (s *Service) View(ev *models.Event, now time.Time) EventView {
	occ := s.resolver.Resolve(ev, now)
	return EventView{
		Event:         *ev,
		CountdownDays: countdown.Days(occ.TargetDate, now),
		Anniversary:   occ.Anniversary,
		TargetDate:    occ.TargetDate,
		LunarDate:     lunarLabel(ev),
	}
}

func lunarLabel(ev *models.Event) string {
	if ev.Mode != models.RecurrenceLunarAnnual {
		return ""
	}
	return lunar.FormatDate(ev.LunarMonth, ev.LunarDay, false)
}

// List returns a user's resolved events in display order. A record that
// fails lunar conversion degrades inside the resolver; one bad event never
// fails the whole listing.
func (s *Service) List(_ context.Context, userID, typeFilter string, now time.Time) ([]EventView, error) {
	events, err := s.store.ListEvents(userID, typeFilter)
	if err != nil {
		return nil, err
	}
	resolved := s.resolver.ResolveAll(events, now)
	countdown.Sort(resolved)

	views := make([]EventView, len(resolved))
	for i, r := range resolved {
		views[i] = EventView{
			Event:         *r.Event,
			CountdownDays: r.Days,
			Anniversary:   r.Occurrence.Anniversary,
			TargetDate:    r.Occurrence.TargetDate,
			LunarDate:     lunarLabel(r.Event),
		}
	}
	return views, nil
}

// Get returns one resolved event owned by the user.
func (s *Service) Get(_ context.Context, userID, id string, now time.Time) (*EventView, error) {
	ev, err := s.store.GetUserEvent(userID, id)
	if err != nil {
		return nil, err
	}
	view := s.View(ev, now)
	return &view, nil
}

// Create validates and persists a new event.
func (s *Service) Create(_ context.Context, userID string, in EventInput, now time.Time) (*EventView, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ev := &models.Event{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Date:        in.Date,
		Type:        in.Type,
		Description: in.Description,
		Mode:        in.Mode,
		LunarMonth:  in.LunarMonth,
		LunarDay:    in.LunarDay,
		IsPinned:    in.IsPinned,
		RemindDays:  in.RemindDays,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateEvent(ev); err != nil {
		return nil, err
	}
	s.notify("created", ev.ID)
	view := s.View(ev, now)
	return &view, nil
}

// Update validates and rewrites an event the user owns.
func (s *Service) Update(_ context.Context, userID, id string, in EventInput, now time.Time) (*EventView, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ev, err := s.store.GetUserEvent(userID, id)
	if err != nil {
		return nil, err
	}
	ev.Title = in.Title
	ev.Date = in.Date
	ev.Type = in.Type
	ev.Description = in.Description
	ev.Mode = in.Mode
	ev.LunarMonth = in.LunarMonth
	ev.LunarDay = in.LunarDay
	ev.IsPinned = in.IsPinned
	ev.RemindDays = in.RemindDays
	ev.UpdatedAt = now
	if err := s.store.UpdateEvent(ev); err != nil {
		return nil, err
	}
	s.notify("updated", ev.ID)
	view := s.View(ev, now)
	return &view, nil
}

// Delete removes an event the user owns.
func (s *Service) Delete(_ context.Context, userID, id string) error {
	if _, err := s.store.GetUserEvent(userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteEvent(id); err != nil {
		return err
	}
	s.notify("deleted", id)
	return nil
}

func (s *Service) notify(kind, id string) {
	if s.notifier != nil {
		s.notifier.PublishEventChange(kind, id)
	}
}
