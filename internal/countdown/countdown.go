// Package countdown computes next occurrences, anniversary ordinals and
// day counts for calendar events. Every function takes "now" explicitly;
// nothing here reads a wall clock or touches storage.
package countdown

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/mirrwin/daymark/internal/lunar"
	"github.com/mirrwin/daymark/internal/models"
)

// Occurrence is the resolved view of one event relative to "now".
// Anniversary is nil for one-off events, which never accrue a count.
type Occurrence struct {
	TargetDate  time.Time
	Anniversary *int
}

// Resolver computes occurrences. Lunar candidates go through the converter;
// conversion failure degrades to Jan 1 of the requested year so a single
// malformed event can never fail a whole listing.
type Resolver struct {
	conv lunar.Converter
}

// NewResolver creates a Resolver on top of the given lunar converter.
func NewResolver(conv lunar.Converter) *Resolver {
	return &Resolver{conv: conv}
}

// Today truncates a timestamp to local calendar midnight. All occurrence
// comparisons are date-only; time-of-day never participates.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Days returns the exact calendar-day difference between target and today.
// Both are truncated to midnight first, and the division is rounded so a DST
// shift inside the interval cannot skew the count. Positive means upcoming,
// zero means today, negative means elapsed.
func Days(target, today time.Time) int {
	diff := Today(target).Sub(Today(today))
	return int(math.Round(diff.Hours() / 24))
}

// Resolve computes the next occurrence of an event on or after "today" and
// the anniversary ordinal that occurrence represents.
//
// For annual modes the branch is three-way and deliberately asymmetric
// around today: an occurrence already past rolls the target into next year
// but still reports this year's completed count; an occurrence today reports
// one more than the elapsed full years (that is the anniversary being
// celebrated); an occurrence still ahead reports the elapsed full years.
func (r *Resolver) Resolve(ev *models.Event, now time.Time) Occurrence {
	today := Today(now)

	switch ev.Mode {
	case models.RecurrenceSolarAnnual:
		candidate := func(year int) time.Time {
			return time.Date(year, ev.Date.Month(), ev.Date.Day(), 0, 0, 0, 0, today.Location())
		}
		return r.resolveAnnual(ev, today, candidate)

	case models.RecurrenceLunarAnnual:
		candidate := func(year int) time.Time {
			t, err := r.conv.LunarToSolar(year, ev.LunarMonth, ev.LunarDay)
			if err != nil {
				slog.Warn("lunar conversion failed, using year start fallback",
					slog.String("event_id", ev.ID),
					slog.Int("year", year),
					slog.String("error", err.Error()))
				return time.Date(year, time.January, 1, 0, 0, 0, 0, today.Location())
			}
			// Rebuild the converted date in today's zone; the comparison is
			// date-only and must not straddle two locations.
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, today.Location())
		}
		return r.resolveAnnual(ev, today, candidate)

	default:
		// One-off event: the anchor is the target, past or not, and there
		// is never an anniversary.
		return Occurrence{TargetDate: Today(ev.Date)}
	}
}

func (r *Resolver) resolveAnnual(ev *models.Event, today time.Time, candidate func(year int) time.Time) Occurrence {
	currentYear := today.Year()
	anchorYear := ev.Date.Year()
	elapsed := currentYear - anchorYear

	target := candidate(currentYear)
	var anniversary int
	switch {
	case target.Before(today):
		anniversary = elapsed
		target = candidate(currentYear + 1)
	case target.Equal(today):
		anniversary = elapsed + 1
	default:
		anniversary = elapsed
	}
	if anniversary < 0 {
		anniversary = 0
	}
	return Occurrence{TargetDate: target, Anniversary: &anniversary}
}

// Resolved pairs an event with its occurrence and day count, ready for
// ordering and display.
type Resolved struct {
	Event      *models.Event
	Occurrence Occurrence
	Days       int
}

// ResolveAll resolves every event against the same "now".
func (r *Resolver) ResolveAll(events []*models.Event, now time.Time) []Resolved {
	out := make([]Resolved, len(events))
	for i, ev := range events {
		occ := r.Resolve(ev, now)
		out[i] = Resolved{
			Event:      ev,
			Occurrence: occ,
			Days:       Days(occ.TargetDate, now),
		}
	}
	return out
}

// Sort orders resolved events for display: pinned events first, then by
// ascending absolute day count. The sort is stable, so pinned events keep
// their relative order and an event 5 days overdue sits next to one 5 days
// ahead.
func Sort(items []Resolved) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Event.IsPinned != b.Event.IsPinned {
			return a.Event.IsPinned
		}
		return abs(a.Days) < abs(b.Days)
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
