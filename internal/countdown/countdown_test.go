package countdown

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mirrwin/daymark/internal/models"
)

// fakeConverter maps "year-month-day" lunar keys to fixed solar dates so
// resolver tests do not depend on real lunar tables.
type fakeConverter struct {
	dates map[string]time.Time
	fail  bool
}

func (f *fakeConverter) LunarToSolar(year, month, day int) (time.Time, error) {
	if f.fail {
		return time.Time{}, errors.New("conversion exploded")
	}
	key := fmt.Sprintf("%d-%d-%d", year, month, day)
	t, ok := f.dates[key]
	if !ok {
		return time.Time{}, fmt.Errorf("no mapping for %s", key)
	}
	return t, nil
}

func (f *fakeConverter) SolarToLunar(time.Time) (int, int, bool, error) {
	return 0, 0, false, errors.New("not implemented")
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func solarEvent(anchor time.Time) *models.Event {
	return &models.Event{ID: "ev", Date: anchor, Mode: models.RecurrenceSolarAnnual}
}

func TestResolveSolarAnnual(t *testing.T) {
	anchor := date(2020, time.March, 10)

	tests := []struct {
		name       string
		now        time.Time
		wantTarget time.Time
		wantDays   int
		wantAnniv  int
	}{
		{
			// The day itself reports the anniversary being celebrated,
			// one more than the surrounding days.
			name:       "occurrence today",
			now:        date(2024, time.March, 10),
			wantTarget: date(2024, time.March, 10),
			wantDays:   0,
			wantAnniv:  5,
		},
		{
			name:       "day after rolls target forward keeping the count",
			now:        date(2024, time.March, 11),
			wantTarget: date(2025, time.March, 10),
			wantDays:   364,
			wantAnniv:  4,
		},
		{
			name:       "day before",
			now:        date(2024, time.March, 9),
			wantTarget: date(2024, time.March, 10),
			wantDays:   1,
			wantAnniv:  4,
		},
		{
			name:       "early in the year",
			now:        date(2024, time.January, 1),
			wantTarget: date(2024, time.March, 10),
			wantDays:   69,
			wantAnniv:  4,
		},
		{
			name:       "anchor year itself, on the day",
			now:        date(2020, time.March, 10),
			wantTarget: date(2020, time.March, 10),
			wantDays:   0,
			wantAnniv:  1,
		},
	}

	r := NewResolver(&fakeConverter{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			occ := r.Resolve(solarEvent(anchor), tc.now)
			if !occ.TargetDate.Equal(tc.wantTarget) {
				t.Errorf("target = %s, want %s", occ.TargetDate, tc.wantTarget)
			}
			if occ.Anniversary == nil {
				t.Fatal("anniversary = nil, want value")
			}
			if *occ.Anniversary != tc.wantAnniv {
				t.Errorf("anniversary = %d, want %d", *occ.Anniversary, tc.wantAnniv)
			}
			if got := Days(occ.TargetDate, tc.now); got != tc.wantDays {
				t.Errorf("days = %d, want %d", got, tc.wantDays)
			}
		})
	}
}

func TestResolveIgnoresTimeOfDay(t *testing.T) {
	r := NewResolver(&fakeConverter{})
	ev := solarEvent(date(2020, time.March, 10))

	// 23:59 on the occurrence day must still count as "today".
	now := time.Date(2024, 3, 10, 23, 59, 59, 0, time.Local)
	occ := r.Resolve(ev, now)
	if !occ.TargetDate.Equal(date(2024, time.March, 10)) {
		t.Errorf("target = %s", occ.TargetDate)
	}
	if *occ.Anniversary != 5 {
		t.Errorf("anniversary = %d, want 5", *occ.Anniversary)
	}
	if got := Days(occ.TargetDate, now); got != 0 {
		t.Errorf("days = %d, want 0", got)
	}
}

func TestResolveNone(t *testing.T) {
	r := NewResolver(&fakeConverter{})

	tests := []struct {
		name     string
		anchor   time.Time
		now      time.Time
		wantDays int
	}{
		{"future", date(2024, time.June, 1), date(2024, time.May, 27), 5},
		{"today", date(2024, time.May, 27), date(2024, time.May, 27), 0},
		{"past", date(2024, time.May, 22), date(2024, time.May, 27), -5},
		{"long past", date(2019, time.May, 27), date(2024, time.May, 27), -1827},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev := &models.Event{ID: "ev", Date: tc.anchor, Mode: models.RecurrenceNone}
			occ := r.Resolve(ev, tc.now)
			if occ.Anniversary != nil {
				t.Errorf("anniversary = %d, want nil", *occ.Anniversary)
			}
			if !occ.TargetDate.Equal(Today(tc.anchor)) {
				t.Errorf("target = %s, want anchor", occ.TargetDate)
			}
			if got := Days(occ.TargetDate, tc.now); got != tc.wantDays {
				t.Errorf("days = %d, want %d", got, tc.wantDays)
			}
		})
	}
}

func TestAnnualTargetNeverPast(t *testing.T) {
	r := NewResolver(&fakeConverter{})
	ev := solarEvent(date(2020, time.March, 10))

	// Sweep a year of "now" values; the target must always be >= today.
	now := date(2024, time.January, 1)
	for i := 0; i < 366; i++ {
		occ := r.Resolve(ev, now)
		if occ.TargetDate.Before(Today(now)) {
			t.Fatalf("target %s is before today %s", occ.TargetDate, now)
		}
		now = now.AddDate(0, 0, 1)
	}
}

func TestAnniversaryContinuityAcrossCrossing(t *testing.T) {
	r := NewResolver(&fakeConverter{})
	ev := solarEvent(date(2020, time.March, 10))

	before := r.Resolve(ev, date(2024, time.March, 9))
	onDay := r.Resolve(ev, date(2024, time.March, 10))
	after := r.Resolve(ev, date(2024, time.March, 11))

	// The count spikes on the crossing day itself and settles back to the
	// completed-years value the day after.
	if *before.Anniversary != 4 || *onDay.Anniversary != 5 || *after.Anniversary != 4 {
		t.Errorf("anniversaries = %d/%d/%d, want 4/5/4",
			*before.Anniversary, *onDay.Anniversary, *after.Anniversary)
	}
	// A year later the on-day value has advanced by exactly one.
	next := r.Resolve(ev, date(2025, time.March, 10))
	if *next.Anniversary != 6 {
		t.Errorf("next year anniversary = %d, want 6", *next.Anniversary)
	}
	if !after.TargetDate.Equal(date(2025, time.March, 10)) {
		t.Errorf("rolled target = %s, want 2025-03-10", after.TargetDate)
	}
}

func TestResolveLunarAnnual(t *testing.T) {
	// Lunar New Year style fixture: lunar 1/1 anchored in 2019.
	conv := &fakeConverter{dates: map[string]time.Time{
		"2024-1-1": date(2024, time.February, 10),
		"2025-1-1": date(2025, time.January, 29),
	}}
	r := NewResolver(conv)
	ev := &models.Event{
		ID:         "ev",
		Date:       date(2019, time.February, 5),
		Mode:       models.RecurrenceLunarAnnual,
		LunarMonth: 1,
		LunarDay:   1,
	}

	t.Run("upcoming this year", func(t *testing.T) {
		occ := r.Resolve(ev, date(2024, time.February, 1))
		if !occ.TargetDate.Equal(date(2024, time.February, 10)) {
			t.Errorf("target = %s", occ.TargetDate)
		}
		if *occ.Anniversary != 5 {
			t.Errorf("anniversary = %d, want 5", *occ.Anniversary)
		}
	})

	t.Run("on the day", func(t *testing.T) {
		occ := r.Resolve(ev, date(2024, time.February, 10))
		if *occ.Anniversary != 6 {
			t.Errorf("anniversary = %d, want 6", *occ.Anniversary)
		}
	})

	t.Run("just after, rolls to next year's conversion", func(t *testing.T) {
		occ := r.Resolve(ev, date(2024, time.February, 11))
		if !occ.TargetDate.Equal(date(2025, time.January, 29)) {
			t.Errorf("target = %s, want 2025-01-29", occ.TargetDate)
		}
		if *occ.Anniversary != 5 {
			t.Errorf("anniversary = %d, want 5", *occ.Anniversary)
		}
	})
}

func TestResolveLunarInNonLocalZone(t *testing.T) {
	// The converter yields dates in the host's local zone; "now" may carry
	// any other zone. The on-the-day branch must still fire.
	conv := &fakeConverter{dates: map[string]time.Time{
		"2024-1-1": date(2024, time.February, 10),
		"2025-1-1": date(2025, time.January, 29),
	}}
	r := NewResolver(conv)
	ev := &models.Event{
		ID:         "ev",
		Date:       date(2019, time.February, 5),
		Mode:       models.RecurrenceLunarAnnual,
		LunarMonth: 1,
		LunarDay:   1,
	}

	zone := time.FixedZone("UTC+12", 12*3600)
	now := time.Date(2024, 2, 10, 8, 0, 0, 0, zone)

	occ := r.Resolve(ev, now)
	y, m, d := occ.TargetDate.Date()
	if y != 2024 || m != time.February || d != 10 {
		t.Errorf("target = %s, want 2024-02-10", occ.TargetDate)
	}
	if occ.TargetDate.Location() != zone {
		t.Errorf("target zone = %v, want %v", occ.TargetDate.Location(), zone)
	}
	if *occ.Anniversary != 6 {
		t.Errorf("anniversary = %d, want 6", *occ.Anniversary)
	}
	if got := Days(occ.TargetDate, now); got != 0 {
		t.Errorf("days = %d, want 0", got)
	}
}

func TestResolveLunarFallbackOnConverterFailure(t *testing.T) {
	r := NewResolver(&fakeConverter{fail: true})
	ev := &models.Event{
		ID:         "ev",
		Date:       date(2019, time.February, 5),
		Mode:       models.RecurrenceLunarAnnual,
		LunarMonth: 1,
		LunarDay:   1,
	}

	// Degraded mode: candidate falls back to Jan 1 of the requested year.
	// On 2024-03-01 the current-year fallback (2024-01-01) is past, so the
	// target rolls to next year's fallback.
	occ := r.Resolve(ev, date(2024, time.March, 1))
	if !occ.TargetDate.Equal(date(2025, time.January, 1)) {
		t.Errorf("target = %s, want 2025-01-01 fallback", occ.TargetDate)
	}
	if occ.Anniversary == nil || *occ.Anniversary != 5 {
		t.Errorf("anniversary = %v, want 5", occ.Anniversary)
	}
}

func TestDaysInvariantToTimeOfDay(t *testing.T) {
	target := time.Date(2024, 6, 1, 18, 30, 0, 0, time.Local)
	for _, hour := range []int{0, 1, 12, 23} {
		now := time.Date(2024, 5, 27, hour, 45, 0, 0, time.Local)
		if got := Days(target, now); got != 5 {
			t.Errorf("Days at hour %d = %d, want 5", hour, got)
		}
	}
}

func TestSortPinnedFirstThenAbsoluteDays(t *testing.T) {
	ev := func(id string, pinned bool) *models.Event {
		return &models.Event{ID: id, IsPinned: pinned}
	}
	items := []Resolved{
		{Event: ev("far", false), Days: 120},
		{Event: ev("overdue", false), Days: -5},
		{Event: ev("pin-b", true), Days: 90},
		{Event: ev("soon", false), Days: 3},
		{Event: ev("pin-a", true), Days: 10},
		{Event: ev("upcoming", false), Days: 5},
	}

	Sort(items)

	var got []string
	for _, it := range items {
		got = append(got, it.Event.ID)
	}
	// Pinned keep insertion order (stable); overdue -5 ties with upcoming 5
	// on absolute value and insertion order decides.
	want := []string{"pin-b", "pin-a", "soon", "overdue", "upcoming", "far"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
