// Package lunar wraps Chinese lunisolar calendar conversion behind a narrow
// interface so the rest of the system only ever sees date-in, date-out, or an
// explicit error.
package lunar

import (
	"fmt"
	"time"

	"github.com/6tail/lunar-go/calendar"
)

// Converter converts between lunar and solar calendar dates.
type Converter interface {
	// LunarToSolar resolves the solar date of a lunar month/day within the
	// given lunar year. Month is 1-12, day is 1-30; days that do not exist
	// in that year's lunar calendar return an error.
	LunarToSolar(year, month, day int) (time.Time, error)
	// SolarToLunar returns the lunar month, day and leap flag for a solar
	// date. A negative month from the underlying tables marks a leap month
	// and is normalised to a positive month with leap=true.
	SolarToLunar(date time.Time) (month, day int, leap bool, err error)
}

// NewConverter returns a Converter backed by the lunar-go tables.
func NewConverter() Converter {
	return converter{}
}

type converter struct{}

func (converter) LunarToSolar(year, month, day int) (t time.Time, err error) {
	// lunar-go panics on dates outside its tables (e.g. day 30 of a 29-day
	// lunar month); surface that as an error instead.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lunar: convert %d-%d-%d: %v", year, month, day, r)
		}
	}()

	if month < 1 || month > 12 || day < 1 || day > 30 {
		return time.Time{}, fmt.Errorf("lunar: month/day out of range: %d-%d", month, day)
	}

	solar := calendar.NewLunarFromYmd(year, month, day).GetSolar()
	return time.Date(solar.GetYear(), time.Month(solar.GetMonth()), solar.GetDay(), 0, 0, 0, 0, time.Local), nil
}

func (converter) SolarToLunar(date time.Time) (month, day int, leap bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lunar: convert %s: %v", date.Format("2006-01-02"), r)
		}
	}()

	l := calendar.NewSolarFromDate(date).GetLunar()
	month = l.GetMonth()
	if month < 0 {
		month = -month
		leap = true
	}
	return month, l.GetDay(), leap, nil
}
