package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
)

// maxScheduleLookaheadDays bounds the search for the next opening.
const maxScheduleLookaheadDays = 90

// BlockedDateLayout is the wire format for blocked dates ("2006-01-02").
const BlockedDateLayout = "2006-01-02"

// TimeInterval is an opening window within a day, in the store's local
// wall clock. A Close at or before Open means the window spans midnight
// into the next day (e.g. 18:00-02:00).
type TimeInterval struct {
	Open  string `json:"open"`  // "HH:MM"
	Close string `json:"close"` // "HH:MM"
}

// SpansMidnight reports whether the interval crosses into the next day
func (iv TimeInterval) SpansMidnight() bool {
	open, err1 := parseClock(iv.Open)
	close, err2 := parseClock(iv.Close)
	if err1 != nil || err2 != nil {
		return false
	}
	return close <= open
}

// contains reports whether the given minute-of-day falls inside the window.
// For midnight-spanning windows only the same-day half is considered; the
// spillover into the next day is handled by the caller.
func (iv TimeInterval) contains(minute int) bool {
	open, err1 := parseClock(iv.Open)
	close, err2 := parseClock(iv.Close)
	if err1 != nil || err2 != nil {
		return false
	}
	if close > open {
		return minute >= open && minute < close
	}
	return minute >= open
}

// DaySchedule holds the opening windows for one weekday
type DaySchedule struct {
	Enabled   bool           `json:"enabled"`
	Intervals []TimeInterval `json:"intervals,omitempty"`
}

// WeeklySchedule holds one DaySchedule per weekday, indexed like
// time.Weekday (Sunday first).
type WeeklySchedule [7]DaySchedule

// Day returns the schedule for the given weekday
func (ws WeeklySchedule) Day(day time.Weekday) DaySchedule {
	return ws[int(day)]
}

// HasAnyOpening reports whether at least one weekday is enabled with hours
func (ws WeeklySchedule) HasAnyOpening() bool {
	for _, day := range ws {
		if day.Enabled && len(day.Intervals) > 0 {
			return true
		}
	}
	return false
}

// EmptyWeeklySchedule returns a schedule with every day closed
func EmptyWeeklySchedule() WeeklySchedule {
	return WeeklySchedule{}
}

// ValidateWeeklySchedule checks interval shape for every enabled day:
// one or two windows, valid HH:MM bounds, windows in chronological order
// without overlap, and only the last window of a day may span midnight.
func ValidateWeeklySchedule(ws WeeklySchedule) error {
	for i, day := range ws {
		if !day.Enabled {
			continue
		}
		weekday := time.Weekday(i).String()
		if len(day.Intervals) == 0 {
			return shared.NewDomainError("INVALID_SCHEDULE", fmt.Sprintf("%s is enabled but has no opening hours", weekday))
		}
		if len(day.Intervals) > 2 {
			return shared.NewDomainError("INVALID_SCHEDULE", fmt.Sprintf("%s has more than two opening windows", weekday))
		}
		for _, iv := range day.Intervals {
			open, err := parseClock(iv.Open)
			if err != nil {
				return shared.NewDomainError("INVALID_SCHEDULE", fmt.Sprintf("%s: %v", weekday, err))
			}
			close, err := parseClock(iv.Close)
			if err != nil {
				return shared.NewDomainError("INVALID_SCHEDULE", fmt.Sprintf("%s: %v", weekday, err))
			}
			if open == close {
				return shared.NewDomainError("INVALID_SCHEDULE", fmt.Sprintf("%s has a zero-length opening window", weekday))
			}
		}
		if len(day.Intervals) == 2 {
			first, second := day.Intervals[0], day.Intervals[1]
			if first.SpansMidnight() {
				return shared.NewDomainError("INVALID_SCHEDULE", fmt.Sprintf("%s: only the last window of a day may span midnight", weekday))
			}
			firstClose, _ := parseClock(first.Close)
			secondOpen, _ := parseClock(second.Open)
			if secondOpen < firstClose {
				return shared.NewDomainError("INVALID_SCHEDULE", fmt.Sprintf("%s has overlapping opening windows", weekday))
			}
		}
	}
	return nil
}

// ValidateBlockedDates checks that every entry parses as "2006-01-02"
func ValidateBlockedDates(dates []string) error {
	for _, d := range dates {
		if _, err := time.Parse(BlockedDateLayout, d); err != nil {
			return shared.NewDomainError("INVALID_BLOCKED_DATE", fmt.Sprintf("Invalid blocked date %q, expected YYYY-MM-DD", d))
		}
	}
	return nil
}

// isBlockedOn reports whether the calendar date of t appears in the list
func isBlockedOn(blockedDates []string, t time.Time) bool {
	key := t.Format(BlockedDateLayout)
	for _, d := range blockedDates {
		if d == key {
			return true
		}
	}
	return false
}

// IsOpen reports whether orders can be placed at the given local time.
// A blocked date suppresses the whole calendar day, including the tail of
// a midnight-spanning window opened the evening before.
func IsOpen(ws WeeklySchedule, blockedDates []string, at time.Time) bool {
	if isBlockedOn(blockedDates, at) {
		return false
	}

	minute := at.Hour()*60 + at.Minute()

	today := ws.Day(at.Weekday())
	if today.Enabled {
		for _, iv := range today.Intervals {
			if iv.contains(minute) {
				return true
			}
		}
	}

	// Tail of yesterday's midnight-spanning window
	prev := at.AddDate(0, 0, -1)
	if isBlockedOn(blockedDates, prev) {
		return false
	}
	yesterday := ws.Day(prev.Weekday())
	if !yesterday.Enabled {
		return false
	}
	for _, iv := range yesterday.Intervals {
		if !iv.SpansMidnight() {
			continue
		}
		if close, err := parseClock(iv.Close); err == nil && minute < close {
			return true
		}
	}
	return false
}

// NextValidOrderTime returns the earliest local time at or after from when
// an order can be placed. If the store is open at from, from itself is
// returned. The search is bounded; a schedule with no reachable opening
// yields an error.
func NextValidOrderTime(ws WeeklySchedule, blockedDates []string, from time.Time) (time.Time, error) {
	if IsOpen(ws, blockedDates, from) {
		return from, nil
	}

	for offset := 0; offset <= maxScheduleLookaheadDays; offset++ {
		day := from.AddDate(0, 0, offset)
		if isBlockedOn(blockedDates, day) {
			continue
		}
		sched := ws.Day(day.Weekday())
		if !sched.Enabled {
			continue
		}
		for _, iv := range sched.Intervals {
			open, err := parseClock(iv.Open)
			if err != nil {
				continue
			}
			candidate := time.Date(day.Year(), day.Month(), day.Day(), open/60, open%60, 0, 0, from.Location())
			if candidate.After(from) {
				return candidate, nil
			}
		}
	}

	return time.Time{}, shared.NewDomainError("NO_UPCOMING_OPENING", "Store has no upcoming opening hours")
}

// parseClock parses "HH:MM" into minutes since midnight
func parseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	min, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return hour*60 + min, nil
}
