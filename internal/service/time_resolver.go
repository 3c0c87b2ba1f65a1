package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Slots is the structured fragment set an utterance is cut into before
// time resolution. All fields are optional free text.
type Slots struct {
	RelativeDay  string // "today", "tomorrow", "tonight", "next week", ...
	DayName      string // weekday name or abbreviation
	TimeNumber   string // "3" in "in 3 days"
	TimeUnit     string // "days" in "in 3 days"
	TimePeriod   string // "morning", "afternoon", "evening", "night"
	HourNumber   string // "3", "3:30pm", "15:00", "noon"
	MinuteNumber string // "30" when spoken separately
	MonthName    string // "march"
	Ordinal      string // "3rd"
}

// Empty reports whether no slot carries a value.
func (s Slots) Empty() bool {
	return s == Slots{}
}

var (
	// 12:33, 2:33, 02:33
	twentyFourHourFormat = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

	// 12:33am, 1:33pm, 12pm, 3am; a bare 12:33 assumes 24-hour reading
	twelveHourFormat = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)

	nonDigits = regexp.MustCompile(`[^\d]`)
)

// dayNameToWeekday maps day names and abbreviations to weekdays.
var dayNameToWeekday = map[string]time.Weekday{
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tues":      time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"weds":      time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
}

var monthNameToNumber = map[string]time.Month{
	"january":   time.January,
	"jan":       time.January,
	"february":  time.February,
	"feb":       time.February,
	"march":     time.March,
	"mar":       time.March,
	"april":     time.April,
	"apr":       time.April,
	"may":       time.May,
	"june":      time.June,
	"jun":       time.June,
	"july":      time.July,
	"jul":       time.July,
	"august":    time.August,
	"aug":       time.August,
	"september": time.September,
	"sep":       time.September,
	"october":   time.October,
	"oct":       time.October,
	"november":  time.November,
	"nov":       time.November,
	"december":  time.December,
	"dec":       time.December,
}

var timeUnitToDuration = map[string]time.Duration{
	"minute":  time.Minute,
	"minutes": time.Minute,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"day":     24 * time.Hour,
	"days":    24 * time.Hour,
	"week":    7 * 24 * time.Hour,
	"weeks":   7 * 24 * time.Hour,
}

var timePeriodToHour = map[string]int{
	"morning":   9,
	"afternoon": 14,
	"evening":   18,
	"night":     21,
}

// ResolveDue maps a slot set to one absolute due time relative to now.
// Slot groups are tried in strict priority order, first match wins:
// relative day, day name, relative offset, month with ordinal. With no
// match the due falls back to now + 1 day. Every path except the
// relative offset is then refined with the time-of-day slots, defaulting
// to 09:00, and rolled a day forward when the result is already past.
func ResolveDue(now time.Time, slots Slots) time.Time {
	var result time.Time
	matched := false

	switch {
	case slots.RelativeDay != "":
		result, matched = resolveRelativeDay(now, slots.RelativeDay)
	case slots.DayName != "":
		result, matched = resolveDayName(now, slots.DayName)
	case slots.TimeNumber != "" && slots.TimeUnit != "":
		result, matched = resolveRelativeOffset(now, slots.TimeNumber, slots.TimeUnit)
	case slots.MonthName != "" && slots.Ordinal != "":
		result, matched = resolveMonthOrdinal(now, slots.MonthName, slots.Ordinal)
	}

	if !matched {
		result = now.AddDate(0, 0, 1)
	}

	// A relative offset already encodes both date and time.
	if isRelativeOffset(slots) {
		return result
	}

	return applyTimeOfDay(now, result, slots.TimePeriod, slots.HourNumber, slots.MinuteNumber)
}

func resolveRelativeDay(now time.Time, relativeDay string) (time.Time, bool) {
	switch strings.ToLower(relativeDay) {
	case "today":
		return now, true
	case "tomorrow":
		return now.AddDate(0, 0, 1), true
	case "tonight":
		base := now
		if now.Hour() > 21 {
			base = now.AddDate(0, 0, 1)
		}
		return atClock(base, 21, 0), true
	case "next week":
		// Approximation carried over: not the coming Monday.
		return now.AddDate(0, 0, 7), true
	case "this week":
		// Approximation carried over: not an end-of-week boundary.
		return now, true
	case "this weekend":
		return now.AddDate(0, 0, daysUntilSaturday(now)), true
	case "next weekend":
		return now.AddDate(0, 0, daysUntilSaturday(now)+7), true
	}
	return time.Time{}, false
}

func resolveDayName(now time.Time, dayName string) (time.Time, bool) {
	target, ok := dayNameToWeekday[strings.ToLower(dayName)]
	if !ok {
		return time.Time{}, false
	}
	daysAhead := int(target-now.Weekday()+7) % 7
	// The same weekday always means next week, never today.
	if daysAhead == 0 {
		daysAhead = 7
	}
	return now.AddDate(0, 0, daysAhead), true
}

func resolveRelativeOffset(now time.Time, timeNumber, timeUnit string) (time.Time, bool) {
	num, err := strconv.Atoi(strings.TrimSpace(timeNumber))
	if err != nil {
		return time.Time{}, false
	}
	unit, ok := timeUnitToDuration[strings.ToLower(timeUnit)]
	if !ok {
		return time.Time{}, false
	}
	return now.Add(unit * time.Duration(num)), true
}

func resolveMonthOrdinal(now time.Time, monthName, ordinal string) (time.Time, bool) {
	month, ok := monthNameToNumber[strings.ToLower(monthName)]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(nonDigits.ReplaceAllString(ordinal, ""))
	if err != nil {
		return time.Time{}, false
	}

	year := now.Year()
	if month < now.Month() || (month == now.Month() && day < now.Day()) {
		year++
	}

	result := time.Date(year, month, day, 9, 0, 0, 0, now.Location())
	// time.Date normalizes impossible dates (Feb 30); reject those.
	if result.Day() != day || result.Month() != month {
		return time.Time{}, false
	}
	return result, true
}

// isRelativeOffset reports whether the slot set addresses the relative
// offset path, which skips time-of-day refinement.
func isRelativeOffset(slots Slots) bool {
	if slots.RelativeDay != "" || slots.DayName != "" {
		return false
	}
	if slots.TimeNumber == "" || slots.TimeUnit == "" {
		return false
	}
	if _, err := strconv.Atoi(strings.TrimSpace(slots.TimeNumber)); err != nil {
		return false
	}
	_, ok := timeUnitToDuration[strings.ToLower(slots.TimeUnit)]
	return ok
}

// applyTimeOfDay refines a resolved date with the time-of-day slots.
// Results already in the past move one day forward, so "3pm" spoken
// after 3pm means tomorrow.
func applyTimeOfDay(now, result time.Time, timePeriod, hourNumber, minuteNumber string) time.Time {
	if timePeriod != "" {
		// An unrecognized period keeps the base clock.
		if hour, ok := timePeriodToHour[strings.ToLower(timePeriod)]; ok {
			result = atClock(result, hour, 0)
		}
	} else if hourNumber != "" {
		if hour, minute, ok := parseHourAndMinute(hourNumber, minuteNumber); ok {
			result = atClock(result, hour, minute)
		}
	} else {
		result = atClock(result, 9, 0)
	}

	if result.Before(now) {
		result = result.AddDate(0, 0, 1)
	}
	return result
}

// parseHourAndMinute parses a clock string like "3pm", "3:30pm",
// "15:00", "noon" or "midnight" into an hour and minute.
func parseHourAndMinute(hour, minute string) (int, int, bool) {
	hour = strings.TrimSpace(strings.ToLower(hour))
	minute = strings.TrimSpace(strings.ToLower(minute))

	timeStr := hour
	if minute != "" {
		timeStr = hour + ":" + minute
		if m := twentyFourHourFormat.FindStringSubmatch(timeStr); m != nil {
			h, _ := strconv.Atoi(m[1])
			min, _ := strconv.Atoi(m[2])
			if h <= 23 && min <= 59 {
				return h, min, true
			}
			return 0, 0, false
		}
	}

	if m := twelveHourFormat.FindStringSubmatch(timeStr); m != nil {
		h, _ := strconv.Atoi(m[1])
		min := 0
		if m[2] != "" {
			min, _ = strconv.Atoi(m[2])
		}
		switch m[3] {
		case "pm":
			if h != 12 {
				h += 12
			}
		case "am":
			if h == 12 {
				h = 0
			}
		}
		if h <= 23 && min <= 59 {
			return h, min, true
		}
		return 0, 0, false
	}

	switch hour {
	case "noon", "midday":
		return 12, 0, true
	case "midnight":
		return 0, 0, true
	}

	return 0, 0, false
}

func daysUntilSaturday(now time.Time) int {
	return int(time.Saturday-now.Weekday()+7) % 7
}

func atClock(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}
