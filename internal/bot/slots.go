package bot

import (
	"regexp"
	"strings"

	"user-reminders/internal/service"
)

// Phrase patterns cut out of a reminder utterance, most specific first.
var (
	relativeDayPattern = regexp.MustCompile(`(?i)\b(next weekend|this weekend|next week|this week|today|tomorrow|tonight)\b`)

	relativeOffsetPattern = regexp.MustCompile(`(?i)\bin\s+(\d+)\s+(minutes?|hours?|days?|weeks?)\b`)

	monthOrdinalPattern = regexp.MustCompile(`(?i)\b(?:on\s+)?(january|jan|february|feb|march|mar|april|apr|may|june|jun|july|jul|august|aug|september|sep|october|oct|november|nov|december|dec)\s+(\d{1,2}(?:st|nd|rd|th)?)\b`)

	dayNamePattern = regexp.MustCompile(`(?i)\b(?:on\s+)?(monday|mon|tuesday|tues|wednesday|weds|wed|thursday|thu|friday|fri|saturday|sat|sunday|sun)\b`)

	timePeriodPattern = regexp.MustCompile(`(?i)\b(?:in\s+the\s+|this\s+|at\s+)?(morning|afternoon|evening|night)\b`)

	clockPattern = regexp.MustCompile(`(?i)(?:\bat\s+(\d{1,2}(?::\d{2})?\s*(?:am|pm)?)\b|\b(\d{1,2}:\d{2})\b|\b(\d{1,2}\s*(?:am|pm))\b|\b(noon|midday|midnight)\b)`)
)

// ExtractSlots cuts the date and time phrases out of a free-text
// reminder utterance, returning the slot set for the time resolver and
// the remaining text as the reminder summary. Best-effort keyword
// matching, not language understanding.
func ExtractSlots(text string) (service.Slots, string) {
	var slots service.Slots
	rest := text

	if m := relativeDayPattern.FindStringSubmatch(rest); m != nil {
		slots.RelativeDay = strings.ToLower(m[1])
		rest = strings.Replace(rest, m[0], " ", 1)
	}

	if m := relativeOffsetPattern.FindStringSubmatch(rest); m != nil {
		slots.TimeNumber = m[1]
		slots.TimeUnit = strings.ToLower(m[2])
		rest = strings.Replace(rest, m[0], " ", 1)
	}

	if m := monthOrdinalPattern.FindStringSubmatch(rest); m != nil {
		slots.MonthName = strings.ToLower(m[1])
		slots.Ordinal = m[2]
		rest = strings.Replace(rest, m[0], " ", 1)
	}

	if slots.RelativeDay == "" {
		if m := dayNamePattern.FindStringSubmatch(rest); m != nil {
			slots.DayName = strings.ToLower(m[1])
			rest = strings.Replace(rest, m[0], " ", 1)
		}
	}

	if m := timePeriodPattern.FindStringSubmatch(rest); m != nil {
		slots.TimePeriod = strings.ToLower(m[1])
		rest = strings.Replace(rest, m[0], " ", 1)
	}

	if slots.TimePeriod == "" {
		if m := clockPattern.FindStringSubmatch(rest); m != nil {
			for _, group := range m[1:] {
				if group != "" {
					slots.HourNumber = strings.ToLower(strings.TrimSpace(group))
					break
				}
			}
			rest = strings.Replace(rest, m[0], " ", 1)
		}
	}

	return slots, cleanSummary(rest)
}

func cleanSummary(text string) string {
	summary := strings.Join(strings.Fields(text), " ")
	summary = strings.TrimRight(summary, " ,.")
	for _, dangling := range []string{" on", " at", " in"} {
		summary = strings.TrimSuffix(summary, dangling)
	}
	return strings.TrimSpace(summary)
}
