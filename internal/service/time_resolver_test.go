package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// A Monday mid-morning, so same-day 09:00 results are already past.
var resolverNow = time.Date(2025, time.March, 10, 10, 30, 0, 0, time.Local)

func local(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}

func TestResolveDueRelativeDay(t *testing.T) {
	tests := []struct {
		name  string
		slots Slots
		want  time.Time
	}{
		{
			name:  "tomorrow defaults to nine",
			slots: Slots{RelativeDay: "tomorrow"},
			want:  local(2025, time.March, 11, 9, 0),
		},
		{
			name:  "tomorrow with clock time",
			slots: Slots{RelativeDay: "tomorrow", HourNumber: "3pm"},
			want:  local(2025, time.March, 11, 15, 0),
		},
		{
			name:  "today with period",
			slots: Slots{RelativeDay: "today", TimePeriod: "afternoon"},
			want:  local(2025, time.March, 10, 14, 0),
		},
		{
			name:  "today without time rolls past nine to tomorrow",
			slots: Slots{RelativeDay: "today"},
			want:  local(2025, time.March, 11, 9, 0),
		},
		{
			name:  "tonight with late clock",
			slots: Slots{RelativeDay: "tonight", HourNumber: "10pm"},
			want:  local(2025, time.March, 10, 22, 0),
		},
		{
			name:  "next week keeps the placeholder offset",
			slots: Slots{RelativeDay: "next week"},
			want:  local(2025, time.March, 17, 9, 0),
		},
		{
			name:  "this weekend is the coming saturday",
			slots: Slots{RelativeDay: "this weekend"},
			want:  local(2025, time.March, 15, 9, 0),
		},
		{
			name:  "next weekend is the saturday after",
			slots: Slots{RelativeDay: "next weekend"},
			want:  local(2025, time.March, 22, 9, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDue(resolverNow, tt.slots))
		})
	}
}

func TestResolveDueTonightAfterNine(t *testing.T) {
	lateNow := time.Date(2025, time.March, 10, 22, 15, 0, 0, time.Local)
	got := ResolveDue(lateNow, Slots{RelativeDay: "tonight", HourNumber: "11pm"})
	assert.Equal(t, local(2025, time.March, 11, 23, 0), got)
}

func TestResolveDueDayName(t *testing.T) {
	t.Run("same weekday means next week", func(t *testing.T) {
		got := ResolveDue(resolverNow, Slots{DayName: "monday"})
		assert.Equal(t, local(2025, time.March, 17, 9, 0), got)
	})

	t.Run("later weekday stays in this week", func(t *testing.T) {
		got := ResolveDue(resolverNow, Slots{DayName: "fri"})
		assert.Equal(t, local(2025, time.March, 14, 9, 0), got)
	})

	t.Run("unknown name falls back to tomorrow", func(t *testing.T) {
		got := ResolveDue(resolverNow, Slots{DayName: "someday"})
		assert.Equal(t, local(2025, time.March, 11, 9, 0), got)
	})
}

func TestResolveDueRelativeOffset(t *testing.T) {
	t.Run("minutes keep the exact offset", func(t *testing.T) {
		got := ResolveDue(resolverNow, Slots{TimeNumber: "20", TimeUnit: "minutes"})
		assert.Equal(t, resolverNow.Add(20*time.Minute), got)
	})

	t.Run("days skip time refinement", func(t *testing.T) {
		got := ResolveDue(resolverNow, Slots{TimeNumber: "3", TimeUnit: "days", TimePeriod: "evening"})
		assert.Equal(t, resolverNow.Add(3*24*time.Hour), got)
	})

	t.Run("weeks", func(t *testing.T) {
		got := ResolveDue(resolverNow, Slots{TimeNumber: "2", TimeUnit: "weeks"})
		assert.Equal(t, resolverNow.Add(14*24*time.Hour), got)
	})

	t.Run("bad number falls back to tomorrow", func(t *testing.T) {
		got := ResolveDue(resolverNow, Slots{TimeNumber: "many", TimeUnit: "days"})
		assert.Equal(t, local(2025, time.March, 11, 9, 0), got)
	})
}

func TestResolveDueMonthOrdinal(t *testing.T) {
	t.Run("future date this year", func(t *testing.T) {
		got := ResolveDue(resolverNow, Slots{MonthName: "march", Ordinal: "15th"})
		assert.Equal(t, local(2025, time.March, 15, 9, 0), got)
	})

	t.Run("passed date rolls to next year", func(t *testing.T) {
		got := ResolveDue(resolverNow, Slots{MonthName: "march", Ordinal: "3rd"})
		assert.Equal(t, local(2026, time.March, 3, 9, 0), got)
	})

	t.Run("ordinal digits extracted from noise", func(t *testing.T) {
		got := ResolveDue(resolverNow, Slots{MonthName: "june", Ordinal: "the 21st"})
		assert.Equal(t, local(2025, time.June, 21, 9, 0), got)
	})

	t.Run("impossible date falls back to tomorrow", func(t *testing.T) {
		got := ResolveDue(resolverNow, Slots{MonthName: "february", Ordinal: "30th"})
		assert.Equal(t, local(2025, time.March, 11, 9, 0), got)
	})

	t.Run("refined with clock time", func(t *testing.T) {
		got := ResolveDue(resolverNow, Slots{MonthName: "april", Ordinal: "1st", HourNumber: "8", MinuteNumber: "45"})
		assert.Equal(t, local(2025, time.April, 1, 8, 45), got)
	})
}

func TestResolveDueUnknownPeriodKeepsClock(t *testing.T) {
	got := ResolveDue(resolverNow, Slots{RelativeDay: "tomorrow", TimePeriod: "dusk"})
	assert.Equal(t, local(2025, time.March, 11, 10, 30), got)
}

func TestResolveDueNoSlots(t *testing.T) {
	got := ResolveDue(resolverNow, Slots{})
	assert.Equal(t, local(2025, time.March, 11, 9, 0), got)
}

func TestResolveDueClockFormats(t *testing.T) {
	tests := []struct {
		name  string
		slots Slots
		want  time.Time
	}{
		{"twenty four hour", Slots{RelativeDay: "today", HourNumber: "15:00"}, local(2025, time.March, 10, 15, 0)},
		{"twelve hour with minutes", Slots{RelativeDay: "today", HourNumber: "3:30pm"}, local(2025, time.March, 10, 15, 30)},
		{"noon", Slots{RelativeDay: "today", HourNumber: "noon"}, local(2025, time.March, 10, 12, 0)},
		{"midday", Slots{RelativeDay: "today", HourNumber: "midday"}, local(2025, time.March, 10, 12, 0)},
		{"midnight rolls to tomorrow", Slots{RelativeDay: "today", HourNumber: "midnight"}, local(2025, time.March, 11, 0, 0)},
		{"twelve am is midnight", Slots{RelativeDay: "tomorrow", HourNumber: "12am"}, local(2025, time.March, 11, 0, 0)},
		{"twelve pm is noon", Slots{RelativeDay: "tomorrow", HourNumber: "12pm"}, local(2025, time.March, 11, 12, 0)},
		{"past clock time rolls to tomorrow", Slots{RelativeDay: "today", HourNumber: "9am"}, local(2025, time.March, 11, 9, 0)},
		{"separate minute slot", Slots{RelativeDay: "tomorrow", HourNumber: "16", MinuteNumber: "20"}, local(2025, time.March, 11, 16, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDue(resolverNow, tt.slots))
		})
	}
}

func TestParseHourAndMinute(t *testing.T) {
	tests := []struct {
		hour   string
		minute string
		wantH  int
		wantM  int
		wantOK bool
	}{
		{"3pm", "", 15, 0, true},
		{"3:30pm", "", 15, 30, true},
		{"12am", "", 0, 0, true},
		{"12pm", "", 12, 0, true},
		{"15:00", "", 15, 0, true},
		{"15", "04", 15, 4, true},
		{"noon", "", 12, 0, true},
		{"midnight", "", 0, 0, true},
		{"25:00", "", 0, 0, false},
		{"later", "", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.hour, func(t *testing.T) {
			h, m, ok := parseHourAndMinute(tt.hour, tt.minute)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantH, h)
				assert.Equal(t, tt.wantM, m)
			}
		})
	}
}
