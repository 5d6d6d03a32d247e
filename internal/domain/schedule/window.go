package schedule

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const week = 7 * 24 * time.Hour

const (
	basePollInterval = time.Hour
	maxPollJitter    = 5 * time.Minute
	testPollInterval = 60 * time.Second
	minPollDelay     = time.Second
)

// ErrZeroLengthWindow is returned when a window's start and end coincide.
// Such a window would be silently always-inactive, so it is rejected at load time.
var ErrZeroLengthWindow = errors.New("schedule: window start and end coincide")

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekday parses a day name such as "wed" or "Wednesday".
func ParseWeekday(s string) (time.Weekday, error) {
	if d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return time.Sunday, fmt.Errorf("schedule: unknown weekday %q", s)
}

// TimeOfDay is a wall-clock time within a single day.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return t, fmt.Errorf("schedule: invalid time of day %q", s)
	}
	if len(parts) == 2 {
		parts = append(parts, "00")
	}
	if _, err := fmt.Sscanf(parts[0]+":"+parts[1]+":"+parts[2], "%02d:%02d:%02d", &t.Hour, &t.Minute, &t.Second); err != nil {
		return TimeOfDay{}, fmt.Errorf("schedule: invalid time of day %q: %w", s, err)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("schedule: time of day %q out of range", s)
	}
	return t, nil
}

// Duration returns the offset from midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Window is a recurring weekly interval, e.g. Wednesday 15:00 through
// Thursday 09:00. The interval is half-open: the start instant is inside,
// the end instant is not. Start and end may span day and week boundaries;
// the end is always interpreted as the first occurrence at or after the
// start within one 7-day cycle.
type Window struct {
	startDay    time.Weekday
	start       TimeOfDay
	endDay      time.Weekday
	end         TimeOfDay
	startOffset time.Duration // from the week anchor (Sunday 00:00)
	length      time.Duration
}

// NewWindow builds a weekly window. A window whose start and end coincide
// is invalid and fails with ErrZeroLengthWindow.
func NewWindow(startDay time.Weekday, start TimeOfDay, endDay time.Weekday, end TimeOfDay) (Window, error) {
	startOffset := weekOffset(startDay, start.Duration())
	endOffset := weekOffset(endDay, end.Duration())
	length := modWeek(endOffset - startOffset)
	if length == 0 {
		return Window{}, fmt.Errorf("%w: %s %s", ErrZeroLengthWindow, strings.ToLower(startDay.String()), start)
	}
	return Window{
		startDay:    startDay,
		start:       start,
		endDay:      endDay,
		end:         end,
		startOffset: startOffset,
		length:      length,
	}, nil
}

// Contains reports whether now falls inside the window.
func (w Window) Contains(now time.Time) bool {
	return w.sinceStart(now) < w.length
}

// UntilStart returns how long to sleep before the window next opens.
// It returns zero when now is already inside the window.
func (w Window) UntilStart(now time.Time) time.Duration {
	elapsed := w.sinceStart(now)
	if elapsed < w.length {
		return 0
	}
	return week - elapsed
}

// Length returns the active span of the window within one weekly cycle.
func (w Window) Length() time.Duration {
	return w.length
}

func (w Window) String() string {
	return fmt.Sprintf("%s %s -> %s %s",
		strings.ToLower(w.startDay.String()), w.start,
		strings.ToLower(w.endDay.String()), w.end)
}

// sinceStart maps now onto its position within the repeating 7-day cycle
// anchored at the window start, in [0, week).
func (w Window) sinceStart(now time.Time) time.Duration {
	sinceMidnight := time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second +
		time.Duration(now.Nanosecond())
	nowOffset := weekOffset(now.Weekday(), sinceMidnight)
	return modWeek(nowOffset - w.startOffset)
}

func weekOffset(day time.Weekday, sinceMidnight time.Duration) time.Duration {
	return time.Duration(day)*24*time.Hour + sinceMidnight
}

func modWeek(d time.Duration) time.Duration {
	return ((d % week) + week) % week
}

// NextPollDelay computes how long to wait before the next check while the
// window is active. In normal mode the nominal hourly interval is jittered
// by up to five minutes either way so captures are not perfectly periodic;
// in test mode the cadence is a fixed 60 seconds. The result is always
// strictly positive.
func NextPollDelay(testMode bool, rng *rand.Rand) time.Duration {
	if testMode {
		return testPollInterval
	}
	jitter := time.Duration(rng.Int63n(int64(2*maxPollJitter)+1)) - maxPollJitter
	delay := basePollInterval + jitter
	if delay < minPollDelay {
		delay = minPollDelay
	}
	return delay
}
