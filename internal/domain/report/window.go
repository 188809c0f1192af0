package report

import (
	"strings"
	"time"

	"github.com/menuhub/backend/internal/domain/shared"
)

// Period names a calendar window relative to now
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// DateLayout is the calendar date format accepted for explicit ranges
const DateLayout = "2006-01-02"

// Window is the half-open interval [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// WindowRequest is the raw period selection of a history query
type WindowRequest struct {
	Period string
	Start  string
	End    string
}

// ResolveWindow picks the window for a request. Exactly one path is taken, in
// order: day, week, month, explicit range. When none applies the result is nil,
// meaning unfiltered. Calendar boundaries use now's location.
func ResolveWindow(req WindowRequest, now time.Time) (*Window, error) {
	switch Period(strings.ToLower(strings.TrimSpace(req.Period))) {
	case PeriodDay:
		w := Today(now)
		return &w, nil
	case PeriodWeek:
		w := ThisWeek(now)
		return &w, nil
	case PeriodMonth:
		w := ThisMonth(now)
		return &w, nil
	}

	start := strings.TrimSpace(req.Start)
	end := strings.TrimSpace(req.End)
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, shared.NewValidationError("Both start and end dates are required for a custom range")
	}

	from, err := parseDate(start, now.Location())
	if err != nil {
		return nil, shared.NewValidationError("Invalid start date %q: expected YYYY-MM-DD", start)
	}
	to, err := parseDate(end, now.Location())
	if err != nil {
		return nil, shared.NewValidationError("Invalid end date %q: expected YYYY-MM-DD", end)
	}
	if from.After(to) {
		return nil, shared.NewValidationError("Start date %s is after end date %s", start, end)
	}
	return &Window{Start: from, End: to.AddDate(0, 0, 1)}, nil
}

// Today is [midnight today, midnight tomorrow)
func Today(now time.Time) Window {
	start := midnight(now)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// ThisWeek starts on the Monday at or before now. Sunday is the seventh day.
func ThisWeek(now time.Time) Window {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := midnight(now).AddDate(0, 0, -(weekday - 1))
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// ThisMonth is [first of the month, first of next month)
func ThisMonth(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseDate accepts YYYY-MM-DD, or an RFC3339 timestamp whose calendar date is used
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return midnight(t.In(loc)), nil
}
