package inventory

import (
	"strconv"
	"strings"
	"time"

	"github.com/memberx/deals-api/internal/models"
)

// SlotWindow is one candidate slot produced by expanding a rule. Nothing is
// persisted at this level; the use case decides what to do with the set.
type SlotWindow struct {
	Start time.Time
	End   time.Time
}

// ParseWeekdays reads the rule's comma-separated weekday set ("0,1,2,3,4",
// 0=Sunday). Out-of-range and malformed entries are ignored.
func ParseWeekdays(s string) map[time.Weekday]bool {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days[time.Weekday(n)] = true
	}
	return days
}

func parseHM(hm string, day time.Time, loc *time.Location) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		loc,
	), true
}

// ExpandRule materializes a rule over [from, to] (inclusive dates) in loc:
// for every date whose weekday is in the rule's set, one window per interval
// step, with the whole window fitting inside the rule's daily start/end.
// The range is clamped to the rule's effective window; a rule whose
// effectiveUntil precedes from simply yields nothing.
func ExpandRule(rule *models.SlotRule, from, to time.Time, loc *time.Location) []SlotWindow {
	if rule.IntervalMinutes <= 0 {
		return nil
	}

	days := ParseWeekdays(rule.DaysOfWeek)
	if len(days) == 0 {
		return nil
	}

	dateOf := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}

	first := dateOf(from)
	last := dateOf(to)

	if eff := dateOf(rule.EffectiveFrom.In(loc)); first.Before(eff) {
		first = eff
	}
	if eff := dateOf(rule.EffectiveUntil.In(loc)); last.After(eff) {
		last = eff
	}
	if last.Before(first) {
		return nil
	}

	step := time.Duration(rule.IntervalMinutes) * time.Minute
	var windows []SlotWindow

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if !days[day.Weekday()] {
			continue
		}

		dayStart, ok1 := parseHM(rule.StartTime, day, loc)
		dayEnd, ok2 := parseHM(rule.EndTime, day, loc)
		if !ok1 || !ok2 || !dayEnd.After(dayStart) {
			continue
		}

		for cur := dayStart; !cur.Add(step).After(dayEnd); cur = cur.Add(step) {
			windows = append(windows, SlotWindow{
				Start: cur,
				End:   cur.Add(step),
			})
		}
	}

	return windows
}
