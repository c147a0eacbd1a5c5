package inventory

import (
	"testing"
	"time"

	"github.com/memberx/deals-api/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testRule() *models.SlotRule {
	return &models.SlotRule{
		ID:              1,
		DaysOfWeek:      "0,1,2,3,4", // Sun-Thu
		StartTime:       "18:00",
		EndTime:         "20:00",
		IntervalMinutes: 60,
		Capacity:        10,
		EffectiveFrom:   date(2026, 3, 1),
		EffectiveUntil:  date(2026, 12, 31),
		IsActive:        true,
	}
}

func TestParseWeekdays(t *testing.T) {
	days := ParseWeekdays("0, 3,6")
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if !days[time.Sunday] || !days[time.Wednesday] || !days[time.Saturday] {
		t.Fatalf("wrong days parsed: %v", days)
	}
}

func TestParseWeekdaysIgnoresJunk(t *testing.T) {
	days := ParseWeekdays("1,x,9,-1,,2")
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if !days[time.Monday] || !days[time.Tuesday] {
		t.Fatalf("wrong days parsed: %v", days)
	}
}

func TestExpandRuleFullWeek(t *testing.T) {
	// 2026-03-01 is a Sunday; Sun-Thu over one week is 5 days, and an
	// 18:00-20:00 window at 60 minutes yields 2 slots per day.
	windows := ExpandRule(testRule(), date(2026, 3, 1), date(2026, 3, 7), time.UTC)

	if len(windows) != 10 {
		t.Fatalf("expected 10 windows, got %d", len(windows))
	}

	first := windows[0]
	if !first.Start.Equal(time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("first window starts at %v", first.Start)
	}
	if !first.End.Equal(time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)) {
		t.Errorf("first window ends at %v", first.End)
	}
}

func TestExpandRulePartialIntervalDropped(t *testing.T) {
	rule := testRule()
	rule.IntervalMinutes = 45

	windows := ExpandRule(rule, date(2026, 3, 1), date(2026, 3, 1), time.UTC)

	// 18:00 and 18:45 fit; a 19:30 start would spill past 20:00.
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	last := windows[len(windows)-1]
	if !last.End.Equal(time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC)) {
		t.Errorf("last window ends at %v", last.End)
	}
}

func TestExpandRuleClampsToEffectiveWindow(t *testing.T) {
	rule := testRule()
	rule.EffectiveFrom = date(2026, 3, 3) // Tuesday

	windows := ExpandRule(rule, date(2026, 3, 1), date(2026, 3, 7), time.UTC)

	// Tue, Wed, Thu remain.
	if len(windows) != 6 {
		t.Fatalf("expected 6 windows, got %d", len(windows))
	}
	if windows[0].Start.Day() != 3 {
		t.Errorf("first window on day %d, want 3", windows[0].Start.Day())
	}
}

func TestExpandRuleOutsideEffectiveWindow(t *testing.T) {
	rule := testRule()
	rule.EffectiveUntil = date(2026, 2, 1)

	windows := ExpandRule(rule, date(2026, 3, 1), date(2026, 3, 7), time.UTC)
	if len(windows) != 0 {
		t.Fatalf("expected no windows, got %d", len(windows))
	}
}

func TestExpandRuleSkipsUnlistedDays(t *testing.T) {
	rule := testRule()
	rule.DaysOfWeek = "5" // Friday only

	windows := ExpandRule(rule, date(2026, 3, 1), date(2026, 3, 7), time.UTC)
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	for _, w := range windows {
		if w.Start.Weekday() != time.Friday {
			t.Errorf("window on %v, want Friday", w.Start.Weekday())
		}
	}
}

func TestExpandRuleInvalidInputs(t *testing.T) {
	rule := testRule()
	rule.IntervalMinutes = 0
	if got := ExpandRule(rule, date(2026, 3, 1), date(2026, 3, 7), time.UTC); got != nil {
		t.Errorf("zero interval produced %d windows", len(got))
	}

	rule = testRule()
	rule.DaysOfWeek = ""
	if got := ExpandRule(rule, date(2026, 3, 1), date(2026, 3, 7), time.UTC); got != nil {
		t.Errorf("empty weekdays produced %d windows", len(got))
	}

	rule = testRule()
	rule.StartTime = "21:00"
	rule.EndTime = "18:00"
	if got := ExpandRule(rule, date(2026, 3, 1), date(2026, 3, 7), time.UTC); got != nil {
		t.Errorf("inverted window produced %d windows", len(got))
	}
}
