package core_test

import (
	"testing"
	"time"

	"github.com/kurnehuiz/TO-DO-TgBot/core"
)

func TestParsePriority_KnownLabels(t *testing.T) {
	t.Parallel()

	if got := core.ParsePriority("Высокий 🔴"); got != core.PriorityHigh {
		t.Fatalf("expected PriorityHigh, got %q", got)
	}
	if got := core.ParsePriority("Средний 🟡"); got != core.PriorityMedium {
		t.Fatalf("expected PriorityMedium, got %q", got)
	}
	if got := core.ParsePriority("Низкий 🟢"); got != core.PriorityLow {
		t.Fatalf("expected PriorityLow, got %q", got)
	}
	if got := core.ParsePriority("❌ Без приоритета"); got != core.PriorityNone {
		t.Fatalf("expected PriorityNone, got %q", got)
	}
}

func TestParsePriority_PassThroughKeepsVerbatim(t *testing.T) {
	t.Parallel()

	got := core.ParsePriority("urgent!!!")
	if got != core.Priority("urgent!!!") {
		t.Fatalf("expected verbatim pass-through, got %q", got)
	}
	if got == core.PriorityHigh || got == core.PriorityMedium || got == core.PriorityLow {
		t.Fatalf("pass-through value must not collide with known priorities")
	}
	if got.Rank() != 4 {
		t.Fatalf("pass-through priority must sort in the last band, rank %d", got.Rank())
	}
}

func TestPriorityRank_Order(t *testing.T) {
	t.Parallel()

	ranks := []int{
		core.PriorityHigh.Rank(),
		core.PriorityMedium.Rank(),
		core.PriorityLow.Rank(),
		core.PriorityNone.Rank(),
	}
	for i := 1; i < len(ranks); i++ {
		if ranks[i-1] >= ranks[i] {
			t.Fatalf("priority ranks must strictly increase: %v", ranks)
		}
	}
}

func TestParseRepeat_OffsetKnownPeriods(t *testing.T) {
	t.Parallel()

	cases := map[core.Repeat]time.Duration{
		core.RepeatDaily:   24 * time.Hour,
		core.RepeatWeekly:  7 * 24 * time.Hour,
		core.RepeatMonthly: 30 * 24 * time.Hour,
	}
	for rep, want := range cases {
		got, ok := rep.Offset()
		if !ok || got != want {
			t.Fatalf("%q: expected offset %v, got %v (ok=%v)", rep, want, got, ok)
		}
	}

	if _, ok := core.RepeatNone.Offset(); ok {
		t.Fatalf("RepeatNone must have no offset")
	}
	if _, ok := core.ParseRepeat("None").Offset(); ok {
		t.Fatalf("pass-through repeat must have no offset")
	}
}

func TestParseRepeat_PassThrough(t *testing.T) {
	t.Parallel()

	if got := core.ParseRepeat("None"); got != core.Repeat("None") {
		t.Fatalf("expected verbatim pass-through, got %q", got)
	}
	if got := core.ParseRepeat("Ежедневно"); got != core.RepeatDaily {
		t.Fatalf("expected RepeatDaily, got %q", got)
	}
}

func TestParseDeadline_RoundTrip(t *testing.T) {
	t.Parallel()

	dt, err := core.ParseDeadline("2030-01-15 09:00")
	if err != nil {
		t.Fatalf("ParseDeadline returned error: %v", err)
	}

	if dt.Year() != 2030 || dt.Month() != time.January || dt.Day() != 15 {
		t.Fatalf("unexpected date: %v", dt)
	}
	if dt.Hour() != 9 || dt.Minute() != 0 {
		t.Fatalf("unexpected time: %v", dt)
	}

	if got := core.FormatDeadline(dt); got != "15.01.2030 09:00" {
		t.Fatalf("expected display 15.01.2030 09:00, got %q", got)
	}
}

func TestParseDeadline_RejectsBadFormat(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"", "завтра", "2030-01-15", "15.01.2030 09:00", "2030-13-40 09:00"} {
		if _, err := core.ParseDeadline(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestTaskOverdue(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	if !(core.Task{Deadline: &past}).Overdue(now) {
		t.Fatalf("past deadline must be overdue")
	}
	if (core.Task{Deadline: &future}).Overdue(now) {
		t.Fatalf("future deadline must not be overdue")
	}
	if (core.Task{Deadline: &past, Done: true}).Overdue(now) {
		t.Fatalf("done task must not be overdue")
	}
	if (core.Task{}).Overdue(now) {
		t.Fatalf("task without deadline must not be overdue")
	}
}
