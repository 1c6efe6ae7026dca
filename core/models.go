package core

import (
	"strings"
	"time"
)

// Priority хранит каноническое значение или произвольный текст
// пользователя (pass-through, как в клавиатуре бота).
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityHigh   Priority = "Высокий"
	PriorityMedium Priority = "Средний"
	PriorityLow    Priority = "Низкий"
)

// ParsePriority maps the keyboard labels to canonical values and keeps
// anything unrecognized verbatim.
func ParsePriority(s string) Priority {
	switch strings.TrimSpace(s) {
	case "Высокий 🔴", "Высокий":
		return PriorityHigh
	case "Средний 🟡", "Средний":
		return PriorityMedium
	case "Низкий 🟢", "Низкий":
		return PriorityLow
	case "❌ Без приоритета", "":
		return PriorityNone
	default:
		return Priority(strings.TrimSpace(s))
	}
}

// Rank orders priorities for listing: High=1, Medium=2, Low=3,
// everything else (none and pass-through values) last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

func (p Priority) IsNone() bool { return p == PriorityNone }

type Repeat string

const (
	RepeatNone    Repeat = "Нет"
	RepeatDaily   Repeat = "Ежедневно"
	RepeatWeekly  Repeat = "Еженедельно"
	RepeatMonthly Repeat = "Ежемесячно"
)

// ParseRepeat keeps unrecognized text verbatim, same as ParsePriority.
func ParseRepeat(s string) Repeat {
	switch strings.TrimSpace(s) {
	case "Нет", "":
		return RepeatNone
	case "Ежедневно":
		return RepeatDaily
	case "Еженедельно":
		return RepeatWeekly
	case "Ежемесячно":
		return RepeatMonthly
	default:
		return Repeat(strings.TrimSpace(s))
	}
}

// Offset returns the rollover step for recurring tasks. Monthly is a
// flat 30 days, not calendar month arithmetic.
func (r Repeat) Offset() (time.Duration, bool) {
	switch r {
	case RepeatDaily:
		return 24 * time.Hour, true
	case RepeatWeekly:
		return 7 * 24 * time.Hour, true
	case RepeatMonthly:
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

type Task struct {
	ID        int64      `db:"id"`
	OwnerID   int64      `db:"owner_id"`
	Text      string     `db:"text"`
	Done      bool       `db:"done"`
	Deadline  *time.Time `db:"deadline"` // nil - без дедлайна
	Category  *string    `db:"category"` // nil - без категории
	Priority  Priority   `db:"priority"`
	Repeat    Repeat     `db:"repeat"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// Overdue reports whether the task has an unmet deadline in the past.
func (t Task) Overdue(now time.Time) bool {
	return !t.Done && t.Deadline != nil && t.Deadline.Before(now)
}

// TaskPatch is a partial update; nil fields stay unchanged. Clear
// flags remove the optional fields.
type TaskPatch struct {
	Text          *string
	Deadline      *time.Time
	ClearDeadline bool
	Category      *string
	ClearCategory bool
	Priority      *Priority
	Repeat        *Repeat
}

func (p TaskPatch) Empty() bool {
	return p.Text == nil && p.Deadline == nil && !p.ClearDeadline &&
		p.Category == nil && !p.ClearCategory && p.Priority == nil && p.Repeat == nil
}

type Stats struct {
	Total            int `db:"total"`
	Completed        int `db:"completed"`
	Overdue          int `db:"overdue"`
	HighPriorityOpen int `db:"high_priority"`
	WithCategory     int `db:"with_category"`
}

// DeadlineLayout is the only accepted input format for deadlines,
// naive local time.
const DeadlineLayout = "2006-01-02 15:04"

// DisplayLayout is how deadlines are rendered back to the user.
const DisplayLayout = "02.01.2006 15:04"

func ParseDeadline(s string) (time.Time, error) {
	return time.ParseInLocation(DeadlineLayout, strings.TrimSpace(s), time.Local)
}

func FormatDeadline(t time.Time) string {
	return t.Format(DisplayLayout)
}
