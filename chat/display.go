package chat

import (
	"fmt"
	"strings"

	"github.com/kurnehuiz/TO-DO-TgBot/core"
)

func priorityIcon(p core.Priority) string {
	switch p {
	case core.PriorityHigh:
		return "🔴"
	case core.PriorityMedium:
		return "🟡"
	case core.PriorityLow:
		return "🟢"
	default:
		return ""
	}
}

// formatTask renders one task card the way the bot shows it in lists
// and search results.
func formatTask(t core.Task) string {
	status := "❌"
	if t.Done {
		status = "✅"
	}

	var sb strings.Builder
	if icon := priorityIcon(t.Priority); icon != "" {
		fmt.Fprintf(&sb, "%s %s <b>%s</b>\n", status, icon, t.Text)
	} else {
		fmt.Fprintf(&sb, "%s <b>%s</b>\n", status, t.Text)
	}

	if t.Deadline != nil {
		fmt.Fprintf(&sb, "⏰ %s\n", core.FormatDeadline(*t.Deadline))
	}
	if t.Category != nil && *t.Category != "" {
		fmt.Fprintf(&sb, "🏷️ %s\n", *t.Category)
	}
	if t.Repeat != core.RepeatNone {
		fmt.Fprintf(&sb, "🔄 %s\n", t.Repeat)
	}
	fmt.Fprintf(&sb, "<i>ID: %d</i>", t.ID)

	return sb.String()
}

// formatCreated echoes the stored fields back after a successful
// commit.
func formatCreated(t core.Task) string {
	var sb strings.Builder
	sb.WriteString("📝 <b>Задача создана!</b>\n\n")
	fmt.Fprintf(&sb, "<b>Текст:</b> %s\n", t.Text)
	if t.Deadline != nil {
		fmt.Fprintf(&sb, "<b>Дедлайн:</b> %s\n", core.FormatDeadline(*t.Deadline))
	}
	if t.Category != nil && *t.Category != "" {
		fmt.Fprintf(&sb, "<b>Категория:</b> %s\n", *t.Category)
	}
	if !t.Priority.IsNone() {
		fmt.Fprintf(&sb, "<b>Приоритет:</b> %s\n", t.Priority)
	}
	fmt.Fprintf(&sb, "<b>Повторение:</b> %s\n\n", t.Repeat)
	fmt.Fprintf(&sb, "<i>ID задачи: %d</i>", t.ID)
	return sb.String()
}

func formatStats(st core.Stats) string {
	rate := st.CompletionRate()

	var sb strings.Builder
	sb.WriteString("📊 <b>Ваша статистика</b>\n\n")
	fmt.Fprintf(&sb, "<b>Всего задач:</b> %d\n", st.Total)
	fmt.Fprintf(&sb, "<b>Выполнено:</b> %d (%.1f%%)\n", st.Completed, rate)
	fmt.Fprintf(&sb, "<b>Просрочено:</b> %d\n", st.Overdue)
	fmt.Fprintf(&sb, "<b>Высокий приоритет:</b> %d\n", st.HighPriorityOpen)
	fmt.Fprintf(&sb, "<b>С категориями:</b> %d\n\n", st.WithCategory)

	if st.Total > 0 {
		switch {
		case rate == 100:
			sb.WriteString("🎉 <b>Отлично! Все задачи выполнены!</b>")
		case rate >= 80:
			sb.WriteString("👍 <b>Хорошая работа!</b>")
		case rate >= 50:
			sb.WriteString("💪 <b>Продолжайте в том же духе!</b>")
		default:
			sb.WriteString("📈 <b>Есть над чем поработать!</b>")
		}
	}
	return sb.String()
}
