package chat

import (
	"fmt"

	"github.com/kurnehuiz/TO-DO-TgBot/core"
)

// Reply-button labels. The router matches inbound text against these.
const (
	btnCreateTask   = "➕ Создать задачу"
	btnMyTasks      = "📋 Мои задачи"
	btnSearch       = "🔍 Поиск задач"
	btnStats        = "📊 Статистика"
	btnMyCategories = "🏷️ Мои категории"
	btnMainMenu     = "🏠 Главное меню"

	btnCancel      = "❌ Отмена"
	btnNoDeadline  = "❌ Без дедлайна"
	btnNoCategory  = "❌ Без категории"
	btnNewCategory = "➕ Новая категория"
	btnNoPriority  = "❌ Без приоритета"

	btnPriorityHigh   = "Высокий 🔴"
	btnPriorityMedium = "Средний 🟡"
	btnPriorityLow    = "Низкий 🟢"

	btnRepeatNone    = "Нет"
	btnRepeatDaily   = "Ежедневно"
	btnRepeatWeekly  = "Еженедельно"
	btnRepeatMonthly = "Ежемесячно"

	btnEditText     = "📝 Текст"
	btnEditDeadline = "⏰ Дедлайн"
	btnEditCategory = "🏷️ Категория"
	btnEditPriority = "⚡ Приоритет"
	btnEditRepeat   = "🔄 Повторение"

	btnFilterAll        = "📋 Все задачи"
	btnFilterCompleted  = "✅ Выполненные"
	btnFilterIncomplete = "❌ Невыполненные"
	btnFilterDeadline   = "⏰ С дедлайном"
	btnFilterHigh       = "🔴 Высокий приоритет"
)

func reply(text string) core.Button {
	return core.Button{Text: text}
}

func mainMenuKeyboard() core.Keyboard {
	return core.Keyboard{
		Buttons: [][]core.Button{
			{reply(btnCreateTask), reply(btnMyTasks)},
			{reply(btnSearch), reply(btnStats)},
			{reply(btnMyCategories)},
		},
	}
}

func cancelKeyboard() core.Keyboard {
	return core.Keyboard{
		Buttons: [][]core.Button{{reply(btnCancel)}},
		OneTime: true,
	}
}

func deadlineKeyboard() core.Keyboard {
	return core.Keyboard{
		Buttons: [][]core.Button{{reply(btnNoDeadline), reply(btnCancel)}},
		OneTime: true,
	}
}

func priorityKeyboard() core.Keyboard {
	return core.Keyboard{
		Buttons: [][]core.Button{
			{reply(btnPriorityHigh), reply(btnPriorityMedium)},
			{reply(btnPriorityLow), reply(btnNoPriority)},
		},
		OneTime: true,
	}
}

func repeatKeyboard() core.Keyboard {
	return core.Keyboard{
		Buttons: [][]core.Button{
			{reply(btnRepeatNone), reply(btnRepeatDaily)},
			{reply(btnRepeatWeekly), reply(btnRepeatMonthly)},
		},
		OneTime: true,
	}
}

func editChoiceKeyboard() core.Keyboard {
	return core.Keyboard{
		Buttons: [][]core.Button{
			{reply(btnEditText), reply(btnEditDeadline)},
			{reply(btnEditCategory), reply(btnEditPriority)},
			{reply(btnEditRepeat), reply(btnCancel)},
		},
		OneTime: true,
	}
}

// categoriesKeyboard shows up to eight существующих категорий plus the
// new/none markers.
func categoriesKeyboard(categories []string) core.Keyboard {
	if len(categories) > 8 {
		categories = categories[:8]
	}

	var rows [][]core.Button
	var row []core.Button
	for _, c := range categories {
		row = append(row, reply(c))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []core.Button{reply(btnNewCategory), reply(btnNoCategory)})

	return core.Keyboard{Buttons: rows, OneTime: true}
}

func filterKeyboard() core.Keyboard {
	return core.Keyboard{
		Buttons: [][]core.Button{
			{reply(btnFilterAll), reply(btnFilterCompleted)},
			{reply(btnFilterIncomplete), reply(btnFilterDeadline)},
			{reply(btnFilterHigh), reply(btnMainMenu)},
		},
	}
}

func taskActionsKeyboard(taskID int64, done bool) core.Keyboard {
	toggle := core.Button{Text: "✅ Выполнено", Data: fmt.Sprintf("done_%d", taskID)}
	if done {
		toggle = core.Button{Text: "↩️ Вернуть в работу", Data: fmt.Sprintf("undone_%d", taskID)}
	}

	return core.Keyboard{
		Buttons: [][]core.Button{
			{toggle},
			{
				{Text: "✏️ Редактировать", Data: fmt.Sprintf("edit_%d", taskID)},
				{Text: "❌ Удалить", Data: fmt.Sprintf("delete_%d", taskID)},
			},
		},
		Inline: true,
	}
}

func confirmDeleteKeyboard(taskID int64) core.Keyboard {
	return core.Keyboard{
		Buttons: [][]core.Button{
			{
				{Text: "✅ Да, удалить", Data: fmt.Sprintf("confirm_delete_%d", taskID)},
				{Text: "❌ Нет, отменить", Data: cbCancelDelete},
			},
		},
		Inline: true,
	}
}
