package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kurnehuiz/TO-DO-TgBot/core"
)

// Router drives the dialogue: inbound events are dispatched by the
// owner's current state, drafts accumulate until the commit point.
type Router struct {
	log      *slog.Logger
	svc      *core.Service
	query    *core.Query
	sink     core.Sink
	sessions *Sessions
	timeout  time.Duration
}

func NewRouter(log *slog.Logger, svc *core.Service, query *core.Query, sink core.Sink, timeout time.Duration) *Router {
	return &Router{
		log:      log,
		svc:      svc,
		query:    query,
		sink:     sink,
		sessions: NewSessions(),
		timeout:  timeout,
	}
}

// Serve consumes the source until ctx is cancelled or the stream
// closes.
func (r *Router) Serve(ctx context.Context, src Source) error {
	for ev := range src.Events(ctx) {
		r.Handle(ctx, ev)
	}
	return ctx.Err()
}

func (r *Router) Handle(ctx context.Context, ev Event) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	switch e := ev.(type) {
	case TextMessage:
		r.handleText(ctx, e)
	case Callback:
		r.handleCallback(ctx, e)
	default:
		r.log.Error("unknown event type", "event", fmt.Sprintf("%T", ev))
	}
}

func (r *Router) send(ctx context.Context, ownerID int64, text string, kb core.Keyboard) {
	if err := r.sink.Send(ctx, ownerID, text, kb); err != nil {
		r.log.Error("send failed", "owner_id", ownerID, "error", err)
	}
}

// ==================== text dispatch ====================

func (r *Router) handleText(ctx context.Context, msg TextMessage) {
	owner := msg.OwnerID
	text := strings.TrimSpace(msg.Text)

	state, draft := r.sessions.Get(owner)

	if state != StateIdle {
		// cancel wins over any state-specific parsing
		if text == btnCancel {
			r.cancelFlow(ctx, owner, state, draft)
			return
		}

		// flow-entry commands override an active flow: the prior
		// draft is reset, never merged
		if text == "/start" || text == btnMainMenu || text == btnCreateTask {
			r.sessions.Clear(owner)
			r.handleIdle(ctx, owner, text)
			return
		}

		switch state {
		case StateAwaitingTaskText:
			r.onTaskText(ctx, owner, draft, msg.Text)
		case StateAwaitingDeadline:
			r.onDeadline(ctx, owner, draft, text)
		case StateAwaitingCategory:
			r.onCategory(ctx, owner, draft, text)
		case StateAwaitingPriority:
			r.onPriority(ctx, owner, draft, msg.Text)
		case StateAwaitingRepeat:
			r.onRepeat(ctx, owner, draft, msg.Text)
		case StateAwaitingEditChoice:
			r.onEditChoice(ctx, owner, draft, text)
		case StateAwaitingEditText:
			r.onEditText(ctx, owner, draft, msg.Text)
		case StateAwaitingEditDeadline:
			r.onEditDeadline(ctx, owner, draft, text)
		case StateAwaitingEditCategory:
			r.onEditCategory(ctx, owner, draft, text)
		case StateAwaitingEditPriority:
			r.onEditPriority(ctx, owner, draft, msg.Text)
		case StateAwaitingSearch:
			r.sessions.Clear(owner)
			r.runSearch(ctx, owner, msg.Text)
		}
		return
	}

	r.handleIdle(ctx, owner, text)
}

func (r *Router) handleIdle(ctx context.Context, owner int64, text string) {
	switch {
	case text == "/start":
		r.sessions.Clear(owner)
		r.send(ctx, owner, welcomeText, mainMenuKeyboard())
		r.log.Info("новый пользователь", "owner_id", owner)

	case text == btnMainMenu:
		r.sessions.Clear(owner)
		r.send(ctx, owner, "Вы в главном меню 👇", mainMenuKeyboard())

	case text == "/help":
		r.send(ctx, owner, helpText, mainMenuKeyboard())

	case text == "/stats" || text == btnStats:
		r.showStats(ctx, owner)

	case strings.HasPrefix(text, "/search"):
		if args := strings.SplitN(text, " ", 2); len(args) > 1 && strings.TrimSpace(args[1]) != "" {
			r.runSearch(ctx, owner, strings.TrimSpace(args[1]))
			return
		}
		r.promptSearch(ctx, owner)

	case text == btnSearch:
		r.promptSearch(ctx, owner)

	case text == btnCreateTask:
		// new flow always starts from a fresh draft
		r.sessions.Set(owner, StateAwaitingTaskText, Draft{})
		r.send(ctx, owner, "📝 <b>Создание новой задачи</b>\n\nНапишите текст задачи:", cancelKeyboard())

	case text == btnMyTasks:
		r.send(ctx, owner, "📋 <b>Ваши задачи</b>\n\nВыберите фильтр:", filterKeyboard())

	case text == btnFilterAll:
		r.showView(ctx, owner, core.ViewAll, "Все задачи")
	case text == btnFilterCompleted:
		r.showView(ctx, owner, core.ViewCompleted, "Выполненные задачи")
	case text == btnFilterIncomplete:
		r.showView(ctx, owner, core.ViewIncomplete, "Невыполненные задачи")
	case text == btnFilterHigh:
		r.showView(ctx, owner, core.ViewHighPriority, "Задачи с высоким приоритетом")
	case text == btnFilterDeadline:
		r.showView(ctx, owner, core.ViewWithDeadline, "Задачи с дедлайном")

	case text == btnMyCategories:
		r.showCategories(ctx, owner)

	default:
		r.send(ctx, owner, unknownText, mainMenuKeyboard())
	}
}

func (r *Router) cancelFlow(ctx context.Context, owner int64, state State, draft Draft) {
	r.sessions.Clear(owner)

	notice := "❌ Создание задачи отменено"
	switch state {
	case StateAwaitingEditChoice, StateAwaitingEditText, StateAwaitingEditDeadline,
		StateAwaitingEditCategory, StateAwaitingEditPriority:
		notice = "❌ Редактирование отменено"
	case StateAwaitingSearch:
		notice = "❌ Поиск отменён"
	}
	r.send(ctx, owner, notice, mainMenuKeyboard())
}

// ==================== создание задачи ====================

func (r *Router) onTaskText(ctx context.Context, owner int64, draft Draft, text string) {
	if strings.TrimSpace(text) == "" {
		r.send(ctx, owner, "❌ Текст задачи не может быть пустым.\nНапишите текст задачи:", cancelKeyboard())
		return
	}

	draft.Text = text
	r.sessions.Set(owner, StateAwaitingDeadline, draft)
	r.send(ctx, owner,
		"⏰ <b>Установка дедлайна</b>\n\n"+
			"Введите дату и время в формате:\n"+
			"<code>ГГГГ-ММ-ДД ЧЧ:ММ</code>\n\n"+
			"Пример: <code>2024-12-31 23:59</code>\n"+
			"Или нажмите кнопку ниже:",
		deadlineKeyboard())
}

func (r *Router) onDeadline(ctx context.Context, owner int64, draft Draft, text string) {
	if draft.PastConfirm {
		// any non-cancel reply confirms the past deadline
		r.toCategory(ctx, owner, draft)
		return
	}

	if text == btnNoDeadline {
		draft.Deadline = nil
		r.toCategory(ctx, owner, draft)
		return
	}

	dt, err := core.ParseDeadline(text)
	if err != nil {
		// re-prompt, draft untouched
		r.send(ctx, owner,
			"❌ <b>Неверный формат!</b>\n\n"+
				"Введите дату в формате:\n"+
				"<code>ГГГГ-ММ-ДД ЧЧ:ММ</code>\n"+
				"Пример: <code>2024-12-31 23:59</code>\n"+
				"Или нажмите '❌ Без дедлайна'",
			deadlineKeyboard())
		return
	}

	draft.Deadline = &dt
	if dt.Before(time.Now()) {
		draft.PastConfirm = true
		r.sessions.Set(owner, StateAwaitingDeadline, draft)
		r.send(ctx, owner, "⚠️ Вы указали прошедшую дату.\nВсё равно использовать её?", cancelKeyboard())
		return
	}

	r.toCategory(ctx, owner, draft)
}

func (r *Router) toCategory(ctx context.Context, owner int64, draft Draft) {
	draft.PastConfirm = false
	r.sessions.Set(owner, StateAwaitingCategory, draft)

	categories, err := r.svc.ListCategories(ctx, owner)
	if err != nil {
		r.log.Error("list categories failed", "owner_id", owner, "error", err)
	}

	if len(categories) > 0 {
		r.send(ctx, owner,
			"🏷️ <b>Выберите категорию</b>\n\nВыберите из существующих или создайте новую:",
			categoriesKeyboard(categories))
		return
	}
	r.send(ctx, owner,
		"🏷️ <b>Укажите категорию</b>\n\nНапишите название категории (например: Работа, Учеба, Личное):",
		cancelKeyboard())
}

func (r *Router) onCategory(ctx context.Context, owner int64, draft Draft, text string) {
	// "новая категория" и "без категории" оба оставляют категорию
	// пустой; конкретное имя придёт свободным текстом позже
	if text != btnNoCategory && text != btnNewCategory {
		c := text
		draft.Category = &c
	} else {
		draft.Category = nil
	}

	r.sessions.Set(owner, StateAwaitingPriority, draft)
	r.send(ctx, owner, "⚡ <b>Выберите приоритет</b>", priorityKeyboard())
}

func (r *Router) onPriority(ctx context.Context, owner int64, draft Draft, text string) {
	draft.Priority = core.ParsePriority(text)
	r.sessions.Set(owner, StateAwaitingRepeat, draft)
	r.send(ctx, owner, "🔄 <b>Повторение задачи</b>\n\nВыберите как часто повторять задачу:", repeatKeyboard())
}

// onRepeat is the commit point for both creation and the recurrence
// edit, which reuses this state. Edit mode is detected from the draft.
func (r *Router) onRepeat(ctx context.Context, owner int64, draft Draft, text string) {
	defer r.sessions.Clear(owner)

	rep := core.ParseRepeat(text)

	if draft.EditTaskID != 0 {
		if _, err := r.svc.UpdateTask(ctx, owner, draft.EditTaskID, core.TaskPatch{Repeat: &rep}); err != nil {
			r.log.Error("update repeat failed", "task_id", draft.EditTaskID, "error", err)
			r.send(ctx, owner, "❌ Ошибка при обновлении", mainMenuKeyboard())
			return
		}
		r.send(ctx, owner, "✅ Повторение обновлено", mainMenuKeyboard())
		return
	}

	t, err := r.svc.CreateTask(ctx, owner, draft.Text, draft.Deadline, draft.Category, draft.Priority, rep)
	if err != nil {
		r.log.Error("create task failed", "owner_id", owner, "error", err)
		r.send(ctx, owner, "❌ <b>Ошибка при создании задачи!</b>\n\nПопробуйте ещё раз.", mainMenuKeyboard())
		return
	}
	r.log.Info("задача добавлена", "task_id", t.ID, "owner_id", owner)
	r.send(ctx, owner, formatCreated(t), mainMenuKeyboard())
}

// ==================== редактирование ====================

func (r *Router) onEditChoice(ctx context.Context, owner int64, draft Draft, text string) {
	if draft.EditTaskID == 0 {
		r.sessions.Clear(owner)
		r.send(ctx, owner, "❌ Ошибка: задача не найдена", mainMenuKeyboard())
		return
	}

	switch text {
	case btnEditText:
		r.sessions.Set(owner, StateAwaitingEditText, draft)
		r.send(ctx, owner, "Введите новый текст задачи:", cancelKeyboard())

	case btnEditDeadline:
		r.sessions.Set(owner, StateAwaitingEditDeadline, draft)
		r.send(ctx, owner,
			"Введите новый дедлайн в формате:\n<code>ГГГГ-ММ-ДД ЧЧ:ММ</code>\nИли '❌ Без дедлайна'",
			cancelKeyboard())

	case btnEditCategory:
		r.sessions.Set(owner, StateAwaitingEditCategory, draft)
		categories, err := r.svc.ListCategories(ctx, owner)
		if err != nil {
			r.log.Error("list categories failed", "owner_id", owner, "error", err)
		}
		if len(categories) > 0 {
			r.send(ctx, owner, "Выберите категорию:", categoriesKeyboard(categories))
			return
		}
		r.send(ctx, owner, "Введите новую категорию:", cancelKeyboard())

	case btnEditPriority:
		r.sessions.Set(owner, StateAwaitingEditPriority, draft)
		r.send(ctx, owner, "Выберите приоритет:", priorityKeyboard())

	case btnEditRepeat:
		// recurrence edits go through the creation commit state
		r.sessions.Set(owner, StateAwaitingRepeat, draft)
		r.send(ctx, owner, "Выберите повторение:", repeatKeyboard())

	default:
		r.sessions.Clear(owner)
		r.send(ctx, owner, "❌ Неверный выбор", mainMenuKeyboard())
	}
}

func (r *Router) reportUpdate(ctx context.Context, owner int64, err error, ok string) {
	r.sessions.Clear(owner)
	if err != nil {
		r.log.Error("update task failed", "owner_id", owner, "error", err)
		r.send(ctx, owner, "❌ Ошибка при обновлении", mainMenuKeyboard())
		return
	}
	r.send(ctx, owner, ok, mainMenuKeyboard())
}

func (r *Router) onEditText(ctx context.Context, owner int64, draft Draft, text string) {
	_, err := r.svc.UpdateTask(ctx, owner, draft.EditTaskID, core.TaskPatch{Text: &text})
	r.reportUpdate(ctx, owner, err, "✅ Текст задачи обновлён")
}

func (r *Router) onEditDeadline(ctx context.Context, owner int64, draft Draft, text string) {
	if text == btnNoDeadline {
		_, err := r.svc.UpdateTask(ctx, owner, draft.EditTaskID, core.TaskPatch{ClearDeadline: true})
		r.reportUpdate(ctx, owner, err, "✅ Дедлайн обновлён")
		return
	}

	dt, err := core.ParseDeadline(text)
	if err != nil {
		r.sessions.Clear(owner)
		r.send(ctx, owner, "❌ Неверный формат даты", mainMenuKeyboard())
		return
	}

	_, err = r.svc.UpdateTask(ctx, owner, draft.EditTaskID, core.TaskPatch{Deadline: &dt})
	r.reportUpdate(ctx, owner, err, "✅ Дедлайн обновлён")
}

func (r *Router) onEditCategory(ctx context.Context, owner int64, draft Draft, text string) {
	patch := core.TaskPatch{ClearCategory: true}
	if text != btnNoCategory && text != btnNewCategory {
		c := text
		patch = core.TaskPatch{Category: &c}
	}

	_, err := r.svc.UpdateTask(ctx, owner, draft.EditTaskID, patch)
	r.reportUpdate(ctx, owner, err, "✅ Категория обновлена")
}

func (r *Router) onEditPriority(ctx context.Context, owner int64, draft Draft, text string) {
	p := core.ParsePriority(text)
	_, err := r.svc.UpdateTask(ctx, owner, draft.EditTaskID, core.TaskPatch{Priority: &p})
	r.reportUpdate(ctx, owner, err, "✅ Приоритет обновлён")
}

// ==================== callbacks ====================

func (r *Router) handleCallback(ctx context.Context, cb Callback) {
	owner := cb.OwnerID

	switch cb.Kind {
	case CallbackDone:
		if err := r.svc.MarkDone(ctx, owner, cb.TaskID); err != nil {
			r.log.Error("mark done failed", "task_id", cb.TaskID, "error", err)
			r.send(ctx, owner, "❌ Ошибка при обновлении задачи", mainMenuKeyboard())
			return
		}
		r.send(ctx, owner, "✅ Задача отмечена как выполненная", mainMenuKeyboard())

	case CallbackUndone:
		if err := r.svc.MarkUndone(ctx, owner, cb.TaskID); err != nil {
			r.log.Error("mark undone failed", "task_id", cb.TaskID, "error", err)
			r.send(ctx, owner, "❌ Ошибка при обновлении задачи", mainMenuKeyboard())
			return
		}
		r.send(ctx, owner, "↩️ Задача возвращена в работу", mainMenuKeyboard())

	case CallbackDelete:
		t, err := r.svc.GetTask(ctx, owner, cb.TaskID)
		if err != nil {
			r.send(ctx, owner, "❌ Задача не найдена", mainMenuKeyboard())
			return
		}
		r.send(ctx, owner,
			fmt.Sprintf("❌ <b>Подтвердите удаление</b>\n\nЗадача: %s\n\nВы уверены, что хотите удалить эту задачу?", t.Text),
			confirmDeleteKeyboard(t.ID))

	case CallbackConfirmDelete:
		if err := r.svc.DeleteTask(ctx, owner, cb.TaskID); err != nil {
			r.log.Error("delete task failed", "task_id", cb.TaskID, "error", err)
			r.send(ctx, owner, "❌ Ошибка при удалении задачи", mainMenuKeyboard())
			return
		}
		r.send(ctx, owner, "❌ Задача удалена", mainMenuKeyboard())

	case CallbackCancelDelete:
		r.send(ctx, owner, "✅ Удаление отменено", mainMenuKeyboard())

	case CallbackEdit:
		if _, err := r.svc.GetTask(ctx, owner, cb.TaskID); err != nil {
			r.send(ctx, owner, "❌ Задача не найдена", mainMenuKeyboard())
			return
		}
		// starting an edit resets any in-progress draft
		r.sessions.Set(owner, StateAwaitingEditChoice, Draft{EditTaskID: cb.TaskID})
		r.send(ctx, owner, "✏️ <b>Редактирование задачи</b>\n\nЧто вы хотите изменить?", editChoiceKeyboard())
	}
}

// ==================== чтение ====================

func (r *Router) showView(ctx context.Context, owner int64, view core.View, title string) {
	tasks, err := r.query.Tasks(ctx, owner, view)
	if err != nil {
		r.log.Error("list tasks failed", "owner_id", owner, "error", err)
		r.send(ctx, owner, "❌ Не удалось получить задачи", mainMenuKeyboard())
		return
	}
	r.displayTasks(ctx, owner, tasks, title)
}

func (r *Router) displayTasks(ctx context.Context, owner int64, tasks []core.Task, title string) {
	if len(tasks) == 0 {
		r.send(ctx, owner, fmt.Sprintf("📭 <b>%s</b>\n\nЗадач не найдено.", title), mainMenuKeyboard())
		return
	}

	r.send(ctx, owner, fmt.Sprintf("📋 <b>%s</b>\n\nНайдено задач: %d", title, len(tasks)), mainMenuKeyboard())
	for _, t := range tasks {
		r.send(ctx, owner, formatTask(t), taskActionsKeyboard(t.ID, t.Done))
	}
}

func (r *Router) promptSearch(ctx context.Context, owner int64) {
	r.sessions.Set(owner, StateAwaitingSearch, Draft{})
	r.send(ctx, owner, "🔍 <b>Поиск задач</b>\n\nВведите ключевое слово для поиска:", cancelKeyboard())
}

func (r *Router) runSearch(ctx context.Context, owner int64, keyword string) {
	tasks, err := r.svc.SearchTasks(ctx, owner, keyword)
	if err != nil {
		r.log.Error("search failed", "owner_id", owner, "error", err)
		r.send(ctx, owner, "❌ Не удалось выполнить поиск", mainMenuKeyboard())
		return
	}

	if len(tasks) == 0 {
		r.send(ctx, owner, fmt.Sprintf("🔍 <b>Результаты поиска по '%s'</b>\n\nЗадач не найдено.", keyword), mainMenuKeyboard())
		return
	}

	r.send(ctx, owner, fmt.Sprintf("🔍 <b>Результаты поиска по '%s'</b>\n\nНайдено задач: %d", keyword, len(tasks)), mainMenuKeyboard())
	for _, t := range tasks {
		r.send(ctx, owner, formatTask(t), taskActionsKeyboard(t.ID, t.Done))
	}
}

func (r *Router) showStats(ctx context.Context, owner int64) {
	st, err := r.query.Stats(ctx, owner)
	if err != nil {
		r.log.Error("stats failed", "owner_id", owner, "error", err)
		r.send(ctx, owner, "❌ Не удалось получить статистику", mainMenuKeyboard())
		return
	}

	if st.Total == 0 {
		r.send(ctx, owner, "📊 <b>Статистика</b>\n\nУ вас пока нет задач.", mainMenuKeyboard())
		return
	}
	r.send(ctx, owner, formatStats(st), mainMenuKeyboard())
}

func (r *Router) showCategories(ctx context.Context, owner int64) {
	categories, err := r.svc.ListCategories(ctx, owner)
	if err != nil {
		r.log.Error("list categories failed", "owner_id", owner, "error", err)
		r.send(ctx, owner, "❌ Не удалось получить категории", mainMenuKeyboard())
		return
	}

	if len(categories) == 0 {
		r.send(ctx, owner,
			"🏷️ <b>Мои категории</b>\n\nУ вас пока нет категорий.\nСоздайте первую задачу с категорией!",
			mainMenuKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString("🏷️ <b>Мои категории</b>\n\n")
	for i, c := range categories {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, c)
	}
	fmt.Fprintf(&sb, "\nВсего категорий: %d", len(categories))
	r.send(ctx, owner, sb.String(), mainMenuKeyboard())
}

const welcomeText = "👋 <b>Привет! Я ваш персональный To-Do бот!</b>\n\n" +
	"Я помогу вам управлять задачами с:\n" +
	"• 📝 Текстом задач\n" +
	"• ⏰ Дедлайнами\n" +
	"• 🏷️ Категориями\n" +
	"• ⚡ Приоритетами\n" +
	"• 🔄 Повторениями\n" +
	"• 📊 Статистикой\n\n" +
	"Используйте кнопки ниже для навигации:"

const helpText = "📚 <b>Справка по командам:</b>\n\n" +
	"<b>Основные команды:</b>\n" +
	"/start - Перезапустить бота\n" +
	"/help - Эта справка\n" +
	"/stats - Статистика задач\n" +
	"/search <текст> - Поиск задач\n\n" +
	"<b>Управление задачами:</b>\n" +
	"• Используйте кнопку '➕ Создать задачу' для добавления\n" +
	"• В '📋 Мои задачи' просматривайте и управляйте задачами\n" +
	"• Каждой задаче можно: ✅ Выполнить, ✏️ Редактировать, ❌ Удалить\n\n" +
	"<b>Формат дедлайна:</b>\n" +
	"ГГГГ-ММ-ДД ЧЧ:ММ\n" +
	"Например: 2024-12-31 23:59\n\n" +
	"<b>Напоминания:</b>\n" +
	"Я автоматически напомню о дедлайне при наступлении срока."

const unknownText = "🤔 <b>Неизвестная команда</b>\n\n" +
	"Используйте кнопки меню или команды:\n" +
	"/start - Перезапустить бота\n" +
	"/help - Помощь\n" +
	"/search - Поиск задач"
