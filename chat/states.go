package chat

// State is the current step of a user's dialogue.
type State int

const (
	StateIdle State = iota

	// линейный сценарий создания задачи
	StateAwaitingTaskText
	StateAwaitingDeadline
	StateAwaitingCategory
	StateAwaitingPriority
	StateAwaitingRepeat

	// редактирование
	StateAwaitingEditChoice
	StateAwaitingEditText
	StateAwaitingEditDeadline
	StateAwaitingEditCategory
	StateAwaitingEditPriority

	StateAwaitingSearch
)
