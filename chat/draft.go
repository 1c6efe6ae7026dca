package chat

import (
	"sync"
	"time"

	"github.com/kurnehuiz/TO-DO-TgBot/core"
)

// Draft accumulates partial task fields during a dialogue. It lives
// only in memory and dies with the conversation.
type Draft struct {
	Text     string
	Deadline *time.Time
	Category *string
	Priority core.Priority

	// EditTaskID is set when the dialogue edits an existing task; the
	// commit state uses it to tell edit from create.
	EditTaskID int64

	// PastConfirm marks the past-deadline confirmation sub-step.
	PastConfirm bool
}

type session struct {
	state State
	draft Draft
}

// Sessions maps owner identity to dialogue state. One draft per owner;
// starting a new flow overwrites whatever was in progress.
type Sessions struct {
	mu sync.Mutex
	m  map[int64]session
}

func NewSessions() *Sessions {
	return &Sessions{m: make(map[int64]session)}
}

func (s *Sessions) Get(ownerID int64) (State, Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.m[ownerID]
	return sess.state, sess.draft
}

func (s *Sessions) Set(ownerID int64, state State, draft Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[ownerID] = session{state: state, draft: draft}
}

// Clear discards the draft and returns the owner to Idle.
func (s *Sessions) Clear(ownerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, ownerID)
}
