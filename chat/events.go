package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Event is an inbound transport event: a plain text message or a
// button callback.
type Event interface {
	isEvent()
}

type TextMessage struct {
	OwnerID int64
	Text    string
}

func (TextMessage) isEvent() {}

type CallbackKind int

const (
	CallbackDone CallbackKind = iota
	CallbackUndone
	CallbackDelete
	CallbackConfirmDelete
	CallbackCancelDelete
	CallbackEdit
)

// Callback is a button press decoded from its wire form once, at the
// boundary. Handlers never re-parse callback strings.
type Callback struct {
	OwnerID int64
	Kind    CallbackKind
	TaskID  int64
}

func (Callback) isEvent() {}

// Callback payload layout: "<verb>_<task_id>" plus the bare
// "cancel_delete" sentinel.
const (
	cbDonePrefix          = "done_"
	cbUndonePrefix        = "undone_"
	cbDeletePrefix        = "delete_"
	cbEditPrefix          = "edit_"
	cbConfirmDeletePrefix = "confirm_delete_"
	cbCancelDelete        = "cancel_delete"
)

// ParseCallback decodes a raw callback payload into a typed event.
func ParseCallback(ownerID int64, data string) (Callback, error) {
	if data == cbCancelDelete {
		return Callback{OwnerID: ownerID, Kind: CallbackCancelDelete}, nil
	}

	var (
		kind CallbackKind
		rest string
	)
	switch {
	// confirm_delete_ first: delete_ is its suffix
	case strings.HasPrefix(data, cbConfirmDeletePrefix):
		kind, rest = CallbackConfirmDelete, strings.TrimPrefix(data, cbConfirmDeletePrefix)
	case strings.HasPrefix(data, cbUndonePrefix):
		kind, rest = CallbackUndone, strings.TrimPrefix(data, cbUndonePrefix)
	case strings.HasPrefix(data, cbDonePrefix):
		kind, rest = CallbackDone, strings.TrimPrefix(data, cbDonePrefix)
	case strings.HasPrefix(data, cbDeletePrefix):
		kind, rest = CallbackDelete, strings.TrimPrefix(data, cbDeletePrefix)
	case strings.HasPrefix(data, cbEditPrefix):
		kind, rest = CallbackEdit, strings.TrimPrefix(data, cbEditPrefix)
	default:
		return Callback{}, fmt.Errorf("unknown callback %q", data)
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return Callback{}, fmt.Errorf("bad task id in callback %q", data)
	}
	return Callback{OwnerID: ownerID, Kind: kind, TaskID: id}, nil
}

// Source is the inbound side of the chat transport.
type Source interface {
	// Events delivers inbound events; the channel closes when ctx is
	// cancelled or the transport shuts down.
	Events(ctx context.Context) <-chan Event
}
