// Package console is a local stand-in for the chat transport: one
// synthetic user over stdin/stdout. The production transport lives
// outside this repo and only needs to satisfy the same two ports.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/kurnehuiz/TO-DO-TgBot/chat"
	"github.com/kurnehuiz/TO-DO-TgBot/core"
)

// localOwner is the owner identity assigned to the console user.
const localOwner int64 = 1

type Transport struct {
	log *slog.Logger
	in  io.Reader

	mu  sync.Mutex
	out io.Writer
}

func New(log *slog.Logger, in io.Reader, out io.Writer) *Transport {
	return &Transport{log: log, in: in, out: out}
}

// Events reads stdin line by line. Lines prefixed "cb:" are decoded as
// button callbacks, everything else is a text message.
func (t *Transport) Events(ctx context.Context) <-chan chat.Event {
	ch := make(chan chat.Event)

	go func() {
		defer close(ch)

		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			line := scanner.Text()

			var ev chat.Event
			if data, ok := strings.CutPrefix(line, "cb:"); ok {
				cb, err := chat.ParseCallback(localOwner, strings.TrimSpace(data))
				if err != nil {
					t.log.Error("bad callback", "error", err)
					continue
				}
				ev = cb
			} else {
				ev = chat.TextMessage{OwnerID: localOwner, Text: line}
			}

			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			t.log.Error("stdin read failed", "error", err)
		}
	}()

	return ch
}

// Send prints the message and the keyboard labels.
func (t *Transport) Send(_ context.Context, ownerID int64, text string, kb core.Keyboard) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := fmt.Fprintf(t.out, "[->%d] %s\n", ownerID, text); err != nil {
		return err
	}
	for _, row := range kb.Buttons {
		labels := make([]string, 0, len(row))
		for _, b := range row {
			if b.Data != "" {
				labels = append(labels, fmt.Sprintf("[%s | cb:%s]", b.Text, b.Data))
				continue
			}
			labels = append(labels, fmt.Sprintf("[%s]", b.Text))
		}
		if _, err := fmt.Fprintf(t.out, "    %s\n", strings.Join(labels, " ")); err != nil {
			return err
		}
	}
	return nil
}
