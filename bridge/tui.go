// Package bridge implements the terminal UI Bridge: it reads lines from
// stdin onto a bounded channel of conductor.UserEvent and renders
// SystemEvents back to the terminal. It interprets nothing itself: slash
// commands, y/n responses, and steering text are all forwarded as the
// single UserEvent.Input variant; the Conductor decides what they mean.
package bridge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aravindhsampath/chitti/conductor"
)

const (
	ansiDim    = "\x1b[2m"
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiBlue   = "\x1b[34m"
)

// TUI is a terminal-backed conductor.CommBridge. Send never blocks the
// conductor for longer than a direct, unbuffered terminal write.
type TUI struct {
	out io.Writer
	err io.Writer

	mu               sync.Mutex
	lastSessionState conductor.SessionState
}

// New builds a TUI writing normal output to out and errors to errOut.
func New(out, errOut io.Writer) *TUI {
	return &TUI{out: out, err: errOut}
}

// RunInputLoop reads stdin line by line, publishing one UserEvent per
// non-empty line onto events, until stdin closes or ctx is cancelled. It is
// meant to run on its own goroutine, feeding the conductor's bounded
// channel from the producer side.
func (t *TUI) RunInputLoop(ctx context.Context, in io.Reader, events chan<- conductor.UserEvent) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case events <- conductor.UserEvent{Input: line}:
		}

		if line == "/exit" || line == "/quit" {
			return nil
		}
	}
	return scanner.Err()
}

// Send implements conductor.CommBridge.
func (t *TUI) Send(ctx context.Context, event conductor.SystemEvent) error {
	t.mu.Lock()
	t.lastSessionState = event.State
	t.mu.Unlock()

	switch event.Kind {
	case conductor.SystemEventText:
		_, err := fmt.Fprint(t.out, event.Text)
		return err

	case conductor.SystemEventThought:
		_, err := fmt.Fprintf(t.out, "%s%s%s", ansiDim, event.Text, ansiReset)
		return err

	case conductor.SystemEventToolCall:
		_, err := fmt.Fprintf(t.out, "\n%s[chitti calling tool: %s with args: %s]%s\n",
			ansiBlue, event.ToolName, string(event.ToolArgs), ansiReset)
		return err

	case conductor.SystemEventRequestApproval:
		_, err := fmt.Fprintf(t.out, "\n%s[approval required: %s]%s\nConfirm? (y/n): ",
			ansiYellow, event.Description, ansiReset)
		return err

	case conductor.SystemEventInfo:
		_, err := fmt.Fprintf(t.out, "\n%s[%s]%s\n", ansiCyan, event.Text, ansiReset)
		return err

	case conductor.SystemEventError:
		_, err := fmt.Fprintf(t.err, "\n%s[error: %s]%s\n", ansiRed, event.Text, ansiReset)
		return err

	case conductor.SystemEventReady:
		_, err := fmt.Fprint(t.out, t.statusLine(event.State))
		return err

	case conductor.SystemEventDebug:
		_, err := fmt.Fprintf(t.out, "%s[debug: %s]%s\n", ansiDim, event.Text, ansiReset)
		return err

	default:
		return nil
	}
}

// statusLine renders a compact one-line summary of the session state below
// a completed turn.
func (t *TUI) statusLine(s conductor.SessionState) string {
	streaming := "off"
	if s.Streaming {
		streaming = "on"
	}
	memory := "off"
	if s.MemoryEnabled {
		memory = "on"
	}
	return fmt.Sprintf("\n%s[%s | thinking=%s | streaming=%s | memory=%s | %s@%s]%s\n",
		ansiDim, s.Model, s.ThinkingLevel, streaming, memory, s.Pwd, s.GitBranch, ansiReset)
}

// LastSessionState returns the most recent SessionState snapshot sent to
// this bridge, for rendering an initial status line or diagnostics.
func (t *TUI) LastSessionState() conductor.SessionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSessionState
}
