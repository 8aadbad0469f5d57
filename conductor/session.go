package conductor

import (
	"context"
	"iter"
	"os"
	"os/exec"
	"strings"
)

// BrainEngine drives one model turn and returns a lazy sequence of
// BrainEvents. The sequence must be fully drained (or abandoned via ctx
// cancellation) before the conductor moves on.
type BrainEngine interface {
	ProcessTurn(ctx context.Context, turn TurnContext) iter.Seq2[BrainEvent, error]
}

// CommBridge delivers SystemEvents to the UI. Send must never block the
// conductor for longer than handing the event to a buffered channel or
// terminal writer; a slow or disconnected UI must not stall turn
// processing.
type CommBridge interface {
	Send(ctx context.Context, event SystemEvent) error
}

// probeEnvironment refreshes the working directory and git branch fields of
// a SessionState. Called at startup and after every successful shell tool
// execution.
func probeEnvironment() (pwd string, gitBranch string) {
	pwd = "unknown"
	if wd, err := os.Getwd(); err == nil {
		pwd = wd
	}

	gitBranch = "no-git"
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	out, err := cmd.CombinedOutput()
	if err == nil {
		if branch := strings.TrimSpace(string(out)); branch != "" {
			gitBranch = branch
		}
	}
	return pwd, gitBranch
}

// NewSessionState builds the initial SessionState for a freshly started
// process, probing the environment once.
func NewSessionState(model, thinkingLevel string, streaming, memoryEnabled, devMode bool) SessionState {
	pwd, gitBranch := probeEnvironment()
	return SessionState{
		Model:         model,
		ThinkingLevel: thinkingLevel,
		Streaming:     streaming,
		MemoryEnabled: memoryEnabled,
		DevMode:       devMode,
		Pwd:           pwd,
		GitBranch:     gitBranch,
	}
}

// refreshEnvironment re-probes pwd and git_branch in place.
func (s *SessionState) refreshEnvironment() {
	s.Pwd, s.GitBranch = probeEnvironment()
}
