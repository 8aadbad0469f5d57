package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"

	"github.com/aravindhsampath/chitti/internal/jsonschema"
)

// ShellInput is the argument schema for the shell executor.
type ShellInput struct {
	Command string `json:"command" jsonschema:"description=Shell command to execute,required"`
}

// ShellOutput is what the shell executor returns on every invocation,
// whether or not the command itself failed; IsError is derived from
// ExitCode rather than from a Go-level error.
type ShellOutput struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// Shell runs a command through the system shell interpreter.
type Shell struct {
	params *jsonschema.Schema
}

// NewShell returns a Shell executor.
func NewShell() *Shell {
	return &Shell{params: jsonschema.GenerateJSONSchema[ShellInput]()}
}

func (s *Shell) Name() string { return "shell" }

func (s *Shell) Definition() Definition {
	return Definition{
		Name:        "shell",
		Description: "Executes a command through the system shell and returns stdout, stderr, and exit code.",
		Parameters:  s.params,
	}
}

func (s *Shell) Execute(ctx context.Context, args json.RawMessage) (Result, error) {
	var in ShellInput
	if len(args) > 0 {
		if err := json.Unmarshal(args, &in); err != nil {
			return errorResult(err), nil
		}
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", in.Command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return errorResult(err), nil
		}
		exitCode = exitErr.ExitCode()
	}

	encoded, err := json.Marshal(ShellOutput{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return Result{Output: encoded, IsError: exitCode != 0}, nil
}
