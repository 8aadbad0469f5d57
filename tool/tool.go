// Package tool implements the typed, polymorphic tool dispatcher: a name to
// executor map with JSON Schema export, plus the shell, file, and web
// executors the conductor ships with.
package tool

import (
	"context"
	"encoding/json"

	"github.com/aravindhsampath/chitti/internal/jsonschema"
)

// Result is the outcome of one tool invocation.
type Result struct {
	Output  json.RawMessage
	IsError bool
}

// Definition is the model-facing description of a tool: its name,
// free-form description, and JSON Schema for its arguments. Executor
// implementations derive one from their input type via jsonschema.
type Definition struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}

// Executor is the capability set the tool registry dispatches against:
// name, schema, and execute-by-raw-JSON. Implementations decode args
// themselves so the registry stays type-agnostic.
type Executor interface {
	Name() string
	Definition() Definition
	Execute(ctx context.Context, args json.RawMessage) (Result, error)
}

// Typed[I, O] adapts a strongly-typed function into an Executor, generating
// its argument schema from I via reflection. Mirrors how generic tool
// wrappers are built elsewhere in the ecosystem, generalized here to a
// single Execute(ctx, rawJSON) contract instead of a string-in/string-out one.
type Typed[I, O any] struct {
	name        string
	description string
	params      *jsonschema.Schema
	fn          func(ctx context.Context, input I) (O, error)
}

// NewTyped constructs a Typed executor for fn, named name and described by
// description.
func NewTyped[I, O any](name, description string, fn func(ctx context.Context, input I) (O, error)) *Typed[I, O] {
	return &Typed[I, O]{
		name:        name,
		description: description,
		params:      jsonschema.GenerateJSONSchema[I](),
		fn:          fn,
	}
}

func (t *Typed[I, O]) Name() string { return t.name }

func (t *Typed[I, O]) Definition() Definition {
	return Definition{
		Name:        t.name,
		Description: t.description,
		Parameters:  t.params,
	}
}

func (t *Typed[I, O]) Execute(ctx context.Context, args json.RawMessage) (Result, error) {
	var input I
	if len(args) > 0 {
		if err := json.Unmarshal(args, &input); err != nil {
			return errorResult(err), nil
		}
	}

	output, err := t.fn(ctx, input)
	if err != nil {
		return errorResult(err), nil
	}

	encoded, err := json.Marshal(output)
	if err != nil {
		return errorResult(err), nil
	}
	return Result{Output: encoded}, nil
}

// errorResult encodes err as the {"error": "..."} shape every tool's
// failure path is specified to produce, rather than propagating a Go error
// that would abort the turn.
func errorResult(err error) Result {
	encoded, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: err.Error()})
	return Result{Output: encoded, IsError: true}
}
