// Package conductor owns the event vocabulary and turn state machine that
// sits between the UI bridge and the brain engine: it receives UserEvents,
// drives a BrainEngine through one or more turns, gates tool calls on user
// approval, and reports progress back through a CommBridge as SystemEvents.
package conductor

import "encoding/json"

// UserEvent is a single line of input from the UI bridge. The conductor
// itself is responsible for recognizing slash commands and approval
// responses within that text; the bridge does no interpretation.
type UserEvent struct {
	Input string
}

// SessionState is a snapshot of conductor-owned session facts, attached to
// every SystemEvent so the bridge can render a status line without querying
// the conductor directly. Mutated only by the conductor; refreshed after
// every successful shell tool execution.
type SessionState struct {
	Model         string `json:"model"`
	ThinkingLevel string `json:"thinking_level"`
	Streaming     bool   `json:"streaming"`
	MemoryEnabled bool   `json:"memory_enabled"`
	DevMode       bool   `json:"dev_mode"`
	Pwd           string `json:"pwd"`
	GitBranch     string `json:"git_branch"`
}

// SystemEventKind discriminates SystemEvent's variants.
type SystemEventKind int

const (
	SystemEventText SystemEventKind = iota
	SystemEventThought
	SystemEventToolCall
	SystemEventRequestApproval
	SystemEventInfo
	SystemEventError
	SystemEventReady
	SystemEventDebug
)

// SystemEvent is something the conductor sends to the UI bridge. Every
// variant carries a State snapshot; the UI is stateless apart from it.
type SystemEvent struct {
	Kind SystemEventKind

	Text        string // Text, Thought, Info, Error, Debug
	ToolName    string // ToolCall
	ToolArgs    json.RawMessage
	Description string // RequestApproval

	State SessionState
}

// Role tags who produced an InteractionTurn.
type Role int

const (
	RoleUser Role = iota
	RoleModel
)

// PartKind discriminates InteractionPart's variants.
type PartKind int

const (
	PartText PartKind = iota
	PartThought
	PartImage
	PartAudio
	PartVideo
	PartDocument
	PartFunctionCall
	PartFunctionResponse
)

// InteractionPart is one piece of multimodal content within a turn. It uses
// a discriminator field plus unused zero-valued payload fields rather than
// one Go type per variant, so a []InteractionPart can be built, replayed,
// and serialized without a type switch at every call site.
type InteractionPart struct {
	Kind PartKind

	Text string // PartText

	// PartThought: ThoughtSignature is the opaque replay token; Summary is
	// the human-readable reasoning text when the provider sends one. A
	// replayed thought (built from a prior ThoughtSignature delta) carries
	// a signature with an empty Summary, preserved verbatim so the server
	// can resume its own reasoning.
	ThoughtSignature string
	Summary          string

	// PartImage, PartAudio, PartVideo, PartDocument.
	MimeType string
	Data     []byte
	URI      string

	// PartFunctionCall
	FunctionCallID   string
	FunctionCallName string
	FunctionCallArgs json.RawMessage

	// PartFunctionResponse
	FunctionResponseID     string
	FunctionResponseName   string
	FunctionResponseResult json.RawMessage
}

// InteractionTurn is one role-tagged entry in a stateless replay history.
type InteractionTurn struct {
	Role  Role
	Parts []InteractionPart
}

// TurnInputKind discriminates TurnInput's variants.
type TurnInputKind int

const (
	TurnInputText TurnInputKind = iota
	TurnInputParts
	TurnInputTurns
)

// TurnInput is the untagged union the request body's "input" field accepts:
// a bare string, a flat list of parts (used to submit function responses
// against an existing server-side interaction), or a full turn history
// (used for stateless replay when memory is disabled).
type TurnInput struct {
	Kind  TurnInputKind
	Text  string
	Parts []InteractionPart
	Turns []InteractionTurn
}

// TurnContext is what the conductor hands the brain engine for one turn.
// It is immutable for the lifetime of that single request.
type TurnContext struct {
	Input                 TurnInput
	PreviousInteractionID string
	Streaming             bool
	ThinkingLevel         string
	MemoryEnabled         bool
	DevMode               bool
}

// ToolResult is the outcome of executing (or rejecting) one tool call,
// folded into the next turn's FunctionResponse parts.
type ToolResult struct {
	CallID  string
	Name    string
	Result  json.RawMessage
	IsError bool
}

// BrainEventKind discriminates BrainEvent's variants.
type BrainEventKind int

const (
	BrainEventTextDelta BrainEventKind = iota
	BrainEventThoughtDelta
	BrainEventThoughtSignature
	BrainEventToolCall
	BrainEventComplete
	BrainEventError
)

// BrainEvent is one item from a BrainEngine's turn stream.
type BrainEvent struct {
	Kind BrainEventKind

	Text string // TextDelta, ThoughtDelta, ThoughtSignature (signature token), Error

	ToolName   string // ToolCall
	ToolCallID string
	ToolArgs   json.RawMessage

	InteractionID string // Complete, empty when the server assigned none
}
