package conductor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aravindhsampath/chitti/internal/observability"
	"github.com/aravindhsampath/chitti/tool"
)

// Conductor is the cooperative state machine described in the turn-loop
// design: it drives conversation turns, splices streaming model output,
// interleaves human-in-the-loop tool approvals, absorbs steering messages
// arriving mid-turn, and preserves correct history under both persistence
// regimes.
type Conductor struct {
	brain  BrainEngine
	bridge CommBridge
	tools  *tool.Registry
	events <-chan UserEvent

	state                 SessionState
	previousInteractionID string
	pendingSteering       []string
}

// New builds a Conductor. events is the bounded channel the UI bridge
// publishes UserEvents onto; state is the initial SessionState (see
// NewSessionState).
func New(brain BrainEngine, bridge CommBridge, tools *tool.Registry, events <-chan UserEvent, state SessionState) *Conductor {
	return &Conductor{
		brain:  brain,
		bridge: bridge,
		tools:  tools,
		events: events,
		state:  state,
	}
}

// Run drains UserEvents until the channel closes, ctx is cancelled, or
// /exit or /quit is received.
func (c *Conductor) Run(ctx context.Context) error {
	if err := c.bridge.Send(ctx, SystemEvent{Kind: SystemEventReady, State: c.state}); err != nil {
		return err
	}

	for {
		ev, ok, err := c.nextEvent(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		input := strings.TrimSpace(ev.Input)
		if strings.HasPrefix(input, "/") {
			exit, err := c.handleCommand(ctx, input)
			if err != nil {
				return err
			}
			if exit {
				return nil
			}
			continue
		}

		if err := c.handleConversation(ctx, input); err != nil {
			return err
		}
	}
}

// nextEvent reads the next UserEvent, respecting ctx cancellation and the
// channel closing.
func (c *Conductor) nextEvent(ctx context.Context) (UserEvent, bool, error) {
	select {
	case <-ctx.Done():
		return UserEvent{}, false, ctx.Err()
	case ev, ok := <-c.events:
		return ev, ok, nil
	}
}

func (c *Conductor) handleCommand(ctx context.Context, cmd string) (exit bool, err error) {
	fields := strings.Fields(cmd)
	name := fields[0]

	switch name {
	case "/exit", "/quit":
		return true, nil
	case "/clear":
		c.previousInteractionID = ""
		return false, c.bridge.Send(ctx, SystemEvent{Kind: SystemEventInfo, Text: "Context cleared.", State: c.state})
	case "/stream":
		c.state.Streaming = !c.state.Streaming
		return false, c.bridge.Send(ctx, SystemEvent{Kind: SystemEventInfo, Text: fmt.Sprintf("Streaming: %v", c.state.Streaming), State: c.state})
	case "/thinking":
		if len(fields) < 2 {
			return false, c.bridge.Send(ctx, SystemEvent{Kind: SystemEventError, Text: "usage: /thinking <minimal|low|medium|high>", State: c.state})
		}
		c.state.ThinkingLevel = strings.ToLower(fields[1])
		return false, c.bridge.Send(ctx, SystemEvent{Kind: SystemEventInfo, Text: "Thinking level: " + c.state.ThinkingLevel, State: c.state})
	case "/memory":
		c.state.MemoryEnabled = !c.state.MemoryEnabled
		if !c.state.MemoryEnabled {
			c.previousInteractionID = ""
		}
		return false, c.bridge.Send(ctx, SystemEvent{Kind: SystemEventInfo, Text: fmt.Sprintf("Memory: %v", c.state.MemoryEnabled), State: c.state})
	case "/help", "/":
		return false, c.bridge.Send(ctx, SystemEvent{Kind: SystemEventInfo, Text: helpText, State: c.state})
	default:
		return false, c.bridge.Send(ctx, SystemEvent{Kind: SystemEventError, Text: "unknown command: " + name, State: c.state})
	}
}

const helpText = `Commands: /exit, /quit, /clear, /stream, /thinking <minimal|low|medium|high>, /memory, /help`

// handleConversation drives turns until one produces no tool calls,
// implementing the turn orchestration algorithm: memory-on turns replay via
// previous_interaction_id, memory-off turns replay the full turn history.
func (c *Conductor) handleConversation(ctx context.Context, initialPrompt string) error {
	observer := observability.ObserverFromContext(ctx)
	var span observability.Span
	if observer != nil {
		ctx, span = observer.StartSpan(ctx, "conductor.conversation",
			observability.String("prompt", observability.TruncateStringDefault(initialPrompt)),
			observability.Bool("memory_enabled", c.state.MemoryEnabled),
		)
		defer span.End()
	}
	start := time.Now()

	var turnHistory []InteractionTurn
	activeInteractionID := ""
	if c.state.MemoryEnabled {
		activeInteractionID = c.previousInteractionID
	}
	nextInput := TurnInput{Kind: TurnInputText, Text: initialPrompt}

	for {
		c.drainSteering(&nextInput)

		turnCtx := TurnContext{
			Streaming:     c.state.Streaming,
			ThinkingLevel: c.state.ThinkingLevel,
			MemoryEnabled: c.state.MemoryEnabled,
			DevMode:       c.state.DevMode,
		}
		if c.state.MemoryEnabled {
			turnCtx.Input = nextInput
			turnCtx.PreviousInteractionID = activeInteractionID
		} else {
			turnHistory = append(turnHistory, InteractionTurn{Role: RoleUser, Parts: inputToParts(nextInput)})
			turnCtx.Input = TurnInput{Kind: TurnInputTurns, Turns: append([]InteractionTurn(nil), turnHistory...)}
		}
		nextInput = TurnInput{}

		toolCalls, modelResponseParts, turnErr := c.runTurn(ctx, turnCtx, &activeInteractionID)
		if turnErr != nil {
			c.previousInteractionID = ""
			if observer != nil {
				span.RecordError(turnErr)
				span.SetStatus(observability.StatusError, "turn failed")
				observer.Counter("conductor.conversations.total").Add(ctx, 1, observability.String("status", "error"))
			}
			return nil
		}

		if !c.state.MemoryEnabled && len(modelResponseParts) > 0 {
			turnHistory = append(turnHistory, InteractionTurn{Role: RoleModel, Parts: modelResponseParts})
		}

		if len(toolCalls) == 0 {
			if observer != nil {
				span.SetStatus(observability.StatusOK, "conversation completed")
				observer.Counter("conductor.conversations.total").Add(ctx, 1, observability.String("status", "success"))
				observer.Histogram("conductor.conversation.duration.seconds").Record(ctx, time.Since(start).Seconds())
			}
			return c.bridge.Send(ctx, SystemEvent{Kind: SystemEventReady, State: c.state})
		}

		results, err := c.runApprovalGate(ctx, toolCalls)
		if err != nil {
			return err
		}

		nextInput = TurnInput{Kind: TurnInputParts, Parts: buildFunctionResponseParts(results)}
	}
}

type bufferedToolCall struct {
	name string
	id   string
	args json.RawMessage
}

// runTurn opens the brain stream for one turn and consumes it to
// completion, forwarding deltas to the bridge and buffering tool calls.
// *activeInteractionID is updated in place when Complete carries an id.
func (c *Conductor) runTurn(ctx context.Context, turnCtx TurnContext, activeInteractionID *string) ([]bufferedToolCall, []InteractionPart, error) {
	var (
		toolCalls          []bufferedToolCall
		modelResponseParts []InteractionPart
	)

	for ev, err := range c.brain.ProcessTurn(ctx, turnCtx) {
		if err != nil {
			_ = c.bridge.Send(ctx, SystemEvent{Kind: SystemEventError, Text: err.Error(), State: c.state})
			return nil, nil, err
		}

		switch ev.Kind {
		case BrainEventTextDelta:
			if sendErr := c.bridge.Send(ctx, SystemEvent{Kind: SystemEventText, Text: ev.Text, State: c.state}); sendErr != nil {
				return nil, nil, sendErr
			}
			modelResponseParts = append(modelResponseParts, InteractionPart{Kind: PartText, Text: ev.Text})

		case BrainEventThoughtDelta:
			if sendErr := c.bridge.Send(ctx, SystemEvent{Kind: SystemEventThought, Text: ev.Text, State: c.state}); sendErr != nil {
				return nil, nil, sendErr
			}

		case BrainEventThoughtSignature:
			modelResponseParts = append(modelResponseParts, InteractionPart{Kind: PartThought, ThoughtSignature: ev.Text, Summary: ""})

		case BrainEventToolCall:
			if sendErr := c.bridge.Send(ctx, SystemEvent{Kind: SystemEventToolCall, ToolName: ev.ToolName, ToolArgs: ev.ToolArgs, State: c.state}); sendErr != nil {
				return nil, nil, sendErr
			}
			modelResponseParts = append(modelResponseParts, InteractionPart{
				Kind:             PartFunctionCall,
				FunctionCallID:   ev.ToolCallID,
				FunctionCallName: ev.ToolName,
				FunctionCallArgs: ev.ToolArgs,
			})
			toolCalls = append(toolCalls, bufferedToolCall{name: ev.ToolName, id: ev.ToolCallID, args: ev.ToolArgs})

		case BrainEventComplete:
			if ev.InteractionID != "" {
				*activeInteractionID = ev.InteractionID
				if c.state.MemoryEnabled {
					c.previousInteractionID = ev.InteractionID
				}
			}

		case BrainEventError:
			_ = c.bridge.Send(ctx, SystemEvent{Kind: SystemEventError, Text: ev.Text, State: c.state})
			return nil, nil, fmt.Errorf("brain: %s", ev.Text)
		}
	}

	return toolCalls, modelResponseParts, nil
}

// runApprovalGate asks approval for each buffered call in order, dispatches
// approved calls, and synthesizes error results for rejected or failed
// ones. Non-yes/no input is captured as steering for the next turn.
func (c *Conductor) runApprovalGate(ctx context.Context, calls []bufferedToolCall) ([]ToolResult, error) {
	results := make([]ToolResult, 0, len(calls))

	for _, call := range calls {
		description := fmt.Sprintf("Execute tool '%s' with args: %s", call.name, string(call.args))
		if err := c.bridge.Send(ctx, SystemEvent{Kind: SystemEventRequestApproval, Description: description, State: c.state}); err != nil {
			return nil, err
		}

		approved, err := c.awaitApproval(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, c.dispatchCall(ctx, call, approved))
	}

	return results, nil
}

// awaitApproval blocks on UserEvents until a yes/no response arrives,
// buffering anything else as steering and acknowledging it to the bridge.
func (c *Conductor) awaitApproval(ctx context.Context) (bool, error) {
	for {
		ev, ok, err := c.nextEvent(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, fmt.Errorf("conductor: event channel closed while awaiting approval")
		}

		response := strings.ToLower(strings.TrimSpace(ev.Input))
		switch response {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			c.pendingSteering = append(c.pendingSteering, ev.Input)
			if sendErr := c.bridge.Send(ctx, SystemEvent{
				Kind:  SystemEventInfo,
				Text:  "[Steering noted. Waiting for tool approval/rejection...]",
				State: c.state,
			}); sendErr != nil {
				return false, sendErr
			}
		}
	}
}

func (c *Conductor) dispatchCall(ctx context.Context, call bufferedToolCall, approved bool) ToolResult {
	observer := observability.ObserverFromContext(ctx)

	if !approved {
		if observer != nil {
			observer.Counter("conductor.tool_calls.total").Add(ctx, 1,
				observability.String("tool_name", call.name), observability.String("status", "rejected"))
		}
		return ToolResult{
			CallID:  call.id,
			Name:    call.name,
			Result:  errorJSON("User rejected tool execution."),
			IsError: true,
		}
	}

	var span observability.Span
	if observer != nil {
		ctx, span = observer.StartSpan(ctx, "conductor.tool_dispatch",
			observability.String("tool_name", call.name),
			observability.String("arguments", observability.TruncateString(string(call.args), 500)),
		)
		defer span.End()
	}
	start := time.Now()

	result, err := c.tools.Execute(ctx, call.name, call.args)
	duration := time.Since(start)

	if err != nil {
		if observer != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "tool dispatch failed")
			observer.Counter("conductor.tool_calls.total").Add(ctx, 1,
				observability.String("tool_name", call.name), observability.String("status", "error"))
		}
		return ToolResult{CallID: call.id, Name: call.name, Result: errorJSON(err.Error()), IsError: true}
	}

	if call.name == "shell" {
		c.state.refreshEnvironment()
	}

	if observer != nil {
		status := "success"
		if result.IsError {
			status = "tool_error"
		}
		span.SetStatus(observability.StatusOK, "tool dispatched")
		observer.Counter("conductor.tool_calls.total").Add(ctx, 1,
			observability.String("tool_name", call.name), observability.String("status", status))
		observer.Histogram("conductor.tool_dispatch.duration.seconds").Record(ctx, duration.Seconds())
	}

	return ToolResult{CallID: call.id, Name: call.name, Result: result.Output, IsError: result.IsError}
}

func errorJSON(message string) json.RawMessage {
	encoded, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: message})
	return encoded
}

// drainSteering folds any pending steering text into nextInput as a trailing
// text part, joining it onto whichever turn nextInput already represents
// (the initial prompt, or the pending tool-result turn) rather than
// introducing a separate turn. This keeps the eventual turnHistory entry (in
// memory-off mode, built from nextInput via inputToParts) and the memory-on
// wire input consistent: one User turn carries both the tool results and any
// steering that arrived while awaiting approval.
func (c *Conductor) drainSteering(nextInput *TurnInput) {
	if len(c.pendingSteering) == 0 {
		return
	}
	pending := c.pendingSteering
	c.pendingSteering = nil

	steeringText := strings.Join(pending, "\n")
	switch nextInput.Kind {
	case TurnInputParts:
		nextInput.Parts = append(nextInput.Parts, InteractionPart{Kind: PartText, Text: steeringText})
	default:
		if nextInput.Text != "" {
			nextInput.Text += "\n" + steeringText
		} else {
			nextInput.Text = steeringText
		}
		nextInput.Kind = TurnInputText
	}
}

// inputToParts flattens a TurnInput's Text or Parts variant into a single
// []InteractionPart for recording into turn_history. Turns is never passed
// here: it is only ever constructed as the outbound wire shape itself.
func inputToParts(in TurnInput) []InteractionPart {
	switch in.Kind {
	case TurnInputParts:
		return in.Parts
	default:
		return []InteractionPart{{Kind: PartText, Text: in.Text}}
	}
}

// buildFunctionResponseParts converts dispatched ToolResults into the
// FunctionResponse parts that become the next turn's input.
func buildFunctionResponseParts(results []ToolResult) []InteractionPart {
	parts := make([]InteractionPart, 0, len(results))
	for _, r := range results {
		parts = append(parts, InteractionPart{
			Kind:                   PartFunctionResponse,
			FunctionResponseID:     r.CallID,
			FunctionResponseName:   r.Name,
			FunctionResponseResult: r.Result,
		})
	}
	return parts
}
