package brain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"iter"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/aravindhsampath/chitti/conductor"
	"github.com/aravindhsampath/chitti/tool"
)

// Adapter implements conductor.BrainEngine against the Interaction Client,
// translating TurnContext/BrainEvent to and from the wire protocol.
type Adapter struct {
	client *Client
	tools  *tool.Registry
}

// NewAdapter builds an Adapter over client, attaching tool definitions from
// tools to every outbound request.
func NewAdapter(client *Client, tools *tool.Registry) *Adapter {
	return &Adapter{client: client, tools: tools}
}

// ProcessTurn implements conductor.BrainEngine.
func (a *Adapter) ProcessTurn(ctx context.Context, turn conductor.TurnContext) iter.Seq2[conductor.BrainEvent, error] {
	return func(yield func(conductor.BrainEvent, error) bool) {
		builder := NewRequestBuilder(a.client.Model(), convertInput(turn.Input)).
			ThinkingLevel(ThinkingLevelFromString(turn.ThinkingLevel)).
			PreviousInteractionID(turn.PreviousInteractionID)

		if defs := a.tools.Definitions(); len(defs) > 0 {
			builder.Tools(convertToolDefinitions(defs))
		}

		if turn.Streaming {
			a.processStreaming(ctx, builder.BuildStream(), yield)
			return
		}
		a.processSync(ctx, builder.Build(), yield)
	}
}

func (a *Adapter) processStreaming(ctx context.Context, req InteractionRequest, yield func(conductor.BrainEvent, error) bool) {
	resp, err := a.client.Stream(ctx, req)
	if err != nil {
		yield(conductor.BrainEvent{Kind: conductor.BrainEventError}, err)
		return
	}
	decoder := NewEventDecoder(resp)
	defer decoder.Close()

	for {
		event, err := decoder.Next()
		if err != nil {
			if err == io.EOF {
				return
			}
			yield(conductor.BrainEvent{Kind: conductor.BrainEventError}, err)
			return
		}

		for _, ev := range translateEvent(event) {
			if !yield(ev, nil) {
				return
			}
		}
	}
}

func (a *Adapter) processSync(ctx context.Context, req InteractionRequest, yield func(conductor.BrainEvent, error) bool) {
	resp, err := a.client.Send(ctx, req)
	if err != nil {
		yield(conductor.BrainEvent{Kind: conductor.BrainEventError}, err)
		return
	}

	for _, output := range resp.Outputs {
		ev, ok := translateOutput(output)
		if !ok {
			continue
		}
		if !yield(ev, nil) {
			return
		}
	}

	interactionID := ""
	if resp.ID != nil {
		interactionID = *resp.ID
	}
	yield(conductor.BrainEvent{Kind: conductor.BrainEventComplete, InteractionID: interactionID}, nil)
}

// translateEvent maps one decoded InteractionEvent onto zero or more
// BrainEvents, per the stream-mode output translation rules.
func translateEvent(event InteractionEvent) []conductor.BrainEvent {
	switch event.EventType {
	case EventContentDelta:
		if event.Delta == nil {
			return nil
		}
		ev, ok := translateOutput(*event.Delta)
		if !ok {
			return nil
		}
		return []conductor.BrainEvent{ev}
	case EventInteractionComplete:
		id := ""
		if event.Interaction != nil && event.Interaction.ID != nil {
			id = *event.Interaction.ID
		}
		return []conductor.BrainEvent{{Kind: conductor.BrainEventComplete, InteractionID: id}}
	default:
		return nil
	}
}

// translateOutput maps one WireOutput onto a BrainEvent. ok is false for
// shapes the adapter intentionally drops (search-tool passthrough, media,
// unknown).
func translateOutput(o WireOutput) (conductor.BrainEvent, bool) {
	switch o.Type {
	case WireOutputText:
		return conductor.BrainEvent{Kind: conductor.BrainEventTextDelta, Text: o.Text}, true
	case WireOutputContentDelta:
		if o.Thought != nil && *o.Thought {
			return conductor.BrainEvent{Kind: conductor.BrainEventThoughtDelta, Text: o.Text}, true
		}
		return conductor.BrainEvent{Kind: conductor.BrainEventTextDelta, Text: o.Text}, true
	case WireOutputThought:
		if o.Summary != "" {
			return conductor.BrainEvent{Kind: conductor.BrainEventThoughtDelta, Text: o.Summary}, true
		}
		if o.Signature != "" {
			return conductor.BrainEvent{Kind: conductor.BrainEventThoughtSignature, Text: o.Signature}, true
		}
		return conductor.BrainEvent{}, false
	case WireOutputThoughtSignature:
		if o.Signature == "" {
			return conductor.BrainEvent{}, false
		}
		return conductor.BrainEvent{Kind: conductor.BrainEventThoughtSignature, Text: o.Signature}, true
	case WireOutputFunctionCall:
		if o.FunctionCall == nil {
			return conductor.BrainEvent{}, false
		}
		return conductor.BrainEvent{
			Kind:       conductor.BrainEventToolCall,
			ToolName:   o.FunctionCall.Name,
			ToolCallID: o.FunctionCall.ID,
			ToolArgs:   parseFunctionCallArgs(o.FunctionCall.Args),
		}, true
	default:
		return conductor.BrainEvent{}, false
	}
}

// convertInput maps the conductor's provider-agnostic TurnInput onto the
// wire protocol's untagged input union.
func convertInput(in conductor.TurnInput) WireInput {
	switch in.Kind {
	case conductor.TurnInputParts:
		return NewPartsInput(convertParts(in.Parts))
	case conductor.TurnInputTurns:
		turns := make([]WireTurn, 0, len(in.Turns))
		for _, t := range in.Turns {
			turns = append(turns, WireTurn{Role: convertRole(t.Role), Content: convertParts(t.Parts)})
		}
		return NewTurnsInput(turns)
	default:
		return NewTextInput(in.Text)
	}
}

func convertRole(r conductor.Role) Role {
	if r == conductor.RoleModel {
		return RoleModel
	}
	return RoleUser
}

func convertParts(parts []conductor.InteractionPart) []WirePart {
	out := make([]WirePart, 0, len(parts))
	for _, p := range parts {
		out = append(out, convertPart(p))
	}
	return out
}

func convertPart(p conductor.InteractionPart) WirePart {
	switch p.Kind {
	case conductor.PartThought:
		return WirePart{Type: WirePartThought, Signature: p.ThoughtSignature, Summary: p.Summary}
	case conductor.PartImage:
		return WirePart{Type: WirePartImage, URI: p.URI, Data: encodeMediaData(p.Data), MimeType: p.MimeType}
	case conductor.PartAudio:
		return WirePart{Type: WirePartAudio, URI: p.URI, Data: encodeMediaData(p.Data), MimeType: p.MimeType}
	case conductor.PartVideo:
		return WirePart{Type: WirePartVideo, URI: p.URI, Data: encodeMediaData(p.Data), MimeType: p.MimeType}
	case conductor.PartDocument:
		return WirePart{Type: WirePartDocument, URI: p.URI, Data: encodeMediaData(p.Data), MimeType: p.MimeType}
	case conductor.PartFunctionCall:
		return WirePart{
			Type: WirePartFunctionCall,
			ID:   p.FunctionCallID,
			Name: p.FunctionCallName,
			Arguments: rawArgsToMap(p.FunctionCallArgs),
		}
	case conductor.PartFunctionResponse:
		return WirePart{
			Type:   WirePartFunctionResponse,
			CallID: p.FunctionResponseID,
			Name:   p.FunctionResponseName,
			Result: p.FunctionResponseResult,
		}
	default:
		return WirePart{Type: WirePartText, Text: p.Text}
	}
}

func encodeMediaData(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// parseFunctionCallArgs turns the model's raw "arguments" string into a
// clean JSON object, repairing it first if it didn't parse as-is. A fragment
// boundary landing mid-token can leave the accumulated text syntactically
// broken (trailing comma, unclosed brace); jsonrepair fixes the common cases
// before tool executors ever see the arguments.
func parseFunctionCallArgs(raw string) json.RawMessage {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return json.RawMessage(`{}`)
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}

	repaired, err := jsonrepair.JSONRepair(trimmed)
	if err != nil || !json.Valid([]byte(repaired)) {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(repaired)
}

func rawArgsToMap(raw json.RawMessage) map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func convertToolDefinitions(defs []tool.Definition) []WireTool {
	out := make([]WireTool, 0, len(defs))
	for _, d := range defs {
		var params json.RawMessage
		if d.Parameters != nil {
			if encoded, err := json.Marshal(d.Parameters); err == nil {
				params = encoded
			}
		}
		out = append(out, NewFunctionTool(FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  params,
		}))
	}
	return out
}
