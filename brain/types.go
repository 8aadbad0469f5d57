// Package brain implements the Brain Adapter and Interaction Client: the
// wire types, request builder, HTTP/SSE client, and BrainEvent translation
// for the interaction HTTP/SSE protocol, grounded on the Gemini Interactions
// API shape.
package brain

import "encoding/json"

// Role tags who produced a WireTurn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

// WireFunctionCall is the on-wire shape of a model-issued tool call.
// Args arrives as a raw JSON-object string rather than a pre-parsed object:
// the server assembles it from incremental text fragments, and a fragment
// boundary can land mid-token, so the string is not guaranteed to be valid
// JSON by the time it is fully buffered.
type WireFunctionCall struct {
	ID               string `json:"id,omitempty"`
	Name             string `json:"name"`
	Args             string `json:"arguments,omitempty"`
	ThoughtSignature string `json:"thought_signature,omitempty"`
}

// WireFunctionResponse is the on-wire shape of a tool result submitted back
// to the server. CallID round-trips as "call_id".
type WireFunctionResponse struct {
	CallID string          `json:"call_id,omitempty"`
	Name   string          `json:"name"`
	Result json.RawMessage `json:"result"`
}

// WireMedia carries an image/audio/video/document part, either inline
// (Data, base64) or by reference (URI).
type WireMedia struct {
	URI      string `json:"uri,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mime_type"`
}

// WirePartKind discriminates WirePart's "type" tag.
type WirePartKind string

const (
	WirePartText             WirePartKind = "text"
	WirePartThought          WirePartKind = "thought"
	WirePartImage            WirePartKind = "image"
	WirePartAudio            WirePartKind = "audio"
	WirePartVideo            WirePartKind = "video"
	WirePartDocument         WirePartKind = "document"
	WirePartFunctionCall     WirePartKind = "function_call"
	WirePartFunctionResponse WirePartKind = "function_result"
)

// WirePart is one entry of interaction content, tagged by Type. It mirrors
// the Rust original's #[serde(tag = "type")] enum: every field the active
// variant needs is present on the flat struct; inactive fields are left
// zero and omitted on marshal.
type WirePart struct {
	Type WirePartKind `json:"type"`

	Text string `json:"text,omitempty"`

	// Thought: Signature is the opaque replay token, Summary the
	// human-readable reasoning text (empty for a replayed thought).
	Signature string `json:"signature,omitempty"`
	Summary   string `json:"summary,omitempty"`

	// Image, Audio, Video, Document
	URI      string `json:"uri,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mime_type,omitempty"`

	// FunctionCall
	ID               string                     `json:"id,omitempty"`
	Name             string                     `json:"name,omitempty"`
	Arguments        map[string]json.RawMessage `json:"arguments,omitempty"`
	ThoughtSignature string                     `json:"thought_signature,omitempty"`

	// FunctionResponse
	CallID string          `json:"call_id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// WireTurn is one role-tagged entry of a replayed interaction history.
type WireTurn struct {
	Role    Role       `json:"role"`
	Content []WirePart `json:"content"`
}

// inputKind discriminates WireInput's untagged union.
type inputKind int

const (
	inputText inputKind = iota
	inputParts
	inputTurns
)

// WireInput is the request body's untagged "input" union: a bare string, a
// flat list of parts, or a full turn history. MarshalJSON emits whichever
// variant is set, matching serde(untagged).
type WireInput struct {
	kind  inputKind
	text  string
	parts []WirePart
	turns []WireTurn
}

func NewTextInput(text string) WireInput        { return WireInput{kind: inputText, text: text} }
func NewPartsInput(parts []WirePart) WireInput   { return WireInput{kind: inputParts, parts: parts} }
func NewTurnsInput(turns []WireTurn) WireInput   { return WireInput{kind: inputTurns, turns: turns} }

func (w WireInput) MarshalJSON() ([]byte, error) {
	switch w.kind {
	case inputParts:
		return json.Marshal(w.parts)
	case inputTurns:
		return json.Marshal(w.turns)
	default:
		return json.Marshal(w.text)
	}
}

// FunctionDeclaration describes one callable tool to the model.
type FunctionDeclaration struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// WireToolKind discriminates WireTool's "type" tag. Only Function is
// exercised by the conductor's local tool registry; the others are carried
// for fidelity with the provider's tool taxonomy.
type WireToolKind string

const (
	WireToolGoogleSearch  WireToolKind = "google_search"
	WireToolCodeExecution WireToolKind = "code_execution"
	WireToolURLContext    WireToolKind = "url_context"
	WireToolFunction      WireToolKind = "function"
)

// WireTool is one entry of the request's "tools" list.
type WireTool struct {
	Type WireToolKind `json:"type"`
	FunctionDeclaration
}

// NewFunctionTool wraps a FunctionDeclaration as a WireTool.
func NewFunctionTool(decl FunctionDeclaration) WireTool {
	return WireTool{Type: WireToolFunction, FunctionDeclaration: decl}
}

// ToolChoiceKind discriminates ToolChoice's shape.
type ToolChoiceKind int

const (
	ToolChoiceAuto ToolChoiceKind = iota
	ToolChoiceAny
	ToolChoiceFunction
	ToolChoiceNone
)

// ToolChoice steers which (if any) tool the model must call.
type ToolChoice struct {
	kind         ToolChoiceKind
	functionName string
}

func NewToolChoiceAuto() ToolChoice     { return ToolChoice{kind: ToolChoiceAuto} }
func NewToolChoiceAny() ToolChoice      { return ToolChoice{kind: ToolChoiceAny} }
func NewToolChoiceNone() ToolChoice     { return ToolChoice{kind: ToolChoiceNone} }
func NewToolChoiceFunction(name string) ToolChoice {
	return ToolChoice{kind: ToolChoiceFunction, functionName: name}
}

func (c ToolChoice) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case ToolChoiceAny:
		return json.Marshal("any")
	case ToolChoiceFunction:
		return json.Marshal(struct {
			Function struct {
				Name string `json:"name"`
			} `json:"function"`
		}{Function: struct {
			Name string `json:"name"`
		}{Name: c.functionName}})
	case ToolChoiceNone:
		return json.Marshal("none")
	default:
		return json.Marshal("auto")
	}
}

// ThinkingLevel maps the conductor's thinking_level setting onto the
// provider's generation_config.thinking_level enum.
type ThinkingLevel string

const (
	ThinkingMinimal ThinkingLevel = "minimal"
	ThinkingLow     ThinkingLevel = "low"
	ThinkingMedium  ThinkingLevel = "medium"
	ThinkingHigh    ThinkingLevel = "high"
)

// ThinkingLevelFromString maps a case-insensitive level name onto a
// ThinkingLevel, defaulting to high for anything unrecognized.
func ThinkingLevelFromString(level string) ThinkingLevel {
	switch toLowerASCII(level) {
	case "minimal":
		return ThinkingMinimal
	case "low":
		return ThinkingLow
	case "medium":
		return ThinkingMedium
	default:
		return ThinkingHigh
	}
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// GenerationConfig tunes model output.
type GenerationConfig struct {
	ThinkingLevel     *ThinkingLevel  `json:"thinking_level,omitempty"`
	Temperature       *float32        `json:"temperature,omitempty"`
	MaxOutputTokens   *int            `json:"max_output_tokens,omitempty"`
	ResponseMimeType  *string         `json:"response_mime_type,omitempty"`
	ResponseSchema    json.RawMessage `json:"response_schema,omitempty"`
	ResponseModalities []string       `json:"response_modalities,omitempty"`
}

// SafetyCategory names a harm category a SafetySetting tunes.
type SafetyCategory string

const (
	SafetyHateSpeech        SafetyCategory = "HATE_SPEECH"
	SafetySexuallyExplicit  SafetyCategory = "SEXUALLY_EXPLICIT"
	SafetyHarassment        SafetyCategory = "HARASSMENT"
	SafetyDangerousContent  SafetyCategory = "DANGEROUS_CONTENT"
	SafetyCivicIntegrity    SafetyCategory = "CIVIC_INTEGRITY"
)

// SafetyThreshold is the block threshold for a SafetyCategory.
type SafetyThreshold string

const (
	SafetyBlockNone             SafetyThreshold = "BLOCK_NONE"
	SafetyBlockOnlyHigh         SafetyThreshold = "BLOCK_ONLY_HIGH"
	SafetyBlockMediumAndAbove   SafetyThreshold = "BLOCK_MEDIUM_AND_ABOVE"
	SafetyBlockLowAndAbove      SafetyThreshold = "BLOCK_LOW_AND_ABOVE"
)

// SafetySetting is one entry of the request's "safety_settings" list.
type SafetySetting struct {
	Category  SafetyCategory  `json:"category"`
	Threshold SafetyThreshold `json:"threshold"`
}

// InteractionRequest is the full request body posted to /v1beta/interactions.
type InteractionRequest struct {
	Model                 *string            `json:"model,omitempty"`
	CachedContent         *string            `json:"cached_content,omitempty"`
	Agent                 *string            `json:"agent,omitempty"`
	Input                 WireInput          `json:"input"`
	SystemInstruction     []WirePart         `json:"system_instruction,omitempty"`
	PreviousInteractionID *string            `json:"previous_interaction_id,omitempty"`
	Tools                 []WireTool         `json:"tools,omitempty"`
	ToolChoice            *ToolChoice        `json:"tool_choice,omitempty"`
	GenerationConfig      *GenerationConfig  `json:"generation_config,omitempty"`
	SafetySettings        []SafetySetting    `json:"safety_settings,omitempty"`
	Store                 *bool              `json:"store,omitempty"`
	Background             *bool             `json:"background,omitempty"`
	Stream                 *bool             `json:"stream,omitempty"`
}

// InteractionResponse is the full, non-streaming response body, or the
// payload nested in interaction.start/interaction.complete SSE events.
type InteractionResponse struct {
	ID      *string        `json:"id,omitempty"`
	Model   string         `json:"model"`
	Status  string         `json:"status"`
	Outputs []WireOutput   `json:"outputs,omitempty"`
}

// WireOutputKind discriminates WireOutput's "type" tag.
type WireOutputKind string

const (
	WireOutputText             WireOutputKind = "text"
	WireOutputThought          WireOutputKind = "thought"
	WireOutputThoughtSignature WireOutputKind = "thought_signature"
	WireOutputImage            WireOutputKind = "image"
	WireOutputAudio            WireOutputKind = "audio"
	WireOutputVideo            WireOutputKind = "video"
	WireOutputDocument         WireOutputKind = "document"
	WireOutputFunctionCall     WireOutputKind = "function_call"
	WireOutputFunctionResponse WireOutputKind = "function_response"
	WireOutputContentDelta     WireOutputKind = "content_delta"
	WireOutputThoughtSummary   WireOutputKind = "thought_summary"
	WireOutputUnknown          WireOutputKind = ""
)

// WireOutput is one output item, either a full InteractionResponse.Outputs
// entry or the payload of a content.delta SSE event's "delta" field. An
// unrecognized "type" decodes to WireOutputUnknown rather than failing, so
// the stream never aborts on a provider-added variant.
type WireOutput struct {
	Type WireOutputKind `json:"type"`

	Text      string `json:"text,omitempty"`
	Signature string `json:"signature,omitempty"`
	Summary   string `json:"summary,omitempty"`

	// ContentDelta only: nil means "not a thought", matching the
	// provider's Option<bool> default-false semantics on absence.
	Thought *bool `json:"thought,omitempty"`

	URI      string `json:"uri,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mime_type,omitempty"`

	FunctionCall     *WireFunctionCall     `json:"function_call,omitempty"`
	FunctionResponse *WireFunctionResponse `json:"function_response,omitempty"`
}

func (o *WireOutput) UnmarshalJSON(data []byte) error {
	type alias WireOutput
	aux := (*alias)(o)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	switch o.Type {
	case WireOutputText, WireOutputThought, WireOutputThoughtSignature, WireOutputImage,
		WireOutputAudio, WireOutputVideo, WireOutputDocument, WireOutputFunctionCall,
		WireOutputFunctionResponse, WireOutputContentDelta, WireOutputThoughtSummary:
	default:
		o.Type = WireOutputUnknown
	}
	return nil
}

// ContentStartInfo is the payload of a content.start SSE event.
type ContentStartInfo struct {
	ContentType string `json:"type"`
}

// InteractionEventKind discriminates InteractionEvent's "event_type" tag.
type InteractionEventKind string

const (
	EventInteractionStart    InteractionEventKind = "interaction.start"
	EventStatusUpdate        InteractionEventKind = "interaction.status_update"
	EventContentStart        InteractionEventKind = "content.start"
	EventContentDelta        InteractionEventKind = "content.delta"
	EventInteractionComplete InteractionEventKind = "interaction.complete"
	EventOther               InteractionEventKind = ""
)

// InteractionEvent is one item decoded from the SSE stream.
type InteractionEvent struct {
	EventType InteractionEventKind `json:"event_type"`

	Interaction *InteractionResponse `json:"interaction,omitempty"`
	Status      string               `json:"status,omitempty"`
	Index       *int                 `json:"index,omitempty"`
	Content     *ContentStartInfo    `json:"content,omitempty"`
	Delta       *WireOutput          `json:"delta,omitempty"`
}

func (e *InteractionEvent) UnmarshalJSON(data []byte) error {
	type alias InteractionEvent
	aux := (*alias)(e)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	switch e.EventType {
	case EventInteractionStart, EventStatusUpdate, EventContentStart, EventContentDelta, EventInteractionComplete:
	default:
		e.EventType = EventOther
	}
	return nil
}

// APIError is the structured error body the server returns on non-2xx
// responses, when it is JSON-shaped.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
