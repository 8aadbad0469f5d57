package brain

import (
	"encoding/json"
	"testing"

	"github.com/aravindhsampath/chitti/conductor"
)

func TestThinkingLevelFromStringCaseInsensitive(t *testing.T) {
	cases := map[string]ThinkingLevel{
		"minimal": ThinkingMinimal,
		"MINIMAL": ThinkingMinimal,
		"low":     ThinkingLow,
		"Medium":  ThinkingMedium,
		"high":    ThinkingHigh,
		"":        ThinkingHigh,
		"bogus":   ThinkingHigh,
	}
	for in, want := range cases {
		if got := ThinkingLevelFromString(in); got != want {
			t.Errorf("ThinkingLevelFromString(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTranslateOutputTextDelta(t *testing.T) {
	ev, ok := translateOutput(WireOutput{Type: WireOutputText, Text: "hi"})
	if !ok || ev.Kind != conductor.BrainEventTextDelta || ev.Text != "hi" {
		t.Errorf("translateOutput(text) = %+v, ok=%v", ev, ok)
	}
}

func TestTranslateOutputContentDeltaThought(t *testing.T) {
	thought := true
	ev, ok := translateOutput(WireOutput{Type: WireOutputContentDelta, Text: "reasoning", Thought: &thought})
	if !ok || ev.Kind != conductor.BrainEventThoughtDelta || ev.Text != "reasoning" {
		t.Errorf("translateOutput(content_delta thought) = %+v, ok=%v", ev, ok)
	}
}

func TestTranslateOutputContentDeltaNotThought(t *testing.T) {
	ev, ok := translateOutput(WireOutput{Type: WireOutputContentDelta, Text: "answer"})
	if !ok || ev.Kind != conductor.BrainEventTextDelta {
		t.Errorf("translateOutput(content_delta no thought flag) = %+v, ok=%v", ev, ok)
	}
}

func TestTranslateOutputFunctionCall(t *testing.T) {
	ev, ok := translateOutput(WireOutput{
		Type: WireOutputFunctionCall,
		FunctionCall: &WireFunctionCall{
			ID:   "call_1",
			Name: "shell",
			Args: `{"command":"ls"}`,
		},
	})
	if !ok || ev.Kind != conductor.BrainEventToolCall || ev.ToolName != "shell" || ev.ToolCallID != "call_1" {
		t.Errorf("translateOutput(function_call) = %+v, ok=%v", ev, ok)
	}
	if string(ev.ToolArgs) != `{"command":"ls"}` {
		t.Errorf("ToolArgs = %s, want clean passthrough", ev.ToolArgs)
	}
}

func TestParseFunctionCallArgsRepairsTrailingComma(t *testing.T) {
	args := parseFunctionCallArgs(`{"command":"ls",}`)
	var decoded map[string]string
	if err := json.Unmarshal(args, &decoded); err != nil {
		t.Fatalf("Unmarshal(repaired) error = %v, args=%s", err, args)
	}
	if decoded["command"] != "ls" {
		t.Errorf("command = %q, want ls", decoded["command"])
	}
}

func TestParseFunctionCallArgsEmptyBecomesEmptyObject(t *testing.T) {
	if string(parseFunctionCallArgs("")) != "{}" {
		t.Errorf("parseFunctionCallArgs(\"\") = %s, want {}", parseFunctionCallArgs(""))
	}
}

func TestTranslateOutputUnknownDropped(t *testing.T) {
	_, ok := translateOutput(WireOutput{Type: WireOutputUnknown})
	if ok {
		t.Error("translateOutput(unknown) ok = true, want false")
	}
}

func TestConvertInputText(t *testing.T) {
	in := conductor.TurnInput{Kind: conductor.TurnInputText, Text: "hello"}
	wire := convertInput(in)
	encoded, err := wire.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(encoded) != `"hello"` {
		t.Errorf("MarshalJSON() = %s, want %q", encoded, `"hello"`)
	}
}

func TestConvertPartFunctionResponse(t *testing.T) {
	part := conductor.InteractionPart{
		Kind:                   conductor.PartFunctionResponse,
		FunctionResponseID:     "call_1",
		FunctionResponseName:  "shell",
		FunctionResponseResult: []byte(`{"stdout":"ok"}`),
	}
	wire := convertPart(part)
	if wire.Type != WirePartFunctionResponse || wire.CallID != "call_1" || wire.Name != "shell" {
		t.Errorf("convertPart(function_response) = %+v", wire)
	}
}
