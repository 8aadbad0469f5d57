package brain

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newSSEResponse(t *testing.T, body string) *http.Response {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET test server: %v", err)
	}
	return resp
}

// The wire format is LF-framed with one event per "data:" line and no
// blank-line separators between events: body below has exactly one "\n"
// between each line, matching the actual protocol rather than an SSE-style
// double-newline framing.
func TestEventDecoderSkipsMalformedLineBetweenValidEvents(t *testing.T) {
	body := strings.Join([]string{
		`data: {"event_type":"content.delta","delta":{"type":"text","text":"hello"}}`,
		`data: {not valid json`,
		`data: {"event_type":"interaction.complete","interaction":{"id":"int_1","model":"gemini-1.5-flash","status":"done"}}`,
		"data: [DONE]",
	}, "\n")

	decoder := NewEventDecoder(newSSEResponse(t, body))
	defer decoder.Close()

	var kinds []InteractionEventKind
	for {
		event, err := decoder.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		kinds = append(kinds, event.EventType)
	}

	if len(kinds) != 2 {
		t.Fatalf("got %d events, want 2 (malformed line should be skipped): %v", len(kinds), kinds)
	}
	if kinds[0] != EventContentDelta || kinds[1] != EventInteractionComplete {
		t.Errorf("kinds = %v, want [content.delta interaction.complete]", kinds)
	}
}

func TestEventDecoderUnknownEventTypeBecomesOther(t *testing.T) {
	body := "data: {\"event_type\":\"something.new\"}\ndata: [DONE]\n"
	decoder := NewEventDecoder(newSSEResponse(t, body))
	defer decoder.Close()

	event, err := decoder.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if event.EventType != EventOther {
		t.Errorf("EventType = %q, want EventOther", event.EventType)
	}
}
