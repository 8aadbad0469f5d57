package brain

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aravindhsampath/chitti/internal/chitterr"
	"github.com/aravindhsampath/chitti/internal/httpx"
)

// EventDecoder turns an SSE response body into a sequence of
// InteractionEvents. A malformed "data:" line is logged and skipped; it
// never aborts the stream. The underlying framing layer failing (as
// opposed to one bad JSON payload) does abort, as a *chitterr.CodecError
// surfaced through Next.
type EventDecoder struct {
	scanner *httpx.SSEScanner
	resp    *http.Response
}

// NewEventDecoder wraps resp's body. Close must be called once the caller
// is done, whether or not the stream was fully drained.
func NewEventDecoder(resp *http.Response) *EventDecoder {
	return &EventDecoder{scanner: httpx.NewSSEScanner(resp.Body), resp: resp}
}

// Close releases the underlying HTTP response body.
func (d *EventDecoder) Close() {
	httpx.CloseWithLog(d.resp.Body)
}

// Next returns the next decoded event, io.EOF when the stream ended
// cleanly (including via the [DONE] sentinel), or a wrapped error when the
// SSE framing itself failed.
func (d *EventDecoder) Next() (InteractionEvent, error) {
	for {
		payload, err := d.scanner.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return InteractionEvent{}, io.EOF
			}
			return InteractionEvent{}, chitterr.NewCodecError(err)
		}

		var event InteractionEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			slog.Warn("brain: skipping malformed SSE payload", "error", err.Error())
			continue
		}
		return event, nil
	}
}
