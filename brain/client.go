package brain

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aravindhsampath/chitti/internal/chitterr"
	"github.com/aravindhsampath/chitti/internal/httpx"
	"github.com/aravindhsampath/chitti/internal/retry"
)

const interactionsPath = "/v1beta/interactions"

// Client is the Interaction Client: it builds requests, performs
// synchronous or SSE-streaming round trips against the model API, classifies
// errors, and retries idempotent (non-streaming) requests.
type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	retryCfg   retry.Config
}

// NewClient builds a Client against baseURL (e.g.
// "https://generativelanguage.googleapis.com"), authenticating with apiKey
// and defaulting requests to model.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		retryCfg:   retry.Config{},
	}
}

// Model returns the client's default model, for the request builder.
func (c *Client) Model() string { return c.model }

func (c *Client) headers() []httpx.HeaderOption {
	return []httpx.HeaderOption{
		{Key: "x-goog-api-key", Value: c.apiKey},
		{Key: "X-Request-ID", Value: uuid.NewString()},
	}
}

// Send performs a non-streaming interaction request, retrying transient
// failures. req.Stream must be unset or false.
func (c *Client) Send(ctx context.Context, req InteractionRequest) (*InteractionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, chitterr.NewDecodeError("marshaling request", err)
	}

	var respBody []byte
	err = retry.Do(ctx, c.retryCfg, true, func(ctx context.Context) error {
		b, sendErr := httpx.DoPostSync(ctx, c.httpClient, c.baseURL+interactionsPath, body, c.headers()...)
		if sendErr != nil {
			return classifyError(sendErr)
		}
		respBody = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	var decoded InteractionResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, chitterr.NewDecodeError("decoding interaction response", err)
	}
	return &decoded, nil
}

// Stream performs a streaming interaction request and returns the raw HTTP
// response with its body left open for the caller to decode via
// NewEventDecoder. Streaming responses are not retried: once bytes have
// reached the caller, a transparent retry would duplicate output.
func (c *Client) Stream(ctx context.Context, req InteractionRequest) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, chitterr.NewDecodeError("marshaling request", err)
	}

	resp, err := httpx.DoPostStream(ctx, c.httpClient, c.baseURL+interactionsPath, body, c.headers()...)
	if err != nil {
		return nil, classifyError(err)
	}
	return resp, nil
}

// classifyError converts a low-level httpx/network error into the brain
// package's typed error taxonomy so callers can branch with chitterr.Is*.
func classifyError(err error) error {
	var statusErr *httpx.StatusError
	if asStatusError(err, &statusErr) {
		var apiErr APIError
		if jsonErr := json.Unmarshal([]byte(statusErr.Body), &apiErr); jsonErr == nil && apiErr.Message != "" {
			return chitterr.NewAPIError(statusErr.Code, apiErr.Message)
		}
		return chitterr.NewAPIError(statusErr.Code, httpx.TruncateString(statusErr.Body, 500))
	}
	return chitterr.NewTransportError(err)
}

func asStatusError(err error, target **httpx.StatusError) bool {
	for err != nil {
		if statusErr, ok := err.(*httpx.StatusError); ok {
			*target = statusErr
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
