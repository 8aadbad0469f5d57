package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aravindhsampath/chitti/internal/httpx"
	"github.com/aravindhsampath/chitti/internal/jsonschema"
)

const (
	webDefaultTimeout       = 30 * time.Second
	webUserAgent            = "chitti-web-tool/1.0"
	webMaxBodySize          = 10 * 1024 * 1024
	webDialTimeout          = 10 * time.Second
	webTLSHandshakeTimeout  = 10 * time.Second
	webResponseHeaderWait   = 10 * time.Second
	webIdleConnTimeout      = 90 * time.Second
	webMaxRedirects         = 10
)

// WebInput is the argument schema for the web executor.
type WebInput struct {
	URL string `json:"url" jsonschema:"description=URL to fetch,required"`
}

// WebOutput is the raw response the web executor returns; unlike the file
// executor's HTML read path, this is not converted to Markdown. The
// conductor only needs to know whether the request succeeded.
type WebOutput struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// Web fetches a URL over HTTP/HTTPS with a hardened client: bounded dial,
// TLS, and response-header timeouts, a capped redirect count, and a
// response body size limit.
type Web struct {
	params *jsonschema.Schema
	client *http.Client
}

// NewWeb returns a Web executor.
func NewWeb() *Web {
	return &Web{
		params: jsonschema.GenerateJSONSchema[WebInput](),
		client: &http.Client{
			Timeout: webDefaultTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   webDialTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   webTLSHandshakeTimeout,
				ResponseHeaderTimeout: webResponseHeaderWait,
				IdleConnTimeout:       webIdleConnTimeout,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				ForceAttemptHTTP2:     true,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= webMaxRedirects {
					return fmt.Errorf("too many redirects (>%d)", webMaxRedirects)
				}
				return nil
			},
		},
	}
}

func (w *Web) Name() string { return "web" }

func (w *Web) Definition() Definition {
	return Definition{
		Name:        "web",
		Description: "Fetches a URL over HTTP/HTTPS and returns its status code and raw body.",
		Parameters:  w.params,
	}
}

func (w *Web) Execute(ctx context.Context, args json.RawMessage) (Result, error) {
	var in WebInput
	if len(args) > 0 {
		if err := json.Unmarshal(args, &in); err != nil {
			return errorResult(err), nil
		}
	}

	url := strings.TrimSpace(in.URL)
	if url == "" {
		return errorResult(fmt.Errorf("url cannot be empty")), nil
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errorResult(err), nil
	}
	req.Header.Set("User-Agent", webUserAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return errorResult(err), nil
	}
	defer httpx.CloseWithLog(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, webMaxBodySize))
	if err != nil {
		return errorResult(err), nil
	}

	encoded, err := json.Marshal(WebOutput{Status: resp.StatusCode, Body: string(body)})
	if err != nil {
		return errorResult(err), nil
	}

	isError := resp.StatusCode < 200 || resp.StatusCode >= 300
	return Result{Output: encoded, IsError: isError}, nil
}
