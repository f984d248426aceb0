package dojo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/serhii-ciq/defectdojo-mcp/internal/config"
)

// API v2 collection paths.
const (
	FindingsPath     = "/api/v2/findings/"
	NotesPath        = "/api/v2/notes/"
	ProductsPath     = "/api/v2/products/"
	ProductTypesPath = "/api/v2/product_types/"
	EngagementsPath  = "/api/v2/engagements/"
	TestsPath        = "/api/v2/tests/"
	UsersPath        = "/api/v2/users/"
	GroupsPath       = "/api/v2/dojo_groups/"
	GroupMembersPath = "/api/v2/dojo_group_members/"
)

// ItemPath returns the single-record path under a collection path.
func ItemPath(collection string, id int) string {
	return collection + strconv.Itoa(id) + "/"
}

// Request describes one outbound call. It is built once per tool call and
// never mutated or reused; auth headers are attached at execution time.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is marshaled to JSON when non-nil.
	Body any
}

// Client executes requests against one DefectDojo instance. It performs
// no retries and holds no per-call state; a single Client is safe for
// concurrent use.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	log     zerolog.Logger
}

// NewClient builds a client from the resolved configuration.
func NewClient(cfg config.Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.APIToken,
		httpc: &http.Client{
			Timeout: cfg.Timeout(),
			// DefectDojo behind a proxy can redirect API paths to an HTML
			// login page; surface the redirect instead of following it.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log: log,
	}
}

// BaseURL returns the configured remote base, for logging at startup.
func (c *Client) BaseURL() string { return c.baseURL }

// Do executes the request and maps the outcome: 2xx is ok (204 and empty
// bodies become an empty object payload), 401/403 auth_error, 404
// not_found, 400/422 validation_error, 429 rate_limited, anything else
// server_error. Failures before a response arrives (dial, TLS, timeout,
// canceled context) are transport_error.
func (c *Client) Do(ctx context.Context, req Request) *Result {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var r io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return transportFailure(fmt.Errorf("encode request body: %w", err))
		}
		r = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, r)
	if err != nil {
		return transportFailure(fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("User-Agent", "defectdojo-mcp")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Token "+c.token)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return transportFailure(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(fmt.Errorf("read response: %w", err))
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Msg("remote call")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
			return Ok(json.RawMessage(`{}`))
		}
		if !json.Valid(body) {
			return nonJSONResult(resp.StatusCode, resp.Header, body)
		}
		return Ok(body)
	}

	return remoteError(resp.StatusCode, resp.Header, body)
}

func transportFailure(err error) *Result {
	return &Result{
		Kind:   KindTransportError,
		Detail: &ErrorDetail{Message: err.Error()},
	}
}

func classify(status int) StatusKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuthError
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidationError
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindServerError
	}
}

func remoteError(status int, header http.Header, body []byte) *Result {
	kind := classify(status)
	detail := &ErrorDetail{
		Message:      statusMessage(kind, status),
		RemoteStatus: status,
	}

	if kind == KindRateLimited {
		if secs, ok := parseRetryAfterSeconds(header); ok {
			detail.RetryAfterSeconds = secs
			detail.Message += fmt.Sprintf(": retry after %ds", secs)
		}
	}

	detail.Remote = preserveBody(header, body)

	return &Result{Kind: kind, Detail: detail}
}

func nonJSONResult(status int, header http.Header, body []byte) *Result {
	return &Result{
		Kind: KindServerError,
		Detail: &ErrorDetail{
			Message:      fmt.Sprintf("DefectDojo returned a non-JSON response (HTTP %d)", status),
			RemoteStatus: status,
			Remote:       preserveBody(header, body),
		},
	}
}

func statusMessage(kind StatusKind, status int) string {
	switch kind {
	case KindAuthError:
		if status == http.StatusUnauthorized {
			return "authentication failed (HTTP 401): check " + config.EnvAPIToken
		}
		return "permission denied (HTTP 403): the token lacks access to this resource"
	case KindNotFound:
		return "resource not found (HTTP 404)"
	case KindValidationError:
		return fmt.Sprintf("DefectDojo rejected the request (HTTP %d)", status)
	case KindRateLimited:
		return "rate limited (HTTP 429)"
	default:
		return fmt.Sprintf("DefectDojo server error (HTTP %d)", status)
	}
}

// preserveBody keeps the remote error body machine-readable: JSON bodies
// verbatim (DefectDojo reports field-level messages that way), HTML error
// pages flattened to text, anything else as trimmed text.
func preserveBody(header http.Header, body []byte) json.RawMessage {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}

	text := string(body)
	ct := strings.ToLower(header.Get("Content-Type"))
	if strings.Contains(ct, "text/html") || looksLikeHTML(body) {
		text = htmlToText(body)
	}
	quoted, _ := json.Marshal(truncateRunes(strings.TrimSpace(text), 2048))
	return quoted
}

func looksLikeHTML(b []byte) bool {
	s := strings.TrimSpace(strings.ToLower(string(b)))
	if s == "" {
		return false
	}
	return strings.HasPrefix(s, "<!doctype html") || strings.HasPrefix(s, "<html") ||
		(strings.Contains(s, "<html") && strings.Contains(s, "<body"))
}

func parseRetryAfterSeconds(h http.Header) (int, bool) {
	ra := strings.TrimSpace(h.Get("Retry-After"))
	if ra == "" {
		return 0, false
	}
	sec, err := strconv.Atoi(ra)
	if err != nil || sec <= 0 {
		return 0, false
	}
	return sec, true
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
