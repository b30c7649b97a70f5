package memos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	fiberClient "github.com/gofiber/fiber/v3/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/flyinglimao/mcp-server-memos/pkg/registry"
)

// APIBasePath is appended to every instance host.
const APIBasePath = "/api/v1"

// TracerName is the instrumentation scope of request spans.
const TracerName = "github.com/flyinglimao/mcp-server-memos/pkg/memos"

/*
Transport executes one request against one Memos instance. The Result holds
either the raw JSON payload or the backend's failure; the error return is
reserved for faults that are not an answer from the backend.
*/
type Transport interface {
	Execute(ctx context.Context, method, path string, opts RequestOptions) (Result[json.RawMessage], error)
}

// RequestOptions carries the optional parts of a request.
type RequestOptions struct {
	Body  any
	Query Query
}

/*
Client is the Transport bound to a single registered instance. It owns base
URL normalization and credential attachment, and performs exactly one HTTP
call per Execute with no retries.
*/
type Client struct {
	baseURL string
	apiKey  string
	conn    *fiberClient.Client
	tracer  trace.Tracer
}

type ClientOption func(*Client)

// WithTimeout bounds each request. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(client *Client) {
		if timeout > 0 {
			client.conn.SetTimeout(timeout)
		}
	}
}

// WithTracer replaces the globally registered tracer.
func WithTracer(tracer trace.Tracer) ClientOption {
	return func(client *Client) {
		client.tracer = tracer
	}
}

/*
NewClient creates a client for the given instance. The host loses any
trailing slashes and gains the versioned API prefix.
*/
func NewClient(instance registry.Instance, opts ...ClientOption) *Client {
	baseURL := NormalizeBaseURL(instance.Host)

	client := &Client{
		baseURL: baseURL,
		apiKey:  instance.APIKey,
		conn:    fiberClient.New().SetBaseURL(baseURL).AddRequestHook(withoutDefaultContentType),
		tracer:  otel.Tracer(TracerName),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

/*
withoutDefaultContentType stops fasthttp from labelling bodiless requests
(DELETE in particular) as application/octet-stream. Requests with a body
still get the JSON content type set in Execute.
*/
func withoutDefaultContentType(_ *fiberClient.Client, req *fiberClient.Request) error {
	req.RawRequest.Header.SetNoDefaultContentType(true)
	return nil
}

// NormalizeBaseURL turns an instance host into the API root.
func NormalizeBaseURL(host string) string {
	return strings.TrimRight(strings.TrimSpace(host), "/") + APIBasePath
}

// BaseURL returns the normalized API root this client talks to.
func (client *Client) BaseURL() string {
	return client.baseURL
}

func (client *Client) Execute(
	ctx context.Context, method, path string, opts RequestOptions,
) (Result[json.RawMessage], error) {
	ctx, span := client.tracer.Start(ctx, "memos.request", trace.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("memos.path", path),
	))
	defer span.End()

	cfg := fiberClient.Config{
		Ctx: ctx,
		Header: map[string]string{
			"Authorization": "Bearer " + client.apiKey,
		},
		Param: opts.Query.Values(),
	}

	if opts.Body != nil {
		cfg.Header["Content-Type"] = "application/json"
		cfg.Body = opts.Body
	}

	log.Debug("memos request", "method", method, "url", client.baseURL+path)

	resp, err := client.conn.Custom(path, method, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return Result[json.RawMessage]{}, &ConnectionError{Method: method, Path: path, Err: err}
	}
	defer resp.Close()

	var (
		status      = resp.StatusCode()
		statusText  = strings.Clone(resp.Status())
		contentType = strings.Clone(resp.Header("Content-Type"))
		body        = bytes.Clone(resp.Body())
	)

	span.SetAttributes(attribute.Int("http.response.status_code", status))

	result := Classify(status, statusText, contentType, body)
	if !result.OK() {
		span.SetStatus(codes.Error, result.Failure.Message)
		log.Debug("memos request failed", "method", method, "path", path, "code", result.Failure.Code)
	}

	return result, nil
}

/*
Classify maps an HTTP response onto a Result. Backends differ in how strict
they are, so the rules are:

 1. A JSON content type, or any status other than 204, means the body is
    parsed as JSON.
 2. An unparseable body on a failing status becomes a Failure built from the
    HTTP status alone.
 3. An unparseable body on a successful status is read as {}.
 4. A 204 without a JSON content type is read as {}.
 5. A failing status with a parsed body uses the body's code, message and
    details, each falling back to the HTTP status.
 6. Anything else is a Success carrying the parsed body.
*/
func Classify(status int, statusText, contentType string, body []byte) Result[json.RawMessage] {
	var (
		ok       = status >= 200 && status < 300
		payload  = json.RawMessage("{}")
		fallback = httpStatusMessage(status, statusText)
	)

	if strings.Contains(contentType, "application/json") || status != http.StatusNoContent {
		trimmed := bytes.TrimSpace(body)

		switch {
		case json.Valid(trimmed):
			payload = json.RawMessage(trimmed)
		case !ok:
			return Failed[json.RawMessage](&APIError{Code: status, Message: fallback, Details: []any{}})
		}
	}

	if !ok {
		return Failed[json.RawMessage](errorFromBody(payload, status, fallback))
	}

	return Success(payload)
}

func errorFromBody(payload json.RawMessage, status int, fallback string) *APIError {
	var body struct {
		Code    json.RawMessage `json:"code"`
		Message json.RawMessage `json:"message"`
		Details json.RawMessage `json:"details"`
	}

	apiErr := &APIError{Code: status, Message: fallback, Details: []any{}}

	// Non-object payloads carry no error fields.
	if err := json.Unmarshal(payload, &body); err != nil {
		return apiErr
	}

	// Each field is decoded on its own so a mistyped one keeps its fallback.
	var (
		code    *int
		message *string
		details []any
	)

	if json.Unmarshal(body.Code, &code) == nil && code != nil {
		apiErr.Code = *code
	}
	if json.Unmarshal(body.Message, &message) == nil && message != nil {
		apiErr.Message = *message
	}
	if json.Unmarshal(body.Details, &details) == nil && details != nil {
		apiErr.Details = details
	}

	return apiErr
}

func httpStatusMessage(status int, statusText string) string {
	if statusText == "" {
		statusText = http.StatusText(status)
	}
	return fmt.Sprintf("HTTP %d: %s", status, statusText)
}

/*
Do executes a request and decodes a successful payload into T. A payload
that is valid JSON but does not fit T is a fault, not a Failure.
*/
func Do[T any](
	ctx context.Context, transport Transport, method, path string, opts RequestOptions,
) (Result[T], error) {
	raw, err := transport.Execute(ctx, method, path, opts)
	if err != nil {
		return Result[T]{}, err
	}

	if !raw.OK() {
		return Failed[T](raw.Failure), nil
	}

	var value T
	if err := json.Unmarshal(raw.Value, &value); err != nil {
		return Result[T]{}, &DecodingError{Path: path, Err: err}
	}

	return Success(value), nil
}
