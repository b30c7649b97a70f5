package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cohesivestack/valgo"
	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
	"github.com/flyinglimao/mcp-server-memos/pkg/registry"
)

// Connector builds the transport for one invocation against one instance.
type Connector func(instance registry.Instance) memos.Transport

/*
Toolbox holds what every tool handler needs: the instance registry and a
way to reach an instance. Handlers keep no state between invocations; each
one resolves its instance and builds a fresh transport.
*/
type Toolbox struct {
	store       registry.Store
	connect     Connector
	clientOpts  []memos.ClientOption
	concurrent  bool
	tagPageSize int
}

type ToolboxOption func(*Toolbox)

// WithConnector replaces the HTTP transport, mostly for tests.
func WithConnector(connect Connector) ToolboxOption {
	return func(toolbox *Toolbox) {
		toolbox.connect = connect
	}
}

// WithHTTPTimeout bounds each request made by the default connector.
func WithHTTPTimeout(timeout time.Duration) ToolboxOption {
	return func(toolbox *Toolbox) {
		toolbox.clientOpts = append(toolbox.clientOpts, memos.WithTimeout(timeout))
	}
}

// WithTracer records the default connector's requests as spans of tracer.
func WithTracer(tracer trace.Tracer) ToolboxOption {
	return func(toolbox *Toolbox) {
		if tracer != nil {
			toolbox.clientOpts = append(toolbox.clientOpts, memos.WithTracer(tracer))
		}
	}
}

// WithConcurrentFanOut queries all instances at once instead of in turn.
func WithConcurrentFanOut(concurrent bool) ToolboxOption {
	return func(toolbox *Toolbox) {
		toolbox.concurrent = concurrent
	}
}

// WithTagPageSize sets the page size used while collecting tags.
func WithTagPageSize(size int) ToolboxOption {
	return func(toolbox *Toolbox) {
		if size > 0 {
			toolbox.tagPageSize = size
		}
	}
}

func NewToolbox(store registry.Store, opts ...ToolboxOption) *Toolbox {
	toolbox := &Toolbox{
		store:       store,
		tagPageSize: 100,
	}

	for _, opt := range opts {
		opt(toolbox)
	}

	if toolbox.connect == nil {
		toolbox.connect = func(instance registry.Instance) memos.Transport {
			return memos.NewClient(instance, toolbox.clientOpts...)
		}
	}

	return toolbox
}

/*
resolve looks up an alias. A missing alias yields the error envelope the
caller should return as is; registry I/O problems come back as err.
*/
func (toolbox *Toolbox) resolve(
	ctx context.Context, alias string,
) (memos.Transport, *mcp.CallToolResult, error) {
	instance, ok, err := toolbox.store.Get(ctx, alias)
	if err != nil {
		return nil, nil, err
	}

	if !ok {
		return nil, instanceNotFound(alias), nil
	}

	return toolbox.connect(instance), nil, nil
}

func instanceNotFound(alias string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Instance \"%s\" not found.", alias))
}

func noFieldsToUpdate() *mcp.CallToolResult {
	return mcp.NewToolResultError("No fields to update.")
}

// failure is how a backend failure reads to the caller.
func failure(apiErr *memos.APIError) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + apiErr.Message)
}

// adminFailure singles out missing privileges on admin endpoints.
func adminFailure(apiErr *memos.APIError) *mcp.CallToolResult {
	if apiErr.IsPermissionDenied() {
		return mcp.NewToolResultError("Permission denied. Admin privileges required.")
	}
	return failure(apiErr)
}

/*
render finishes a single-instance handler. Faults are returned untouched so
they surface as protocol errors; backend failures go through onFailure.
*/
func render[T any](
	result memos.Result[T], err error,
	onFailure func(*memos.APIError) *mcp.CallToolResult,
	format func(T) string,
) (*mcp.CallToolResult, error) {
	if err != nil {
		return nil, err
	}

	if !result.OK() {
		return onFailure(result.Failure), nil
	}

	return mcp.NewToolResultText(format(result.Value)), nil
}

// dump renders a payload as indented JSON.
func dump(value any) string {
	buf, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(buf)
}

// arguments is implemented by every argument struct. normalize applies
// defaults and validates.
type arguments interface {
	normalize() error
}

/*
bind decodes the call arguments into args and normalizes them. A failure
here rejects the call before any handler logic runs.
*/
func bind(req mcp.CallToolRequest, args arguments) error {
	if err := req.BindArguments(args); err != nil {
		return fmt.Errorf("invalid arguments for %s: %w", req.Params.Name, err)
	}

	if err := args.normalize(); err != nil {
		return fmt.Errorf("invalid arguments for %s: %w", req.Params.Name, err)
	}

	return nil
}

// instanceArgs is embedded by every tool bound to a single instance.
type instanceArgs struct {
	Instance string `json:"instance"`
}

// check starts the validation chain. The alias itself is not validated: an
// empty or unknown alias is answered by resolve as an instance not found.
func (args *instanceArgs) check() *valgo.Validation {
	return valgo.New()
}

// userArgs adds the owning user, "me" unless given.
type userArgs struct {
	instanceArgs
	User string `json:"user"`
}

func (args *userArgs) check() *valgo.Validation {
	if args.User == "" {
		args.User = "me"
	}
	return args.instanceArgs.check()
}

func (args *instanceArgs) normalize() error {
	return args.check().Error()
}

func (args *userArgs) normalize() error {
	return args.check().Error()
}
