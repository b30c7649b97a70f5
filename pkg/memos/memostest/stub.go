/*
Package memostest provides a scripted memos.Transport that records every
request it receives, for tests that must prove how many calls were made
and what they carried.
*/
package memostest

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
)

// Call is one recorded request.
type Call struct {
	Method string
	Path   string
	Body   json.RawMessage
	Query  map[string]string
}

// HandlerFunc answers a recorded call.
type HandlerFunc func(call Call) (memos.Result[json.RawMessage], error)

/*
Transport records calls and answers them with Handler. Without a Handler
every call succeeds with an empty object.
*/
type Transport struct {
	Handler HandlerFunc

	mu    sync.Mutex
	calls []Call
}

func New(handler HandlerFunc) *Transport {
	return &Transport{Handler: handler}
}

func (transport *Transport) Execute(
	ctx context.Context, method, path string, opts memos.RequestOptions,
) (memos.Result[json.RawMessage], error) {
	call := Call{Method: method, Path: path, Query: opts.Query.Values()}

	if opts.Body != nil {
		buf, err := json.Marshal(opts.Body)
		if err != nil {
			return memos.Result[json.RawMessage]{}, err
		}
		call.Body = buf
	}

	transport.mu.Lock()
	transport.calls = append(transport.calls, call)
	transport.mu.Unlock()

	if transport.Handler == nil {
		return memos.Success(json.RawMessage("{}")), nil
	}

	return transport.Handler(call)
}

// Calls returns a copy of the recorded calls in arrival order.
func (transport *Transport) Calls() []Call {
	transport.mu.Lock()
	defer transport.mu.Unlock()

	return append([]Call{}, transport.calls...)
}

func (transport *Transport) Count() int {
	transport.mu.Lock()
	defer transport.mu.Unlock()

	return len(transport.calls)
}

// Last returns the most recent call, or a zero Call.
func (transport *Transport) Last() Call {
	transport.mu.Lock()
	defer transport.mu.Unlock()

	if len(transport.calls) == 0 {
		return Call{}
	}
	return transport.calls[len(transport.calls)-1]
}

// JSON is a Success carrying v encoded as JSON. It panics on values that
// cannot be encoded.
func JSON(v any) memos.Result[json.RawMessage] {
	buf, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return memos.Success(json.RawMessage(buf))
}

// Failure is a backend failure with the given code and message.
func Failure(code int, message string) memos.Result[json.RawMessage] {
	return memos.Failed[json.RawMessage](&memos.APIError{Code: code, Message: message, Details: []any{}})
}

// Reply answers every call with the same result.
func Reply(result memos.Result[json.RawMessage]) HandlerFunc {
	return func(Call) (memos.Result[json.RawMessage], error) {
		return result, nil
	}
}

// NotFound answers every call with a 404 failure.
func NotFound() HandlerFunc {
	return Reply(Failure(http.StatusNotFound, "HTTP 404: Not Found"))
}
