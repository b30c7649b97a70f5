/*
Package service maps Memos resources onto transport calls. Each function
knows one endpoint's URL shape and update-mask convention and nothing else:
no pagination loops, no validation beyond building the request.
*/
package service

import (
	"context"
	"net/http"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
)

/*
ListOptions is the optional filter bundle shared by listing endpoints.
Zero values are left out of the query string.
*/
type ListOptions struct {
	PageSize    int
	PageToken   string
	Filter      string
	OrderBy     string
	State       string
	ShowDeleted bool
}

func (opts ListOptions) query() memos.Query {
	query := memos.Query{}

	if opts.PageSize > 0 {
		query["pageSize"] = opts.PageSize
	}
	if opts.PageToken != "" {
		query["pageToken"] = opts.PageToken
	}
	if opts.Filter != "" {
		query["filter"] = opts.Filter
	}
	if opts.OrderBy != "" {
		query["orderBy"] = opts.OrderBy
	}
	if opts.State != "" {
		query["state"] = opts.State
	}
	if opts.ShowDeleted {
		query["showDeleted"] = true
	}

	return query
}

// Empty is the decoded payload of endpoints that answer with nothing useful.
type Empty struct{}

func get[T any](ctx context.Context, transport memos.Transport, path string, query memos.Query) (memos.Result[T], error) {
	return memos.Do[T](ctx, transport, http.MethodGet, path, memos.RequestOptions{Query: query})
}

func post[T any](ctx context.Context, transport memos.Transport, path string, body any) (memos.Result[T], error) {
	return memos.Do[T](ctx, transport, http.MethodPost, path, memos.RequestOptions{Body: body})
}

// patch refuses to send an update without fields.
func patch[T any](
	ctx context.Context, transport memos.Transport, path string, body any, mask memos.UpdateMask,
) (memos.Result[T], error) {
	if mask.Empty() {
		return memos.Result[T]{}, memos.ErrEmptyUpdateMask
	}

	return memos.Do[T](ctx, transport, http.MethodPatch, path, memos.RequestOptions{
		Body:  body,
		Query: memos.Query{"updateMask": mask.String()},
	})
}

func remove(ctx context.Context, transport memos.Transport, name memos.ResourceName) (memos.Result[Empty], error) {
	return memos.Do[Empty](ctx, transport, http.MethodDelete, name.Path(), memos.RequestOptions{})
}
