package service

import (
	"context"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
)

func ListMemos(ctx context.Context, transport memos.Transport, opts ListOptions) (memos.Result[memos.ListMemosResponse], error) {
	return get[memos.ListMemosResponse](ctx, transport, "/memos", opts.query())
}

func GetMemo(ctx context.Context, transport memos.Transport, name memos.ResourceName) (memos.Result[memos.Memo], error) {
	return get[memos.Memo](ctx, transport, name.Path(), nil)
}

func CreateMemo(ctx context.Context, transport memos.Transport, req memos.CreateMemoRequest) (memos.Result[memos.Memo], error) {
	return post[memos.Memo](ctx, transport, "/memos", req)
}

func UpdateMemo(
	ctx context.Context, transport memos.Transport, name memos.ResourceName, update memos.MemoPatch, mask memos.UpdateMask,
) (memos.Result[memos.Memo], error) {
	return patch[memos.Memo](ctx, transport, name.Path(), update, mask)
}

func DeleteMemo(ctx context.Context, transport memos.Transport, name memos.ResourceName) (memos.Result[Empty], error) {
	return remove(ctx, transport, name)
}
