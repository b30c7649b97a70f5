package service

import (
	"context"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
)

func ListShortcuts(ctx context.Context, transport memos.Transport, user string) (memos.Result[memos.ListShortcutsResponse], error) {
	return get[memos.ListShortcutsResponse](ctx, transport, memos.UserName(user).Collection("shortcuts"), nil)
}

func CreateShortcut(
	ctx context.Context, transport memos.Transport, user string, req memos.CreateShortcutRequest,
) (memos.Result[memos.Shortcut], error) {
	return post[memos.Shortcut](ctx, transport, memos.UserName(user).Collection("shortcuts"), req)
}

func UpdateShortcut(
	ctx context.Context, transport memos.Transport, name memos.ResourceName, update memos.ShortcutPatch, mask memos.UpdateMask,
) (memos.Result[memos.Shortcut], error) {
	return patch[memos.Shortcut](ctx, transport, name.Path(), update, mask)
}

func DeleteShortcut(ctx context.Context, transport memos.Transport, name memos.ResourceName) (memos.Result[Empty], error) {
	return remove(ctx, transport, name)
}
