package service

import (
	"context"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
)

// Settings and notifications are passed through as free-form documents.

func GetUserSetting(ctx context.Context, transport memos.Transport, name memos.ResourceName) (memos.Result[memos.Document], error) {
	return get[memos.Document](ctx, transport, name.Path(), nil)
}

func UpdateUserSetting(
	ctx context.Context, transport memos.Transport, name memos.ResourceName, data memos.Document, mask memos.UpdateMask,
) (memos.Result[memos.Document], error) {
	return patch[memos.Document](ctx, transport, name.Path(), data, mask)
}

func ListUserSettings(ctx context.Context, transport memos.Transport, user string) (memos.Result[memos.Document], error) {
	return get[memos.Document](ctx, transport, memos.UserName(user).Collection("settings"), nil)
}

func ListUserNotifications(ctx context.Context, transport memos.Transport, user string) (memos.Result[memos.Document], error) {
	return get[memos.Document](ctx, transport, memos.UserName(user).Collection("notifications"), nil)
}

func UpdateUserNotification(
	ctx context.Context, transport memos.Transport, name memos.ResourceName, data memos.Document, mask memos.UpdateMask,
) (memos.Result[memos.Document], error) {
	return patch[memos.Document](ctx, transport, name.Path(), data, mask)
}

func DeleteUserNotification(ctx context.Context, transport memos.Transport, name memos.ResourceName) (memos.Result[Empty], error) {
	return remove(ctx, transport, name)
}
