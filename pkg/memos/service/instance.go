package service

import (
	"context"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
)

func GetInstanceProfile(ctx context.Context, transport memos.Transport) (memos.Result[memos.InstanceProfile], error) {
	return get[memos.InstanceProfile](ctx, transport, "/instance/profile", nil)
}

// InstanceSettingName builds "instance/settings/<setting>".
func InstanceSettingName(setting string) memos.ResourceName {
	return memos.FormatResourceName("instance/settings/{setting}", setting)
}

func GetInstanceSetting(ctx context.Context, transport memos.Transport, setting string) (memos.Result[memos.Document], error) {
	return get[memos.Document](ctx, transport, InstanceSettingName(setting).Path(), nil)
}

func UpdateInstanceSetting(
	ctx context.Context, transport memos.Transport, setting string, data memos.Document, mask memos.UpdateMask,
) (memos.Result[memos.Document], error) {
	return patch[memos.Document](ctx, transport, InstanceSettingName(setting).Path(), data, mask)
}

func ListActivities(ctx context.Context, transport memos.Transport, opts ListOptions) (memos.Result[memos.ListActivitiesResponse], error) {
	return get[memos.ListActivitiesResponse](ctx, transport, "/activities", opts.query())
}

func GetActivity(ctx context.Context, transport memos.Transport, name memos.ResourceName) (memos.Result[memos.Activity], error) {
	return get[memos.Activity](ctx, transport, name.Path(), nil)
}
