package tools

import (
	"context"

	"github.com/cohesivestack/valgo"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
	"github.com/flyinglimao/mcp-server-memos/pkg/memos/service"
)

type notificationArgs struct {
	instanceArgs
	Notification string `json:"notification"`
}

func (args *notificationArgs) normalize() error {
	return args.check().Is(valgo.String(args.Notification, "notification").Not().Blank()).Error()
}

type updateNotificationArgs struct {
	notificationArgs
	documentUpdate
}

func (toolbox *Toolbox) notificationTools() []Definition {
	return []Definition{
		userTool(mcp.NewTool("list_notifications",
			mcp.WithDescription("List all notifications for a user"),
			withInstance(),
			withUser(),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleListNotifications),
		userTool(mcp.NewTool("update_notification",
			mcp.WithDescription("Update a notification (e.g., mark as read)"),
			withInstance(),
			mcp.WithString("notification",
				mcp.Required(),
				mcp.Description(`Notification name (e.g., "users/me/notifications/123")`),
			),
			mcp.WithString("data", mcp.Required(), mcp.Description("JSON string of notification data to update")),
			mcp.WithString("updateMask", mcp.Required(), mcp.Description("Comma-separated list of fields to update")),
		), toolbox.handleUpdateNotification),
		userTool(mcp.NewTool("delete_notification",
			mcp.WithDescription("Delete a notification"),
			withInstance(),
			mcp.WithString("notification",
				mcp.Required(),
				mcp.Description(`Notification name (e.g., "users/me/notifications/123")`),
			),
			mcp.WithDestructiveHintAnnotation(true),
		), toolbox.handleDeleteNotification),
	}
}

func (toolbox *Toolbox) handleListNotifications(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args userArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.ListUserNotifications(ctx, transport, args.User)
	return render(result, err, failure, dumpDocument)
}

func (toolbox *Toolbox) handleUpdateNotification(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateNotificationArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	data, mask, rejected := args.parse()
	if rejected != nil {
		return rejected, nil
	}

	result, err := service.UpdateUserNotification(ctx, transport, memos.ResourceName(args.Notification), data, mask)
	return render(result, err, failure, dumpDocument)
}

func (toolbox *Toolbox) handleDeleteNotification(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args notificationArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.DeleteUserNotification(ctx, transport, memos.ResourceName(args.Notification))
	return render(result, err, failure, func(service.Empty) string {
		return "Successfully deleted notification: " + args.Notification
	})
}
