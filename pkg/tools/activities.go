package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cohesivestack/valgo"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
	"github.com/flyinglimao/mcp-server-memos/pkg/memos/service"
)

type listActivitiesArgs struct {
	instanceArgs
	PageSize *int `json:"pageSize"`
}

func (args *listActivitiesArgs) normalize() error {
	if args.PageSize == nil {
		args.PageSize = intPtr(20)
	}
	return args.check().Is(valgo.Int(*args.PageSize, "pageSize").Between(1, 1000)).Error()
}

type activityArgs struct {
	instanceArgs
	ActivityName string `json:"activityName"`
}

func (args *activityArgs) normalize() error {
	return args.check().Is(valgo.String(args.ActivityName, "activityName").Not().Blank()).Error()
}

func (toolbox *Toolbox) activityTools() []Definition {
	return []Definition{
		adminTool(mcp.NewTool("list_activities",
			mcp.WithDescription("List recent activities."),
			withInstance(),
			withPageSize("Number of activities to return"),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleListActivities),
		adminTool(mcp.NewTool("get_activity",
			mcp.WithDescription("Get a specific activity by name."),
			withInstance(),
			mcp.WithString("activityName",
				mcp.Required(),
				mcp.Description(`Activity name (e.g., "activities/123")`),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleGetActivity),
	}
}

func (toolbox *Toolbox) handleListActivities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listActivitiesArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.ListActivities(ctx, transport, service.ListOptions{PageSize: *args.PageSize})
	return render(result, err, adminFailure, func(resp memos.ListActivitiesResponse) string {
		if len(resp.Activities) == 0 {
			return "No activities found."
		}

		lines := make([]string, 0, len(resp.Activities))
		for _, activity := range resp.Activities {
			lines = append(lines, fmt.Sprintf(
				"- **%s** by %s at %s\n  %s",
				activity.Type, activity.Creator, activity.CreateTime, activity.Name,
			))
		}

		return "Activities:\n" + strings.Join(lines, "\n")
	})
}

func (toolbox *Toolbox) handleGetActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args activityArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.GetActivity(ctx, transport, memos.ResourceName(args.ActivityName))
	return render(result, err, adminFailure, func(activity memos.Activity) string {
		return dump(activity)
	})
}
