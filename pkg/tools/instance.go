package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cohesivestack/valgo"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
	"github.com/flyinglimao/mcp-server-memos/pkg/memos/service"
)

type instanceSettingArgs struct {
	instanceArgs
	SettingName string `json:"settingName"`
}

func (args *instanceSettingArgs) normalize() error {
	return args.check().Is(valgo.String(args.SettingName, "settingName").Not().Blank()).Error()
}

type updateInstanceSettingArgs struct {
	instanceSettingArgs
	Value      string `json:"value"`
	UpdateMask string `json:"updateMask"`
}

/*
parse decodes the new value. Without an explicit mask, every top-level key
of the value except "name" is considered touched, in sorted order.
*/
func (args *updateInstanceSettingArgs) parse() (memos.Document, memos.UpdateMask, *mcp.CallToolResult) {
	var value memos.Document
	if err := json.Unmarshal([]byte(args.Value), &value); err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("Invalid JSON value: %v", err))
	}

	mask := memos.ParseUpdateMask(args.UpdateMask)

	if args.UpdateMask == "" {
		if object, ok := value.(map[string]any); ok {
			keys := make([]string, 0, len(object))
			for key := range object {
				if key != "name" {
					keys = append(keys, key)
				}
			}
			sort.Strings(keys)

			for _, key := range keys {
				mask = mask.Add(key)
			}
		}
	}

	if mask.Empty() {
		return nil, nil, noFieldsToUpdate()
	}

	return value, mask, nil
}

func (toolbox *Toolbox) instanceAdminTools() []Definition {
	return []Definition{
		adminTool(mcp.NewTool("get_instance_profile",
			mcp.WithDescription("Get instance profile information (version, owner, mode)."),
			withInstance(),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleGetInstanceProfile),
		adminTool(mcp.NewTool("get_instance_setting",
			mcp.WithDescription("Get a specific instance setting."),
			withInstance(),
			mcp.WithString("settingName", mcp.Required(), mcp.Description("Setting name")),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleGetInstanceSetting),
		adminTool(mcp.NewTool("update_instance_setting",
			mcp.WithDescription("Update an instance setting (admin only)."),
			withInstance(),
			mcp.WithString("settingName", mcp.Required(), mcp.Description("Setting name")),
			mcp.WithString("value", mcp.Required(), mcp.Description("New value (JSON string)")),
			mcp.WithString("updateMask",
				mcp.Description("Comma-separated list of fields to update. Defaults to the top-level keys of value."),
			),
		), toolbox.handleUpdateInstanceSetting),
	}
}

func (toolbox *Toolbox) handleGetInstanceProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args instanceArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.GetInstanceProfile(ctx, transport)
	return render(result, err, adminFailure, func(profile memos.InstanceProfile) string {
		return fmt.Sprintf(
			"# Instance Profile\n\n- **Version:** %s\n- **Mode:** %s\n- **Owner:** %s\n- **URL:** %s",
			profile.Version, profile.Mode, profile.Owner, profile.InstanceURL,
		)
	})
}

func (toolbox *Toolbox) handleGetInstanceSetting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args instanceSettingArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.GetInstanceSetting(ctx, transport, args.SettingName)
	return render(result, err, adminFailure, dumpDocument)
}

func (toolbox *Toolbox) handleUpdateInstanceSetting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateInstanceSettingArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	value, mask, rejected := args.parse()
	if rejected != nil {
		return rejected, nil
	}

	result, err := service.UpdateInstanceSetting(ctx, transport, args.SettingName, value, mask)
	return render(result, err, adminFailure, dumpDocument)
}
