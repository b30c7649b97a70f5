package tools

import (
	"context"
	"encoding/json"

	"github.com/cohesivestack/valgo"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
	"github.com/flyinglimao/mcp-server-memos/pkg/memos/service"
)

type userSettingArgs struct {
	userArgs
	Setting string `json:"setting"`
}

func (args *userSettingArgs) normalize() error {
	return args.check().Is(valgo.String(args.Setting, "setting").Not().Blank()).Error()
}

func (args *userSettingArgs) name() memos.ResourceName {
	return memos.UserName(args.User).Child("settings", args.Setting)
}

// documentUpdate is the shape shared by tools taking a free-form JSON patch.
type documentUpdate struct {
	Data       string `json:"data"`
	UpdateMask string `json:"updateMask"`
}

/*
parse decodes the patch and its mask. A non-nil envelope means the input was
rejected and nothing should be sent.
*/
func (update documentUpdate) parse() (memos.Document, memos.UpdateMask, *mcp.CallToolResult) {
	var data memos.Document
	if err := json.Unmarshal([]byte(update.Data), &data); err != nil {
		return nil, nil, mcp.NewToolResultError("Invalid JSON data provided.")
	}

	mask := memos.ParseUpdateMask(update.UpdateMask)
	if mask.Empty() {
		return nil, nil, noFieldsToUpdate()
	}

	return data, mask, nil
}

type updateUserSettingArgs struct {
	userSettingArgs
	documentUpdate
}

func (toolbox *Toolbox) settingTools() []Definition {
	return []Definition{
		userTool(mcp.NewTool("get_user_setting",
			mcp.WithDescription("Get a specific user setting"),
			withInstance(),
			withUser(),
			mcp.WithString("setting", mcp.Required(), mcp.Description("Setting key (e.g. GENERAL, WEBHOOKS)")),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleGetUserSetting),
		userTool(mcp.NewTool("update_user_setting",
			mcp.WithDescription("Update user setting"),
			withInstance(),
			withUser(),
			mcp.WithString("setting", mcp.Required(), mcp.Description("Setting key (e.g. GENERAL, WEBHOOKS)")),
			mcp.WithString("data", mcp.Required(), mcp.Description("JSON string of setting data to update")),
			mcp.WithString("updateMask", mcp.Required(), mcp.Description("Comma-separated list of fields to update")),
		), toolbox.handleUpdateUserSetting),
		userTool(mcp.NewTool("list_user_settings",
			mcp.WithDescription("List all user settings"),
			withInstance(),
			withUser(),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleListUserSettings),
	}
}

func (toolbox *Toolbox) handleGetUserSetting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args userSettingArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.GetUserSetting(ctx, transport, args.name())
	return render(result, err, failure, dumpDocument)
}

func (toolbox *Toolbox) handleUpdateUserSetting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateUserSettingArgs
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

	result, err := service.UpdateUserSetting(ctx, transport, args.name(), data, mask)
	return render(result, err, failure, dumpDocument)
}

func (toolbox *Toolbox) handleListUserSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args userArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.ListUserSettings(ctx, transport, args.User)
	return render(result, err, failure, dumpDocument)
}

func dumpDocument(document memos.Document) string {
	return dump(document)
}
