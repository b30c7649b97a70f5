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

type createShortcutArgs struct {
	userArgs
	Title  string `json:"title"`
	Filter string `json:"filter"`
}

func (args *createShortcutArgs) normalize() error {
	return args.check().Is(
		valgo.String(args.Title, "title").Not().Blank(),
		valgo.String(args.Filter, "filter").Not().Blank(),
	).Error()
}

type shortcutArgs struct {
	instanceArgs
	ShortcutName string `json:"shortcutName"`
}

func (args *shortcutArgs) normalize() error {
	return args.check().Is(valgo.String(args.ShortcutName, "shortcutName").Not().Blank()).Error()
}

type updateShortcutArgs struct {
	shortcutArgs
	Title  *string `json:"title"`
	Filter *string `json:"filter"`
}

func (args *updateShortcutArgs) patch() (memos.ShortcutPatch, memos.UpdateMask) {
	var (
		update memos.ShortcutPatch
		mask   memos.UpdateMask
	)

	if args.Title != nil {
		update.Title = args.Title
		mask = mask.Add("title")
	}
	if args.Filter != nil {
		update.Filter = args.Filter
		mask = mask.Add("filter")
	}

	return update, mask
}

func (toolbox *Toolbox) shortcutTools() []Definition {
	return []Definition{
		coreTool(mcp.NewTool("list_shortcuts",
			mcp.WithDescription("List all shortcuts for a user."),
			withInstance(),
			withUser(),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleListShortcuts),
		coreTool(mcp.NewTool("create_shortcut",
			mcp.WithDescription("Create a new shortcut (saved filter)."),
			withInstance(),
			withUser(),
			mcp.WithString("title", mcp.Required(), mcp.Description("Shortcut title")),
			mcp.WithString("filter", mcp.Required(), mcp.Description("CEL filter expression")),
		), toolbox.handleCreateShortcut),
		coreTool(mcp.NewTool("update_shortcut",
			mcp.WithDescription("Update an existing shortcut."),
			withInstance(),
			mcp.WithString("shortcutName",
				mcp.Required(),
				mcp.Description(`Shortcut name (e.g., "users/me/shortcuts/123")`),
			),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("filter", mcp.Description("New filter expression")),
		), toolbox.handleUpdateShortcut),
		coreTool(mcp.NewTool("delete_shortcut",
			mcp.WithDescription("Delete a shortcut."),
			withInstance(),
			mcp.WithString("shortcutName", mcp.Required(), mcp.Description("Shortcut name")),
			mcp.WithDestructiveHintAnnotation(true),
		), toolbox.handleDeleteShortcut),
	}
}

func (toolbox *Toolbox) handleListShortcuts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args userArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.ListShortcuts(ctx, transport, args.User)
	return render(result, err, failure, func(resp memos.ListShortcutsResponse) string {
		if len(resp.Shortcuts) == 0 {
			return "No shortcuts found."
		}

		lines := make([]string, 0, len(resp.Shortcuts))
		for _, shortcut := range resp.Shortcuts {
			lines = append(lines, fmt.Sprintf("- **%s** (%s)\n  Filter: `%s`", shortcut.Title, shortcut.Name, shortcut.Filter))
		}

		return "Shortcuts:\n" + strings.Join(lines, "\n")
	})
}

func (toolbox *Toolbox) handleCreateShortcut(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createShortcutArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.CreateShortcut(ctx, transport, args.User, memos.CreateShortcutRequest{
		Title:  args.Title,
		Filter: args.Filter,
	})

	return render(result, err, failure, func(shortcut memos.Shortcut) string {
		return "Successfully created shortcut: " + shortcut.Name
	})
}

func (toolbox *Toolbox) handleUpdateShortcut(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateShortcutArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	update, mask := args.patch()
	if mask.Empty() {
		return noFieldsToUpdate(), nil
	}

	result, err := service.UpdateShortcut(ctx, transport, memos.ResourceName(args.ShortcutName), update, mask)
	return render(result, err, failure, func(shortcut memos.Shortcut) string {
		return "Successfully updated shortcut: " + shortcut.Name
	})
}

func (toolbox *Toolbox) handleDeleteShortcut(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args shortcutArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.DeleteShortcut(ctx, transport, memos.ResourceName(args.ShortcutName))
	return render(result, err, failure, func(service.Empty) string {
		return "Successfully deleted shortcut: " + args.ShortcutName
	})
}
