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

var (
	visibilities = []string{memos.VisibilityPrivate, memos.VisibilityProtected, memos.VisibilityPublic}
	memoStates   = []string{memos.StateNormal, memos.StateArchived}
)

const snippetLength = 100

type listMemosArgs struct {
	Instance string  `json:"instance"`
	Filter   string  `json:"filter"`
	PageSize *int    `json:"pageSize"`
	State    *string `json:"state"`
	OrderBy  string  `json:"orderBy"`
}

func (args *listMemosArgs) normalize() error {
	if args.PageSize == nil {
		args.PageSize = intPtr(20)
	}

	validation := valgo.Is(valgo.Int(*args.PageSize, "pageSize").Between(1, 1000))
	if args.State != nil {
		validation.Is(valgo.String(*args.State, "state").InSlice(memoStates))
	}

	return validation.Error()
}

type memoArgs struct {
	instanceArgs
	MemoName string `json:"memoName"`
}

func (args *memoArgs) normalize() error {
	return args.check().Is(valgo.String(args.MemoName, "memoName").Not().Blank()).Error()
}

type createMemoArgs struct {
	instanceArgs
	Content    string  `json:"content"`
	Visibility *string `json:"visibility"`
	Pinned     *bool   `json:"pinned"`
}

func (args *createMemoArgs) normalize() error {
	if args.Visibility == nil {
		args.Visibility = stringPtr(memos.VisibilityPrivate)
	}
	if args.Pinned == nil {
		args.Pinned = boolPtr(false)
	}

	return args.check().Is(
		valgo.String(args.Content, "content").Not().Blank(),
		valgo.String(*args.Visibility, "visibility").InSlice(visibilities),
	).Error()
}

type updateMemoArgs struct {
	memoArgs
	Content    *string `json:"content"`
	Visibility *string `json:"visibility"`
	Pinned     *bool   `json:"pinned"`
	State      *string `json:"state"`
}

func (args *updateMemoArgs) normalize() error {
	validation := args.check().Is(valgo.String(args.MemoName, "memoName").Not().Blank())

	if args.Visibility != nil {
		validation.Is(valgo.String(*args.Visibility, "visibility").InSlice(visibilities))
	}
	if args.State != nil {
		validation.Is(valgo.String(*args.State, "state").InSlice(memoStates))
	}

	return validation.Error()
}

// patch keeps only the fields the caller supplied, each named in the mask.
func (args *updateMemoArgs) patch() (memos.MemoPatch, memos.UpdateMask) {
	var (
		update memos.MemoPatch
		mask   memos.UpdateMask
	)

	if args.Content != nil {
		update.Content = args.Content
		mask = mask.Add("content")
	}
	if args.Visibility != nil {
		update.Visibility = args.Visibility
		mask = mask.Add("visibility")
	}
	if args.Pinned != nil {
		update.Pinned = args.Pinned
		mask = mask.Add("pinned")
	}
	if args.State != nil {
		update.State = args.State
		mask = mask.Add("state")
	}

	return update, mask
}

func (toolbox *Toolbox) memoTools() []Definition {
	return []Definition{
		coreTool(mcp.NewTool("list_memos",
			mcp.WithDescription("List memos from one or all connected Memos instances."),
			mcp.WithString("instance",
				mcp.Description("Instance name to query. If not specified, queries all instances."),
			),
			mcp.WithString("filter",
				mcp.Description(`CEL filter expression (e.g., "tag == \"important\"")`),
			),
			withPageSize("Number of memos to return (default: 20, max: 1000)"),
			mcp.WithString("state",
				mcp.Description("Filter by state"),
				mcp.Enum(memoStates...),
			),
			mcp.WithString("orderBy",
				mcp.Description(`Order by field (e.g., "display_time desc")`),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleListMemos),
		coreTool(mcp.NewTool("get_memo",
			mcp.WithDescription("Get a specific memo by its name."),
			withInstance(),
			mcp.WithString("memoName",
				mcp.Required(),
				mcp.Description(`Memo name (e.g., "memos/123")`),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleGetMemo),
		coreTool(mcp.NewTool("create_memo",
			mcp.WithDescription("Create a new memo."),
			withInstance(),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("Memo content in Markdown format"),
			),
			mcp.WithString("visibility",
				mcp.Description("Visibility"),
				mcp.Enum(visibilities...),
				mcp.DefaultString(memos.VisibilityPrivate),
			),
			mcp.WithBoolean("pinned",
				mcp.Description("Pin this memo"),
				mcp.DefaultBool(false),
			),
		), toolbox.handleCreateMemo),
		coreTool(mcp.NewTool("update_memo",
			mcp.WithDescription("Update an existing memo."),
			withInstance(),
			mcp.WithString("memoName",
				mcp.Required(),
				mcp.Description(`Memo name (e.g., "memos/123")`),
			),
			mcp.WithString("content", mcp.Description("New content")),
			mcp.WithString("visibility",
				mcp.Description("New visibility"),
				mcp.Enum(visibilities...),
			),
			mcp.WithBoolean("pinned", mcp.Description("Pin/unpin this memo")),
			mcp.WithString("state",
				mcp.Description("New state"),
				mcp.Enum(memoStates...),
			),
		), toolbox.handleUpdateMemo),
		coreTool(mcp.NewTool("delete_memo",
			mcp.WithDescription("Delete a memo."),
			withInstance(),
			mcp.WithString("memoName",
				mcp.Required(),
				mcp.Description(`Memo name (e.g., "memos/123")`),
			),
			mcp.WithDestructiveHintAnnotation(true),
		), toolbox.handleDeleteMemo),
	}
}

func (toolbox *Toolbox) handleListMemos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listMemosArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	opts := service.ListOptions{
		PageSize: *args.PageSize,
		Filter:   args.Filter,
		OrderBy:  args.OrderBy,
	}
	if args.State != nil {
		opts.State = *args.State
	}

	return toolbox.fanOut(ctx, args.Instance, func(ctx context.Context, transport memos.Transport) (string, error) {
		result, err := service.ListMemos(ctx, transport, opts)
		if err != nil {
			return "", err
		}

		if !result.OK() || len(result.Value.Memos) == 0 {
			return "No memos found.", nil
		}

		return formatMemoList(result.Value.Memos), nil
	})
}

func (toolbox *Toolbox) handleGetMemo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args memoArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.GetMemo(ctx, transport, memos.ResourceName(args.MemoName))
	return render(result, err, failure, formatMemo)
}

func (toolbox *Toolbox) handleCreateMemo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createMemoArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.CreateMemo(ctx, transport, memos.CreateMemoRequest{
		Content:    args.Content,
		Visibility: *args.Visibility,
		Pinned:     *args.Pinned,
	})

	return render(result, err, failure, func(memo memos.Memo) string {
		return "Successfully created memo: " + memo.Name
	})
}

func (toolbox *Toolbox) handleUpdateMemo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateMemoArgs
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

	result, err := service.UpdateMemo(ctx, transport, memos.ResourceName(args.MemoName), update, mask)
	return render(result, err, failure, func(memo memos.Memo) string {
		return "Successfully updated memo: " + memo.Name
	})
}

func (toolbox *Toolbox) handleDeleteMemo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args memoArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.DeleteMemo(ctx, transport, memos.ResourceName(args.MemoName))
	return render(result, err, failure, func(service.Empty) string {
		return "Successfully deleted memo: " + args.MemoName
	})
}

func formatMemoList(list []memos.Memo) string {
	lines := make([]string, 0, len(list))

	for _, memo := range list {
		tags := ""
		if len(memo.Tags) > 0 {
			tags = " [" + strings.Join(memo.Tags, ", ") + "]"
		}

		lines = append(lines, fmt.Sprintf("- **%s**%s%s\n  %s", memo.Name, pinMark(memo.Pinned), tags, snippet(memo.Content)))
	}

	return strings.Join(lines, "\n")
}

func formatMemo(memo memos.Memo) string {
	tags := ""
	if len(memo.Tags) > 0 {
		tags = "\n**Tags:** " + strings.Join(memo.Tags, ", ")
	}

	return fmt.Sprintf(
		"# %s%s\n**Created:** %s\n**Visibility:** %s%s\n\n---\n\n%s",
		memo.Name, pinMark(memo.Pinned), memo.CreateTime, memo.Visibility, tags, memo.Content,
	)
}

func pinMark(pinned bool) string {
	if pinned {
		return " 📌"
	}
	return ""
}

// snippet cuts content to snippetLength runes on a single line.
func snippet(content string) string {
	runes := []rune(content)
	truncated := len(runes) > snippetLength

	if truncated {
		runes = runes[:snippetLength]
	}

	out := strings.ReplaceAll(string(runes), "\n", " ")
	if truncated {
		out += "..."
	}

	return out
}

func intPtr(v int) *int {
	return &v
}

func stringPtr(v string) *string {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
