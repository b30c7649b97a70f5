package tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cohesivestack/valgo"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
	"github.com/flyinglimao/mcp-server-memos/pkg/memos/service"
)

type uploadAttachmentArgs struct {
	instanceArgs
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Memo     string `json:"memo"`
}

func (args *uploadAttachmentArgs) normalize() error {
	return args.check().Is(
		valgo.String(args.Filename, "filename").Not().Blank(),
		valgo.String(args.Type, "type").Not().Blank(),
		valgo.String(args.Content, "content").Passing(isBase64, "{{title}} must be base64 encoded"),
	).Error()
}

func isBase64(raw string) bool {
	_, err := base64.StdEncoding.DecodeString(raw)
	return err == nil
}

type attachmentArgs struct {
	instanceArgs
	AttachmentName string `json:"attachmentName"`
}

func (args *attachmentArgs) normalize() error {
	return args.check().Is(valgo.String(args.AttachmentName, "attachmentName").Not().Blank()).Error()
}

func (toolbox *Toolbox) attachmentTools() []Definition {
	return []Definition{
		coreTool(mcp.NewTool("list_attachments",
			mcp.WithDescription("List all attachments."),
			withInstance(),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleListAttachments),
		coreTool(mcp.NewTool("upload_attachment",
			mcp.WithDescription("Upload a new attachment."),
			withInstance(),
			mcp.WithString("filename", mcp.Required(), mcp.Description("Filename")),
			mcp.WithString("type", mcp.Required(), mcp.Description(`MIME type (e.g., "image/png")`)),
			mcp.WithString("content", mcp.Required(), mcp.Description("Base64-encoded file content")),
			mcp.WithString("memo", mcp.Description(`Associate with memo (e.g., "memos/123")`)),
		), toolbox.handleUploadAttachment),
		coreTool(mcp.NewTool("delete_attachment",
			mcp.WithDescription("Delete an attachment."),
			withInstance(),
			mcp.WithString("attachmentName", mcp.Required(), mcp.Description("Attachment name")),
			mcp.WithDestructiveHintAnnotation(true),
		), toolbox.handleDeleteAttachment),
	}
}

func (toolbox *Toolbox) handleListAttachments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args instanceArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.ListAttachments(ctx, transport)
	return render(result, err, failure, func(resp memos.ListAttachmentsResponse) string {
		if len(resp.Attachments) == 0 {
			return "No attachments found."
		}

		lines := make([]string, 0, len(resp.Attachments))
		for _, attachment := range resp.Attachments {
			linked := ""
			if attachment.Memo != "" {
				linked = " → " + attachment.Memo
			}

			lines = append(lines, fmt.Sprintf(
				"- **%s** (%s, %s bytes)\n  %s%s",
				attachment.Filename, attachment.Type, attachment.Size, attachment.Name, linked,
			))
		}

		return "Attachments:\n" + strings.Join(lines, "\n")
	})
}

func (toolbox *Toolbox) handleUploadAttachment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args uploadAttachmentArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.CreateAttachment(ctx, transport, memos.CreateAttachmentRequest{
		Filename: args.Filename,
		Type:     args.Type,
		Content:  args.Content,
		Memo:     args.Memo,
	})

	return render(result, err, failure, func(attachment memos.Attachment) string {
		return "Successfully uploaded attachment: " + attachment.Name
	})
}

func (toolbox *Toolbox) handleDeleteAttachment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args attachmentArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.DeleteAttachment(ctx, transport, memos.ResourceName(args.AttachmentName))
	return render(result, err, failure, func(service.Empty) string {
		return "Successfully deleted attachment: " + args.AttachmentName
	})
}
