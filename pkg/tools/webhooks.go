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

type createWebhookArgs struct {
	userArgs
	URL         string `json:"url"`
	DisplayName string `json:"displayName"`
}

func (args *createWebhookArgs) normalize() error {
	return args.check().Is(
		valgo.String(args.URL, "url").Passing(isAbsoluteURL, "{{title}} must be an absolute URL"),
	).Error()
}

type webhookArgs struct {
	instanceArgs
	WebhookName string `json:"webhookName"`
}

func (args *webhookArgs) normalize() error {
	return args.check().Is(valgo.String(args.WebhookName, "webhookName").Not().Blank()).Error()
}

type updateWebhookArgs struct {
	webhookArgs
	URL         *string `json:"url"`
	DisplayName *string `json:"displayName"`
}

func (args *updateWebhookArgs) normalize() error {
	validation := args.check().Is(valgo.String(args.WebhookName, "webhookName").Not().Blank())
	if args.URL != nil {
		validation.Is(valgo.String(*args.URL, "url").Passing(isAbsoluteURL, "{{title}} must be an absolute URL"))
	}
	return validation.Error()
}

func (args *updateWebhookArgs) patch() (memos.WebhookPatch, memos.UpdateMask) {
	var (
		update memos.WebhookPatch
		mask   memos.UpdateMask
	)

	if args.URL != nil {
		update.URL = args.URL
		mask = mask.Add("url")
	}
	if args.DisplayName != nil {
		update.DisplayName = args.DisplayName
		mask = mask.Add("displayName")
	}

	return update, mask
}

func (toolbox *Toolbox) webhookTools() []Definition {
	return []Definition{
		userTool(mcp.NewTool("list_webhooks",
			mcp.WithDescription("List all webhooks for a user."),
			withInstance(),
			withUser(),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleListWebhooks),
		userTool(mcp.NewTool("create_webhook",
			mcp.WithDescription("Create a new webhook."),
			withInstance(),
			withUser(),
			mcp.WithString("url", mcp.Required(), mcp.Description("Webhook URL")),
			mcp.WithString("displayName", mcp.Description("Display name for the webhook")),
		), toolbox.handleCreateWebhook),
		userTool(mcp.NewTool("update_webhook",
			mcp.WithDescription("Update an existing webhook."),
			withInstance(),
			mcp.WithString("webhookName",
				mcp.Required(),
				mcp.Description(`Webhook name (e.g., "users/me/webhooks/123")`),
			),
			mcp.WithString("url", mcp.Description("New webhook URL")),
			mcp.WithString("displayName", mcp.Description("New display name")),
		), toolbox.handleUpdateWebhook),
		userTool(mcp.NewTool("delete_webhook",
			mcp.WithDescription("Delete a webhook."),
			withInstance(),
			mcp.WithString("webhookName",
				mcp.Required(),
				mcp.Description(`Webhook name (e.g., "users/me/webhooks/123")`),
			),
			mcp.WithDestructiveHintAnnotation(true),
		), toolbox.handleDeleteWebhook),
	}
}

func (toolbox *Toolbox) handleListWebhooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args userArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.ListUserWebhooks(ctx, transport, args.User)
	return render(result, err, failure, func(resp memos.ListWebhooksResponse) string {
		if len(resp.Webhooks) == 0 {
			return "No webhooks found."
		}

		lines := make([]string, 0, len(resp.Webhooks))
		for _, webhook := range resp.Webhooks {
			lines = append(lines, fmt.Sprintf(
				"- **%s**\n  Name: `%s`\n  URL: %s",
				orDefault(webhook.DisplayName, "No display name"), webhook.Name, webhook.URL,
			))
		}

		return "Webhooks:\n" + strings.Join(lines, "\n")
	})
}

func (toolbox *Toolbox) handleCreateWebhook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createWebhookArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.CreateUserWebhook(ctx, transport, args.User, memos.CreateWebhookRequest{
		URL:         args.URL,
		DisplayName: args.DisplayName,
	})

	return render(result, err, failure, func(webhook memos.Webhook) string {
		return "Successfully created webhook: " + webhook.Name
	})
}

func (toolbox *Toolbox) handleUpdateWebhook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateWebhookArgs
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

	result, err := service.UpdateUserWebhook(ctx, transport, memos.ResourceName(args.WebhookName), update, mask)
	return render(result, err, failure, func(webhook memos.Webhook) string {
		return "Successfully updated webhook: " + webhook.Name
	})
}

func (toolbox *Toolbox) handleDeleteWebhook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args webhookArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.DeleteUserWebhook(ctx, transport, memos.ResourceName(args.WebhookName))
	return render(result, err, failure, func(service.Empty) string {
		return "Successfully deleted webhook: " + args.WebhookName
	})
}
