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

type createTokenArgs struct {
	userArgs
	Description string `json:"description"`
	ExpiresAt   string `json:"expiresAt"`
}

type tokenArgs struct {
	instanceArgs
	PatName string `json:"patName"`
}

func (args *tokenArgs) normalize() error {
	return args.check().Is(valgo.String(args.PatName, "patName").Not().Blank()).Error()
}

func (toolbox *Toolbox) tokenTools() []Definition {
	return []Definition{
		userTool(mcp.NewTool("list_personal_access_tokens",
			mcp.WithDescription("List all personal access tokens for a user."),
			withInstance(),
			withUser(),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleListTokens),
		userTool(mcp.NewTool("create_personal_access_token",
			mcp.WithDescription("Create a new personal access token."),
			withInstance(),
			withUser(),
			mcp.WithString("description", mcp.Description("Token description")),
			mcp.WithString("expiresAt",
				mcp.Description(`Expiration time (ISO 8601 format, e.g., "2024-12-31T23:59:59Z")`),
			),
		), toolbox.handleCreateToken),
		userTool(mcp.NewTool("delete_personal_access_token",
			mcp.WithDescription("Delete a personal access token."),
			withInstance(),
			mcp.WithString("patName",
				mcp.Required(),
				mcp.Description(`The resource name of the PAT (e.g., "users/me/personalAccessTokens/123")`),
			),
			mcp.WithDestructiveHintAnnotation(true),
		), toolbox.handleDeleteToken),
	}
}

func (toolbox *Toolbox) handleListTokens(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args userArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.ListPersonalAccessTokens(ctx, transport, args.User)
	return render(result, err, failure, func(resp memos.ListPersonalAccessTokensResponse) string {
		if len(resp.PersonalAccessTokens) == 0 {
			return "No personal access tokens found."
		}

		lines := make([]string, 0, len(resp.PersonalAccessTokens))
		for _, token := range resp.PersonalAccessTokens {
			lines = append(lines, fmt.Sprintf(
				"- **%s**\n  Name: `%s`\n  Created: %s\n  Expires: %s",
				orDefault(token.Description, "No description"), token.Name, token.CreatedAt, orDefault(token.ExpiresAt, "Never"),
			))
		}

		return "Personal Access Tokens:\n" + strings.Join(lines, "\n")
	})
}

func (toolbox *Toolbox) handleCreateToken(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createTokenArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.CreatePersonalAccessToken(ctx, transport, args.User, memos.CreatePersonalAccessTokenRequest{
		Description: args.Description,
		ExpiresAt:   args.ExpiresAt,
	})

	return render(result, err, failure, func(resp memos.CreatePersonalAccessTokenResponse) string {
		return fmt.Sprintf(
			"Successfully created personal access token.\n\n**Token:** `%s`\n\n"+
				"⚠️ Make sure to copy your personal access token now. You won't be able to see it again!",
			resp.Token,
		)
	})
}

func (toolbox *Toolbox) handleDeleteToken(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args tokenArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.DeletePersonalAccessToken(ctx, transport, memos.ResourceName(args.PatName))
	return render(result, err, failure, func(service.Empty) string {
		return "Successfully deleted personal access token: " + args.PatName
	})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
