package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cohesivestack/valgo"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flyinglimao/mcp-server-memos/pkg/registry"
)

type connectArgs struct {
	Name   string `json:"name"`
	Host   string `json:"host"`
	APIKey string `json:"apiKey"`
}

func (args *connectArgs) normalize() error {
	return valgo.Is(
		valgo.String(args.Name, "name").Not().Blank(),
		valgo.String(args.Host, "host").Passing(isAbsoluteURL, "{{title}} must be an absolute URL"),
		valgo.String(args.APIKey, "apiKey").Not().Blank(),
	).Error()
}

type disconnectArgs struct {
	Name string `json:"name"`
}

func (args *disconnectArgs) normalize() error {
	return valgo.Is(valgo.String(args.Name, "name").Not().Blank()).Error()
}

func isAbsoluteURL(raw string) bool {
	parsed, err := url.Parse(raw)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

func (toolbox *Toolbox) instanceTools() []Definition {
	return []Definition{
		coreTool(mcp.NewTool("connect_instance",
			mcp.WithDescription("Connect to a Memos instance. Saves the connection info for future use."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description(`Friendly name for this instance (e.g., "personal", "work")`),
			),
			mcp.WithString("host",
				mcp.Required(),
				mcp.Description("The URL of your Memos instance (e.g., https://memos.example.com)"),
			),
			mcp.WithString("apiKey",
				mcp.Required(),
				mcp.Description("Your API access token from Memos settings"),
			),
		), toolbox.handleConnectInstance),
		coreTool(mcp.NewTool("disconnect_instance",
			mcp.WithDescription("Remove a connected Memos instance."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("The name of the instance to disconnect"),
			),
			mcp.WithDestructiveHintAnnotation(true),
		), toolbox.handleDisconnectInstance),
		coreTool(mcp.NewTool("list_instances",
			mcp.WithDescription("List all connected Memos instances."),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleListInstances),
	}
}

func (toolbox *Toolbox) handleConnectInstance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args connectArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	if err := toolbox.store.Upsert(ctx, registry.Instance{
		Name:   args.Name,
		Host:   args.Host,
		APIKey: args.APIKey,
	}); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Successfully connected to Memos instance \"%s\" at %s.\nConfiguration saved to: %s",
		args.Name, args.Host, toolbox.store.Path(),
	)), nil
}

func (toolbox *Toolbox) handleDisconnectInstance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args disconnectArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	removed, err := toolbox.store.Remove(ctx, args.Name)
	if err != nil {
		return nil, err
	}

	if !removed {
		return instanceNotFound(args.Name), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully disconnected from Memos instance \"%s\".", args.Name)), nil
}

func (toolbox *Toolbox) handleListInstances(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instances, err := toolbox.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(instances) == 0 {
		return mcp.NewToolResultText(strings.Join([]string{
			"No Memos instances connected.",
			"",
			"To connect an instance, use the connect_instance tool with:",
			"- name: A friendly name for the instance",
			"- host: The URL of your Memos instance",
			"- apiKey: Your API access token (get it from Settings → My Account → Access Tokens)",
		}, "\n")), nil
	}

	lines := make([]string, 0, len(instances))
	for _, instance := range instances {
		lines = append(lines, fmt.Sprintf("- %s: %s", instance.Name, instance.Host))
	}

	return mcp.NewToolResultText("Connected Memos instances:\n" + strings.Join(lines, "\n")), nil
}
