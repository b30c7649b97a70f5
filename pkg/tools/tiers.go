package tools

import (
	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tier groups tools that are enabled together.
type Tier int

const (
	// TierCore is always registered.
	TierCore Tier = iota + 1
	// TierUser holds per-user configuration (tokens, webhooks, settings).
	TierUser
	// TierAdmin holds instance administration.
	TierAdmin
)

func (tier Tier) String() string {
	switch tier {
	case TierCore:
		return "core"
	case TierUser:
		return "user"
	case TierAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Tiers records which opt-in groups were selected at startup.
type Tiers struct {
	User  bool
	Admin bool
}

// FullTiers enables every group.
func FullTiers() Tiers {
	return Tiers{User: true, Admin: true}
}

// Enabled reports whether tools of the given tier should be reachable.
func (tiers Tiers) Enabled(tier Tier) bool {
	switch tier {
	case TierCore:
		return true
	case TierUser:
		return tiers.User
	case TierAdmin:
		return tiers.Admin
	default:
		return false
	}
}

// Definition binds a tool schema to its tier and handler.
type Definition struct {
	Tier    Tier
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

/*
Definitions is the full catalogue, each tool declared exactly once with its
tier.
*/
func (toolbox *Toolbox) Definitions() []Definition {
	var definitions []Definition

	definitions = append(definitions, toolbox.instanceTools()...)
	definitions = append(definitions, toolbox.memoTools()...)
	definitions = append(definitions, toolbox.tagTools()...)
	definitions = append(definitions, toolbox.shortcutTools()...)
	definitions = append(definitions, toolbox.attachmentTools()...)
	definitions = append(definitions, toolbox.tokenTools()...)
	definitions = append(definitions, toolbox.webhookTools()...)
	definitions = append(definitions, toolbox.settingTools()...)
	definitions = append(definitions, toolbox.notificationTools()...)
	definitions = append(definitions, toolbox.userTools()...)
	definitions = append(definitions, toolbox.instanceAdminTools()...)
	definitions = append(definitions, toolbox.activityTools()...)

	return definitions
}

/*
Register adds the tools of every enabled tier to srv. Tools of a disabled
tier are never added, so calling one fails exactly like calling a name that
does not exist.
*/
func Register(srv *server.MCPServer, toolbox *Toolbox, tiers Tiers) int {
	count := 0

	for _, definition := range toolbox.Definitions() {
		if !tiers.Enabled(definition.Tier) {
			continue
		}

		srv.AddTool(definition.Tool, definition.Handler)
		count++
	}

	log.Info("registered tools", "count", count, "user", tiers.User, "admin", tiers.Admin)
	return count
}

func coreTool(tool mcp.Tool, handler server.ToolHandlerFunc) Definition {
	return Definition{Tier: TierCore, Tool: tool, Handler: handler}
}

func userTool(tool mcp.Tool, handler server.ToolHandlerFunc) Definition {
	return Definition{Tier: TierUser, Tool: tool, Handler: handler}
}

func adminTool(tool mcp.Tool, handler server.ToolHandlerFunc) Definition {
	return Definition{Tier: TierAdmin, Tool: tool, Handler: handler}
}

// Shared argument schemas.

func withInstance() mcp.ToolOption {
	return mcp.WithString("instance",
		mcp.Required(),
		mcp.Description("Instance name"),
	)
}

func withUser() mcp.ToolOption {
	return mcp.WithString("user",
		mcp.Description(`User ID or "me" for current user`),
		mcp.DefaultString("me"),
	)
}

func withPageSize(description string) mcp.ToolOption {
	return mcp.WithNumber("pageSize",
		mcp.Description(description),
		mcp.DefaultNumber(20),
		mcp.Min(1),
		mcp.Max(1000),
	)
}
