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

var roles = []string{memos.RoleHost, memos.RoleAdmin, memos.RoleUser}

type listUsersArgs struct {
	instanceArgs
	PageSize *int   `json:"pageSize"`
	Filter   string `json:"filter"`
}

func (args *listUsersArgs) normalize() error {
	if args.PageSize == nil {
		args.PageSize = intPtr(20)
	}
	return args.check().Is(valgo.Int(*args.PageSize, "pageSize").Between(1, 1000)).Error()
}

type userNameArgs struct {
	instanceArgs
	UserName string `json:"userName"`
}

func (args *userNameArgs) normalize() error {
	return args.check().Is(valgo.String(args.UserName, "userName").Not().Blank()).Error()
}

type createUserArgs struct {
	instanceArgs
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func (args *createUserArgs) normalize() error {
	if args.Role == "" {
		args.Role = memos.RoleUser
	}

	return args.check().Is(
		valgo.String(args.Username, "username").Not().Blank(),
		valgo.String(args.Password, "password").Not().Blank(),
		valgo.String(args.Role, "role").InSlice(roles),
	).Error()
}

type updateUserArgs struct {
	userNameArgs
	Email       *string `json:"email"`
	DisplayName *string `json:"displayName"`
	Role        *string `json:"role"`
	Password    *string `json:"password"`
}

func (args *updateUserArgs) normalize() error {
	validation := args.check().Is(valgo.String(args.UserName, "userName").Not().Blank())
	if args.Role != nil {
		validation.Is(valgo.String(*args.Role, "role").InSlice(roles))
	}
	return validation.Error()
}

// patch names display name in snake case, which is what the user endpoint expects.
func (args *updateUserArgs) patch() (memos.UserPatch, memos.UpdateMask) {
	var (
		update memos.UserPatch
		mask   memos.UpdateMask
	)

	if args.Email != nil {
		update.Email = args.Email
		mask = mask.Add("email")
	}
	if args.DisplayName != nil {
		update.DisplayName = args.DisplayName
		mask = mask.Add("display_name")
	}
	if args.Role != nil {
		update.Role = args.Role
		mask = mask.Add("role")
	}
	if args.Password != nil {
		update.Password = args.Password
		mask = mask.Add("password")
	}

	return update, mask
}

func (toolbox *Toolbox) userTools() []Definition {
	return []Definition{
		adminTool(mcp.NewTool("list_users",
			mcp.WithDescription("List all users (admin only)."),
			withInstance(),
			withPageSize("Number of users to return"),
			mcp.WithString("filter", mcp.Description("Filter expression")),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleListUsers),
		adminTool(mcp.NewTool("get_user",
			mcp.WithDescription("Get a specific user by ID or username."),
			withInstance(),
			mcp.WithString("userName",
				mcp.Required(),
				mcp.Description(`User name (e.g., "users/123" or "users/john")`),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleGetUser),
		adminTool(mcp.NewTool("create_user",
			mcp.WithDescription("Create a new user (admin only)."),
			withInstance(),
			mcp.WithString("username", mcp.Required(), mcp.Description("Login username")),
			mcp.WithString("password", mcp.Required(), mcp.Description("User password")),
			mcp.WithString("role",
				mcp.Description("User role"),
				mcp.Enum(roles...),
				mcp.DefaultString(memos.RoleUser),
			),
			mcp.WithString("email", mcp.Description("Email address")),
			mcp.WithString("displayName", mcp.Description("Display name")),
		), toolbox.handleCreateUser),
		adminTool(mcp.NewTool("update_user",
			mcp.WithDescription("Update a user (admin only)."),
			withInstance(),
			mcp.WithString("userName", mcp.Required(), mcp.Description("User name")),
			mcp.WithString("email", mcp.Description("New email")),
			mcp.WithString("displayName", mcp.Description("New display name")),
			mcp.WithString("role", mcp.Description("New role"), mcp.Enum(roles...)),
			mcp.WithString("password", mcp.Description("New password")),
		), toolbox.handleUpdateUser),
		adminTool(mcp.NewTool("delete_user",
			mcp.WithDescription("Delete a user (admin only)."),
			withInstance(),
			mcp.WithString("userName", mcp.Required(), mcp.Description("User name to delete")),
			mcp.WithDestructiveHintAnnotation(true),
		), toolbox.handleDeleteUser),
	}
}

func (toolbox *Toolbox) handleListUsers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listUsersArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.ListUsers(ctx, transport, service.ListOptions{
		PageSize: *args.PageSize,
		Filter:   args.Filter,
	})

	return render(result, err, adminFailure, func(resp memos.ListUsersResponse) string {
		if len(resp.Users) == 0 {
			return "No users found."
		}

		lines := make([]string, 0, len(resp.Users))
		for _, account := range resp.Users {
			email := ""
			if account.Email != "" {
				email = " | Email: " + account.Email
			}

			lines = append(lines, fmt.Sprintf(
				"- %s **%s** (%s)\n  Role: %s | State: %s%s",
				roleBadge(account.Role), account.Username, account.Name, account.Role, account.State, email,
			))
		}

		return fmt.Sprintf("## Users in %s\n%s", args.Instance, strings.Join(lines, "\n"))
	})
}

func (toolbox *Toolbox) handleGetUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args userNameArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.GetUser(ctx, transport, memos.ResourceName(args.UserName))
	return render(result, err, adminFailure, formatUser)
}

func (toolbox *Toolbox) handleCreateUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createUserArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.CreateUser(ctx, transport, memos.CreateUserRequest{
		Username:    args.Username,
		Password:    args.Password,
		Role:        args.Role,
		Email:       args.Email,
		DisplayName: args.DisplayName,
	})

	return render(result, err, adminFailure, func(account memos.User) string {
		return fmt.Sprintf("Successfully created user: %s (%s)", account.Username, account.Name)
	})
}

func (toolbox *Toolbox) handleUpdateUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateUserArgs
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

	result, err := service.UpdateUser(ctx, transport, memos.ResourceName(args.UserName), update, mask)
	return render(result, err, adminFailure, func(account memos.User) string {
		return fmt.Sprintf("Successfully updated user: %s (%s)", account.Username, account.Name)
	})
}

func (toolbox *Toolbox) handleDeleteUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args userNameArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	transport, envelope, err := toolbox.resolve(ctx, args.Instance)
	if transport == nil {
		return envelope, err
	}

	result, err := service.DeleteUser(ctx, transport, memos.ResourceName(args.UserName))
	return render(result, err, adminFailure, func(service.Empty) string {
		return "Successfully deleted user: " + args.UserName
	})
}

func formatUser(account memos.User) string {
	details := []string{
		fmt.Sprintf("# %s %s (%s)", roleBadge(account.Role), account.Username, account.Name),
		"**Role:** " + account.Role,
		"**State:** " + account.State,
		"**Created:** " + account.CreateTime,
		"**Updated:** " + account.UpdateTime,
	}

	if account.Email != "" {
		details = append(details, "**Email:** "+account.Email)
	}
	if account.DisplayName != "" {
		details = append(details, "**Display Name:** "+account.DisplayName)
	}
	if account.Description != "" {
		details = append(details, "**Description:** "+account.Description)
	}

	return strings.Join(details, "\n")
}

func roleBadge(role string) string {
	switch role {
	case memos.RoleHost:
		return "👑"
	case memos.RoleAdmin:
		return "🔧"
	case memos.RoleUser:
		return "👤"
	default:
		return ""
	}
}
