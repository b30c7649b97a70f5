package service

import (
	"context"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
)

func ListUsers(ctx context.Context, transport memos.Transport, opts ListOptions) (memos.Result[memos.ListUsersResponse], error) {
	return get[memos.ListUsersResponse](ctx, transport, "/users", opts.query())
}

func GetUser(ctx context.Context, transport memos.Transport, name memos.ResourceName) (memos.Result[memos.User], error) {
	return get[memos.User](ctx, transport, name.Path(), nil)
}

func CreateUser(ctx context.Context, transport memos.Transport, req memos.CreateUserRequest) (memos.Result[memos.User], error) {
	return post[memos.User](ctx, transport, "/users", req)
}

func UpdateUser(
	ctx context.Context, transport memos.Transport, name memos.ResourceName, update memos.UserPatch, mask memos.UpdateMask,
) (memos.Result[memos.User], error) {
	return patch[memos.User](ctx, transport, name.Path(), update, mask)
}

func DeleteUser(ctx context.Context, transport memos.Transport, name memos.ResourceName) (memos.Result[Empty], error) {
	return remove(ctx, transport, name)
}

func ListPersonalAccessTokens(
	ctx context.Context, transport memos.Transport, user string,
) (memos.Result[memos.ListPersonalAccessTokensResponse], error) {
	return get[memos.ListPersonalAccessTokensResponse](
		ctx, transport, memos.UserName(user).Collection("personalAccessTokens"), nil,
	)
}

func CreatePersonalAccessToken(
	ctx context.Context, transport memos.Transport, user string, req memos.CreatePersonalAccessTokenRequest,
) (memos.Result[memos.CreatePersonalAccessTokenResponse], error) {
	return post[memos.CreatePersonalAccessTokenResponse](
		ctx, transport, memos.UserName(user).Collection("personalAccessTokens"), req,
	)
}

func DeletePersonalAccessToken(ctx context.Context, transport memos.Transport, name memos.ResourceName) (memos.Result[Empty], error) {
	return remove(ctx, transport, name)
}

func ListUserWebhooks(ctx context.Context, transport memos.Transport, user string) (memos.Result[memos.ListWebhooksResponse], error) {
	return get[memos.ListWebhooksResponse](ctx, transport, memos.UserName(user).Collection("webhooks"), nil)
}

func CreateUserWebhook(
	ctx context.Context, transport memos.Transport, user string, req memos.CreateWebhookRequest,
) (memos.Result[memos.Webhook], error) {
	return post[memos.Webhook](ctx, transport, memos.UserName(user).Collection("webhooks"), req)
}

func UpdateUserWebhook(
	ctx context.Context, transport memos.Transport, name memos.ResourceName, update memos.WebhookPatch, mask memos.UpdateMask,
) (memos.Result[memos.Webhook], error) {
	return patch[memos.Webhook](ctx, transport, name.Path(), update, mask)
}

func DeleteUserWebhook(ctx context.Context, transport memos.Transport, name memos.ResourceName) (memos.Result[Empty], error) {
	return remove(ctx, transport, name)
}
