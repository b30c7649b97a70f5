package service

import (
	"context"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
)

func ListAttachments(ctx context.Context, transport memos.Transport) (memos.Result[memos.ListAttachmentsResponse], error) {
	return get[memos.ListAttachmentsResponse](ctx, transport, "/attachments", nil)
}

func CreateAttachment(
	ctx context.Context, transport memos.Transport, req memos.CreateAttachmentRequest,
) (memos.Result[memos.Attachment], error) {
	return post[memos.Attachment](ctx, transport, "/attachments", req)
}

func DeleteAttachment(ctx context.Context, transport memos.Transport, name memos.ResourceName) (memos.Result[Empty], error) {
	return remove(ctx, transport, name)
}
