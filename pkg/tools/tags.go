package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
	"github.com/flyinglimao/mcp-server-memos/pkg/memos/service"
)

// TagCount is one tag and the number of memos carrying it.
type TagCount struct {
	Tag   string
	Count int
}

type listTagsArgs struct {
	Instance string `json:"instance"`
}

func (args *listTagsArgs) normalize() error {
	return nil
}

/*
AggregateTags walks every page of the memo listing and counts tags. The
counts are sorted by descending frequency; equal counts keep the order in
which the tags were first seen. A failure on any page fails the whole
aggregation.
*/
func AggregateTags(ctx context.Context, transport memos.Transport, pageSize int) (memos.Result[[]TagCount], error) {
	var (
		counts    []TagCount
		index     = map[string]int{}
		pageToken string
	)

	for {
		result, err := service.ListMemos(ctx, transport, service.ListOptions{
			PageSize:  pageSize,
			PageToken: pageToken,
		})
		if err != nil {
			return memos.Result[[]TagCount]{}, err
		}
		if !result.OK() {
			return memos.Failed[[]TagCount](result.Failure), nil
		}

		for _, memo := range result.Value.Memos {
			for _, tag := range memo.Tags {
				if i, ok := index[tag]; ok {
					counts[i].Count++
					continue
				}

				index[tag] = len(counts)
				counts = append(counts, TagCount{Tag: tag, Count: 1})
			}
		}

		next := result.Value.NextPageToken
		if next == "" || next == pageToken {
			break
		}
		pageToken = next
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	return memos.Success(counts), nil
}

func (toolbox *Toolbox) tagTools() []Definition {
	return []Definition{
		coreTool(mcp.NewTool("list_tags",
			mcp.WithDescription("List all tags from memos."),
			mcp.WithString("instance",
				mcp.Description("Instance name. If not specified, queries all instances."),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		), toolbox.handleListTags),
	}
}

func (toolbox *Toolbox) handleListTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listTagsArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}

	return toolbox.fanOut(ctx, args.Instance, func(ctx context.Context, transport memos.Transport) (string, error) {
		result, err := AggregateTags(ctx, transport, toolbox.tagPageSize)
		if err != nil {
			return "", err
		}

		if !result.OK() || len(result.Value) == 0 {
			return "No tags found.", nil
		}

		return formatTags(result.Value), nil
	})
}

func formatTags(counts []TagCount) string {
	lines := make([]string, 0, len(counts))
	for _, count := range counts {
		lines = append(lines, fmt.Sprintf("- #%s (%d)", count.Tag, count.Count))
	}
	return strings.Join(lines, "\n")
}
