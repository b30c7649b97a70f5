package tools

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
	"github.com/flyinglimao/mcp-server-memos/pkg/registry"
)

/*
contribution produces one instance's section body. Backend failures must
already be folded into the body; only faults are returned as err.
*/
type contribution func(ctx context.Context, transport memos.Transport) (string, error)

// targets picks the named instance, or every registered one when alias is empty.
func (toolbox *Toolbox) targets(
	ctx context.Context, alias string,
) ([]registry.Instance, *mcp.CallToolResult, error) {
	if alias != "" {
		instance, ok, err := toolbox.store.Get(ctx, alias)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, instanceNotFound(alias), nil
		}
		return []registry.Instance{instance}, nil, nil
	}

	instances, err := toolbox.store.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	if len(instances) == 0 {
		return nil, mcp.NewToolResultError("No instances connected. Use connect_instance first."), nil
	}

	return instances, nil, nil
}

/*
fanOut runs each against the selected instances and renders one
"## <alias>" section per instance, in registry order. One instance failing
at the backend never hides the others; a fault anywhere aborts the call.
*/
func (toolbox *Toolbox) fanOut(ctx context.Context, alias string, each contribution) (*mcp.CallToolResult, error) {
	instances, envelope, err := toolbox.targets(ctx, alias)
	if err != nil || envelope != nil {
		return envelope, err
	}

	sections := make([]string, len(instances))

	collect := func(ctx context.Context, i int) error {
		body, err := each(ctx, toolbox.connect(instances[i]))
		if err != nil {
			return err
		}

		sections[i] = "## " + instances[i].Name + "\n" + body
		return nil
	}

	if toolbox.concurrent {
		group, groupCtx := errgroup.WithContext(ctx)

		for i := range instances {
			group.Go(func() error {
				return collect(groupCtx, i)
			})
		}

		if err := group.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range instances {
			if err := collect(ctx, i); err != nil {
				return nil, err
			}
		}
	}

	log.Debug("fan-out finished", "instances", len(instances), "concurrent", toolbox.concurrent)
	return mcp.NewToolResultText(strings.Join(sections, "\n\n")), nil
}
