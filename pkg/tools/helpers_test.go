package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
	"github.com/flyinglimao/mcp-server-memos/pkg/memos/memostest"
	"github.com/flyinglimao/mcp-server-memos/pkg/registry"
)

// fixture wires a toolbox to an in-memory registry and one stub per alias.
type fixture struct {
	store      *registry.MemoryStore
	transports map[string]*memostest.Transport
	toolbox    *Toolbox
}

func newFixture(aliases []string, opts ...ToolboxOption) *fixture {
	fx := &fixture{
		store:      registry.NewMemoryStore(),
		transports: map[string]*memostest.Transport{},
	}

	for _, alias := range aliases {
		_ = fx.store.Upsert(context.Background(), registry.Instance{
			Name:   alias,
			Host:   "https://" + alias + ".example.com",
			APIKey: "key-" + alias,
		})
		fx.transports[alias] = memostest.New(nil)
	}

	connector := WithConnector(func(instance registry.Instance) memos.Transport {
		if transport, ok := fx.transports[instance.Name]; ok {
			return transport
		}
		return memostest.New(nil)
	})

	fx.toolbox = NewToolbox(fx.store, append([]ToolboxOption{connector}, opts...)...)
	return fx
}

func (fx *fixture) stub(alias string) *memostest.Transport {
	return fx.transports[alias]
}

func (fx *fixture) totalCalls() int {
	total := 0
	for _, transport := range fx.transports {
		total += transport.Count()
	}
	return total
}

func (fx *fixture) call(t *testing.T, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t.Helper()

	for _, definition := range fx.toolbox.Definitions() {
		if definition.Tool.Name != name {
			continue
		}

		return definition.Handler(context.Background(), newCallRequest(name, args))
	}

	t.Fatalf("no tool named %s", name)
	return nil, nil
}

func textOf(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	parts := make([]string, 0, len(result.Content))
	for _, content := range result.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			parts = append(parts, text.Text)
		}
	}

	return strings.Join(parts, "\n")
}

func newCallRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}
