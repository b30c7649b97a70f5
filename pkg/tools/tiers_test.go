package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
)

type rpcReply struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Result *struct {
		IsError bool `json:"isError"`
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	} `json:"result"`
}

func newGatedServer(tiers Tiers) (*server.MCPServer, int) {
	srv := server.NewMCPServer("memos-test", "0.0.0", server.WithToolCapabilities(true))
	fx := newFixture([]string{"home"})
	return srv, Register(srv, fx.toolbox, tiers)
}

func rpc(srv *server.MCPServer, id int, method string, params any) rpcReply {
	payload, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})

	response := srv.HandleMessage(context.Background(), payload)

	buf, _ := json.Marshal(response)
	var reply rpcReply
	_ = json.Unmarshal(buf, &reply)
	return reply
}

func callTool(srv *server.MCPServer, name string, args map[string]any) rpcReply {
	return rpc(srv, 1, "tools/call", map[string]any{"name": name, "arguments": args})
}

func listedTools(srv *server.MCPServer) []string {
	reply := rpc(srv, 2, "tools/list", map[string]any{})

	var names []string
	if reply.Result != nil {
		for _, tool := range reply.Result.Tools {
			names = append(names, tool.Name)
		}
	}
	sort.Strings(names)
	return names
}

func TestDefinitionsTable(t *testing.T) {
	definitions := NewToolbox(nil).Definitions()

	perTier := map[Tier]int{}
	seen := map[string]bool{}

	for _, definition := range definitions {
		assert.False(t, seen[definition.Tool.Name], "duplicate tool %s", definition.Tool.Name)
		seen[definition.Tool.Name] = true
		perTier[definition.Tier]++

		assert.NotNil(t, definition.Handler, definition.Tool.Name)
		assert.NotEmpty(t, definition.Tool.Description, definition.Tool.Name)
	}

	assert.Len(t, definitions, 39)
	assert.Equal(t, 16, perTier[TierCore])
	assert.Equal(t, 13, perTier[TierUser])
	assert.Equal(t, 10, perTier[TierAdmin])
}

func TestTiersEnabled(t *testing.T) {
	assert.True(t, Tiers{}.Enabled(TierCore))
	assert.False(t, Tiers{}.Enabled(TierUser))
	assert.False(t, Tiers{}.Enabled(TierAdmin))
	assert.True(t, Tiers{User: true}.Enabled(TierUser))
	assert.False(t, Tiers{User: true}.Enabled(TierAdmin))
	assert.True(t, FullTiers().Enabled(TierAdmin))
	assert.Equal(t, "admin", TierAdmin.String())
}

func TestCapabilityGate(t *testing.T) {
	Convey("Given a server started without flags", t, func() {
		srv, count := newGatedServer(Tiers{})

		So(count, ShouldEqual, 16)
		So(listedTools(srv), ShouldHaveLength, 16)
		So(listedTools(srv), ShouldContain, "list_memos")
		So(listedTools(srv), ShouldNotContain, "list_users")
		So(listedTools(srv), ShouldNotContain, "list_webhooks")

		Convey("Gated tools answer exactly like names that do not exist", func() {
			unknown := callTool(srv, "no_such_tool", map[string]any{"instance": "home"})
			So(unknown.Error, ShouldNotBeNil)

			for _, name := range []string{"list_users", "delete_user", "list_webhooks", "create_personal_access_token"} {
				gated := callTool(srv, name, map[string]any{"instance": "home"})

				So(gated.Result, ShouldBeNil)
				So(gated.Error, ShouldNotBeNil)
				So(gated.Error.Code, ShouldEqual, unknown.Error.Code)
				So(strings.ReplaceAll(gated.Error.Message, name, "no_such_tool"), ShouldEqual, unknown.Error.Message)
				So(strings.ToLower(gated.Error.Message), ShouldNotContainSubstring, "permission")
			}
		})

		Convey("Core tools are reachable", func() {
			reply := callTool(srv, "get_memo", map[string]any{"instance": "ghost", "memoName": "memos/1"})
			So(reply.Error, ShouldBeNil)
			So(reply.Result.IsError, ShouldBeTrue)
			So(reply.Result.Content[0].Text, ShouldEqual, `Instance "ghost" not found.`)
		})
	})

	Convey("Given a server started with user tools only", t, func() {
		srv, count := newGatedServer(Tiers{User: true})
		So(count, ShouldEqual, 29)

		So(callTool(srv, "list_webhooks", map[string]any{"instance": "ghost"}).Error, ShouldBeNil)
		So(callTool(srv, "list_users", map[string]any{"instance": "ghost"}).Error, ShouldNotBeNil)
	})

	Convey("Given a server started with full tools", t, func() {
		srv, count := newGatedServer(FullTiers())
		So(count, ShouldEqual, 39)

		for _, name := range []string{"list_users", "list_webhooks", "get_activity"} {
			reply := callTool(srv, name, map[string]any{"instance": "ghost", "activityName": "activities/1"})
			So(reply.Error, ShouldBeNil)
			So(reply.Result.IsError, ShouldBeTrue)
			So(reply.Result.Content[0].Text, ShouldEqual, fmt.Sprintf("Instance %q not found.", "ghost"))
		}
	})
}

func TestInvalidArgumentsAreProtocolErrors(t *testing.T) {
	Convey("A call with invalid arguments fails at the protocol level", t, func() {
		srv, _ := newGatedServer(Tiers{})

		reply := callTool(srv, "create_memo", map[string]any{"instance": "home", "content": "x", "visibility": "SECRET"})
		So(reply.Error, ShouldNotBeNil)
		So(reply.Result, ShouldBeNil)
	})
}
