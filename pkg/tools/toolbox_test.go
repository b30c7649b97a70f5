package tools

import (
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
	"github.com/flyinglimao/mcp-server-memos/pkg/memos/memostest"
)

// everyArgument satisfies the required arguments of every tool.
func everyArgument(alias string) map[string]any {
	return map[string]any{
		"instance":       alias,
		"memoName":       "memos/1",
		"content":        "aGVsbG8=",
		"title":          "Inbox",
		"filter":         `tag == "inbox"`,
		"shortcutName":   "users/me/shortcuts/1",
		"attachmentName": "attachments/1",
		"filename":       "a.txt",
		"type":           "text/plain",
		"patName":        "users/me/personalAccessTokens/1",
		"url":            "https://hooks.example.com/x",
		"webhookName":    "users/me/webhooks/1",
		"setting":        "GENERAL",
		"data":           `{"locale":"en"}`,
		"updateMask":     "locale",
		"notification":   "users/me/notifications/1",
		"userName":       "users/2",
		"username":       "alice",
		"password":       "hunter2",
		"settingName":    "GENERAL",
		"value":          `{"disallowUserRegistration":true}`,
		"activityName":   "activities/1",
	}
}

var registryTools = map[string]bool{
	"connect_instance":    true,
	"disconnect_instance": true,
	"list_instances":      true,
}

func TestUnknownAliasNeverReachesTheNetwork(t *testing.T) {
	fx := newFixture([]string{"home"})

	for _, definition := range fx.toolbox.Definitions() {
		name := definition.Tool.Name
		if registryTools[name] {
			continue
		}

		t.Run(name, func(t *testing.T) {
			result, err := fx.call(t, name, everyArgument("ghost"))

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
			assert.Equal(t, `Instance "ghost" not found.`, textOf(result))
			assert.Zero(t, fx.totalCalls())
		})
	}
}

// fanOutTools treat an empty alias as "every instance".
var fanOutTools = map[string]bool{
	"list_memos": true,
	"list_tags":  true,
}

func TestBlankAliasIsAnUnknownInstance(t *testing.T) {
	fx := newFixture([]string{"home"})

	for _, alias := range []string{"", "  "} {
		for _, definition := range fx.toolbox.Definitions() {
			name := definition.Tool.Name
			if registryTools[name] || (alias == "" && fanOutTools[name]) {
				continue
			}

			t.Run(name+"/"+alias, func(t *testing.T) {
				result, err := fx.call(t, name, everyArgument(alias))

				require.NoError(t, err)
				require.NotNil(t, result)
				assert.True(t, result.IsError)
				assert.Equal(t, `Instance "`+alias+`" not found.`, textOf(result))
				assert.Zero(t, fx.totalCalls())
			})
		}
	}
}

func TestUpdatesWithoutFields(t *testing.T) {
	tests := []struct {
		tool string
		args map[string]any
	}{
		{"update_memo", map[string]any{"instance": "home", "memoName": "memos/1"}},
		{"update_shortcut", map[string]any{"instance": "home", "shortcutName": "users/me/shortcuts/1"}},
		{"update_webhook", map[string]any{"instance": "home", "webhookName": "users/me/webhooks/1"}},
		{"update_user", map[string]any{"instance": "home", "userName": "users/2"}},
		{"update_user_setting", map[string]any{"instance": "home", "setting": "GENERAL", "data": `{}`, "updateMask": " , "}},
		{"update_notification", map[string]any{"instance": "home", "notification": "n/1", "data": `{}`, "updateMask": ""}},
		{"update_instance_setting", map[string]any{"instance": "home", "settingName": "GENERAL", "value": `42`}},
		{"update_instance_setting", map[string]any{"instance": "home", "settingName": "GENERAL", "value": `{"name":"x"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			fx := newFixture([]string{"home"})

			result, err := fx.call(t, tt.tool, tt.args)

			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Equal(t, "No fields to update.", textOf(result))
			assert.Zero(t, fx.totalCalls())
		})
	}
}

func TestUpdateMaskMatchesSuppliedFields(t *testing.T) {
	tests := []struct {
		tool     string
		args     map[string]any
		wantMask string
		wantBody map[string]any
	}{
		{
			tool:     "update_memo",
			args:     map[string]any{"instance": "home", "memoName": "memos/1", "content": "", "pinned": false},
			wantMask: "content,pinned",
			wantBody: map[string]any{"content": "", "pinned": false},
		},
		{
			tool:     "update_memo",
			args:     map[string]any{"instance": "home", "memoName": "memos/1", "state": "ARCHIVED"},
			wantMask: "state",
			wantBody: map[string]any{"state": "ARCHIVED"},
		},
		{
			tool:     "update_shortcut",
			args:     map[string]any{"instance": "home", "shortcutName": "users/me/shortcuts/1", "filter": "pinned"},
			wantMask: "filter",
			wantBody: map[string]any{"filter": "pinned"},
		},
		{
			tool:     "update_webhook",
			args:     map[string]any{"instance": "home", "webhookName": "users/me/webhooks/1", "url": "https://x.example.com", "displayName": "X"},
			wantMask: "url,displayName",
			wantBody: map[string]any{"url": "https://x.example.com", "displayName": "X"},
		},
		{
			tool:     "update_user",
			args:     map[string]any{"instance": "home", "userName": "users/2", "displayName": "Alice"},
			wantMask: "display_name",
			wantBody: map[string]any{"displayName": "Alice"},
		},
		{
			tool:     "update_user_setting",
			args:     map[string]any{"instance": "home", "setting": "GENERAL", "data": `{"locale":"fr"}`, "updateMask": " locale ,"},
			wantMask: "locale",
			wantBody: map[string]any{"locale": "fr"},
		},
		{
			tool:     "update_instance_setting",
			args:     map[string]any{"instance": "home", "settingName": "GENERAL", "value": `{"name":"instance/settings/GENERAL","b":1,"a":2}`},
			wantMask: "a,b",
			wantBody: map[string]any{"name": "instance/settings/GENERAL", "b": float64(1), "a": float64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.wantMask, func(t *testing.T) {
			fx := newFixture([]string{"home"})

			result, err := fx.call(t, tt.tool, tt.args)
			require.NoError(t, err)
			assert.False(t, result.IsError, textOf(result))

			require.Equal(t, 1, fx.stub("home").Count())
			call := fx.stub("home").Last()
			assert.Equal(t, "PATCH", call.Method)
			assert.Equal(t, tt.wantMask, call.Query["updateMask"])

			var body map[string]any
			require.NoError(t, json.Unmarshal(call.Body, &body))
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestFreeFormJSON(t *testing.T) {
	Convey("Given tools taking free-form JSON", t, func() {
		fx := newFixture([]string{"home"})

		Convey("Malformed setting data is rejected before any request", func() {
			result, err := fx.call(t, "update_user_setting", map[string]any{
				"instance": "home", "setting": "GENERAL", "data": `{bad`, "updateMask": "locale",
			})
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(textOf(result), ShouldEqual, "Invalid JSON data provided.")
			So(fx.totalCalls(), ShouldEqual, 0)
		})

		Convey("Malformed notification data is rejected the same way", func() {
			result, err := fx.call(t, "update_notification", map[string]any{
				"instance": "home", "notification": "users/me/notifications/1", "data": `nope`, "updateMask": "status",
			})
			So(err, ShouldBeNil)
			So(textOf(result), ShouldEqual, "Invalid JSON data provided.")
			So(fx.totalCalls(), ShouldEqual, 0)
		})

		Convey("A malformed instance setting names the parse error", func() {
			result, err := fx.call(t, "update_instance_setting", map[string]any{
				"instance": "home", "settingName": "GENERAL", "value": `{`,
			})
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(textOf(result), ShouldStartWith, "Invalid JSON value: ")
			So(fx.totalCalls(), ShouldEqual, 0)
		})

		Convey("An explicit mask wins over the value's keys", func() {
			result, err := fx.call(t, "update_instance_setting", map[string]any{
				"instance": "home", "settingName": "STORAGE", "value": `{"a":1,"b":2}`, "updateMask": "b",
			})
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)
			So(fx.stub("home").Last().Path, ShouldEqual, "/instance/settings/STORAGE")
			So(fx.stub("home").Last().Query["updateMask"], ShouldEqual, "b")
		})

		Convey("Documents come back as indented JSON", func() {
			fx.stub("home").Handler = memostest.Reply(memostest.JSON(map[string]any{"name": "users/me/settings/GENERAL", "locale": "en"}))

			result, err := fx.call(t, "get_user_setting", map[string]any{"instance": "home", "setting": "GENERAL"})
			So(err, ShouldBeNil)
			So(textOf(result), ShouldEqual, "{\n  \"locale\": \"en\",\n  \"name\": \"users/me/settings/GENERAL\"\n}")
			So(fx.stub("home").Last().Path, ShouldEqual, "/users/me/settings/GENERAL")
		})
	})
}

func TestFailureRendering(t *testing.T) {
	Convey("Given a backend that refuses with permission denied", t, func() {
		fx := newFixture([]string{"home"})
		fx.stub("home").Handler = memostest.Reply(memostest.Failure(memos.CodePermissionDenied, "permission denied"))

		Convey("Admin tools render the fixed privilege message", func() {
			for _, tool := range []string{"list_users", "get_user", "get_instance_profile", "list_activities"} {
				result, err := fx.call(t, tool, everyArgument("home"))
				So(err, ShouldBeNil)
				So(result.IsError, ShouldBeTrue)
				So(textOf(result), ShouldEqual, "Permission denied. Admin privileges required.")
			}
		})

		Convey("Other tools render the backend message", func() {
			result, err := fx.call(t, "get_memo", map[string]any{"instance": "home", "memoName": "memos/1"})
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(textOf(result), ShouldEqual, "Error: permission denied")
		})
	})

	Convey("Given a backend returning another failure", t, func() {
		fx := newFixture([]string{"home"})
		fx.stub("home").Handler = memostest.Reply(memostest.Failure(5, "user not found"))

		result, err := fx.call(t, "get_user", map[string]any{"instance": "home", "userName": "users/9"})
		So(err, ShouldBeNil)
		So(textOf(result), ShouldEqual, "Error: user not found")
	})

	Convey("Given a transport fault", t, func() {
		fx := newFixture([]string{"home"})
		boom := errors.New("connection refused")
		fx.stub("home").Handler = func(memostest.Call) (memos.Result[json.RawMessage], error) {
			return memos.Result[json.RawMessage]{}, boom
		}

		Convey("Single-instance tools propagate it", func() {
			result, err := fx.call(t, "delete_memo", map[string]any{"instance": "home", "memoName": "memos/1"})
			So(result, ShouldBeNil)
			So(errors.Is(err, boom), ShouldBeTrue)
		})

		Convey("Fan-out tools propagate it", func() {
			result, err := fx.call(t, "list_memos", map[string]any{})
			So(result, ShouldBeNil)
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})
}

func TestArgumentValidation(t *testing.T) {
	tests := []struct {
		tool string
		args map[string]any
	}{
		{"create_memo", map[string]any{"instance": "home", "content": "x", "visibility": "SECRET"}},
		{"create_memo", map[string]any{"instance": "home", "content": "   "}},
		{"list_memos", map[string]any{"pageSize": 0}},
		{"list_memos", map[string]any{"state": "DELETED"}},
		{"get_memo", map[string]any{"instance": "home"}},
		{"get_memo", map[string]any{"memoName": "memos/1"}},
		{"connect_instance", map[string]any{"name": "x", "host": "memos.example.com", "apiKey": "k"}},
		{"create_webhook", map[string]any{"instance": "home", "url": "not a url"}},
		{"upload_attachment", map[string]any{"instance": "home", "filename": "a", "type": "text/plain", "content": "%%%"}},
		{"create_user", map[string]any{"instance": "home", "username": "u", "password": "p", "role": "ROOT"}},
		{"list_users", map[string]any{"instance": "home", "pageSize": 5000}},
		{"update_memo", map[string]any{"instance": "home", "memoName": "memos/1", "pinned": "yes"}},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			fx := newFixture([]string{"home"})

			result, err := fx.call(t, tt.tool, tt.args)

			assert.Error(t, err)
			assert.Nil(t, result)
			assert.Zero(t, fx.totalCalls())
		})
	}
}

func TestDefaults(t *testing.T) {
	Convey("Optional arguments fall back to their defaults", t, func() {
		fx := newFixture([]string{"home"})

		_, err := fx.call(t, "create_memo", map[string]any{"instance": "home", "content": "hello"})
		So(err, ShouldBeNil)

		var body map[string]any
		So(json.Unmarshal(fx.stub("home").Last().Body, &body), ShouldBeNil)
		So(body["visibility"], ShouldEqual, memos.VisibilityPrivate)
		So(body["pinned"], ShouldEqual, false)

		_, err = fx.call(t, "list_shortcuts", map[string]any{"instance": "home"})
		So(err, ShouldBeNil)
		So(fx.stub("home").Last().Path, ShouldEqual, "/users/me/shortcuts")

		_, err = fx.call(t, "list_memos", map[string]any{"instance": "home"})
		So(err, ShouldBeNil)
		So(fx.stub("home").Last().Query["pageSize"], ShouldEqual, "20")
		So(fx.stub("home").Last().Query, ShouldNotContainKey, "filter")

		_, err = fx.call(t, "create_user", map[string]any{"instance": "home", "username": "u", "password": "p"})
		So(err, ShouldBeNil)
		So(json.Unmarshal(fx.stub("home").Last().Body, &body), ShouldBeNil)
		So(body["role"], ShouldEqual, memos.RoleUser)
	})
}
