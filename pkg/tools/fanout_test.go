package tools

import (
	"context"
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
	"github.com/flyinglimao/mcp-server-memos/pkg/memos/memostest"
)

func memoPage(memoList ...memos.Memo) memos.Result[json.RawMessage] {
	return memostest.JSON(memos.ListMemosResponse{Memos: memoList})
}

func TestFanOut(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		Convey("Given three instances where the middle one fails", t, func() {
			fx := newFixture([]string{"alpha", "beta", "gamma"}, WithConcurrentFanOut(concurrent))

			fx.stub("alpha").Handler = memostest.Reply(memoPage(
				memos.Memo{Name: "memos/1", Content: "first", Tags: []string{"work"}, Pinned: true},
			))
			fx.stub("beta").Handler = memostest.Reply(memostest.Failure(13, "internal"))
			fx.stub("gamma").Handler = memostest.Reply(memoPage(
				memos.Memo{Name: "memos/7", Content: "seventh"},
			))

			Convey("Listing without an alias covers every instance in registry order", func() {
				result, err := fx.call(t, "list_memos", map[string]any{})

				So(err, ShouldBeNil)
				So(result.IsError, ShouldBeFalse)
				So(textOf(result), ShouldEqual,
					"## alpha\n- **memos/1** 📌 [work]\n  first\n\n"+
						"## beta\nNo memos found.\n\n"+
						"## gamma\n- **memos/7**\n  seventh")

				So(fx.stub("alpha").Count(), ShouldEqual, 1)
				So(fx.stub("beta").Count(), ShouldEqual, 1)
				So(fx.stub("gamma").Count(), ShouldEqual, 1)
			})

			Convey("Listing with an alias only touches that instance", func() {
				result, err := fx.call(t, "list_memos", map[string]any{"instance": "gamma"})

				So(err, ShouldBeNil)
				So(textOf(result), ShouldEqual, "## gamma\n- **memos/7**\n  seventh")
				So(fx.stub("alpha").Count(), ShouldEqual, 0)
			})

			Convey("Tags degrade the same way", func() {
				result, err := fx.call(t, "list_tags", map[string]any{})

				So(err, ShouldBeNil)
				So(textOf(result), ShouldEqual,
					"## alpha\n- #work (1)\n\n## beta\nNo tags found.\n\n## gamma\nNo tags found.")
			})
		})
	}

	Convey("Given no registered instances", t, func() {
		fx := newFixture(nil)

		for _, tool := range []string{"list_memos", "list_tags"} {
			result, err := fx.call(t, tool, map[string]any{})
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(textOf(result), ShouldEqual, "No instances connected. Use connect_instance first.")
		}
	})
}

func TestAggregateTags(t *testing.T) {
	Convey("Given a listing split over two pages", t, func() {
		stub := memostest.New(func(call memostest.Call) (memos.Result[json.RawMessage], error) {
			if call.Query["pageToken"] == "" {
				return memostest.JSON(memos.ListMemosResponse{
					Memos:         []memos.Memo{{Name: "memos/1", Tags: []string{"a", "a", "b"}}},
					NextPageToken: "page-2",
				}), nil
			}

			return memostest.JSON(memos.ListMemosResponse{
				Memos: []memos.Memo{{Name: "memos/2", Tags: []string{"b", "c"}}},
			}), nil
		})

		result, err := AggregateTags(context.Background(), stub, 100)

		So(err, ShouldBeNil)
		So(result.OK(), ShouldBeTrue)
		So(result.Value, ShouldResemble, []TagCount{{"a", 2}, {"b", 2}, {"c", 1}})

		calls := stub.Calls()
		So(calls, ShouldHaveLength, 2)
		So(calls[0].Query["pageSize"], ShouldEqual, "100")
		So(calls[0].Query, ShouldNotContainKey, "pageToken")
		So(calls[1].Query["pageToken"], ShouldEqual, "page-2")

		So(formatTags(result.Value), ShouldEqual, "- #a (2)\n- #b (2)\n- #c (1)")
	})

	Convey("Ties keep discovery order and higher counts come first", t, func() {
		stub := memostest.New(memostest.Reply(memoPage(
			memos.Memo{Tags: []string{"z", "y"}},
			memos.Memo{Tags: []string{"x", "y"}},
		)))

		result, err := AggregateTags(context.Background(), stub, 10)
		So(err, ShouldBeNil)
		So(result.Value, ShouldResemble, []TagCount{{"y", 2}, {"z", 1}, {"x", 1}})
	})

	Convey("A backend repeating its page token does not loop forever", t, func() {
		stub := memostest.New(memostest.Reply(memostest.JSON(memos.ListMemosResponse{
			Memos:         []memos.Memo{{Tags: []string{"a"}}},
			NextPageToken: "same",
		})))

		result, err := AggregateTags(context.Background(), stub, 10)
		So(err, ShouldBeNil)
		So(stub.Count(), ShouldEqual, 2)
		So(result.Value, ShouldResemble, []TagCount{{"a", 2}})
	})

	Convey("A failing page fails the aggregation", t, func() {
		stub := memostest.New(memostest.NotFound())

		result, err := AggregateTags(context.Background(), stub, 10)
		So(err, ShouldBeNil)
		So(result.OK(), ShouldBeFalse)
	})
}

func TestRenderingIsDeterministic(t *testing.T) {
	Convey("The same payload renders the same text every time", t, func() {
		fx := newFixture([]string{"home"})
		fx.stub("home").Handler = memostest.Reply(memoPage(
			memos.Memo{Name: "memos/1", Content: "line one\nline two", Tags: []string{"a", "b"}, Visibility: "PUBLIC"},
			memos.Memo{Name: "memos/2", Content: "short"},
		))

		first, err := fx.call(t, "list_memos", map[string]any{"instance": "home"})
		So(err, ShouldBeNil)

		second, err := fx.call(t, "list_memos", map[string]any{"instance": "home"})
		So(err, ShouldBeNil)

		So(textOf(first), ShouldEqual, textOf(second))
		So(textOf(first), ShouldContainSubstring, "line one line two")

		fx.stub("home").Handler = memostest.Reply(memostest.JSON(memos.Memo{
			Name: "memos/1", Content: "body", CreateTime: "2024-01-01T00:00:00Z", Visibility: "PUBLIC", Tags: []string{"a"},
		}))

		one, _ := fx.call(t, "get_memo", map[string]any{"instance": "home", "memoName": "memos/1"})
		two, _ := fx.call(t, "get_memo", map[string]any{"instance": "home", "memoName": "memos/1"})

		So(textOf(one), ShouldEqual, textOf(two))
		So(textOf(one), ShouldEqual,
			"# memos/1\n**Created:** 2024-01-01T00:00:00Z\n**Visibility:** PUBLIC\n**Tags:** a\n\n---\n\nbody")
	})
}

func TestSnippet(t *testing.T) {
	Convey("Snippets are cut to a single line of bounded length", t, func() {
		So(snippet("a\nb"), ShouldEqual, "a b")

		long := ""
		for range 120 {
			long += "é"
		}
		cut := snippet(long)
		So([]rune(cut), ShouldHaveLength, snippetLength+3)
		So(cut, ShouldEndWith, "...")
	})
}
