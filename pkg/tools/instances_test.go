package tools

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInstanceTools(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		fx := newFixture(nil)

		Convey("Listing explains how to connect", func() {
			result, err := fx.call(t, "list_instances", nil)
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)
			So(textOf(result), ShouldStartWith, "No Memos instances connected.")
		})

		Convey("Connecting stores the instance and names the registry path", func() {
			result, err := fx.call(t, "connect_instance", map[string]any{
				"name": "work", "host": "https://memos.work.example.com", "apiKey": "secret",
			})
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)
			So(textOf(result), ShouldEqual,
				"Successfully connected to Memos instance \"work\" at https://memos.work.example.com.\n"+
					"Configuration saved to: "+fx.store.Path())

			instance, ok, err := fx.store.Get(context.Background(), "work")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(instance.APIKey, ShouldEqual, "secret")

			Convey("It shows up in the listing without its key", func() {
				result, err := fx.call(t, "list_instances", nil)
				So(err, ShouldBeNil)
				So(textOf(result), ShouldEqual, "Connected Memos instances:\n- work: https://memos.work.example.com")
				So(textOf(result), ShouldNotContainSubstring, "secret")
			})

			Convey("Disconnecting removes it", func() {
				result, err := fx.call(t, "disconnect_instance", map[string]any{"name": "work"})
				So(err, ShouldBeNil)
				So(result.IsError, ShouldBeFalse)
				So(textOf(result), ShouldEqual, "Successfully disconnected from Memos instance \"work\".")

				result, err = fx.call(t, "disconnect_instance", map[string]any{"name": "work"})
				So(err, ShouldBeNil)
				So(result.IsError, ShouldBeTrue)
				So(textOf(result), ShouldEqual, "Instance \"work\" not found.")
			})
		})
	})
}
