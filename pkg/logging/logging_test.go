package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseLevel(t *testing.T) {
	Convey("Given level names", t, func() {
		Convey("Empty defaults to info", func() {
			lvl, err := ParseLevel("")
			So(err, ShouldBeNil)
			So(lvl, ShouldEqual, log.InfoLevel)
		})

		Convey("Names are case insensitive", func() {
			lvl, err := ParseLevel("DEBUG")
			So(err, ShouldBeNil)
			So(lvl, ShouldEqual, log.DebugLevel)
		})

		Convey("Unknown names are rejected", func() {
			_, err := ParseLevel("chatty")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given a log file path", t, func() {
		previous := log.Default()
		Reset(func() {
			Close()
			log.SetDefault(previous)
		})

		path := filepath.Join(t.TempDir(), "logs", "memos-mcp.log")

		Convey("Init creates the file and writes to it", func() {
			So(Init("info", path), ShouldBeNil)
			log.Info("hello", "tool", "list_memos")

			buf, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(buf), ShouldContainSubstring, "hello")
			So(string(buf), ShouldContainSubstring, "tool=list_memos")
		})

		Convey("Init with a bad level leaves the logger untouched", func() {
			So(Init("chatty", path), ShouldNotBeNil)
			So(log.Default(), ShouldEqual, previous)
		})
	})

	Convey("New filters below its level", t, func() {
		var buf bytes.Buffer
		logger := New(&buf, log.WarnLevel)

		logger.Info("quiet")
		logger.Warn("loud")

		So(buf.String(), ShouldNotContainSubstring, "quiet")
		So(buf.String(), ShouldContainSubstring, "loud")
	})
}
