package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"

	"github.com/flyinglimao/mcp-server-memos/pkg/config"
	"github.com/flyinglimao/mcp-server-memos/pkg/tools"
)

func TestTiersFromFlags(t *testing.T) {
	assert.Equal(t, tools.Tiers{}, tiersFromFlags(false, false, false))
	assert.Equal(t, tools.Tiers{User: true}, tiersFromFlags(true, false, false))
	assert.Equal(t, tools.Tiers{Admin: true}, tiersFromFlags(false, true, false))
	assert.Equal(t, tools.Tiers{User: true, Admin: true}, tiersFromFlags(true, true, false))
	assert.Equal(t, tools.FullTiers(), tiersFromFlags(false, false, true))
}

func TestFlags(t *testing.T) {
	for _, name := range []string{"user-tools", "admin-tools", "full-tools"} {
		flag := rootCmd.Flags().Lookup(name)
		if assert.NotNil(t, flag, name) {
			assert.Equal(t, "false", flag.DefValue)
		}
	}

	assert.True(t, rootCmd.SilenceUsage)
}

func TestInitConfig(t *testing.T) {
	Convey("Given an empty config directory", t, func() {
		dir := filepath.Join(t.TempDir(), "memos-mcp")
		v := viper.New()

		So(initConfig(v, dir), ShouldBeNil)

		Convey("The embedded default is written out", func() {
			So(CheckFileExists(filepath.Join(dir, cfgFile)), ShouldBeTrue)
		})

		Convey("The default file loads into a valid config", func() {
			cfg, err := config.Load(v)
			So(err, ShouldBeNil)
			So(cfg.Server.Name, ShouldEqual, "memos-mcp")
			So(cfg.Tags.PageSize, ShouldEqual, 100)
			So(cfg.FanOut.Concurrent, ShouldBeFalse)
		})

		Convey("An edited file is never overwritten", func() {
			path := filepath.Join(dir, cfgFile)
			So(os.WriteFile(path, []byte("server:\n  name: edited\n"), 0o644), ShouldBeNil)

			v := viper.New()
			So(initConfig(v, dir), ShouldBeNil)

			cfg, err := config.Load(v)
			So(err, ShouldBeNil)
			So(cfg.Server.Name, ShouldEqual, "edited")
		})
	})
}
