package cmd

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flyinglimao/mcp-server-memos/pkg/config"
	"github.com/flyinglimao/mcp-server-memos/pkg/logging"
	"github.com/flyinglimao/mcp-server-memos/pkg/memos"
	"github.com/flyinglimao/mcp-server-memos/pkg/registry"
	"github.com/flyinglimao/mcp-server-memos/pkg/service"
	"github.com/flyinglimao/mcp-server-memos/pkg/telemetry"
	"github.com/flyinglimao/mcp-server-memos/pkg/tools"
)

func serve(cmd *cobra.Command, args []string) error {
	defer logging.Close()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	provider, shutdown, err := telemetry.Setup(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn("failed to flush traces", "error", err)
		}
	}()

	store := registry.NewFileStore(cfg.Registry.Path)
	log.Info("instance registry", "path", store.Path())

	return service.NewServer(
		cfg, store, tiersFromFlags(userTools, adminTools, fullTools),
		tools.WithTracer(provider.Tracer(memos.TracerName)),
	).ServeStdio()
}

// tiersFromFlags maps the command line onto tool tiers; --full-tools implies both.
func tiersFromFlags(user, admin, full bool) tools.Tiers {
	if full {
		return tools.FullTiers()
	}

	return tools.Tiers{User: user, Admin: admin}
}
