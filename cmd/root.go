/*
Package cmd implements the memos-mcp command line. There are no
subcommands: the root command serves MCP over stdio, and its flags choose
which tool tiers are exposed.
*/
package cmd

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flyinglimao/mcp-server-memos/pkg/config"
	"github.com/flyinglimao/mcp-server-memos/pkg/logging"
)

/*
Embed a mini filesystem into the binary to hold the default config file.
It is written to the user's config directory on first run so it can be
edited there.
*/
//go:embed cfg/*
var embedded embed.FS

const (
	projectName = "memos-mcp"
	cfgFile     = "config.yml"
)

var (
	userTools  bool
	adminTools bool
	fullTools  bool

	rootCmd = &cobra.Command{
		Use:               projectName,
		Short:             "MCP server for Memos instances",
		Long:              longRoot,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: preRun,
		RunE:              serve,
	}
)

/*
Execute runs the root command. The returned error has already been printed
by cobra; callers only need to pick an exit code.
*/
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&userTools, "user-tools", false, "expose user-level tools (tokens, webhooks, settings, notifications)")
	rootCmd.Flags().BoolVar(&adminTools, "admin-tools", false, "expose admin tools (user management, instance settings, activities)")
	rootCmd.Flags().BoolVar(&fullTools, "full-tools", false, "expose every tool")
}

func preRun(cmd *cobra.Command, args []string) error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	if err := initConfig(viper.GetViper(), dir); err != nil {
		return err
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	return logging.Init(cfg.Log.Level, cfg.Log.File)
}

// configDir is ~/.config/memos-mcp, next to the instance registry.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return filepath.Join(home, ".config", projectName), nil
}

/*
initConfig writes the default config file into dir if it is missing, then
reads it into v with environment overrides on top.
*/
func initConfig(v *viper.Viper, dir string) error {
	if err := writeConfig(dir); err != nil {
		return err
	}

	config.SetDefaults(v)
	config.BindEnv(v)

	v.SetConfigFile(filepath.Join(dir, cfgFile))
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	return nil
}

/*
writeConfig copies the embedded default config into dir, leaving existing
files alone.
*/
func writeConfig(dir string) (err error) {
	var (
		fh  fs.File
		buf bytes.Buffer
	)

	if !CheckFileExists(dir) {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	for _, file := range []string{cfgFile} {
		fullPath := filepath.Join(dir, file)

		if CheckFileExists(fullPath) {
			continue
		}

		if fh, err = embedded.Open("cfg/" + file); err != nil {
			return fmt.Errorf("failed to open embedded config file: %w", err)
		}

		if _, err = io.Copy(&buf, fh); err != nil {
			fh.Close()
			return fmt.Errorf("failed to read embedded config file: %w", err)
		}

		if err = os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
			fh.Close()
			return fmt.Errorf("failed to write config file: %w", err)
		}

		log.Info("wrote config file", "path", fullPath)
		buf.Reset()
		fh.Close()
	}

	return nil
}

func CheckFileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !errors.Is(err, os.ErrNotExist)
}

var longRoot = `
memos-mcp exposes one or more Memos note-taking instances to MCP clients
over stdio. Instances are connected at runtime with the connect_instance
tool and persisted in ~/.config/memos-mcp/instances.json.

Without flags only memo, tag, shortcut and attachment tools are exposed.
`
