/*
Package config turns the viper key space into the typed settings the server
is assembled from.
*/
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/flyinglimao/mcp-server-memos/pkg/registry"
)

// EnvPrefix namespaces environment overrides, e.g. MEMOS_MCP_LOG_LEVEL.
const EnvPrefix = "MEMOS_MCP"

type Config struct {
	Server    Server
	Log       Log
	Registry  Registry
	HTTP      HTTP
	FanOut    FanOut
	Tags      Tags
	Telemetry Telemetry
}

type Server struct {
	Name    string
	Version string
}

type Log struct {
	Level string
	File  string
}

type Registry struct {
	Path string
}

// HTTP.Timeout of zero leaves requests unbounded.
type HTTP struct {
	Timeout time.Duration
}

type FanOut struct {
	Concurrent bool
}

type Tags struct {
	PageSize int
}

// Telemetry exports request spans over OTLP/HTTP when enabled.
type Telemetry struct {
	Enabled  bool
	Endpoint string
}

// SetDefaults registers the values used when neither file nor env sets a key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "memos-mcp")
	v.SetDefault("server.version", "1.0.0")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("registry.path", "")
	v.SetDefault("http.timeout", "0s")
	v.SetDefault("fanout.concurrent", false)
	v.SetDefault("tags.pageSize", 100)
	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "")
}

// BindEnv lets MEMOS_MCP_HTTP_TIMEOUT and friends override the file.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

/*
Load reads the typed configuration out of v. An empty registry path falls
back to the default location; "~" and environment variables in paths are
expanded.
*/
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Server: Server{
			Name:    v.GetString("server.name"),
			Version: v.GetString("server.version"),
		},
		Log: Log{
			Level: v.GetString("log.level"),
			File:  expandPath(v.GetString("log.file")),
		},
		Registry: Registry{
			Path: expandPath(v.GetString("registry.path")),
		},
		HTTP: HTTP{
			Timeout: v.GetDuration("http.timeout"),
		},
		FanOut: FanOut{
			Concurrent: v.GetBool("fanout.concurrent"),
		},
		Tags: Tags{
			PageSize: v.GetInt("tags.pageSize"),
		},
		Telemetry: Telemetry{
			Enabled:  v.GetBool("otel.enabled"),
			Endpoint: strings.TrimSpace(v.GetString("otel.endpoint")),
		},
	}

	if cfg.Registry.Path == "" {
		path, err := registry.DefaultPath()
		if err != nil {
			return cfg, err
		}
		cfg.Registry.Path = path
	}

	if cfg.HTTP.Timeout < 0 {
		return cfg, fmt.Errorf("http.timeout must not be negative, got %s", cfg.HTTP.Timeout)
	}

	if cfg.Tags.PageSize < 1 || cfg.Tags.PageSize > 1000 {
		return cfg, fmt.Errorf("tags.pageSize must be between 1 and 1000, got %d", cfg.Tags.PageSize)
	}

	return cfg, nil
}

func expandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}

	return os.ExpandEnv(path)
}
