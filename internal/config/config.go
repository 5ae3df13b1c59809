package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Sources SourcesConfig        `toml:"sources"`
	Invoke  InvokeConfig         `toml:"invoke"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port int    `toml:"port"`
}

// SourcesConfig controls where documentation is loaded from and how.
type SourcesConfig struct {
	URLs            []string `toml:"urls"`
	FetchTimeoutSec int      `toml:"fetch_timeout_sec"`
	RenderJS        bool     `toml:"render_js"`
	CacheTTLSec     int      `toml:"cache_ttl_sec"`
	CacheEntries    int      `toml:"cache_entries"`
}

// InvokeConfig controls outbound requests made on behalf of generated tools.
type InvokeConfig struct {
	TimeoutSec int `toml:"timeout_sec"`
}

// NewDefaultConfig returns a Config populated with defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "doc2mcp",
			Port: 9000,
		},
		Sources: SourcesConfig{
			FetchTimeoutSec: 30,
			CacheTTLSec:     300,
			CacheEntries:    64,
		},
		Invoke: InvokeConfig{
			TimeoutSec: 60,
		},
		Logging: common.LoggingConfig{
			Level:    "info",
			Outputs:  []string{"console", "file"},
			FilePath: "logs/doc2mcp.log",
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies DOC2MCP_* environment variable overrides to config.
// DOC_URLS is a comma-separated list of documentation sources and replaces any
// urls from the config file when set.
func applyEnvOverrides(config *Config) {
	if urls := os.Getenv("DOC_URLS"); urls != "" {
		var parsed []string
		for _, u := range strings.Split(urls, ",") {
			u = strings.TrimSpace(u)
			if u != "" {
				parsed = append(parsed, u)
			}
		}
		if len(parsed) > 0 {
			config.Sources.URLs = parsed
		}
	}
	if name := os.Getenv("DOC2MCP_SERVER_NAME"); name != "" {
		config.Server.Name = name
	}
	if port := os.Getenv("DOC2MCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if timeout := os.Getenv("DOC2MCP_FETCH_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil && t > 0 {
			config.Sources.FetchTimeoutSec = t
		}
	}
	if render := os.Getenv("DOC2MCP_RENDER_JS"); render != "" {
		if b, err := strconv.ParseBool(render); err == nil {
			config.Sources.RenderJS = b
		}
	}
	if level := os.Getenv("DOC2MCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int) {
	if port > 0 {
		config.Server.Port = port
	}
}
