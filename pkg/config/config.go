package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type TransportConfig struct {
	Type string `mapstructure:"type"` // "stdio" or "sse"
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age"`
}

type LLMConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type EngineConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DraftConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type PluginSyncConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	SyncInterval time.Duration `mapstructure:"sync_interval"`
}

type CatalogConfig struct {
	// Dir holds additional node type definition YAML files merged over
	// the embedded catalog.
	Dir         string `mapstructure:"dir"`
	SearchLimit int    `mapstructure:"search_limit"`
}

type ServerConfig struct {
	Transport  TransportConfig  `mapstructure:"transport"`
	CORS       CORSConfig       `mapstructure:"cors"`
	LogLevel   string           `mapstructure:"log_level"`
	LogFormat  string           `mapstructure:"log_format"`
	LogBuffer  int              `mapstructure:"log_buffer"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Draft      DraftConfig      `mapstructure:"draft"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	PluginSync PluginSyncConfig `mapstructure:"plugin_sync"`
	// Credentials maps a credential type to a pre-provisioned engine
	// credential id, e.g. "gmailOAuth2Api" -> "42".
	Credentials map[string]string `mapstructure:"credentials"`
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Transport: TransportConfig{
			Type: "stdio",
			Host: "localhost",
			Port: 8090,
		},
		CORS: CORSConfig{
			Enabled:        false,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         300,
		},
		LogLevel:  "info",
		LogFormat: "json",
		LogBuffer: 1000,
		LLM: LLMConfig{
			Model:   "claude-sonnet-4-20250514",
			BaseURL: "https://api.anthropic.com",
		},
		Engine: EngineConfig{
			BaseURL: "http://localhost:5678",
			Timeout: 30 * time.Second,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
		},
		Draft: DraftConfig{
			TTL: 30 * time.Minute,
		},
		Catalog: CatalogConfig{
			SearchLimit: 15,
		},
		PluginSync: PluginSyncConfig{
			Enabled:      false,
			SyncInterval: 5 * time.Minute,
		},
		Credentials: map[string]string{},
	}
}

func LoadConfig() (*ServerConfig, error) {
	config := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/flowdraft/")
	viper.AddConfigPath("$HOME/.flowdraft/")

	viper.SetEnvPrefix("FLOWDRAFT")
	viper.AutomaticEnv()

	// Transport defaults
	viper.SetDefault("transport.type", config.Transport.Type)
	viper.SetDefault("transport.host", config.Transport.Host)
	viper.SetDefault("transport.port", config.Transport.Port)

	// Logging defaults
	viper.SetDefault("log_level", config.LogLevel)
	viper.SetDefault("log_format", config.LogFormat)
	viper.SetDefault("log_buffer", config.LogBuffer)

	// LLM defaults
	viper.SetDefault("llm.model", config.LLM.Model)
	viper.SetDefault("llm.base_url", config.LLM.BaseURL)

	// Engine defaults
	viper.SetDefault("engine.base_url", config.Engine.BaseURL)
	viper.SetDefault("engine.timeout", config.Engine.Timeout)

	// Redis defaults
	viper.SetDefault("redis.enabled", config.Redis.Enabled)
	viper.SetDefault("redis.addr", config.Redis.Addr)
	viper.SetDefault("redis.db", config.Redis.DB)

	// Draft defaults
	viper.SetDefault("draft.ttl", config.Draft.TTL)

	// Catalog defaults
	viper.SetDefault("catalog.search_limit", config.Catalog.SearchLimit)

	// Plugin sync defaults
	viper.SetDefault("plugin_sync.enabled", config.PluginSync.Enabled)
	viper.SetDefault("plugin_sync.sync_interval", config.PluginSync.SyncInterval)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func validateConfig(config *ServerConfig) error {
	switch config.Transport.Type {
	case "stdio", "sse":
	default:
		return fmt.Errorf("invalid transport type: %s", config.Transport.Type)
	}

	if config.Transport.Type == "sse" && (config.Transport.Port <= 0 || config.Transport.Port > 65535) {
		return fmt.Errorf("the transport port must be between 1 and 65535")
	}

	if config.Engine.BaseURL == "" {
		return fmt.Errorf("the engine base URL cannot be empty")
	}

	if config.Engine.Timeout <= 0 {
		return fmt.Errorf("the engine timeout must be positive")
	}

	if config.Draft.TTL <= 0 {
		return fmt.Errorf("the draft TTL must be positive")
	}

	if config.Catalog.SearchLimit <= 0 {
		return fmt.Errorf("the catalog search limit must be positive")
	}

	if config.PluginSync.Enabled && config.PluginSync.SyncInterval <= 0 {
		return fmt.Errorf("the plugin sync interval must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	validLogFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validLogFormats[config.LogFormat] {
		return fmt.Errorf("invalid log format: %s", config.LogFormat)
	}

	return nil
}
