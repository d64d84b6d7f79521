package config

import (
	"time"

	"github.com/dtereshin/callview/internal/core"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	Auth    AuthConfig    `mapstructure:"auth" yaml:"auth"`
	LiveKit LiveKitConfig `mapstructure:"livekit" yaml:"livekit"`
	Call    CallConfig    `mapstructure:"call" yaml:"call"`
}

// AuthConfig holds session-token signing settings.
type AuthConfig struct {
	Secret   string        `mapstructure:"secret" yaml:"secret"`
	Issuer   string        `mapstructure:"issuer" yaml:"issuer"`
	Audience string        `mapstructure:"audience" yaml:"audience"`
	TokenTTL time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
}

// LiveKitConfig holds SFU credentials for media-token minting.
type LiveKitConfig struct {
	URL       string `mapstructure:"url" yaml:"url"`
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	APISecret string `mapstructure:"api_secret" yaml:"api_secret"`
}

// CallConfig holds per-call view-model defaults.
type CallConfig struct {
	ShowNonMemberTiles bool          `mapstructure:"show_non_member_tiles" yaml:"show_non_member_tiles"`
	ShowSelf           bool          `mapstructure:"show_self" yaml:"show_self"`
	ChromeHideDelay    time.Duration `mapstructure:"chrome_hide_delay" yaml:"chrome_hide_delay"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		Auth: AuthConfig{
			Secret:   "dev-secret-change-me",
			Issuer:   "callview",
			Audience: "callview",
			TokenTTL: 24 * time.Hour,
		},
		LiveKit: LiveKitConfig{
			URL: "ws://localhost:7880",
		},
		Call: CallConfig{
			ShowSelf:        true,
			ChromeHideDelay: core.DefaultChromeHideDelay,
		},
	}
}

// Settings maps the call section onto view-model settings.
func (c CallConfig) Settings() core.Settings {
	return core.Settings{
		ShowNonMemberTiles: c.ShowNonMemberTiles,
		ShowSelf:           c.ShowSelf,
		ChromeHideDelay:    c.ChromeHideDelay,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Auth.Secret != "" {
		c.Auth.Secret = other.Auth.Secret
	}
	if other.LiveKit.URL != "" {
		c.LiveKit.URL = other.LiveKit.URL
	}
	if other.LiveKit.APIKey != "" {
		c.LiveKit.APIKey = other.LiveKit.APIKey
	}
	if other.LiveKit.APISecret != "" {
		c.LiveKit.APISecret = other.LiveKit.APISecret
	}
	if other.Call.ChromeHideDelay != 0 {
		c.Call.ChromeHideDelay = other.Call.ChromeHideDelay
	}
}
