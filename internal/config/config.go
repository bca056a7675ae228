package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment and an
// optional config file. Environment variables use the ASSOCSYNC_ prefix with
// dots replaced by underscores, e.g. ASSOCSYNC_HUBSPOT_TOKEN.
type Config struct {
	Addr      string // addr, default ":8080"
	DBPath    string // db, default "assocsync.db"
	AuthToken string // auth_token, optional
	HubSpot   HubSpot
	Log       Log
}

// HubSpot configures the CRM client.
type HubSpot struct {
	BaseURL string        // hubspot.base_url
	Token   string        // hubspot.token, used for tenants without their own
	Timeout time.Duration // hubspot.timeout, default 30s
	// TenantTokens maps customer IDs to tokens (hubspot.tenant_tokens). From
	// the environment it is read as a JSON object. Viper lowercases map
	// keys read from a file, so customer IDs there must be lower case.
	TenantTokens map[string]string
}

// Log configures the slog handler.
type Log struct {
	Level  string // log.level: debug, info, warn or error
	Format string // log.format: text or json
}

const envPrefix = "ASSOCSYNC"

// Load reads configuration. configFile names a YAML file to read; when empty
// assocsync.yaml is looked up in the working directory and skipped if absent.
func Load(configFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("db", "assocsync.db")
	v.SetDefault("auth_token", "")
	v.SetDefault("hubspot.base_url", "https://api.hubapi.com")
	v.SetDefault("hubspot.token", "")
	v.SetDefault("hubspot.timeout", 30*time.Second)
	v.SetDefault("hubspot.tenant_tokens", map[string]string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("assocsync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Addr:      v.GetString("addr"),
		DBPath:    v.GetString("db"),
		AuthToken: v.GetString("auth_token"),
		HubSpot: HubSpot{
			BaseURL:      v.GetString("hubspot.base_url"),
			Token:        v.GetString("hubspot.token"),
			Timeout:      v.GetDuration("hubspot.timeout"),
			TenantTokens: v.GetStringMapString("hubspot.tenant_tokens"),
		},
		Log: Log{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}
	if cfg.HubSpot.Timeout <= 0 {
		return Config{}, fmt.Errorf("hubspot.timeout must be positive, got %s", cfg.HubSpot.Timeout)
	}
	return cfg, nil
}
