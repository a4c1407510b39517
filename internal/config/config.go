package config

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Statbank  StatbankConfig  `yaml:"statbank" mapstructure:"statbank"`
	DAWA      DAWAConfig      `yaml:"dawa" mapstructure:"dawa"`
	Broadband BroadbandConfig `yaml:"broadband" mapstructure:"broadband"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Reference ReferenceConfig `yaml:"reference" mapstructure:"reference"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StatbankConfig points at the Danmarks Statistik data API.
type StatbankConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// DAWAConfig points at the address-normalisation service.
type DAWAConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// BroadbandConfig points at the broadband coverage feed.
type BroadbandConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	UID     string `yaml:"uid" mapstructure:"uid"`
}

// HTTPConfig configures the shared outbound HTTP transport.
type HTTPConfig struct {
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second per host
}

// ReferenceConfig optionally overrides the embedded reference tables.
type ReferenceConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("NEIGHBOURHOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("statbank.base_url", "https://api.statbank.dk/v1")
	v.SetDefault("dawa.base_url", "https://api.dataforsyningen.dk")
	v.SetDefault("broadband.base_url", "https://tjekditnet.dk/pls/wopdprod/tdn_feed")
	v.SetDefault("broadband.uid", "736912")
	v.SetDefault("http.timeout_secs", 30)
	v.SetDefault("http.user_agent", "neighbourhood-cli/1.0")
	v.SetDefault("http.max_attempts", 1)
	v.SetDefault("http.rate_limit", 10)
	v.SetDefault("reference.path", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is "check" for the
// address pipeline and "serve" for the HTTP server (which also needs the pipeline).
func (c *Config) Validate(mode string) error {
	var errs []string

	checkURL := func(key, raw string) {
		if raw == "" {
			errs = append(errs, key+" is required")
			return
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, key+" must be an absolute URL")
		}
	}

	switch mode {
	case "check", "serve":
		checkURL("statbank.base_url", c.Statbank.BaseURL)
		checkURL("dawa.base_url", c.DAWA.BaseURL)
		checkURL("broadband.base_url", c.Broadband.BaseURL)
		if c.Broadband.UID == "" {
			errs = append(errs, "broadband.uid is required")
		}
		if c.HTTP.TimeoutSecs <= 0 {
			errs = append(errs, "http.timeout_secs must be > 0")
		}
		if c.HTTP.MaxAttempts < 1 {
			errs = append(errs, "http.max_attempts must be >= 1")
		}
		if c.HTTP.RateLimit <= 0 {
			errs = append(errs, "http.rate_limit must be > 0")
		}
		if mode == "serve" && (c.Server.Port <= 0 || c.Server.Port > 65535) {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
