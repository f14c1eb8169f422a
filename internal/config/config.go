package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Serper    SerperConfig    `yaml:"serper" mapstructure:"serper"`
	Apollo    ApolloConfig    `yaml:"apollo" mapstructure:"apollo"`
	SocialKit SocialKitConfig `yaml:"socialkit" mapstructure:"socialkit"`
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Qualify   QualifyConfig   `yaml:"qualify" mapstructure:"qualify"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SerperConfig holds Serper.dev web search settings.
type SerperConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ApolloConfig holds Apollo.io enrichment settings.
type ApolloConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// SocialKitConfig holds social profile API settings.
type SocialKitConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// JinaConfig holds Jina AI Reader settings.
type JinaConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// DiscoveryConfig configures the tier cascade.
type DiscoveryConfig struct {
	AdapterTimeoutSecs int    `yaml:"adapter_timeout_secs" mapstructure:"adapter_timeout_secs"`
	DefaultTargetCount int    `yaml:"default_target_count" mapstructure:"default_target_count"`
	DefaultDepth       string `yaml:"default_depth" mapstructure:"default_depth"`
}

// QualifyConfig configures the qualification pass.
type QualifyConfig struct {
	MaxToQualify int    `yaml:"max_to_qualify" mapstructure:"max_to_qualify"`
	PatternsFile string `yaml:"patterns_file" mapstructure:"patterns_file"`
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
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadscout.db")
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("apollo.base_url", "https://api.apollo.io/v1")
	v.SetDefault("apollo.rate_per_sec", 2)
	v.SetDefault("socialkit.base_url", "https://api.socialkit.dev/v1")
	v.SetDefault("socialkit.rate_per_sec", 3)
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("discovery.adapter_timeout_secs", 60)
	v.SetDefault("discovery.default_target_count", 20)
	v.SetDefault("discovery.default_depth", "deep")
	v.SetDefault("qualify.max_to_qualify", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the fields required for the given run mode.
func (c *Config) Validate(mode string) error {
	var problems []string

	checkCommon := func() {
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
		if c.Discovery.AdapterTimeoutSecs <= 0 {
			problems = append(problems, "discovery.adapter_timeout_secs must be > 0")
		}
		if c.Discovery.DefaultTargetCount <= 0 {
			problems = append(problems, "discovery.default_target_count must be > 0")
		}
	}

	switch mode {
	case "discover":
		checkCommon()
	case "qualify":
		checkCommon()
		if c.Qualify.MaxToQualify <= 0 || c.Qualify.MaxToQualify > 100 {
			problems = append(problems, "qualify.max_to_qualify must be between 1 and 100")
		}
	case "serve":
		checkCommon()
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
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
