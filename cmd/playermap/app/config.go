package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/playermap/internal/config"
	"github.com/agentstation/playermap/internal/server"
	"github.com/agentstation/playermap/pkg/constants"
	"github.com/agentstation/playermap/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Registry and sources
	RegistryPath           string
	BootstrapURL           string
	CrossRefURL            string
	CrossRefAuth           string
	CrossRefToken          string
	KnownTeamsPath         string
	PersistDiscoveredTeams bool
	ConflictPolicy         string
	HTTPTimeout            time.Duration
	SyncInterval           time.Duration

	// Serving endpoint
	Server server.Config

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables
// 3. .env files
// 4. Config file (configFile, else ~/.playermap.yaml or ./.playermap.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.GetViper()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
		// A missing default config file is fine.
		_ = v.ReadInConfig()
	}

	httpTimeout, err := config.GetDuration("http_timeout", constants.DefaultHTTPTimeout)
	if err != nil {
		return nil, err
	}
	syncInterval, err := config.GetDuration("sync_interval", 0)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := config.GetDuration("server.cache_ttl", constants.DefaultCacheTTL)
	if err != nil {
		return nil, err
	}
	scheme, token := config.CrossRefToken()

	srv := server.DefaultConfig()
	srv.Host = v.GetString("server.host")
	srv.Port = v.GetInt("server.port")
	srv.ServePath = v.GetString("server.path")
	srv.RateLimit = v.GetInt("server.rate_limit")
	srv.CORSOrigins = v.GetStringSlice("server.cors_origins")
	srv.CacheTTL = cacheTTL

	cfg := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		RegistryPath:           v.GetString("registry_path"),
		BootstrapURL:           v.GetString("bootstrap_url"),
		CrossRefURL:            v.GetString("crossref_url"),
		CrossRefAuth:           scheme,
		CrossRefToken:          token,
		KnownTeamsPath:         v.GetString("known_teams_path"),
		PersistDiscoveredTeams: v.GetBool("persist_discovered_teams"),
		ConflictPolicy:         v.GetString("conflict_policy"),
		HTTPTimeout:            httpTimeout,
		SyncInterval:           syncInterval,

		Server: srv,

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}
	srv.RegistryPath = cfg.RegistryPath
	cfg.Server = srv

	return cfg, nil
}

// setDefaults registers every key's default so environment variables bind
// to nested keys too.
func setDefaults(v *viper.Viper) {
	v.SetDefault("registry_path", constants.DefaultRegistryPath)
	v.SetDefault("bootstrap_url", constants.DefaultBootstrapURL)
	v.SetDefault("crossref_url", constants.DefaultCrossRefURL)
	v.SetDefault("known_teams_path", "")
	v.SetDefault("persist_discovered_teams", false)
	v.SetDefault("conflict_policy", "source-wins")
	v.SetDefault("server.host", constants.DefaultHost)
	v.SetDefault("server.port", constants.DefaultPort)
	v.SetDefault("server.path", constants.DefaultServePath)
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel, registryPath string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if registryPath != "" {
		c.RegistryPath = registryPath
		c.Server.RegistryPath = registryPath
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local does not override variables already set by .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
