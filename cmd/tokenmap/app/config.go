package app

import (
	stderrors "errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/agentstation/tokenmap"
	"github.com/agentstation/tokenmap/pkg/constants"
	"github.com/agentstation/tokenmap/pkg/errors"
	"github.com/agentstation/tokenmap/pkg/tokens"
	"github.com/agentstation/tokenmap/pkg/verifier"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "TOKENMAP"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Sources
	WorkDir       string
	OverridesPath string
	ScamsPath     string
	ChainID       uint64
	TokenLists    map[string]string
	Repositories  tokenmap.Repositories

	// Verification
	Policy        string
	Aggregators   []string
	MinMarketCap  string
	BatchSize     int
	MarketDataURL string
	MarketDataKey string

	// Reconciliation
	StrictDecimals bool

	// Output
	OutputDir     string
	MetricsFile   string
	WatchInterval time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (TOKENMAP_*)
// 3. .env files
// 4. Config file (.tokenmap.yaml in the working directory or $HOME)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("market_data.api_key", EnvPrefix+"_MARKET_DATA_API_KEY", "COINGECKO_API_KEY"); err != nil {
		return nil, &errors.ConfigError{Component: "config", Message: "binding api key", Err: err}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".tokenmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !stderrors.As(err, &notFound) {
			return nil, &errors.ConfigError{Component: "config", Message: "reading config file", Err: err}
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		WorkDir:       v.GetString("work_dir"),
		OverridesPath: v.GetString("overrides_path"),
		ScamsPath:     v.GetString("scams_path"),
		ChainID:       v.GetUint64("chain_id"),
		TokenLists:    v.GetStringMapString("token_lists"),
		Repositories: tokenmap.Repositories{
			ContractMap:   v.GetString("repositories.contract_map"),
			EthereumLists: v.GetString("repositories.ethereum_lists"),
			Icons:         v.GetString("repositories.icons"),
			IconOverrides: v.GetString("repositories.icon_overrides"),
		},

		Policy:        v.GetString("verification.policy"),
		Aggregators:   v.GetStringSlice("verification.aggregators"),
		MinMarketCap:  v.GetString("verification.min_market_cap"),
		BatchSize:     v.GetInt("verification.batch_size"),
		MarketDataURL: v.GetString("market_data.url"),
		MarketDataKey: v.GetString("market_data.api_key"),

		StrictDecimals: v.GetBool("overrides.strict_decimals"),

		OutputDir:     v.GetString("output_dir"),
		MetricsFile:   v.GetString("metrics_file"),
		WatchInterval: v.GetDuration("watch_interval"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
	if config.LogLevel == "" {
		config.LogLevel = os.Getenv("LOG_LEVEL")
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("work_dir", constants.DefaultWorkDir)
	v.SetDefault("output_dir", constants.DefaultOutputDir)
	v.SetDefault("overrides_path", constants.DefaultOverridesPath)
	v.SetDefault("scams_path", constants.DefaultScamsPath)
	v.SetDefault("chain_id", constants.DefaultChainID)
	v.SetDefault("repositories.contract_map", tokenmap.DefaultRepositories.ContractMap)
	v.SetDefault("repositories.ethereum_lists", tokenmap.DefaultRepositories.EthereumLists)
	v.SetDefault("repositories.icons", tokenmap.DefaultRepositories.Icons)
	v.SetDefault("repositories.icon_overrides", tokenmap.DefaultRepositories.IconOverrides)
	v.SetDefault("verification.policy", string(verifier.PolicyMarketCap))
	v.SetDefault("verification.aggregators", []string{string(tokens.CoinGeckoList), string(tokens.UniswapList)})
	v.SetDefault("verification.min_market_cap", decimal.NewFromInt(constants.MinMarketCapUSD).String())
	v.SetDefault("verification.batch_size", constants.MarketDataBatchSize)
	v.SetDefault("overrides.strict_decimals", true)
	v.SetDefault("watch_interval", constants.DefaultWatchInterval)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Options converts the configuration into client options.
func (c *Config) Options() ([]tokenmap.Option, error) {
	opts := []tokenmap.Option{
		tokenmap.WithWorkDir(c.WorkDir),
		tokenmap.WithRepositories(c.Repositories),
		tokenmap.WithOverridesPath(c.OverridesPath),
		tokenmap.WithScamsPath(c.ScamsPath),
		tokenmap.WithOutputDir(c.OutputDir),
		tokenmap.WithStrictDecimals(c.StrictDecimals),
		tokenmap.WithMarketDataURL(c.MarketDataURL),
		tokenmap.WithMarketDataAPIKey(c.MarketDataKey),
		tokenmap.WithMetricsFile(c.MetricsFile),
	}

	if c.ChainID != 0 {
		opts = append(opts, tokenmap.WithChainID(c.ChainID))
	}
	if c.Policy != "" {
		policy, err := verifier.ParsePolicy(c.Policy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tokenmap.WithPolicy(policy))
	}
	switch len(c.Aggregators) {
	case 0:
	case 2:
		opts = append(opts, tokenmap.WithAggregators(
			tokens.ListID(strings.ToLower(c.Aggregators[0])),
			tokens.ListID(strings.ToLower(c.Aggregators[1])),
		))
	default:
		return nil, &errors.ValidationError{
			Field:   "verification.aggregators",
			Value:   c.Aggregators,
			Message: "must name exactly two lists",
		}
	}
	if c.MinMarketCap != "" {
		minCap, err := decimal.NewFromString(c.MinMarketCap)
		if err != nil {
			return nil, &errors.ValidationError{
				Field:   "verification.min_market_cap",
				Value:   c.MinMarketCap,
				Message: "must be a decimal number",
			}
		}
		opts = append(opts, tokenmap.WithMinMarketCap(minCap))
	}
	if c.BatchSize != 0 {
		opts = append(opts, tokenmap.WithBatchSize(c.BatchSize))
	}
	if c.WatchInterval > 0 {
		opts = append(opts, tokenmap.WithWatchInterval(c.WatchInterval))
	}
	for id, url := range c.TokenLists {
		opts = append(opts, tokenmap.WithListURL(tokens.ListID(strings.ToLower(id)), url))
	}
	return opts, nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so its values win over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
