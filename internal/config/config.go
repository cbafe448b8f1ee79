package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     App     `mapstructure:"app"`
	AI      AI      `mapstructure:"ai"`
	Catalog Catalog `mapstructure:"catalog"`
	Market  Market  `mapstructure:"market"`
	Search  Search  `mapstructure:"search"`
	Scoring Scoring `mapstructure:"scoring"`
	Store   Store   `mapstructure:"store"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
}

// AI holds LLM configuration
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
}

// Catalog holds configuration for the primary structured catalog API.
// The access token is acquired externally; this module only consumes it.
type Catalog struct {
	Endpoint      string `mapstructure:"endpoint"`
	MarketplaceID string `mapstructure:"marketplace_id"`
	AccessToken   string `mapstructure:"access_token"`
	Timeout       string `mapstructure:"timeout"`
}

// Market holds configuration for the fallback product API and the
// scraping fallback.
type Market struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	Domain   string `mapstructure:"domain"`
	Timeout  string `mapstructure:"timeout"`
}

// Search holds pipeline search behavior configuration
type Search struct {
	FallbackProvider string `mapstructure:"fallback_provider"` // "api" or "scrape"
	OverfetchFactor  int    `mapstructure:"overfetch_factor"`
	OverfetchMin     int    `mapstructure:"overfetch_min"`
	AdSampleSize     int    `mapstructure:"ad_sample_size"` // results analyzed for ad pressure
}

// Weights is the scoring weight table. The weights must sum to 1.0.
type Weights struct {
	Rating     float64 `mapstructure:"rating"`
	Reviews    float64 `mapstructure:"reviews"`
	Rank       float64 `mapstructure:"rank"`
	Margin     float64 `mapstructure:"margin"`
	AdPressure float64 `mapstructure:"ad_pressure"`
}

// Scoring holds the weight table and the heuristic constants used by the
// enrichment and scoring stages. These are deliberate business estimates.
type Scoring struct {
	Weights        Weights `mapstructure:"weights"`
	WholesaleRatio float64 `mapstructure:"wholesale_ratio"` // wholesale = retail * ratio
	ReviewNorm     float64 `mapstructure:"review_norm"`     // review count cap for normalization
	RankNorm       float64 `mapstructure:"rank_norm"`       // best-seller rank cap for normalization
	AdTermLow      float64 `mapstructure:"ad_term_low"`
	AdTermMedium   float64 `mapstructure:"ad_term_medium"`
	AdTermHigh     float64 `mapstructure:"ad_term_high"`
}

// Store holds persistence configuration
type Store struct {
	Directory string `mapstructure:"directory"`
}

var globalConfig *Config

// Load loads the configuration from .env, config file, environment
// variables, and defaults, in the usual viper precedence order.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".trendscout")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.App.DataDir != "" {
		config.App.DataDir = expandPath(config.App.DataDir)
	}
	if config.Store.Directory == "" {
		config.Store.Directory = config.App.DataDir
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached global configuration. Intended for tests.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".trendscout")

	// AI defaults
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash-preview-05-20")
	viper.SetDefault("ai.gemini.max_tokens", 512)
	viper.SetDefault("ai.gemini.temperature", 0.2)

	// Catalog API defaults (US marketplace)
	viper.SetDefault("catalog.endpoint", "https://sellingpartnerapi-na.amazon.com")
	viper.SetDefault("catalog.marketplace_id", "ATVPDKIKX0DER")
	viper.SetDefault("catalog.timeout", "30s")

	// Fallback product API defaults
	viper.SetDefault("market.endpoint", "https://api.rainforestapi.com/request")
	viper.SetDefault("market.domain", "amazon.com")
	viper.SetDefault("market.timeout", "30s")

	// Search defaults
	viper.SetDefault("search.fallback_provider", "api")
	viper.SetDefault("search.overfetch_factor", 3)
	viper.SetDefault("search.overfetch_min", 15)
	viper.SetDefault("search.ad_sample_size", 20)

	// Scoring defaults: the ad-pressure weight table
	viper.SetDefault("scoring.weights.rating", 0.25)
	viper.SetDefault("scoring.weights.reviews", 0.15)
	viper.SetDefault("scoring.weights.rank", 0.20)
	viper.SetDefault("scoring.weights.margin", 0.25)
	viper.SetDefault("scoring.weights.ad_pressure", 0.15)
	viper.SetDefault("scoring.wholesale_ratio", 0.55)
	viper.SetDefault("scoring.review_norm", 5000)
	viper.SetDefault("scoring.rank_norm", 100)
	viper.SetDefault("scoring.ad_term_low", 1.0)
	viper.SetDefault("scoring.ad_term_medium", 0.5)
	viper.SetDefault("scoring.ad_term_high", 0.1)
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys("catalog.access_token", []string{
		"CATALOG_ACCESS_TOKEN",
		"AMAZON_ACCESS_TOKEN",
	})

	bindEnvKeys("catalog.marketplace_id", []string{
		"CATALOG_MARKETPLACE_ID",
	})

	bindEnvKeys("market.api_key", []string{
		"MARKET_API_KEY",
		"RAINFOREST_API_KEY",
	})

	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"TRENDSCOUT_DEBUG",
	})

	bindEnvKeys("search.fallback_provider", []string{
		"FALLBACK_PROVIDER",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// expandPath expands ~ to the home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// validateConfig validates configuration values
func validateConfig(config *Config) error {
	w := config.Scoring.Weights
	sum := w.Rating + w.Reviews + w.Rank + w.Margin + w.AdPressure
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.4f", sum)
	}

	if config.Scoring.WholesaleRatio <= 0 || config.Scoring.WholesaleRatio >= 1 {
		return fmt.Errorf("scoring.wholesale_ratio must be in (0, 1), got %.2f", config.Scoring.WholesaleRatio)
	}

	switch config.Search.FallbackProvider {
	case "api", "scrape":
	default:
		return fmt.Errorf("search.fallback_provider must be \"api\" or \"scrape\", got %q", config.Search.FallbackProvider)
	}

	return nil
}

// Convenience accessors for commonly used values
func GetApp() App         { return Get().App }
func GetCatalog() Catalog { return Get().Catalog }
func GetMarket() Market   { return Get().Market }
func GetSearch() Search   { return Get().Search }
func GetScoring() Scoring { return Get().Scoring }
func GetStore() Store     { return Get().Store }

func GetGeminiAPIKey() string { return Get().AI.Gemini.APIKey }
func GetGeminiModel() string  { return Get().AI.Gemini.Model }
func IsDebugMode() bool       { return Get().App.Debug }
