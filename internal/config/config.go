package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults for the external collaborators and the tabular log.
const (
	DefaultWSURL       = "wss://pumpportal.fun/api/data"
	DefaultOut         = "./data/pump_fun_data.csv"
	DefaultReachAPIURL = "https://api.tweetscout.io/v2"
	DefaultRiskAPIURL  = "https://api.rugcheck.xyz/v1"
)

// Config holds configuration values loaded from flags, env, or config file.
// It is built once at startup and treated as immutable afterwards.
type Config struct {
	WSURL string
	Out   string
	PGDSN string

	MinInitialBuy float64
	MinSolAmount  float64
	MinMarketCap  float64

	MinReach  int64
	Blacklist []string

	ReachAPIURL string
	ReachAPIKey string
	RiskAPIURL  string

	MaxRiskScore      float64
	EnrichConcurrency int
	HTTPTimeout       time.Duration
	ShutdownGrace     time.Duration
	LogLevel          string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("ws-url", DefaultWSURL)
	v.SetDefault("out", DefaultOut)
	v.SetDefault("min-initial-buy", 1000.0)
	v.SetDefault("min-sol-amount", 0.01)
	v.SetDefault("min-market-cap", 30.0)
	v.SetDefault("min-reach", int64(30000))
	v.SetDefault("blacklist", []string{"elonmusk", "nypost", "pumpdotfun"})
	v.SetDefault("reach-api-url", DefaultReachAPIURL)
	v.SetDefault("risk-api-url", DefaultRiskAPIURL)
	v.SetDefault("max-risk-score", 500.0)
	v.SetDefault("enrich-concurrency", 4)
	v.SetDefault("http-timeout", 10*time.Second)
	v.SetDefault("shutdown-grace", 5*time.Second)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		WSURL:             v.GetString("ws-url"),
		Out:               v.GetString("out"),
		PGDSN:             v.GetString("pg-dsn"),
		MinInitialBuy:     v.GetFloat64("min-initial-buy"),
		MinSolAmount:      v.GetFloat64("min-sol-amount"),
		MinMarketCap:      v.GetFloat64("min-market-cap"),
		MinReach:          v.GetInt64("min-reach"),
		Blacklist:         getStringSlice(v, "blacklist"),
		ReachAPIURL:       v.GetString("reach-api-url"),
		ReachAPIKey:       v.GetString("reach-api-key"),
		RiskAPIURL:        v.GetString("risk-api-url"),
		MaxRiskScore:      v.GetFloat64("max-risk-score"),
		EnrichConcurrency: v.GetInt("enrich-concurrency"),
		HTTPTimeout:       v.GetDuration("http-timeout"),
		ShutdownGrace:     v.GetDuration("shutdown-grace"),
		LogLevel:          v.GetString("log-level"),
	}

	return cfg, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
