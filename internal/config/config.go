package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Chain defaults: the wrapped native token, the canonical stablecoin pairs
// used for the base rate, and the ordered pricing whitelist.
const (
	DefaultFactoryAddress = "0x152ee697f2e276fa89e96742e9bb9ab1f2e61be3"
	DefaultReferenceToken = "0x21be370d5312f44cb42ce377bc9b8a0cef1a4c83"
	DefaultUSDCNativePair = "0x50cc648e45b84d68405ba0707e94c507b08e593d"
	DefaultDAINativePair  = "0x6d898d98818e670c695e374ed77cd1753cf109dd"
)

// DefaultWhitelist is ordered by pricing priority; the first member a token
// has a pair with wins.
var DefaultWhitelist = []string{
	"0x21be370d5312f44cb42ce377bc9b8a0cef1a4c83", // wrapped native
	"0x8d11ec38a3eb5e956b052f67da8bdc9bef8abf3e", // DAI
	"0x0575f8738efda7f512e3654f277c77e80c7d2725", // ORI
	"0x04068da6c83afcfa0e13ba15a6696662335d5b75", // USDC
	"0xbc2451aad349b6b43fd05f4f0cc327f8a6bca2d4",
}

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL            string
	Input             string
	Pairs             string
	PGDSN             string
	Checkpoint        string
	CheckpointEnabled bool
	FactoryAddress    string
	ReferenceToken    string
	Whitelist         []string
	USDCNativePair    string
	DAINativePair     string
	MaxRetries        int
	RetryBackoff      time.Duration
	LogLevel          string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PAIRSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("checkpoint", "./data/checkpoint.json")
	v.SetDefault("checkpoint-enabled", true)
	v.SetDefault("factory", DefaultFactoryAddress)
	v.SetDefault("reference-token", DefaultReferenceToken)
	v.SetDefault("whitelist", DefaultWhitelist)
	v.SetDefault("usdc-native-pair", DefaultUSDCNativePair)
	v.SetDefault("dai-native-pair", DefaultDAINativePair)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
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
		RPCURL:            v.GetString("rpc"),
		Input:             v.GetString("in"),
		Pairs:             v.GetString("pairs"),
		PGDSN:             v.GetString("pg-dsn"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		FactoryAddress:    v.GetString("factory"),
		ReferenceToken:    v.GetString("reference-token"),
		Whitelist:         getStringSlice(v, "whitelist"),
		USDCNativePair:    v.GetString("usdc-native-pair"),
		DAINativePair:     v.GetString("dai-native-pair"),
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		LogLevel:          v.GetString("log-level"),
	}

	// IsSet ignores defaults, so an untouched whitelist comes back empty
	if len(cfg.Whitelist) == 0 {
		cfg.Whitelist = DefaultWhitelist
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
