// Package config
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

/*
YAML config example:
api_key: "..."
secret_key: "..."
testnet: true
log_file: "logs/futures-cli.log"
telegram_token: "..."
telegram_chat_id: "..."
min_notional_usd: 100
margin_floor_usd: 10
default_leverage: 20
*/

// Error is a configuration failure. It is fatal and raised before any
// network call is made.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "config: " + e.Reason
}

type Config struct {
	APIKey    string
	SecretKey string

	Testnet bool
	Verbose bool
	LogFile string

	TelegramToken  string
	TelegramChatID string

	MinNotionalUSD  float64
	MarginFloorUSD  float64
	DefaultLeverage int

	NotificationRetries int
	NotificationDelay   time.Duration
}

// fileConfig mirrors Config for the optional YAML override. Pointer
// fields distinguish "absent" from zero.
type fileConfig struct {
	APIKey         string   `yaml:"api_key"`
	SecretKey      string   `yaml:"secret_key"`
	Testnet        *bool    `yaml:"testnet"`
	LogFile        string   `yaml:"log_file"`
	TelegramToken  string   `yaml:"telegram_token"`
	TelegramChatID string   `yaml:"telegram_chat_id"`
	MinNotionalUSD *float64 `yaml:"min_notional_usd"`
	MarginFloorUSD *float64 `yaml:"margin_floor_usd"`
	DefaultLev     *int     `yaml:"default_leverage"`
}

// Load assembles the configuration: defaults, then environment (a .env
// file is honored when present), then the optional YAML file. Credential
// presence is checked here, before any client exists.
func Load(configFile string, testnet, verbose bool) (Config, error) {
	// A missing .env file is not an error; exported vars still apply.
	_ = godotenv.Load()

	cfg := Config{
		APIKey:              os.Getenv("API_KEY"),
		SecretKey:           os.Getenv("SECRET_KEY"),
		Testnet:             testnet,
		Verbose:             verbose,
		LogFile:             "logs/futures-cli.log",
		TelegramToken:       os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID:      os.Getenv("TELEGRAM_CHAT_ID"),
		MinNotionalUSD:      100,
		MarginFloorUSD:      10,
		DefaultLeverage:     20,
		NotificationRetries: 3,
		NotificationDelay:   5 * time.Second,
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return Config{}, &Error{Reason: fmt.Sprintf("reading config file: %v", err)}
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, &Error{Reason: fmt.Sprintf("parsing config file: %v", err)}
		}
		applyFile(&cfg, fc)
	}

	if err := cfg.checkCredentials(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, fc fileConfig) {
	if fc.APIKey != "" {
		cfg.APIKey = fc.APIKey
	}
	if fc.SecretKey != "" {
		cfg.SecretKey = fc.SecretKey
	}
	if fc.Testnet != nil {
		cfg.Testnet = *fc.Testnet
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.TelegramToken != "" {
		cfg.TelegramToken = fc.TelegramToken
	}
	if fc.TelegramChatID != "" {
		cfg.TelegramChatID = fc.TelegramChatID
	}
	if fc.MinNotionalUSD != nil {
		cfg.MinNotionalUSD = *fc.MinNotionalUSD
	}
	if fc.MarginFloorUSD != nil {
		cfg.MarginFloorUSD = *fc.MarginFloorUSD
	}
	if fc.DefaultLev != nil {
		cfg.DefaultLeverage = *fc.DefaultLev
	}
}

func (c Config) checkCredentials() error {
	if c.APIKey == "" || c.SecretKey == "" {
		return &Error{Reason: "API key or secret key is missing"}
	}
	return nil
}
