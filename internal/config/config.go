package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Chain struct {
		RPCURL          string `yaml:"rpc_url" env:"KICK_RPC_URL"`
		ChainID         int64  `yaml:"chain_id" env:"KICK_CHAIN_ID"`
		ContractAddress string `yaml:"contract_address" env:"KICK_CONTRACT_ADDRESS"`
		ExplorerURL     string `yaml:"explorer_url" env:"KICK_EXPLORER_URL"`
		FeeSymbol       string `yaml:"fee_symbol" env:"KICK_FEE_SYMBOL"`
	} `yaml:"chain"`
	Wallet struct {
		PrivateKey string `yaml:"private_key" env:"KICK_PRIVATE_KEY"`
	} `yaml:"wallet"`
	Engine struct {
		ReceiptInterval  time.Duration `yaml:"receipt_interval" env:"KICK_RECEIPT_INTERVAL"`
		ReceiptTimeout   time.Duration `yaml:"receipt_timeout" env:"KICK_RECEIPT_TIMEOUT"`
		PollInterval     time.Duration `yaml:"poll_interval" env:"KICK_POLL_INTERVAL"`
		PollTimeout      time.Duration `yaml:"poll_timeout" env:"KICK_POLL_TIMEOUT"`
		ResultDwell      time.Duration `yaml:"result_dwell" env:"KICK_RESULT_DWELL"`
		FallbackGasLimit uint64        `yaml:"fallback_gas_limit" env:"KICK_FALLBACK_GAS_LIMIT"`
		DebugLogSize     int           `yaml:"debug_log_size"`
	} `yaml:"engine"`
	Schedule struct {
		FeeCron   string `yaml:"fee_cron" env:"CRON_FEE"`
		StatsCron string `yaml:"stats_cron" env:"CRON_STATS"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
	} `yaml:"telegram"`
	HTTP struct {
		ListenAddr string `yaml:"listen_addr" env:"KICK_HTTP_ADDR"`
		JWTSecret  string `yaml:"jwt_secret" env:"KICK_JWT_SECRET"`
	} `yaml:"http"`
	State struct {
		PendingFile string `yaml:"pending_file" env:"KICK_PENDING_FILE"`
	} `yaml:"state"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	} `yaml:"database"`
	Telemetry struct {
		ServiceName  string `yaml:"service_name" env:"OTEL_SERVICE_NAME"`
		OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	} `yaml:"telemetry"`
	Proxy string `yaml:"proxy" env:"HTTPS_PROXY"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides; unset variables keep the file value.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Defaults
	if cfg.Chain.FeeSymbol == "" {
		cfg.Chain.FeeSymbol = "MON"
	}
	if cfg.Engine.ReceiptInterval == 0 {
		cfg.Engine.ReceiptInterval = time.Second
	}
	if cfg.Engine.PollInterval == 0 {
		cfg.Engine.PollInterval = 2 * time.Second
	}
	if cfg.Engine.ResultDwell == 0 {
		cfg.Engine.ResultDwell = 4 * time.Second
	}
	if cfg.Engine.FallbackGasLimit == 0 {
		cfg.Engine.FallbackGasLimit = 300000
	}
	if cfg.Engine.DebugLogSize == 0 {
		cfg.Engine.DebugLogSize = 10
	}
	if cfg.Schedule.FeeCron == "" {
		cfg.Schedule.FeeCron = "@every 1m"
	}
	if cfg.Schedule.StatsCron == "" {
		cfg.Schedule.StatsCron = "@every 30s"
	}
	if cfg.State.PendingFile == "" {
		cfg.State.PendingFile = "data/pending_kick.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/kickrelay.db"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "kickrelay"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Chain.RPCURL == "" {
		return fmt.Errorf("chain.rpc_url is required")
	}
	if c.Chain.ChainID <= 0 {
		return fmt.Errorf("chain.chain_id must be positive")
	}
	if !common.IsHexAddress(c.Chain.ContractAddress) {
		return fmt.Errorf("chain.contract_address %q is not a valid address", c.Chain.ContractAddress)
	}
	if c.Wallet.PrivateKey == "" {
		return fmt.Errorf("wallet.private_key is required")
	}
	if c.Engine.ReceiptInterval <= 0 || c.Engine.PollInterval <= 0 {
		return fmt.Errorf("engine intervals must be positive")
	}
	if c.Engine.ReceiptTimeout < 0 || c.Engine.PollTimeout < 0 {
		return fmt.Errorf("engine timeouts must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when bot_token is set")
	}
	return nil
}

// TelegramEnabled reports whether the notifier should run.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
