package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
chain:
  rpc_url: https://testnet-rpc.monad.xyz
  chain_id: 10143
  contract_address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
wallet:
  private_key: "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
engine:
  poll_interval: 3s
  receipt_timeout: 90s
telegram:
  bot_token: file-token
  chat_id: "42"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Chain.ChainID != 10143 {
		t.Errorf("chain id = %d", cfg.Chain.ChainID)
	}
	if cfg.Engine.PollInterval != 3*time.Second || cfg.Engine.ReceiptTimeout != 90*time.Second {
		t.Errorf("durations not parsed: %+v", cfg.Engine)
	}
	if cfg.Engine.ReceiptInterval != time.Second || cfg.Engine.ResultDwell != 4*time.Second {
		t.Errorf("defaults not applied: %+v", cfg.Engine)
	}
	if cfg.Engine.FallbackGasLimit != 300000 || cfg.Engine.DebugLogSize != 10 {
		t.Errorf("defaults not applied: %+v", cfg.Engine)
	}
	if cfg.Engine.PollTimeout != 0 {
		t.Errorf("unset timeout should stay 0 (unbounded), got %s", cfg.Engine.PollTimeout)
	}
	if !cfg.TelegramEnabled() {
		t.Error("telegram should be enabled")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("KICK_CHAIN_ID", "1")
	t.Setenv("KICK_POLL_INTERVAL", "500ms")

	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("bot token = %q", cfg.Telegram.BotToken)
	}
	if cfg.Chain.ChainID != 1 {
		t.Errorf("chain id = %d", cfg.Chain.ChainID)
	}
	if cfg.Engine.PollInterval != 500*time.Millisecond {
		t.Errorf("poll interval = %s", cfg.Engine.PollInterval)
	}
	if cfg.Chain.RPCURL != "https://testnet-rpc.monad.xyz" {
		t.Errorf("file value lost: %q", cfg.Chain.RPCURL)
	}
}

func TestMissingFileUsesEnv(t *testing.T) {
	t.Setenv("KICK_RPC_URL", "http://127.0.0.1:8545")
	t.Setenv("KICK_CHAIN_ID", "31337")
	t.Setenv("KICK_CONTRACT_ADDRESS", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	t.Setenv("KICK_PRIVATE_KEY", "abc")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram enabled without token")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no rpc", func(c *Config) { c.Chain.RPCURL = "" }},
		{"no chain id", func(c *Config) { c.Chain.ChainID = 0 }},
		{"bad contract", func(c *Config) { c.Chain.ContractAddress = "0x123" }},
		{"no key", func(c *Config) { c.Wallet.PrivateKey = "" }},
		{"negative timeout", func(c *Config) { c.Engine.PollTimeout = -time.Second }},
		{"token without chat", func(c *Config) { c.Telegram.ChatID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, sampleYAML))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
