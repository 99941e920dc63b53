package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// NearConfig holds the NEAR RPC endpoint and the service-operated account.
// The account is optional; without it the agent falls back to manual deposit
// instructions for NEAR-origin swaps.
type NearConfig struct {
	RPCUrl     string
	AccountID  string
	PrivateKey string // ed25519:<base58> as exported by NEAR wallets
}

// DelegatedSignerConfig points at the key-custody service used for
// delegated-wallet execution.
type DelegatedSignerConfig struct {
	BaseURL string
	APIKey  string
}

// EVMNetwork describes a single EVM-compatible network.
type EVMNetwork struct {
	RPCUrl     string
	ChainID    int64
	PrivateKey string
	GasLimit   *uint64
	GasPrice   *int64
}

// SolanaConfig holds the Solana RPC endpoint and signing key.
type SolanaConfig struct {
	RPCUrl        string
	PrivateKey    string
	Commitment    string
	SkipPreflight bool
}

// SessionConfig controls the per-conversation session store.
type SessionConfig struct {
	Store     string // "memory" or "redis"
	Capacity  int
	RedisAddr string
	RedisDB   int
	RedisTTL  time.Duration
}

// Config holds the application configuration.
type Config struct {
	JWTToken  string
	BaseURL   string
	Referral  string
	Slippage  int32 // basis points
	DestChain string
	Near      NearConfig
	Signer    DelegatedSignerConfig
	EVM       map[string]EVMNetwork
	Solana    SolanaConfig
	Session   SessionConfig
}

var globalConfig *Config

// Load reads configuration from environment variables and an optional
// .intents-agent.yaml config file.
func Load() (*Config, error) {
	viper.SetConfigName(".intents-agent")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	viper.SetDefault("base_url", "https://1click.chaindefuser.com")
	viper.SetDefault("slippage_bps", 100)
	viper.SetDefault("dest_chain", "sui")
	viper.SetDefault("near.rpc_url", "https://rpc.mainnet.near.org")
	viper.SetDefault("solana.commitment", "confirmed")
	viper.SetDefault("session.store", "memory")
	viper.SetDefault("session.capacity", 500)
	viper.SetDefault("session.redis_ttl", "24h")

	viper.SetEnvPrefix("INTENTS_AGENT")
	viper.AutomaticEnv()

	// Config file is optional.
	_ = viper.ReadInConfig()

	cfg := &Config{
		JWTToken:  viper.GetString("jwt_token"),
		BaseURL:   viper.GetString("base_url"),
		Referral:  viper.GetString("referral"),
		Slippage:  viper.GetInt32("slippage_bps"),
		DestChain: viper.GetString("dest_chain"),
		Near: NearConfig{
			RPCUrl:     viper.GetString("near.rpc_url"),
			AccountID:  viper.GetString("near.account_id"),
			PrivateKey: viper.GetString("near.private_key"),
		},
		Signer: DelegatedSignerConfig{
			BaseURL: viper.GetString("signer.base_url"),
			APIKey:  viper.GetString("signer.api_key"),
		},
		Solana: SolanaConfig{
			RPCUrl:        viper.GetString("solana.rpc_url"),
			PrivateKey:    viper.GetString("solana.private_key"),
			Commitment:    viper.GetString("solana.commitment"),
			SkipPreflight: viper.GetBool("solana.skip_preflight"),
		},
		Session: SessionConfig{
			Store:     viper.GetString("session.store"),
			Capacity:  viper.GetInt("session.capacity"),
			RedisAddr: viper.GetString("session.redis_addr"),
			RedisDB:   viper.GetInt("session.redis_db"),
			RedisTTL:  viper.GetDuration("session.redis_ttl"),
		},
	}

	if err := viper.UnmarshalKey("evm.networks", &cfg.EVM); err != nil {
		return nil, fmt.Errorf("invalid evm.networks configuration: %w", err)
	}

	if cfg.JWTToken == "" {
		return nil, fmt.Errorf("JWT token not found. Please set INTENTS_AGENT_JWT_TOKEN or create a .intents-agent.yaml config file")
	}

	globalConfig = cfg
	return cfg, nil
}

// Get returns the global configuration, loading it on first use.
func Get() (*Config, error) {
	if globalConfig == nil {
		return Load()
	}
	return globalConfig, nil
}
