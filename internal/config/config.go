// Package config provides application configuration.
package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultContractAddress is the deployed RPS contract.
const DefaultContractAddress = "0x25c4A7B85A7B673f91F65899B54E687002C5Baee"

// DefaultHDPath is the first Ethereum account of a BIP-44 wallet.
const DefaultHDPath = "m/44'/60'/0'/0/0"

// Config holds all application configuration.
type Config struct {
	Port            string
	FrontendURL     string
	RPCURL          string
	ChainID         *big.Int // nil = ask the RPC endpoint
	ContractAddress string
	Wallet          WalletConfig
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	ConfirmTimeout  time.Duration // 0 = wait for the receipt indefinitely
	CORSOrigins     []string
}

// WalletConfig selects the signing key. At most one source is used, in the
// order private key, keystore, mnemonic.
type WalletConfig struct {
	PrivateKey   string
	KeystorePath string
	Password     string
	Mnemonic     string
	Passphrase   string
	HDPath       string
}

// Configured reports whether any key source is set.
func (w WalletConfig) Configured() bool {
	return w.PrivateKey != "" || w.KeystorePath != "" || w.Mnemonic != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	chainID, err := getEnvBigInt("CHAIN_ID")
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", ""),
		RPCURL:          getEnv("RPC_URL", "http://127.0.0.1:8545"),
		ChainID:         chainID,
		ContractAddress: getEnv("CONTRACT_ADDRESS", DefaultContractAddress),
		Wallet: WalletConfig{
			PrivateKey:   strings.TrimPrefix(getEnv("WALLET_PRIVATE_KEY", ""), "0x"),
			KeystorePath: getEnv("WALLET_KEYSTORE", ""),
			Password:     getEnv("WALLET_PASSWORD", ""),
			Mnemonic:     strings.TrimSpace(getEnv("WALLET_MNEMONIC", "")),
			Passphrase:   getEnv("WALLET_PASSPHRASE", ""),
			HDPath:       getEnv("WALLET_HD_PATH", DefaultHDPath),
		},
		SessionTTL:     getEnvDuration("SESSION_TTL", 60*time.Minute),
		SweepInterval:  getEnvDuration("SWEEP_INTERVAL", time.Minute),
		ConfirmTimeout: getEnvDuration("CONFIRM_TIMEOUT", 0),
		CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"*"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.RPCURL == "" {
		return fmt.Errorf("RPC_URL cannot be empty")
	}
	if !common.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("CONTRACT_ADDRESS %q is not a 20-byte hex address", c.ContractAddress)
	}
	if c.ChainID != nil && c.ChainID.Sign() <= 0 {
		return fmt.Errorf("CHAIN_ID must be > 0")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if c.ConfirmTimeout < 0 {
		return fmt.Errorf("CONFIRM_TIMEOUT cannot be negative")
	}
	if c.Wallet.KeystorePath != "" && c.Wallet.PrivateKey == "" && c.Wallet.Password == "" {
		return fmt.Errorf("WALLET_PASSWORD is required with WALLET_KEYSTORE")
	}
	return nil
}

// Contract returns the parsed contract address. Validate must have passed.
func (c *Config) Contract() common.Address {
	return common.HexToAddress(c.ContractAddress)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getEnvBigInt(key string) (*big.Int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return new(big.Int).SetUint64(n), nil
}
