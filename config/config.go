package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// EVMNetwork is the per-network wallet configuration for EVM chains.
type EVMNetwork struct {
	RPCURL     string
	PrivateKey string
	ChainID    int64
}

// SolanaWallet is the Solana signing configuration.
type SolanaWallet struct {
	RPCURL        string
	PrivateKey    string
	Commitment    string
	SkipPreflight bool
}

// BitcoinWallet is the Bitcoin Core wallet RPC configuration.
type BitcoinWallet struct {
	RPCHost     string
	RPCPort     int
	RPCUsername string
	RPCPassword string
	Network     string
}

// Wallets groups all chain signing configuration. Any entry may be left
// empty; only the chains a swap actually touches need a wallet.
type Wallets struct {
	EVM     map[string]EVMNetwork
	Solana  SolanaWallet
	Bitcoin BitcoinWallet
}

// Config holds the application configuration
type Config struct {
	JWTToken    string
	BaseURL     string
	SlippageBps int32
	FeeBps      int32
	FeeReceiver string
	Wallets     Wallets
}

var globalConfig *Config

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".crosschain-swap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	// Set default values
	viper.SetDefault("base_url", "https://1click.chaindefuser.com")
	viper.SetDefault("slippage_bps", 100)
	viper.SetDefault("wallets.solana.commitment", "confirmed")
	viper.SetDefault("wallets.bitcoin.network", "mainnet")
	viper.SetDefault("wallets.bitcoin.rpc_port", 8332)

	// Read from environment variables
	viper.SetEnvPrefix("CROSSCHAIN_SWAP")
	viper.AutomaticEnv()

	// Read config file (optional)
	_ = viper.ReadInConfig()

	// Create config struct
	cfg := &Config{
		JWTToken:    viper.GetString("jwt_token"),
		BaseURL:     viper.GetString("base_url"),
		SlippageBps: viper.GetInt32("slippage_bps"),
		FeeBps:      viper.GetInt32("fee_bps"),
		FeeReceiver: viper.GetString("fee_receiver"),
		Wallets: Wallets{
			EVM: loadEVMNetworks(),
			Solana: SolanaWallet{
				RPCURL:        viper.GetString("wallets.solana.rpc_url"),
				PrivateKey:    viper.GetString("wallets.solana.private_key"),
				Commitment:    viper.GetString("wallets.solana.commitment"),
				SkipPreflight: viper.GetBool("wallets.solana.skip_preflight"),
			},
			Bitcoin: BitcoinWallet{
				RPCHost:     viper.GetString("wallets.bitcoin.rpc_host"),
				RPCPort:     viper.GetInt("wallets.bitcoin.rpc_port"),
				RPCUsername: viper.GetString("wallets.bitcoin.rpc_username"),
				RPCPassword: viper.GetString("wallets.bitcoin.rpc_password"),
				Network:     viper.GetString("wallets.bitcoin.network"),
			},
		},
	}

	// Validate JWT token
	if cfg.JWTToken == "" {
		return nil, fmt.Errorf("JWT token not found. Please set CROSSCHAIN_SWAP_JWT_TOKEN environment variable or create a .crosschain-swap.yaml config file")
	}

	// A configured fee needs somewhere to go.
	if cfg.FeeBps > 0 && cfg.FeeReceiver == "" {
		return nil, fmt.Errorf("fee_bps is set but fee_receiver is empty")
	}

	globalConfig = cfg
	return cfg, nil
}

// loadEVMNetworks reads the wallets.evm map: one entry per chain alias
// ("eth", "arb", ...), each with rpc_url, private_key and chain_id.
func loadEVMNetworks() map[string]EVMNetwork {
	networks := make(map[string]EVMNetwork)
	raw := viper.GetStringMap("wallets.evm")
	for name := range raw {
		prefix := "wallets.evm." + name
		networks[name] = EVMNetwork{
			RPCURL:     viper.GetString(prefix + ".rpc_url"),
			PrivateKey: viper.GetString(prefix + ".private_key"),
			ChainID:    viper.GetInt64(prefix + ".chain_id"),
		}
	}
	return networks
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}

// Set updates the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}
