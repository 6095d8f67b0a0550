package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/cryptox"
)

type Config struct {
	DatabaseDriver  string
	DatabaseDSN     string
	CachePath       string
	BridgeAddr      string
	BridgeTokenPath string
	BridgeTokenTTL  time.Duration
	BridgeRateLimit float64
	BridgeRateBurst int
	KDFIterations   int
	LogLevel        string
}

func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "vault.db"
	c.CachePath = ""
	c.BridgeAddr = "127.0.0.1:50061"
	c.BridgeTokenPath = "bridge.token"
	c.BridgeTokenTTL = 15 * time.Minute
	c.BridgeRateLimit = 5
	c.BridgeRateBurst = 10
	c.KDFIterations = cryptox.MinIterations
	c.LogLevel = "info"
}

// KDF returns the key derivation settings.
func (c *Config) KDF() cryptox.KDF {
	return cryptox.KDF{Iterations: c.KDFIterations}
}

// LoadConfig applies defaults, then the JSON file, then flags from os.Args.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	if err := cfg.validate(); err != nil {
		panic(err)
	}
	return cfg
}

// MinBridgeTokenTTL is the shortest accepted bridge token lifetime. JWT
// expiry has one-second resolution.
const MinBridgeTokenTTL = time.Second

func (c *Config) validate() error {
	if c.BridgeTokenTTL < MinBridgeTokenTTL {
		return fmt.Errorf("bridge token ttl %s is below %s", c.BridgeTokenTTL, MinBridgeTokenTTL)
	}
	if c.BridgeRateLimit <= 0 {
		return fmt.Errorf("bridge rate limit must be positive, got %v", c.BridgeRateLimit)
	}
	if c.BridgeRateBurst <= 0 {
		return fmt.Errorf("bridge rate burst must be positive, got %d", c.BridgeRateBurst)
	}
	return nil
}
