package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophvault/internal/flagx"
	"github.com/dmitrijs2005/gophvault/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent fields keep
// the value they had before the file was read.
type JsonConfig struct {
	DatabaseDriver  string         `json:"database_driver"`
	DatabaseDSN     string         `json:"database_dsn"`
	CachePath       string         `json:"cache_path"`
	BridgeAddr      string         `json:"bridge_addr"`
	BridgeTokenPath string         `json:"bridge_token_path"`
	BridgeTokenTTL  timex.Duration `json:"bridge_token_ttl"`
	BridgeRateLimit float64        `json:"bridge_rate_limit"`
	BridgeRateBurst int            `json:"bridge_rate_burst"`
	KDFIterations   int            `json:"kdf_iterations"`
	LogLevel        string         `json:"log_level"`
}

func parseJson(cfg *Config, args []string) {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DatabaseDriver, jc.DatabaseDriver)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.CachePath, jc.CachePath)
	setString(&cfg.BridgeAddr, jc.BridgeAddr)
	setString(&cfg.BridgeTokenPath, jc.BridgeTokenPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.BridgeTokenTTL.Duration != 0 {
		cfg.BridgeTokenTTL = jc.BridgeTokenTTL.Duration
	}
	if jc.BridgeRateLimit != 0 {
		cfg.BridgeRateLimit = jc.BridgeRateLimit
	}
	if jc.BridgeRateBurst != 0 {
		cfg.BridgeRateBurst = jc.BridgeRateBurst
	}
	if jc.KDFIterations != 0 {
		cfg.KDFIterations = jc.KDFIterations
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
