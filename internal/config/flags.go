package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/flagx"
)

var knownFlags = []string{"-e", "-d", "-k", "-a", "-f", "-t", "-r", "-b", "-i", "-l"}

// parseFlags overlays cfg with the flags it knows about and ignores the
// rest, so binaries can define their own.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.StringVar(&cfg.DatabaseDriver, "e", cfg.DatabaseDriver, "record store driver (sqlite or postgres)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "record store DSN")
	fs.StringVar(&cfg.CachePath, "k", cfg.CachePath, "cache file (empty for in-memory)")
	fs.StringVar(&cfg.BridgeAddr, "a", cfg.BridgeAddr, "bridge loopback address")
	fs.StringVar(&cfg.BridgeTokenPath, "f", cfg.BridgeTokenPath, "bridge token file")
	ttl := fs.Int("t", int(cfg.BridgeTokenTTL.Minutes()), "bridge token lifetime (in minutes)")
	fs.Float64Var(&cfg.BridgeRateLimit, "r", cfg.BridgeRateLimit, "bridge calls per second")
	fs.IntVar(&cfg.BridgeRateBurst, "b", cfg.BridgeRateBurst, "bridge burst size")
	fs.IntVar(&cfg.KDFIterations, "i", cfg.KDFIterations, "PBKDF2 iterations")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}
	// -t counts whole minutes, so only an explicit -t may replace a finer
	// lifetime from the JSON file.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.BridgeTokenTTL = time.Duration(*ttl) * time.Minute
		}
	})
}
