package repomanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/pressly/goose/v3"
)

// gooseLogger routes goose progress output into the application logger
// instead of the standard log package.
type gooseLogger struct {
	log logging.Logger
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.log.Debug(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs and panics. goose only calls it from its command runner,
// which this package does not use.
func (g *gooseLogger) Fatalf(format string, v ...any) {
	msg := strings.TrimSpace(fmt.Sprintf(format, v...))
	g.log.Error(context.Background(), msg)
	panic(msg)
}

// SetLogger sends migration output to l. goose keeps a single package-wide
// logger, so the last call wins.
func SetLogger(l logging.Logger) {
	goose.SetLogger(&gooseLogger{log: l.With("module", "migrations")})
}
