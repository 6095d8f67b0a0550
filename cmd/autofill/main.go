package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophvault/internal/autofill"
	"github.com/dmitrijs2005/gophvault/internal/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	if err := autofill.Run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "autofill: %v\n", err)
		os.Exit(1)
	}
}
