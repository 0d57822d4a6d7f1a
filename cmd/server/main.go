// Command server runs the seed-to-sale tracking HTTP API.
//
// Configuration is read from CONFIG_PATH (YAML) with environment variable
// overrides. Requires DATABASE_DSN and AUTH_JWT_SECRET at minimum.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/verdantlabs/seedtrace-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
