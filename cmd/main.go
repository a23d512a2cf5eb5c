package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeffleon2/draftea-storefront-service/config"
	"github.com/jeffleon2/draftea-storefront-service/internal/app"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		logrus.Fatalf("Error reading config: %v", err)
	}

	myApp := &app.App{}
	if err := myApp.Initialize(ctx, cfg); err != nil {
		logrus.Fatalf("Error initializing app: %v", err)
	}
	if err := myApp.Run(ctx); err != nil {
		logrus.Fatalf("Error running app: %v", err)
	}
}
