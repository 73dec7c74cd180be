package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/dejanjanjic/report-incident-backend/config"
	"github.com/dejanjanjic/report-incident-backend/internal/gateway"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := gateway.New(config.MustLoadGateway())
	if err != nil {
		log.Fatalf("failed to init gateway: %v", err)
	}

	if err := server.Run(ctx); err != nil {
		log.Printf("gateway stopped: %v", err)
	}
}
