package main

import (
	"context"

	"kaamdham/config"
	"kaamdham/di"
	"kaamdham/shared/logger"
	"kaamdham/transport/ws"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	http := di.InitializeService(hub)
	http.Serve()
}
