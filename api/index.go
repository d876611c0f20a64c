package handler

import (
	"context"
	"net/http"
	"sync"

	"kaamdham/config"
	"kaamdham/di"
	"kaamdham/shared/logger"
	"kaamdham/transport/ws"

	transport "kaamdham/transport/http"
)

var (
	once    sync.Once
	service *transport.HTTP
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	once.Do(func() {
		hub := ws.NewHub()
		go hub.Run(context.Background())

		service = di.InitializeService(hub)
	})

	service.Handler().ServeHTTP(w, r)
}
