//go:build wireinject
// +build wireinject

package di

import (
	"kaamdham/config"
	"kaamdham/infras/jwt"
	"kaamdham/infras/kafka"
	"kaamdham/infras/otel"
	"kaamdham/infras/payment"
	"kaamdham/infras/postgres"
	"kaamdham/infras/redis"
	"kaamdham/infras/s3"
	"kaamdham/infras/sms"
	"kaamdham/internal/events"
	"kaamdham/permissions"
	"kaamdham/shared/cache"
	"kaamdham/shared/otp"
	"kaamdham/transport/http"
	"kaamdham/transport/http/middleware"
	"kaamdham/transport/http/router"
	"kaamdham/transport/ws"

	"github.com/google/wire"

	applicationRepository "kaamdham/internal/domains/application/repository"
	applicationService "kaamdham/internal/domains/application/service"
	authService "kaamdham/internal/domains/auth/service"
	bookingRepository "kaamdham/internal/domains/booking/repository"
	bookingService "kaamdham/internal/domains/booking/service"
	chatRepository "kaamdham/internal/domains/chat/repository"
	chatService "kaamdham/internal/domains/chat/service"
	instantService "kaamdham/internal/domains/instant/service"
	jobRepository "kaamdham/internal/domains/job/repository"
	jobService "kaamdham/internal/domains/job/service"
	offeringRepository "kaamdham/internal/domains/offering/repository"
	offeringService "kaamdham/internal/domains/offering/service"
	userRepository "kaamdham/internal/domains/user/repository"
	userService "kaamdham/internal/domains/user/service"

	applicationHandler "kaamdham/internal/handlers/application"
	authHandler "kaamdham/internal/handlers/auth"
	bookingHandler "kaamdham/internal/handlers/booking"
	chatHandler "kaamdham/internal/handlers/chat"
	instantHandler "kaamdham/internal/handlers/instant"
	jobHandler "kaamdham/internal/handlers/job"
	offeringHandler "kaamdham/internal/handlers/offering"
	userHandler "kaamdham/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	payment.NewGateway,
	sms.NewLogSender,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	otp.NewManager,
	events.NewPublisher,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var offeringDomain = wire.NewSet(
	offeringRepository.New,
	offeringService.New,
)

var jobDomain = wire.NewSet(
	jobRepository.New,
	jobService.New,
)

var applicationDomain = wire.NewSet(
	applicationRepository.New,
	applicationService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var instantDomain = wire.NewSet(
	instantService.New,
)

var chatDomain = wire.NewSet(
	chatRepository.New,
	chatService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	offeringDomain,
	jobDomain,
	applicationDomain,
	bookingDomain,
	instantDomain,
	chatDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	offeringHandler.New,
	bookingHandler.New,
	jobHandler.New,
	applicationHandler.New,
	instantHandler.New,
	chatHandler.New,
	router.New,
)

func InitializeService(hub *ws.Hub) *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
