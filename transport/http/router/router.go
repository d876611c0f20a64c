package router

import (
	"kaamdham/internal/handlers/application"
	"kaamdham/internal/handlers/auth"
	"kaamdham/internal/handlers/booking"
	"kaamdham/internal/handlers/chat"
	"kaamdham/internal/handlers/instant"
	"kaamdham/internal/handlers/job"
	"kaamdham/internal/handlers/offering"
	"kaamdham/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth        auth.Handler
	User        user.Handler
	Offering    offering.Handler
	Booking     booking.Handler
	Job         job.Handler
	Application application.Handler
	Instant     instant.Handler
	Chat        chat.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Offering.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Job.Router(routerGroup)
		r.DomainHandlers.Application.Router(routerGroup)
		r.DomainHandlers.Instant.Router(routerGroup)
		r.DomainHandlers.Chat.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
