package rest

import (
	"log/slog"

	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	"github.com/Jakababa94/kenya-liga-hub/internal/match"
	"github.com/Jakababa94/kenya-liga-hub/internal/payment"
	"github.com/Jakababa94/kenya-liga-hub/internal/registration"
	"github.com/Jakababa94/kenya-liga-hub/internal/team"
	"github.com/Jakababa94/kenya-liga-hub/internal/tournament"
	"github.com/Jakababa94/kenya-liga-hub/internal/transport/middleware"
	"github.com/Jakababa94/kenya-liga-hub/internal/transport/swagger"
	"github.com/Jakababa94/kenya-liga-hub/internal/user"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Tournament   *tournament.Handler
	Team         *team.Handler
	Registration *registration.Handler
	Match        *match.Handler
	Payment      *payment.Handler
	Webhook      *payment.WebhookHandler
}

type Options struct {
	AllowedOrigins []string
	Health         map[string]Pinger
	Logger         *slog.Logger
}

// RegisterAllRoutes mounts the API under /api/v1 and the docs at the root.
// A nil handler leaves its routes unmounted.
func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options) {
	healthHandler := NewHealthHandler(opts.Health)
	rbac := auth.NewRBACAuthorization(opts.Logger)

	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware(opts.Logger))

	router.Get(swagger.SpecPath, swagger.SpecHandler())
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// The gateway calls back without credentials.
		if h.Webhook != nil {
			r.Post("/payments/mpesa/callback", h.Webhook.MpesaCallback)
		}

		if h.Auth != nil {
			r.Route("/auth", func(ar chi.Router) {
				ar.Post("/login", h.Auth.Login)
				ar.Post("/refresh", h.Auth.RefreshToken)
				ar.Post("/logout", h.Auth.Logout)
			})
		}

		if h.Tournament != nil {
			r.Get("/tournaments", h.Tournament.List)
			r.Get("/tournaments/{id}", h.Tournament.Get)
		}

		if h.Match != nil {
			r.Get("/tournaments/{id}/matches", h.Match.ListByTournament)
			r.Get("/tournaments/{id}/standings", h.Match.Standings)
			r.Get("/matches/{id}", h.Match.Get)
			r.Get("/matches/{id}/statistics", h.Match.ListStatistics)
			r.Get("/players/{id}/statistics", h.Match.CareerStats)
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.UserContext)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
				pr.Patch("/users/me", h.User.UpdateCurrentUser)
			}
			if h.Match != nil {
				pr.Get("/users/me/stats", h.Match.UserStats)
			}

			if h.Tournament != nil {
				pr.Get("/tournaments/mine", h.Tournament.Mine)
				pr.With(rbac.RequireRole(auth.RoleOrganizer)).Post("/tournaments", h.Tournament.Create)
				pr.Patch("/tournaments/{id}/status", h.Tournament.UpdateStatus)
			}

			if h.Registration != nil {
				pr.Get("/tournaments/{id}/registrations", h.Registration.List)
				pr.Post("/tournaments/{id}/registrations", h.Registration.Register)
				pr.Get("/tournaments/{id}/registrations/eligibility", h.Registration.CheckEligibility)
				pr.Get("/registrations/mine", h.Registration.Mine)
				pr.Post("/registrations/{id}/withdraw", h.Registration.Withdraw)
				pr.Post("/registrations/{id}/review", h.Registration.Review)
			}

			if h.Team != nil {
				pr.Route("/teams", func(tr chi.Router) {
					tr.Post("/", h.Team.Create)
					tr.Get("/mine", h.Team.Mine)
					tr.Get("/{id}", h.Team.Get)
					tr.Post("/{id}/members", h.Team.AddMember)
					tr.Delete("/{id}/members/{userID}", h.Team.RemoveMember)
				})
			}

			if h.Match != nil {
				pr.Post("/tournaments/{id}/matches", h.Match.Create)
				pr.Patch("/matches/{id}", h.Match.Update)
				pr.Delete("/matches/{id}", h.Match.Delete)
				pr.Put("/matches/{id}/statistics", h.Match.UpsertStatistic)
				pr.Delete("/matches/{id}/statistics/{statID}", h.Match.DeleteStatistic)
			}

			if h.Payment != nil {
				pr.Get("/payments", h.Payment.ListPayments)
				pr.Get("/payments/{id}", h.Payment.GetPayment)
				pr.Post("/payments/mpesa/stk-push", h.Payment.InitiateSTKPush)
			}
		})
	})
}
