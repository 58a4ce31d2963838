package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/tournament-manager/docs"
	"github.com/Dosada05/tournament-manager/handlers"
	"github.com/Dosada05/tournament-manager/middleware"
	"github.com/Dosada05/tournament-manager/models"
)

type Options struct {
	JWTSecret         []byte
	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	matchHandler *handlers.MatchHandler,
	notificationHandler *handlers.NotificationHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	authenticate := middleware.Authenticate(opts.JWTSecret)
	adminOnly := middleware.Authorize(models.RoleAdmin)
	staff := middleware.Authorize(models.RoleAdmin, models.RoleManager)
	limit := middleware.RateLimit(opts.RateLimitRequests, opts.RateLimitWindow)

	router.Route("/api", func(r chi.Router) {
		r.With(limit).Post("/auth/login", authHandler.Login)

		r.Route("/tournaments", func(r chi.Router) {
			r.With(limit, authenticate, adminOnly).Post("/", tournamentHandler.CreateTournament)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", tournamentHandler.GetTournament)
				r.Get("/standings", tournamentHandler.GetStandings)

				r.Group(func(r chi.Router) {
					r.Use(limit, authenticate, adminOnly)

					r.Put("/", tournamentHandler.UpdateTournament)
					r.Post("/schedule/generate", tournamentHandler.GenerateSchedule)
					r.Delete("/schedule", tournamentHandler.ClearSchedule)
					r.Post("/notifications", notificationHandler.CreateNotification)
					r.Delete("/notifications/{notificationID}", notificationHandler.DeleteNotification)
					r.Post("/teams", teamHandler.CreateTeam)
					r.Delete("/teams/{teamID}", teamHandler.DeleteTeam)
				})

				r.Group(func(r chi.Router) {
					r.Use(limit, authenticate, staff)

					r.Put("/teams/{teamID}", teamHandler.UpdateTeam)
					r.Post("/teams/{teamID}/logo", teamHandler.UploadLogo)
					r.Post("/teams/{teamID}/players", teamHandler.CreatePlayer)
					r.Put("/teams/{teamID}/players/{playerID}", teamHandler.UpdatePlayer)
					r.Delete("/teams/{teamID}/players/{playerID}", teamHandler.DeletePlayer)
				})
			})
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Use(limit, authenticate, adminOnly)

			r.Post("/score", matchHandler.SubmitScore)
			r.Put("/", matchHandler.UpdateMatch)
			r.Patch("/status", matchHandler.UpdateMatchStatus)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
