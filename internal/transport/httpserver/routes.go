package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"family-planner-go/internal/config"
	"family-planner-go/internal/transport/httpserver/handler"
	authmw "family-planner-go/internal/transport/httpserver/middleware"
	"family-planner-go/pkg/logger"
	"family-planner-go/pkg/token"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens *token.Manager, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		auth := authmw.NewJWTAuth(tokens, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/schedule/members", handlers.ListMembers)
			r.Post("/schedule/members", handlers.CreateMember)
			r.Put("/schedule/members/{id}", handlers.UpdateMember)
			r.Delete("/schedule/members/{id}", handlers.DeleteMember)

			r.Get("/schedule/settings", handlers.GetSettings)
			r.Put("/schedule/settings", handlers.UpdateSettings)

			r.Get("/schedule/activities", handlers.ListActivities)
			r.Post("/schedule/activities", handlers.CreateActivities)
			r.Put("/schedule/activities/{id}", handlers.UpdateActivity)
			r.Delete("/schedule/activities/{id}", handlers.DeleteActivity)

			r.Get("/schedule/series/{seriesId}", handlers.ListSeries)
			r.Put("/schedule/series/{seriesId}", handlers.UpdateSeries)
			r.Delete("/schedule/series/{seriesId}", handlers.DeleteSeries)

			r.Get("/planner/activities", handlers.ListPlannerActivities)
			r.Post("/planner/activities", handlers.SyncPlannerActivities)
			r.Post("/planner/activities/sync", handlers.SyncPlannerActivities)
			r.Delete("/planner/activities", handlers.DeletePlannerActivities)
			r.Get("/planner/archives", handlers.ListPlannerArchives)

			r.Post("/schedule/parse", handlers.ParseSchedule)
			r.Post("/schedule/import", handlers.ImportSchedule)

			r.Get("/calendar/events", handlers.ListEvents)
			r.Post("/calendar/events", handlers.CreateEvent)
			r.Put("/calendar/events/{id}", handlers.UpdateEvent)
			r.Delete("/calendar/events/{id}", handlers.DeleteEvent)
			r.Get("/calendar/notes/{date}", handlers.GetDayNote)
			r.Put("/calendar/notes/{date}", handlers.SaveDayNote)
			r.Post("/calendar/notes/{date}", handlers.SaveDayNote)

			r.Get("/notes/files", handlers.ListFiles)
			r.Get("/notes/sections", handlers.ListSections)
			r.Post("/notes/directory", handlers.CreateDirectory)
			r.Get("/notes/file", handlers.GetNote)
			r.Post("/notes/file", handlers.SaveNote)
			r.Delete("/notes/file", handlers.DeleteFile)
			r.Post("/notes/move", handlers.MoveFile)
			r.Post("/notes/sync", handlers.SyncNotes)
		})
	})

	return r
}
