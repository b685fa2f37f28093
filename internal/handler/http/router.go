package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/teraju-hris/leave-backend-go/internal/handler/http/middleware"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/jwt"
)

type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	LogLevel       slog.Level
	// Logger overrides the default JSON access logger (tests pass a discard logger).
	Logger *slog.Logger
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	workerHandler WorkerHandler,
	leaveHandler LeaveHandler,
	holidayHandler HolidayHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logFormat := httplog.SchemaECS.Concise(false)
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			ReplaceAttr: logFormat.ReplaceAttr,
		})).With(
			slog.String("app", "leave-backend"),
			slog.String("version", "v1.0.0"),
			slog.String("env", opts.Env),
		)
	}

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

		r.Route("/workers", func(r chi.Router) {
			r.With(middleware.RequireHR).Post("/", workerHandler.Create)
			r.With(middleware.RequireHROrManager).Get("/", workerHandler.List)
			r.With(middleware.RequireHROrManager).Get("/{id}", workerHandler.Get)
			r.With(middleware.RequireHR).Put("/{id}", workerHandler.Update)
		})

		r.Route("/leave", func(r chi.Router) {
			r.Route("/types", func(r chi.Router) {
				r.Get("/", leaveHandler.ListTypes)

				// HR only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Post("/", leaveHandler.CreateType)
					r.Put("/{id}", leaveHandler.UpdateType)
					r.Get("/{id}/policies", leaveHandler.ListPolicies)
				})
			})

			r.Route("/policies", func(r chi.Router) {
				r.Use(middleware.RequireHR)
				r.Post("/", leaveHandler.CreatePolicy)
				r.Delete("/{id}", leaveHandler.DeletePolicy)
			})

			r.Route("/calculate", func(r chi.Router) {
				r.Post("/", leaveHandler.CalculateDays)
				r.Post("/end-date", leaveHandler.DeriveEndDate)
			})

			r.Route("/balances", func(r chi.Router) {
				r.Get("/my", leaveHandler.GetMyBalances)
				r.With(middleware.RequireHROrManager).Get("/workers/{workerID}", leaveHandler.GetWorkerBalances)
				r.With(middleware.RequireHR).Put("/carry-forward", leaveHandler.UpdateCarryForward)
			})

			r.Route("/requests", func(r chi.Router) {
				r.Post("/", leaveHandler.SubmitRequest)
				r.Get("/my", leaveHandler.GetMyRequests)
				r.With(middleware.RequireHROrManager).Get("/", leaveHandler.ListRequests)
				r.With(middleware.RequireHR).Post("/direct", leaveHandler.CreateDirectEntry)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", leaveHandler.GetRequest)
					r.Get("/attachment", leaveHandler.GetAttachment)
					r.With(middleware.RequireHR).Post("/verify", leaveHandler.VerifyRequest)
					r.With(middleware.RequireManager).Post("/decision", leaveHandler.DecideRequest)
				})
			})
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", holidayHandler.List)

			// HR only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireHR)
				r.Post("/", holidayHandler.Create)
				r.Delete("/{id}", holidayHandler.Delete)
			})
		})
	})
	return r
}
