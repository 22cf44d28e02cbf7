package rest

import (
	"context"
	"net/http"

	core_port "github.com/collo670/NAPANGA-APP/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string,
	propertyHandlers *PropertyHandler,
	notificationsHandler http.HandlerFunc,
	allowedOrigins []string,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		// AllowedOrigins - список доменов, с которых разрешены запросы
		AllowedOrigins: allowedOrigins,

		// AllowedMethods - список разрешенных HTTP-методов.
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},

		// AllowedHeaders - список разрешенных заголовков в запросе
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},

		// MaxAge - на сколько секунд браузер может кэшировать результат preflight-запроса
		MaxAge: 300, // 5 минут
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/properties", propertyHandlers.ListProperties)
		r.Post("/properties", propertyHandlers.AddProperty)
		r.Get("/properties/{propertyID}", propertyHandlers.GetProperty)
		r.Put("/properties/{propertyID}", propertyHandlers.UpdateProperty)
		r.Delete("/properties/{propertyID}", propertyHandlers.DeleteProperty)

		r.Get("/stats/countries", propertyHandlers.CountryStats)

		if notificationsHandler != nil {
			r.Get("/notifications/subscribe", notificationsHandler)
		}
	})

	// Статическая оболочка приложения (index.html, offline.html, манифест)
	r.Handle("/*", StaticHandler())

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
