package offlineproxy

import (
	"context"
	"encoding/json"
	"net/http"

	core_port "github.com/collo670/NAPANGA-APP/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server - HTTP-сервер прокси с управляющими эндпоинтами
type Server struct {
	httpServer *http.Server
	proxy      *Proxy
	logger     core_port.LoggerPort
}

func NewServer(port string, proxy *Proxy, baseLogger core_port.LoggerPort) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, middleware.Recoverer)

	// Управляющие эндпоинты обновления и очистки кэша
	r.Route("/__proxy", func(r chi.Router) {
		r.Post("/skip-waiting", handleSkipWaiting(proxy, baseLogger))
		r.Post("/clear-cache", handleClearCache(proxy, baseLogger))
	})

	r.Handle("/*", proxy)

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		proxy:  proxy,
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting offline proxy server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping offline proxy server...", nil)
	return s.httpServer.Shutdown(ctx)
}

func handleSkipWaiting(proxy *Proxy, logger core_port.LoggerPort) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := proxy.Activate(); err != nil {
			logger.Error("Failed to activate new cache version", err, nil)
			writeProxyJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		logger.Info("Old cache versions removed", nil)
		writeProxyJSON(w, http.StatusOK, map[string]string{"status": "activated"})
	}
}

func handleClearCache(proxy *Proxy, logger core_port.LoggerPort) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := proxy.ClearCache(); err != nil {
			logger.Error("Failed to clear cache partitions", err, nil)
			writeProxyJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		logger.Info("All cache partitions cleared", nil)
		writeProxyJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

func writeProxyJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
