package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jswales/capstead/pkg/api/handlers"
	"github.com/jswales/capstead/pkg/api/middleware"
	"github.com/jswales/capstead/pkg/log"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port       int
	TLS        *TLSConfig
	Summarizer handlers.Summarizer
	// SaveChan triggers an immediate checkpoint when a POST to /save
	// comes in. Nil disables the route.
	SaveChan chan<- struct{}
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)
	router.HandleFunc("/health", handlers.HandleHealth()).Methods(http.MethodGet)
	router.HandleFunc("/session", handlers.HandleGetSession(opts.Summarizer)).Methods(http.MethodGet)
	if opts.SaveChan != nil {
		router.HandleFunc("/save", handlers.HandleTriggerSave(opts.SaveChan)).Methods(http.MethodPost)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
