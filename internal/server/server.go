package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mkrassel/territory-app/internal/dataset"
	"github.com/mkrassel/territory-app/internal/operator"
	"github.com/mkrassel/territory-app/internal/zone"
)

type Server struct {
	Router    *chi.Mux
	Addr      string
	Logger    *log.Logger
	Zones     *zone.Service
	Datasets  *dataset.Service
	Operators *operator.Service

	// Metrics serves GET /metrics when set.
	Metrics http.Handler

	handler    *Handler
	shutdownCh chan os.Signal
}

func (s *Server) addr() string {
	if s.Addr == "" {
		s.Addr = ":8080"
	}

	return s.Addr
}

func (s *Server) init() {
	s.handler = NewHandler(s.Logger)
	s.handler.zones = s.Zones
	s.handler.datasets = s.Datasets
	s.handler.operators = s.Operators
	s.setRoutes()

	s.shutdownCh = make(chan os.Signal, 1)
	signal.Notify(s.shutdownCh, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
}

func (s *Server) setRoutes() {
	s.Router.Get("/", s.handler.HelloWorld())
	s.Router.Get("/zones", s.handler.HandleGetZone())
	s.Router.Get("/zones/keys", s.handler.HandleGetZoneKeys())
	s.Router.Get("/zones/locate", s.handler.HandleLocateZones())
	s.Router.Get("/datasets/{datasetID}", s.handler.HandleGetDataset())

	if s.Metrics != nil {
		s.Router.Handle("/metrics", s.Metrics)
	}

	// Set the operator routes.
	operatorValidater := OperatorValidater{
		operators: s.Operators,
		logger:    s.Logger,
	}

	s.Router.Post("/operators/login", s.handler.HandlePostLogin())
	s.Router.Post("/operators/signup", s.handler.HandlePostSignup())
	s.Router.Post("/operators/datasets", operatorValidater.Validate(s.handler.HandleImportDataset()))
	s.Router.Post("/operators/datasets/{datasetID}/rebuild", operatorValidater.Validate(s.handler.HandleRebuildDataset()))
}

func (s *Server) listenAndServe() error {
	httpServer := &http.Server{
		Addr:    s.addr(),
		Handler: s.Router,
	}

	startCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			startCh <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	// Wait for either a shutdown signal or an error if the server
	// cannot start.
	select {
	case err := <-startCh:
		return err
	case <-s.shutdownCh:
		ctx, cancel := context.WithTimeout(context.Background(), 7*time.Second)
		defer cancel()

		// Gracefully shutdown the http server.
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}

func (s *Server) validate() error {
	if s.Router == nil {
		return errors.New("router is nil")
	}

	if s.Logger == nil {
		return errors.New("logger is nil")
	}

	if s.Zones == nil {
		return errors.New("zones is nil")
	}

	if s.Datasets == nil {
		return errors.New("datasets is nil")
	}

	if s.Operators == nil {
		return errors.New("operators is nil")
	}

	return nil
}

func (s *Server) Start() error {
	if err := s.validate(); err != nil {
		return err
	}

	s.init()

	return s.listenAndServe()
}
