// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package server exposes the service as a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wneessen/agriwatch/internal/errs"
	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/logger"
	"github.com/wneessen/agriwatch/internal/regional"
	"github.com/wneessen/agriwatch/internal/service"
	"github.com/wneessen/agriwatch/internal/synthetic"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second
)

// Backend is the part of the service the API serves from.
type Backend interface {
	Gazetteer() *gazetteer.Gazetteer
	Nearest(lat, lon float64) (gazetteer.Place, float64, error)
	PlaceReport(ctx context.Context, region, place string) (*service.PlaceReport, error)
	Regional(ctx context.Context) (*regional.Snapshot, error)
	Field(ctx context.Context, kind synthetic.Kind, region, place string) (*synthetic.Field, error)
	RegionalField(kind synthetic.Kind) (*synthetic.Field, error)
	TimeSeries(ctx context.Context, kind synthetic.Kind, region, place string, days int) (*synthetic.Series, error)
}

type regionResponse struct {
	Name   string            `json:"name"`
	Places []gazetteer.Place `json:"places"`
}

type nearestResponse struct {
	Place     gazetteer.Place `json:"place"`
	DistanceM float64         `json:"distance_m"`
}

type fieldResponse struct {
	Field  *synthetic.Field `json:"field"`
	Status synthetic.Status `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the JSON API together with /healthz and /metrics.
type Server struct {
	httpServer *http.Server
	backend    Backend
	logger     *logger.Logger
}

func New(addr string, backend Backend, log *logger.Logger) (*Server, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	router := mux.NewRouter()
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		backend: backend,
		logger:  log,
	}

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/regions", s.handleRegions).Methods(http.MethodGet)
	api.HandleFunc("/regions/{region}/places/{place}", s.handlePlaceReport).Methods(http.MethodGet)
	api.HandleFunc("/regions/{region}/places/{place}/field/{kind}", s.handlePlaceField).Methods(http.MethodGet)
	api.HandleFunc("/regions/{region}/places/{place}/series/{kind}", s.handleSeries).Methods(http.MethodGet)
	api.HandleFunc("/regional", s.handleRegional).Methods(http.MethodGet)
	api.HandleFunc("/places/nearest", s.handleNearest).Methods(http.MethodGet)
	api.HandleFunc("/field/{kind}", s.handleRegionalField).Methods(http.MethodGet)

	return s, nil
}

// Start begins listening. It returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains open connections until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	regions := s.backend.Gazetteer().Regions()
	resp := make([]regionResponse, 0, len(regions))
	for _, region := range regions {
		resp = append(resp, regionResponse{Name: region.Name, Places: region.Places()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlaceReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	report, err := s.backend.PlaceReport(r.Context(), vars["region"], vars["place"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRegional(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.backend.Regional(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	lat, err := floatParam(r, "lat")
	if err != nil {
		s.writeError(w, err)
		return
	}
	lon, err := floatParam(r, "lon")
	if err != nil {
		s.writeError(w, err)
		return
	}
	place, dist, err := s.backend.Nearest(lat, lon)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nearestResponse{Place: place, DistanceM: dist})
}

func (s *Server) handlePlaceField(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, err := synthetic.ParseKind(vars["kind"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	field, err := s.backend.Field(r.Context(), kind, vars["region"], vars["place"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fieldResponse{Field: field, Status: kind.Status()})
}

func (s *Server) handleRegionalField(w http.ResponseWriter, r *http.Request) {
	kind, err := synthetic.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	field, err := s.backend.RegionalField(kind)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fieldResponse{Field: field, Status: kind.Status()})
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, err := synthetic.ParseKind(vars["kind"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	days := 0
	if val := r.URL.Query().Get("days"); val != "" {
		if days, err = strconv.Atoi(val); err != nil {
			s.writeError(w, fmt.Errorf("invalid days parameter %q: %w", val, errs.ErrInvalidInput))
			return
		}
	}
	series, err := s.backend.TimeSeries(r.Context(), kind, vars["region"], vars["place"], days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// writeError maps invalid input to 400 and unknown regions or places to 404. Everything
// else is logged and reported as 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("failed to serve request", logger.Err(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func floatParam(r *http.Request, name string) (float64, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return 0, fmt.Errorf("missing %s parameter: %w", name, errs.ErrInvalidInput)
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter %q: %w", name, val, errs.ErrInvalidInput)
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
