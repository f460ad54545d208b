package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	seaswap "github.com/kaifufi/seaport-swap-sdk-go"
	"github.com/kaifufi/seaport-swap-sdk-go/log"
)

const (
	ordersPath = "/api/orders"

	// MaxBodyBytes caps the size of a posted record
	MaxBodyBytes = 1 << 20
)

// Config configures the HTTP server
type Config struct {
	ListenAddr         string
	CORSAllowedOrigins []string
	// MetricsPath, if set, exposes Prometheus metrics
	MetricsPath     string
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config listening on localhost:8080
func DefaultConfig() Config {
	return Config{
		ListenAddr:         "127.0.0.1:8080",
		CORSAllowedOrigins: []string{"*"},
		MetricsPath:        "/metrics",
		ShutdownTimeout:    5 * time.Second,
	}
}

// Server serves the order record endpoints:
//
//	POST /api/orders       store a record, 201 with {"id": ...}
//	GET  /api/orders/{id}  fetch a record
type Server struct {
	cfg     Config
	store   *Store
	logger  log.Logger
	metrics *Metrics
	handler http.Handler
}

// NewServer creates a server over store
func NewServer(cfg Config, store *Store, logger log.Logger, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NopMetrics()
	}
	s := &Server{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(ordersPath, s.handleOrders)
	mux.HandleFunc(ordersPath+"/", s.handleOrder)
	if cfg.MetricsPath != "" {
		mux.Handle(cfg.MetricsPath, promhttp.Handler())
	}

	var rootHandler http.Handler = mux
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsMiddleware := cors.New(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		})
		rootHandler = corsMiddleware.Handler(mux)
	}
	s.handler = rootHandler
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("record store listening", "addr", s.cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(body) > MaxBodyBytes {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, "record too large")
		return
	}

	var record seaswap.OrderRecord
	if err := json.Unmarshal(body, &record); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid record: "+err.Error())
		return
	}
	if strings.TrimSpace(record.ID) == "" {
		s.writeError(w, r, http.StatusBadRequest, "record id is required")
		return
	}

	var doc bytes.Buffer
	if err := json.Compact(&doc, body); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid record: "+err.Error())
		return
	}

	switch err := s.store.Create(record.ID, doc.Bytes()); {
	case errors.Is(err, ErrDuplicate):
		s.writeError(w, r, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.logger.Error("failed to store record", "id", record.ID, "err", err)
		s.writeError(w, r, http.StatusInternalServerError, "failed to store record")
		return
	}

	s.metrics.RecordsStored.Add(1)
	s.logger.Info("stored order record", "id", record.ID, "request", r.Header.Get("X-Request-ID"))
	s.writeJSON(w, r, http.StatusCreated, map[string]string{"id": record.ID})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, ordersPath+"/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	doc, err := s.store.Get(id)
	switch {
	case errors.Is(err, ErrNotFound):
		s.writeError(w, r, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.logger.Error("failed to load record", "id", id, "err", err)
		s.writeError(w, r, http.StatusInternalServerError, "failed to load record")
		return
	}

	s.countRequest(r, http.StatusOK)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, v interface{}) {
	s.countRequest(r, code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	s.writeJSON(w, r, code, map[string]string{"error": msg})
}

func (s *Server) countRequest(r *http.Request, code int) {
	s.metrics.Requests.With("method", r.Method, "code", strconv.Itoa(code)).Add(1)
}
