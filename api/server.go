// Package api provides the HTTP REST API server for vizprep.
//
// It exposes endpoints for chart transforms, server-side tooltip
// rendering, palette schemes, chart sessions, configuration, and
// WebSocket streaming of chart updates.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vizprep/vizprep/internal/bubble"
	"github.com/vizprep/vizprep/internal/config"
	"github.com/vizprep/vizprep/internal/echarts"
	"github.com/vizprep/vizprep/internal/infra"
	"github.com/vizprep/vizprep/pkg/models"
	"github.com/vizprep/vizprep/pkg/palette"
)

// Version is reported by the health endpoint. The CLI overwrites it with
// the build-time value before starting the server.
var Version = "dev"

// Server is the HTTP API server.
type Server struct {
	router    chi.Router
	cfg       *config.Config
	wsHub     *WSHub
	sessions  *infra.Cache
	limiter   *infra.RateLimiter
	startedAt time.Time
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	srv := &Server{
		cfg:       cfg,
		wsHub:     NewWSHub(cfg.Limits.WSBuffer),
		sessions:  infra.NewCache(time.Duration(cfg.Server.SessionTTL) * time.Second),
		startedAt: time.Now(),
	}
	if cfg.Limits.RateLimit > 0 {
		srv.limiter = infra.NewRateLimiter(cfg.Limits.RateLimit, time.Second)
	}

	srv.router = srv.buildRouter()
	return srv, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub and session janitor
	go s.wsHub.Run()
	go s.sessionJanitor(time.Minute)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// sessionJanitor periodically drops expired chart sessions and palette
// scales nothing has rendered with recently.
func (s *Server) sessionJanitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		s.sessions.Cleanup()
		palette.Purge(4 * time.Hour)
	}
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		origins = s.cfg.Server.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.rateLimit)

		// Health (also available at /health)
		r.Get("/health", s.handleHealth)

		// Transform pipeline
		r.Post("/transform", s.handleTransform)
		r.Post("/transform/batch", s.handleTransformBatch)
		r.Post("/tooltip", s.handleTooltip)

		// Palette schemes
		r.Get("/schemes", s.handleSchemes)

		// Chart sessions
		r.Post("/charts", s.handleUpsertChart)
		r.Put("/charts/{id}", s.handleUpsertChart)
		r.Get("/charts/{id}", s.handleGetChart)
		r.Delete("/charts/{id}", s.handleDeleteChart)

		// Configuration
		r.Get("/config", s.handleGetConfig)
		r.Put("/config", s.handleUpdateConfig)
		r.Get("/config/defaults", s.handleConfigDefaults)

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// rateLimit rejects requests once the shared token bucket is drained. A
// nil limiter disables the check.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// BatchItem is one result of POST /api/v1/transform/batch. Items map to
// request entries by position.
type BatchItem struct {
	Success bool                     `json:"success"`
	Data    *bubble.TransformedProps `json:"data,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

// TooltipRequest is the body for POST /api/v1/tooltip.
type TooltipRequest struct {
	Point    echarts.Point   `json:"point"`
	FormData models.FormData `json:"form_data"`
}

// TooltipResponse carries the rendered hover markup.
type TooltipResponse struct {
	HTML string `json:"html"`
}

// SchemeInfo pairs a palette scheme name with its swatches.
type SchemeInfo struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

// ChartState is the session payload returned by the chart endpoints.
type ChartState struct {
	ChartID string                  `json:"chart_id"`
	Props   bubble.TransformedProps `json:"props"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": Version,
			"uptime":  time.Since(s.startedAt).Round(time.Second).String(),
			"schemes": len(palette.Schemes()),
			"charts":  s.sessions.Len(),
		},
	})
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var spec models.ChartSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validateSpec(spec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    bubble.Transform(spec.Props()),
	})
}

func (s *Server) handleTransformBatch(w http.ResponseWriter, r *http.Request) {
	var specs []models.ChartSpec
	if err := json.NewDecoder(r.Body).Decode(&specs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(specs) == 0 {
		writeError(w, http.StatusBadRequest, "empty batch")
		return
	}

	// One transform per entry, bounded concurrency. A failing entry
	// reports in its slot; it never aborts the batch.
	results := make([]BatchItem, len(specs))
	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Limits.MaxBatch)

	for i, spec := range specs {
		g.Go(func() error {
			if err := s.validateSpec(spec); err != nil {
				results[i] = BatchItem{Error: err.Error()}
				return nil
			}
			tp := bubble.Transform(spec.Props())
			results[i] = BatchItem{Success: true, Data: &tp}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return an error

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    results,
	})
}

func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	var req TooltipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	render := bubble.NewTooltipRenderer(req.FormData)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    TooltipResponse{HTML: render(req.Point)},
	})
}

func (s *Server) handleSchemes(w http.ResponseWriter, r *http.Request) {
	names := palette.Schemes()
	schemes := make([]SchemeInfo, 0, len(names))
	for _, name := range names {
		schemes = append(schemes, SchemeInfo{
			Name:   name,
			Colors: palette.Colors(name),
		})
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    schemes,
	})
}

// handleUpsertChart stores the chart spec in the session cache,
// transforms it, and pushes the fresh option to WebSocket subscribers of
// the chart id. POST assigns a server-side id when the client sent none.
func (s *Server) handleUpsertChart(w http.ResponseWriter, r *http.Request) {
	var spec models.ChartSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validateSpec(spec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		id = spec.FormData.ChartID
	}
	if id == "" {
		id = uuid.NewString()
	}
	// Pin the palette instance to the session so colors stay stable
	// across upserts.
	spec.FormData.ChartID = id

	tp := bubble.Transform(spec.Props())
	s.sessions.Set(id, spec)

	s.wsHub.Broadcast(WSMessage{
		Type:    "chart_update",
		ChartID: id,
		Data:    tp.Option,
	})

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    ChartState{ChartID: id, Props: tp},
	})
}

// handleGetChart re-runs the transform on the stored spec, so a read
// always reflects the current pipeline.
func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	value, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "chart not found")
		return
	}
	spec, ok := value.(models.ChartSpec)
	if !ok {
		writeError(w, http.StatusInternalServerError, "corrupt chart session")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    ChartState{ChartID: id, Props: bubble.Transform(spec.Props())},
	})
}

func (s *Server) handleDeleteChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, ok := s.sessions.Get(id); !ok {
		writeError(w, http.StatusNotFound, "chart not found")
		return
	}
	s.sessions.Invalidate(id)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"deleted": id},
	})
}

// ============================================================
// Helpers
// ============================================================

// validateSpec checks the required field selectors and the row cap.
func (s *Server) validateSpec(spec models.ChartSpec) error {
	fd := spec.FormData
	for _, sel := range []struct{ name, value string }{
		{"x", fd.X},
		{"y", fd.Y},
		{"size", fd.Size},
		{"entity", fd.Entity},
	} {
		if sel.value == "" {
			return fmt.Errorf("form_data.%s is required", sel.name)
		}
	}

	if max := s.cfg.Limits.MaxRows; max > 0 {
		for _, q := range spec.Queries {
			if len(q.Data) > max {
				return fmt.Errorf("query has %d rows, limit is %d", len(q.Data), max)
			}
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// ============================================================
// WebSocket Hub
// ============================================================

// WSMessage is a message sent over WebSocket connections. ChartID scopes
// chart_update messages to one session; messages without it go to every
// client.
type WSMessage struct {
	Type    string      `json:"type"`
	ChartID string      `json:"chart_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
	buffer     int
}

// WSClient represents a single WebSocket connection. topics holds the
// chart ids the client subscribed to; an empty set receives everything.
type WSClient struct {
	hub    *WSHub
	send   chan WSMessage
	mu     sync.Mutex
	topics map[string]bool
}

// subscribe adds a chart id to the client's topic set.
func (c *WSClient) subscribe(chartID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.topics == nil {
		c.topics = make(map[string]bool)
	}
	c.topics[chartID] = true
}

// wants reports whether the client should receive the message.
func (c *WSClient) wants(msg WSMessage) bool {
	if msg.ChartID == "" {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.topics) == 0 || c.topics[msg.ChartID]
}

// NewWSHub creates a new WebSocket hub. buffer sizes the broadcast and
// per-client send channels.
func NewWSHub(buffer int) *WSHub {
	if buffer <= 0 {
		buffer = 256
	}
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, buffer),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		buffer:     buffer,
	}
}

// Run starts the hub event loop.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if !client.wants(msg) {
					continue
				}
				select {
				case client.send <- msg:
				default:
					// Slow client; disconnect
					h.mu.RUnlock()
					h.mu.Lock()
					delete(h.clients, client)
					close(client.send)
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to all subscribed WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	h.unregister <- client
}
