package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cadencehq/cadence/pkg/actions"
	"github.com/cadencehq/cadence/pkg/assist"
	"github.com/cadencehq/cadence/pkg/log"
	"github.com/cadencehq/cadence/pkg/metrics"
	"github.com/cadencehq/cadence/pkg/projector"
	"github.com/cadencehq/cadence/pkg/storage"
	"github.com/cadencehq/cadence/pkg/types"
)

// Server exposes the plan engine over local HTTP: widget pulls,
// action submission, manual task injection, health, and metrics.
type Server struct {
	store     storage.Store
	projector *projector.Projector
	handler   *actions.Handler
	injector  *assist.Injector
	mux       *http.ServeMux
	srv       *http.Server
}

// NewServer creates a new API server
func NewServer(store storage.Store, proj *projector.Projector, handler *actions.Handler, injector *assist.Injector) *Server {
	s := &Server{
		store:     store,
		projector: proj,
		handler:   handler,
		injector:  injector,
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.instrument("/health", s.healthHandler))
	s.mux.Handle("/metrics", metrics.Handler())
	s.mux.HandleFunc("/widget", s.instrument("/widget", s.widgetHandler))
	s.mux.HandleFunc("/plan", s.instrument("/plan", s.planHandler))
	s.mux.HandleFunc("/actions/ack", s.instrument("/actions/ack", s.actionHandler(types.ActionAcknowledge)))
	s.mux.HandleFunc("/actions/snooze", s.instrument("/actions/snooze", s.actionHandler(types.ActionSnooze)))
	s.mux.HandleFunc("/actions/skip", s.instrument("/actions/skip", s.actionHandler(types.ActionSkip)))
	s.mux.HandleFunc("/tasks", s.instrument("/tasks", s.tasksHandler))

	return s
}

// Start starts the HTTP server and blocks until it exits.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	logger := log.WithComponent("api")
	logger.Info().Str("addr", addr).Msg("API server listening")
	return s.srv.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	if s.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}

// instrument wraps a handler with request counting.
func (s *Server) instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.APIRequestsTotal.WithLabelValues(path, strconv.Itoa(rec.status)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

func (s *Server) widgetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snapshot, err := s.projector.Project(time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// PlanResponse carries a day's plan for display surfaces.
type PlanResponse struct {
	Day   *types.PlanDay    `json:"day,omitempty"`
	Items []*types.PlanItem `json:"items"`
}

func (s *Server) planHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(types.DateFormat)
	}
	if _, err := time.Parse(types.DateFormat, date); err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	resp := PlanResponse{}
	if day, err := s.store.GetPlanDay(date); err == nil {
		resp.Day = day
	}
	items, err := s.store.ListItemsByDate(date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp.Items = items
	writeJSON(w, http.StatusOK, resp)
}

// ActionRequest identifies the item a reminder action targets.
type ActionRequest struct {
	ItemID string `json:"item_id"`
}

// ActionResponse reports whether the transition was applied.
type ActionResponse struct {
	Submitted bool `json:"submitted"`
}

func (s *Server) actionHandler(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req ActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
			http.Error(w, "item_id required", http.StatusBadRequest)
			return
		}
		if err := s.handler.Submit(actions.Action{Kind: kind, ItemID: req.ItemID}); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusAccepted, ActionResponse{Submitted: true})
	}
}

// TaskRequest injects manual tasks for a date. Tasks begin at Start
// (RFC 3339) or now when omitted.
type TaskRequest struct {
	Date  string              `json:"date"`
	Start string              `json:"start,omitempty"`
	Tasks []assist.Suggestion `json:"tasks"`
}

// TaskResponse lists the created item IDs.
type TaskResponse struct {
	Created []string `json:"created"`
}

func (s *Server) tasksHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Tasks) == 0 {
		http.Error(w, "tasks required", http.StatusBadRequest)
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format(types.DateFormat)
	}
	if _, err := time.Parse(types.DateFormat, req.Date); err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	startAt := time.Now()
	if req.Start != "" {
		parsed, err := time.Parse(time.RFC3339, req.Start)
		if err != nil {
			http.Error(w, "invalid start time", http.StatusBadRequest)
			return
		}
		startAt = parsed
	}

	created, err := s.injector.Inject(req.Date, startAt, req.Tasks)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := TaskResponse{Created: make([]string, 0, len(created))}
	for _, item := range created {
		resp.Created = append(resp.Created, item.ID)
	}
	writeJSON(w, http.StatusCreated, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := log.WithComponent("api")
		logger.Error().Err(err).Msg("failed to encode response")
	}
}
