package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"rtcalsync/internal/config"
	appLog "rtcalsync/internal/log"
	"rtcalsync/internal/model"
)

// RunStatus is a JSON summary of the last completed sync run, exposed
// for monitoring in daemon mode.
type RunStatus struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Items           int `json:"items"`
	Created         int `json:"created"`
	SkippedExisting int `json:"skipped_existing"`
	Failed          int `json:"failed"`
}

// Summarize tallies reconciliation outcomes into a RunStatus.
func Summarize(runID string, started, finished time.Time, items int, outcomes []model.Outcome) RunStatus {
	st := RunStatus{
		RunID:      runID,
		StartedAt:  started,
		FinishedAt: finished,
		Items:      items,
	}
	for _, o := range outcomes {
		switch o.Status {
		case model.StatusCreated:
			st.Created++
		case model.StatusSkippedExisting:
			st.SkippedExisting++
		case model.StatusFailed:
			st.Failed++
		}
	}
	return st
}

// Server exposes /health and /api/status over HTTP.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux

	statusMu sync.RWMutex
	status   *RunStatus
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// SetStatus records the summary of the most recent completed run.
func (s *Server) SetStatus(st RunStatus) {
	s.statusMu.Lock()
	s.status = &st
	s.statusMu.Unlock()
}

// Start runs the HTTP server until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	appLog.Info("starting HTTP status server", "listen", "http://"+s.cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/status", s.handleStatus)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleStatus returns the last completed run's summary, or 404 when no
// run has completed since the process started.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.statusMu.RLock()
	st := s.status
	s.statusMu.RUnlock()

	if st == nil {
		writeError(w, http.StatusNotFound, "no completed run yet")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
