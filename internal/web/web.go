package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"campuscal/internal/config"
	"campuscal/internal/layout"
	appLog "campuscal/internal/log"
	"campuscal/internal/model"
	"campuscal/internal/refresh"
)

// SnapshotSource hands out event snapshots. *refresh.Refresher is the
// production implementation.
type SnapshotSource interface {
	Current() *refresh.Snapshot
	Refresh(ctx context.Context) (*refresh.Snapshot, error)
	Location() *time.Location
}

// Server exposes month layouts over HTTP.
type Server struct {
	cfg    *config.Config
	source SnapshotSource
	now    func() time.Time
	router chi.Router
}

// NewServer constructs a Server.
func NewServer(cfg *config.Config, source SnapshotSource) *Server {
	s := &Server{cfg: cfg, source: source, now: time.Now}
	s.router = s.routes()
	return s
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// /health stays open even when basic auth guards the rest.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.basicAuthEnabled() {
			r.Use(s.basicAuthMiddleware)
		}
		r.Get("/api/month", s.handleMonth)
		r.Get("/api/months", s.handleMonths)
		r.Get("/api/events", s.handleEvents)
		r.Post("/api/refresh", s.handleRefresh)
	})
	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen, "basic_auth", s.basicAuthEnabled())
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-serverErr
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty credentials count as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="campuscal", charset="UTF-8"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// dayDTO is one occupied day with its pie slices precomputed.
type dayDTO struct {
	model.ProcessedEvent
	Slices []layout.Slice `json:"slices"`
}

type monthResponse struct {
	Year        int            `json:"year"`
	Month       int            `json:"month"`
	WeekStart   string         `json:"week_start"`
	PaletteSize int            `json:"palette_size"`
	Weeks       []layout.Week  `json:"weeks"`
	Days        map[int]dayDTO `json:"days"`
	BuiltAt     time.Time      `json:"built_at"`
}

// maxMonths bounds one /api/months request.
const maxMonths = 12

// handleMonth lays out one month of the current snapshot.
//
// GET /api/month?year=2025&month=5
//   - year, month default to the current month in the display timezone.
func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	cur := layout.Of(s.now().In(s.source.Location()))
	q := r.URL.Query()

	year, err := intParam(q.Get("year"), cur.Year)
	if err != nil {
		writeError(w, http.StatusBadRequest, "year must be an integer")
		return
	}
	month, err := intParam(q.Get("month"), int(cur.Month))
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be an integer")
		return
	}
	ym := layout.YearMonth{Year: year, Month: time.Month(month)}

	snap := s.source.Current()
	days, err := layout.ProcessMonth(ym.Month, ym.Year, snap.Events)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := s.monthLayout(ym, days, snap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	appLog.Debug("api month", "month", ym.String(), "days", len(days))
	writeJSON(w, http.StatusOK, resp)
}

type monthsResponse struct {
	Months []monthResponse `json:"months"`
}

// handleMonths lays out consecutive months over one snapshot.
//
// GET /api/months?from=2025-05&count=3
//   - from defaults to the current month, count to 1 (at most maxMonths).
func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from := layout.Of(s.now().In(s.source.Location()))
	if raw := q.Get("from"); raw != "" {
		ym, err := layout.ParseYearMonth(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be YYYY-MM")
			return
		}
		from = ym
	}
	count, err := intParam(q.Get("count"), 1)
	if err != nil || count < 1 || count > maxMonths {
		writeError(w, http.StatusBadRequest, "count must be an integer between 1 and 12")
		return
	}

	months := make([]layout.YearMonth, count)
	for i, ym := 0, from; i < count; i, ym = i+1, ym.Next() {
		months[i] = ym
	}

	snap := s.source.Current()
	laid, err := layout.ProcessMonths(months, snap.Events)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := monthsResponse{Months: make([]monthResponse, 0, count)}
	for _, ym := range months {
		m, err := s.monthLayout(ym, laid[ym], snap)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		resp.Months = append(resp.Months, m)
	}

	appLog.Debug("api months", "from", from.String(), "count", count)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) monthLayout(ym layout.YearMonth, days map[int]model.ProcessedEvent, snap *refresh.Snapshot) (monthResponse, error) {
	weeks, err := layout.BuildGrid(ym.Year, ym.Month, s.cfg.WeekStartDay())
	if err != nil {
		return monthResponse{}, err
	}
	resp := monthResponse{
		Year:        ym.Year,
		Month:       int(ym.Month),
		WeekStart:   s.cfg.WeekStart,
		PaletteSize: s.cfg.PaletteSize,
		Weeks:       weeks,
		Days:        make(map[int]dayDTO, len(days)),
		BuiltAt:     snap.BuiltAt,
	}
	for d, pe := range days {
		resp.Days[d] = dayDTO{ProcessedEvent: pe, Slices: layout.Slices(pe, s.cfg.PaletteSize)}
	}
	return resp, nil
}

type eventsResponse struct {
	Events     []model.Event `json:"events"`
	BuiltAt    time.Time     `json:"built_at"`
	RangeStart time.Time     `json:"range_start"`
	RangeEnd   time.Time     `json:"range_end"`
	FeedErrors int           `json:"feed_errors"`
}

func snapshotResponse(snap *refresh.Snapshot) eventsResponse {
	events := snap.Events
	if events == nil {
		events = []model.Event{}
	}
	return eventsResponse{
		Events:     events,
		BuiltAt:    snap.BuiltAt,
		RangeStart: snap.RangeStart,
		RangeEnd:   snap.RangeEnd,
		FeedErrors: snap.FeedErrors,
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, snapshotResponse(s.source.Current()))
}

// handleRefresh rebuilds the snapshot synchronously. Partial feed failures
// still return 200 with feed_errors set.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.source.Refresh(r.Context())
	if err != nil {
		appLog.Error("api refresh", err)
	}
	if snap == nil {
		writeError(w, http.StatusBadGateway, "refresh failed")
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse(snap))
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
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
