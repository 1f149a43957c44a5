package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/oshokin/rtc-alarm/internal/domain/alarm"
	"github.com/oshokin/rtc-alarm/internal/logger"
	"github.com/oshokin/rtc-alarm/internal/power"
)

// Service is what the HTTP API needs from the daemon.
type Service interface {
	Alarm(ctx context.Context) (alarm.Config, error)
	SetAlarm(ctx context.Context, cfg alarm.Config) (alarm.Resolution, error)
	NextAlarm(ctx context.Context) (alarm.Resolution, error)
	SetPower(ctx context.Context, phase power.Event) error
	RaiseInterrupt(ctx context.Context) error
}

// Server serves the HTTP API.
type Server struct {
	service Service
}

// NewServer creates a server over service.
func NewServer(service Service) *Server {
	return &Server{service: service}
}

// Router builds the request router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/alarm", s.handleGetAlarm)
		r.Put("/alarm", s.handleSetAlarm)
		r.Get("/alarm/next", s.handleNextAlarm)
		r.Post("/power/{state}", s.handlePower)
		r.Post("/rtc/interrupt", s.handleInterrupt)
	})

	return r
}

type alarmPayload struct {
	Enabled  bool     `json:"enabled"`
	Hour     int      `json:"hour"`
	Minute   int      `json:"minute"`
	Time     string   `json:"time,omitempty"`
	WeekDays []string `json:"week_days"`
}

type nextPayload struct {
	Armed        bool   `json:"armed"`
	FireTime     string `json:"fire_time,omitempty"`
	Weekday      string `json:"weekday,omitempty"`
	WeekdayIndex int    `json:"weekday_index"`
}

type setAlarmResponse struct {
	alarmPayload

	Next nextPayload `json:"next"`
}

func (s *Server) handleGetAlarm(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.service.Alarm(r.Context())
	if err != nil {
		s.fail(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAlarmPayload(cfg))
}

func (s *Server) handleSetAlarm(w http.ResponseWriter, r *http.Request) {
	var p alarmPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	cfg, err := p.config()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	next, err := s.service.SetAlarm(r.Context(), cfg)
	if err != nil {
		s.fail(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, setAlarmResponse{
		alarmPayload: toAlarmPayload(cfg),
		Next:         toNextPayload(next),
	})
}

func (s *Server) handleNextAlarm(w http.ResponseWriter, r *http.Request) {
	next, err := s.service.NextAlarm(r.Context())
	if err != nil {
		s.fail(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNextPayload(next))
}

func (s *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	phase, err := power.ParsePhase(chi.URLParam(r, "state"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err = s.service.SetPower(r.Context(), phase); err != nil {
		s.fail(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInterrupt(w http.ResponseWriter, r *http.Request) {
	if err := s.service.RaiseInterrupt(r.Context()); err != nil {
		s.fail(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) fail(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, alarm.ErrInvalidHour), errors.Is(err, alarm.ErrInvalidMinute):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, power.ErrNotRunning), errors.Is(err, context.Canceled):
		http.Error(w, "alarm service is shutting down", http.StatusServiceUnavailable)
	default:
		logger.ErrorKV(ctx, "HTTP request failed", "error", err)
		http.Error(w, "alarm service failure", http.StatusInternalServerError)
	}
}

func (p alarmPayload) config() (alarm.Config, error) {
	cfg := alarm.Config{
		Enabled: p.Enabled,
		Hour:    p.Hour,
		Minute:  p.Minute,
	}

	if p.Time != "" {
		var err error
		if cfg.Hour, cfg.Minute, err = alarm.ParseClock(p.Time); err != nil {
			return alarm.Config{}, err
		}
	}

	days, err := alarm.ParseWeekdays(p.WeekDays...)
	if err != nil {
		return alarm.Config{}, err
	}

	cfg.Days = days

	return cfg, nil
}

func toAlarmPayload(cfg alarm.Config) alarmPayload {
	return alarmPayload{
		Enabled:  cfg.Enabled,
		Hour:     cfg.Hour,
		Minute:   cfg.Minute,
		Time:     cfg.Clock(),
		WeekDays: cfg.Days.Names(),
	}
}

func toNextPayload(next alarm.Resolution) nextPayload {
	p := nextPayload{
		Armed:        next.Armed,
		WeekdayIndex: next.Weekday(),
	}

	if next.Armed {
		p.FireTime = next.FireTime.Format(time.RFC3339)
		p.Weekday = alarm.ShortName(next.FireTime.Weekday())
	}

	return p
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
