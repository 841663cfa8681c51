// Package httpapi exposes the prediction pipeline over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mhopper/edgeboard/internal/core/grading"
	"github.com/mhopper/edgeboard/internal/core/league"
	"github.com/mhopper/edgeboard/internal/core/model"
	"github.com/mhopper/edgeboard/internal/core/predict"
	"github.com/mhopper/edgeboard/internal/telemetry"
)

// SlateService is the slice of the prediction service the API needs.
type SlateService interface {
	Slate(ctx context.Context, req predict.Request) (*predict.Slate, error)
}

// ScoringRunner triggers grading runs for the admin endpoint.
type ScoringRunner interface {
	Run(ctx context.Context, date string, leagues []league.League, force bool) []grading.RunResult
}

type Handler struct {
	svc    SlateService
	runner ScoringRunner
	ws     http.HandlerFunc
	now    func() time.Time
}

func NewHandler(svc SlateService, runner ScoringRunner, ws http.HandlerFunc) *Handler {
	return &Handler{svc: svc, runner: runner, ws: ws, now: time.Now}
}

// Router assembles the chi mux.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", h.health)
	r.Method(http.MethodGet, "/metrics", telemetry.MetricsHandler())
	r.Get("/predictions", h.predictions)
	r.Post("/admin/scoring/run", h.runScoring)
	if h.ws != nil {
		r.Get("/ws", h.ws)
	}
	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// predictions serves GET /predictions?league=&date=&windowDays=&model=&mode=.
// Malformed parameters are the caller's fault (400); an upstream or
// pipeline failure degrades to an error meta with an empty games list so
// the dashboard always has something to render.
func (h *Handler) predictions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lg, err := league.Parse(q.Get("league"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	date := q.Get("date")
	if date == "" {
		date = h.now().UTC().Format("2006-01-02")
	}

	req := predict.Request{League: lg, Date: date}

	if wd := q.Get("windowDays"); wd != "" {
		n, err := strconv.Atoi(wd)
		if err != nil || n <= 0 {
			badRequest(w, "windowDays must be a positive integer")
			return
		}
		req.WindowDays = n
	}
	if mv := q.Get("model"); mv != "" {
		v, ok := model.ParseVersion(mv)
		if !ok {
			badRequest(w, "unknown model version "+strconv.Quote(mv))
			return
		}
		req.Model = v
	}
	if md := q.Get("mode"); md != "" {
		m, err := league.ParseMode(md)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		req.Mode = m
	}

	slate, err := h.svc.Slate(r.Context(), req)
	if err != nil {
		telemetry.Errorf("httpapi: slate %s %s: %v", lg, date, err)
		writeJSON(w, http.StatusOK, predict.Slate{
			Meta: predict.Meta{
				League: lg,
				Date:   date,
				Error:  err.Error(),
			},
			Games: []predict.PredictionRecord{},
		})
		return
	}
	writeJSON(w, http.StatusOK, slate)
}

// runScoring serves POST /admin/scoring/run?date=&leagues=&force=.
// leagues is a comma-separated list; empty means all.
func (h *Handler) runScoring(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	date := q.Get("date")
	if date == "" {
		// Default to yesterday: the nightly job grades the night that ended.
		date = h.now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		badRequest(w, "invalid date: want YYYY-MM-DD")
		return
	}

	leagues, err := parseLeagues(q.Get("leagues"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	force := q.Get("force") == "true" || q.Get("force") == "1"

	results := h.runner.Run(r.Context(), date, leagues, force)
	writeJSON(w, http.StatusOK, map[string]any{
		"date":    date,
		"results": results,
	})
}

func parseLeagues(csv string) ([]league.League, error) {
	if strings.TrimSpace(csv) == "" {
		return league.All(), nil
	}
	var out []league.League
	for _, part := range strings.Split(csv, ",") {
		lg, err := league.Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, lg)
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		telemetry.Warnf("httpapi: encode response: %v", err)
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
