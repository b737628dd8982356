package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/weatherbox/internal/domain"
)

// AlertService is the pipeline surface the HTTP layer consumes.
type AlertService interface {
	Coordinates(ctx context.Context, city, state string) (domain.Coordinates, error)
	MostImportantForLocation(ctx context.Context, city, state string) (*domain.Alert, error)
	CheckReadiness(ctx context.Context) error
}

// AlertResponse is the weather-alert lookup payload. The location fields
// are always present; AlertDetails is nil when no alert is active.
type AlertResponse struct {
	City      string  `json:"city"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	*AlertDetails
}

// AlertDetails carries the winning alert. Score fields are the raw enum
// ordinals; expires is rendered in UTC.
type AlertDetails struct {
	Headline        string `json:"headline"`
	Event           string `json:"event"`
	Severity        string `json:"severity"`
	Urgency         string `json:"urgency"`
	Certainty       string `json:"certainty"`
	SeverityScore   int    `json:"severity_score"`
	UrgencyScore    int    `json:"urgency_score"`
	CertaintyScore  int    `json:"certainty_score"`
	ImportanceScore int    `json:"importance_score"`
	Expires         string `json:"expires"`
	Description     string `json:"description"`
	Instruction     string `json:"instruction"`
	NWSHeadline     string `json:"nws_headline,omitempty"`
}

// Server exposes the weather-alert lookup plus health, readiness, and
// metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	service    AlertService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the lookup, /healthz, /readyz, and
// /metrics routes.
func NewServer(addr string, service AlertService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			ReadTimeout: 10 * time.Second,
			// A lookup chains geocode, points, and alert queries; their
			// upstream timeouts can stack well past 10s.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("GET /weather-alert/{state}/{city}", s.handleWeatherAlert)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(service))
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer.Handler = s.withRequestID(mux)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleWeatherAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := r.PathValue("state")
	city := r.PathValue("city")

	coords, err := s.service.Coordinates(ctx, city, state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	alert, err := s.service.MostImportantForLocation(ctx, city, state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := AlertResponse{
		City:      city,
		State:     state,
		Latitude:  coords.Lat,
		Longitude: coords.Lon,
	}
	if alert != nil {
		resp.AlertDetails = alertDetails(alert)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound domain.LocationNotFoundError
	if errors.As(err, &notFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": notFound.Error()})
		return
	}
	s.requestLogger(r).Error("weather alert lookup failed", "error", err)
	writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "weather lookup failed: upstream service unavailable"})
}

func alertDetails(a *domain.Alert) *AlertDetails {
	return &AlertDetails{
		Headline:        a.Headline,
		Event:           a.Event,
		Severity:        a.Severity.String(),
		Urgency:         a.Urgency.String(),
		Certainty:       a.Certainty.String(),
		SeverityScore:   int(a.Severity),
		UrgencyScore:    int(a.Urgency),
		CertaintyScore:  int(a.Certainty),
		ImportanceScore: a.ImportanceScore(),
		Expires:         a.Expires.UTC().Format("2006-01-02 15:04:05") + " UTC",
		Description:     a.Description,
		Instruction:     a.Instruction,
		NWSHeadline:     a.NWSHeadline,
	}
}

type ctxKey int

const loggerKey ctxKey = iota

// withRequestID assigns every request an ID, echoes it in the response,
// and scopes the logger to it.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-Id", id)

		logger := s.logger.With("request_id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loggerKey, logger)))
	})
}

func (s *Server) requestLogger(r *http.Request) *slog.Logger {
	if logger, ok := r.Context().Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return s.logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
