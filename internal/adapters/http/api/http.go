// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/cors"

	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/domain/view"
	"github.com/okian/salesboard/pkg/logger"
)

// DefaultIdentityHeader carries the verified caller email when no other
// header is configured.
const DefaultIdentityHeader = "X-Authenticated-Email"

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Dashboard builds the role view for a verified caller email.
	Dashboard(ctx context.Context, email string) (view.Model, error)

	// PostAnnouncement appends an HR announcement.
	PostAnnouncement(ctx context.Context, email, title, message, audience string) (model.Announcement, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	dashboardHandler     *DashboardHandler
	announcementsHandler *AnnouncementsHandler

	allowedOrigins []string
	identityHeader string
	logger         logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithIdentityHeader sets the header the auth proxy writes the caller email to.
func WithIdentityHeader(h string) Option {
	return func(s *Server) {
		if h = strings.TrimSpace(h); h != "" {
			s.identityHeader = h
		}
	}
}

// WithAllowedOrigins sets the CORS origins.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		allowedOrigins: []string{"*"},
		identityHeader: DefaultIdentityHeader,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.dashboardHandler = NewDashboardHandler(deps, s.identityHeader)
	s.announcementsHandler = NewAnnouncementsHandler(deps, s.identityHeader)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/dashboard", MetricsMiddleware(s.dashboardHandler.HandleGetDashboard, "dashboard"))
	mux.HandleFunc("/api/announcements", MetricsMiddleware(s.announcementsHandler.HandlePostAnnouncement, "announcements"))
}

// Handler wraps next with request ids and CORS.
func (s *Server) Handler(next http.Handler) http.Handler {
	c := cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", s.identityHeader, RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	})
	return c(RequestIDMiddleware(next, s.logger))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a service error onto its status and kind code. Upstream
// details stay in the logs; callers only see the summary message.
func writeFailure(w http.ResponseWriter, err error) {
	kind := model.KindOf(err)
	status := statusFor(kind)
	if kind == "" {
		writeJSON(w, status, errorResponse{Code: "internal_error", Message: http.StatusText(status)})
		return
	}
	msg := string(kind)
	var e *model.Error
	if errors.As(err, &e) {
		msg = e.Message
		if msg == "" {
			msg = e.Detail()
		}
	}
	writeJSON(w, status, errorResponse{Code: string(kind), Message: msg})
}

func statusFor(kind model.Kind) int {
	switch kind {
	case model.KindUnauthenticated:
		return http.StatusUnauthorized
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindForbidden, model.KindUnknownRole:
		return http.StatusForbidden
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// identity reads the verified caller email from header h.
func identity(r *http.Request, h string) string {
	return strings.ToLower(strings.TrimSpace(r.Header.Get(h)))
}
