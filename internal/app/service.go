// Package service wires the data source, the record normalizer and the role
// views into the operations the HTTP API and the CLI call.
package service

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/okian/salesboard/internal/adapters/repository"
	"github.com/okian/salesboard/internal/domain/aggregate"
	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/domain/normalize"
	"github.com/okian/salesboard/internal/domain/view"
	"github.com/okian/salesboard/internal/domain/window"
	"github.com/okian/salesboard/pkg/logger"
	"github.com/okian/salesboard/pkg/metrics"
)

// dashboardRanges is the single batch every dashboard request reads. The
// order matches the decode order in snapshot.
var dashboardRanges = []normalize.Schema{
	normalize.AgentsSchema,
	normalize.SalesSchema,
	normalize.TasksSchema,
	normalize.ActivitySchema,
	normalize.PipelineSchema,
}

// Service implements the dashboard and announcement operations.
type Service struct {
	source          repository.Source
	router          *view.Router
	loc             *time.Location
	clock           func() time.Time
	settings        view.Settings
	defaultAudience string
	logger          logger.Logger

	mu        sync.Mutex
	requests  map[view.Kind]int64
	failures  map[model.Kind]int64
	announced int64
	started   time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the tabular data source.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock pins "now". Tests and the view command use it.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLocation sets the zone reporting windows and sheet dates are read in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithHistoryLimit caps the agent's recent activity list.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.settings.HistoryLimit = n
		}
	}
}

// WithTopPerformers sets how many leaders the manager view shows.
func WithTopPerformers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.settings.TopPerformers = n
		}
	}
}

// WithTrendMonths sets the length of the manager's revenue trend.
func WithTrendMonths(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.settings.TrendMonths = n
		}
	}
}

// WithDefaultAudience sets the audience used when an announcement has none.
func WithDefaultAudience(a string) Option {
	return func(s *Service) {
		if a = strings.TrimSpace(a); a != "" {
			s.defaultAudience = a
		}
	}
}

// WithRouter replaces the role profiles.
func WithRouter(r *view.Router) Option {
	return func(s *Service) {
		if r != nil {
			s.router = r
		}
	}
}

// New constructs a Service. Without WithSource it serves an empty in-memory
// source, which answers every caller with not_found.
func New(opts ...Option) *Service {
	s := &Service{
		source:          repository.NewMemorySource(),
		router:          view.NewRouter(),
		loc:             time.Local,
		clock:           time.Now,
		settings:        view.DefaultSettings(),
		defaultAudience: model.AudienceAll,
		logger:          logger.Nop(),
		requests:        make(map[view.Kind]int64),
		failures:        make(map[model.Kind]int64),
		started:         time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard builds the view for a verified caller email. It reads all five
// tables in one batch, resolves the caller's role, then decodes only the
// tables that role's profile requires.
func (s *Service) Dashboard(ctx context.Context, email string) (view.Model, error) {
	start := time.Now()
	email = window.NormalizeEmail(email)
	if email == "" {
		return nil, s.fail(ctx, model.NewError(model.KindUnauthenticated, "user email is required"))
	}

	a1 := make([]string, len(dashboardRanges))
	for i, sc := range dashboardRanges {
		a1[i] = sc.A1()
	}
	tables, err := s.source.BatchGet(ctx, a1)
	if err != nil {
		s.logger.Error(ctx, "dashboard fetch failed",
			logger.String("source", s.source.Name()),
			logger.Error(err),
		)
		return nil, s.fail(ctx, model.Upstream("failed to retrieve dashboard data", err))
	}
	if len(tables) != len(a1) {
		return nil, s.fail(ctx, model.NewError(model.KindUpstream, "source returned a malformed batch"))
	}

	dec := normalize.NewDecoder(s.loc)
	agents, q := dec.Agents(tables[0])
	s.quality(ctx, normalize.RangeAgents, q)

	caller, profile, err := s.router.Resolve(agents, email)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	snap := s.snapshot(ctx, dec, profile, agents, tables)
	m := profile.Build(view.Request{
		Caller:   caller,
		Email:    email,
		Snapshot: snap,
		Windows:  window.At(s.clock().In(s.loc)),
		Settings: s.settings,
	})

	elapsed := time.Since(start)
	kind := string(m.ViewKind())
	metrics.RecordDashboardRequest(kind, "ok")
	metrics.RecordDashboardBuildLatency(kind, float64(elapsed.Nanoseconds())/1e6)
	s.mu.Lock()
	s.requests[m.ViewKind()]++
	s.mu.Unlock()

	s.logger.Info(ctx, "dashboard built",
		logger.String("email", email),
		logger.String("role", string(caller.Role)),
		logger.String("view", kind),
		logger.Any("duration", elapsed),
	)
	return m, nil
}

func (s *Service) snapshot(ctx context.Context, dec *normalize.Decoder, p view.Profile, agents []model.Agent, tables [][][]any) view.Snapshot {
	snap := view.Snapshot{Agents: agents}
	if p.Needs(normalize.RangeSales) {
		var q normalize.Quality
		snap.Sales, q = dec.Sales(tables[1])
		s.quality(ctx, normalize.RangeSales, q)
	}
	if p.Needs(normalize.RangeTasks) {
		var q normalize.Quality
		snap.Tasks, q = dec.Tasks(tables[2])
		s.quality(ctx, normalize.RangeTasks, q)
	}
	if p.Needs(normalize.RangeActivity) {
		var q normalize.Quality
		snap.Activity, q = dec.Activity(tables[3])
		s.quality(ctx, normalize.RangeActivity, q)
	}
	if p.Needs(normalize.RangePipeline) {
		var q normalize.Quality
		snap.Pipeline, q = dec.Pipeline(tables[4])
		s.quality(ctx, normalize.RangePipeline, q)
	}
	return snap
}

func (s *Service) quality(ctx context.Context, r normalize.Range, q normalize.Quality) {
	for issue, n := range q {
		metrics.RecordDataQuality(string(r), issue, n)
		s.logger.Debug(ctx, "degraded rows",
			logger.String("range", string(r)),
			logger.String("issue", issue),
			logger.Int("rows", n),
		)
	}
}

// fail counts a terminated request. No view was chosen, so the view label is "none".
func (s *Service) fail(ctx context.Context, err error) error {
	kind := model.KindOf(err)
	if kind == "" {
		kind = "internal"
	}
	metrics.RecordDashboardRequest("none", string(kind))
	s.mu.Lock()
	s.failures[kind]++
	s.mu.Unlock()
	if kind != model.KindUpstream {
		s.logger.Warn(ctx, "dashboard rejected",
			logger.String("kind", string(kind)),
			logger.Error(err),
		)
	}
	return err
}

// PostAnnouncement appends an announcement on behalf of an HR caller. The
// role is checked before the fields so that non-HR callers learn nothing
// about validation.
func (s *Service) PostAnnouncement(ctx context.Context, email, title, message, audience string) (model.Announcement, error) {
	email = window.NormalizeEmail(email)
	if email == "" {
		return model.Announcement{}, s.rejectAnnouncement(ctx, model.NewError(model.KindUnauthenticated, "you must be logged in to perform this action"))
	}

	tables, err := s.source.BatchGet(ctx, []string{normalize.AgentsSchema.A1()})
	if err != nil || len(tables) != 1 {
		s.logger.Error(ctx, "roster fetch failed", logger.String("source", s.source.Name()), logger.Error(err))
		return model.Announcement{}, s.rejectAnnouncement(ctx, model.Upstream("failed to post announcement", err))
	}
	agents, _ := normalize.NewDecoder(s.loc).Agents(tables[0])

	caller, ok := aggregate.FindAgent(agents, email)
	if !ok || caller.Role != model.RoleHR {
		return model.Announcement{}, s.rejectAnnouncement(ctx, model.NewError(model.KindForbidden, "you do not have permission to post announcements"))
	}

	title, message = strings.TrimSpace(title), strings.TrimSpace(message)
	if title == "" || message == "" {
		return model.Announcement{}, s.rejectAnnouncement(ctx, model.NewError(model.KindValidation, "title and message are required"))
	}
	if audience = strings.TrimSpace(audience); audience == "" {
		audience = s.defaultAudience
	}

	a := model.Announcement{
		Timestamp:   s.clock().In(s.loc),
		AuthorEmail: email,
		Title:       title,
		Body:        message,
		Audience:    audience,
	}
	if err := s.source.Append(ctx, normalize.AnnouncementsSchema.A1(), a.Row()); err != nil {
		s.logger.Error(ctx, "announcement append failed", logger.Error(err))
		return model.Announcement{}, s.rejectAnnouncement(ctx, model.Upstream("failed to post announcement", err))
	}

	metrics.RecordAnnouncement("ok")
	s.mu.Lock()
	s.announced++
	s.mu.Unlock()
	s.logger.Info(ctx, "announcement posted",
		logger.String("author", email),
		logger.String("audience", audience),
	)
	return a, nil
}

func (s *Service) rejectAnnouncement(ctx context.Context, err error) error {
	kind := model.KindOf(err)
	metrics.RecordAnnouncement(string(kind))
	s.mu.Lock()
	s.failures[kind]++
	s.mu.Unlock()
	s.logger.Warn(ctx, "announcement rejected", logger.String("kind", string(kind)), logger.Error(err))
	return err
}

// SourceName reports the configured source kind.
func (s *Service) SourceName() string { return s.source.Name() }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	requests := make(map[string]int64, len(s.requests))
	for k, v := range s.requests {
		requests[string(k)] = v
	}
	failures := make(map[string]int64, len(s.failures))
	for k, v := range s.failures {
		failures[string(k)] = v
	}
	announced := s.announced
	s.mu.Unlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(goroutines)

	return map[string]interface{}{
		"source":        s.source.Name(),
		"timezone":      s.loc.String(),
		"uptimeSeconds": int64(time.Since(s.started).Seconds()),
		"requests":      requests,
		"failures":      failures,
		"announcements": announced,
		"goroutines":    goroutines,
	}
}
