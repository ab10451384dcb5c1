package view

import (
	"strconv"

	"github.com/okian/salesboard/internal/domain/aggregate"
	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/domain/normalize"
	"github.com/okian/salesboard/internal/domain/window"
)

// Default view limits.
const (
	DefaultHistoryLimit  = 20
	DefaultTopPerformers = 5
	DefaultTrendMonths   = 6
)

// Settings are the tunable limits shared by every builder.
type Settings struct {
	HistoryLimit  int
	TopPerformers int
	TrendMonths   int
}

// DefaultSettings returns the stock limits.
func DefaultSettings() Settings {
	return Settings{
		HistoryLimit:  DefaultHistoryLimit,
		TopPerformers: DefaultTopPerformers,
		TrendMonths:   DefaultTrendMonths,
	}
}

// Request is everything a builder sees: the resolved caller, the decoded
// tables, and the windows computed once for this request.
type Request struct {
	Caller   model.Agent
	Email    string // normalized caller email
	Snapshot Snapshot
	Windows  window.Windows
	Settings Settings
}

// Builder assembles a view model. Builders never fail: dirty rows have
// already been degraded by the normalizer.
type Builder func(Request) Model

// Profile configures one role: the ranges it reads and how its view is built.
type Profile struct {
	Role     model.Role
	Kind     Kind
	Requires []normalize.Range
	Build    Builder
}

// Needs reports whether the profile reads r.
func (p Profile) Needs(r normalize.Range) bool {
	for _, req := range p.Requires {
		if req == r {
			return true
		}
	}
	return false
}

// AgentProfile reads every table except the roster-only ones.
func AgentProfile() Profile {
	return Profile{
		Role: model.RoleAgent,
		Kind: KindAgent,
		Requires: []normalize.Range{
			normalize.RangeAgents, normalize.RangeSales, normalize.RangeTasks,
			normalize.RangeActivity, normalize.RangePipeline,
		},
		Build: BuildAgent,
	}
}

// ManagerProfile reads the roster, sales and pipeline.
func ManagerProfile() Profile {
	return Profile{
		Role:     model.RoleManager,
		Kind:     KindManager,
		Requires: []normalize.Range{normalize.RangeAgents, normalize.RangeSales, normalize.RangePipeline},
		Build:    BuildManager,
	}
}

// HRProfile reads the roster only.
func HRProfile() Profile {
	return Profile{
		Role:     model.RoleHR,
		Kind:     KindHR,
		Requires: []normalize.Range{normalize.RangeAgents},
		Build:    BuildHR,
	}
}

// Router resolves a caller to a profile.
type Router struct {
	profiles map[model.Role]Profile
}

// NewRouter registers profiles by role. With no arguments the Agent, Manager
// and HR profiles are used.
func NewRouter(profiles ...Profile) *Router {
	if len(profiles) == 0 {
		profiles = []Profile{AgentProfile(), ManagerProfile(), HRProfile()}
	}
	r := &Router{profiles: make(map[model.Role]Profile, len(profiles))}
	for _, p := range profiles {
		r.profiles[p.Role] = p
	}
	return r
}

// Profile returns the profile registered for role.
func (r *Router) Profile(role model.Role) (Profile, bool) {
	p, ok := r.profiles[role]
	return p, ok
}

// Resolve finds the caller in the roster and the profile for their role.
// An absent caller is NotFound; a role without a profile is UnknownRole.
func (r *Router) Resolve(agents []model.Agent, email string) (model.Agent, Profile, error) {
	target := window.NormalizeEmail(email)
	if target == "" {
		return model.Agent{}, Profile{}, model.NewError(model.KindUnauthenticated, "no verified caller identity")
	}
	caller, ok := aggregate.FindAgent(agents, target)
	if !ok {
		return model.Agent{}, Profile{}, model.NewError(model.KindNotFound, "user not found in agent list")
	}
	p, ok := r.profiles[caller.Role]
	if !ok {
		return caller, Profile{}, model.NewError(model.KindUnknownRole, "unrecognized role "+strconv.Quote(string(caller.Role)))
	}
	return caller, p, nil
}
