// Package view contains the role-specific dashboard view models, the per-role
// profiles that build them and the router that picks a profile for a caller.
package view

import (
	"github.com/okian/salesboard/internal/domain/aggregate"
	"github.com/okian/salesboard/internal/domain/model"
)

// Kind tags a view model with the role it was built for.
type Kind string

// View kinds.
const (
	KindAgent   Kind = "agent"
	KindManager Kind = "manager"
	KindHR      Kind = "hr"
)

// Model is any role view. Every implementation carries its Kind.
type Model interface {
	ViewKind() Kind
}

// Snapshot holds the decoded tables of one request. Tables a profile does
// not require are left empty.
type Snapshot struct {
	Agents   []model.Agent
	Sales    []model.SaleRecord
	Tasks    []model.TaskDefinition
	Activity []model.ActivityLogEntry
	Pipeline []model.PipelineDeal
}

// Money is a monetary amount plus its USD display string without cents.
type Money struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// Charts groups the chart series of a view.
type Charts struct {
	PipelineFunnel   aggregate.Series  `json:"pipelineFunnel"`
	RevenueByProduct *aggregate.Series `json:"revenueByProduct,omitempty"`
	RevenueTrend     *aggregate.Series `json:"revenueTrend,omitempty"`
}

// AgentHeader identifies the caller on the agent view. Rank is 0 when the
// caller is not on the leaderboard.
type AgentHeader struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Team        string `json:"team"`
	Points      int    `json:"points"`
	Rank        int    `json:"rank,omitempty"`
	TotalAgents int    `json:"totalAgents"`
}

// AgentKPIs are the caller's month-to-date numbers.
type AgentKPIs struct {
	MyRevenue     Money   `json:"myRevenue"`
	MyCommission  Money   `json:"myCommission"`
	DealsClosed   int     `json:"dealsClosed"`
	AvgDealSize   Money   `json:"avgDealSize"`
	Quota         Money   `json:"quota"`
	QuotaProgress float64 `json:"quotaProgress"`
}

// AgentView is the dashboard of an Agent.
type AgentView struct {
	View        Kind                     `json:"view"`
	Header      AgentHeader              `json:"header"`
	KPIs        AgentKPIs                `json:"kpis"`
	Tasks       []aggregate.TaskStatus   `json:"tasks"`
	History     []aggregate.HistoryEntry `json:"history"`
	ChartData   Charts                   `json:"chartData"`
	Leaderboard []aggregate.Standing     `json:"leaderboard"`
}

// ViewKind implements Model.
func (AgentView) ViewKind() Kind { return KindAgent }

// PersonHeader identifies a Manager or HR caller.
type PersonHeader struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Team  string `json:"team,omitempty"`
	Role  string `json:"role"`
}

// OrgKPIs are organisation-wide month-to-date numbers over Agent-role records.
type OrgKPIs struct {
	TotalRevenue    Money   `json:"totalRevenue"`
	DealsClosed     int     `json:"dealsClosed"`
	AvgDealSize     Money   `json:"avgDealSize"`
	TotalQuota      Money   `json:"totalQuota"`
	QuotaAttainment float64 `json:"quotaAttainment"`
	ActiveAgents    int     `json:"activeAgents"`
}

// ManagerView is the dashboard of a Manager.
type ManagerView struct {
	View          Kind                    `json:"view"`
	Header        PersonHeader            `json:"header"`
	KPIs          OrgKPIs                 `json:"kpis"`
	Performance   []aggregate.Performance `json:"agentPerformance"`
	TopPerformers []aggregate.Standing    `json:"topPerformers"`
	ChartData     Charts                  `json:"chartData"`
}

// ViewKind implements Model.
func (ManagerView) ViewKind() Kind { return KindManager }

// RosterEntry is one person on the HR roster.
type RosterEntry struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Team  string `json:"team"`
}

// HRView is the dashboard of HR: the personnel roster without any money.
type HRView struct {
	View           Kind          `json:"view"`
	Header         PersonHeader  `json:"header"`
	TotalPersonnel int           `json:"totalPersonnel"`
	Roster         []RosterEntry `json:"roster"`
}

// ViewKind implements Model.
func (HRView) ViewKind() Kind { return KindHR }
