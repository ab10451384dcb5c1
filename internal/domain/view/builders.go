package view

import (
	"github.com/okian/salesboard/internal/domain/aggregate"
	"github.com/okian/salesboard/internal/domain/model"
)

// BuildAgent assembles the caller's own month-to-date numbers, Manual task
// completion for this week, recent activity, pipeline funnel, product mix and
// the full leaderboard.
func BuildAgent(req Request) Model {
	snap, w, caller := req.Snapshot, req.Windows, req.Caller

	mine := aggregate.SalesOf(snap.Sales, req.Email, w)
	r := aggregate.Sum(mine)
	board := aggregate.Leaderboard(snap.Agents)
	rank, _ := aggregate.RankOf(board, caller.Name)
	byProduct := aggregate.ByProduct(mine)

	return AgentView{
		View: KindAgent,
		Header: AgentHeader{
			Name:        caller.Name,
			Email:       caller.Email,
			Team:        caller.Team,
			Points:      caller.PointsBalance,
			Rank:        rank,
			TotalAgents: len(board),
		},
		KPIs: AgentKPIs{
			MyRevenue:     USD(r.Revenue),
			MyCommission:  USD(r.Commission),
			DealsClosed:   r.Deals,
			AvgDealSize:   USD(r.AvgDealSize),
			Quota:         USD(caller.MonthlyQuota),
			QuotaProgress: aggregate.QuotaProgress(r.Revenue, caller.MonthlyQuota),
		},
		Tasks:   aggregate.TaskStatuses(snap.Tasks, aggregate.ActivityOf(snap.Activity, req.Email, w)),
		History: aggregate.History(snap.Activity, req.Email, req.Settings.HistoryLimit),
		ChartData: Charts{
			PipelineFunnel:   aggregate.Funnel(aggregate.DealsOf(snap.Pipeline, req.Email)),
			RevenueByProduct: &byProduct,
		},
		Leaderboard: board,
	}
}

// BuildManager assembles organisation KPIs over Agent-role records, the
// per-agent performance table, top performers by points, the org funnel and
// the trailing revenue trend.
func BuildManager(req Request) Model {
	snap, w := req.Snapshot, req.Windows

	agents := aggregate.OfRole(snap.Agents, model.RoleAgent)
	r := aggregate.Sum(aggregate.SalesOfAgents(snap.Sales, agents, w))
	quota := aggregate.TotalQuota(agents)
	trend := aggregate.Trend(snap.Sales, w, req.Settings.TrendMonths)

	return ManagerView{
		View:   KindManager,
		Header: personHeader(req.Caller),
		KPIs: OrgKPIs{
			TotalRevenue:    USD(r.Revenue),
			DealsClosed:     r.Deals,
			AvgDealSize:     USD(r.AvgDealSize),
			TotalQuota:      USD(quota),
			QuotaAttainment: aggregate.QuotaProgress(r.Revenue, quota),
			ActiveAgents:    len(agents),
		},
		Performance:   aggregate.PerformanceTable(agents, snap.Sales, w),
		TopPerformers: aggregate.Top(aggregate.Leaderboard(snap.Agents), req.Settings.TopPerformers),
		ChartData: Charts{
			PipelineFunnel: aggregate.Funnel(snap.Pipeline),
			RevenueTrend:   &trend,
		},
	}
}

// BuildHR lists the personnel roster.
func BuildHR(req Request) Model {
	roster := make([]RosterEntry, 0, len(req.Snapshot.Agents))
	for _, a := range req.Snapshot.Agents {
		roster = append(roster, RosterEntry{Name: a.Name, Email: a.Email, Role: string(a.Role), Team: a.Team})
	}
	return HRView{
		View:           KindHR,
		Header:         personHeader(req.Caller),
		TotalPersonnel: len(roster),
		Roster:         roster,
	}
}

func personHeader(a model.Agent) PersonHeader {
	return PersonHeader{Name: a.Name, Email: a.Email, Team: a.Team, Role: string(a.Role)}
}
