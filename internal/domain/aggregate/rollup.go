// Package aggregate contains the pure computations behind every dashboard
// view: sales rollups, rankings, funnel buckets, groupings and task matching.
// Every function works on an immutable snapshot and never fails.
package aggregate

import (
	"math"
	"sort"

	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/domain/window"
)

// Rollup sums a set of sales.
type Rollup struct {
	Revenue     float64 `json:"revenue"`
	Commission  float64 `json:"commission"`
	Deals       int     `json:"deals"`
	AvgDealSize float64 `json:"avgDealSize"`
}

// Sum rolls up revenue and commission. AvgDealSize is 0 for an empty set.
func Sum(sales []model.SaleRecord) Rollup {
	var r Rollup
	for _, s := range sales {
		r.Revenue += s.Revenue
		r.Commission += s.Commission()
	}
	r.Deals = len(sales)
	if r.Deals > 0 {
		r.AvgDealSize = r.Revenue / float64(r.Deals)
	}
	return r
}

// QuotaProgress is revenue as a percentage of quota, rounded to one decimal.
// A quota of zero or less yields 0.
func QuotaProgress(revenue, quota float64) float64 {
	if quota <= 0 {
		return 0
	}
	return math.Round(revenue*1000/quota) / 10
}

// SalesOf returns the sales of one agent (normalized email) inside the
// month-to-date window.
func SalesOf(sales []model.SaleRecord, email string, w window.Windows) []model.SaleRecord {
	out := make([]model.SaleRecord, 0)
	for _, s := range sales {
		if window.SameEmail(s.AgentEmail, email) && w.MonthToDate(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

// SalesOfAgents returns month-to-date sales whose owner is one of agents.
func SalesOfAgents(sales []model.SaleRecord, agents []model.Agent, w window.Windows) []model.SaleRecord {
	owners := emailSet(agents)
	out := make([]model.SaleRecord, 0)
	for _, s := range sales {
		if _, ok := owners[window.NormalizeEmail(s.AgentEmail)]; ok && w.MonthToDate(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

// OfRole keeps agents with the given role, in roster order.
func OfRole(agents []model.Agent, role model.Role) []model.Agent {
	out := make([]model.Agent, 0, len(agents))
	for _, a := range agents {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out
}

// FindAgent returns the first roster entry whose email matches target.
func FindAgent(agents []model.Agent, target string) (model.Agent, bool) {
	for _, a := range agents {
		if window.SameEmail(a.Email, target) {
			return a, true
		}
	}
	return model.Agent{}, false
}

// Performance is one row of the manager's per-agent table.
type Performance struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Team          string  `json:"team"`
	Revenue       float64 `json:"revenue"`
	Deals         int     `json:"deals"`
	Quota         float64 `json:"quota"`
	QuotaProgress float64 `json:"quotaProgress"`
}

// PerformanceTable rolls up month-to-date sales per agent, sorted by revenue
// descending. Ties keep roster order.
func PerformanceTable(agents []model.Agent, sales []model.SaleRecord, w window.Windows) []Performance {
	byEmail := make(map[string][]model.SaleRecord, len(agents))
	for _, s := range sales {
		if !w.MonthToDate(s.Date) {
			continue
		}
		key := window.NormalizeEmail(s.AgentEmail)
		byEmail[key] = append(byEmail[key], s)
	}

	out := make([]Performance, 0, len(agents))
	for _, a := range agents {
		r := Sum(byEmail[window.NormalizeEmail(a.Email)])
		if a.Email == "" {
			r = Rollup{}
		}
		out = append(out, Performance{
			Name:          a.Name,
			Email:         a.Email,
			Team:          a.Team,
			Revenue:       r.Revenue,
			Deals:         r.Deals,
			Quota:         a.MonthlyQuota,
			QuotaProgress: QuotaProgress(r.Revenue, a.MonthlyQuota),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}

// TotalQuota sums the monthly quota of agents.
func TotalQuota(agents []model.Agent) float64 {
	var q float64
	for _, a := range agents {
		q += a.MonthlyQuota
	}
	return q
}

func emailSet(agents []model.Agent) map[string]struct{} {
	set := make(map[string]struct{}, len(agents))
	for _, a := range agents {
		if e := window.NormalizeEmail(a.Email); e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}
