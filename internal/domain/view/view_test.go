package view_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/salesboard/internal/domain/aggregate"
	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/domain/normalize"
	"github.com/okian/salesboard/internal/domain/view"
	"github.com/okian/salesboard/internal/domain/window"
	"github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func amySnapshot() view.Snapshot {
	return view.Snapshot{
		Agents: []model.Agent{
			{Name: "Amy", Email: "amy@x.com", Role: model.RoleAgent, Team: "East", MonthlyQuota: 1000, PointsBalance: 50},
			{Name: "Bob", Email: "bob@x.com", Role: model.RoleAgent, Team: "West", MonthlyQuota: 2000, PointsBalance: 70},
			{Name: "Meg", Email: "meg@x.com", Role: model.RoleManager, Team: "East"},
			{Name: "Hal", Email: "hal@x.com", Role: model.RoleHR},
			{Name: "Ian", Email: "ian@x.com", Role: model.Role("Intern")},
		},
		Sales: []model.SaleRecord{
			{Date: now, AgentEmail: "AMY@X.COM", Product: "Widget", Revenue: 1200.50, CommissionRate: 0.1},
			{Date: now.AddDate(0, -1, 0), AgentEmail: "amy@x.com", Product: "Widget", Revenue: 400},
			{Date: now.Add(-time.Hour), AgentEmail: "bob@x.com", Product: "Gadget", Revenue: 1799.50},
			{Date: now, AgentEmail: "meg@x.com", Revenue: 10000},
		},
		Tasks: []model.TaskDefinition{
			{ID: "T1", Description: "Call 5 leads", Category: model.CategoryManual, PointValue: 10},
			{ID: "T2", Description: "Book a demo", Category: model.CategoryManual, PointValue: 20},
		},
		Activity: []model.ActivityLogEntry{
			{Timestamp: now.Add(-time.Hour), AgentEmail: "amy@x.com", ActionDescription: "Completed T1 early", PointsAwarded: 10},
		},
		Pipeline: []model.PipelineDeal{
			{AgentEmail: "amy@x.com", Stage: model.StageDemo, Amount: 500},
			{AgentEmail: "bob@x.com", Stage: model.StageNegotiation, Amount: 300},
			{AgentEmail: "amy@x.com", Stage: "Closed Won", Amount: 900},
		},
	}
}

func build(t *testing.T, email string) (view.Model, error) {
	t.Helper()
	router := view.NewRouter()
	snap := amySnapshot()
	caller, profile, err := router.Resolve(snap.Agents, email)
	if err != nil {
		return nil, err
	}
	return profile.Build(view.Request{
		Caller:   caller,
		Email:    window.NormalizeEmail(email),
		Snapshot: snap,
		Windows:  window.At(now),
		Settings: view.DefaultSettings(),
	}), nil
}

func TestAgentView(t *testing.T) {
	convey.Convey("Given Amy's month-to-date sale of 1,200.50 against a 1000 quota", t, func() {
		m, err := build(t, "amy@x.com")
		convey.So(err, convey.ShouldBeNil)
		v, ok := m.(view.AgentView)
		convey.So(ok, convey.ShouldBeTrue)

		convey.Convey("Then the KPIs should cover only this month", func() {
			convey.So(v.View, convey.ShouldEqual, view.KindAgent)
			convey.So(v.KPIs.MyRevenue.Value, convey.ShouldAlmostEqual, 1200.50, 1e-9)
			convey.So(v.KPIs.MyRevenue.Display, convey.ShouldEqual, "$1,201")
			convey.So(v.KPIs.DealsClosed, convey.ShouldEqual, 1)
			convey.So(v.KPIs.AvgDealSize.Value, convey.ShouldAlmostEqual, 1200.50, 1e-9)
			convey.So(v.KPIs.QuotaProgress, convey.ShouldEqual, 120.1)
			convey.So(v.KPIs.MyCommission.Display, convey.ShouldEqual, "$120")
		})

		convey.Convey("Then the header should rank Amy behind Bob", func() {
			convey.So(v.Header.Rank, convey.ShouldEqual, 2)
			convey.So(v.Header.TotalAgents, convey.ShouldEqual, 2)
			convey.So(v.Header.Points, convey.ShouldEqual, 50)
		})

		convey.Convey("Then T1 should be Completed and T2 Pending", func() {
			convey.So(v.Tasks, convey.ShouldHaveLength, 2)
			convey.So(v.Tasks[0].Status, convey.ShouldEqual, aggregate.StatusCompleted)
			convey.So(v.Tasks[1].Status, convey.ShouldEqual, aggregate.StatusPending)
		})

		convey.Convey("Then the charts should cover Amy's deals and products", func() {
			convey.So(v.ChartData.PipelineFunnel.Data, convey.ShouldResemble, []float64{0, 0, 500, 0})
			convey.So(v.ChartData.RevenueByProduct.Labels, convey.ShouldResemble, []string{"Widget"})
			convey.So(v.History, convey.ShouldHaveLength, 1)
			convey.So(v.History[0].Points, convey.ShouldEqual, "+10")
		})

		convey.Convey("Then the JSON should carry the view tag", func() {
			raw, err := json.Marshal(v)
			convey.So(err, convey.ShouldBeNil)
			var out map[string]any
			convey.So(json.Unmarshal(raw, &out), convey.ShouldBeNil)
			convey.So(out["view"], convey.ShouldEqual, "agent")
			convey.So(out["chartData"], convey.ShouldContainKey, "revenueByProduct")
			convey.So(out["chartData"], convey.ShouldNotContainKey, "revenueTrend")
		})
	})
}

func TestManagerView(t *testing.T) {
	convey.Convey("Given a manager caller", t, func() {
		m, err := build(t, "MEG@x.com")
		convey.So(err, convey.ShouldBeNil)
		v := m.(view.ManagerView)

		convey.Convey("Then org KPIs should only count Agent-role sales", func() {
			convey.So(v.KPIs.TotalRevenue.Value, convey.ShouldAlmostEqual, 3000, 1e-9)
			convey.So(v.KPIs.DealsClosed, convey.ShouldEqual, 2)
			convey.So(v.KPIs.QuotaAttainment, convey.ShouldEqual, 100)
			convey.So(v.KPIs.ActiveAgents, convey.ShouldEqual, 2)
		})

		convey.Convey("Then the performance table should be sorted by revenue", func() {
			convey.So(v.Performance, convey.ShouldHaveLength, 2)
			convey.So(v.Performance[0].Name, convey.ShouldEqual, "Bob")
			convey.So(v.Performance[1].Name, convey.ShouldEqual, "Amy")
		})

		convey.Convey("Then the funnel should cover every deal and the trend six months", func() {
			convey.So(v.ChartData.PipelineFunnel.Data, convey.ShouldResemble, []float64{0, 0, 500, 300})
			convey.So(v.ChartData.RevenueTrend.Labels, convey.ShouldHaveLength, view.DefaultTrendMonths)
			convey.So(v.TopPerformers[0].Name, convey.ShouldEqual, "Bob")
		})
	})
}

func TestHRView(t *testing.T) {
	convey.Convey("Given an HR caller", t, func() {
		m, err := build(t, "hal@x.com")
		convey.So(err, convey.ShouldBeNil)
		v := m.(view.HRView)

		convey.Convey("Then the whole roster should be listed", func() {
			convey.So(v.View, convey.ShouldEqual, view.KindHR)
			convey.So(v.TotalPersonnel, convey.ShouldEqual, 5)
			convey.So(v.Roster[4].Role, convey.ShouldEqual, "Intern")
		})
	})
}

func TestRouter(t *testing.T) {
	convey.Convey("Given the default router", t, func() {
		convey.Convey("When the caller is not in the roster", func() {
			_, err := build(t, "nobody@x.com")

			convey.Convey("Then NotFound should be returned", func() {
				convey.So(errors.Is(err, model.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the caller's role is Intern", func() {
			_, err := build(t, "ian@x.com")

			convey.Convey("Then UnknownRole should be returned", func() {
				convey.So(model.KindOf(err), convey.ShouldEqual, model.KindUnknownRole)
			})
		})

		convey.Convey("When no email is given", func() {
			_, err := build(t, "  ")

			convey.Convey("Then the caller should be unauthenticated", func() {
				convey.So(errors.Is(err, model.ErrUnauthenticated), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a profile is inspected", func() {
			p, ok := view.NewRouter().Profile(model.RoleHR)

			convey.Convey("Then HR should only need the roster", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(p.Needs(normalize.RangeAgents), convey.ShouldBeTrue)
				convey.So(p.Needs(normalize.RangeSales), convey.ShouldBeFalse)
			})
		})
	})
}

func TestUSD(t *testing.T) {
	convey.Convey("Given amounts", t, func() {
		convey.So(view.USD(0).Display, convey.ShouldEqual, "$0")
		convey.So(view.USD(1234567.4).Display, convey.ShouldEqual, "$1,234,567")
		convey.So(view.USD(-5).Display, convey.ShouldEqual, "-$5")
	})
}
