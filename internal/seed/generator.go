package seed

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/domain/normalize"
	"github.com/okian/salesboard/pkg/logger"
)

// Email domain of every generated person.
const Domain = "salesboard.example"

// Fixed staff added next to the agents.
const (
	ManagerEmail = "morgan.lee@" + Domain
	HREmail      = "harper.quinn@" + Domain
)

// Quota and revenue ranges, in dollars.
const (
	quotaMin    = 20000
	quotaStep   = 5000
	quotaSteps  = 7
	revenueMin  = 500.0
	revenueSpan = 9500.0
	pointsMax   = 500
)

var (
	firstNames = []string{"Avery", "Blake", "Casey", "Devon", "Emery", "Finley", "Gray", "Hayden", "Jordan", "Kai", "Logan", "Marley"}
	lastNames  = []string{"Adams", "Brooks", "Chen", "Diaz", "Evans", "Fischer", "Garcia", "Hughes", "Ito", "Jones", "Khan", "Lopez"}
	teams      = []string{"East", "West", "Central"}
	products   = []string{"Starter Plan", "Growth Plan", "Enterprise Plan", "Onboarding", "Support Add-on"}
	customers  = []string{"Acme Corp", "Globex", "Initech", "Umbrella", "Hooli", "Stark Industries", "Wayne Enterprises"}
	rates      = []any{0.05, 0.08, 0.1, "12%"}
	// Deals outside the funnel stages still show up in the sheet.
	stages = []string{model.StageProspecting, model.StageQualification, model.StageDemo, model.StageNegotiation, "Closed Won"}
)

// task is one gamification task definition.
type task struct {
	id, description, category, frequency string
	points                               int
}

var taskTemplates = []task{
	{description: "Log 20 outbound calls", category: model.CategoryManual, frequency: "Weekly", points: 10},
	{description: "Book a product demo", category: model.CategoryManual, frequency: "Weekly", points: 25},
	{description: "Update pipeline notes", category: model.CategoryManual, frequency: "Daily", points: 5},
	{description: "Close a deal", category: model.CategoryAutomatic, frequency: "Weekly", points: 50},
	{description: "Attend team training", category: model.CategoryManual, frequency: "Monthly", points: 15},
}

// agentRows is everything generated for one agent.
type agentRows struct {
	roster   []any
	sales    [][]any
	activity [][]any
	deals    [][]any
}

// Generate builds a dataset. Agents are generated concurrently, each from
// its own random stream, so the output only depends on Seed and Now.
func Generate(ctx context.Context, cfg Config) (*Dataset, Stats, error) {
	cfg = cfg.withDefaults()
	start := time.Now()
	logger.Get().Info(ctx, "generating demo dataset",
		logger.Int("agents", cfg.Agents),
		logger.Int("salesPerAgent", cfg.SalesPerAgent),
	)

	tasks := taskDefinitions(cfg.Seed)
	perAgent := make([]agentRows, cfg.Agents)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Agents; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return eris.Wrapf(err, "seed: agent %d", i)
			}
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)+1))
			perAgent[i] = generateAgent(rng, cfg, i, tasks)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	ds := &Dataset{Sheets: make(map[normalize.Range][][]any, len(Ranges))}
	roster := [][]any{normalize.AgentsSchema.Header()}
	sales := [][]any{normalize.SalesSchema.Header()}
	activity := [][]any{normalize.ActivitySchema.Header()}
	deals := [][]any{normalize.PipelineSchema.Header()}
	for _, a := range perAgent {
		roster = append(roster, a.roster)
		sales = append(sales, a.sales...)
		activity = append(activity, a.activity...)
		deals = append(deals, a.deals...)
	}
	roster = append(roster,
		[]any{"Morgan Lee", ManagerEmail, string(model.RoleManager), "East", "", ""},
		[]any{"Harper Quinn", HREmail, string(model.RoleHR), "People", "", ""},
	)

	taskRows := [][]any{{"Task ID", "Description", "Category", "Points", "Frequency"}}
	for _, t := range tasks {
		taskRows = append(taskRows, []any{t.id, t.description, t.category, t.points, t.frequency})
	}

	announcements := [][]any{
		normalize.AnnouncementsSchema.Header(),
		model.Announcement{
			Timestamp:   cfg.Now.Add(-24 * time.Hour),
			AuthorEmail: HREmail,
			Title:       "Welcome to the dashboard",
			Body:        "Quota progress and the leaderboard now update from the sales log.",
			Audience:    model.AudienceAll,
		}.Row(),
	}

	ds.Sheets[normalize.RangeAgents] = roster
	ds.Sheets[normalize.RangeSales] = sales
	ds.Sheets[normalize.RangeTasks] = taskRows
	ds.Sheets[normalize.RangeActivity] = activity
	ds.Sheets[normalize.RangePipeline] = deals
	ds.Sheets[normalize.RangeAnnouncements] = announcements

	stats := Stats{
		Agents:        len(roster) - 1,
		Sales:         len(sales) - 1,
		Tasks:         len(taskRows) - 1,
		Activity:      len(activity) - 1,
		Deals:         len(deals) - 1,
		Announcements: len(announcements) - 1,
		Duration:      time.Since(start),
	}
	logger.Get().Info(ctx, "generated demo dataset",
		logger.Int("rosterRows", stats.Agents),
		logger.Int("salesRows", stats.Sales),
		logger.Int("dealRows", stats.Deals),
	)
	return ds, stats, nil
}

// taskDefinitions assigns stable ids derived from the seed.
func taskDefinitions(seed uint64) []task {
	out := make([]task, len(taskTemplates))
	for i, t := range taskTemplates {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(t.description+"/"+strconv.FormatUint(seed, 10)))
		t.id = "T-" + strings.ToUpper(id.String()[:6])
		out[i] = t
	}
	return out
}

func generateAgent(rng *rand.Rand, cfg Config, i int, tasks []task) agentRows {
	first := firstNames[i%len(firstNames)]
	last := lastNames[(i/len(firstNames)+i*5)%len(lastNames)]
	email := strings.ToLower(first+"."+last) + "@" + Domain
	if i >= len(firstNames) {
		email = strings.ToLower(first+"."+last) + strconv.Itoa(i) + "@" + Domain
	}

	out := agentRows{
		roster: []any{
			first + " " + last,
			email,
			string(model.RoleAgent),
			teams[i%len(teams)],
			quotaMin + quotaStep*rng.IntN(quotaSteps),
			rng.IntN(pointsMax),
		},
	}

	span := cfg.Now.Sub(cfg.Now.AddDate(0, -cfg.Months, 0))
	for s := 0; s < cfg.SalesPerAgent; s++ {
		// Every other sale lands in the current month so month-to-date views are populated.
		var date time.Time
		if s%2 == 0 {
			monthStart := time.Date(cfg.Now.Year(), cfg.Now.Month(), 1, 0, 0, 0, 0, cfg.Now.Location())
			date = monthStart.Add(time.Duration(rng.Int64N(int64(cfg.Now.Sub(monthStart)) + 1)))
		} else {
			date = cfg.Now.Add(-time.Duration(rng.Int64N(int64(span))))
		}
		out.sales = append(out.sales, []any{
			date,
			email,
			customers[rng.IntN(len(customers))],
			products[rng.IntN(len(products))],
			cents(revenueMin + rng.Float64()*revenueSpan),
			rates[rng.IntN(len(rates))],
		})
	}

	weekStart := cfg.Now.AddDate(0, 0, -int(cfg.Now.Weekday()))
	weekStart = time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, cfg.Now.Location())
	for _, t := range tasks {
		if t.category != model.CategoryManual || rng.IntN(2) == 0 {
			continue
		}
		ts := weekStart.Add(time.Duration(rng.Int64N(int64(cfg.Now.Sub(weekStart)) + 1)))
		out.activity = append(out.activity, []any{ts, email, "Completed " + t.id + ": " + t.description, t.points})
	}

	for d := 0; d < cfg.DealsPerAgent; d++ {
		amount := cents(1000 + rng.Float64()*24000)
		out.deals = append(out.deals, []any{
			customers[rng.IntN(len(customers))],
			email,
			cents(amount * 0.5),
			amount,
			stages[rng.IntN(len(stages))],
			cfg.Now.AddDate(0, 0, 7+rng.IntN(60)),
		})
	}
	return out
}

func cents(v float64) float64 { return math.Round(v*100) / 100 }
