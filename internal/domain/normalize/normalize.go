package normalize

import (
	"time"

	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/domain/parse"
)

// Data-quality issue labels reported by the decoders.
const (
	IssueInvalidDate  = "invalid_date"
	IssueMissingEmail = "missing_email"
	IssueUnknownStage = "unknown_stage"
	IssueUnknownRole  = "unknown_role"
)

// Quality counts degraded rows per issue. Degraded rows are kept; the
// counts only feed logs and metrics.
type Quality map[string]int

func (q Quality) add(issue string) { q[issue]++ }

// Decoder turns raw rows into records. Dates are interpreted in loc.
type Decoder struct {
	loc *time.Location
}

// NewDecoder creates a Decoder; a nil location means time.Local.
func NewDecoder(loc *time.Location) *Decoder {
	if loc == nil {
		loc = time.Local
	}
	return &Decoder{loc: loc}
}

// Agents decodes the personnel roster.
func (d *Decoder) Agents(rows [][]any) ([]model.Agent, Quality) {
	b, data := AgentsSchema.bind(rows)
	q := Quality{}
	out := make([]model.Agent, 0, len(data))
	for _, row := range data {
		if blank(row) {
			continue
		}
		role, ok := model.ParseRole(parse.Text(b.cell(row, agentRole)))
		if !ok {
			q.add(IssueUnknownRole)
		}
		a := model.Agent{
			Name:          parse.Text(b.cell(row, agentName)),
			Email:         parse.Text(b.cell(row, agentEmail)),
			Role:          role,
			Team:          parse.Text(b.cell(row, agentTeam)),
			MonthlyQuota:  parse.Money(b.cell(row, agentQuota)),
			PointsBalance: parse.Points(b.cell(row, agentPoints)),
		}
		if a.Email == "" {
			q.add(IssueMissingEmail)
		}
		out = append(out, a)
	}
	return out, q
}

// Sales decodes the sales log.
func (d *Decoder) Sales(rows [][]any) ([]model.SaleRecord, Quality) {
	b, data := SalesSchema.bind(rows)
	q := Quality{}
	out := make([]model.SaleRecord, 0, len(data))
	for _, row := range data {
		if blank(row) {
			continue
		}
		s := model.SaleRecord{
			Date:           parse.Date(b.cell(row, saleDate), d.loc),
			AgentEmail:     parse.Text(b.cell(row, saleEmail)),
			Customer:       parse.Text(b.cell(row, saleCustomer)),
			Product:        parse.Text(b.cell(row, saleProduct)),
			Revenue:        parse.Money(b.cell(row, saleRevenue)),
			CommissionRate: parse.Fraction(b.cell(row, saleRate)),
		}
		if s.Date.IsZero() {
			q.add(IssueInvalidDate)
		}
		if s.AgentEmail == "" {
			q.add(IssueMissingEmail)
		}
		out = append(out, s)
	}
	return out, q
}

// Tasks decodes the gamification task definitions.
func (d *Decoder) Tasks(rows [][]any) ([]model.TaskDefinition, Quality) {
	b, data := TasksSchema.bind(rows)
	out := make([]model.TaskDefinition, 0, len(data))
	for _, row := range data {
		if blank(row) {
			continue
		}
		out = append(out, model.TaskDefinition{
			ID:          parse.Text(b.cell(row, taskID)),
			Description: parse.Text(b.cell(row, taskDescription)),
			Category:    parse.Text(b.cell(row, taskCategory)),
			PointValue:  parse.Points(b.cell(row, taskPoints)),
		})
	}
	return out, Quality{}
}

// Activity decodes the activity log in sheet order.
func (d *Decoder) Activity(rows [][]any) ([]model.ActivityLogEntry, Quality) {
	b, data := ActivitySchema.bind(rows)
	q := Quality{}
	out := make([]model.ActivityLogEntry, 0, len(data))
	for _, row := range data {
		if blank(row) {
			continue
		}
		e := model.ActivityLogEntry{
			Timestamp:         parse.Date(b.cell(row, activityTimestamp), d.loc),
			AgentEmail:        parse.Text(b.cell(row, activityEmail)),
			ActionDescription: parse.Text(b.cell(row, activityAction)),
			PointsAwarded:     parse.Points(b.cell(row, activityPoints)),
		}
		if e.Timestamp.IsZero() {
			q.add(IssueInvalidDate)
		}
		if e.AgentEmail == "" {
			q.add(IssueMissingEmail)
		}
		out = append(out, e)
	}
	return out, q
}

// Pipeline decodes open deals. Amount is the canonical deal value.
func (d *Decoder) Pipeline(rows [][]any) ([]model.PipelineDeal, Quality) {
	b, data := PipelineSchema.bind(rows)
	q := Quality{}
	out := make([]model.PipelineDeal, 0, len(data))
	for _, row := range data {
		if blank(row) {
			continue
		}
		deal := model.PipelineDeal{
			Account:           parse.Text(b.cell(row, dealAccount)),
			AgentEmail:        parse.Text(b.cell(row, dealEmail)),
			StageAmount:       parse.Money(b.cell(row, dealStageAmount)),
			Amount:            parse.Money(b.cell(row, dealAmount)),
			Stage:             parse.Text(b.cell(row, dealStage)),
			ExpectedCloseDate: parse.Date(b.cell(row, dealClose), d.loc),
		}
		if !knownStage(deal.Stage) {
			q.add(IssueUnknownStage)
		}
		if deal.AgentEmail == "" {
			q.add(IssueMissingEmail)
		}
		out = append(out, deal)
	}
	return out, q
}

func knownStage(stage string) bool {
	for _, s := range model.FunnelStages {
		if s == stage {
			return true
		}
	}
	return false
}

// blank reports whether every cell of the row is empty.
func blank(row []any) bool {
	for _, c := range row {
		if parse.Text(c) != "" {
			return false
		}
	}
	return true
}
