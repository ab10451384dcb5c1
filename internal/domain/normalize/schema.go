// Package normalize decodes raw sheet rows into typed domain records using an
// explicit column schema per named range. Columns are located by header name,
// so a reordered or widened sheet keeps decoding into the right fields; a
// range without a recognizable header row falls back to the schema order.
package normalize

import (
	"strings"
	"unicode"
)

// Range identifies one logical table of the tabular source.
type Range string

// Named ranges read by the engine.
const (
	RangeAgents        Range = "Sales_Agents"
	RangeSales         Range = "Sales_Log"
	RangeTasks         Range = "Gamification_Tasks"
	RangeActivity      Range = "Agent_Activity_Log"
	RangePipeline      Range = "Sales_Pipeline"
	RangeAnnouncements Range = "HR_Announcements"
)

// Column is one named column with optional alternative header spellings.
type Column struct {
	Name    string
	Aliases []string
}

// Schema describes a named range: its sheet, A1 span and columns in their
// default positional order.
type Schema struct {
	Range   Range
	Span    string
	Columns []Column
}

// A1 returns the range in A1 notation, header row included.
func (s Schema) A1() string {
	return string(s.Range) + "!" + s.Span
}

// Column indexes shared by the decoders.
const (
	agentName = iota
	agentEmail
	agentRole
	agentTeam
	agentQuota
	agentPoints
)

const (
	saleDate = iota
	saleEmail
	saleCustomer
	saleProduct
	saleRevenue
	saleRate
)

const (
	taskID = iota
	taskDescription
	taskCategory
	taskPoints
)

const (
	activityTimestamp = iota
	activityEmail
	activityAction
	activityPoints
)

const (
	dealAccount = iota
	dealEmail
	dealStageAmount
	dealAmount
	dealStage
	dealClose
)

// Schemas of every range the engine knows about.
var (
	AgentsSchema = Schema{Range: RangeAgents, Span: "A1:F", Columns: []Column{
		{Name: "Name", Aliases: []string{"Agent Name", "Full Name"}},
		{Name: "Email", Aliases: []string{"E-mail", "Email Address", "Agent Email"}},
		{Name: "Role"},
		{Name: "Team"},
		{Name: "Monthly Quota", Aliases: []string{"Quota"}},
		{Name: "Points", Aliases: []string{"Points Balance", "Total Points"}},
	}}

	SalesSchema = Schema{Range: RangeSales, Span: "A1:F", Columns: []Column{
		{Name: "Date", Aliases: []string{"Close Date", "Sale Date"}},
		{Name: "Agent Email", Aliases: []string{"Email"}},
		{Name: "Customer", Aliases: []string{"Client", "Account"}},
		{Name: "Product"},
		{Name: "Revenue", Aliases: []string{"Amount", "Deal Value"}},
		{Name: "Commission Rate", Aliases: []string{"Commission", "Rate"}},
	}}

	TasksSchema = Schema{Range: RangeTasks, Span: "A1:E", Columns: []Column{
		{Name: "Task ID", Aliases: []string{"ID"}},
		{Name: "Description", Aliases: []string{"Task"}},
		{Name: "Category", Aliases: []string{"Type"}},
		{Name: "Points", Aliases: []string{"Point Value"}},
	}}

	ActivitySchema = Schema{Range: RangeActivity, Span: "A1:D", Columns: []Column{
		{Name: "Timestamp", Aliases: []string{"Date"}},
		{Name: "Agent Email", Aliases: []string{"Email"}},
		{Name: "Action", Aliases: []string{"Action Description", "Description"}},
		{Name: "Points", Aliases: []string{"Points Awarded"}},
	}}

	PipelineSchema = Schema{Range: RangePipeline, Span: "A1:F", Columns: []Column{
		{Name: "Account", Aliases: []string{"Customer"}},
		{Name: "Agent Email", Aliases: []string{"Email"}},
		{Name: "Stage Amount"},
		{Name: "Amount", Aliases: []string{"Deal Value", "Deal Amount"}},
		{Name: "Stage"},
		{Name: "Expected Close Date", Aliases: []string{"Close Date"}},
	}}

	AnnouncementsSchema = Schema{Range: RangeAnnouncements, Span: "A:E", Columns: []Column{
		{Name: "Timestamp"},
		{Name: "Author Email"},
		{Name: "Title"},
		{Name: "Message"},
		{Name: "Audience"},
	}}
)

// SchemaFor returns the schema of a range.
func SchemaFor(r Range) (Schema, bool) {
	switch r {
	case RangeAgents:
		return AgentsSchema, true
	case RangeSales:
		return SalesSchema, true
	case RangeTasks:
		return TasksSchema, true
	case RangeActivity:
		return ActivitySchema, true
	case RangePipeline:
		return PipelineSchema, true
	case RangeAnnouncements:
		return AnnouncementsSchema, true
	}
	return Schema{}, false
}

// Header returns the default header row of the schema.
func (s Schema) Header() []any {
	out := make([]any, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

// binding maps schema column positions to sheet column positions (-1 = absent).
type binding []int

func (b binding) cell(row []any, col int) any {
	if col >= len(b) {
		return nil
	}
	i := b[col]
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

// bind inspects the first row. When it names enough schema columns it is
// treated as a header and removed from the data rows.
func (s Schema) bind(rows [][]any) (binding, [][]any) {
	positional := make(binding, len(s.Columns))
	for i := range positional {
		positional[i] = i
	}
	if len(rows) == 0 {
		return positional, rows
	}

	index := make(map[string]int, len(rows[0]))
	for i, cell := range rows[0] {
		key := headerKey(cell)
		if key == "" {
			continue
		}
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	b := make(binding, len(s.Columns))
	matched := 0
	for ci, col := range s.Columns {
		b[ci] = -1
		for _, name := range append([]string{col.Name}, col.Aliases...) {
			if i, ok := index[headerKey(name)]; ok {
				b[ci] = i
				matched++
				break
			}
		}
	}

	need := 2
	if len(s.Columns) < need {
		need = len(s.Columns)
	}
	if matched < need {
		return positional, rows
	}
	return b, rows[1:]
}

// headerKey folds a header cell to lower-case letters and digits.
func headerKey(cell any) string {
	s, ok := cell.(string)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
