// Package seed generates a coherent demo dataset covering every named range,
// for local runs against the workbook, CSV or in-memory source.
package seed

import (
	"time"

	"github.com/okian/salesboard/internal/domain/normalize"
)

// Defaults used when a Config field is left zero.
const (
	DefaultAgents        = 8
	DefaultSalesPerAgent = 12
	DefaultDealsPerAgent = 4
	DefaultMonths        = 6
	DefaultWorkers       = 4
)

// Config holds configuration for the generator.
type Config struct {
	Agents        int       // Number of sales agents on the roster
	SalesPerAgent int       // Closed deals per agent, spread over Months
	DealsPerAgent int       // Open pipeline deals per agent
	Months        int       // How far back the sales log reaches
	Workers       int       // Concurrent per-agent generators
	Now           time.Time // Anchor for all generated dates
	Seed          uint64    // Same seed and Now give the same dataset
}

func (c Config) withDefaults() Config {
	if c.Agents <= 0 {
		c.Agents = DefaultAgents
	}
	if c.SalesPerAgent <= 0 {
		c.SalesPerAgent = DefaultSalesPerAgent
	}
	if c.DealsPerAgent <= 0 {
		c.DealsPerAgent = DefaultDealsPerAgent
	}
	if c.Months <= 0 {
		c.Months = DefaultMonths
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Now.IsZero() {
		c.Now = time.Now()
	}
	return c
}

// Ranges is the order sheets are written in.
var Ranges = []normalize.Range{
	normalize.RangeAgents,
	normalize.RangeSales,
	normalize.RangeTasks,
	normalize.RangeActivity,
	normalize.RangePipeline,
	normalize.RangeAnnouncements,
}

// Dataset holds generated rows per sheet, header row first.
type Dataset struct {
	Sheets map[normalize.Range][][]any
}

// Rows returns the rows of one sheet.
func (d *Dataset) Rows(r normalize.Range) [][]any { return d.Sheets[r] }

// Stats counts generated rows.
type Stats struct {
	Agents        int
	Sales         int
	Tasks         int
	Activity      int
	Deals         int
	Announcements int
	Duration      time.Duration
}
