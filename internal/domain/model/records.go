// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Role is the personnel role stored in the agent roster.
type Role string

// Recognized roles.
const (
	RoleAgent   Role = "Agent"
	RoleManager Role = "Manager"
	RoleHR      Role = "HR"
)

// ParseRole maps a roster cell to a Role. The comparison is exact after
// trimming; ok is false for any value outside the recognized set.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleAgent, RoleManager, RoleHR:
		return r, true
	default:
		return r, false
	}
}

// Agent is one row of the personnel roster. Email is the only natural key.
type Agent struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Role          Role    `json:"role"`
	Team          string  `json:"team"`
	MonthlyQuota  float64 `json:"monthlyQuota"`
	PointsBalance int     `json:"pointsBalance"`
}

// SaleRecord is one closed deal from the sales log.
type SaleRecord struct {
	Date           time.Time // zero when the cell did not parse
	AgentEmail     string
	Customer       string
	Product        string
	Revenue        float64
	CommissionRate float64 // fraction in [0,1]
}

// Commission returns revenue * commission rate.
func (s SaleRecord) Commission() float64 { return s.Revenue * s.CommissionRate }

// Pipeline stage labels that make up the funnel.
const (
	StageProspecting   = "Prospecting"
	StageQualification = "Qualification"
	StageDemo          = "Demo"
	StageNegotiation   = "Negotiation"
)

// FunnelStages is the fixed bucket order of the pipeline funnel.
var FunnelStages = []string{StageProspecting, StageQualification, StageDemo, StageNegotiation}

// PipelineDeal is an open opportunity.
type PipelineDeal struct {
	Account           string
	AgentEmail        string
	StageAmount       float64 // informational; the funnel sums Amount
	Amount            float64
	Stage             string
	ExpectedCloseDate time.Time
}

// ActivityLogEntry is one point-earning event.
type ActivityLogEntry struct {
	Timestamp         time.Time
	AgentEmail        string
	ActionDescription string
	PointsAwarded     int
}

// Task categories.
const (
	CategoryManual    = "Manual"
	CategoryAutomatic = "Automatic"
)

// TaskDefinition is a gamification task.
type TaskDefinition struct {
	ID          string
	Description string
	Category    string
	PointValue  int
}

// Default announcement audience.
const AudienceAll = "All"

// Announcement is written by HR and never read back by the engine.
type Announcement struct {
	Timestamp   time.Time
	AuthorEmail string
	Title       string
	Body        string
	Audience    string
}

// Row renders the announcement in sheet column order.
func (a Announcement) Row() []any {
	return []any{a.Timestamp.Format(time.RFC3339), a.AuthorEmail, a.Title, a.Body, a.Audience}
}
