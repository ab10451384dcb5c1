package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/domain/window"
)

// Task statuses.
const (
	StatusCompleted = "Completed"
	StatusPending   = "Pending"
)

// HistoryDateLayout is the display date of history entries.
const HistoryDateLayout = "1/2/2006"

// TaskStatus is one Manual task with its inferred completion.
type TaskStatus struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Status      string `json:"status"`
}

// ActivityOf returns the entries of email inside the week-to-date window.
func ActivityOf(activity []model.ActivityLogEntry, email string, w window.Windows) []model.ActivityLogEntry {
	out := make([]model.ActivityLogEntry, 0)
	for _, a := range activity {
		if window.SameEmail(a.AgentEmail, email) && w.WeekToDate(a.Timestamp) {
			out = append(out, a)
		}
	}
	return out
}

// TaskStatuses lists the Manual tasks. A task is Completed when any of the
// given entries mentions its id or its description; empty ids, descriptions
// and action texts never match.
func TaskStatuses(tasks []model.TaskDefinition, week []model.ActivityLogEntry) []TaskStatus {
	out := make([]TaskStatus, 0, len(tasks))
	for _, t := range tasks {
		if t.Category != model.CategoryManual {
			continue
		}
		status := StatusPending
		if mentioned(t, week) {
			status = StatusCompleted
		}
		out = append(out, TaskStatus{
			ID:          t.ID,
			Description: t.Description,
			Points:      t.PointValue,
			Status:      status,
		})
	}
	return out
}

func mentioned(t model.TaskDefinition, entries []model.ActivityLogEntry) bool {
	for _, e := range entries {
		if e.ActionDescription == "" {
			continue
		}
		if t.ID != "" && strings.Contains(e.ActionDescription, t.ID) {
			return true
		}
		if t.Description != "" && strings.Contains(e.ActionDescription, t.Description) {
			return true
		}
	}
	return false
}

// HistoryEntry is one row of an agent's recent activity.
type HistoryEntry struct {
	Date   string `json:"date"`
	Action string `json:"action"`
	Points string `json:"points"`
}

// History returns at most limit entries of email, newest first. Entries
// without a valid timestamp are left out.
func History(activity []model.ActivityLogEntry, email string, limit int) []HistoryEntry {
	mine := make([]model.ActivityLogEntry, 0)
	for _, a := range activity {
		if window.SameEmail(a.AgentEmail, email) && !a.Timestamp.IsZero() {
			mine = append(mine, a)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].Timestamp.After(mine[j].Timestamp) })
	if limit >= 0 && len(mine) > limit {
		mine = mine[:limit]
	}

	out := make([]HistoryEntry, len(mine))
	for i, a := range mine {
		out[i] = HistoryEntry{
			Date:   a.Timestamp.Format(HistoryDateLayout),
			Action: a.ActionDescription,
			Points: "+" + strconv.Itoa(a.PointsAwarded),
		}
	}
	return out
}
