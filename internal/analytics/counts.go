package analytics

import (
	"time"

	"github.com/DhananjayDev21/task-management-system/internal/models"
)

type StatusCounts struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in-progress"`
	Completed  int `json:"completed"`
	OnHold     int `json:"on-hold"`
	Other      int `json:"other"`
}

func (s *StatusCounts) add(status models.Status) {
	switch status {
	case models.StatusPending:
		s.Pending++
	case models.StatusInProgress:
		s.InProgress++
	case models.StatusCompleted:
		s.Completed++
	case models.StatusOnHold:
		s.OnHold++
	default:
		s.Other++
	}
}

// Get returns the counter for status; unknown values read the Other counter.
func (s StatusCounts) Get(status models.Status) int {
	switch status {
	case models.StatusPending:
		return s.Pending
	case models.StatusInProgress:
		return s.InProgress
	case models.StatusCompleted:
		return s.Completed
	case models.StatusOnHold:
		return s.OnHold
	default:
		return s.Other
	}
}

func (s StatusCounts) Sum() int {
	return s.Pending + s.InProgress + s.Completed + s.OnHold + s.Other
}

type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	Other  int `json:"other"`
}

func (p *PriorityCounts) add(priority models.Priority) {
	switch priority {
	case models.PriorityHigh:
		p.High++
	case models.PriorityMedium:
		p.Medium++
	case models.PriorityLow:
		p.Low++
	default:
		p.Other++
	}
}

func (p PriorityCounts) Get(priority models.Priority) int {
	switch priority {
	case models.PriorityHigh:
		return p.High
	case models.PriorityMedium:
		return p.Medium
	case models.PriorityLow:
		return p.Low
	default:
		return p.Other
	}
}

func (p PriorityCounts) Sum() int {
	return p.High + p.Medium + p.Low + p.Other
}

// Counts feeds the analytics summary cards.
type Counts struct {
	Status   StatusCounts   `json:"status"`
	Priority PriorityCounts `json:"priority"`
	Total    int            `json:"total"`
}

// Count bumps one status counter, one priority counter and the total per task.
func Count(tasks []models.Task) Counts {
	var c Counts
	for _, task := range tasks {
		c.Status.add(task.Status)
		c.Priority.add(task.Priority)
		c.Total++
	}
	return c
}

// ActiveFilterCount counts the non-default criteria. The date range is a single
// unit and counts only when it differs from the default range.
func ActiveFilterCount(c Criteria, now time.Time) int {
	count := 0
	for _, set := range []bool{
		c.SearchText != "",
		c.Status != "",
		c.Priority != "",
		c.Category != "",
		!IsDefaultRange(c, now),
	} {
		if set {
			count++
		}
	}
	return count
}

// Options holds the distinct values offered by the analytics filter panel.
type Options struct {
	Statuses   []string `json:"statuses"`
	Priorities []string `json:"priorities"`
	Categories []string `json:"categories"`
}

func FilterOptions(tasks []models.Task) Options {
	var opts Options
	seenStatus, seenPriority, seenCategory := map[string]bool{}, map[string]bool{}, map[string]bool{}
	for _, task := range tasks {
		if s := string(task.Status); !seenStatus[s] {
			seenStatus[s] = true
			opts.Statuses = append(opts.Statuses, s)
		}
		if p := string(task.Priority); !seenPriority[p] {
			seenPriority[p] = true
			opts.Priorities = append(opts.Priorities, p)
		}
		if !seenCategory[task.Category] {
			seenCategory[task.Category] = true
			opts.Categories = append(opts.Categories, task.Category)
		}
	}
	return opts
}

func ByStatus(tasks []models.Task, status models.Status) []models.Task {
	out := make([]models.Task, 0)
	for _, task := range tasks {
		if task.Status == status {
			out = append(out, task)
		}
	}
	return out
}
