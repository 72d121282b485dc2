package analytics

import (
	"strings"
	"time"

	"github.com/DhananjayDev21/task-management-system/internal/models"
)

// DefaultRangeDays is the width of the default analytics window, today included.
const DefaultRangeDays = 7

// MatchChip returns the tasks a bucket chip selects: all of them for All,
// otherwise those whose status or priority equals name.
func MatchChip(tasks []models.Task, name string) []models.Task {
	if name == ChipAll {
		return append([]models.Task(nil), tasks...)
	}
	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if string(task.Status) == name || string(task.Priority) == name {
			out = append(out, task)
		}
	}
	return out
}

// ApplyChip returns a copy of group filtered by the named chip.
func ApplyChip(group TaskGroup, name string) TaskGroup {
	group.ActiveFilter = name
	group.FilteredTasks = MatchChip(group.Tasks, name)
	return group
}

// SetGroupFilter replaces the group with the given label by its filtered copy.
// It reports false when no group has that label.
func SetGroupFilter(groups []TaskGroup, label, name string) ([]TaskGroup, bool) {
	out := make([]TaskGroup, len(groups))
	found := false
	for i, g := range groups {
		if g.Label == label {
			g = ApplyChip(g, name)
			found = true
		}
		out[i] = g
	}
	return out, found
}

// Criteria is the analytics filter panel state. Empty fields match everything.
type Criteria struct {
	SearchText    string   `json:"searchText"`
	Status        string   `json:"status"`
	Priority      string   `json:"priority"`
	Category      string   `json:"category"`
	CreatedBy     []string `json:"createdBy"`
	Tags          []string `json:"tags"`
	StartDateFrom string   `json:"startDateFrom"`
	EndDateTo     string   `json:"endDateTo"`
	OverdueOnly   bool     `json:"overdueOnly"`
}

// DefaultRange is [today-6, today] as calendar dates.
func DefaultRange(now time.Time) (from, to string) {
	today := Day(now)
	return FormatDate(addDays(today, -(DefaultRangeDays - 1))), FormatDate(today)
}

// DefaultCriteria is the state used on load and reset.
func DefaultCriteria(now time.Time) Criteria {
	from, to := DefaultRange(now)
	return Criteria{StartDateFrom: from, EndDateTo: to}
}

// IsDefaultRange compares only the date range, ignoring every other criterion.
func IsDefaultRange(c Criteria, now time.Time) bool {
	loc := now.Location()
	from, fromOK := ParseDate(c.StartDateFrom, loc)
	to, toOK := ParseDate(c.EndDateTo, loc)
	if !fromOK || !toOK {
		return false
	}
	today := Day(now)
	return from.Equal(addDays(today, -(DefaultRangeDays-1))) && to.Equal(today)
}

// Filter keeps the tasks matching every set criterion. Tasks must already
// carry their overdue flag for OverdueOnly to work.
func Filter(tasks []models.Task, c Criteria, loc *time.Location) []models.Task {
	m := newMatcher(c, loc)
	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if m.match(task) {
			out = append(out, task)
		}
	}
	return out
}

type matcher struct {
	c        Criteria
	loc      *time.Location
	search   string
	from, to time.Time
	hasFrom  bool
	hasTo    bool
}

func newMatcher(c Criteria, loc *time.Location) matcher {
	m := matcher{c: c, loc: loc, search: strings.ToLower(c.SearchText)}
	if c.StartDateFrom != "" {
		m.from, m.hasFrom = ParseDate(c.StartDateFrom, loc)
	}
	if c.EndDateTo != "" {
		m.to, m.hasTo = ParseDate(c.EndDateTo, loc)
	}
	return m
}

func (m matcher) match(task models.Task) bool {
	return m.matchDate(task) &&
		(m.c.Status == "" || string(task.Status) == m.c.Status) &&
		(m.c.Priority == "" || string(task.Priority) == m.c.Priority) &&
		(m.c.Category == "" || task.Category == m.c.Category) &&
		m.matchText(task) &&
		m.matchCreator(task) &&
		m.matchTags(task) &&
		(!m.c.OverdueOnly || task.IsOverdue)
}

func (m matcher) matchDate(task models.Task) bool {
	if !m.hasFrom && !m.hasTo {
		return true
	}
	start, ok := ParseDate(task.StartDate, m.loc)
	if !ok {
		return false
	}
	if m.hasFrom && start.Before(m.from) {
		return false
	}
	if m.hasTo && start.After(m.to) {
		return false
	}
	return true
}

func (m matcher) matchText(task models.Task) bool {
	if m.search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Title), m.search) ||
		strings.Contains(strings.ToLower(task.Description), m.search)
}

func (m matcher) matchCreator(task models.Task) bool {
	if len(m.c.CreatedBy) == 0 {
		return true
	}
	for _, name := range m.c.CreatedBy {
		if task.CreatedBy == name {
			return true
		}
	}
	return false
}

func (m matcher) matchTags(task models.Task) bool {
	if len(m.c.Tags) == 0 {
		return true
	}
	for _, tag := range m.c.Tags {
		if task.HasTag(tag) {
			return true
		}
	}
	return false
}
