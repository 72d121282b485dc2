package analytics

import (
	"sort"
	"time"

	"github.com/DhananjayDev21/task-management-system/internal/models"
)

const (
	LabelToday     = "Today"
	LabelYesterday = "Yesterday"
	LabelTomorrow  = "Tomorrow"

	// ChipAll is the chip that shows every task in a bucket.
	ChipAll = "All"
)

type Chip struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TaskGroup is one bucket of the list view.
type TaskGroup struct {
	Label         string        `json:"label"`
	Tasks         []models.Task `json:"tasks"`
	ActiveFilter  string        `json:"activeFilter"`
	Filters       []Chip        `json:"filters"`
	FilteredTasks []models.Task `json:"filteredTasks"`
}

// GroupByDate buckets the tasks that are not yet past due by start date.
// Buckets appear in the order their label is first met after sorting by start date.
func GroupByDate(tasks []models.Task, now time.Time) []TaskGroup {
	loc := now.Location()

	type dated struct {
		task  models.Task
		start time.Time
	}

	valid := make([]dated, 0, len(tasks))
	for _, task := range MarkOverdue(tasks, now) {
		if PastDue(task, now) {
			continue
		}
		start, _ := ParseDate(task.StartDate, loc)
		valid = append(valid, dated{task: task, start: start})
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].start.Before(valid[j].start)
	})

	today := Day(now)
	var order []string
	buckets := make(map[string][]models.Task)
	for _, d := range valid {
		label := bucketLabel(d.task.StartDate, d.start, today)
		if _, seen := buckets[label]; !seen {
			order = append(order, label)
		}
		buckets[label] = append(buckets[label], d.task)
	}

	groups := make([]TaskGroup, 0, len(order))
	for _, label := range order {
		groups = append(groups, NewTaskGroup(label, buckets[label]))
	}
	return groups
}

func bucketLabel(raw string, start, today time.Time) string {
	if start.IsZero() {
		return raw
	}
	switch {
	case start.Equal(today):
		return LabelToday
	case start.Equal(addDays(today, -1)):
		return LabelYesterday
	case start.Equal(addDays(today, 1)):
		return LabelTomorrow
	default:
		return FormatDate(start)
	}
}

// NewTaskGroup builds a bucket with its chips and the All filter active.
func NewTaskGroup(label string, tasks []models.Task) TaskGroup {
	return TaskGroup{
		Label:         label,
		Tasks:         tasks,
		ActiveFilter:  ChipAll,
		Filters:       Chips(tasks),
		FilteredTasks: append([]models.Task(nil), tasks...),
	}
}

// Chips lists All, then each distinct status, then each distinct priority.
// Every chip counts on its own, so chip totals may exceed the bucket size.
func Chips(tasks []models.Task) []Chip {
	names := []string{ChipAll}
	seen := map[string]bool{}
	for _, task := range tasks {
		if s := string(task.Status); !seen["s:"+s] {
			seen["s:"+s] = true
			names = append(names, s)
		}
	}
	for _, task := range tasks {
		if p := string(task.Priority); !seen["p:"+p] {
			seen["p:"+p] = true
			names = append(names, p)
		}
	}

	chips := make([]Chip, 0, len(names))
	for _, name := range names {
		chips = append(chips, Chip{Name: name, Count: len(MatchChip(tasks, name))})
	}
	return chips
}
