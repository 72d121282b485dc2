package analytics

import (
	"time"

	"github.com/DhananjayDev21/task-management-system/internal/models"
)

// DueMoment combines the due date and due time of a task in now's location.
// An absent or unreadable due time means end of day.
func DueMoment(task models.Task, loc *time.Location) (time.Time, bool) {
	day, ok := ParseDate(task.DueDate, loc)
	if !ok {
		return time.Time{}, false
	}

	h, m, s, ok := parseClock(task.DueTime)
	if !ok {
		h, m, s, _ = parseClock(models.DefaultDueTime)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, loc), true
}

// PastDue reports whether the due moment is strictly before now, ignoring status.
func PastDue(task models.Task, now time.Time) bool {
	due, ok := DueMoment(task, now.Location())
	return ok && due.Before(now)
}

// IsOverdue is false for completed tasks; otherwise the due moment decides.
func IsOverdue(task models.Task, now time.Time) bool {
	if task.Status == models.StatusCompleted {
		return false
	}
	return PastDue(task, now)
}

// MarkOverdue returns copies of tasks with IsOverdue recomputed.
func MarkOverdue(tasks []models.Task, now time.Time) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, task := range tasks {
		c := task.Clone()
		c.IsOverdue = IsOverdue(c, now)
		out[i] = c
	}
	return out
}
