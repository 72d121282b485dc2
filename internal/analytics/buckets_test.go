package analytics

import (
	"testing"

	"github.com/DhananjayDev21/task-management-system/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByDate_TodayScenario(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", StartDate: "2024-06-10", Status: models.StatusPending, Priority: models.PriorityHigh},
		{ID: "2", StartDate: "2024-06-10", Status: models.StatusCompleted, Priority: models.PriorityLow},
	}

	groups := GroupByDate(tasks, testNow)

	require.Len(t, groups, 1)
	assert.Equal(t, LabelToday, groups[0].Label)
	assert.Len(t, groups[0].Tasks, 2)
	assert.Equal(t, ChipAll, groups[0].ActiveFilter)
	assert.Equal(t, []Chip{
		{Name: "All", Count: 2},
		{Name: "pending", Count: 1},
		{Name: "completed", Count: 1},
		{Name: "high", Count: 1},
		{Name: "low", Count: 1},
	}, groups[0].Filters)

	filtered := ApplyChip(groups[0], "high")
	require.Len(t, filtered.FilteredTasks, 1)
	assert.Equal(t, "1", filtered.FilteredTasks[0].ID)
	assert.Equal(t, "high", filtered.ActiveFilter)
	assert.Len(t, groups[0].FilteredTasks, 2, "original group must stay untouched")
}

func TestGroupByDate_Labels(t *testing.T) {
	tasks := []models.Task{
		{ID: "later", StartDate: "2024-06-20"},
		{ID: "tomorrow", StartDate: "2024-06-11"},
		{ID: "yesterday", StartDate: "2024-06-09"},
		{ID: "today", StartDate: "2024-06-10"},
		{ID: "old", StartDate: "2024-05-01"},
	}

	groups := GroupByDate(tasks, testNow)

	labels := make([]string, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, g.Label)
	}
	assert.Equal(t, []string{"2024-05-01", LabelYesterday, LabelToday, LabelTomorrow, "2024-06-20"}, labels)
}

func TestGroupByDate_DropsPastDueTasks(t *testing.T) {
	tasks := []models.Task{
		{ID: "past", StartDate: "2024-06-10", DueDate: "2024-06-10", DueTime: "08:00", Status: models.StatusPending},
		{ID: "done-past", StartDate: "2024-06-10", DueDate: "2024-06-09", Status: models.StatusCompleted},
		{ID: "future", StartDate: "2024-06-10", DueDate: "2024-06-10", Status: models.StatusPending},
	}

	groups := GroupByDate(tasks, testNow)

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Tasks, 1)
	assert.Equal(t, "future", groups[0].Tasks[0].ID)
	assert.False(t, groups[0].Tasks[0].IsOverdue)
}

func TestGroupByDate_StableWithinBucket(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", StartDate: "2024-06-12"},
		{ID: "b", StartDate: "2024-06-12"},
		{ID: "c", StartDate: "2024-06-12"},
	}

	groups := GroupByDate(tasks, testNow)

	require.Len(t, groups, 1)
	assert.Equal(t, "a", groups[0].Tasks[0].ID)
	assert.Equal(t, "b", groups[0].Tasks[1].ID)
	assert.Equal(t, "c", groups[0].Tasks[2].ID)
}

func TestChips_AllEqualsBucketSize(t *testing.T) {
	tasks := []models.Task{
		{Status: models.StatusPending, Priority: models.PriorityHigh},
		{Status: models.StatusPending, Priority: models.PriorityLow},
		{Status: models.StatusOnHold, Priority: models.PriorityHigh},
	}

	chips := Chips(tasks)

	assert.Equal(t, Chip{Name: ChipAll, Count: 3}, chips[0])
	counts := map[string]int{}
	for _, c := range chips {
		counts[c.Name] = c.Count
	}
	assert.Equal(t, 2, counts["pending"])
	assert.Equal(t, 1, counts["on-hold"])
	assert.Equal(t, 2, counts["high"])
	assert.Equal(t, 1, counts["low"])
}

func TestSetGroupFilter(t *testing.T) {
	groups := GroupByDate([]models.Task{
		{ID: "1", StartDate: "2024-06-10", Status: models.StatusPending, Priority: models.PriorityHigh},
		{ID: "2", StartDate: "2024-06-11", Status: models.StatusPending, Priority: models.PriorityLow},
	}, testNow)

	updated, ok := SetGroupFilter(groups, LabelTomorrow, "high")
	require.True(t, ok)
	assert.Empty(t, updated[1].FilteredTasks)
	assert.Len(t, updated[0].FilteredTasks, 1)

	_, ok = SetGroupFilter(groups, "2030-01-01", "high")
	assert.False(t, ok)
}
