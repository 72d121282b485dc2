package analytics

import (
	"testing"
	"time"

	"github.com/DhananjayDev21/task-management-system/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCriteria(t *testing.T) {
	c := DefaultCriteria(testNow)

	assert.Equal(t, "2024-06-04", c.StartDateFrom)
	assert.Equal(t, "2024-06-10", c.EndDateTo)
	assert.True(t, IsDefaultRange(c, testNow))
	assert.Equal(t, 0, ActiveFilterCount(c, testNow))
}

func TestFilter_DefaultRangeBoundaries(t *testing.T) {
	c := DefaultCriteria(testNow)

	for day := -20; day <= 10; day++ {
		start := FormatDate(testNow.AddDate(0, 0, day))
		got := Filter([]models.Task{{StartDate: start}}, c, time.UTC)

		inside := day >= -6 && day <= 0
		if inside && len(got) != 1 {
			t.Errorf("Expected task starting %s to be included", start)
		}
		if !inside && len(got) != 0 {
			t.Errorf("Expected task starting %s to be excluded", start)
		}
	}
}

func TestFilter_Criteria(t *testing.T) {
	tasks := MarkOverdue([]models.Task{
		{ID: "1", Title: "Fix login bug", Status: models.StatusPending, Priority: models.PriorityHigh,
			Category: "Bugfix", StartDate: "2024-06-05", DueDate: "2024-06-06", CreatedBy: "ana", Tags: []string{"auth"}},
		{ID: "2", Title: "Docs", Description: "Update LOGIN guide", Status: models.StatusCompleted, Priority: models.PriorityLow,
			Category: "Documentation", StartDate: "2024-06-08", DueDate: "2024-06-08", CreatedBy: "ben"},
		{ID: "3", Title: "Release", Status: models.StatusInProgress, Priority: models.PriorityMedium,
			Category: "Release", StartDate: "2024-06-10", DueDate: "2024-06-30", CreatedBy: "ana", Tags: []string{"ops"}},
	}, testNow)

	tests := []struct {
		name     string
		criteria Criteria
		expected []string
	}{
		{"no criteria", Criteria{}, []string{"1", "2", "3"}},
		{"status", Criteria{Status: "completed"}, []string{"2"}},
		{"priority", Criteria{Priority: "medium"}, []string{"3"}},
		{"category", Criteria{Category: "Bugfix"}, []string{"1"}},
		{"search is case insensitive over title and description", Criteria{SearchText: "login"}, []string{"1", "2"}},
		{"overdue only skips completed", Criteria{OverdueOnly: true}, []string{"1"}},
		{"from bound only", Criteria{StartDateFrom: "2024-06-08"}, []string{"2", "3"}},
		{"to bound only", Criteria{EndDateTo: "2024-06-08"}, []string{"1", "2"}},
		{"creators", Criteria{CreatedBy: []string{"ana"}}, []string{"1", "3"}},
		{"tags", Criteria{Tags: []string{"ops", "none"}}, []string{"3"}},
		{"combined", Criteria{Status: "pending", SearchText: "LOGIN", StartDateFrom: "2024-06-04", EndDateTo: "2024-06-10"}, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tasks, tt.criteria, time.UTC)
			ids := make([]string, 0, len(got))
			for _, task := range got {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestIsDefaultRange_IgnoresOtherCriteria(t *testing.T) {
	c := DefaultCriteria(testNow)
	c.Status = "pending"
	c.SearchText = "x"
	assert.True(t, IsDefaultRange(c, testNow))

	c.EndDateTo = "2024-06-09"
	assert.False(t, IsDefaultRange(c, testNow))

	assert.False(t, IsDefaultRange(Criteria{}, testNow))
}

func TestMatchChip(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Status: models.StatusPending, Priority: models.PriorityHigh},
		{ID: "2", Status: models.StatusCompleted, Priority: models.PriorityLow},
	}

	require.Len(t, MatchChip(tasks, ChipAll), 2)
	require.Len(t, MatchChip(tasks, "completed"), 1)
	assert.Equal(t, "2", MatchChip(tasks, "low")[0].ID)
	assert.Empty(t, MatchChip(tasks, "medium"))
}
