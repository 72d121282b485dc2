package analytics

import (
	"testing"

	"github.com/DhananjayDev21/task-management-system/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStatusSeries(t *testing.T) {
	labels, series := StatusSeries(models.Statuses, []models.Task{
		{Status: models.StatusPending},
		{Status: models.StatusPending},
		{Status: models.StatusCompleted},
	})

	assert.Equal(t, []string{"pending", "in-progress", "completed", "on-hold"}, labels)
	assert.Equal(t, []int{2, 0, 1, 0}, series)
}

func TestChart_RenderBuildsThenUpdates(t *testing.T) {
	var chart Chart

	first := chart.Render(models.Statuses, []models.Task{{Status: models.StatusOnHold}})
	assert.Equal(t, "donut", first.Type)
	assert.Equal(t, 280, first.Height)
	assert.Equal(t, "Tasks by Status", first.Title)
	assert.Equal(t, []int{0, 0, 0, 1}, first.Series)
	assert.Equal(t, 1, first.Total)

	second := chart.Render(models.Statuses, []models.Task{
		{Status: models.StatusPending},
		{Status: models.StatusInProgress},
	})
	assert.Equal(t, first.Labels, second.Labels)
	assert.Equal(t, []int{1, 1, 0, 0}, second.Series)
	assert.Equal(t, 2, second.Total)
	assert.Equal(t, 2, chart.Renders())
}

func TestChart_RebuildsOnNewLabels(t *testing.T) {
	var chart Chart
	chart.Render(models.Statuses, nil)

	cfg := chart.Render([]models.Status{models.StatusCompleted}, []models.Task{{Status: models.StatusCompleted}})

	assert.Equal(t, []string{"completed"}, cfg.Labels)
	assert.Equal(t, []int{1}, cfg.Series)
}
