package views

import (
	"context"
	"errors"
	"sync"

	"github.com/DhananjayDev21/task-management-system/internal/analytics"
	"github.com/DhananjayDev21/task-management-system/internal/models"
)

type InsightsSnapshot struct {
	StartDate       string                `json:"startDate"`
	EndDate         string                `json:"endDate"`
	IsDefaultFilter bool                  `json:"isDefaultFilter"`
	TaskCount       int                   `json:"taskCount"`
	Chart           analytics.ChartConfig `json:"chart"`
}

// InsightsView feeds the tasks-by-status donut for a start-date range.
type InsightsView struct {
	deps  Deps
	life  *lifecycle
	chart analytics.Chart

	mu        sync.RWMutex
	tasks     []models.Task
	from, to  string
	isDefault bool
	inRange   int
	config    analytics.ChartConfig
}

func NewInsightsView(deps Deps) *InsightsView {
	deps = deps.withDefaults()
	v := &InsightsView{deps: deps, life: newLifecycle()}
	v.from, v.to = analytics.DefaultRange(deps.Now())
	v.renderLocked()
	return v
}

// Load fetches tasks and redraws the chart for the current range.
func (v *InsightsView) Load(ctx context.Context) error {
	var tasks []models.Task
	err := v.life.run(ctx, v.deps.Loader, func(ctx context.Context) error {
		var err error
		tasks, err = v.deps.Store.ListTasks(ctx)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrViewClosed) {
			v.deps.Notifier.Error(msgLoadFailed, err)
		}
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.life.closed() {
		return ErrViewClosed
	}
	v.tasks = append([]models.Task(nil), tasks...)
	v.renderLocked()
	return nil
}

// ApplyRange redraws the chart for [from, to]. Both bounds are required.
func (v *InsightsView) ApplyRange(from, to string) (InsightsSnapshot, error) {
	if from == "" || to == "" {
		v.deps.Notifier.Error(msgRangeRequired, nil)
		return v.Snapshot(), ErrRangeIncomplete
	}
	loc := v.deps.Now().Location()
	if _, ok := analytics.ParseDate(from, loc); !ok {
		return v.Snapshot(), ErrInvalidDate
	}
	if _, ok := analytics.ParseDate(to, loc); !ok {
		return v.Snapshot(), ErrInvalidDate
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.from, v.to = from, to
	v.renderLocked()
	return v.snapshotLocked(), nil
}

// ResetRange goes back to the last seven days through today.
func (v *InsightsView) ResetRange() InsightsSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.from, v.to = analytics.DefaultRange(v.deps.Now())
	v.renderLocked()
	return v.snapshotLocked()
}

func (v *InsightsView) Snapshot() InsightsSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshotLocked()
}

// Renders reports how many times the chart was drawn.
func (v *InsightsView) Renders() int {
	return v.chart.Renders()
}

func (v *InsightsView) Close() {
	v.life.close()
}

func (v *InsightsView) renderLocked() {
	now := v.deps.Now()
	criteria := analytics.Criteria{StartDateFrom: v.from, EndDateTo: v.to}
	inRange := analytics.Filter(v.tasks, criteria, now.Location())

	v.inRange = len(inRange)
	v.isDefault = analytics.IsDefaultRange(criteria, now)
	v.config = v.chart.Render(models.Statuses, inRange)
}

func (v *InsightsView) snapshotLocked() InsightsSnapshot {
	return InsightsSnapshot{
		StartDate:       v.from,
		EndDate:         v.to,
		IsDefaultFilter: v.isDefault,
		TaskCount:       v.inRange,
		Chart:           v.config,
	}
}
