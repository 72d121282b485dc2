package views

import (
	"context"
	"errors"
	"sync"

	"github.com/DhananjayDev21/task-management-system/internal/analytics"
	"github.com/DhananjayDev21/task-management-system/internal/models"
)

// AnalyticsSnapshot is the filter panel plus the summary it produced.
type AnalyticsSnapshot struct {
	Criteria            analytics.Criteria `json:"criteria"`
	Draft               analytics.Criteria `json:"draft"`
	Filtered            []models.Task      `json:"filtered"`
	Counts              analytics.Counts   `json:"counts"`
	Options             analytics.Options  `json:"options"`
	IsDefaultFilter     bool               `json:"isDefaultFilter"`
	HasUnappliedChanges bool               `json:"hasUnappliedChanges"`
	ActiveFilterCount   int                `json:"activeFilterCount"`
}

// AnalyticsView filters the full task set by the panel criteria. Unlike the
// list, overdue tasks stay in this view, flagged.
type AnalyticsView struct {
	deps Deps
	life *lifecycle

	mu                  sync.RWMutex
	tasks               []models.Task
	draft               analytics.Criteria
	applied             analytics.Criteria
	filtered            []models.Task
	counts              analytics.Counts
	options             analytics.Options
	isDefault           bool
	hasUnappliedChanges bool
	activeFilterCount   int
}

func NewAnalyticsView(deps Deps) *AnalyticsView {
	deps = deps.withDefaults()
	v := &AnalyticsView{deps: deps, life: newLifecycle()}
	v.draft = analytics.DefaultCriteria(deps.Now())
	v.applyLocked()
	return v
}

// Load fetches tasks, then resets the date range to the default and applies
// the panel.
func (v *AnalyticsView) Load(ctx context.Context) error {
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
	v.options = analytics.FilterOptions(v.tasks)
	v.resetRangeLocked()
	return nil
}

// SetCriteria records panel edits without filtering.
func (v *AnalyticsView) SetCriteria(c analytics.Criteria) AnalyticsSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = c
	v.hasUnappliedChanges = true
	return v.snapshotLocked()
}

func (v *AnalyticsView) Apply() AnalyticsSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.applyLocked()
	return v.snapshotLocked()
}

// ResetToDefault restores the default date range and keeps the other criteria.
func (v *AnalyticsView) ResetToDefault() AnalyticsSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resetRangeLocked()
	return v.snapshotLocked()
}

// ClearAll empties every criterion, then restores the default range.
func (v *AnalyticsView) ClearAll() AnalyticsSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = analytics.Criteria{}
	v.resetRangeLocked()
	return v.snapshotLocked()
}

func (v *AnalyticsView) TasksByStatus(status models.Status) []models.Task {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return analytics.ByStatus(v.filtered, status)
}

func (v *AnalyticsView) Snapshot() AnalyticsSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshotLocked()
}

func (v *AnalyticsView) Close() {
	v.life.close()
}

func (v *AnalyticsView) resetRangeLocked() {
	v.draft.StartDateFrom, v.draft.EndDateTo = analytics.DefaultRange(v.deps.Now())
	v.applyLocked()
}

// applyLocked re-flags overdue tasks against the current time before filtering.
func (v *AnalyticsView) applyLocked() {
	now := v.deps.Now()
	v.tasks = analytics.MarkOverdue(v.tasks, now)
	v.applied = v.draft
	v.filtered = analytics.Filter(v.tasks, v.applied, now.Location())
	v.counts = analytics.Count(v.filtered)
	v.isDefault = analytics.IsDefaultRange(v.applied, now)
	v.activeFilterCount = analytics.ActiveFilterCount(v.applied, now)
	v.hasUnappliedChanges = false
}

func (v *AnalyticsView) snapshotLocked() AnalyticsSnapshot {
	return AnalyticsSnapshot{
		Criteria:            v.applied,
		Draft:               v.draft,
		Filtered:            append([]models.Task{}, v.filtered...),
		Counts:              v.counts,
		Options:             v.options,
		IsDefaultFilter:     v.isDefault,
		HasUnappliedChanges: v.hasUnappliedChanges,
		ActiveFilterCount:   v.activeFilterCount,
	}
}
