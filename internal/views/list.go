package views

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DhananjayDev21/task-management-system/internal/analytics"
	"github.com/DhananjayDev21/task-management-system/internal/models"
)

// ListSnapshot is what the my-tasks page renders.
type ListSnapshot struct {
	Groups   []analytics.TaskGroup `json:"groups"`
	Total    int                   `json:"total"`
	LoadedAt time.Time             `json:"loadedAt"`
}

// ListView groups the user's tasks by start date with per-group quick filters.
type ListView struct {
	deps Deps
	life *lifecycle

	mu       sync.RWMutex
	tasks    []models.Task
	groups   []analytics.TaskGroup
	loadedAt time.Time
}

func NewListView(deps Deps) *ListView {
	return &ListView{deps: deps.withDefaults(), life: newLifecycle(), groups: []analytics.TaskGroup{}}
}

// Load replaces the snapshot with the store's current task list.
func (v *ListView) Load(ctx context.Context) error {
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
	v.loadedAt = v.deps.Now()
	v.regroupLocked()
	return nil
}

func (v *ListView) Snapshot() ListSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	groups := make([]analytics.TaskGroup, len(v.groups))
	copy(groups, v.groups)
	return ListSnapshot{
		Groups:   groups,
		Total:    len(v.tasks),
		LoadedAt: v.loadedAt,
	}
}

// Tasks returns a copy of the raw snapshot.
func (v *ListView) Tasks() []models.Task {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Task(nil), v.tasks...)
}

// SetFilter applies a chip to the group with the given label.
func (v *ListView) SetFilter(label, name string) (analytics.TaskGroup, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	groups, ok := analytics.SetGroupFilter(v.groups, label, name)
	if !ok {
		return analytics.TaskGroup{}, ErrGroupNotFound
	}
	v.groups = groups
	for _, g := range groups {
		if g.Label == label {
			return g, nil
		}
	}
	return analytics.TaskGroup{}, ErrGroupNotFound
}

// Create validates locally, stores the task and appends the stored copy to the snapshot.
func (v *ListView) Create(ctx context.Context, task models.Task) (models.Task, error) {
	if err := task.Validate(); err != nil {
		return models.Task{}, err
	}

	var created models.Task
	err := v.life.run(ctx, v.deps.Loader, func(ctx context.Context) error {
		var err error
		created, err = v.deps.Store.CreateTask(ctx, task)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrViewClosed) {
			v.deps.Notifier.Error(msgCreateFailed, err)
		}
		return models.Task{}, err
	}

	if err := v.commit(func() { v.tasks = append(v.tasks, created) }); err != nil {
		return models.Task{}, err
	}

	v.deps.Notifier.Success(msgCreated)
	return created, nil
}

// Update replaces the task with the given id in the snapshot by the store's copy.
func (v *ListView) Update(ctx context.Context, id string, task models.Task) (models.Task, error) {
	if err := task.Validate(); err != nil {
		return models.Task{}, err
	}

	var updated models.Task
	err := v.life.run(ctx, v.deps.Loader, func(ctx context.Context) error {
		var err error
		updated, err = v.deps.Store.UpdateTask(ctx, id, task)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrViewClosed) {
			v.deps.Notifier.Error(msgUpdateFailed, err)
		}
		return models.Task{}, err
	}
	if updated.ID == "" {
		updated.ID = id
	}

	err = v.commit(func() {
		for i := range v.tasks {
			if v.tasks[i].ID == id {
				v.tasks[i] = updated
			}
		}
	})
	if err != nil {
		return models.Task{}, err
	}

	v.deps.Notifier.Success(msgUpdated)
	return updated, nil
}

// Delete removes exactly the task with the given id from the store and the snapshot.
func (v *ListView) Delete(ctx context.Context, id string) error {
	err := v.life.run(ctx, v.deps.Loader, func(ctx context.Context) error {
		return v.deps.Store.DeleteTask(ctx, id)
	})
	if err != nil {
		if !errors.Is(err, ErrViewClosed) {
			v.deps.Notifier.Error(msgDeleteFailed, err)
		}
		return err
	}

	err = v.commit(func() {
		kept := v.tasks[:0:0]
		for _, t := range v.tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		v.tasks = kept
	})
	if err != nil {
		return err
	}

	v.deps.Notifier.Success(msgDeleted)
	return nil
}

// Close cancels in-flight calls; later calls return ErrViewClosed.
func (v *ListView) Close() {
	v.life.close()
}

// commit applies a remote result to the snapshot unless the view closed after
// the call returned.
func (v *ListView) commit(apply func()) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.life.closed() {
		return ErrViewClosed
	}
	apply()
	v.regroupLocked()
	return nil
}

func (v *ListView) regroupLocked() {
	v.groups = analytics.GroupByDate(v.tasks, v.deps.Now())
}
