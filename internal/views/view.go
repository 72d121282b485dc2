// Package views holds the state behind the my-tasks list, the analytics panel
// and the insights chart. Each view owns its own task snapshot.
package views

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DhananjayDev21/task-management-system/internal/client"
	"github.com/DhananjayDev21/task-management-system/internal/loader"
	"github.com/DhananjayDev21/task-management-system/internal/notify"
)

var (
	// ErrViewClosed is returned for calls made on, or finishing after, a closed view.
	ErrViewClosed = errors.New("view closed")

	ErrGroupNotFound   = errors.New("task group not found")
	ErrRangeIncomplete = errors.New("both start and end dates are required")
	ErrInvalidDate     = errors.New("dates must be YYYY-MM-DD")
)

const (
	msgLoadFailed    = "Failed to load tasks"
	msgCreated       = "Task created successfully"
	msgCreateFailed  = "Failed to create task"
	msgUpdated       = "Task updated successfully"
	msgUpdateFailed  = "Failed to update task"
	msgDeleted       = "Task deleted successfully"
	msgDeleteFailed  = "Failed to delete task"
	msgRangeRequired = "Please select both start and end dates"
)

// Deps are the collaborators shared by all views.
type Deps struct {
	Store    client.Store
	Loader   *loader.Loader
	Notifier notify.Notifier
	Now      func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Loader == nil {
		d.Loader = loader.Default
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewCenter(notify.DefaultDuration)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// lifecycle ties every remote call to the view's teardown.
type lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func newLifecycle() *lifecycle {
	ctx, cancel := context.WithCancel(context.Background())
	return &lifecycle{ctx: ctx, cancel: cancel}
}

func (l *lifecycle) closed() bool {
	return l.ctx.Err() != nil
}

func (l *lifecycle) close() {
	l.once.Do(l.cancel)
}

// run calls fn with a context cancelled by either the caller or the view's
// teardown, and shows the busy indicator meanwhile. A call that outlives the
// view reports ErrViewClosed so its result is dropped.
func (l *lifecycle) run(ctx context.Context, busy *loader.Loader, fn func(ctx context.Context) error) error {
	if l.closed() {
		return ErrViewClosed
	}

	callCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	defer func() {
		stop()
		cancel()
	}()

	err := busy.Track(func() error { return fn(callCtx) })
	if l.closed() {
		return ErrViewClosed
	}
	return err
}
