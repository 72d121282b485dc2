// Package loader tracks the process-wide busy indicator.
package loader

import (
	"sync"
)

// Loader is visible while at least one Show has no matching Hide.
type Loader struct {
	mu    sync.RWMutex
	depth int
	shown int64
}

// Default is shared by every view in the process.
var Default = New()

func New() *Loader {
	return &Loader{}
}

func (l *Loader) Show() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.depth++
	l.shown++
}

// Hide never takes the depth below zero, so a stray Hide is harmless.
func (l *Loader) Hide() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.depth > 0 {
		l.depth--
	}
}

func (l *Loader) Visible() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.depth > 0
}

type State struct {
	Visible bool  `json:"visible"`
	Depth   int   `json:"depth"`
	Shown   int64 `json:"shown"`
}

func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return State{Visible: l.depth > 0, Depth: l.depth, Shown: l.shown}
}

// Track shows the indicator for the duration of fn.
func (l *Loader) Track(fn func() error) error {
	l.Show()
	defer l.Hide()
	return fn()
}
