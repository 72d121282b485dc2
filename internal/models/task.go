package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on-hold"
)

// Statuses is the fixed status enumeration in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusOnHold}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Categories are the suggestions offered by the task form. Category itself is free-form.
var Categories = []string{
	"Development", "Database", "Testing", "Performance", "Security", "Documentation", "Process",
	"Frontend", "Bugfix", "Design", "Maintenance", "Release", "Presentation", "Compliance",
	"DevOps", "Feature", "Analytics", "Work",
}

const (
	DateLayout = "2006-01-02"

	// DefaultDueTime applies when a task has a due date but no due time.
	DefaultDueTime = "23:59:59"
)

type Task struct {
	ID          string   `json:"id,omitempty" gorm:"primaryKey;type:varchar(36)"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Status      Status   `json:"status" validate:"required,oneof=pending in-progress completed on-hold"`
	Priority    Priority `json:"priority" validate:"required,oneof=low medium high"`
	Category    string   `json:"category" validate:"required"`
	StartDate   string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	StartTime   string   `json:"startTime" validate:"omitempty,clock"`
	DueDate     string   `json:"dueDate" validate:"required,datetime=2006-01-02"`
	DueTime     string   `json:"dueTime" validate:"omitempty,clock"`
	CreatedBy   string   `json:"createdBy"`
	Tags        []string `json:"tags" gorm:"serializer:json;type:text"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`

	// IsOverdue is derived on every load and never stored.
	IsOverdue bool `json:"isOverDue" gorm:"-"`
}

// UnmarshalJSON accepts the id as a JSON string or number and keeps it as a string.
func (t *Task) UnmarshalJSON(data []byte) error {
	type document Task
	aux := struct {
		*document
		ID json.RawMessage `json:"id"`
	}{document: (*document)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.ID)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '"':
		return json.Unmarshal(raw, &t.ID)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("task id must be a string or number: %w", err)
		}
		t.ID = n.String()
	}
	return nil
}

func (Task) TableName() string {
	return "tasks"
}

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	if t.Tags != nil {
		t.Tags = append([]string(nil), t.Tags...)
	}
	return t
}

func (t Task) HasTag(tag string) bool {
	for _, candidate := range t.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}
