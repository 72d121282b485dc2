// Package services holds the persistence logic of the embedded /tasks store.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/DhananjayDev21/task-management-system/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// ErrTaskExists is returned when a create names an id that is already taken.
var ErrTaskExists = errors.New("task already exists")

// TaskService stores task documents as given. Missing tasks surface as
// gorm.ErrRecordNotFound.
type TaskService interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, id string, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type TaskServiceImpl struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskServiceImpl {
	return &TaskServiceImpl{db: db}
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	result := s.db.WithContext(ctx).Find(&tasks)
	return tasks, result.Error
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&task)
	return task, result.Error
}

// CreateTask assigns a v4 UUID unless the document already carries an id.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	task.IsOverdue = false
	if task.ID == "" {
		id, err := uuid.NewV4()
		if err != nil {
			return models.Task{}, fmt.Errorf("failed to generate task ID: %w", err)
		}
		task.ID = id.String()
	} else {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", task.ID).Count(&count).Error; err != nil {
			return models.Task{}, err
		}
		if count > 0 {
			return models.Task{}, ErrTaskExists
		}
	}

	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// UpdateTask replaces every stored field of the task with the given document.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, id string, task models.Task) (models.Task, error) {
	task.ID = id
	task.IsOverdue = false

	result := s.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Select("*").Updates(&task)
	if result.Error != nil {
		return models.Task{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Task{}, gorm.ErrRecordNotFound
	}
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
