package services

import (
	"context"
	"log"
	"time"

	"github.com/DhananjayDev21/task-management-system/internal/cache"
	"github.com/DhananjayDev21/task-management-system/internal/models"
)

const (
	allTasksKey   = "all_tasks"
	taskKeyPrefix = "task:"
)

// CachedTaskService reads through a cache and invalidates on every write.
type CachedTaskService struct {
	taskService TaskService
	cache       cache.Cache
	listTTL     time.Duration
	taskTTL     time.Duration
}

func NewCachedTaskService(taskService TaskService, c cache.Cache, ttl time.Duration) *CachedTaskService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedTaskService{
		taskService: taskService,
		cache:       c,
		listTTL:     ttl,
		taskTTL:     3 * ttl,
	}
}

func taskKey(id string) string {
	return taskKeyPrefix + id
}

func (s *CachedTaskService) ListTasks(ctx context.Context) ([]models.Task, error) {
	var cached []models.Task
	if err := s.cache.Get(ctx, allTasksKey, &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.taskService.ListTasks(ctx)
	if err != nil {
		return tasks, err
	}

	s.set(ctx, allTasksKey, tasks, s.listTTL)
	return tasks, nil
}

func (s *CachedTaskService) GetTask(ctx context.Context, id string) (models.Task, error) {
	var cached models.Task
	if err := s.cache.Get(ctx, taskKey(id), &cached); err == nil {
		return cached, nil
	}

	task, err := s.taskService.GetTask(ctx, id)
	if err != nil {
		return task, err
	}

	s.set(ctx, taskKey(id), task, s.taskTTL)
	return task, nil
}

func (s *CachedTaskService) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	created, err := s.taskService.CreateTask(ctx, task)
	if err != nil {
		return created, err
	}

	s.invalidate(ctx, allTasksKey)
	s.set(ctx, taskKey(created.ID), created, s.taskTTL)
	return created, nil
}

func (s *CachedTaskService) UpdateTask(ctx context.Context, id string, task models.Task) (models.Task, error) {
	updated, err := s.taskService.UpdateTask(ctx, id, task)
	if err != nil {
		return updated, err
	}

	s.invalidate(ctx, allTasksKey, taskKey(id))
	return updated, nil
}

func (s *CachedTaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskService.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, allTasksKey, taskKey(id))
	return nil
}

// Flush drops every cached task entry.
func (s *CachedTaskService) Flush(ctx context.Context) error {
	if err := s.cache.Delete(ctx, allTasksKey); err != nil {
		return err
	}
	return s.cache.DeletePrefix(ctx, taskKeyPrefix)
}

func (s *CachedTaskService) CacheStats() map[string]interface{} {
	return s.cache.Stats()
}

func (s *CachedTaskService) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		log.Printf("cache: failed to store %s: %v", key, err)
	}
}

func (s *CachedTaskService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Printf("cache: failed to invalidate %v: %v", keys, err)
	}
}
