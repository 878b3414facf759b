package services

import (
	"fmt"
	"time"

	"task-reminder/backend/internal/cache"
	"task-reminder/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CachedTaskService decorates a TaskService with a redis cache. Owner list
// entries are the hot path: the reminder agent re-fetches them after every
// change and on every poll tick.
type CachedTaskService struct {
	taskService TaskService
	cache       *cache.RedisCache
}

func NewCachedTaskService(taskService TaskService, cacheInstance *cache.RedisCache) *CachedTaskService {
	return &CachedTaskService{
		taskService: taskService,
		cache:       cacheInstance,
	}
}

func taskKey(id uuid.UUID) string {
	return fmt.Sprintf("task:%s", id.String())
}

func ownerKey(owner string) string {
	return fmt.Sprintf("owner_tasks:%s", owner)
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, task models.Task) error {
	if err := s.taskService.CreateTask(db, task); err != nil {
		return err
	}

	s.cache.Set(taskKey(task.ID), task, 30*time.Minute)
	s.cache.Delete(ownerKey(task.Owner))

	return nil
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, id uuid.UUID) (models.Task, error) {
	var cachedTask models.Task
	if err := s.cache.Get(taskKey(id), &cachedTask); err == nil {
		return cachedTask, nil
	}

	task, err := s.taskService.GetTaskByID(db, id)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(id), task, 30*time.Minute)

	return task, nil
}

func (s *CachedTaskService) GetTasksByOwner(db *gorm.DB, owner string) ([]models.Task, error) {
	var cachedTasks []models.Task
	if err := s.cache.Get(ownerKey(owner), &cachedTasks); err == nil {
		return cachedTasks, nil
	}

	tasks, err := s.taskService.GetTasksByOwner(db, owner)
	if err != nil {
		return tasks, err
	}

	s.cache.Set(ownerKey(owner), tasks, 5*time.Minute)

	return tasks, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, id uuid.UUID, updated models.Task) error {
	// Resolve the owner before the row changes so the list entry can be
	// invalidated even though updates never carry an owner.
	task, getErr := s.taskService.GetTaskByID(db, id)

	if err := s.taskService.UpdateTask(db, id, updated); err != nil {
		return err
	}

	s.cache.Delete(taskKey(id))
	if getErr == nil {
		s.cache.Delete(ownerKey(task.Owner))
	}

	return nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, id uuid.UUID) error {
	task, getErr := s.taskService.GetTaskByID(db, id)

	if err := s.taskService.DeleteTask(db, id); err != nil {
		return err
	}

	s.cache.Delete(taskKey(id))
	if getErr == nil {
		s.cache.Delete(ownerKey(task.Owner))
	}

	return nil
}
