package services

import (
	"task-reminder/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskService interface {
	CreateTask(db *gorm.DB, task models.Task) error
	GetTaskByID(db *gorm.DB, id uuid.UUID) (models.Task, error)
	GetTasksByOwner(db *gorm.DB, owner string) ([]models.Task, error)
	UpdateTask(db *gorm.DB, id uuid.UUID, updated models.Task) error
	DeleteTask(db *gorm.DB, id uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, task models.Task) error {
	return db.Create(&task).Error
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, id uuid.UUID) (models.Task, error) {
	var task models.Task
	result := db.Where("id = ?", id).First(&task)
	return task, result.Error
}

// GetTasksByOwner lists an owner's tasks ordered by scheduled instant, the
// order the reminder agent arms them in.
func (s *TaskServiceImpl) GetTasksByOwner(db *gorm.DB, owner string) ([]models.Task, error) {
	var tasks []models.Task
	result := db.Where("owner = ?", owner).Order("scheduled_at asc").Find(&tasks)
	return tasks, result.Error
}

// UpdateTask changes title, scheduled instant and priority only. Id and
// owner are immutable after creation.
func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, id uuid.UUID, updated models.Task) error {
	result := db.Model(&models.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":        updated.Title,
		"scheduled_at": updated.ScheduledAt,
		"priority":     updated.Priority,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, id uuid.UUID) error {
	result := db.Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
