package handlers

import (
	"errors"
	"net/http"
	"time"

	"task-reminder/backend/internal/models"
	"task-reminder/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	ownerInterface, exists := c.Get("owner")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	owner, ok := ownerInterface.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid owner format"})
		return
	}

	var taskInput struct {
		Title       string          `json:"title" binding:"required"`
		ScheduledAt time.Time       `json:"scheduled_at" binding:"required"`
		Priority    models.Priority `json:"priority"`
	}
	if err := c.ShouldBindJSON(&taskInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taskInput.Priority = taskInput.Priority.OrDefault()
	if !taskInput.Priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be Low, Medium or High"})
		return
	}

	taskID, err := uuid.NewV4()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to generate task ID",
			"details": err.Error(),
		})
		return
	}

	task := models.Task{
		ID:          taskID,
		Owner:       owner,
		Title:       taskInput.Title,
		ScheduledAt: taskInput.ScheduledAt.UTC(),
		Priority:    taskInput.Priority,
	}
	if err := h.taskService.CreateTask(h.db, task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to create task",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	idStr := c.Param("id")
	id := uuid.FromStringOrNil(idStr)

	var taskInput struct {
		Title       string          `json:"title" binding:"required"`
		ScheduledAt time.Time       `json:"scheduled_at" binding:"required"`
		Priority    models.Priority `json:"priority"`
	}
	if err := c.ShouldBindJSON(&taskInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taskInput.Priority = taskInput.Priority.OrDefault()
	if !taskInput.Priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be Low, Medium or High"})
		return
	}

	updated := models.Task{
		Title:       taskInput.Title,
		ScheduledAt: taskInput.ScheduledAt.UTC(),
		Priority:    taskInput.Priority,
	}
	if err := h.taskService.UpdateTask(h.db, id, updated); err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task updated successfully"})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	idStr := c.Param("id")
	id := uuid.FromStringOrNil(idStr)
	if err := h.taskService.DeleteTask(h.db, id); err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	idStr := c.Param("id")
	id := uuid.FromStringOrNil(idStr)
	task, err := h.taskService.GetTaskByID(h.db, id)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// GetTasksByOwner lists all tasks for one owner; the reminder agent calls
// this after every change and rearms its timers from the result.
func (h *TaskHandler) GetTasksByOwner(c *gin.Context) {
	owner := c.Param("email")
	tasks, err := h.taskService.GetTasksByOwner(h.db, owner)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func handleTaskError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "task not found",
		})
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to process task request",
		})
	}
}
