package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/DhananjayDev21/task-management-system/internal/models"
	"github.com/DhananjayDev21/task-management-system/internal/schema"
	"github.com/DhananjayDev21/task-management-system/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TaskHandler serves the /tasks document resource.
type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/tasks", h.GetTasks)
	r.GET("/tasks/:id", h.GetTask)
	r.POST("/tasks", h.CreateTask)
	r.PUT("/tasks/:id", h.UpdateTask)
	r.DELETE("/tasks/:id", h.DeleteTask)
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks(c.Request.Context())
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	task, ok := bindTaskDocument(c)
	if !ok {
		return
	}

	created, err := h.taskService.CreateTask(c.Request.Context(), task)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := bindTaskDocument(c)
	if !ok {
		return
	}

	updated, err := h.taskService.UpdateTask(c.Request.Context(), c.Param("id"), task)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		handleTaskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindTaskDocument checks the raw body against the document schema before decoding it.
func bindTaskDocument(c *gin.Context) (models.Task, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return models.Task{}, false
	}

	if err := schema.ValidateTask(body); err != nil {
		var docErr *schema.DocumentError
		if errors.As(err, &docErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": docErr.Error(), "field": docErr.Path})
			return models.Task{}, false
		}
		log.Printf("schema validation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate task"})
		return models.Task{}, false
	}

	var task models.Task
	if err := json.Unmarshal(body, &task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Task{}, false
	}
	return task, true
}

func handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, services.ErrTaskExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("task store error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process task request"})
	}
}
