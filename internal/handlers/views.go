package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/DhananjayDev21/task-management-system/internal/analytics"
	"github.com/DhananjayDev21/task-management-system/internal/client"
	"github.com/DhananjayDev21/task-management-system/internal/loader"
	"github.com/DhananjayDev21/task-management-system/internal/models"
	"github.com/DhananjayDev21/task-management-system/internal/notify"
	"github.com/DhananjayDev21/task-management-system/internal/views"

	"github.com/gin-gonic/gin"
)

// ViewHandler exposes the my-tasks, analytics and insights views as JSON.
type ViewHandler struct {
	list      *views.ListView
	analytics *views.AnalyticsView
	insights  *views.InsightsView
	loader    *loader.Loader
	toasts    *notify.Center
}

func NewViewHandler(list *views.ListView, analytics *views.AnalyticsView, insights *views.InsightsView, loader *loader.Loader, toasts *notify.Center) *ViewHandler {
	return &ViewHandler{
		list:      list,
		analytics: analytics,
		insights:  insights,
		loader:    loader,
		toasts:    toasts,
	}
}

type groupFilterRequest struct {
	Filter string `json:"filter" binding:"required"`
}

type rangeRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (h *ViewHandler) RegisterRoutes(r gin.IRouter) {
	myTasks := r.Group("/my-tasks")
	{
		myTasks.GET("", h.GetMyTasks)
		myTasks.POST("", h.CreateMyTask)
		myTasks.POST("/refresh", h.RefreshMyTasks)
		myTasks.POST("/groups/:label/filter", h.FilterGroup)
		myTasks.PUT("/:id", h.UpdateMyTask)
		myTasks.DELETE("/:id", h.DeleteMyTask)
	}

	panel := r.Group("/analytics")
	{
		panel.GET("", h.GetAnalytics)
		panel.PUT("/criteria", h.SetCriteria)
		panel.POST("/apply", h.ApplyCriteria)
		panel.POST("/reset", h.ResetCriteria)
		panel.POST("/clear", h.ClearCriteria)
		panel.POST("/refresh", h.RefreshAnalytics)
		panel.GET("/status/:status", h.TasksByStatus)
	}

	chart := r.Group("/insights")
	{
		chart.GET("", h.GetInsights)
		chart.POST("/range", h.ApplyRange)
		chart.POST("/reset", h.ResetRange)
		chart.POST("/refresh", h.RefreshInsights)
	}

	ui := r.Group("/ui")
	{
		ui.GET("/loader", h.GetLoader)
		ui.GET("/notifications", h.GetNotifications)
		ui.DELETE("/notifications/:id", h.DismissNotification)
	}
}

func (h *ViewHandler) GetMyTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.list.Snapshot())
}

func (h *ViewHandler) RefreshMyTasks(c *gin.Context) {
	if err := h.list.Load(c.Request.Context()); err != nil {
		handleViewError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.list.Snapshot())
}

func (h *ViewHandler) FilterGroup(c *gin.Context) {
	var req groupFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.list.SetFilter(c.Param("label"), req.Filter)
	if err != nil {
		handleViewError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *ViewHandler) CreateMyTask(c *gin.Context) {
	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.list.Create(c.Request.Context(), task)
	if err != nil {
		handleViewError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ViewHandler) UpdateMyTask(c *gin.Context) {
	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.list.Update(c.Request.Context(), c.Param("id"), task)
	if err != nil {
		handleViewError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ViewHandler) DeleteMyTask(c *gin.Context) {
	if err := h.list.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleViewError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ViewHandler) GetAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, h.analytics.Snapshot())
}

// SetCriteria stores the draft panel state. Nothing is filtered until apply.
func (h *ViewHandler) SetCriteria(c *gin.Context) {
	var criteria analytics.Criteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.analytics.SetCriteria(criteria))
}

func (h *ViewHandler) ApplyCriteria(c *gin.Context) {
	c.JSON(http.StatusOK, h.analytics.Apply())
}

func (h *ViewHandler) ResetCriteria(c *gin.Context) {
	c.JSON(http.StatusOK, h.analytics.ResetToDefault())
}

func (h *ViewHandler) ClearCriteria(c *gin.Context) {
	c.JSON(http.StatusOK, h.analytics.ClearAll())
}

func (h *ViewHandler) RefreshAnalytics(c *gin.Context) {
	if err := h.analytics.Load(c.Request.Context()); err != nil {
		handleViewError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.analytics.Snapshot())
}

func (h *ViewHandler) TasksByStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.analytics.TasksByStatus(models.Status(c.Param("status"))))
}

func (h *ViewHandler) GetInsights(c *gin.Context) {
	c.JSON(http.StatusOK, h.insights.Snapshot())
}

func (h *ViewHandler) ApplyRange(c *gin.Context) {
	var req rangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.insights.ApplyRange(req.StartDate, req.EndDate)
	if err != nil {
		handleViewError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *ViewHandler) ResetRange(c *gin.Context) {
	c.JSON(http.StatusOK, h.insights.ResetRange())
}

func (h *ViewHandler) RefreshInsights(c *gin.Context) {
	if err := h.insights.Load(c.Request.Context()); err != nil {
		handleViewError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.insights.Snapshot())
}

func (h *ViewHandler) GetLoader(c *gin.Context) {
	c.JSON(http.StatusOK, h.loader.State())
}

func (h *ViewHandler) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.toasts.Active())
}

func (h *ViewHandler) DismissNotification(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if !h.toasts.Dismiss(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func handleViewError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task", "fields": verr.Fields})
	case errors.Is(err, client.ErrNotFound), errors.Is(err, views.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, views.ErrRangeIncomplete), errors.Is(err, views.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, client.ErrCircuitOpen), errors.Is(err, views.ErrViewClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case client.IsTransportError(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": "task store request failed"})
	default:
		log.Printf("view error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process request"})
	}
}
