package handlers

import (
	"log"
	"net/http"

	"github.com/DhananjayDev21/task-management-system/internal/services"

	"github.com/gin-gonic/gin"
)

type CacheHandler struct {
	tasks *services.CachedTaskService
}

func NewCacheHandler(tasks *services.CachedTaskService) *CacheHandler {
	return &CacheHandler{tasks: tasks}
}

func (h *CacheHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/cache/stats", h.GetCacheStats)
	r.DELETE("/cache", h.ClearCache)
}

// GetCacheStats
// GET /cache/stats
func (h *CacheHandler) GetCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.tasks.CacheStats())
}

// ClearCache drops every cached task document.
// DELETE /cache
func (h *CacheHandler) ClearCache(c *gin.Context) {
	if err := h.tasks.Flush(c.Request.Context()); err != nil {
		log.Printf("cache flush failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to clear cache",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cache cleared successfully"})
}
