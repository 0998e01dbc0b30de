package handlers

import (
	"context"
	"errors"
	"net/http"

	"DisputeDesk/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// SchedulerControl is implemented by *monitoring.Scheduler.
type SchedulerControl interface {
	Status() monitoring.Status
	RunNow(ctx context.Context, name monitoring.TaskName) error
}

type SchedulerHandler struct {
	scheduler SchedulerControl
}

func NewSchedulerHandler(s SchedulerControl) SchedulerHandler {
	return SchedulerHandler{scheduler: s}
}

func (h *SchedulerHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.scheduler.Status())
}

// Run executes a task now and waits for it to finish.
func (h *SchedulerHandler) Run(c *gin.Context) {
	name := monitoring.TaskName(c.Param("task"))

	err := h.scheduler.RunNow(c.Request.Context(), name)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"task": name, "status": "completed"})
	case errors.Is(err, monitoring.ErrUnknownTask):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, monitoring.ErrTaskRunning):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"task": name, "message": err.Error()})
	}
}
