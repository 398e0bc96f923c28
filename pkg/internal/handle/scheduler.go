package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yeisme/pixels/pkg/internal/types"
	"github.com/yeisme/pixels/pkg/middleware"
	"github.com/yeisme/pixels/pkg/scheduler"
)

func schedulerOrAbort(c *gin.Context) *scheduler.Scheduler {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, types.Fail("Scheduler not running.", nil))
	}

	return sched
}

// SchedulerJobs 返回所有调度器任务信息.
func SchedulerJobs(c *gin.Context) {
	sched := schedulerOrAbort(c)
	if sched == nil {
		return
	}

	c.JSON(http.StatusOK, types.OK("Jobs fetched successfully.", sched.GetJobInfos()))
}

// SchedulerRunJob 立即执行指定任务.
func SchedulerRunJob(c *gin.Context) {
	sched := schedulerOrAbort(c)
	if sched == nil {
		return
	}

	if err := sched.RunNow(c.Param("name")); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scheduler.ErrJobNotFound) {
			status = http.StatusNotFound
		}

		c.JSON(status, types.Fail("Failed to run job.", err))

		return
	}

	c.JSON(http.StatusAccepted, types.OK("Job triggered.", nil))
}

// SchedulerRemoveJob 根据 id 删除任务.
func SchedulerRemoveJob(c *gin.Context) {
	sched := schedulerOrAbort(c)
	if sched == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("Invalid job id.", err))
		return
	}

	if err := sched.RemoveJob(id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scheduler.ErrJobNotFound) {
			status = http.StatusNotFound
		}

		c.JSON(status, types.Fail("Failed to remove job.", err))

		return
	}

	c.JSON(http.StatusOK, types.OK("Job removed.", nil))
}

// SchedulerQueueWaiting 返回队列中等待的任务数.
func SchedulerQueueWaiting(c *gin.Context) {
	sched := schedulerOrAbort(c)
	if sched == nil {
		return
	}

	c.JSON(http.StatusOK, types.OK("Queue fetched successfully.", gin.H{"waiting": sched.JobsWaitingInQueue()}))
}
