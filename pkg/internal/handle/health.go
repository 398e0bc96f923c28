package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/pixels/pkg/context"
	"github.com/yeisme/pixels/pkg/internal/types"
)

const timeout = 2 * time.Second

const (
	statusOK        = "ok"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
)

// checkHealth 执行一次带超时的检查并输出统一结构.
func checkHealth(c *gin.Context, component, kind string, ping func(context.Context) error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	st := types.HealthStatus{Component: component, Status: statusOK, Type: kind}

	if err := ping(ctx); err != nil {
		st.Status = statusUnhealthy
		st.Error = err.Error()
		c.JSON(http.StatusServiceUnavailable, st)

		return
	}

	c.JSON(http.StatusOK, st)
}

func notInitialized(c *gin.Context, component string) {
	c.JSON(http.StatusServiceUnavailable, types.HealthStatus{
		Component: component,
		Status:    statusUnhealthy,
		Error:     component + " client not initialized",
	})
}

// HealthDB 数据库健康检查.
//
//	@Summary	数据库健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	types.HealthStatus
//	@Failure	503	{object}	types.HealthStatus
//	@Router		/api/health/db [get]
func HealthDB(c *gin.Context) {
	dbc := ctxPkg.GetDBClient(c.Request.Context())
	if dbc == nil || dbc.DB == nil {
		notInitialized(c, "db")
		return
	}

	checkHealth(c, "db", dbc.Dialector.Name(), dbc.Ping)
}

// HealthKV 键值存储健康检查.
//
//	@Summary	KV 健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	types.HealthStatus
//	@Failure	503	{object}	types.HealthStatus
//	@Router		/api/health/kv [get]
func HealthKV(c *gin.Context) {
	kvc := ctxPkg.GetKVClient(c.Request.Context())
	if kvc == nil || kvc.KVStore == nil {
		notInitialized(c, "kv")
		return
	}

	checkHealth(c, "kv", string(kvc.Type()), kvc.Ping)
}

// HealthMQ 消息队列健康检查.
//
//	@Summary	MQ 健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	types.HealthStatus
//	@Failure	503	{object}	types.HealthStatus
//	@Router		/api/health/mq [get]
func HealthMQ(c *gin.Context) {
	mqc := ctxPkg.GetMQClient(c.Request.Context())
	if mqc == nil {
		notInitialized(c, "mq")
		return
	}

	checkHealth(c, "mq", string(mqc.Type()), mqc.Ping)
}

// HealthS3 对象存储健康检查，未启用时返回 disabled.
//
//	@Summary	S3 健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	types.HealthStatus
//	@Failure	503	{object}	types.HealthStatus
//	@Router		/api/health/s3 [get]
func HealthS3(c *gin.Context) {
	s3c := ctxPkg.GetS3Client(c.Request.Context())
	if s3c == nil || s3c.Client == nil {
		c.JSON(http.StatusOK, types.HealthStatus{Component: "s3", Status: statusDisabled})
		return
	}

	checkHealth(c, "s3", "minio", s3c.HealthCheck)
}
