// Package handle 提供 HTTP 请求处理器，负责参数绑定、校验与响应封装.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/pixels/pkg/context"
	"github.com/yeisme/pixels/pkg/internal/service"
	"github.com/yeisme/pixels/pkg/internal/types"
	"github.com/yeisme/pixels/pkg/log"
	"github.com/yeisme/pixels/pkg/rule"
)

// msgNotFound 记录不存在时的统一提示.
const msgNotFound = "Image not found."

// bindJSON 解析请求体并执行 rule 校验，失败时直接写入 400 响应.
func bindJSON(c *gin.Context, req any, failMsg string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, failMsg, err)
		return false
	}

	if err := rule.ValidateStruct(req); err != nil {
		badRequest(c, failMsg, err)
		return false
	}

	return true
}

func badRequest(c *gin.Context, msg string, err error) {
	if verrs := rule.Errors(err); verrs != nil {
		err = verrs
	}

	l := ctxPkg.WithTraceContext(c.Request.Context(), *log.Logger())
	l.Warn().Err(err).Str("path", c.FullPath()).Msg("invalid request")

	c.JSON(http.StatusBadRequest, types.Fail(msg, err))
}

// fail 按错误类型映射状态码：校验失败 400，记录不存在 404，其余 500.
func fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		badRequest(c, msg, err)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, types.Fail(msgNotFound, err))
	default:
		l := ctxPkg.WithTraceContext(c.Request.Context(), *log.Logger())
		l.Error().Err(err).Str("path", c.FullPath()).Msg(msg)

		c.JSON(http.StatusInternalServerError, types.Fail(msg, err))
	}
}
