package handle

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/pixels/pkg/internal/service"
	"github.com/yeisme/pixels/pkg/internal/types"
)

// Uploader 直传签名服务，由 service.UploadService 实现.
type Uploader interface {
	Sign(params map[string]any) (types.SignUploadResponse, error)
	Presign(ctx context.Context, req types.PresignUploadRequest) (*types.PresignUploadResponse, error)
}

// UploadHandlers 直传相关处理器.
type UploadHandlers struct {
	svc Uploader
}

// NewUploadHandlers 创建处理器.
func NewUploadHandlers(svc Uploader) *UploadHandlers {
	return &UploadHandlers{svc: svc}
}

// Sign 为外部图床上传组件签名.
//
//	@Summary		图床上传签名
//	@Description	按键排序拼接参数并追加密钥后计算 SHA-1，必须包含 timestamp 与 source
//	@Tags			上传
//	@Accept			json
//	@Produce		json
//	@Param			params	body		map[string]any	true	"待签名参数"
//	@Success		200		{object}	types.Response{data=types.SignUploadResponse}
//	@Failure		400		{object}	types.Response
//	@Failure		503		{object}	types.Response
//	@Router			/api/uploads/sign [post]
func (h *UploadHandlers) Sign() gin.HandlerFunc {
	const missing = "Missing params"

	return func(c *gin.Context) {
		var params map[string]any
		if err := c.ShouldBindJSON(&params); err != nil {
			c.JSON(http.StatusBadRequest, types.Fail(missing, err))
			return
		}

		resp, err := h.svc.Sign(params)

		switch {
		case errors.Is(err, service.ErrMissingParams):
			c.JSON(http.StatusBadRequest, types.Fail(missing, err))
		case errors.Is(err, service.ErrSigningDisabled):
			c.JSON(http.StatusServiceUnavailable, types.Fail("Upload signing unavailable.", err))
		case err != nil:
			fail(c, "Failed to sign upload.", err)
		default:
			c.JSON(http.StatusOK, types.OK("Upload signed successfully.", resp))
		}
	}
}

// Presign 生成对象存储直传表单.
//
//	@Summary	对象存储直传
//	@Tags		上传
//	@Accept		json
//	@Produce	json
//	@Param		file	body		types.PresignUploadRequest	true	"文件信息"
//	@Success	200		{object}	types.Response{data=types.PresignUploadResponse}
//	@Failure	400		{object}	types.Response
//	@Failure	500		{object}	types.Response
//	@Failure	503		{object}	types.Response
//	@Router		/api/uploads/presign [post]
func (h *UploadHandlers) Presign() gin.HandlerFunc {
	const failMsg = "Failed to presign upload."

	return func(c *gin.Context) {
		var req types.PresignUploadRequest
		if !bindJSON(c, &req, failMsg) {
			return
		}

		resp, err := h.svc.Presign(c.Request.Context(), req)
		if errors.Is(err, service.ErrUploadDisabled) {
			c.JSON(http.StatusServiceUnavailable, types.Fail("Object storage unavailable.", err))
			return
		}

		if err != nil {
			fail(c, failMsg, err)
			return
		}

		c.JSON(http.StatusOK, types.OK("Upload presigned successfully.", resp))
	}
}
