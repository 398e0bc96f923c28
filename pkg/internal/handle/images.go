package handle

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/pixels/pkg/internal/model"
	"github.com/yeisme/pixels/pkg/internal/types"
)

// Catalog 图片目录服务，由 service.ImageService 实现.
type Catalog interface {
	CreateImages(ctx context.Context, req types.CreateImagesRequest) ([]model.Image, error)
	ListImages(ctx context.Context, req types.ListImagesRequest) ([]model.Image, error)
	RecordView(ctx context.Context, id string) (*model.Image, error)
	RecordLike(ctx context.Context, id string) (*model.Image, error)
	RemoveLike(ctx context.Context, id string) (*model.Image, error)
	DeleteImage(ctx context.Context, id string) (*model.Image, error)
	Stats(ctx context.Context) (model.CatalogSummary, error)
}

// ImageHandlers 图片目录的 HTTP 处理器集合.
type ImageHandlers struct {
	svc Catalog
}

// NewImageHandlers 创建处理器.
func NewImageHandlers(svc Catalog) *ImageHandlers {
	return &ImageHandlers{svc: svc}
}

// Create 批量创建图片记录，每个地址一条.
//
//	@Summary		创建图片
//	@Description	imageURLs 与 tags 可为字符串或字符串数组，每个地址生成一条共享标题与标签的记录
//	@Tags			图片
//	@Accept			json
//	@Produce		json
//	@Param			images	body		types.CreateImagesRequest	true	"图片信息"
//	@Success		201		{object}	types.Response{data=[]model.Image}
//	@Failure		400		{object}	types.Response
//	@Failure		500		{object}	types.Response
//	@Router			/api/images [post]
func (h *ImageHandlers) Create() gin.HandlerFunc {
	const failMsg = "Failed to create images."

	return func(c *gin.Context) {
		var req types.CreateImagesRequest
		if !bindJSON(c, &req, failMsg) {
			return
		}

		images, err := h.svc.CreateImages(c.Request.Context(), req)
		if err != nil {
			fail(c, failMsg, err)
			return
		}

		msg := "Image created successfully."
		if len(images) > 1 {
			msg = "Images created successfully."
		}

		c.JSON(http.StatusCreated, types.OK(msg, images))
	}
}

// List 查询图片，支持关键字、标签与排序.
//
//	@Summary	图片列表
//	@Tags		图片
//	@Produce	json
//	@Param		search	query		string		false	"关键字，空白分隔的任一词命中标题或标签"
//	@Param		tags	query		[]string	false	"标签，可重复或逗号分隔，命中任一即可"
//	@Param		sortBy	query		string		false	"排序"	Enums(newest, popular, hot)
//	@Success	200		{object}	types.Response{data=[]model.Image}
//	@Failure	500		{object}	types.Response
//	@Router		/api/images [get]
func (h *ImageHandlers) List() gin.HandlerFunc {
	const failMsg = "Failed to fetch images."

	return func(c *gin.Context) {
		req := types.ListImagesRequest{
			Search: c.Query("search"),
			Tags:   splitTags(c.QueryArray("tags")),
			SortBy: c.Query("sortBy"),
		}

		images, err := h.svc.ListImages(c.Request.Context(), req)
		if err != nil {
			fail(c, failMsg, err)
			return
		}

		c.JSON(http.StatusOK, types.OK("Images fetched successfully.", images))
	}
}

// View 浏览数加一并返回最新记录.
//
//	@Summary	记录浏览
//	@Tags		图片
//	@Produce	json
//	@Param		id	path		string	true	"图片 ID"
//	@Success	200	{object}	types.Response{data=model.Image}
//	@Failure	404	{object}	types.Response
//	@Failure	500	{object}	types.Response
//	@Router		/api/images/{id}/view [get]
func (h *ImageHandlers) View() gin.HandlerFunc {
	return h.counter("Image view updated successfully.", "Failed to update image view.",
		func(ctx context.Context, id string) (*model.Image, error) { return h.svc.RecordView(ctx, id) })
}

// Like 点赞数加一.
//
//	@Summary	点赞
//	@Tags		图片
//	@Produce	json
//	@Param		id	path		string	true	"图片 ID"
//	@Success	200	{object}	types.Response{data=model.Image}
//	@Failure	404	{object}	types.Response
//	@Failure	500	{object}	types.Response
//	@Router		/api/images/{id}/like [put]
func (h *ImageHandlers) Like() gin.HandlerFunc {
	return h.counter("Image like updated successfully.", "Failed to update image like.",
		func(ctx context.Context, id string) (*model.Image, error) { return h.svc.RecordLike(ctx, id) })
}

// Unlike 取消点赞，点赞数为 0 时原样返回.
//
//	@Summary	取消点赞
//	@Tags		图片
//	@Produce	json
//	@Param		id	path		string	true	"图片 ID"
//	@Success	200	{object}	types.Response{data=model.Image}
//	@Failure	404	{object}	types.Response
//	@Failure	500	{object}	types.Response
//	@Router		/api/images/{id}/unlike [put]
func (h *ImageHandlers) Unlike() gin.HandlerFunc {
	return h.counter("Image like removed successfully.", "Failed to remove image like.",
		func(ctx context.Context, id string) (*model.Image, error) { return h.svc.RemoveLike(ctx, id) })
}

// Delete 删除图片并返回被删除的记录.
//
//	@Summary	删除图片
//	@Tags		图片
//	@Produce	json
//	@Param		id	path		string	true	"图片 ID"
//	@Success	200	{object}	types.Response{data=model.Image}
//	@Failure	404	{object}	types.Response
//	@Failure	500	{object}	types.Response
//	@Router		/api/images/{id} [delete]
func (h *ImageHandlers) Delete() gin.HandlerFunc {
	return h.counter("Image deleted successfully.", "Failed to delete image.",
		func(ctx context.Context, id string) (*model.Image, error) { return h.svc.DeleteImage(ctx, id) })
}

// Stats 目录汇总.
//
//	@Summary	目录统计
//	@Tags		统计
//	@Produce	json
//	@Success	200	{object}	types.Response{data=model.CatalogSummary}
//	@Failure	500	{object}	types.Response
//	@Router		/api/stats [get]
func (h *ImageHandlers) Stats() gin.HandlerFunc {
	return func(c *gin.Context) {
		sum, err := h.svc.Stats(c.Request.Context())
		if err != nil {
			fail(c, "Failed to fetch stats.", err)
			return
		}

		c.JSON(http.StatusOK, types.OK("Stats fetched successfully.", sum))
	}
}

// counter 处理按 id 操作单条记录的请求.
func (h *ImageHandlers) counter(okMsg, failMsg string, fn func(context.Context, string) (*model.Image, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, err := fn(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, failMsg, err)
			return
		}

		c.JSON(http.StatusOK, types.OK(okMsg, img))
	}
}

// splitTags 同时支持 ?tags=a&tags=b 与 ?tags=a,b.
func splitTags(raw []string) []string {
	var tags []string

	for _, item := range raw {
		for part := range strings.SplitSeq(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
	}

	return tags
}
