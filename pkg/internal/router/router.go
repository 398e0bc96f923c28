// Package router 把路径与处理器绑定到 gin 引擎，处理器实现由 pkg/internal/handle 注入.
package router

import (
	"slices"

	"github.com/gin-gonic/gin"
)

// ImageHandlers 图片目录处理器.
type ImageHandlers interface {
	Create() gin.HandlerFunc
	List() gin.HandlerFunc
	View() gin.HandlerFunc
	Like() gin.HandlerFunc
	Unlike() gin.HandlerFunc
	Delete() gin.HandlerFunc
	Stats() gin.HandlerFunc
}

// UploadHandlers 直传签名处理器.
type UploadHandlers interface {
	Sign() gin.HandlerFunc
	Presign() gin.HandlerFunc
}

// RegisterImages 绑定图片路由，listMW 只作用于列表查询（如响应缓存）.
// 假定上层传入 g := r.Group("/api")：
//
//	POST   /images             -> Create
//	GET    /images             -> List
//	GET    /images/:id/view    -> View
//	PUT    /images/:id/like    -> Like
//	PUT    /images/:id/unlike  -> Unlike
//	DELETE /images/:id         -> Delete
//	GET    /stats              -> Stats
func RegisterImages(g *gin.RouterGroup, h ImageHandlers, listMW ...gin.HandlerFunc) {
	images := g.Group("/images")
	{
		images.POST("", h.Create())
		images.GET("", append(slices.Clone(listMW), h.List())...)
		images.GET("/:id/view", h.View())
		images.PUT("/:id/like", h.Like())
		images.PUT("/:id/unlike", h.Unlike())
		images.DELETE("/:id", h.Delete())
	}

	g.GET("/stats", h.Stats())
}

// RegisterUploads 绑定直传签名路由.
func RegisterUploads(g *gin.RouterGroup, h UploadHandlers) {
	uploads := g.Group("/uploads")
	{
		uploads.POST("/sign", h.Sign())
		uploads.POST("/presign", h.Presign())
	}
}
