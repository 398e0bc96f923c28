// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：px.<域>.<动作>，尽量稳定且向后兼容.
// 域：image(图片目录)；动作使用过去式，表示已经发生的事实.

const (
	// 图片目录领域.
	TopicImageCreated = "px.image.created" // 新图片记录已写入目录（批量创建时每条记录一个事件）
	TopicImageViewed  = "px.image.viewed"  // 浏览数 +1
	TopicImageLiked   = "px.image.liked"   // 点赞数 +1
	TopicImageUnliked = "px.image.unliked" // 取消点赞（点赞数已为 0 时也会发布，Value 不变）
	TopicImageDeleted = "px.image.deleted" // 图片记录已删除
)

// ImageTopics 图片目录相关主题集合，消费者按此订阅.
var ImageTopics = []string{
	TopicImageCreated,
	TopicImageViewed,
	TopicImageLiked,
	TopicImageUnliked,
	TopicImageDeleted,
}
