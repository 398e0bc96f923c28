// Package model 定义持久化模型与仓储层共享的查询类型.
package model

import (
	crand "crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid"
	"gorm.io/gorm"
)

// ErrImageNotFound 图片不存在.
var ErrImageNotFound = errors.New("image not found")

// Image 图片目录记录.
type Image struct {
	ID       string   `gorm:"primaryKey;size:26"                  json:"_id"`
	Title    string   `gorm:"size:512;not null"                   json:"title"`
	ImageURL string   `gorm:"column:image_url;type:text;not null" json:"imageURL"`
	Tags     []string `gorm:"serializer:json;type:text"           json:"tags"`
	// TagsText 小写、空格连接的标签文本，仅供关键字搜索
	TagsText string `gorm:"column:tags_text;type:text;not null;default:''" json:"-"`
	// 计数器只能通过原子自增修改
	Likes     int64     `gorm:"not null;default:0;check:chk_images_likes,likes >= 0" json:"likes"`
	Views     int64     `gorm:"not null;default:0;check:chk_images_views,views >= 0" json:"views"`
	CreatedAt time.Time `gorm:"index"                                                json:"createdAt"`
}

// TableName 表名.
func (Image) TableName() string { return "images" }

// BeforeCreate 分配 ID 并补齐默认值.
func (i *Image) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = NewImageID(time.Now())
	}

	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	} else {
		i.CreatedAt = i.CreatedAt.UTC()
	}

	if i.Tags == nil {
		i.Tags = []string{}
	}

	i.TagsText = TagsText(i.Tags)

	return nil
}

// TagsText 把标签规整为搜索文本.
func TagsText(tags []string) string {
	return strings.ToLower(strings.Join(tags, " "))
}

var (
	entropyMu   sync.Mutex
	ulidEntropy = ulid.Monotonic(crand.Reader, 0)
)

// NewImageID 生成单调递增的 ULID，同一毫秒内也保持有序.
func NewImageID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), ulidEntropy).String()
}

// ImageFilter 列表过滤条件，零值表示不过滤.
type ImageFilter struct {
	// Search 按空白拆分的关键字，任一命中标题或标签即可
	Search string
	// Tags 命中任一标签即可
	Tags []string
}

// ImageSort 列表排序方式.
type ImageSort string

const (
	SortNewest  ImageSort = "newest"
	SortPopular ImageSort = "popular"
	SortHot     ImageSort = "hot"
)

// Counter 可原子修改的计数字段.
type Counter string

const (
	CounterLikes Counter = "likes"
	CounterViews Counter = "views"
)

// Valid 是否为允许的计数字段.
func (c Counter) Valid() bool {
	return c == CounterLikes || c == CounterViews
}

// CatalogSummary 目录汇总.
type CatalogSummary struct {
	Images int64 `json:"images"`
	Likes  int64 `json:"likes"`
	Views  int64 `json:"views"`
}
