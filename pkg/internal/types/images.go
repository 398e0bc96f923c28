package types

import (
	"bytes"
	"errors"
	"strings"

	"github.com/bytedance/sonic"
)

// Sort 取值.
const (
	SortPopular = "popular"
	SortHot     = "hot"
	SortNewest  = "newest"
)

var errStringList = errors.New("expected a string or an array of strings")

// StringList 兼容单个字符串或字符串数组的 JSON 字段，解码时去掉首尾空白.
type StringList []string

// UnmarshalJSON 接受 "a" 或 ["a","b"]，null 解码为空列表.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*l = StringList{}

		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}

		*l = StringList{strings.TrimSpace(s)}

		return nil
	case len(data) > 0 && data[0] == '[':
		var items []string
		if err := sonic.Unmarshal(data, &items); err != nil {
			return errStringList
		}

		out := make(StringList, len(items))
		for i, s := range items {
			out[i] = strings.TrimSpace(s)
		}

		*l = out

		return nil
	default:
		return errStringList
	}
}

// CreateImagesRequest 新建图片请求，imageURLs 中每个地址生成一条记录.
type CreateImagesRequest struct {
	Title     string     `json:"title"     rule:"notblank"`
	Tags      StringList `json:"tags"`
	ImageURLs StringList `json:"imageURLs" rule:"required,min=1,dive,notblank,url"`
}

// ListImagesRequest 图片列表查询参数.
type ListImagesRequest struct {
	Search string   `form:"search"`
	Tags   []string `form:"tags"`
	SortBy string   `form:"sortBy"`
}
