package types

import "time"

// SignUploadResponse 外部图床直传签名结果.
type SignUploadResponse struct {
	Signature string `json:"signature"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Timestamp string `json:"timestamp"`
}

// PresignUploadRequest 对象存储直传请求.
type PresignUploadRequest struct {
	FileName    string `json:"file_name"    rule:"notblank,max=255"`
	ContentType string `json:"content_type" rule:"required,startswith=image/"`
	Size        int64  `json:"size"         rule:"min=0"`
}

// PresignUploadResponse 对象存储直传表单.
type PresignUploadResponse struct {
	URL       string            `json:"url"`
	FormData  map[string]string `json:"form_data"`
	ObjectKey string            `json:"object_key"`
	ImageURL  string            `json:"image_url"`
	ExpiresAt time.Time         `json:"expires_at"`
}
