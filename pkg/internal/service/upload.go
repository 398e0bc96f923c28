package service

import (
	"context"
	"crypto/sha1" //nolint:gosec // 图床签名协议规定使用 SHA-1
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yeisme/pixels/pkg/configs"
	"github.com/yeisme/pixels/pkg/internal/model"
	"github.com/yeisme/pixels/pkg/internal/storage/s3"
	"github.com/yeisme/pixels/pkg/internal/types"
)

var (
	// ErrSigningDisabled 未配置签名密钥.
	ErrSigningDisabled = errors.New("upload signing is not configured")
	// ErrUploadDisabled 未启用对象存储直传.
	ErrUploadDisabled = s3.ErrDisabled
	// ErrMissingParams 签名请求缺少 timestamp 或 source.
	ErrMissingParams = errors.New("missing params")
)

// unsignedParams 不参与签名的参数.
var unsignedParams = map[string]struct{}{
	"file": {}, "cloud_name": {}, "resource_type": {}, "api_key": {}, "signature": {},
}

// Presigner 生成对象存储直传表单，由 *s3.Client 实现.
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string, maxBytes int64) (*s3.PresignedUpload, error)
	KeyPrefix() string
}

// UploadService 上传辅助：外部图床签名与对象存储直传.
type UploadService struct {
	cfg       configs.UploadConfig
	presigner Presigner
	maxBytes  int64
	now       func() time.Time
}

// NewUploadService presigner 为 nil 时直传接口不可用.
func NewUploadService(cfg configs.UploadConfig, presigner Presigner, maxBytes int64) *UploadService {
	return &UploadService{cfg: cfg, presigner: presigner, maxBytes: maxBytes, now: time.Now}
}

// Sign 对参数签名：按键排序拼接为 k=v&k=v，末尾追加密钥后取 SHA-1.
func (s *UploadService) Sign(params map[string]any) (types.SignUploadResponse, error) {
	if !s.cfg.SigningEnabled() {
		return types.SignUploadResponse{}, ErrSigningDisabled
	}

	flat := make(map[string]string, len(params))
	for k, v := range params {
		if _, skip := unsignedParams[k]; skip {
			continue
		}

		if str := paramString(v); str != "" {
			flat[k] = str
		}
	}

	if flat["timestamp"] == "" || flat["source"] == "" {
		return types.SignUploadResponse{}, ErrMissingParams
	}

	return types.SignUploadResponse{
		Signature: SignParams(flat, s.cfg.APISecret),
		APIKey:    s.cfg.APIKey,
		CloudName: s.cfg.CloudName,
		Timestamp: flat["timestamp"],
	}, nil
}

// SignParams 计算图床签名.
func SignParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}

		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}

	b.WriteString(secret)

	sum := sha1.Sum([]byte(b.String()))

	return hex.EncodeToString(sum[:])
}

// paramString 把 JSON 值转成签名用的字符串，数组以逗号连接.
func paramString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := paramString(item); s != "" {
				parts = append(parts, s)
			}
		}

		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}

// Presign 生成对象存储直传表单，对象键形如 <prefix>2024/05/01/<ULID>.png.
func (s *UploadService) Presign(ctx context.Context, req types.PresignUploadRequest) (*types.PresignUploadResponse, error) {
	if s.presigner == nil {
		return nil, ErrUploadDisabled
	}

	if s.maxBytes > 0 && req.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: size exceeds %d bytes", ErrValidation, s.maxBytes)
	}

	now := s.now().UTC()
	ext := strings.ToLower(path.Ext(strings.TrimSpace(req.FileName)))
	key := s.presigner.KeyPrefix() + now.Format("2006/01/02/") + model.NewImageID(now) + ext

	p, err := s.presigner.PresignUpload(ctx, key, req.ContentType, s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &types.PresignUploadResponse{
		URL:       p.URL,
		FormData:  p.FormData,
		ObjectKey: p.ObjectKey,
		ImageURL:  p.ImageURL,
		ExpiresAt: p.ExpiresAt,
	}, nil
}
