// Package s3 封装 MinIO 客户端，为浏览器直传图片签发预签名 POST 表单.
package s3

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/pixels/pkg/configs"
	nlog "github.com/yeisme/pixels/pkg/log"
)

// ErrDisabled 未启用对象存储.
var ErrDisabled = errors.New("s3: object storage disabled")

// Client 包装 MinIO 客户端.
type Client struct {
	*minio.Client
	cfg configs.S3Config
}

// PresignedUpload 预签名直传表单.
type PresignedUpload struct {
	URL       string            `json:"url"`
	FormData  map[string]string `json:"form_data"`
	ObjectKey string            `json:"object_key"`
	ImageURL  string            `json:"image_url"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// New 初始化 MinIO 客户端；EnsureBucket 为 true 时检查并创建 bucket.
func New(ctx context.Context, cfg *configs.S3Config) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	c := *cfg
	endpoint := c.Endpoint

	// 允许传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		c.Endpoint = u.Host

		if u.Scheme == "https" {
			c.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKeyID, c.SecretAccessKey, ""),
		Secure: c.UseSSL,
		Region: c.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo(configs.AppName, configs.AppVersion)

	if c.EnsureBucket {
		if err := ensureBucket(ctx, cli, c.Bucket, c.Region); err != nil {
			return nil, err
		}
	}

	nlog.Logger().Info().Str("endpoint", c.Endpoint).Str("bucket", c.Bucket).Msg("s3 client initialized")

	return &Client{Client: cli, cfg: c}, nil
}

func ensureBucket(ctx context.Context, cli *minio.Client, bucket, region string) error {
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}

	if exists {
		return nil
	}

	if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}

	nlog.Logger().Info().Str("bucket", bucket).Msg("bucket created")

	return nil
}

// PresignUpload 为指定对象键签发 POST 策略，限制内容类型与大小.
func (c *Client) PresignUpload(ctx context.Context, key, contentType string, maxBytes int64) (*PresignedUpload, error) {
	expiry := c.cfg.PresignExpiry
	if expiry <= 0 {
		expiry = configs.DefaultS3PresignExpiry
	}

	if maxBytes <= 0 || (c.cfg.MaxUploadBytes > 0 && maxBytes > c.cfg.MaxUploadBytes) {
		maxBytes = c.cfg.MaxUploadBytes
	}

	expiresAt := time.Now().UTC().Add(expiry)

	policy := minio.NewPostPolicy()
	if err := policy.SetBucket(c.cfg.Bucket); err != nil {
		return nil, err
	}

	if err := policy.SetKey(key); err != nil {
		return nil, err
	}

	if err := policy.SetExpires(expiresAt); err != nil {
		return nil, err
	}

	if err := policy.SetContentType(contentType); err != nil {
		return nil, err
	}

	if maxBytes > 0 {
		if err := policy.SetContentLengthRange(1, maxBytes); err != nil {
			return nil, err
		}
	}

	u, form, err := c.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return nil, fmt.Errorf("presign post policy: %w", err)
	}

	return &PresignedUpload{
		URL:       u.String(),
		FormData:  form,
		ObjectKey: key,
		ImageURL:  c.cfg.ObjectURL(key),
		ExpiresAt: expiresAt,
	}, nil
}

// KeyPrefix 返回对象键前缀（保证以 / 结尾或为空）.
func (c *Client) KeyPrefix() string {
	p := strings.TrimLeft(c.cfg.KeyPrefix, "/")
	if p != "" && !strings.HasSuffix(p, "/") {
		p += "/"
	}

	return p
}

// HealthCheck 通过检查 bucket 是否存在验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.BucketExists(ctx, c.cfg.Bucket)

	return err
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (c *Client) Close() error {
	return nil
}

// Config 返回客户端使用的配置副本.
func (c *Client) Config() configs.S3Config {
	return c.cfg
}
