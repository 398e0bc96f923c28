package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// S3Config MinIO S3存储配置，用于客户端直传图片时签发预签名表单.
type S3Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	Bucket          string        `mapstructure:"bucket"            rule:"required"`
	Region          string        `mapstructure:"region"`
	PublicURL       string        `mapstructure:"public_url"        rule:"omitempty,url"` // 对外访问前缀，为空时使用 endpoint/bucket
	KeyPrefix       string        `mapstructure:"key_prefix"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"  rule:"min=0"`
	EnsureBucket    bool          `mapstructure:"ensure_bucket"` // 启动时检查并创建 bucket
}

const (
	DefaultS3Endpoint        = "localhost:9000" // 默认S3端点
	DefaultS3AccessKeyID     = "minioadmin"     // 默认访问密钥ID
	DefaultS3SecretAccessKey = "minioadmin"     // 默认秘密访问密钥
	DefaultS3UseSSL          = false            // 默认是否使用SSL
	DefaultS3Bucket          = "pixels"         // 默认存储桶名称
	DefaultS3Region          = "us-east-1"      // 默认区域
	DefaultS3KeyPrefix       = "images/"        // 默认对象键前缀
	DefaultS3PresignExpiry   = 15 * time.Minute // 预签名有效期
	DefaultS3MaxUploadBytes  = 20 * 1024 * 1024 // 单张图片上限 20MB
)

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// ObjectURL 返回对象的公开访问地址.
func (c *S3Config) ObjectURL(key string) string {
	if c.PublicURL != "" {
		return strings.TrimRight(c.PublicURL, "/") + "/" + key
	}

	return fmt.Sprintf("%s/%s/%s", c.GetEndpointURL(), c.Bucket, key)
}

// setDefaults 设置 S3 配置的默认值.
func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("s3.bucket", DefaultS3Bucket)
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.public_url", "")
	v.SetDefault("s3.key_prefix", DefaultS3KeyPrefix)
	v.SetDefault("s3.presign_expiry", DefaultS3PresignExpiry)
	v.SetDefault("s3.max_upload_bytes", DefaultS3MaxUploadBytes)
	v.SetDefault("s3.ensure_bucket", false)
}
