package configs

import "github.com/spf13/viper"

// UploadConfig 外部图床（Cloudinary 兼容）直传签名配置.
// APISecret 为空时签名接口返回 503.
type UploadConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

// SigningEnabled 是否可以签名.
func (c *UploadConfig) SigningEnabled() bool {
	return c.APISecret != ""
}

func (c *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.cloud_name", "")
	v.SetDefault("upload.api_key", "")
	v.SetDefault("upload.api_secret", "")
}
