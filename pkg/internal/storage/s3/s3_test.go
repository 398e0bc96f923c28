package s3_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yeisme/pixels/pkg/configs"
	"github.com/yeisme/pixels/pkg/internal/storage/s3"
)

func testConfig() *configs.S3Config {
	return &configs.S3Config{
		Enabled:         true,
		Endpoint:        "http://minio.local:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		Bucket:          "pixels",
		Region:          "us-east-1",
		KeyPrefix:       "images",
		PresignExpiry:   10 * time.Minute,
		MaxUploadBytes:  1 << 20,
	}
}

func TestNew_Disabled(t *testing.T) {
	if _, err := s3.New(context.Background(), &configs.S3Config{}); !errors.Is(err, s3.ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

// 指定 Region 时预签名不需要访问服务端.
func TestPresignUpload(t *testing.T) {
	client, err := s3.New(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if client.KeyPrefix() != "images/" {
		t.Errorf("unexpected key prefix %q", client.KeyPrefix())
	}

	up, err := client.PresignUpload(context.Background(), "images/a.png", "image/png", 0)
	if err != nil {
		t.Fatalf("PresignUpload: %v", err)
	}

	if !strings.HasPrefix(up.URL, "http://minio.local:9000/pixels") {
		t.Errorf("unexpected url %q", up.URL)
	}

	if up.FormData["key"] != "images/a.png" {
		t.Errorf("expected key in form data, got %v", up.FormData)
	}

	if up.FormData["policy"] == "" || up.FormData["x-amz-signature"] == "" {
		t.Errorf("expected signed policy, got %v", up.FormData)
	}

	if up.ImageURL != "http://minio.local:9000/pixels/images/a.png" {
		t.Errorf("unexpected image url %q", up.ImageURL)
	}

	if d := time.Until(up.ExpiresAt); d <= 9*time.Minute || d > 10*time.Minute {
		t.Errorf("unexpected expiry %v", up.ExpiresAt)
	}
}
