package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yeisme/pixels/pkg/configs"
	"github.com/yeisme/pixels/pkg/internal/service"
	"github.com/yeisme/pixels/pkg/internal/storage/s3"
	"github.com/yeisme/pixels/pkg/internal/types"
)

func TestSignParams(t *testing.T) {
	got := service.SignParams(map[string]string{
		"timestamp": "1700000000",
		"source":    "uw",
		"folder":    "pixels",
	}, "s3cr3t")

	if want := "0e8582acd5b5125380736c278e764e83d60c9da5"; got != want {
		t.Errorf("signature = %s, want %s", got, want)
	}
}

func TestSign(t *testing.T) {
	svc := service.NewUploadService(configs.UploadConfig{CloudName: "demo", APIKey: "key", APISecret: "s3cr3t"}, nil, 0)

	resp, err := svc.Sign(map[string]any{
		"timestamp": float64(1700000000),
		"source":    "uw",
		"folder":    "pixels",
		"api_key":   "ignored",
		"file":      "ignored",
	})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if resp.Signature != "0e8582acd5b5125380736c278e764e83d60c9da5" {
		t.Errorf("signature = %s", resp.Signature)
	}

	if resp.APIKey != "key" || resp.CloudName != "demo" || resp.Timestamp != "1700000000" {
		t.Errorf("unexpected response %+v", resp)
	}

	if _, err := svc.Sign(map[string]any{"timestamp": "1"}); !errors.Is(err, service.ErrMissingParams) {
		t.Errorf("expected ErrMissingParams, got %v", err)
	}
}

func TestSign_Disabled(t *testing.T) {
	svc := service.NewUploadService(configs.UploadConfig{}, nil, 0)

	if _, err := svc.Sign(map[string]any{"timestamp": "1", "source": "uw"}); !errors.Is(err, service.ErrSigningDisabled) {
		t.Errorf("expected ErrSigningDisabled, got %v", err)
	}
}

type fakePresigner struct {
	key string
}

func (f *fakePresigner) PresignUpload(_ context.Context, key, contentType string, maxBytes int64) (*s3.PresignedUpload, error) {
	f.key = key

	return &s3.PresignedUpload{
		URL:       "https://s3.example/gallery",
		FormData:  map[string]string{"key": key, "Content-Type": contentType},
		ObjectKey: key,
		ImageURL:  "https://cdn.example/" + key,
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil
}

func (f *fakePresigner) KeyPrefix() string { return "images/" }

func TestPresign(t *testing.T) {
	p := &fakePresigner{}
	svc := service.NewUploadService(configs.UploadConfig{}, p, 1024)

	resp, err := svc.Presign(context.Background(), types.PresignUploadRequest{
		FileName: "Photo.PNG", ContentType: "image/png", Size: 100,
	})
	if err != nil {
		t.Fatalf("Presign: %v", err)
	}

	if !strings.HasPrefix(resp.ObjectKey, "images/") || !strings.HasSuffix(resp.ObjectKey, ".png") {
		t.Errorf("unexpected object key %q", resp.ObjectKey)
	}

	if resp.ImageURL != "https://cdn.example/"+p.key {
		t.Errorf("unexpected image url %q", resp.ImageURL)
	}

	if _, err := svc.Presign(context.Background(), types.PresignUploadRequest{
		FileName: "big.png", ContentType: "image/png", Size: 4096,
	}); !errors.Is(err, service.ErrValidation) {
		t.Errorf("expected ErrValidation for oversize, got %v", err)
	}
}

func TestPresign_Disabled(t *testing.T) {
	svc := service.NewUploadService(configs.UploadConfig{}, nil, 0)

	if _, err := svc.Presign(context.Background(), types.PresignUploadRequest{FileName: "a.png", ContentType: "image/png"}); !errors.Is(err, service.ErrUploadDisabled) {
		t.Errorf("expected ErrUploadDisabled, got %v", err)
	}
}
