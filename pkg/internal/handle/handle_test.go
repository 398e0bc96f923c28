package handle_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/pixels/pkg/internal/handle"
	"github.com/yeisme/pixels/pkg/internal/model"
	"github.com/yeisme/pixels/pkg/internal/router"
	"github.com/yeisme/pixels/pkg/internal/service"
	"github.com/yeisme/pixels/pkg/internal/types"
)

type fakeCatalog struct {
	created  types.CreateImagesRequest
	listed   types.ListImagesRequest
	err      error
	unliked  string
	summary  model.CatalogSummary
	deleteID string
}

func (f *fakeCatalog) CreateImages(_ context.Context, req types.CreateImagesRequest) ([]model.Image, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}

	out := make([]model.Image, len(req.ImageURLs))
	for i, u := range req.ImageURLs {
		out[i] = model.Image{ID: fmt.Sprintf("id-%d", i), Title: req.Title, ImageURL: u, Tags: req.Tags}
	}

	return out, nil
}

func (f *fakeCatalog) ListImages(_ context.Context, req types.ListImagesRequest) ([]model.Image, error) {
	f.listed = req

	return []model.Image{}, f.err
}

func (f *fakeCatalog) RecordView(_ context.Context, id string) (*model.Image, error) {
	return f.one(id, 0, 1)
}

func (f *fakeCatalog) RecordLike(_ context.Context, id string) (*model.Image, error) {
	return f.one(id, 1, 0)
}

func (f *fakeCatalog) RemoveLike(_ context.Context, id string) (*model.Image, error) {
	f.unliked = id

	return f.one(id, 0, 0)
}

func (f *fakeCatalog) DeleteImage(_ context.Context, id string) (*model.Image, error) {
	f.deleteID = id

	return f.one(id, 0, 0)
}

func (f *fakeCatalog) Stats(context.Context) (model.CatalogSummary, error) {
	return f.summary, f.err
}

func (f *fakeCatalog) one(id string, likes, views int64) (*model.Image, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &model.Image{ID: id, Likes: likes, Views: views}, nil
}

type fakeUploader struct {
	err error
}

func (f *fakeUploader) Sign(params map[string]any) (types.SignUploadResponse, error) {
	if f.err != nil {
		return types.SignUploadResponse{}, f.err
	}

	return types.SignUploadResponse{Signature: "sig", Timestamp: fmt.Sprint(params["timestamp"])}, nil
}

func (f *fakeUploader) Presign(context.Context, types.PresignUploadRequest) (*types.PresignUploadResponse, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &types.PresignUploadResponse{URL: "http://s3.local/bucket"}, nil
}

func newEngine(cat *fakeCatalog, up *fakeUploader) *gin.Engine {
	gin.SetMode(gin.TestMode)

	e := gin.New()
	api := e.Group("/api")
	router.RegisterImages(api, handle.NewImageHandlers(cat))
	router.RegisterUploads(api, handle.NewUploadHandlers(up))

	return e
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Data    any    `json:"data"`
}

func do(t *testing.T, e *gin.Engine, method, target, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	var env envelope
	if err := sonic.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, target, err, w.Body.String())
	}

	return w.Code, env
}

func TestCreate_Messages(t *testing.T) {
	cat := &fakeCatalog{}
	e := newEngine(cat, &fakeUploader{})

	code, env := do(t, e, http.MethodPost, "/api/images",
		`{"title":"sunset","tags":"sky","imageURLs":"https://a.example/1.png"}`)
	if code != http.StatusCreated || env.Message != "Image created successfully." || !env.Success {
		t.Fatalf("single create: %d %+v", code, env)
	}

	if len(cat.created.Tags) != 1 || cat.created.Tags[0] != "sky" {
		t.Errorf("tags not normalized: %v", cat.created.Tags)
	}

	code, env = do(t, e, http.MethodPost, "/api/images",
		`{"title":"sunset","imageURLs":["https://a.example/1.png","https://a.example/2.png"]}`)
	if code != http.StatusCreated || env.Message != "Images created successfully." {
		t.Fatalf("batch create: %d %+v", code, env)
	}

	if items, ok := env.Data.([]any); !ok || len(items) != 2 {
		t.Errorf("expected 2 records, got %v", env.Data)
	}
}

func TestCreate_BadRequest(t *testing.T) {
	e := newEngine(&fakeCatalog{}, &fakeUploader{})

	cases := map[string]string{
		"malformed json": `{"title":`,
		"blank title":    `{"title":"  ","imageURLs":"https://a.example/1.png"}`,
		"missing urls":   `{"title":"x"}`,
		"invalid url":    `{"title":"x","imageURLs":["not a url"]}`,
		"wrong type":     `{"title":"x","imageURLs":42}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			code, env := do(t, e, http.MethodPost, "/api/images", body)
			if code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%+v)", code, env)
			}

			if env.Success || env.Message != "Failed to create images." || env.Error == "" {
				t.Errorf("unexpected envelope %+v", env)
			}
		})
	}
}

func TestCreate_ServiceErrors(t *testing.T) {
	cat := &fakeCatalog{err: fmt.Errorf("%w: title is required", service.ErrValidation)}
	e := newEngine(cat, &fakeUploader{})

	code, _ := do(t, e, http.MethodPost, "/api/images", `{"title":"x","imageURLs":"https://a.example/1.png"}`)
	if code != http.StatusBadRequest {
		t.Errorf("validation error status = %d", code)
	}

	cat.err = errors.New("disk full")

	code, env := do(t, e, http.MethodPost, "/api/images", `{"title":"x","imageURLs":"https://a.example/1.png"}`)
	if code != http.StatusInternalServerError || env.Error != "disk full" {
		t.Errorf("store error: %d %+v", code, env)
	}
}

func TestList_Query(t *testing.T) {
	cat := &fakeCatalog{}
	e := newEngine(cat, &fakeUploader{})

	code, env := do(t, e, http.MethodGet, "/api/images?search=cat&tags=a,b&tags=c&sortBy=hot", "")
	if code != http.StatusOK || env.Message != "Images fetched successfully." {
		t.Fatalf("list: %d %+v", code, env)
	}

	if cat.listed.Search != "cat" || cat.listed.SortBy != "hot" {
		t.Errorf("unexpected request %+v", cat.listed)
	}

	if strings.Join(cat.listed.Tags, "|") != "a|b|c" {
		t.Errorf("tags = %v", cat.listed.Tags)
	}

	cat.err = errors.New("boom")

	code, env = do(t, e, http.MethodGet, "/api/images", "")
	if code != http.StatusInternalServerError || env.Message != "Failed to fetch images." {
		t.Errorf("list failure: %d %+v", code, env)
	}
}

func TestSingleRecordRoutes(t *testing.T) {
	cat := &fakeCatalog{}
	e := newEngine(cat, &fakeUploader{})

	routes := []struct {
		method, path, ok, failMsg string
	}{
		{http.MethodGet, "/api/images/abc/view", "Image view updated successfully.", "Failed to update image view."},
		{http.MethodPut, "/api/images/abc/like", "Image like updated successfully.", "Failed to update image like."},
		{http.MethodPut, "/api/images/abc/unlike", "Image like removed successfully.", "Failed to remove image like."},
		{http.MethodDelete, "/api/images/abc", "Image deleted successfully.", "Failed to delete image."},
	}

	for _, r := range routes {
		cat.err = nil

		code, env := do(t, e, r.method, r.path, "")
		if code != http.StatusOK || env.Message != r.ok {
			t.Errorf("%s %s: %d %+v", r.method, r.path, code, env)
		}

		cat.err = service.ErrNotFound

		code, env = do(t, e, r.method, r.path, "")
		if code != http.StatusNotFound || env.Message != "Image not found." {
			t.Errorf("%s %s not found: %d %+v", r.method, r.path, code, env)
		}

		cat.err = errors.New("db down")

		code, env = do(t, e, r.method, r.path, "")
		if code != http.StatusInternalServerError || env.Message != r.failMsg || env.Error != "db down" {
			t.Errorf("%s %s failure: %d %+v", r.method, r.path, code, env)
		}
	}

	if cat.unliked != "abc" || cat.deleteID != "abc" {
		t.Errorf("path id not forwarded: %q %q", cat.unliked, cat.deleteID)
	}
}

func TestStats(t *testing.T) {
	cat := &fakeCatalog{summary: model.CatalogSummary{Images: 2, Likes: 3, Views: 4}}
	e := newEngine(cat, &fakeUploader{})

	code, env := do(t, e, http.MethodGet, "/api/stats", "")
	if code != http.StatusOK {
		t.Fatalf("stats: %d %+v", code, env)
	}

	data, ok := env.Data.(map[string]any)
	if !ok || data["images"] != float64(2) || data["likes"] != float64(3) || data["views"] != float64(4) {
		t.Errorf("unexpected data %v", env.Data)
	}
}

func TestUploads(t *testing.T) {
	up := &fakeUploader{}
	e := newEngine(&fakeCatalog{}, up)

	code, env := do(t, e, http.MethodPost, "/api/uploads/sign", `{"timestamp":1700000000,"source":"uw"}`)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("sign: %d %+v", code, env)
	}

	code, env = do(t, e, http.MethodPost, "/api/uploads/sign", `not json`)
	if code != http.StatusBadRequest || env.Message != "Missing params" {
		t.Errorf("sign malformed: %d %+v", code, env)
	}

	up.err = service.ErrMissingParams

	code, env = do(t, e, http.MethodPost, "/api/uploads/sign", `{}`)
	if code != http.StatusBadRequest || env.Message != "Missing params" {
		t.Errorf("sign missing: %d %+v", code, env)
	}

	up.err = service.ErrSigningDisabled

	if code, _ = do(t, e, http.MethodPost, "/api/uploads/sign", `{"timestamp":1,"source":"uw"}`); code != http.StatusServiceUnavailable {
		t.Errorf("sign disabled: %d", code)
	}

	up.err = service.ErrUploadDisabled

	body := `{"file_name":"a.png","content_type":"image/png","size":10}`
	if code, _ = do(t, e, http.MethodPost, "/api/uploads/presign", body); code != http.StatusServiceUnavailable {
		t.Errorf("presign disabled: %d", code)
	}

	up.err = nil

	if code, _ = do(t, e, http.MethodPost, "/api/uploads/presign", `{"file_name":"a.txt","content_type":"text/plain"}`); code != http.StatusBadRequest {
		t.Errorf("presign non-image: %d", code)
	}

	if code, env = do(t, e, http.MethodPost, "/api/uploads/presign", body); code != http.StatusOK || !env.Success {
		t.Errorf("presign: %d %+v", code, env)
	}
}
