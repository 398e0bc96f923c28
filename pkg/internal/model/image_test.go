package model_test

import (
	"testing"
	"time"

	"github.com/yeisme/pixels/pkg/internal/model"
)

func TestNewImageID_Monotonic(t *testing.T) {
	now := time.Now()

	prev := model.NewImageID(now)
	for range 100 {
		next := model.NewImageID(now)
		if next <= prev {
			t.Fatalf("ids not increasing: %s then %s", prev, next)
		}

		prev = next
	}

	if len(prev) != 26 {
		t.Errorf("unexpected id length %d", len(prev))
	}
}

func TestBeforeCreate_Defaults(t *testing.T) {
	img := model.Image{Title: "a", ImageURL: "http://x/a.jpg"}
	if err := img.BeforeCreate(nil); err != nil {
		t.Fatal(err)
	}

	if img.ID == "" || img.CreatedAt.IsZero() || img.CreatedAt.Location() != time.UTC {
		t.Errorf("defaults not applied: %+v", img)
	}

	if img.Tags == nil || len(img.Tags) != 0 {
		t.Errorf("tags should default to empty slice, got %#v", img.Tags)
	}

	local := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	kept := model.Image{ID: "fixed", CreatedAt: local, Tags: []string{"t"}}
	_ = kept.BeforeCreate(nil)

	if kept.ID != "fixed" || !kept.CreatedAt.Equal(local) || kept.CreatedAt.Location() != time.UTC {
		t.Errorf("existing values should be kept: %+v", kept)
	}
}

func TestBeforeCreate_TagsText(t *testing.T) {
	img := model.Image{Title: "a", ImageURL: "http://x/a.jpg", Tags: []string{"R&B", "Night Sky"}}
	_ = img.BeforeCreate(nil)

	if img.TagsText != "r&b night sky" {
		t.Errorf("TagsText = %q", img.TagsText)
	}

	empty := model.Image{Title: "b", ImageURL: "http://x/b.jpg"}
	_ = empty.BeforeCreate(nil)

	if empty.TagsText != "" {
		t.Errorf("untagged image should have empty TagsText, got %q", empty.TagsText)
	}
}

func TestCounter_Valid(t *testing.T) {
	if !model.CounterLikes.Valid() || !model.CounterViews.Valid() {
		t.Error("likes and views must be valid counters")
	}

	if model.Counter("title").Valid() {
		t.Error("title must not be a counter")
	}
}
