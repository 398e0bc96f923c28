package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/yeisme/pixels/pkg/configs"
	"github.com/yeisme/pixels/pkg/internal/model"
	"github.com/yeisme/pixels/pkg/internal/storage/db"
	"github.com/yeisme/pixels/pkg/internal/store"
)

func newStore(t *testing.T) *store.ImageStore {
	t.Helper()

	return newPooledStore(t, 1)
}

// newPooledStore 打开允许 conns 个并发连接的 SQLite 仓储.
func newPooledStore(t *testing.T, conns int) *store.ImageStore {
	t.Helper()

	client, err := db.New(context.Background(), &configs.DBConfig{
		Type:         configs.SQLite,
		Database:     filepath.Join(t.TempDir(), "catalog"),
		MaxOpenConns: conns,
		MaxIdleConns: conns,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	t.Cleanup(func() { _ = client.Close() })

	s := store.NewImageStore(client.GetDB())
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return s
}

func seed(t *testing.T, s *store.ImageStore, images ...model.Image) []model.Image {
	t.Helper()

	out, err := s.InsertMany(context.Background(), images)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	return out
}

func ids(images []model.Image) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = img.ID
	}

	return out
}

func sameIDs(t *testing.T, got []model.Image, want ...string) {
	t.Helper()

	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}

	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestInsertMany(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created := seed(t, s,
		model.Image{Title: "Sunset", ImageURL: "https://a.example/1.png", Tags: []string{"sky"}},
		model.Image{Title: "Sunset", ImageURL: "https://a.example/2.png", Tags: []string{"sky"}},
		model.Image{Title: "Plain", ImageURL: "https://a.example/3.png"},
	)

	if len(created) != 3 {
		t.Fatalf("expected 3 records, got %d", len(created))
	}

	seen := map[string]bool{}
	for _, img := range created {
		if len(img.ID) != 26 || seen[img.ID] {
			t.Errorf("bad or duplicate id %q", img.ID)
		}

		seen[img.ID] = true

		if img.Likes != 0 || img.Views != 0 {
			t.Errorf("counters should start at zero: %+v", img)
		}

		if !img.CreatedAt.Equal(created[0].CreatedAt) {
			t.Errorf("batch should share createdAt")
		}
	}

	if created[2].Tags == nil {
		t.Error("nil tags should default to empty list")
	}

	all, err := s.Find(ctx, model.ImageFilter{}, model.SortNewest)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	if len(all) != 3 {
		t.Fatalf("expected 3 stored, got %d", len(all))
	}

	for _, img := range all {
		if img.Tags == nil {
			t.Errorf("tags must decode as a list, got nil for %s", img.ID)
		}
	}
}

func TestInsertMany_Empty(t *testing.T) {
	s := newStore(t)

	out, err := s.InsertMany(context.Background(), nil)
	if err != nil || len(out) != 0 {
		t.Fatalf("InsertMany(nil) = %v, %v", out, err)
	}
}

func TestFind_SearchAndTags(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	imgs := seed(t, s,
		model.Image{Title: "Sunset over the Sea", ImageURL: "https://a.example/1.png", Tags: []string{"sea", "sky"}, CreatedAt: base},
		model.Image{Title: "Mountain", ImageURL: "https://a.example/2.png", Tags: []string{"seaside"}, CreatedAt: base.Add(time.Hour)},
		model.Image{Title: "City 100% night", ImageURL: "https://a.example/3.png", Tags: []string{"urban"}, CreatedAt: base.Add(2 * time.Hour)},
	)

	cases := []struct {
		name   string
		filter model.ImageFilter
		want   []string
	}{
		{name: "no filter", filter: model.ImageFilter{}, want: []string{imgs[2].ID, imgs[1].ID, imgs[0].ID}},
		{name: "case insensitive title", filter: model.ImageFilter{Search: "SUNSET"}, want: []string{imgs[0].ID}},
		{name: "terms are OR-ed", filter: model.ImageFilter{Search: "mountain  urban"}, want: []string{imgs[2].ID, imgs[1].ID}},
		{name: "search matches tags", filter: model.ImageFilter{Search: "seas"}, want: []string{imgs[1].ID}},
		{name: "percent is literal", filter: model.ImageFilter{Search: "100%"}, want: []string{imgs[2].ID}},
		{name: "underscore is literal", filter: model.ImageFilter{Search: "_"}, want: nil},
		{name: "exact tag", filter: model.ImageFilter{Tags: []string{"sea"}}, want: []string{imgs[0].ID}},
		{name: "any tag", filter: model.ImageFilter{Tags: []string{"urban", "seaside"}}, want: []string{imgs[2].ID, imgs[1].ID}},
		{name: "search and tags", filter: model.ImageFilter{Search: "sunset", Tags: []string{"urban"}}, want: nil},
		{name: "blank search", filter: model.ImageFilter{Search: "   "}, want: []string{imgs[2].ID, imgs[1].ID, imgs[0].ID}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Find(ctx, tc.filter, model.SortNewest)
			if err != nil {
				t.Fatalf("find: %v", err)
			}

			sameIDs(t, got, tc.want...)
		})
	}
}

func TestFind_SearchIgnoresTagEncoding(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	imgs := seed(t, s,
		model.Image{Title: "Sunset", ImageURL: "https://a.example/1.png", Tags: []string{"nature", "sky"}, CreatedAt: base},
		model.Image{Title: "Cat", ImageURL: "https://a.example/2.png", CreatedAt: base.Add(time.Hour)},
		model.Image{Title: "Music", ImageURL: "https://a.example/3.png", Tags: []string{"R&B", "<live>"}, CreatedAt: base.Add(2 * time.Hour)},
	)

	cases := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "bracket", search: "[", want: nil},
		{name: "quote", search: `"`, want: nil},
		{name: "comma", search: ",", want: nil},
		{name: "ampersand tag", search: "r&b", want: []string{imgs[2].ID}},
		{name: "angle brackets", search: "<live>", want: []string{imgs[2].ID}},
		{name: "tag word", search: "SKY", want: []string{imgs[0].ID}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Find(ctx, model.ImageFilter{Search: tc.search}, model.SortNewest)
			if err != nil {
				t.Fatalf("find: %v", err)
			}

			sameIDs(t, got, tc.want...)
		})
	}

	got, err := s.Find(ctx, model.ImageFilter{Tags: []string{"R&B"}}, model.SortNewest)
	if err != nil {
		t.Fatalf("find by tag: %v", err)
	}

	sameIDs(t, got, imgs[2].ID)
}

func TestFind_Sort(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	imgs := seed(t, s,
		model.Image{Title: "a", ImageURL: "https://a.example/a.png", CreatedAt: base},
		model.Image{Title: "b", ImageURL: "https://a.example/b.png", CreatedAt: base.Add(time.Hour)},
		model.Image{Title: "c", ImageURL: "https://a.example/c.png", CreatedAt: base.Add(time.Hour)},
	)

	bump := func(id string, field model.Counter, n int) {
		for range n {
			if _, err := s.IncrementField(ctx, id, field, 1); err != nil {
				t.Fatalf("increment: %v", err)
			}
		}
	}

	bump(imgs[0].ID, model.CounterLikes, 3)
	bump(imgs[1].ID, model.CounterLikes, 1)
	bump(imgs[1].ID, model.CounterViews, 5)
	bump(imgs[2].ID, model.CounterLikes, 1)
	bump(imgs[2].ID, model.CounterViews, 2)

	popular, err := s.Find(ctx, model.ImageFilter{}, model.SortPopular)
	if err != nil {
		t.Fatalf("find popular: %v", err)
	}

	sameIDs(t, popular, imgs[0].ID, imgs[1].ID, imgs[2].ID)

	hot, err := s.Find(ctx, model.ImageFilter{}, model.SortHot)
	if err != nil {
		t.Fatalf("find hot: %v", err)
	}

	// 同一时间先比 likes 再比 views
	sameIDs(t, hot, imgs[1].ID, imgs[2].ID, imgs[0].ID)

	newest, err := s.Find(ctx, model.ImageFilter{}, model.SortNewest)
	if err != nil {
		t.Fatalf("find newest: %v", err)
	}

	// 同一时间按 id 倒序
	sameIDs(t, newest, imgs[2].ID, imgs[1].ID, imgs[0].ID)
}

func TestIncrementField(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	img := seed(t, s, model.Image{Title: "t", ImageURL: "https://a.example/t.png"})[0]

	got, err := s.IncrementField(ctx, img.ID, model.CounterLikes, 1)
	if err != nil || got.Likes != 1 {
		t.Fatalf("like = %+v, %v", got, err)
	}

	got, err = s.IncrementField(ctx, img.ID, model.CounterLikes, -1)
	if err != nil || got.Likes != 0 {
		t.Fatalf("unlike = %+v, %v", got, err)
	}

	// 为零时减一不报错、不变为负数
	got, err = s.IncrementField(ctx, img.ID, model.CounterLikes, -1)
	if err != nil || got.Likes != 0 {
		t.Fatalf("unlike at zero = %+v, %v", got, err)
	}

	if !got.CreatedAt.Equal(img.CreatedAt) || got.Title != "t" {
		t.Errorf("other fields must be untouched: %+v", got)
	}

	if _, err := s.IncrementField(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", model.CounterViews, 1); !errors.Is(err, model.ErrImageNotFound) {
		t.Errorf("expected ErrImageNotFound, got %v", err)
	}

	if _, err := s.IncrementField(ctx, img.ID, model.Counter("title"), 1); !errors.Is(err, store.ErrInvalidCounter) {
		t.Errorf("expected ErrInvalidCounter, got %v", err)
	}
}

func TestIncrementField_Concurrent(t *testing.T) {
	s := newPooledStore(t, 8)
	ctx := context.Background()

	img := seed(t, s, model.Image{Title: "t", ImageURL: "https://a.example/t.png"})[0]

	const n = 25

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := s.IncrementField(ctx, img.ID, model.CounterViews, 1); err != nil {
				t.Errorf("increment: %v", err)
			}
		}()
	}

	wg.Wait()

	got, err := s.IncrementField(ctx, img.ID, model.CounterViews, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if got.Views != n {
		t.Errorf("views = %d, want %d", got.Views, n)
	}
}

func TestDeleteByID(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	imgs := seed(t, s,
		model.Image{Title: "keep", ImageURL: "https://a.example/k.png"},
		model.Image{Title: "drop", ImageURL: "https://a.example/d.png"},
	)

	deleted, err := s.DeleteByID(ctx, imgs[1].ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if deleted.ID != imgs[1].ID || deleted.Title != "drop" {
		t.Errorf("unexpected deleted record %+v", deleted)
	}

	if _, err := s.DeleteByID(ctx, imgs[1].ID); !errors.Is(err, model.ErrImageNotFound) {
		t.Errorf("second delete: expected ErrImageNotFound, got %v", err)
	}

	rest, _ := s.Find(ctx, model.ImageFilter{}, model.SortNewest)
	sameIDs(t, rest, imgs[0].ID)
}

func TestSummary(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	empty, err := s.Summary(ctx)
	if err != nil || empty != (model.CatalogSummary{}) {
		t.Fatalf("empty summary = %+v, %v", empty, err)
	}

	imgs := seed(t, s,
		model.Image{Title: "a", ImageURL: "https://a.example/a.png"},
		model.Image{Title: "b", ImageURL: "https://a.example/b.png"},
	)

	_, _ = s.IncrementField(ctx, imgs[0].ID, model.CounterLikes, 1)
	_, _ = s.IncrementField(ctx, imgs[1].ID, model.CounterViews, 1)
	_, _ = s.IncrementField(ctx, imgs[1].ID, model.CounterViews, 1)

	sum, err := s.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	want := model.CatalogSummary{Images: 2, Likes: 1, Views: 2}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}
}
