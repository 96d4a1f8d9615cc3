package relay

import (
	"context"
	"testing"
	"time"

	"igrelay/pkg/instagram"
)

func TestDeliverImageWithCaption(t *testing.T) {
	store, _ := newTestStore(t, testStateJSON)

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	store.SetCursor("acc1", base)
	store.SetLastProcessed("acc1", "p0")

	post := imagePost("p1", base.Add(10*time.Minute))
	post.Caption = "new drop"

	fetcher := &fakeFetcher{posts: map[string][]instagram.Post{"tok1": {post}}}
	messenger := &fakeMessenger{}

	engine := newTestEngine(store, fetcher, messenger)
	engine.RunTick(context.Background())

	sent := messenger.messages()
	if len(sent) != 2 {
		t.Fatalf("expected photo plus caption, got %d messages", len(sent))
	}
	if sent[0].kind != "photo" || sent[0].url != post.MediaURL {
		t.Errorf("unexpected first message: %+v", sent[0])
	}
	if sent[1].kind != "text" || sent[1].text != "new drop" {
		t.Errorf("unexpected caption message: %+v", sent[1])
	}
}

func TestDeliverImageWithoutCaptionSendsNoText(t *testing.T) {
	store, _ := newTestStore(t, testStateJSON)

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	store.SetCursor("acc1", base)
	store.SetLastProcessed("acc1", "p0")

	fetcher := &fakeFetcher{posts: map[string][]instagram.Post{
		"tok1": {imagePost("p1", base.Add(10 * time.Minute))},
	}}
	messenger := &fakeMessenger{}

	engine := newTestEngine(store, fetcher, messenger)
	engine.RunTick(context.Background())

	sent := messenger.messages()
	if len(sent) != 1 || sent[0].kind != "photo" {
		t.Errorf("expected a single photo message, got %+v", sent)
	}
}

func TestDeliverVideoWithThumbnail(t *testing.T) {
	store, _ := newTestStore(t, testStateJSON)

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	store.SetCursor("acc1", base)
	store.SetLastProcessed("acc1", "p0")

	post := instagram.Post{
		ID:           "v1",
		MediaType:    instagram.MediaTypeVideo,
		MediaURL:     "https://cdn.example/v1.mp4",
		ThumbnailURL: "https://cdn.example/v1.jpg",
		Timestamp:    instagram.Timestamp{Time: base.Add(10 * time.Minute)},
	}

	fetcher := &fakeFetcher{posts: map[string][]instagram.Post{"tok1": {post}}}
	messenger := &fakeMessenger{}

	engine := newTestEngine(store, fetcher, messenger)
	engine.RunTick(context.Background())

	sent := messenger.messages()
	if len(sent) != 1 || sent[0].kind != "video" || sent[0].url != "https://cdn.example/v1.mp4" {
		t.Errorf("expected a single video message, got %+v", sent)
	}
}

func TestDeliverAlbumSendsPhotoSubsetOnly(t *testing.T) {
	store, _ := newTestStore(t, testStateJSON)

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	store.SetCursor("acc1", base)
	store.SetLastProcessed("acc1", "p0")

	post := instagram.Post{
		ID:        "a1",
		MediaType: instagram.MediaTypeAlbum,
		Caption:   "summer set",
		Timestamp: instagram.Timestamp{Time: base.Add(10 * time.Minute)},
	}

	fetcher := &fakeFetcher{
		posts: map[string][]instagram.Post{"tok1": {post}},
		children: map[string][]instagram.Child{
			"a1": {
				{ID: "c1", MediaType: instagram.MediaTypeImage, MediaURL: "https://cdn.example/c1.jpg"},
				{ID: "c2", MediaType: instagram.MediaTypeVideo, MediaURL: "https://cdn.example/c2.mp4"},
				{ID: "c3", MediaType: instagram.MediaTypeImage, MediaURL: "https://cdn.example/c3.jpg"},
			},
		},
	}
	messenger := &fakeMessenger{}

	engine := newTestEngine(store, fetcher, messenger)
	engine.RunTick(context.Background())

	sent := messenger.messages()
	if len(sent) != 2 {
		t.Fatalf("expected media group plus caption, got %d messages", len(sent))
	}

	group := sent[0]
	if group.kind != "media_group" {
		t.Fatalf("expected media group first, got %+v", group)
	}
	if len(group.urls) != 2 {
		t.Fatalf("expected 2 photos in group, got %d", len(group.urls))
	}
	for _, url := range group.urls {
		if url == "https://cdn.example/c2.mp4" {
			t.Error("album video child must not appear in the media group")
		}
	}

	if sent[1].kind != "text" || sent[1].text != "summer set" {
		t.Errorf("unexpected caption message: %+v", sent[1])
	}
}

func TestDeliverAlbumWithOnlyVideosSendsCaptionOnly(t *testing.T) {
	store, _ := newTestStore(t, testStateJSON)

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	store.SetCursor("acc1", base)
	store.SetLastProcessed("acc1", "p0")

	post := instagram.Post{
		ID:        "a1",
		MediaType: instagram.MediaTypeAlbum,
		Caption:   "clips",
		Timestamp: instagram.Timestamp{Time: base.Add(10 * time.Minute)},
	}

	fetcher := &fakeFetcher{
		posts: map[string][]instagram.Post{"tok1": {post}},
		children: map[string][]instagram.Child{
			"a1": {
				{ID: "c1", MediaType: instagram.MediaTypeVideo, MediaURL: "https://cdn.example/c1.mp4"},
			},
		},
	}
	messenger := &fakeMessenger{}

	engine := newTestEngine(store, fetcher, messenger)
	engine.RunTick(context.Background())

	sent := messenger.messages()
	if len(sent) != 1 || sent[0].kind != "text" {
		t.Errorf("expected only the caption message, got %+v", sent)
	}

	// The post still counts as processed
	if got := store.LastProcessed("acc1"); got != "a1" {
		t.Errorf("expected lastProcessedPostId a1, got %q", got)
	}
}

func TestUnknownMediaTypeIsDroppedButProcessed(t *testing.T) {
	store, _ := newTestStore(t, testStateJSON)

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	store.SetCursor("acc1", base)
	store.SetLastProcessed("acc1", "p0")

	post := instagram.Post{
		ID:        "x1",
		MediaType: instagram.MediaType("REEL_EXPERIMENT"),
		MediaURL:  "https://cdn.example/x1",
		Caption:   "should not be sent",
		Timestamp: instagram.Timestamp{Time: base.Add(10 * time.Minute)},
	}

	fetcher := &fakeFetcher{posts: map[string][]instagram.Post{"tok1": {post}}}
	messenger := &fakeMessenger{}

	engine := newTestEngine(store, fetcher, messenger)
	engine.RunTick(context.Background())

	if len(messenger.messages()) != 0 {
		t.Errorf("expected no messages for unknown media type, got %+v", messenger.messages())
	}
	if got := store.LastProcessed("acc1"); got != "x1" {
		t.Errorf("expected unknown-type post marked processed, got %q", got)
	}
}
