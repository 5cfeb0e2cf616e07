package store

import (
	"context"
	"testing"

	"sufec-tui/internal/model"
)

func TestArchive_ExportAndSearch(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	a := testAccount()
	ctx := context.Background()

	if err := s.ExportArchive(ctx, a); err != nil {
		t.Fatalf("ExportArchive: %v", err)
	}

	hits, err := s.SearchArchive(ctx, "hey")
	if err != nil {
		t.Fatalf("SearchArchive: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d; want 1", len(hits))
	}
	if hits[0].RoomID != "room-abcdefgh" || hits[0].Sender != "alice@example.org" || hits[0].Body != "hey" {
		t.Fatalf("unexpected hit: %#v", hits[0])
	}

	if none, err := s.SearchArchive(ctx, "no-such-text"); err != nil || len(none) != 0 {
		t.Fatalf("expected no hits; got %d, err %v", len(none), err)
	}
}

func TestArchive_ExportIsIdempotent(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	a := testAccount()
	ctx := context.Background()

	if err := s.ExportArchive(ctx, a); err != nil {
		t.Fatalf("first export: %v", err)
	}
	// History grew between exports; re-export picks up the new entry
	// without duplicating the old ones.
	a.Rooms[0].History = append(a.Rooms[0].History, model.HistoryEntry{
		Sender: "bob@example.org", Timestamp: 4444, Content: model.TextContent("hey again"),
	})
	if err := s.ExportArchive(ctx, a); err != nil {
		t.Fatalf("second export: %v", err)
	}

	hits, err := s.SearchArchive(ctx, "hey")
	if err != nil {
		t.Fatalf("SearchArchive: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d; want 2 (no duplicates)", len(hits))
	}
}
