package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"sufec-tui/internal/model"
)

func testAccount() *model.Account {
	return &model.Account{
		Self: "me@example.org",
		Contacts: []model.Contact{
			{Address: "alice@example.org", Name: "alice"},
		},
		Rooms: []model.Room{
			{
				ID:      "room-abcdefgh",
				Name:    "pair",
				Members: []model.Address{"alice@example.org", "bob@example.org"},
				History: []model.HistoryEntry{
					{Sender: "alice@example.org", Timestamp: 1111, Content: model.TextContent("hey")},
					{Sender: "me@example.org", Timestamp: 2222, Content: model.TextContent("hi"), Status: model.DeliverySent},
				},
				Unseen: 2,
			},
		},
		EphPub: model.Key{9, 8, 7},
		EphSec: model.Key{6, 5, 4},
	}
}

func TestAccount_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	want := testAccount()
	if err := s.SaveAccount(want); err != nil {
		t.Fatalf("SaveAccount: %v", err)
	}
	got, err := s.LoadAccount()
	if err != nil {
		t.Fatalf("LoadAccount: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestAccount_RoundTrip_UnknownContentVariant(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	raw := json.RawMessage(`{"kind":"location","lat":1.5,"lon":-3.25}`)
	want := testAccount()
	want.Rooms[0].History = append(want.Rooms[0].History, model.HistoryEntry{
		Sender:    "bob@example.org",
		Timestamp: 3333,
		Content:   model.MessageContent{Kind: "location", Raw: raw},
	})

	if err := s.SaveAccount(want); err != nil {
		t.Fatalf("SaveAccount: %v", err)
	}
	got, err := s.LoadAccount()
	if err != nil {
		t.Fatalf("LoadAccount: %v", err)
	}
	last := got.Rooms[0].History[len(got.Rooms[0].History)-1].Content
	if last.Kind != "location" {
		t.Fatalf("kind = %s; want location", last.Kind)
	}
	var a, b any
	if err := json.Unmarshal(raw, &a); err != nil {
		t.Fatalf("unmarshal want: %v", err)
	}
	if err := json.Unmarshal(last.Raw, &b); err != nil {
		t.Fatalf("unmarshal got: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("unknown variant payload mangled:\nwant %s\ngot  %s", raw, last.Raw)
	}
}

func TestLoadAccount_MissingIsError(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	if _, err := s.LoadAccount(); err == nil {
		t.Fatalf("expected an error for a missing snapshot")
	}
}

func TestSaveAccount_LeavesNoTempFile(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	if err := s.SaveAccount(testAccount()); err != nil {
		t.Fatalf("SaveAccount: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir, accountFileName+".tmp")); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}
