package chat

import (
	"testing"

	"sufec-tui/internal/model"
)

func TestResolveRecipient(t *testing.T) {
	t.Parallel()

	a := &model.Account{
		Self: self,
		Contacts: []model.Contact{
			{Address: addrA, Name: "alice"},
			{Address: addrB, Name: "alice"}, // duplicate name: first wins
		},
	}

	if got, ok := ResolveRecipient(a, "alice"); !ok || got != addrA {
		t.Fatalf("ResolveRecipient(alice) = %s, %v; want %s, true", got, ok, addrA)
	}
	if got, ok := ResolveRecipient(a, "carol@example.org"); !ok || got != addrC {
		t.Fatalf("ResolveRecipient(raw) = %s, %v; want %s, true", got, ok, addrC)
	}
	if _, ok := ResolveRecipient(a, "not an address"); ok {
		t.Fatalf("ResolveRecipient accepted malformed input")
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	a := &model.Account{
		Self:     self,
		Contacts: []model.Contact{{Address: addrA, Name: "alice"}},
	}
	if got := DisplayName(a, self); got != "me" {
		t.Fatalf("DisplayName(self) = %q; want me", got)
	}
	if got := DisplayName(a, addrA); got != "alice" {
		t.Fatalf("DisplayName(contact) = %q; want alice", got)
	}
	if got := DisplayName(a, addrB); got != addrB.String() {
		t.Fatalf("DisplayName(unknown) = %q; want raw address", got)
	}
}

func TestUpsertContact_RenameSemantics(t *testing.T) {
	t.Parallel()

	a := &model.Account{Self: self}
	UpsertContact(a, addrA, "alice")
	UpsertContact(a, addrA, "al")
	if len(a.Contacts) != 1 {
		t.Fatalf("directory holds %d contacts for one address; want 1", len(a.Contacts))
	}
	if a.Contacts[0].Name != "al" {
		t.Fatalf("rename did not stick: %q", a.Contacts[0].Name)
	}
}
