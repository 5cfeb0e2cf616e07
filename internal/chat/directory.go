package chat

import "sufec-tui/internal/model"

// ResolveRecipient maps a human-entered string to an address: a contact
// display name wins, then a parseable raw address. The first contact
// with a matching name is used; duplicate names are an accepted
// ambiguity, not an error.
func ResolveRecipient(a *model.Account, input string) (model.Address, bool) {
	for i := range a.Contacts {
		if a.Contacts[i].Name == input {
			return a.Contacts[i].Address, true
		}
	}
	addr, err := model.ParseAddress(input)
	if err != nil {
		return "", false
	}
	return addr, true
}

// DisplayName renders addr for humans: "me" for the account's own
// address, the contact name if known, else the raw address.
func DisplayName(a *model.Account, addr model.Address) string {
	if addr == a.Self {
		return "me"
	}
	for i := range a.Contacts {
		if a.Contacts[i].Address == addr {
			return a.Contacts[i].Name
		}
	}
	return addr.String()
}

// UpsertContact inserts a contact or renames the existing one for the
// same address (the directory holds at most one contact per address).
func UpsertContact(a *model.Account, addr model.Address, name string) {
	for i := range a.Contacts {
		if a.Contacts[i].Address == addr {
			a.Contacts[i].Name = name
			return
		}
	}
	a.Contacts = append(a.Contacts, model.Contact{Address: addr, Name: name})
}
