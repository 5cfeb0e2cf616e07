package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sufec-tui/internal/model"
)

const accountFileName = "account.json"

// Store reads and writes one account directory. The account snapshot is
// a single JSON file overwritten whole on every mutation; writes go
// through a temp file and rename so a crash mid-write never corrupts
// the previous snapshot.
type Store struct {
	Dir string
}

// DefaultDir is ~/.sufec unless SUFEC_DIR overrides it.
func DefaultDir() (string, error) {
	if dir := os.Getenv("SUFEC_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sufec"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o700)
}

func (s Store) accountPath() string {
	return filepath.Join(s.Dir, accountFileName)
}

// Exists reports whether an account snapshot is present.
func (s Store) Exists() bool {
	_, err := os.Stat(s.accountPath())
	return err == nil
}

// LoadAccount reads the snapshot. A missing or unreadable snapshot is an
// error; the process cannot proceed without initial state.
func (s Store) LoadAccount() (*model.Account, error) {
	b, err := os.ReadFile(s.accountPath())
	if err != nil {
		return nil, fmt.Errorf("read account snapshot: %w", err)
	}
	var a model.Account
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("parse account snapshot: %w", err)
	}
	return &a, nil
}

// SaveAccount overwrites the whole snapshot.
func (s Store) SaveAccount(a *model.Account) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	path := s.accountPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
