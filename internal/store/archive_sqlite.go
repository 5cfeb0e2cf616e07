package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"sufec-tui/internal/model"

	_ "modernc.org/sqlite"
)

const archiveFileName = "archive.sqlite"

// The archive is a derived, queryable copy of room history. It is never
// read back into the account; the JSON snapshot stays the single source
// of truth.

func (s Store) archivePath() string {
	return filepath.Join(s.Dir, archiveFileName)
}

func (s Store) openArchive(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.archivePath())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateArchive(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateArchive(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rooms (
			room_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			members_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			room_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			sender TEXT NOT NULL,
			ts_micros INTEGER NOT NULL,
			kind TEXT NOT NULL,
			body TEXT NOT NULL,
			PRIMARY KEY (room_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_body ON messages(body);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// ExportArchive upserts every room and history entry into the archive.
// History is append-only, so (room_id, seq) is stable across exports and
// re-exporting is idempotent.
func (s Store) ExportArchive(ctx context.Context, a *model.Account) error {
	db, err := s.openArchive(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i := range a.Rooms {
		r := &a.Rooms[i]
		members, err := json.Marshal(r.Members)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rooms(room_id, name, members_json) VALUES(?, ?, ?)
			 ON CONFLICT(room_id) DO UPDATE SET name=excluded.name, members_json=excluded.members_json;`,
			string(r.ID), r.Name, string(members)); err != nil {
			return err
		}
		for seq, e := range r.History {
			body := e.Content.Text
			if e.Content.Kind != model.ContentText {
				body = string(e.Content.Raw)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO messages(room_id, seq, sender, ts_micros, kind, body)
				 VALUES(?, ?, ?, ?, ?, ?);`,
				string(r.ID), seq, e.Sender.String(), int64(e.Timestamp), string(e.Content.Kind), body); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

type ArchiveHit struct {
	RoomID    model.RoomID
	RoomName  string
	Sender    model.Address
	Timestamp uint64
	Body      string
}

// SearchArchive returns text messages whose body contains substr,
// oldest first.
func (s Store) SearchArchive(ctx context.Context, substr string) ([]ArchiveHit, error) {
	db, err := s.openArchive(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT m.room_id, r.name, m.sender, m.ts_micros, m.body
		 FROM messages m JOIN rooms r ON r.room_id = m.room_id
		 WHERE m.kind = ? AND instr(m.body, ?) > 0
		 ORDER BY m.ts_micros ASC, m.seq ASC;`,
		string(model.ContentText), substr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []ArchiveHit
	for rows.Next() {
		var h ArchiveHit
		var roomID, sender string
		var ts int64
		if err := rows.Scan(&roomID, &h.RoomName, &sender, &ts, &h.Body); err != nil {
			return nil, err
		}
		h.RoomID = model.RoomID(roomID)
		h.Sender = model.Address(sender)
		if ts < 0 {
			return nil, fmt.Errorf("archive: negative timestamp for room %s", roomID)
		}
		h.Timestamp = uint64(ts)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
