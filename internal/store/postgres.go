package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/npezzotti/scholarly/internal/types"
)

const createSnapshotsTable = "CREATE TABLE IF NOT EXISTS snapshots " +
	"(key text PRIMARY KEY, document jsonb NOT NULL, updated_at timestamptz NOT NULL)"

// PgHubStore keeps the snapshot document in a single row keyed by
// StorageKey, matching the one-slot storage model of the file store.
type PgHubStore struct {
	log  *log.Logger
	conn *sql.DB
}

func NewPgHubStore(logger *log.Logger, dsn string) (*PgHubStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if _, err := db.Exec(createSnapshotsTable); err != nil {
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}

	return &PgHubStore{log: logger, conn: db}, nil
}

func (s *PgHubStore) Ping() error {
	return s.conn.Ping()
}

func (s *PgHubStore) Load() []types.Hub {
	row := s.conn.QueryRow(
		"SELECT document FROM snapshots WHERE key = $1 LIMIT 1",
		StorageKey,
	)

	var data []byte
	if err := row.Scan(&data); err != nil {
		if err != sql.ErrNoRows {
			s.log.Printf("read snapshot: %v", err)
		}
		return nil
	}

	var hubs []types.Hub
	if err := json.Unmarshal(data, &hubs); err != nil {
		s.log.Printf("parse snapshot: %v", err)
		return nil
	}

	return hubs
}

func (s *PgHubStore) Save(hubs []types.Hub) error {
	if hubs == nil {
		hubs = []types.Hub{}
	}

	data, err := json.Marshal(hubs)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.conn.Exec(
		"INSERT INTO snapshots (key, document, updated_at) VALUES ($1, $2, $3) "+
			"ON CONFLICT (key) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at",
		StorageKey,
		data,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	return nil
}

func (s *PgHubStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
