package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const createPendingTable = `
	CREATE TABLE IF NOT EXISTS pending_evaluations (
			"token" TEXT PRIMARY KEY,
			"fingerprint" TEXT NOT NULL UNIQUE,
			"original_name" TEXT NOT NULL,
			"media_type" TEXT NOT NULL,
			"staged_path" TEXT NOT NULL,
			"size" INTEGER NOT NULL,
			"score" INTEGER NOT NULL,
			"reason" TEXT NOT NULL,
			"started_at" TEXT NOT NULL,
			"record_id" TEXT
	)`

// OpenDB opens the sqlite database holding pending evaluations and creates its schema.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("OpenDB(): failed to open database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("OpenDB(): failed to connect to database: %w", err)
	}
	if _, err := db.Exec(createPendingTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("OpenDB(): failed to create pending_evaluations table: %w", err)
	}
	return db, nil
}
