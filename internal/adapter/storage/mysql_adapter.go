package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MySQLAdapter persists slots in a single kv_slots table, one row per slot.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// EnsureSchema creates the slot table if it does not exist.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_slots (
			name VARCHAR(191) PRIMARY KEY,
			value MEDIUMBLOB NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("create kv_slots: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := m.db.QueryRowContext(ctx,
		`SELECT value FROM kv_slots WHERE name = ?`, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query slot %s: %w", key, err)
	}
	return value, nil
}

func (m *MySQLAdapter) Set(ctx context.Context, key string, value []byte) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO kv_slots (name, value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE value = ?`,
		key, value, value,
	)
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", key, err)
	}
	return nil
}

// SetMulti writes all slots in one transaction.
func (m *MySQLAdapter) SetMulti(ctx context.Context, kv map[string][]byte) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for key, value := range kv {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO kv_slots (name, value) VALUES (?, ?)
			ON DUPLICATE KEY UPDATE value = ?`,
			key, value, value,
		)
		if err != nil {
			return fmt.Errorf("upsert slot %s: %w", key, err)
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) Delete(ctx context.Context, key string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM kv_slots WHERE name = ?`, key)
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}
