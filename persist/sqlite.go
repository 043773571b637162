package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at dsn.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			conversation_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			agent_id TEXT,
			agent_name TEXT,
			language TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id, updated_at)`,
		`CREATE TABLE IF NOT EXISTS turns (
			turn_id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			language TEXT,
			translations TEXT,
			metadata TEXT,
			attachments TEXT,
			error INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (conversation_id) REFERENCES conversations(conversation_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_conversation ON turns(conversation_id, seq)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save upserts the conversation row and every turn of the snapshot. Turn seq
// is the slice position, so the stored order is the append order.
func (s *SQLiteStore) Save(ctx context.Context, userID string, p domain.PersistencePayload) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversations (conversation_id, user_id, title, agent_id, agent_name, language, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(conversation_id) DO UPDATE SET
			title = excluded.title,
			agent_id = excluded.agent_id,
			agent_name = excluded.agent_name,
			language = excluded.language,
			updated_at = excluded.updated_at`,
		p.ID, userID, p.Title, nullable(p.AgentID), nullable(p.AgentName), p.Language, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	for i, turn := range p.Turns {
		translations, _ := json.Marshal(turn.Translations)
		metadata, _ := json.Marshal(turn.Metadata)
		attachments, _ := json.Marshal(turn.Attachments)

		_, err = tx.ExecContext(ctx,
			`INSERT INTO turns (turn_id, conversation_id, seq, role, content, created_at, language, translations, metadata, attachments, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(turn_id) DO UPDATE SET
				seq = excluded.seq,
				translations = excluded.translations,
				metadata = excluded.metadata,
				attachments = excluded.attachments,
				error = excluded.error`,
			turn.ID, p.ID, i, string(turn.Role), turn.Content, turn.Timestamp,
			nullable(turn.Language), string(translations), string(metadata), string(attachments), turn.Error)
		if err != nil {
			return fmt.Errorf("failed to save turn: %w", err)
		}
	}

	return tx.Commit()
}

// LoadAll returns every stored conversation for a user, newest first, each
// with its full turn list in append order.
func (s *SQLiteStore) LoadAll(ctx context.Context, userID string) ([]domain.PersistencePayload, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT conversation_id, title, agent_id, agent_name, language, created_at, updated_at
		 FROM conversations WHERE user_id = ? ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var payloads []domain.PersistencePayload
	for rows.Next() {
		var p domain.PersistencePayload
		var agentID, agentName sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &agentID, &agentName, &p.Language, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		p.AgentID = agentID.String
		p.AgentName = agentName.String
		payloads = append(payloads, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range payloads {
		turns, err := s.loadTurns(ctx, payloads[i].ID)
		if err != nil {
			return nil, err
		}
		payloads[i].Turns = turns
	}

	return payloads, nil
}

func (s *SQLiteStore) loadTurns(ctx context.Context, conversationID string) ([]domain.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT turn_id, role, content, created_at, language, translations, metadata, attachments, error
		 FROM turns WHERE conversation_id = ? ORDER BY seq ASC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var t domain.Turn
		var role string
		var language, translations, metadata, attachments sql.NullString
		if err := rows.Scan(&t.ID, &role, &t.Content, &t.Timestamp, &language, &translations, &metadata, &attachments, &t.Error); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		t.Role = domain.Role(role)
		t.Language = language.String
		if translations.Valid && translations.String != "null" {
			_ = json.Unmarshal([]byte(translations.String), &t.Translations)
		}
		if metadata.Valid && metadata.String != "null" {
			_ = json.Unmarshal([]byte(metadata.String), &t.Metadata)
		}
		if attachments.Valid && attachments.String != "null" {
			_ = json.Unmarshal([]byte(attachments.String), &t.Attachments)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Delete removes a conversation and, via cascade, its turns. Ownership is
// enforced by the user_id match.
func (s *SQLiteStore) Delete(ctx context.Context, userID, conversationID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE conversation_id = ? AND user_id = ?`, conversationID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
