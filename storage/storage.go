// Package storage provides SQLite-based persistence for compiled
// hazard models. Specifications and compiled maps are stored as JSON
// blobs next to a few indexed scalar columns, so a session can list
// and reload its models without re-deriving anything.
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hazmap-xyz/go-hazmap/compile"
	"github.com/hazmap-xyz/go-hazmap/parser"
)

// Store handles SQLite database operations for compiled models.
type Store struct {
	db *sql.DB
}

// Model is one persisted compilation: the specification document that
// produced it and the serialized maps, plus summary columns for listing.
type Model struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Hash         string    `json:"hash"`
	CreatedAt    time.Time `json:"created_at"`
	States       int       `json:"states"`
	Transitions  int       `json:"transitions"`
	Coefficients int       `json:"coefficients"`
	SpecJSON     string    `json:"spec"`
	ResultJSON   string    `json:"result"`
}

// New creates a new Store with the given database path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA synchronous = NORMAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS models (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hash TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		states INTEGER NOT NULL,
		transitions INTEGER NOT NULL,
		coefficients INTEGER NOT NULL DEFAULT 0,
		spec_json TEXT NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_models_name ON models(name);
	CREATE INDEX IF NOT EXISTS idx_models_hash ON models(hash);
	CREATE INDEX IF NOT EXISTS idx_models_created ON models(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SaveModel persists a compiled model under a human-readable name.
// specData is the JSON specification document the result was compiled
// from; it is stored verbatim so the model can be recompiled later.
// Returns the generated record id.
func (s *Store) SaveModel(name string, specData []byte, res *compile.Result) (string, error) {
	resultData, err := parser.ResultToJSON(res)
	if err != nil {
		return "", fmt.Errorf("serialize result: %w", err)
	}

	states := 0
	for _, p := range res.MapID {
		if p.From > states {
			states = p.From
		}
		if p.To > states {
			states = p.To
		}
	}

	id := uuid.NewString()
	hash := sha256.Sum256(specData)
	_, err = s.db.Exec(
		`INSERT INTO models (id, name, hash, created_at, states, transitions, coefficients, spec_json, result_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name, hex.EncodeToString(hash[:]), time.Now().UTC(), states, len(res.MapID), res.NCoef,
		string(specData), string(resultData),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetModel retrieves a model by id.
func (s *Store) GetModel(id string) (*Model, error) {
	row := s.db.QueryRow(
		`SELECT id, name, hash, created_at, states, transitions, coefficients, spec_json, result_json
		 FROM models WHERE id = ?`, id,
	)
	return scanModel(row)
}

// GetModelByName retrieves the most recently saved model with the
// given name.
func (s *Store) GetModelByName(name string) (*Model, error) {
	row := s.db.QueryRow(
		`SELECT id, name, hash, created_at, states, transitions, coefficients, spec_json, result_json
		 FROM models WHERE name = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, name,
	)
	return scanModel(row)
}

// RecentModels returns the most recently saved models.
func (s *Store) RecentModels(limit int) ([]*Model, error) {
	rows, err := s.db.Query(
		`SELECT id, name, hash, created_at, states, transitions, coefficients, spec_json, result_json
		 FROM models ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []*Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

// DeleteModel removes a model by id.
func (s *Store) DeleteModel(id string) error {
	_, err := s.db.Exec(`DELETE FROM models WHERE id = ?`, id)
	return err
}

// LoadSpec parses the stored specification document of a model, ready
// for recompilation.
func (s *Store) LoadSpec(id string) (*compile.ModelSpec, error) {
	m, err := s.GetModel(id)
	if err != nil {
		return nil, err
	}
	return parser.SpecFromJSON([]byte(m.SpecJSON))
}

// ExportModelJSON exports a model record, with its specification and
// maps inlined as JSON values rather than quoted strings.
func (s *Store) ExportModelJSON(id string) ([]byte, error) {
	m, err := s.GetModel(id)
	if err != nil {
		return nil, err
	}

	export := map[string]any{
		"id":           m.ID,
		"name":         m.Name,
		"hash":         m.Hash,
		"created_at":   m.CreatedAt,
		"states":       m.States,
		"transitions":  m.Transitions,
		"coefficients": m.Coefficients,
		"spec":         json.RawMessage(m.SpecJSON),
		"result":       json.RawMessage(m.ResultJSON),
	}

	return json.MarshalIndent(export, "", "  ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanModel(row rowScanner) (*Model, error) {
	var m Model
	err := row.Scan(&m.ID, &m.Name, &m.Hash, &m.CreatedAt, &m.States, &m.Transitions,
		&m.Coefficients, &m.SpecJSON, &m.ResultJSON)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
