package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kbstudio/internal/domain"
	"kbstudio/internal/ports"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Store implements ports.WorkflowStore using SQLite
type Store struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Ensure Store implements WorkflowStore
var _ ports.WorkflowStore = (*Store)(nil)

// NewStore creates a new SQLite workflow store
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Open opens (or creates) the database at dbPath
func (s *Store) Open(dbPath string) error {
	// Expand ~ in path
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	s.dbPath = dbPath

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	// Per-connection pragmas are set through the DSN
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// WAL mode + schema in single batch
	_, err = db.Exec(`
		PRAGMA journal_mode = WAL;

		CREATE TABLE IF NOT EXISTS workflows (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			document TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS workflow_nodes (
			workflow_id TEXT NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
			node_id TEXT NOT NULL,
			PRIMARY KEY (workflow_id, node_id)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_workflows_name ON workflows(name);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.dbPath
}

// ListWorkflows returns summaries of all workflows ordered by name
func (s *Store) ListWorkflows() ([]domain.WorkflowSummary, error) {
	rows, err := s.db.Query(`
		SELECT id, name, document, created_at, updated_at
		FROM workflows ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.WorkflowSummary
	for rows.Next() {
		w, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, domain.Summarize(w))
	}
	return summaries, rows.Err()
}

// GetWorkflow retrieves a workflow by ID
func (s *Store) GetWorkflow(id string) (*domain.Workflow, error) {
	row := s.db.QueryRow(`
		SELECT id, name, document, created_at, updated_at
		FROM workflows WHERE id = ?
	`, id)
	w, err := scanWorkflow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workflow %s: %w", id, domain.ErrNotFound)
	}
	return w, err
}

// NodeExists reports whether nodeID is used anywhere in the workflow
func (s *Store) NodeExists(workflowID, nodeID string) (bool, error) {
	var one int
	err := s.db.QueryRow(`
		SELECT 1 FROM workflow_nodes WHERE workflow_id = ? AND node_id = ?
	`, workflowID, nodeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateWorkflow stores doc as a new workflow
func (s *Store) CreateWorkflow(name string, doc domain.Value) (*domain.Workflow, error) {
	if err := domain.EnsureWorkflowShape(doc); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	w := &domain.Workflow{
		ID:        uuid.NewString(),
		Name:      name,
		Document:  doc,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.beginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.insertWorkflow(w); err != nil {
		return nil, err
	}
	if err := tx.replaceNodeIDs(w.ID, domain.CollectNodeIDs(doc)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateDocument replaces the document of a workflow and reindexes its nodes
func (s *Store) UpdateDocument(id string, doc domain.Value) (*domain.Workflow, error) {
	if err := domain.EnsureWorkflowShape(doc); err != nil {
		return nil, err
	}

	tx, err := s.beginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w, err := tx.loadWorkflow(id)
	if err != nil {
		return nil, err
	}
	w.Document = doc
	w.UpdatedAt = s.now().UTC()

	if err := tx.saveDocument(w); err != nil {
		return nil, err
	}
	if err := tx.replaceNodeIDs(id, domain.CollectNodeIDs(doc)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}

// RenameWorkflow changes the display name of a workflow
func (s *Store) RenameWorkflow(id, name string) error {
	res, err := s.db.Exec(`
		UPDATE workflows SET name = ?, updated_at = ? WHERE id = ?
	`, name, s.now().UTC().UnixMilli(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("workflow %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteWorkflow removes a workflow and its node index
func (s *Store) DeleteWorkflow(id string) error {
	tx, err := s.beginTx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.deleteWorkflow(id); err != nil {
		return err
	}
	return tx.Commit()
}

// MergeFragment appends the fragment to a workflow. Nothing is written when a
// fragment node ID is already in use in the workflow.
func (s *Store) MergeFragment(workflowID string, fragment domain.Value) (*domain.MergeStats, error) {
	tx, err := s.beginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w, err := tx.loadWorkflow(workflowID)
	if err != nil {
		return nil, err
	}

	stats, err := domain.MergeFragment(w.Document, fragment)
	if err != nil {
		return nil, err
	}
	if err := tx.insertNodeIDs(workflowID, stats.NodeIDs); err != nil {
		return nil, err
	}

	w.UpdatedAt = s.now().UTC()
	if err := tx.saveDocument(w); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*domain.Workflow, error) {
	var (
		w                domain.Workflow
		raw              string
		created, updated int64
	)
	if err := row.Scan(&w.ID, &w.Name, &raw, &created, &updated); err != nil {
		return nil, err
	}
	doc, err := domain.ParseJSON([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("workflow %s has a corrupt document: %w", w.ID, err)
	}
	w.Document = doc
	w.CreatedAt = time.UnixMilli(created).UTC()
	w.UpdatedAt = time.UnixMilli(updated).UTC()
	return &w, nil
}
