package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"kbstudio/internal/domain"
)

// storeTx groups the statements of one store mutation
type storeTx struct {
	tx *sql.Tx
}

// beginTx starts a new transaction
func (s *Store) beginTx() (*storeTx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &storeTx{tx: tx}, nil
}

// loadWorkflow reads a workflow inside the transaction
func (t *storeTx) loadWorkflow(id string) (*domain.Workflow, error) {
	row := t.tx.QueryRow(`
		SELECT id, name, document, created_at, updated_at
		FROM workflows WHERE id = ?
	`, id)
	w, err := scanWorkflow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workflow %s: %w", id, domain.ErrNotFound)
	}
	return w, err
}

// insertWorkflow adds a new workflow row
func (t *storeTx) insertWorkflow(w *domain.Workflow) error {
	raw, err := w.Document.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	_, err = t.tx.Exec(`
		INSERT INTO workflows (id, name, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, w.ID, w.Name, string(raw), w.CreatedAt.UnixMilli(), w.UpdatedAt.UnixMilli())
	return err
}

// saveDocument writes the document and updated_at of an existing workflow
func (t *storeTx) saveDocument(w *domain.Workflow) error {
	raw, err := w.Document.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	_, err = t.tx.Exec(`
		UPDATE workflows SET document = ?, updated_at = ? WHERE id = ?
	`, string(raw), w.UpdatedAt.UnixMilli(), w.ID)
	return err
}

// deleteWorkflow removes a workflow row and its node index
func (t *storeTx) deleteWorkflow(id string) error {
	if _, err := t.tx.Exec(`DELETE FROM workflow_nodes WHERE workflow_id = ?`, id); err != nil {
		return err
	}
	res, err := t.tx.Exec(`DELETE FROM workflows WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("workflow %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// insertNodeIDs indexes new node IDs, failing on the first one already present
func (t *storeTx) insertNodeIDs(workflowID string, nodeIDs []string) error {
	for _, id := range nodeIDs {
		res, err := t.tx.Exec(`
			INSERT OR IGNORE INTO workflow_nodes (workflow_id, node_id) VALUES (?, ?)
		`, workflowID, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("node %s in workflow %s: %w", id, workflowID, domain.ErrNodeIDInUse)
		}
	}
	return nil
}

// replaceNodeIDs rebuilds the node index of a workflow
func (t *storeTx) replaceNodeIDs(workflowID string, nodeIDs []string) error {
	if _, err := t.tx.Exec(`DELETE FROM workflow_nodes WHERE workflow_id = ?`, workflowID); err != nil {
		return err
	}
	for _, id := range nodeIDs {
		if _, err := t.tx.Exec(`
			INSERT OR IGNORE INTO workflow_nodes (workflow_id, node_id) VALUES (?, ?)
		`, workflowID, id); err != nil {
			return err
		}
	}
	return nil
}

// Commit commits the transaction
func (t *storeTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *storeTx) Rollback() error {
	return t.tx.Rollback()
}
