package sqlite

import (
	"time"

	"kbstudio/internal/domain"
)

// Reindex rebuilds the node index of every workflow from its stored document
func (s *Store) Reindex() (*domain.IndexStats, error) {
	start := time.Now()
	stats := &domain.IndexStats{}

	rows, err := s.db.Query(`
		SELECT id, name, document, created_at, updated_at FROM workflows
	`)
	if err != nil {
		return nil, err
	}
	var workflows []*domain.Workflow
	for rows.Next() {
		w, err := scanWorkflow(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		workflows = append(workflows, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tx, err := s.beginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, w := range workflows {
		ids := domain.CollectNodeIDs(w.Document)
		if err := tx.replaceNodeIDs(w.ID, ids); err != nil {
			return nil, err
		}
		stats.WorkflowsScanned++
		stats.NodesIndexed += len(ids)
		stats.DuplicateIDs += len(domain.DuplicateNodeIDs(w.Document))
	}

	if _, err := tx.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_reindex_time', ?)`,
		time.Now().Unix()); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}
